package http

import (
	"midorisky/internal/config"
	jwtMiddleware "midorisky/internal/middleware/jwt"
	deviceHandler "midorisky/internal/modules/device/interface/http"
	notifyHandler "midorisky/internal/modules/notify/interface/http"
	taskHandler "midorisky/internal/modules/task/interface/http"
	"midorisky/pkg/ssl"

	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers collects every HTTP-facing handler the router mounts.
type Handlers struct {
	Ws           *notifyHandler.WsHandler
	Notification *notifyHandler.NotificationHandler
	Task         *taskHandler.TaskHandler
	Device       *deviceHandler.DeviceHandler
}

func NewEngine(conf *config.Config, h Handlers) *gin.Engine {
	engine := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))
	engine.Use(ssl.TlsHandler(conf.MainConfig.Host, conf.MainConfig.Port))

	// The websocket handshake carries its token as a query parameter, so it
	// sits outside the header-based auth group.
	engine.GET("/wss", h.Ws.Connect)

	authed := engine.Group("/")
	authed.Use(jwtMiddleware.Auth())

	authed.GET("/notifications", h.Notification.List)
	authed.GET("/notifications/unread-count", h.Notification.UnreadCount)
	authed.PUT("/notifications/:id/read", h.Notification.MarkRead)
	authed.PUT("/notifications/read-all", h.Notification.MarkAllRead)

	authed.POST("/staff/tasks", h.Task.Create)
	authed.PUT("/staff/tasks/:id", h.Task.Update)
	authed.PUT("/staff/tasks/:id/assignees", h.Task.Assign)
	authed.POST("/staff/tasks/:id/comments", h.Task.Comment)

	authed.GET("/iot/view-all", h.Device.List)
	authed.POST("/iot/create", h.Device.Create)
	authed.DELETE("/iot/:id", h.Device.Delete)

	return engine
}
