package handler

import (
	"strconv"

	"midorisky/internal/modules/notify/domain/repository"
	"midorisky/pkg/back"
	"midorisky/pkg/xerr"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	repo repository.NotificationRepository
}

func NewNotificationHandler(repo repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{repo: repo}
}

func (h *NotificationHandler) List(c *gin.Context) {
	username := c.GetString("username")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifs, err := h.repo.ListByUser(c.Request.Context(), username, limit)
	back.Result(c, notifs, err)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	username := c.GetString("username")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		back.Error(c, xerr.BadRequest, "invalid notification id")
		return
	}

	err = h.repo.MarkRead(c.Request.Context(), username, id)
	back.Result(c, nil, err)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	username := c.GetString("username")
	err := h.repo.MarkAllRead(c.Request.Context(), username)
	back.Result(c, nil, err)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	username := c.GetString("username")
	count, err := h.repo.CountUnread(c.Request.Context(), username)
	back.Result(c, gin.H{"count": count}, err)
}
