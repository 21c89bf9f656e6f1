package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	httpServer "midorisky/api/http"
	"midorisky/internal/config"
	"midorisky/internal/initial"
	deviceService "midorisky/internal/modules/device/application/service"
	devicePersistence "midorisky/internal/modules/device/infrastructure/persistence"
	deviceHandler "midorisky/internal/modules/device/interface/http"
	"midorisky/internal/modules/device/interface/scheduler"
	notifyService "midorisky/internal/modules/notify/application/service"
	"midorisky/internal/modules/notify/infrastructure/mail"
	"midorisky/internal/modules/notify/infrastructure/mq/kafka"
	notifyPersistence "midorisky/internal/modules/notify/infrastructure/persistence"
	"midorisky/internal/modules/notify/infrastructure/queue"
	notifyHandler "midorisky/internal/modules/notify/interface/http"
	taskService "midorisky/internal/modules/task/application/service"
	taskPersistence "midorisky/internal/modules/task/infrastructure/persistence"
	taskHandler "midorisky/internal/modules/task/interface/http"
	userPersistence "midorisky/internal/modules/user/infrastructure/persistence"
	"midorisky/pkg/redis"
	"midorisky/pkg/ws"
	"midorisky/pkg/zlog"

	"go.uber.org/zap"
)

func main() {
	conf := config.GetConfig()
	zlog.Init(conf.LogConfig.LogPath)
	defer zlog.Sync()

	db, err := initial.NewGormDB(conf)
	if err != nil {
		zlog.Fatal("mysql connect failed", zap.Error(err))
	}
	initial.InitRedis(conf)
	defer redis.Close()

	publisher, err := kafka.NewPublisher(kafka.PublisherConfig{
		Brokers:  conf.KafkaConfig.Brokers,
		ClientID: conf.KafkaConfig.ClientID,
	})
	if err != nil {
		zlog.Fatal("kafka producer connect failed", zap.Error(err))
	}
	defer publisher.Close()

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:   conf.KafkaConfig.Brokers,
		GroupID:   conf.KafkaConfig.ConsumerGroupID,
		Topics:    []string{conf.KafkaConfig.NotifyTopic},
		ClientID:  conf.KafkaConfig.ClientID,
		BatchSize: conf.KafkaConfig.BatchSize,
	})
	if err != nil {
		zlog.Fatal("kafka consumer connect failed", zap.Error(err))
	}
	defer consumer.Close()

	mailer, err := mail.NewGomailSender(conf.MailConfig)
	if err != nil {
		zlog.Fatal("mail sender init failed", zap.Error(err))
	}

	wsHub := ws.NewHub()

	notifRepo := notifyPersistence.NewNotificationRepository(db)
	connRegistry := notifyPersistence.NewConnectionRegistry(db)
	taskRepo := taskPersistence.NewTaskRepository(db)
	userRepo := userPersistence.NewUserRepository(db)
	deviceRepo := devicePersistence.NewDeviceRepository(db)

	producer := notifyService.NewEventProducer(publisher, conf.KafkaConfig.NotifyTopic)
	materializer := notifyService.NewMaterializer(taskRepo, notifRepo)
	delivery := notifyService.NewDelivery(connRegistry, wsHub, userRepo, mailer)
	taskSvc := taskService.NewTaskService(taskRepo, producer)
	simulator := deviceService.NewSimulator(deviceRepo, producer,
		conf.SimulatorConfig.DowntimeChancePct, conf.SimulatorConfig.CooldownDays)

	worker := queue.NewNotifyConsumerWorker(consumer, materializer, delivery)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
			zlog.Fatal("notify consumer stopped", zap.Error(err))
		}
	}()

	schedulerMgr := scheduler.NewSchedulerManager(simulator, conf.SimulatorConfig.CronSpec)
	if err := schedulerMgr.Start(); err != nil {
		zlog.Fatal("scheduler start failed", zap.Error(err))
	}

	engine := httpServer.NewEngine(conf, httpServer.Handlers{
		Ws:           notifyHandler.NewWsHandler(wsHub, connRegistry),
		Notification: notifyHandler.NewNotificationHandler(notifRepo),
		Task:         taskHandler.NewTaskHandler(taskSvc),
		Device:       deviceHandler.NewDeviceHandler(deviceRepo),
	})

	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		zlog.Info("server starting", zap.String("addr", addr))
		if err := engine.Run(addr); err != nil {
			zlog.Fatal("server start failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	cancel()
	schedulerMgr.Stop()
	zlog.Info("shutdown complete")
}
