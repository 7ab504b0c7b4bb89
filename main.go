package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"messenger-service/internal/config"
	"messenger-service/internal/db"
	"messenger-service/internal/handlers"
	"messenger-service/internal/middleware"
	"messenger-service/internal/observability"
	"messenger-service/internal/rabbitmq"
	"messenger-service/internal/repositories"
	"messenger-service/internal/telemetry"
	"messenger-service/internal/ws"
	"messenger-service/pkg/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	shutdownTracer, err := observability.InitTracer(context.Background(), "messenger-service", cfg.OTLPAddr)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() { _ = shutdownTracer(context.Background()) }()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	if mode := rabbitmq.PublisherMode(publisher); mode == "noop" {
		log.Printf("event publisher mode=%s reason=%q", mode, rabbitmq.PublisherNoopReason(publisher))
	} else {
		log.Printf("event publisher mode=%s", mode)
	}
	observability.SetEventPublisher(publisher, "mail")

	audit := telemetry.NewAuditEmitter(publisher, cfg.AuditKey, "messenger-service", cfg.Environment)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	userRepo := repositories.NewUserRepo(database)
	mailRepo := repositories.NewMailRepo(database)
	roomRepo := repositories.NewRoomRepo(database)

	hub := ws.NewHub()
	mailHandler := handlers.NewMailHandler(mailRepo, userRepo, audit)
	roomHandler := handlers.NewRoomHandler(roomRepo)
	gateway := ws.NewGatewayHandler(hub, roomRepo, jwtManager, audit)

	router := gin.Default()
	router.Use(otelgin.Middleware("messenger-service"))
	router.Use(observability.HTTPMetricsMiddleware())

	authMiddleware := middleware.AuthMiddleware(jwtManager)

	api := router.Group("/api")
	api.POST("/messages", authMiddleware, mailHandler.SendMail)
	api.GET("/messages/inbox", authMiddleware, mailHandler.Inbox)
	api.GET("/messages/outbox", authMiddleware, mailHandler.Outbox)
	api.GET("/messages/:id", authMiddleware, mailHandler.GetMail)
	api.PUT("/messages/:id/read", authMiddleware, mailHandler.MarkRead)
	api.GET("/chat/rooms", authMiddleware, roomHandler.ListRooms)
	api.GET("/chat/rooms/:roomId/messages", authMiddleware, roomHandler.RoomHistory)

	router.GET("/ws/chat", gateway.Handle)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, audit, cfg.Environment == "development")

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
