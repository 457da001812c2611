// Package main runs the meeting management HTTP server with WebSocket and graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/srithep/meeting-backend/config"
	"github.com/srithep/meeting-backend/internal/agendas"
	"github.com/srithep/meeting-backend/internal/attendees"
	"github.com/srithep/meeting-backend/internal/auth"
	"github.com/srithep/meeting-backend/internal/documents"
	"github.com/srithep/meeting-backend/internal/lineapi"
	"github.com/srithep/meeting-backend/internal/meetings"
	"github.com/srithep/meeting-backend/internal/middleware"
	"github.com/srithep/meeting-backend/internal/models"
	"github.com/srithep/meeting-backend/internal/notifications"
	"github.com/srithep/meeting-backend/internal/realtime"
	"github.com/srithep/meeting-backend/internal/users"
	"github.com/srithep/meeting-backend/pkg/database"
	"github.com/srithep/meeting-backend/pkg/queue"
	"github.com/srithep/meeting-backend/pkg/redis"
	"github.com/srithep/meeting-backend/pkg/response"
	"github.com/srithep/meeting-backend/pkg/storage"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3Client *storage.S3
	if cfg.AWS.Region != "" && cfg.AWS.DocumentsBucket != "" {
		s3Cfg := storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			DocumentsBucket:      cfg.AWS.DocumentsBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}
		s3Client, err = storage.NewS3(ctx, s3Cfg, logger)
		if err != nil {
			logger.Warn("s3 disabled, documents stay inline", zap.Error(err))
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	redisPubSub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, redisPubSub, redisPubSub)
	jobQueue := queue.NewQueue(rdb.Client, logger)
	lineClient := lineapi.NewClient(cfg.Line.ChannelAccessToken, logger)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Meetings
	meetingRepo := meetings.NewRepository(pool)
	meetingHandler := meetings.NewHandler(meetingRepo, logger)

	// Users and meeting access permissions
	userRepo := users.NewRepository(pool)
	userHandler := users.NewHandler(userRepo, meetingRepo, logger)

	// Agendas
	agendaRepo := agendas.NewRepository(pool)
	agendaHandler := agendas.NewHandler(agendaRepo, logger)

	// Attendees (invites, RSVP, LIFF self-registration)
	attendeeRepo := attendees.NewRepository(pool)
	attendeeHandler := attendees.NewHandler(attendeeRepo, userRepo, meetingRepo, hub, logger)

	// Documents
	documentRepo := documents.NewRepository(pool)
	documentHandler := documents.NewHandler(documentRepo, s3Client, logger)

	// Notifications with LINE fan-out
	notificationRepo := notifications.NewRepository(pool)
	notificationHandler := notifications.NewHandler(notificationRepo, jobQueue, lineClient.Configured(), logger)

	// LINE broadcast
	lineHandler := lineapi.NewHandler(lineClient, cfg.Line.TargetGroupID, logger)

	jwtValidate := func(token string) (uuid.UUID, error) {
		claims, err := jwtService.Validate(token)
		if err != nil {
			return uuid.Nil, err
		}
		return claims.UserID, nil
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Auth (public)
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/register", authHandler.Register)
	}

	// Public RSVP surface (no token): meeting view, status updates, LIFF registration
	router.GET("/public/meetings/:id", attendeeHandler.PublicMeeting)
	router.PATCH("/attendees/:id/status", attendeeHandler.UpdateStatus)
	router.POST("/attendees/line", attendeeHandler.LineRegister)

	// Protected API (JWT required)
	api := router.Group("")
	api.Use(middleware.JWT(jwtService))
	{
		admin := middleware.RequireRole(models.RoleAdmin)

		// Users and permissions (admin only)
		api.GET("/users", admin, userHandler.List)
		api.POST("/users", admin, userHandler.Create)
		api.PUT("/users/:id", admin, userHandler.Update)
		api.DELETE("/users/:id", admin, userHandler.Delete)
		api.PATCH("/users/:id/permissions", admin, userHandler.UpdatePermissions)
		api.POST("/users/:id/permissions/toggle", admin, userHandler.TogglePermission)
		api.POST("/users/:id/permissions/grant-all", admin, userHandler.GrantAllPermissions)
		api.POST("/users/:id/permissions/revoke-all", admin, userHandler.RevokeAllPermissions)

		// Meetings (list filtered by the caller's allow-list)
		api.GET("/meetings", meetingHandler.List)
		api.GET("/meetings/:id", meetingHandler.Get)
		api.POST("/meetings", admin, meetingHandler.Create)
		api.PUT("/meetings/:id", admin, meetingHandler.Update)
		api.DELETE("/meetings/:id", admin, meetingHandler.Delete)

		// Agendas
		api.GET("/agendas", agendaHandler.List)
		api.POST("/agendas", admin, agendaHandler.Create)
		api.PUT("/agendas/:id", admin, agendaHandler.Update)
		api.DELETE("/agendas/:id", admin, agendaHandler.Delete)

		// Attendees
		api.GET("/attendees", attendeeHandler.List)
		api.POST("/attendees", admin, attendeeHandler.Create)
		api.DELETE("/attendees/:id", admin, attendeeHandler.Delete)

		// Documents
		api.GET("/documents", documentHandler.List)
		api.GET("/documents/:id", documentHandler.Get)
		api.GET("/documents/:id/download", documentHandler.Download)
		api.POST("/documents", admin, documentHandler.Create)
		api.DELETE("/documents/:id", admin, documentHandler.Delete)

		// Notifications
		api.GET("/notifications", notificationHandler.List)
		api.POST("/notifications", admin, notificationHandler.Create)
		api.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
		api.DELETE("/notifications/:id", admin, notificationHandler.Delete)

		// LINE broadcast (admin only)
		api.POST("/line/broadcast", admin, lineHandler.Broadcast)
	}

	// WebSocket (token in query; anonymous RSVP viewers allowed)
	router.GET("/ws", realtime.ServeWs(hub, logger, jwtValidate))

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
