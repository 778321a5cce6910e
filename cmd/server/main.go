package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/config"
	"github.com/anchor-ministry/backend/internal/auth"
	"github.com/anchor-ministry/backend/internal/chat"
	"github.com/anchor-ministry/backend/internal/media"
	"github.com/anchor-ministry/backend/internal/middleware"
	"github.com/anchor-ministry/backend/internal/posts"
	"github.com/anchor-ministry/backend/internal/questions"
	"github.com/anchor-ministry/backend/internal/realtime"
	"github.com/anchor-ministry/backend/internal/rooms"
	"github.com/anchor-ministry/backend/internal/sessions"
	"github.com/anchor-ministry/backend/internal/subscribers"
	"github.com/anchor-ministry/backend/internal/testimonies"
	"github.com/anchor-ministry/backend/pkg/database"
	"github.com/anchor-ministry/backend/pkg/queue"
	redisclient "github.com/anchor-ministry/backend/pkg/redis"
	"github.com/anchor-ministry/backend/pkg/storage"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	rdb, err := redisclient.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}
	defer rdb.Close()

	var s3 *storage.S3
	if cfg.AWS.Region != "" {
		s3, err = storage.NewS3(ctx, storage.S3Config{
			Region:               cfg.AWS.Region,
			AccessKeyID:          cfg.AWS.AccessKeyID,
			SecretAccessKey:      cfg.AWS.SecretAccessKey,
			MediaBucket:          cfg.AWS.MediaBucket,
			PresignExpireMinutes: cfg.AWS.PresignExpireMinutes,
		}, logger)
		if err != nil {
			logger.Warn("s3 unavailable, media uploads disabled", zap.Error(err))
			s3 = nil
		}
	} else {
		logger.Info("AWS_REGION not set, media uploads disabled")
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)
	passphrases, err := auth.NewPassphraseList(cfg.Pastor.PassphraseHashes, cfg.Pastor.Passphrases)
	if err != nil {
		logger.Fatal("build passphrase list", zap.Error(err))
	}
	if passphrases.Empty() {
		logger.Warn("no pastor passphrases configured, pastor login is disabled")
	}

	pubsub := realtime.NewRedisPubSub(rdb.Client, logger)
	hub := realtime.NewHub(logger, pubsub, pubsub)
	jobs := queue.NewQueue(rdb.Client, logger)

	sessionRepo := sessions.NewRepository(pool)
	chatRepo := chat.NewRepository(pool)
	questionRepo := questions.NewRepository(pool)
	roomRepo := rooms.NewRepository(pool)
	postRepo := posts.NewRepository(pool)
	testimonyRepo := testimonies.NewRepository(pool)
	subscriberRepo := subscribers.NewRepository(pool)

	authHandler := auth.NewHandler(passphrases, jwtService, logger)
	sessionHandler := sessions.NewHandler(sessionRepo, hub, jobs, logger)
	chatHandler := chat.NewHandler(chatRepo, hub, logger)
	questionHandler := questions.NewHandler(questionRepo, logger)
	roomHandler := rooms.NewHandler(roomRepo, hub, logger)
	postHandler := posts.NewHandler(postRepo, jobs, logger)
	testimonyHandler := testimonies.NewHandler(testimonyRepo, logger)
	subscriberHandler := subscribers.NewHandler(subscriberRepo, logger)
	mediaHandler := media.NewHandler(s3, logger)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	validatePastor := func(token string) bool {
		claims, err := jwtService.Validate(token)
		return err == nil && claims.Role == auth.RolePastor
	}
	router.GET("/ws", realtime.ServeWs(hub, logger, validatePastor))

	api := router.Group("/api/v1")
	pastor := middleware.RequirePastor(jwtService)
	optional := middleware.OptionalPastor(jwtService)

	api.POST("/auth/login", authHandler.Login)

	api.GET("/sessions", sessionHandler.List)
	api.POST("/sessions", pastor, sessionHandler.Create)
	api.POST("/sessions/register", sessionHandler.Register)
	api.GET("/sessions/registrations", pastor, sessionHandler.Registrations)
	api.POST("/sessions/:id/start", pastor, sessionHandler.Start)
	api.POST("/sessions/:id/end", pastor, sessionHandler.End)
	api.POST("/sessions/:id/remind", pastor, sessionHandler.Remind)

	api.POST("/sessions/:id/join", chatHandler.Join)
	api.GET("/sessions/:id/participants", chatHandler.Participants)
	api.GET("/sessions/:id/messages", chatHandler.Messages)
	api.POST("/sessions/:id/messages", optional, chatHandler.SendMessage)
	api.DELETE("/messages/:id", pastor, chatHandler.DeleteMessage)
	api.DELETE("/participants/:id", pastor, chatHandler.RemoveParticipant)

	api.GET("/questions", questionHandler.List)
	api.POST("/questions", questionHandler.Submit)
	api.POST("/questions/:id/react", questionHandler.React)
	api.PATCH("/questions/:id/answer", pastor, questionHandler.Answer)
	api.PUT("/questions/:id/answer", pastor, questionHandler.UpdateAnswer)
	api.DELETE("/questions/:id/answer", pastor, questionHandler.DeleteAnswer)

	api.GET("/rooms", roomHandler.List)
	api.POST("/rooms", pastor, roomHandler.Create)
	api.PATCH("/rooms/:id/active", pastor, roomHandler.SetActive)
	api.POST("/rooms/:id/join", roomHandler.Join)
	api.POST("/rooms/:id/leave", roomHandler.Leave)
	api.GET("/rooms/:id/messages", roomHandler.Messages)
	api.POST("/rooms/:id/messages", optional, roomHandler.SendMessage)

	api.GET("/posts", optional, postHandler.ListPosts)
	api.GET("/posts/:id", optional, postHandler.GetPost)
	api.POST("/posts", pastor, postHandler.CreatePost)
	api.PUT("/posts/:id", pastor, postHandler.UpdatePost)
	api.POST("/posts/:id/publish", pastor, postHandler.PublishPost)
	api.POST("/posts/:id/unpublish", pastor, postHandler.UnpublishPost)
	api.DELETE("/posts/:id", pastor, postHandler.DeletePost)

	api.GET("/novels", optional, postHandler.ListNovels)
	api.POST("/novels", pastor, postHandler.CreateNovel)
	api.POST("/novels/:id/publish", pastor, postHandler.PublishNovel)
	api.GET("/novels/:id/chapters", optional, postHandler.Chapters)
	api.POST("/novels/:id/chapters", pastor, postHandler.AddChapter)
	api.POST("/chapters/:id/publish", pastor, postHandler.PublishChapter)

	api.GET("/testimonies", optional, testimonyHandler.List)
	api.POST("/testimonies", testimonyHandler.Submit)
	api.POST("/testimonies/:id/approve", pastor, testimonyHandler.Approve)
	api.POST("/testimonies/:id/reject", pastor, testimonyHandler.Reject)
	api.POST("/testimonies/:id/feature", pastor, testimonyHandler.Feature)
	api.DELETE("/testimonies/:id", pastor, testimonyHandler.Delete)

	api.POST("/subscribers", subscriberHandler.Subscribe)
	api.DELETE("/subscribers/:email", subscriberHandler.Unsubscribe)
	api.GET("/subscribers", pastor, subscriberHandler.List)

	api.POST("/media/presign", pastor, mediaHandler.Presign)
	api.POST("/media/upload", pastor, mediaHandler.Upload)
	api.DELETE("/media", pastor, mediaHandler.Delete)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
