package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/anchor-ministry/backend/config"
	"github.com/anchor-ministry/backend/internal/notify"
	"github.com/anchor-ministry/backend/internal/subscribers"
	"github.com/anchor-ministry/backend/pkg/database"
	"github.com/anchor-ministry/backend/pkg/queue"
	redisclient "github.com/anchor-ministry/backend/pkg/redis"
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

	rdb, err := redisclient.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("connect redis", zap.Error(err))
	}
	defer rdb.Close()

	jobs := queue.NewQueue(rdb.Client, logger)
	subscriberRepo := subscribers.NewRepository(pool)
	mailer := notify.NewMailer(cfg.Email)
	if mailer == nil {
		logger.Warn("SMTP_HOST not set, notifications will be dropped")
	}

	processor := notify.NewProcessor(jobs, subscriberRepo, mailer, logger)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	processor.Run(ctx)
	logger.Info("worker stopped")
}
