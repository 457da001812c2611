// Package main runs the background job worker (LINE push delivery).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/srithep/meeting-backend/config"
	"github.com/srithep/meeting-backend/internal/lineapi"
	"github.com/srithep/meeting-backend/internal/worker"
	"github.com/srithep/meeting-backend/pkg/queue"
	"github.com/srithep/meeting-backend/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	lineClient := lineapi.NewClient(cfg.Line.ChannelAccessToken, logger)
	if !lineClient.Configured() {
		logger.Fatal("LINE_CHANNEL_ACCESS_TOKEN is required for the push worker")
	}

	jobQueue := queue.NewQueue(rdb.Client, logger)
	w := worker.New(jobQueue, lineClient, cfg.Line.TargetGroupID, logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go w.Run(workerCtx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("worker shut down")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
