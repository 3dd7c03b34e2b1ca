package main

import (
	"context"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"pptgen/internal/config"
	"pptgen/internal/convert"
	"pptgen/internal/pkg/logger"
	"pptgen/internal/pkg/shutdown"
	"pptgen/internal/session"
	"pptgen/internal/worker"
	"pptgen/internal/worker/queue"
)

// The worker binary consumes conversion jobs from Redis. It only makes sense
// alongside an API configured with the same REDIS_ADDR and a shared
// SESSION_ROOT volume.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.ServiceName = "pptgen-worker"
	log := logger.New(logCfg)

	if cfg.RedisAddr == "" {
		log.Error("REDIS_ADDR is required for the standalone worker")
		os.Exit(1)
	}

	log.Info("starting pptgen worker",
		"version", "0.1.0",
		"queue", cfg.QueueName,
	)

	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	sessions, err := session.New(cfg.SessionRoot, log)
	if err != nil {
		log.LogFatal("failed to open session root", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	shutdownMgr.Register("redis", func(ctx context.Context) error {
		return rdb.Close()
	})

	conv := newConverter(cfg)
	log.Info("pdf converter selected", "converter", conv.Name())

	go func() {
		_ = worker.Run(shutdownMgr.Context(), worker.Deps{
			Queue:          queue.NewRedisQueue(rdb, cfg.QueueName),
			Converter:      conv,
			Sessions:       sessions,
			ConvertTimeout: cfg.ConvertTimeout,
			Log:            log,
		})
	}()

	shutdownMgr.Wait()
}

func newConverter(cfg config.Config) convert.Converter {
	if cfg.ConvertAPISecret != "" {
		return convert.NewConvertAPI(cfg.ConvertAPIURL, cfg.ConvertAPISecret)
	}
	return convert.NewSoffice(cfg.SofficePath)
}
