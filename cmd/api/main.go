package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"pptgen/internal/config"
	"pptgen/internal/convert"
	"pptgen/internal/httpapi"
	"pptgen/internal/pkg/logger"
	"pptgen/internal/pkg/shutdown"
	"pptgen/internal/session"
	"pptgen/internal/worker"
	"pptgen/internal/worker/queue"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewDefault().Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logCfg := logger.DefaultConfig()
	logCfg.ServiceName = "pptgen-api"
	log := logger.New(logCfg)

	log.Info("starting pptgen API",
		"version", "0.1.0",
		"addr", cfg.Addr,
	)

	// Initialize shutdown manager
	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	// Session store plus its background janitor
	sessions, err := session.New(cfg.SessionRoot, log)
	if err != nil {
		log.LogFatal("failed to create session store", err)
	}
	go sessions.RunSweeper(shutdownMgr.Context(), cfg.SweepInterval, cfg.SessionTTL)

	conv := newConverter(cfg)
	log.Info("pdf converter selected", "converter", conv.Name())

	// Conversion queue. With Redis configured a separate worker process
	// consumes jobs; otherwise an in-process worker goroutine does.
	var q queue.Queue
	if cfg.RedisAddr != "" {
		log.Info("connecting to Redis", "addr", cfg.RedisAddr)
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		shutdownMgr.Register("redis", func(ctx context.Context) error {
			return rdb.Close()
		})
		q = queue.NewRedisQueue(rdb, cfg.QueueName)
	} else {
		q = queue.NewMemoryQueue(64)
		go func() {
			_ = worker.Run(shutdownMgr.Context(), worker.Deps{
				Queue:          q,
				Converter:      conv,
				Sessions:       sessions,
				ConvertTimeout: cfg.ConvertTimeout,
				Log:            log,
			})
		}()
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Cfg:      cfg,
		Sessions: sessions,
		Queue:    q,
		Log:      log,
	})

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Register server shutdown
	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	// Start server in goroutine
	go func() {
		log.Info("HTTP server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	// Wait for shutdown signal
	shutdownMgr.Wait()
}

// newConverter picks the hosted API when a secret is configured, otherwise
// local LibreOffice.
func newConverter(cfg config.Config) convert.Converter {
	if cfg.ConvertAPISecret != "" {
		return convert.NewConvertAPI(cfg.ConvertAPIURL, cfg.ConvertAPISecret)
	}
	return convert.NewSoffice(cfg.SofficePath)
}
