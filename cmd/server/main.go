package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	gosmtp "github.com/emersion/go-smtp"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"honeypoty/backend/internal/config"
	"honeypoty/backend/internal/health"
	"honeypoty/backend/internal/logger"
	"honeypoty/backend/internal/monitoring"
	"honeypoty/backend/internal/service"
	"honeypoty/backend/internal/smtp"
	"honeypoty/backend/internal/storage"
	"honeypoty/backend/internal/storage/memory"
	"honeypoty/backend/internal/storage/postgres"
	sqlstore "honeypoty/backend/internal/storage/sql"
	httptransport "honeypoty/backend/internal/transport/http"
)

// main 启动 HTTP API、可选的 SMTP 接收以及定时清理任务。
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting honeypoty server",
		zap.String("log_level", cfg.Log.Level),
		zap.Bool("development", cfg.Log.Development),
		zap.Duration("retention", cfg.Space.Retention),
	)

	metrics := monitoring.NewMetrics()

	// 连接池在启动阶段显式初始化一次
	store, connections, err := openStore(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize storage", zap.Error(err))
	}
	gateway := storage.Default()
	if err := gateway.Init(store); err != nil {
		log.Fatal("failed to initialize storage gateway", zap.Error(err))
	}

	spaceService := service.NewSpaceService(gateway, cfg.Space.Retention, metrics, log)
	emailService := service.NewEmailService(spaceService, metrics, log)
	cleanupTask := service.NewCleanupTask(spaceService, cfg.Space.CleanupInterval, metrics, log)
	healthChecker := health.NewHealthChecker(gateway, log)

	router := httptransport.NewRouter(httptransport.RouterDependencies{
		Config:  cfg,
		Spaces:  spaceService,
		Emails:  emailService,
		Cleanup: cleanupTask,
		Health:  healthChecker,
		Metrics: metrics,
		Logger:  log,
	})

	httpAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              httpAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	var smtpServer *gosmtp.Server
	if cfg.SMTP.BindAddr != "" {
		smtpServer = smtp.NewServer(smtp.NewBackend(emailService, cfg.SMTP, log), cfg.SMTP)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info("starting HTTP server", zap.String("address", httpAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", zap.Error(err))
			return err
		}
		return nil
	})

	if smtpServer != nil {
		group.Go(func() error {
			log.Info("starting SMTP server",
				zap.String("address", cfg.SMTP.BindAddr),
				zap.String("domain", cfg.SMTP.Domain),
				zap.Strings("allowed_domains", cfg.SMTP.AllowedDomains),
			)
			if err := smtpServer.ListenAndServe(); err != nil && !errors.Is(err, gosmtp.ErrServerClosed) {
				log.Error("SMTP server error", zap.Error(err))
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		log.Info("starting stale space cleanup task", zap.Duration("interval", cfg.Space.CleanupInterval))
		err := cleanupTask.Run(groupCtx)
		log.Info("cleanup task stopped")
		return err
	})

	// 连接池指标
	group.Go(func() error {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			metrics.UpdateDatabaseConnections(connections())
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
			}
		}
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown signal received, gracefully shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("HTTP server shutdown error", zap.Error(err))
		}

		if smtpServer != nil {
			if err := smtpServer.Close(); err != nil {
				log.Warn("SMTP server close warning", zap.Error(err))
			}
		}

		log.Info("servers stopped")
		return nil
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		_ = gateway.Close()
		log.Fatal("server error", zap.Error(err))
	}

	if err := gateway.Close(); err != nil {
		log.Warn("storage close warning", zap.Error(err))
	}

	log.Info("server exited cleanly")
}

// openStore 根据配置创建存储，并返回读取当前连接数的函数
func openStore(cfg *config.Config, log *zap.Logger) (storage.Store, func() int, error) {
	db := cfg.Database

	switch db.Type {
	case config.DatabaseMemory:
		log.Info("using memory storage (development mode)")
		return memory.NewStore(), func() int { return 0 }, nil

	case config.DatabaseMySQL, config.DatabasePostgres:
		store, err := sqlstore.NewStore(db.Type, db.DSN, sqlstore.Options{
			MaxOpenConns:    db.MaxOpenConns,
			MaxIdleConns:    db.MaxIdleConns,
			ConnMaxLifetime: db.ConnMaxLifetime,
			QueryTimeout:    db.QueryTimeout,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info("using database storage",
			zap.String("type", db.Type),
			zap.Int("max_open_conns", db.MaxOpenConns),
		)
		return store, func() int { return store.Stats().OpenConnections }, nil

	case config.DatabasePgx:
		client, err := postgres.New(context.Background(), db, log)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewStore(client, db.QueryTimeout), client.OpenConnections, nil

	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", db.Type)
	}
}
