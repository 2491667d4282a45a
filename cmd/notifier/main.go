// cmd/notifier/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"fireline-notifier/internal/alert"
	"fireline-notifier/internal/catalog"
	awsclients "fireline-notifier/internal/common/aws"
	"fireline-notifier/internal/common/config"
	"fireline-notifier/internal/common/database"
	"fireline-notifier/internal/common/logger"
	"fireline-notifier/internal/common/observability"
	"fireline-notifier/internal/dispatch"
	"fireline-notifier/internal/pipeline"
	"fireline-notifier/internal/router"
	"fireline-notifier/internal/server"
	"fireline-notifier/internal/sink"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting notifier",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected")

	// --- Init Redis (optional, shared dedup) ---
	var sharedDedup dispatch.SharedDedup
	if cfg.Database.Redis.Enabled {
		var rdb *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			rdb, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return rdb.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer rdb.Close()
		zapLog.Info("Redis connected")

		sharedDedup = dispatch.NewRedisDedup(
			rdb.Client,
			cfg.Notifications.Dispatch.SharedDedupKeySpace,
			cfg.Notifications.Dispatch.DedupRetention,
		)
	}

	// --- Outbound sinks ---
	var emailSink sink.EmailSink
	if cfg.Notifications.Email.Enabled {
		switch cfg.Notifications.Email.Provider {
		case "ses":
			sesClient, err := awsclients.NewSESClient(ctx, cfg.Notifications.Email.AWS.Region)
			if err != nil {
				zapLog.Fatal("SES client init failed", zap.Error(err))
			}
			emailSink = sink.NewSESEmailSink(sesClient, cfg.Notifications.Email.FromEmail)
		default:
			emailSink = sink.NewSMTPEmailSink(sink.SMTPConfig{
				Host:     cfg.Notifications.Email.SMTP.Host,
				Port:     cfg.Notifications.Email.SMTP.Port,
				Username: cfg.Notifications.Email.SMTP.Username,
				Password: cfg.Notifications.Email.SMTP.Password,
				UseTLS:   cfg.Notifications.Email.SMTP.UseTLS,
				From:     cfg.Notifications.Email.FromEmail,
			})
		}
	}

	var webhookSink sink.WebhookSink
	if cfg.Notifications.Webhook.Enabled {
		webhookSink = sink.NewHTTPWebhookSink(cfg.Notifications.Webhook.URL, cfg.Notifications.Webhook.Headers)
	}

	var alerts *alert.Notifier
	if cfg.Notifications.Alerts.Enabled {
		snsClient, err := awsclients.NewSNSClient(ctx, cfg.Notifications.Alerts.Region)
		if err != nil {
			zapLog.Fatal("SNS client init failed", zap.Error(err))
		}
		alerts = alert.NewNotifier(snsClient, cfg.Notifications.Alerts.TopicARN, log)
	}

	// --- Pipeline ---
	dispatcher := dispatch.NewDispatcher(
		emailSink,
		webhookSink,
		sharedDedup,
		alerts,
		dispatch.DispatcherConfig{Timeout: cfg.Notifications.Dispatch.Timeout},
		log,
	)

	cache := dispatch.NewCache(dispatch.CacheConfig{
		Window:       time.Duration(cfg.Notifications.Dispatch.WindowSeconds) * time.Second,
		MaxPerWindow: cfg.Notifications.Dispatch.MaxPerWindow,
		GCIdle:       cfg.Notifications.Dispatch.GCIdle,
	})

	service, err := pipeline.New(ctx, pipeline.Options{
		Store:        catalog.NewPostgresStore(pg.DB),
		Router:       router.New(nil, log),
		Cache:        cache,
		Dispatcher:   dispatcher,
		Toast:        sink.NewLogToastSink(log),
		Obs:          obs,
		Logger:       log,
		DrainTimeout: cfg.Notifications.Dispatch.DrainTimeout,
	})
	if err != nil {
		zapLog.Fatal("pipeline init failed", zap.Error(err))
	}
	defer service.Close()

	// --- Metrics endpoint ---
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		addr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		zapLog.Info("metrics server listening", zap.String("addr", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			zapLog.Error("metrics server stopped", zap.Error(err))
		}
	}()

	// --- HTTP ingest ---
	srv := server.New(service, log)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Handler(),
	}

	go func() {
		zapLog.Info("ingest server listening", zap.Int("port", cfg.Server.Port))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("ingest server failed", zap.Error(err))
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("ingest server shutdown failed", zap.Error(err))
	}

	service.Close()
	zapLog.Info("notifier stopped")
}
