// Package app wires configuration, storage, services and transport into a
// runnable HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rolltime/backend/internal/adapter/postgres"
	activityrepo "github.com/rolltime/backend/internal/adapter/postgres/activity"
	timeentryrepo "github.com/rolltime/backend/internal/adapter/postgres/timeentry"
	tokenrepo "github.com/rolltime/backend/internal/adapter/postgres/token"
	userrepo "github.com/rolltime/backend/internal/adapter/postgres/user"
	workspacerepo "github.com/rolltime/backend/internal/adapter/postgres/workspace"
	internalauth "github.com/rolltime/backend/internal/auth"
	"github.com/rolltime/backend/internal/config"
	"github.com/rolltime/backend/internal/notifier"
	activitysvc "github.com/rolltime/backend/internal/service/activity"
	authsvc "github.com/rolltime/backend/internal/service/auth"
	trackingsvc "github.com/rolltime/backend/internal/service/tracking"
	workspacesvc "github.com/rolltime/backend/internal/service/workspace"
	"github.com/rolltime/backend/internal/transport/middleware"
	"github.com/rolltime/backend/internal/transport/rest"
)

// trackingNotifier matches the notifications the tracking service emits.
type trackingNotifier interface {
	NotifyStarted(ctx context.Context, userID, activityID uuid.UUID, at time.Time) error
	NotifyStopped(ctx context.Context, userID uuid.UUID) error
}

// Run is the application entry point. It loads configuration, connects to
// the database, wires all services and serves HTTP until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	txManager := postgres.NewTxManager(pool)

	users := userrepo.New(pool)
	workspaces := workspacerepo.New(pool)
	activities := activityrepo.New(pool)
	entries := timeentryrepo.New(pool)
	tokens := tokenrepo.New(pool)

	jwtManager := internalauth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL)

	var notify trackingNotifier
	if brokers := cfg.Kafka.Brokers(); len(brokers) > 0 {
		kafka := notifier.NewKafka(brokers, cfg.Kafka.Topic)
		defer kafka.Close() //nolint:errcheck
		notify = kafka
		logger.Info("kafka notifier enabled", slog.Any("brokers", brokers))
	} else {
		notify = notifier.NewNoop()
	}

	authService := authsvc.NewService(logger, users, workspaces, tokens, txManager, jwtManager, cfg.Auth)
	trackingService := trackingsvc.NewService(logger, entries, activities, workspaces, users, txManager, notify, trackingsvc.Config{
		MinIntervalDuration: cfg.Tracking.MinIntervalDuration,
		HistoryMaxPageSize:  cfg.Tracking.HistoryMaxPageSize,
	})
	workspaceService := workspacesvc.NewService(logger, workspaces)
	activityService := activitysvc.NewService(logger, activities, workspaces, entries, txManager)

	router := rest.NewRouter(rest.Handlers{
		Health:    rest.NewHealthHandler(pool, BuildVersion()),
		Auth:      rest.NewAuthHandler(authService, logger),
		Tracking:  rest.NewTrackingHandler(trackingService, logger),
		Device:    rest.NewDeviceHandler(trackingService, logger),
		Workspace: rest.NewWorkspaceHandler(workspaceService, logger),
		Activity:  rest.NewActivityHandler(activityService, logger),
	})

	mux := http.NewServeMux()
	mux.Handle("/", router)
	if cfg.Metrics.Enabled {
		mux.Handle(cfg.Metrics.Path, promhttp.Handler())
	}

	rateLimiter := middleware.NewRateLimiter(time.Minute)
	defer rateLimiter.Stop()

	handler := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
		rateLimiter.Limit(300),
		middleware.Auth(authService),
	)(mux)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
