// Command server runs the tech events HTTP API.
//
// @title Tech Events API
// @version 1.0
// @description Catalog of tech events with bookings and users.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by an admin token issued by eventsctl.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"techevents/config"
	_ "techevents/docs"
	"techevents/internal/adapters/auth"
	"techevents/internal/adapters/email"
	"techevents/internal/database"
	httpdelivery "techevents/internal/delivery/http"
	"techevents/internal/delivery/http/controllers"
	"techevents/internal/domain"
	"techevents/internal/metrics"
	"techevents/internal/repository/postgres"
	"techevents/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	dbMetrics := metrics.NewDB(reg, logger)

	manager := database.NewManager(database.Config{
		URL:                 cfg.DB.URL,
		MaxOpenConns:        cfg.DB.MaxOpenConns,
		ServerSelectTimeout: cfg.DB.ServerSelectTimeout,
		SocketIdleTimeout:   cfg.DB.SocketIdleTimeout,
	}, logger, database.WithOnConnect(func(db *sqlx.DB) {
		dbMetrics.Track(db)
		if cfg.DB.ApplySchemaOnStartup {
			applySchema(db, logger)
		}
	}))

	// Connect eagerly so a misconfigured store fails fast. A transient
	// failure is retried by the first request that needs the store.
	if _, err := manager.Acquire(ctx); err != nil {
		var connErr *domain.ConnectionError
		if errors.As(err, &connErr) && !connErr.Retryable() {
			return err
		}
		logger.Warn("database not reachable at startup, will retry on demand", "err", err)
	}

	if err := checkAuthConfig(cfg, logger); err != nil {
		return err
	}

	eventRepo := postgres.NewEventRepository(manager)
	bookingRepo := postgres.NewBookingRepository(manager)
	userRepo := postgres.NewUserRepository(manager)

	mailer := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Mail.Provider,
		FromAddress: cfg.Mail.FromAddress,
		FromName:    cfg.Mail.FromName,
		SES: email.SESConfig{
			Region:             cfg.Mail.SESRegion,
			AccessKeyID:        cfg.Mail.SESAccessKeyID,
			SecretAccessKey:    cfg.Mail.SESSecretAccessKey,
			ConfigurationSet:   cfg.Mail.SESConfigurationSet,
			InsecureSkipVerify: cfg.Mail.InsecureSkipVerify,
		},
	}, logger)
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	eventService := services.NewEventService(eventRepo, logger, cfg.RequestTimeout)
	bookingService := services.NewBookingService(bookingRepo, eventRepo, emailService, logger, cfg.RequestTimeout)
	userService := services.NewUserService(userRepo, cfg.RequestTimeout)

	router := httpdelivery.NewRouter(httpdelivery.Controllers{
		Users:    controllers.NewUserController(logger, userService),
		Events:   controllers.NewEventController(logger, eventService),
		Bookings: controllers.NewBookingController(logger, bookingService),
		Health:   controllers.NewHealthController(manager),
	}, httpdelivery.RouterConfig{
		Logger:         logger,
		Verifier:       auth.NewJWTVerifier(cfg.Auth.JWTSecret),
		AllowedOrigins: cfg.Origins(),
		Metrics:        metrics.NewHTTP(reg),
		Gatherer:       reg,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", "err", err)
	}
	if err := manager.Release(shutdownCtx); err != nil {
		logger.Error("database release", "err", err)
	}
	dbMetrics.Untrack()
	return nil
}

// checkAuthConfig refuses to start a production server without a token
// secret. Elsewhere an empty secret only disables the admin routes.
func checkAuthConfig(cfg *config.Config, logger *slog.Logger) error {
	if cfg.Auth.JWTSecret != "" {
		return nil
	}
	if cfg.IsProduction() {
		return errors.New("JWT_SECRET must be set in production")
	}
	logger.Warn("JWT_SECRET is empty, admin endpoints will reject every token")
	return nil
}

func applySchema(db *sqlx.DB, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.EnsureSchema(ctx, database.StaticProvider(db)); err != nil {
		logger.Error("failed to apply schema", "err", err)
		return
	}
	logger.Info("schema applied")
}
