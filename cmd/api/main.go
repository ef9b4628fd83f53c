package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"communitycalendar/config"
	_ "communitycalendar/docs"
	"communitycalendar/internal/adapters/auth"
	"communitycalendar/internal/adapters/email"
	"communitycalendar/internal/adapters/ics"
	delivery "communitycalendar/internal/delivery/http"
	"communitycalendar/internal/delivery/http/controllers"
	"communitycalendar/internal/delivery/http/middleware"
	"communitycalendar/internal/repository/postgres"
	"communitycalendar/internal/services"
)

// @title Community Calendar API
// @version 1.0
// @description Membership calendar: capacity-aware event scheduling, role-based visibility and calendar feeds.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT.
func main() {
	logger := config.NewLogger("api")
	if err := run(logger); err != nil {
		logger.Error("api stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	clock := clockwork.NewRealClock()
	timeout := cfg.RequestTimeout

	eventRepo := postgres.NewEventRepository(db)
	configRepo := postgres.NewEventTypeConfigRepository(db)
	teamRepo := postgres.NewTeamRepository(db)
	coupleRepo := postgres.NewCoupleRepository(db)
	userRepo := postgres.NewUserRepository(db)

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.AWSRegion,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	scheduler := services.NewEventScheduler(eventRepo, postgres.NewDayLocker(db), clock, logger, services.SchedulerConfig{
		MaxPerDay:   cfg.MaxEventsPerDay,
		MaxAttempts: cfg.SlotSearchAttempts,
	})
	calendarService := services.NewCalendarService(
		eventRepo, configRepo, teamRepo, userRepo,
		services.NewCalendarProjector(cfg.Location),
		ics.NewFeedEncoder(cfg.Location, clock, "Community Calendar"),
		clock, timeout,
	)
	eventTypeService := services.NewEventTypeConfigService(configRepo, clock, timeout)
	seedingService := services.NewSeedingService(scheduler, emailService, cfg.SeedReportEmail, logger)
	teamService := services.NewTeamService(teamRepo, coupleRepo, clock, timeout)

	styles, err := config.LoadEventTypeStyles(cfg.EventTypeStylesFile)
	if err != nil {
		return err
	}
	created, err := eventTypeService.EnsureDefaults(context.Background(), styles)
	if err != nil {
		return fmt.Errorf("ensure event type defaults: %w", err)
	}
	if created > 0 {
		logger.Info("event type defaults created", "count", created)
	}

	mux := delivery.NewRouter(delivery.Controllers{
		Calendar:  controllers.NewCalendarController(logger, calendarService),
		EventType: controllers.NewEventTypeController(logger, eventTypeService),
		Seed:      controllers.NewSeedController(logger, seedingService),
		Team:      controllers.NewTeamController(logger, teamService),
	}, middleware.RequireAuth(auth.NewJWTVerifier(cfg.JWTSecret), logger))

	handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, mux))
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr, "timezone", cfg.Location.String(), "max_events_per_day", cfg.MaxEventsPerDay)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
