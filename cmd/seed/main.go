// Command seed schedules a YAML plan of events into the calendar, moving events
// forward when their day is already full.
//
//	seed -plan plan.yaml -as admin-user-id [-dry-run]
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	_ "github.com/lib/pq"

	"communitycalendar/config"
	"communitycalendar/internal/adapters/email"
	"communitycalendar/internal/adapters/plan"
	"communitycalendar/internal/domain"
	"communitycalendar/internal/repository/memory"
	"communitycalendar/internal/repository/postgres"
	"communitycalendar/internal/services"
)

func main() {
	planPath := flag.String("plan", "", "path to the YAML seed plan (required)")
	dryRun := flag.Bool("dry-run", false, "schedule against an in-memory copy of the plan window instead of writing")
	asUser := flag.String("as", "", "user id recorded as creator for definitions without created_by (required)")
	flag.Parse()

	logger := config.NewLogger("seed")
	if *planPath == "" || *asUser == "" {
		fmt.Fprintln(os.Stderr, "seed: -plan and -as are required")
		flag.Usage()
		os.Exit(2)
	}
	if err := run(logger, os.Stdout, *planPath, *dryRun, *asUser); err != nil {
		logger.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, out io.Writer, planPath string, dryRun bool, asUser string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	p, err := plan.Load(planPath)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		events domain.EventRepository = postgres.NewEventRepository(db)
		locker domain.DayLocker       = postgres.NewDayLocker(db)
	)
	if dryRun {
		events, err = mirrorWindow(ctx, events, p, cfg.SlotSearchAttempts)
		if err != nil {
			return err
		}
		locker = services.NewDayLocker()
	}

	scheduler := services.NewEventScheduler(events, locker, clockwork.NewRealClock(), logger, services.SchedulerConfig{
		MaxPerDay:   cfg.MaxEventsPerDay,
		MaxAttempts: cfg.SlotSearchAttempts,
	})

	var emailService domain.EmailService
	reportEmail := cfg.SeedReportEmail
	if dryRun {
		reportEmail = ""
	} else if reportEmail != "" {
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
		emailService = services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	}

	seeder := services.NewSeedingService(scheduler, emailService, reportEmail, logger)
	operator := domain.Principal{UserID: asUser, Roles: []string{domain.RoleAdmin}}
	report, err := seeder.Seed(ctx, operator, p.Events)
	if err != nil {
		return err
	}
	printReport(out, report, dryRun)
	return nil
}

// mirrorWindow copies the stored events that overlap the plan's reach into a
// memory repository, so a dry run sees the same capacity as a real one.
func mirrorWindow(ctx context.Context, store domain.EventRepository, p *plan.Plan, attempts int) (domain.EventRepository, error) {
	mirror := memory.NewEventRepository()
	from, to, ok := p.Window(attempts, services.ExpandRecurrence)
	if !ok {
		return mirror, nil
	}
	existing, err := store.ListByDateRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load existing events: %w", err)
	}
	mirror.Load(existing)
	return mirror, nil
}

func printReport(out io.Writer, report *domain.SeedReport, dryRun bool) {
	if dryRun {
		fmt.Fprintln(out, "dry run: nothing was written")
	}
	for _, o := range report.Outcomes {
		switch o.Status {
		case domain.StatusPlaced:
			fmt.Fprintf(out, "  placed     %s  %s\n", o.Event.StartDate, o.Title)
		case domain.StatusRelocated:
			fmt.Fprintf(out, "  relocated  %s  %s (requested %s)\n", o.Event.StartDate, o.Title, o.OriginalStart)
		case domain.StatusSkipped:
			fmt.Fprintf(out, "  skipped    %s  %s\n", o.OriginalStart, o.Title)
		case domain.StatusFailed:
			fmt.Fprintf(out, "  failed     %s  %s: %s\n", o.OriginalStart, o.Title, o.Error)
		}
	}
	fmt.Fprintf(out, "placed=%d relocated=%d skipped=%d failed=%d\n", report.Placed, report.Relocated, report.Skipped, report.Failed)
}
