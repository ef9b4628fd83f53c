package services

import (
	"context"
	"log/slog"

	"communitycalendar/internal/domain"
)

type seedingService struct {
	scheduler    domain.EventScheduler
	emailService domain.EmailService
	reportEmail  string
	logger       *slog.Logger
}

// NewSeedingService returns a SeedingService. When reportEmail is set, every
// run's report is mailed there; mail failures are logged and do not fail the run.
func NewSeedingService(scheduler domain.EventScheduler, emailService domain.EmailService, reportEmail string, logger *slog.Logger) domain.SeedingService {
	return &seedingService{
		scheduler:    scheduler,
		emailService: emailService,
		reportEmail:  reportEmail,
		logger:       logger,
	}
}

func (s *seedingService) Seed(ctx context.Context, caller domain.Principal, defs []domain.EventDefinition) (*domain.SeedReport, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if len(defs) == 0 {
		return nil, domain.NewValidationError([]string{"at least one event definition is required"})
	}

	batch := make([]domain.EventDefinition, len(defs))
	for i, def := range defs {
		if def.CreatedBy == "" {
			def.CreatedBy = caller.UserID
		}
		batch[i] = def
	}

	report := s.scheduler.ScheduleBatch(ctx, batch)
	s.logger.InfoContext(ctx, "seed completed",
		"placed", report.Placed,
		"relocated", report.Relocated,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)

	if s.reportEmail != "" && s.emailService != nil {
		data := &domain.SeedReportEmailData{Email: s.reportEmail, Report: report}
		if err := s.emailService.SendSeedReport(ctx, data); err != nil {
			s.logger.ErrorContext(ctx, "send seed report", "to", s.reportEmail, "err", err)
		}
	}
	return report, nil
}
