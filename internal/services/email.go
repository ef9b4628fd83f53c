package services

import (
	"context"
	"fmt"
	"log/slog"

	"communitycalendar/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendSeedReport mails a seeding summary using the "seed_report" template.
func (s *emailService) SendSeedReport(ctx context.Context, data *domain.SeedReportEmailData) error {
	if data == nil || data.Report == nil {
		return fmt.Errorf("seed report email data is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("seed_report", data)
	if err != nil {
		return fmt.Errorf("failed to render seed_report template: %w", err)
	}
	if err := s.mailer.Send(data.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send seed report email: %w", err)
	}
	s.logger.InfoContext(ctx, "seed report sent", "to", data.Email)
	return nil
}
