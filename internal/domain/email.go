package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// SeedReportEmailData holds data for the seeding summary email.
type SeedReportEmailData struct {
	Email  string
	Report *SeedReport
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendSeedReport(ctx context.Context, data *SeedReportEmailData) error
}
