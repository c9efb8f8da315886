// Package email provides EmailService implementations for report delivery.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/keighl/postmark"

	"github.com/dukerupert/weldmark"
)

// NewEmailService creates an email service based on the provider configuration.
func NewEmailService(logger *slog.Logger, config weldmark.EmailConfig) weldmark.EmailService {
	switch config.Provider {
	case "postmark":
		return newPostmarkEmailService(logger, config)
	default:
		return newMockEmailService(logger, config)
	}
}

// mockEmailService logs instead of sending emails.
type mockEmailService struct {
	logger *slog.Logger
	config weldmark.EmailConfig
}

func newMockEmailService(logger *slog.Logger, config weldmark.EmailConfig) *mockEmailService {
	return &mockEmailService{logger: logger, config: config}
}

func (s *mockEmailService) SendReport(ctx context.Context, to, subject, reportURL string) error {
	s.logger.Info("MOCK EMAIL: report delivery",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("report_url", reportURL),
	)
	return nil
}

func (s *mockEmailService) SendReviewNotification(ctx context.Context, to, orderNumber string) error {
	s.logger.Info("MOCK EMAIL: review notification",
		slog.String("to", to),
		slog.String("order_number", orderNumber),
	)
	return nil
}

// postmarkEmailService sends emails via Postmark.
type postmarkEmailService struct {
	client *postmark.Client
	logger *slog.Logger
	config weldmark.EmailConfig
}

func newPostmarkEmailService(logger *slog.Logger, config weldmark.EmailConfig) *postmarkEmailService {
	client := postmark.NewClient(config.PostmarkServerToken, config.PostmarkAccountToken)
	return &postmarkEmailService{
		client: client,
		logger: logger,
		config: config,
	}
}

func (s *postmarkEmailService) SendReport(ctx context.Context, to, subject, reportURL string) error {
	email := postmark.Email{
		From:     fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:       to,
		Subject:  subject,
		TextBody: fmt.Sprintf("Your quality-control report is ready: %s", reportURL),
		HtmlBody: fmt.Sprintf(`
			<h2>Your quality-control report is ready</h2>
			<p>The QC photo documentation report for your order has been approved and delivered.</p>
			<p><a href="%s">Download Report</a></p>
			<p>Or copy and paste this URL into your browser:</p>
			<p>%s</p>
		`, reportURL, reportURL),
		Tag:        "report-delivery",
		TrackOpens: true,
	}

	if _, err := s.client.SendEmail(email); err != nil {
		s.logger.Error("failed to send report via Postmark",
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send report email: %w", err)
	}

	s.logger.Info("report email sent via Postmark", slog.String("to", to))
	return nil
}

func (s *postmarkEmailService) SendReviewNotification(ctx context.Context, to, orderNumber string) error {
	email := postmark.Email{
		From:     fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromAddress),
		To:       to,
		Subject:  fmt.Sprintf("Order %s is ready for QA review", orderNumber),
		TextBody: fmt.Sprintf("Order %s has completed and its photo documentation awaits review.", orderNumber),
		HtmlBody: fmt.Sprintf(`
			<h2>Order %s is ready for QA review</h2>
			<p>The order has completed and its photo documentation awaits your review.</p>
		`, orderNumber),
		Tag:        "review-notification",
		TrackOpens: true,
	}

	if _, err := s.client.SendEmail(email); err != nil {
		s.logger.Error("failed to send review notification via Postmark",
			slog.String("to", to),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send review notification: %w", err)
	}

	s.logger.Info("review notification sent via Postmark", slog.String("to", to))
	return nil
}
