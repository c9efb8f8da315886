package weldmark

import "context"

// EmailService defines operations for sending emails.
type EmailService interface {
	// SendReport delivers a generated QC report to the recipient.
	// reportURL points at the stored report file.
	SendReport(ctx context.Context, to, subject, reportURL string) error

	// SendReviewNotification notifies a reviewer that an order is ready
	// for QA review.
	SendReviewNotification(ctx context.Context, to, orderNumber string) error
}

// EmailConfig holds configuration for email services.
type EmailConfig struct {
	// Provider is the email provider ("mock" or "postmark").
	Provider string

	// FromAddress is the sender email address.
	FromAddress string

	// FromName is the sender display name.
	FromName string

	// Postmark-specific configuration
	PostmarkServerToken  string
	PostmarkAccountToken string
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}
