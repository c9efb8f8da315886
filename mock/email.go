package mock

import (
	"context"

	"github.com/dukerupert/weldmark"
)

// Compile-time interface check
var _ weldmark.EmailService = (*EmailService)(nil)

// EmailService is a mock implementation of weldmark.EmailService.
type EmailService struct {
	SendReportFn             func(ctx context.Context, to, subject, reportURL string) error
	SendReviewNotificationFn func(ctx context.Context, to, orderNumber string) error
}

func (s *EmailService) SendReport(ctx context.Context, to, subject, reportURL string) error {
	if s.SendReportFn != nil {
		return s.SendReportFn(ctx, to, subject, reportURL)
	}
	return nil
}

func (s *EmailService) SendReviewNotification(ctx context.Context, to, orderNumber string) error {
	if s.SendReviewNotificationFn != nil {
		return s.SendReviewNotificationFn(ctx, to, orderNumber)
	}
	return nil
}
