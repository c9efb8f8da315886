package mock

import (
	"context"

	"github.com/dukerupert/weldmark"
)

// Compile-time interface check
var _ weldmark.AuditService = (*AuditService)(nil)

// AuditService is a mock implementation of weldmark.AuditService.
type AuditService struct {
	RecordEventFn func(ctx context.Context, event *weldmark.Event) error
	FindEventsFn  func(ctx context.Context, filter weldmark.EventFilter) ([]*weldmark.Event, error)

	// Recorded collects events when RecordEventFn is nil.
	Recorded []*weldmark.Event
}

func (s *AuditService) RecordEvent(ctx context.Context, event *weldmark.Event) error {
	if s.RecordEventFn != nil {
		return s.RecordEventFn(ctx, event)
	}
	s.Recorded = append(s.Recorded, event)
	return nil
}

func (s *AuditService) FindEvents(ctx context.Context, filter weldmark.EventFilter) ([]*weldmark.Event, error) {
	if s.FindEventsFn != nil {
		return s.FindEventsFn(ctx, filter)
	}
	return []*weldmark.Event{}, nil
}
