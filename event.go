package weldmark

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types registered by state transitions.
const (
	EventPhotoUploaded   = "photo.uploaded"
	EventPhotoApproved   = "photo.approved"
	EventPhotoRejected   = "photo.rejected"
	EventReportCreated   = "report.created"
	EventReportCompleted = "report.completed"
	EventReportFailed    = "report.failed"
	EventReportApproved  = "report.approved"
	EventReportDelivered = "report.delivered"
	EventReportArchived  = "report.archived"
)

// Event records a state transition on a domain entity.
//
// Transitions return the event instead of publishing it themselves; the
// caller hands it to an AuditService (or drops it). This keeps entity
// methods deterministic and free of I/O.
type Event struct {
	ID         uuid.UUID      `json:"id"`
	Type       string         `json:"type"`
	ActorID    uuid.UUID      `json:"actorId"`
	EntityType string         `json:"entityType"` // "photo_document" or "report"
	EntityID   uuid.UUID      `json:"entityId"`
	OrderID    uuid.UUID      `json:"orderId,omitempty"`
	Detail     map[string]any `json:"detail,omitempty"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// newEvent builds an event for a transition that just occurred.
func newEvent(eventType string, actorID uuid.UUID, entityType string, entityID, orderID uuid.UUID, detail map[string]any) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		ActorID:    actorID,
		EntityType: entityType,
		EntityID:   entityID,
		OrderID:    orderID,
		Detail:     detail,
		OccurredAt: time.Now(),
	}
}

// AuditService persists and queries the audit trail of domain events.
type AuditService interface {
	// RecordEvent appends an event to the audit trail.
	RecordEvent(ctx context.Context, event *Event) error

	// FindEvents retrieves events matching the filter criteria, newest first.
	FindEvents(ctx context.Context, filter EventFilter) ([]*Event, error)
}

// EventFilter defines criteria for querying the audit trail.
type EventFilter struct {
	EntityID *uuid.UUID
	OrderID  *uuid.UUID
	Type     *string

	// Pagination
	Offset int
	Limit  int
}
