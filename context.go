package weldmark

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey int

const (
	reviewerContextKey contextKey = iota + 1
	requestIDContextKey
)

// Reviewer identity helpers.
//
// Authentication is a collaborator concern: the transport layer resolves an
// already-identified reviewer/generator reference and attaches it here.

// NewContextWithReviewer attaches a reviewer ID to the context.
func NewContextWithReviewer(ctx context.Context, reviewerID uuid.UUID) context.Context {
	return context.WithValue(ctx, reviewerContextKey, reviewerID)
}

// ReviewerIDFromContext returns the identified reviewer's ID, or a zero UUID.
func ReviewerIDFromContext(ctx context.Context) uuid.UUID {
	id, _ := ctx.Value(reviewerContextKey).(uuid.UUID)
	return id
}

// IsIdentified returns true if a reviewer is present in the context.
func IsIdentified(ctx context.Context) bool {
	return ReviewerIDFromContext(ctx) != uuid.Nil
}

// Request ID context helpers

// NewContextWithRequestID attaches a request ID to the context.
func NewContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey, requestID)
}

// RequestIDFromContext returns the request ID from the context, or empty string.
func RequestIDFromContext(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDContextKey).(string)
	return requestID
}
