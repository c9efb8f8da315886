package postgres

import (
	"context"
	"encoding/json"

	"github.com/dukerupert/weldmark"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Compile-time check that AuditService implements weldmark.AuditService.
var _ weldmark.AuditService = (*AuditService)(nil)

// AuditService persists domain events in an append-only audit trail.
// The entities return events from their transitions; this service is the
// external dispatcher that actually records them.
type AuditService struct {
	db *DB
}

func (s *AuditService) RecordEvent(ctx context.Context, event *weldmark.Event) error {
	if event == nil {
		return weldmark.Invalid("Event is required")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	var detail []byte
	if len(event.Detail) > 0 {
		var err error
		detail, err = json.Marshal(event.Detail)
		if err != nil {
			return weldmark.Internal("Failed to encode event detail", err)
		}
	}

	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO audit_events (id, type, actor_id, entity_type, entity_id, order_id, detail, occurred_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		event.ID, event.Type, event.ActorID, event.EntityType, event.EntityID,
		toPgUUID(event.OrderID), detail, event.OccurredAt)
	if err != nil {
		return weldmark.Internal("Failed to record event", err)
	}
	return nil
}

func (s *AuditService) FindEvents(ctx context.Context, filter weldmark.EventFilter) ([]*weldmark.Event, error) {
	query := `SELECT id, type, actor_id, entity_type, entity_id, order_id, detail, occurred_at
		FROM audit_events WHERE 1=1`
	args := []any{}

	if filter.EntityID != nil {
		args = append(args, *filter.EntityID)
		query += ` AND entity_id = $` + itoa(len(args))
	}
	if filter.OrderID != nil {
		args = append(args, *filter.OrderID)
		query += ` AND order_id = $` + itoa(len(args))
	}
	if filter.Type != nil {
		args = append(args, *filter.Type)
		query += ` AND type = $` + itoa(len(args))
	}

	query += ` ORDER BY occurred_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + itoa(len(args))
	}

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, weldmark.Internal("Failed to list events", err)
	}
	defer rows.Close()

	var events []*weldmark.Event
	for rows.Next() {
		var (
			e       weldmark.Event
			orderID pgtype.UUID
			detail  []byte
		)
		if err := rows.Scan(&e.ID, &e.Type, &e.ActorID, &e.EntityType, &e.EntityID,
			&orderID, &detail, &e.OccurredAt); err != nil {
			return nil, weldmark.Internal("Failed to scan event", err)
		}
		e.OrderID = fromPgUUID(orderID)
		if len(detail) > 0 {
			if err := json.Unmarshal(detail, &e.Detail); err != nil {
				return nil, weldmark.Internal("Failed to decode event detail", err)
			}
		}
		events = append(events, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, weldmark.Internal("Failed to list events", err)
	}

	return events, nil
}
