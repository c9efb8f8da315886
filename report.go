package weldmark

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ReportFormat represents the output format of a generated report.
type ReportFormat string

const (
	ReportFormatPDF  ReportFormat = "pdf"
	ReportFormatHTML ReportFormat = "html"
)

// Valid reports whether the format is a recognized value.
func (f ReportFormat) Valid() bool {
	switch f {
	case ReportFormatPDF, ReportFormatHTML:
		return true
	}
	return false
}

// ContentType returns the MIME content type for the format.
func (f ReportFormat) ContentType() string {
	switch f {
	case ReportFormatPDF:
		return "application/pdf"
	case ReportFormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// FileExtension returns the file extension for the format.
func (f ReportFormat) FileExtension() string {
	return string(f)
}

// ReportStatus represents the lifecycle state of a QC report.
//
// The full lifecycle:
//
//	pending → generating → completed | failed
//	completed → approved → delivered
//	completed | approved | delivered → archived
//
// Generation transitions are strictly guarded; the approval/delivery tail
// follows only after a successful generation.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusGenerating ReportStatus = "generating"
	ReportStatusCompleted  ReportStatus = "completed"
	ReportStatusFailed     ReportStatus = "failed"
	ReportStatusApproved   ReportStatus = "approved"
	ReportStatusDelivered  ReportStatus = "delivered"
	ReportStatusArchived   ReportStatus = "archived"
)

// Valid reports whether the value is a known report status.
func (s ReportStatus) Valid() bool {
	switch s {
	case ReportStatusPending, ReportStatusGenerating, ReportStatusCompleted,
		ReportStatusFailed, ReportStatusApproved, ReportStatusDelivered,
		ReportStatusArchived:
		return true
	}
	return false
}

// IsTerminal returns true for states with no outgoing transitions.
func (s ReportStatus) IsTerminal() bool {
	return s == ReportStatusFailed || s == ReportStatusArchived
}

// canArchive reports whether a report in this state may be archived.
func (s ReportStatus) canArchive() bool {
	return s == ReportStatusCompleted || s == ReportStatusApproved || s == ReportStatusDelivered
}

// Report is a generated, versioned QC deliverable bundling an order's
// approved photos for a recipient. The photo set, title and format are
// editable only while pending; generation fixes them.
type Report struct {
	ID          uuid.UUID    `json:"id"`
	OrderID     uuid.UUID    `json:"orderId"`
	PhotoIDs    []uuid.UUID  `json:"photoIds,omitempty"`
	GeneratorID uuid.UUID    `json:"generatorId"`
	CreatedAt   time.Time    `json:"createdAt"`
	Title       string       `json:"title,omitempty"`
	Format      ReportFormat `json:"format"`
	Status      ReportStatus `json:"status"`
	Comments    *string      `json:"comments,omitempty"`

	// Version starts at 1 and is bumped explicitly via IncrementVersion.
	// It is the only optimistic-concurrency hint the entity carries; the
	// persistence layer compares it, the entity never does.
	Version int `json:"version"`

	// Set by Complete / Fail / Deliver.
	FileKey      string     `json:"fileKey,omitempty"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
	ReviewerID   *uuid.UUID `json:"reviewerId,omitempty"`
	Recipient    *string    `json:"recipient,omitempty"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`
}

// NewReport creates a pending report for an order.
func NewReport(orderID, generatorID uuid.UUID, format ReportFormat) (*Report, error) {
	if orderID == uuid.Nil {
		return nil, Invalid("Order is required")
	}
	if generatorID == uuid.Nil {
		return nil, Invalid("Generator is required")
	}
	if !format.Valid() {
		return nil, Invalid("Unknown report format %q", format)
	}

	return &Report{
		ID:          uuid.New(),
		OrderID:     orderID,
		GeneratorID: generatorID,
		CreatedAt:   time.Now(),
		Format:      format,
		Status:      ReportStatusPending,
		Version:     1,
	}, nil
}

// CreatedEvent returns the audit event for this report's creation.
func (r *Report) CreatedEvent() *Event {
	return newEvent(EventReportCreated, r.GeneratorID, "report", r.ID, r.OrderID, nil)
}

// IncludePhoto adds a photo reference to the report's bundle.
// Allowed only while the report is pending.
func (r *Report) IncludePhoto(photoID uuid.UUID) error {
	if photoID == uuid.Nil {
		return Invalid("Photo is required")
	}
	if r.Status != ReportStatusPending {
		return IllegalState("Cannot include photo in report in status %q", r.Status)
	}
	for _, id := range r.PhotoIDs {
		if id == photoID {
			return nil // already included
		}
	}
	r.PhotoIDs = append(r.PhotoIDs, photoID)
	return nil
}

// SetTitle sets the report title. Allowed only while pending.
func (r *Report) SetTitle(title string) error {
	if r.Status != ReportStatusPending {
		return IllegalState("Cannot set title on report in status %q", r.Status)
	}
	r.Title = title
	return nil
}

// SetFormat sets the output format. Allowed only while pending.
func (r *Report) SetFormat(format ReportFormat) error {
	if !format.Valid() {
		return Invalid("Unknown report format %q", format)
	}
	if r.Status != ReportStatusPending {
		return IllegalState("Cannot set format on report in status %q", r.Status)
	}
	r.Format = format
	return nil
}

// StartGeneration moves the report from pending to generating.
func (r *Report) StartGeneration() error {
	if r.Status != ReportStatusPending {
		return IllegalState("Cannot start generation of report in status %q", r.Status)
	}
	r.Status = ReportStatusGenerating
	return nil
}

// Complete records a successful generation: the stored file key and the
// completion time. Only legal while generating.
func (r *Report) Complete(fileKey string, completedAt time.Time) (*Event, error) {
	if fileKey == "" {
		return nil, Invalid("File key is required")
	}
	if completedAt.IsZero() {
		return nil, Invalid("Completion timestamp is required")
	}
	if r.Status != ReportStatusGenerating {
		return nil, IllegalState("Cannot complete report in status %q", r.Status)
	}

	r.Status = ReportStatusCompleted
	r.FileKey = fileKey
	r.CompletedAt = &completedAt

	return newEvent(EventReportCompleted, r.GeneratorID, "report", r.ID, r.OrderID, nil), nil
}

// Fail records a generation failure. Only legal while generating.
func (r *Report) Fail(errorMessage string) (*Event, error) {
	if errorMessage == "" {
		return nil, Invalid("Error message is required")
	}
	if r.Status != ReportStatusGenerating {
		return nil, IllegalState("Cannot fail report in status %q", r.Status)
	}

	r.Status = ReportStatusFailed
	r.ErrorMessage = &errorMessage

	return newEvent(EventReportFailed, r.GeneratorID, "report", r.ID, r.OrderID, map[string]any{
		"error": errorMessage,
	}), nil
}

// Approve records the reviewer's sign-off on a completed report.
func (r *Report) Approve(reviewerID uuid.UUID, comments string) (*Event, error) {
	if reviewerID == uuid.Nil {
		return nil, Invalid("Reviewer is required")
	}
	if r.Status != ReportStatusCompleted {
		return nil, IllegalState("Cannot approve report in status %q", r.Status)
	}

	r.Status = ReportStatusApproved
	r.ReviewerID = &reviewerID
	if comments != "" {
		r.Comments = &comments
	}

	return newEvent(EventReportApproved, reviewerID, "report", r.ID, r.OrderID, nil), nil
}

// Deliver records delivery of the approved report to a recipient.
// The recipient is required; there is no anonymous delivery.
func (r *Report) Deliver(recipient string, deliveredAt time.Time) (*Event, error) {
	if recipient == "" {
		return nil, Invalid("Recipient is required")
	}
	if deliveredAt.IsZero() {
		return nil, Invalid("Delivery timestamp is required")
	}
	if r.Status != ReportStatusApproved {
		return nil, IllegalState("Cannot deliver report in status %q", r.Status)
	}

	r.Status = ReportStatusDelivered
	r.Recipient = &recipient
	r.DeliveredAt = &deliveredAt

	return newEvent(EventReportDelivered, r.GeneratorID, "report", r.ID, r.OrderID, map[string]any{
		"recipient": recipient,
	}), nil
}

// Archive retires a report that finished generation. Pending, generating
// and failed reports cannot be archived.
func (r *Report) Archive() (*Event, error) {
	if !r.Status.canArchive() {
		return nil, IllegalState("Cannot archive report in status %q", r.Status)
	}
	r.Status = ReportStatusArchived
	return newEvent(EventReportArchived, r.GeneratorID, "report", r.ID, r.OrderID, nil), nil
}

// IncrementVersion bumps the version counter and returns the new value.
// Callers invoke this before saving when they want the persistence layer's
// optimistic-concurrency check to guard the write.
func (r *Report) IncrementVersion() int {
	r.Version++
	return r.Version
}

// ReportService defines operations for persisting reports.
type ReportService interface {
	// FindReportByID retrieves a report with its photo references.
	// Returns ENOTFOUND if the report does not exist.
	FindReportByID(ctx context.Context, id uuid.UUID) (*Report, error)

	// FindReports retrieves reports matching the filter criteria.
	// Returns the matching reports and total count.
	FindReports(ctx context.Context, filter ReportFilter) ([]*Report, int, error)

	// CreateReport persists a newly created report.
	CreateReport(ctx context.Context, report *Report) error

	// SaveReport persists the report's current state after an in-memory
	// transition. expectedVersion is the version the caller loaded; the
	// write fails with ECONFLICT if the stored version no longer matches.
	// Returns ENOTFOUND if the report does not exist.
	SaveReport(ctx context.Context, report *Report, expectedVersion int) error

	// DeleteReport deletes a report. Reports have no automatic expiry;
	// explicit deletion is the only way one goes away.
	// Returns ENOTFOUND if the report does not exist.
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// ReportFilter defines criteria for filtering reports.
type ReportFilter struct {
	ID      *uuid.UUID
	OrderID *uuid.UUID
	Status  *ReportStatus

	// Pagination
	Offset int
	Limit  int
}
