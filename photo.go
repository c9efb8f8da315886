package weldmark

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ApprovalStatus represents the review state of a photo document.
type ApprovalStatus string

const (
	ApprovalStatusPending  ApprovalStatus = "pending"
	ApprovalStatusApproved ApprovalStatus = "approved"
	ApprovalStatusRejected ApprovalStatus = "rejected"
)

// IsTerminal returns true once a review decision has been recorded.
// Approved and rejected photos never transition again.
func (s ApprovalStatus) IsTerminal() bool {
	return s == ApprovalStatusApproved || s == ApprovalStatusRejected
}

// Valid reports whether the value is a known approval status.
func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected:
		return true
	}
	return false
}

// PhotoAnnotation is a marker placed on a photo. The ID is the stable
// identity used for update/remove matching, not the slice position.
type PhotoAnnotation struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	X         float64   `json:"x"` // normalized 0..1 from left edge
	Y         float64   `json:"y"` // normalized 0..1 from top edge
	AuthorID  uuid.UUID `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
}

// PhotoDocument is one captured QC photo together with its metadata,
// annotations and review state. Template, image, uploader and upload time
// are fixed at creation; the review decision is recorded exactly once.
type PhotoDocument struct {
	ID          uuid.UUID       `json:"id"`
	Template    PhotoTemplate   `json:"template"`
	StorageKey  string          `json:"storageKey"`
	Annotations []PhotoAnnotation `json:"annotations,omitempty"`
	UploaderID  uuid.UUID       `json:"uploaderId"`
	UploadedAt  time.Time       `json:"uploadedAt"`

	// OrderID is zero until the photo is assigned to an order.
	OrderID uuid.UUID `json:"orderId,omitempty"`

	// Metadata is nil until image processing reports it.
	Metadata *PhotoMetadata `json:"metadata,omitempty"`

	Status ApprovalStatus `json:"status"`

	// Review fields are nil until a decision is recorded.
	ReviewerID    *uuid.UUID `json:"reviewerId,omitempty"`
	ReviewedAt    *time.Time `json:"reviewedAt,omitempty"`
	ReviewComment *string    `json:"reviewComment,omitempty"`

	LastModifiedAt time.Time `json:"lastModifiedAt"`
}

// NewPhotoDocument creates a pending photo document at upload time.
func NewPhotoDocument(template PhotoTemplate, storageKey string, uploaderID uuid.UUID, uploadedAt time.Time) (*PhotoDocument, error) {
	if template.Name == "" {
		return nil, Invalid("Template is required")
	}
	if storageKey == "" {
		return nil, Invalid("Storage key is required")
	}
	if uploaderID == uuid.Nil {
		return nil, Invalid("Uploader is required")
	}
	if uploadedAt.IsZero() {
		return nil, Invalid("Upload timestamp is required")
	}

	return &PhotoDocument{
		ID:             uuid.New(),
		Template:       template,
		StorageKey:     storageKey,
		UploaderID:     uploaderID,
		UploadedAt:     uploadedAt,
		Status:         ApprovalStatusPending,
		LastModifiedAt: uploadedAt,
	}, nil
}

// UploadedEvent returns the audit event for this document's creation.
func (d *PhotoDocument) UploadedEvent() *Event {
	return newEvent(EventPhotoUploaded, d.UploaderID, "photo_document", d.ID, d.OrderID, map[string]any{
		"template": d.Template.Name,
	})
}

// Approve records an approval decision. The document must still be pending
// and both reviewer and timestamp must be present.
func (d *PhotoDocument) Approve(reviewerID uuid.UUID, reviewedAt time.Time) (*Event, error) {
	if reviewerID == uuid.Nil {
		return nil, Invalid("Reviewer is required")
	}
	if reviewedAt.IsZero() {
		return nil, Invalid("Review timestamp is required")
	}
	if d.Status != ApprovalStatusPending {
		return nil, IllegalState("Cannot approve photo document in status %q", d.Status)
	}

	d.Status = ApprovalStatusApproved
	d.ReviewerID = &reviewerID
	d.ReviewedAt = &reviewedAt
	d.LastModifiedAt = reviewedAt

	return newEvent(EventPhotoApproved, reviewerID, "photo_document", d.ID, d.OrderID, nil), nil
}

// Reject records a rejection decision. A reason is optional; rejection
// without comment is allowed and leaves ReviewComment nil.
func (d *PhotoDocument) Reject(reviewerID uuid.UUID, reviewedAt time.Time, reason string) (*Event, error) {
	if reviewerID == uuid.Nil {
		return nil, Invalid("Reviewer is required")
	}
	if reviewedAt.IsZero() {
		return nil, Invalid("Review timestamp is required")
	}
	if d.Status != ApprovalStatusPending {
		return nil, IllegalState("Cannot reject photo document in status %q", d.Status)
	}

	d.Status = ApprovalStatusRejected
	d.ReviewerID = &reviewerID
	d.ReviewedAt = &reviewedAt
	if reason != "" {
		d.ReviewComment = &reason
	}
	d.LastModifiedAt = reviewedAt

	detail := map[string]any{}
	if reason != "" {
		detail["reason"] = reason
	}
	return newEvent(EventPhotoRejected, reviewerID, "photo_document", d.ID, d.OrderID, detail), nil
}

// SetMetadata attaches (or replaces) the technical metadata and returns the
// quality violations found. There is no state guard: metadata may arrive
// before or after review. The document itself does not block on violations;
// callers decide whether to act on them.
func (d *PhotoDocument) SetMetadata(m PhotoMetadata) []string {
	d.Metadata = &m
	d.LastModifiedAt = time.Now()
	return ValidateQuality(m)
}

// MeetsQualityStandards returns true iff metadata is present and clean.
func (d *PhotoDocument) MeetsQualityStandards() bool {
	return d.Metadata != nil && MeetsQualityStandard(*d.Metadata)
}

// AssignToOrder binds the document to an order. Rebinding is permitted.
func (d *PhotoDocument) AssignToOrder(orderID uuid.UUID) error {
	if orderID == uuid.Nil {
		return Invalid("Order is required")
	}
	d.OrderID = orderID
	d.LastModifiedAt = time.Now()
	return nil
}

// AddAnnotation appends an annotation. A zero ID is assigned a fresh one.
// Annotation mutation is legal in any approval status.
func (d *PhotoDocument) AddAnnotation(a PhotoAnnotation) error {
	if a.Text == "" {
		return Invalid("Annotation text is required")
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	d.Annotations = append(d.Annotations, a)
	d.LastModifiedAt = time.Now()
	return nil
}

// RemoveAnnotation deletes the annotation with the given ID.
// Returns false, without touching LastModifiedAt, if no annotation matches.
func (d *PhotoDocument) RemoveAnnotation(id uuid.UUID) bool {
	for i, a := range d.Annotations {
		if a.ID == id {
			d.Annotations = append(d.Annotations[:i], d.Annotations[i+1:]...)
			d.LastModifiedAt = time.Now()
			return true
		}
	}
	return false
}

// UpdateAnnotation replaces the annotation whose ID matches the given one.
// Returns false, without touching LastModifiedAt, if no annotation matches.
func (d *PhotoDocument) UpdateAnnotation(updated PhotoAnnotation) bool {
	for i, a := range d.Annotations {
		if a.ID == updated.ID {
			d.Annotations[i] = updated
			d.LastModifiedAt = time.Now()
			return true
		}
	}
	return false
}

// FindAnnotation returns the annotation with the given ID, or nil.
func (d *PhotoDocument) FindAnnotation(id uuid.UUID) *PhotoAnnotation {
	for i := range d.Annotations {
		if d.Annotations[i].ID == id {
			return &d.Annotations[i]
		}
	}
	return nil
}

// PhotoDocumentService defines operations for persisting photo documents.
type PhotoDocumentService interface {
	// FindPhotoDocumentByID retrieves a photo document with its annotations.
	// Returns ENOTFOUND if the document does not exist.
	FindPhotoDocumentByID(ctx context.Context, id uuid.UUID) (*PhotoDocument, error)

	// FindPhotoDocuments retrieves documents matching the filter criteria.
	// Returns the matching documents and total count.
	FindPhotoDocuments(ctx context.Context, filter PhotoDocumentFilter) ([]*PhotoDocument, int, error)

	// CreatePhotoDocument persists a newly uploaded document.
	CreatePhotoDocument(ctx context.Context, doc *PhotoDocument) error

	// SavePhotoDocument persists the document's current state, including
	// annotations, after an in-memory transition. The caller is expected to
	// serialize read-modify-write cycles per document.
	// Returns ENOTFOUND if the document does not exist.
	SavePhotoDocument(ctx context.Context, doc *PhotoDocument) error

	// DeletePhotoDocument deletes a document and its annotations.
	// Returns ENOTFOUND if the document does not exist.
	DeletePhotoDocument(ctx context.Context, id uuid.UUID) error
}

// PhotoDocumentFilter defines criteria for filtering photo documents.
type PhotoDocumentFilter struct {
	ID      *uuid.UUID
	OrderID *uuid.UUID
	Status  *ApprovalStatus

	// Pagination
	Offset int
	Limit  int
}
