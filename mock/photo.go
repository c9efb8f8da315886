package mock

import (
	"context"

	"github.com/google/uuid"

	"github.com/dukerupert/weldmark"
)

// Compile-time interface check
var _ weldmark.PhotoDocumentService = (*PhotoDocumentService)(nil)

// PhotoDocumentService is a mock implementation of weldmark.PhotoDocumentService.
type PhotoDocumentService struct {
	FindPhotoDocumentByIDFn func(ctx context.Context, id uuid.UUID) (*weldmark.PhotoDocument, error)
	FindPhotoDocumentsFn    func(ctx context.Context, filter weldmark.PhotoDocumentFilter) ([]*weldmark.PhotoDocument, int, error)
	CreatePhotoDocumentFn   func(ctx context.Context, doc *weldmark.PhotoDocument) error
	SavePhotoDocumentFn     func(ctx context.Context, doc *weldmark.PhotoDocument) error
	DeletePhotoDocumentFn   func(ctx context.Context, id uuid.UUID) error
}

func (s *PhotoDocumentService) FindPhotoDocumentByID(ctx context.Context, id uuid.UUID) (*weldmark.PhotoDocument, error) {
	if s.FindPhotoDocumentByIDFn != nil {
		return s.FindPhotoDocumentByIDFn(ctx, id)
	}
	return nil, weldmark.NotFound("Photo document not found")
}

func (s *PhotoDocumentService) FindPhotoDocuments(ctx context.Context, filter weldmark.PhotoDocumentFilter) ([]*weldmark.PhotoDocument, int, error) {
	if s.FindPhotoDocumentsFn != nil {
		return s.FindPhotoDocumentsFn(ctx, filter)
	}
	return []*weldmark.PhotoDocument{}, 0, nil
}

func (s *PhotoDocumentService) CreatePhotoDocument(ctx context.Context, doc *weldmark.PhotoDocument) error {
	if s.CreatePhotoDocumentFn != nil {
		return s.CreatePhotoDocumentFn(ctx, doc)
	}
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	return nil
}

func (s *PhotoDocumentService) SavePhotoDocument(ctx context.Context, doc *weldmark.PhotoDocument) error {
	if s.SavePhotoDocumentFn != nil {
		return s.SavePhotoDocumentFn(ctx, doc)
	}
	return nil
}

func (s *PhotoDocumentService) DeletePhotoDocument(ctx context.Context, id uuid.UUID) error {
	if s.DeletePhotoDocumentFn != nil {
		return s.DeletePhotoDocumentFn(ctx, id)
	}
	return nil
}
