package reportgen

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/weldmark"
	"github.com/dukerupert/weldmark/mock"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func approvedPhoto(t *testing.T, orderID uuid.UUID) *weldmark.PhotoDocument {
	t.Helper()

	doc, err := weldmark.NewPhotoDocument(weldmark.TemplateTopViewOfJoint, "photos/joint-1.jpg", uuid.New(), time.Now())
	require.NoError(t, err)
	require.NoError(t, doc.AssignToOrder(orderID))
	_, err = doc.Approve(uuid.New(), time.Now())
	require.NoError(t, err)
	return doc
}

func TestGenerator_Generate(t *testing.T) {
	orderID := uuid.New()
	report, err := weldmark.NewReport(orderID, uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)

	photo := approvedPhoto(t, orderID)
	require.NoError(t, report.IncludePhoto(photo.ID))

	var saves int
	reports := &mock.ReportService{
		FindReportByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.Report, error) {
			require.Equal(t, report.ID, id)
			return report, nil
		},
		SaveReportFn: func(ctx context.Context, r *weldmark.Report, expectedVersion int) error {
			saves++
			assert.Equal(t, 1, expectedVersion)
			return nil
		},
	}
	orders := &mock.OrderService{
		FindOrderByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.Order, error) {
			return &weldmark.Order{ID: orderID, Number: "WO-1042", CustomerID: uuid.New()}, nil
		},
	}
	photos := &mock.PhotoDocumentService{
		FindPhotoDocumentByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.PhotoDocument, error) {
			require.Equal(t, photo.ID, id)
			return photo, nil
		},
	}
	audit := &mock.AuditService{}

	var uploadedKey, uploadedType string
	storage := &mock.FileStorage{
		UploadFn: func(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
			uploadedKey = key
			uploadedType = contentType
			body, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.Contains(t, string(body), "WO-1042")
			assert.Contains(t, string(body), weldmark.TemplateTopViewOfJoint.Name)
			return "https://storage.example.com/" + key, nil
		},
	}

	gen, err := NewGenerator(testLogger(), reports, orders, photos, audit, storage)
	require.NoError(t, err)

	result, err := gen.Generate(context.Background(), report.ID)
	require.NoError(t, err)

	assert.Equal(t, weldmark.ReportStatusCompleted, report.Status)
	assert.Equal(t, uploadedKey, report.FileKey)
	assert.Equal(t, "text/html", uploadedType)
	assert.NotNil(t, report.CompletedAt)
	assert.Equal(t, uploadedKey, result.FileKey)
	assert.Equal(t, 2, saves)

	require.Len(t, audit.Recorded, 1)
	assert.Equal(t, weldmark.EventReportCompleted, audit.Recorded[0].Type)
}

func TestGenerator_Generate_OrderLoadFailure(t *testing.T) {
	orderID := uuid.New()
	report, err := weldmark.NewReport(orderID, uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)

	reports := &mock.ReportService{
		FindReportByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.Report, error) {
			return report, nil
		},
		SaveReportFn: func(ctx context.Context, r *weldmark.Report, expectedVersion int) error {
			return nil
		},
	}
	orders := &mock.OrderService{
		FindOrderByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.Order, error) {
			return nil, weldmark.Internal("database unavailable", errors.New("connection refused"))
		},
	}
	audit := &mock.AuditService{}

	gen, err := NewGenerator(testLogger(), reports, orders, &mock.PhotoDocumentService{}, audit, &mock.FileStorage{})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), report.ID)
	require.Error(t, err)

	assert.Equal(t, weldmark.ReportStatusFailed, report.Status)
	require.NotNil(t, report.ErrorMessage)
	assert.Contains(t, *report.ErrorMessage, "failed to load order")

	require.Len(t, audit.Recorded, 1)
	assert.Equal(t, weldmark.EventReportFailed, audit.Recorded[0].Type)
}

func TestGenerator_Generate_SkipsUnapprovedPhotos(t *testing.T) {
	orderID := uuid.New()
	report, err := weldmark.NewReport(orderID, uuid.New(), weldmark.ReportFormatPDF)
	require.NoError(t, err)

	pending, err := weldmark.NewPhotoDocument(weldmark.TemplateSideViewOfWeld, "photos/side-1.jpg", uuid.New(), time.Now())
	require.NoError(t, err)
	require.NoError(t, report.IncludePhoto(pending.ID))

	reports := &mock.ReportService{
		FindReportByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.Report, error) {
			return report, nil
		},
		SaveReportFn: func(ctx context.Context, r *weldmark.Report, expectedVersion int) error {
			return nil
		},
	}
	orders := &mock.OrderService{
		FindOrderByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.Order, error) {
			return &weldmark.Order{ID: orderID, Number: "WO-7", CustomerID: uuid.New()}, nil
		},
	}
	photos := &mock.PhotoDocumentService{
		FindPhotoDocumentByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.PhotoDocument, error) {
			return pending, nil
		},
	}

	storage := &mock.FileStorage{
		UploadFn: func(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
			body, err := io.ReadAll(reader)
			require.NoError(t, err)
			assert.NotContains(t, string(body), weldmark.TemplateSideViewOfWeld.Name)
			assert.Contains(t, string(body), "No approved photos")
			return "https://storage.example.com/" + key, nil
		},
	}

	gen, err := NewGenerator(testLogger(), reports, orders, photos, &mock.AuditService{}, storage)
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), report.ID)
	require.NoError(t, err)
	assert.Equal(t, weldmark.ReportStatusCompleted, report.Status)
}

func TestGenerator_Generate_AlreadyCompleted(t *testing.T) {
	orderID := uuid.New()
	report, err := weldmark.NewReport(orderID, uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)
	require.NoError(t, report.StartGeneration())
	_, err = report.Complete("reports/x/v1.html", time.Now())
	require.NoError(t, err)

	reports := &mock.ReportService{
		FindReportByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.Report, error) {
			return report, nil
		},
	}

	gen, err := NewGenerator(testLogger(), reports, &mock.OrderService{}, &mock.PhotoDocumentService{}, &mock.AuditService{}, &mock.FileStorage{})
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), report.ID)
	require.Error(t, err)
	assert.Equal(t, weldmark.EILLEGALSTATE, weldmark.ErrorCode(err))
}
