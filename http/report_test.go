package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/weldmark"
	"github.com/dukerupert/weldmark/mock"
)

func reportServer(t *testing.T, report *weldmark.Report) (*Server, *mock.Queue, *mock.EmailService, *mock.AuditService) {
	t.Helper()
	reports := &mock.ReportService{
		FindReportByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.Report, error) {
			if report != nil && id == report.ID {
				return report, nil
			}
			return nil, weldmark.NotFound("Report not found")
		},
	}
	orders := &mock.OrderService{
		FindOrderByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.Order, error) {
			return &weldmark.Order{ID: id, Number: "WO-1", CustomerID: uuid.New()}, nil
		},
	}
	queue := &mock.Queue{}
	email := &mock.EmailService{}
	audit := &mock.AuditService{}
	s := newTestServer(t, Config{
		OrderService:         orders,
		PhotoDocumentService: &mock.PhotoDocumentService{},
		ReportService:        reports,
		AuditService:         audit,
		FileStorage:          &mock.FileStorage{},
		EmailService:         email,
		Queue:                queue,
	})
	return s, queue, email, audit
}

func TestCreateReport(t *testing.T) {
	s, _, _, audit := reportServer(t, nil)

	body := fmt.Sprintf(`{"orderId":%q,"format":"html","title":"Weld QC"}`, uuid.New())
	rec := doJSON(s, http.MethodPost, "/api/reports", body, map[string]string{
		ReviewerHeader: uuid.NewString(),
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var got weldmark.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, weldmark.ReportStatusPending, got.Status)
	assert.Equal(t, weldmark.ReportFormatHTML, got.Format)
	assert.Equal(t, "Weld QC", got.Title)
	assert.Equal(t, 1, got.Version)

	require.Len(t, audit.Recorded, 1)
	assert.Equal(t, weldmark.EventReportCreated, audit.Recorded[0].Type)
}

func TestCreateReport_NoGenerator(t *testing.T) {
	s, _, _, _ := reportServer(t, nil)

	body := fmt.Sprintf(`{"orderId":%q}`, uuid.New())
	rec := doJSON(s, http.MethodPost, "/api/reports", body, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGenerateReport(t *testing.T) {
	report, err := weldmark.NewReport(uuid.New(), uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)

	s, queue, _, _ := reportServer(t, report)

	rec := doJSON(s, http.MethodPost, "/api/reports/"+report.ID.String()+"/generate", "", nil)

	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
	require.Len(t, queue.Enqueued, 1)

	job := queue.Enqueued[0]
	assert.Equal(t, weldmark.QueueReports, job.QueueName)
	assert.Equal(t, weldmark.JobTypeReportGeneration, job.JobType)
	assert.Contains(t, string(job.Payload), report.ID.String())
}

func TestGenerateReport_NotPending(t *testing.T) {
	report, err := weldmark.NewReport(uuid.New(), uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)
	require.NoError(t, report.StartGeneration())

	s, queue, _, _ := reportServer(t, report)

	rec := doJSON(s, http.MethodPost, "/api/reports/"+report.ID.String()+"/generate", "", nil)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Empty(t, queue.Enqueued)
}

func TestIncludeReportPhoto_BumpsVersion(t *testing.T) {
	report, err := weldmark.NewReport(uuid.New(), uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)

	s, _, _, _ := reportServer(t, report)

	photos := &mock.PhotoDocumentService{
		FindPhotoDocumentByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.PhotoDocument, error) {
			return &weldmark.PhotoDocument{ID: id}, nil
		},
	}
	s.photoDocumentService = photos

	photoID := uuid.New()
	rec := doJSON(s, http.MethodPost, "/api/reports/"+report.ID.String()+"/photos",
		fmt.Sprintf(`{"photoId":%q}`, photoID), nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []uuid.UUID{photoID}, report.PhotoIDs)
	assert.Equal(t, 2, report.Version)
}

func TestApproveReport(t *testing.T) {
	report, err := weldmark.NewReport(uuid.New(), uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)
	require.NoError(t, report.StartGeneration())
	_, err = report.Complete("reports/x/v1.html", time.Now())
	require.NoError(t, err)

	s, _, _, audit := reportServer(t, report)
	reviewer := uuid.New()

	rec := doJSON(s, http.MethodPost, "/api/reports/"+report.ID.String()+"/approve",
		`{"comments":"looks complete"}`, map[string]string{ReviewerHeader: reviewer.String()})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, weldmark.ReportStatusApproved, report.Status)
	require.NotNil(t, report.ReviewerID)
	assert.Equal(t, reviewer, *report.ReviewerID)

	require.Len(t, audit.Recorded, 1)
	assert.Equal(t, weldmark.EventReportApproved, audit.Recorded[0].Type)
}

func TestDeliverReport_SendsEmail(t *testing.T) {
	report, err := weldmark.NewReport(uuid.New(), uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)
	require.NoError(t, report.StartGeneration())
	_, err = report.Complete("reports/x/v1.html", time.Now())
	require.NoError(t, err)
	_, err = report.Approve(uuid.New(), "")
	require.NoError(t, err)

	s, _, email, audit := reportServer(t, report)

	var sentTo, sentURL string
	email.SendReportFn = func(ctx context.Context, to, subject, reportURL string) error {
		sentTo = to
		sentURL = reportURL
		return nil
	}

	rec := doJSON(s, http.MethodPost, "/api/reports/"+report.ID.String()+"/deliver",
		`{"recipient":"qa@customer.example"}`, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, weldmark.ReportStatusDelivered, report.Status)
	assert.Equal(t, "qa@customer.example", sentTo)
	assert.Contains(t, sentURL, report.FileKey)

	require.Len(t, audit.Recorded, 1)
	assert.Equal(t, weldmark.EventReportDelivered, audit.Recorded[0].Type)
}

func TestDeliverReport_RequiresRecipient(t *testing.T) {
	report, err := weldmark.NewReport(uuid.New(), uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)
	require.NoError(t, report.StartGeneration())
	_, err = report.Complete("reports/x/v1.html", time.Now())
	require.NoError(t, err)
	_, err = report.Approve(uuid.New(), "")
	require.NoError(t, err)

	s, _, _, _ := reportServer(t, report)

	rec := doJSON(s, http.MethodPost, "/api/reports/"+report.ID.String()+"/deliver", `{}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDownloadReport_ContentType(t *testing.T) {
	tests := []struct {
		name        string
		format      weldmark.ReportFormat
		fileKey     string
		contentType string
	}{
		{"html report", weldmark.ReportFormatHTML, "reports/x/v1.html", "text/html; charset=utf-8"},
		{"pdf stored as html", weldmark.ReportFormatPDF, "reports/x/v1.html", "text/html; charset=utf-8"},
		{"native pdf", weldmark.ReportFormatPDF, "reports/x/v1.pdf", "application/pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := weldmark.NewReport(uuid.New(), uuid.New(), tt.format)
			require.NoError(t, err)
			require.NoError(t, report.StartGeneration())
			_, err = report.Complete(tt.fileKey, time.Now())
			require.NoError(t, err)

			s, _, _, _ := reportServer(t, report)
			s.fileStorage = &mock.FileStorage{
				DownloadFn: func(ctx context.Context, key string) (io.ReadCloser, error) {
					assert.Equal(t, tt.fileKey, key)
					return io.NopCloser(strings.NewReader("report body")), nil
				},
			}

			rec := doJSON(s, http.MethodGet, "/api/reports/"+report.ID.String()+"/download", "", nil)

			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.contentType, rec.Header().Get(echo.HeaderContentType))
			assert.Equal(t, "report body", rec.Body.String())
		})
	}
}

func TestArchiveReport_BeforeCompletion(t *testing.T) {
	report, err := weldmark.NewReport(uuid.New(), uuid.New(), weldmark.ReportFormatHTML)
	require.NoError(t, err)

	s, _, _, _ := reportServer(t, report)

	rec := doJSON(s, http.MethodPost, "/api/reports/"+report.ID.String()+"/archive", "", nil)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, weldmark.EILLEGALSTATE, resp.Error)
}
