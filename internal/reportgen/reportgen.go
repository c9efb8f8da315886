// Package reportgen renders QC photo documentation reports and implements
// the background job that generates them.
package reportgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/weldmark"
	"github.com/dukerupert/weldmark/internal/queue"
)

// GenerationPayload is the job payload for report generation jobs.
type GenerationPayload struct {
	ReportID uuid.UUID `json:"reportId"`
}

// GenerationResult is the job result recorded on success.
type GenerationResult struct {
	FileKey string `json:"fileKey"`
	URL     string `json:"url"`
}

// Generator produces report documents from approved order photos.
type Generator struct {
	renderer *renderer
	logger   *slog.Logger

	reports weldmark.ReportService
	orders  weldmark.OrderService
	photos  weldmark.PhotoDocumentService
	audit   weldmark.AuditService
	storage weldmark.FileStorage
}

// NewGenerator creates a report generator.
func NewGenerator(
	logger *slog.Logger,
	reports weldmark.ReportService,
	orders weldmark.OrderService,
	photos weldmark.PhotoDocumentService,
	audit weldmark.AuditService,
	storage weldmark.FileStorage,
) (*Generator, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}
	return &Generator{
		renderer: r,
		logger:   logger,
		reports:  reports,
		orders:   orders,
		photos:   photos,
		audit:    audit,
		storage:  storage,
	}, nil
}

// Handler returns the queue handler for report generation jobs.
func (g *Generator) Handler() queue.JobHandler {
	return func(ctx context.Context, job *weldmark.Job) ([]byte, error) {
		var payload GenerationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return nil, fmt.Errorf("invalid report generation payload: %w", err)
		}
		if payload.ReportID == uuid.Nil {
			return nil, fmt.Errorf("report generation payload missing report id")
		}

		result, err := g.Generate(ctx, payload.ReportID)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	}
}

// Generate runs a full generation pass for the given report: it moves the
// report to generating, renders the document from the order's approved
// photos, uploads it, and records the outcome on the report.
func (g *Generator) Generate(ctx context.Context, reportID uuid.UUID) (*GenerationResult, error) {
	report, err := g.reports.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	loadedVersion := report.Version

	if err := report.StartGeneration(); err != nil {
		return nil, err
	}
	if err := g.reports.SaveReport(ctx, report, loadedVersion); err != nil {
		return nil, err
	}

	result, genErr := g.generate(ctx, report)
	if genErr != nil {
		g.logger.Error("report generation failed",
			slog.String("report_id", report.ID.String()),
			slog.String("error", genErr.Error()),
		)

		event, failErr := report.Fail(genErr.Error())
		if failErr != nil {
			return nil, failErr
		}
		if err := g.reports.SaveReport(ctx, report, loadedVersion); err != nil {
			return nil, err
		}
		g.record(ctx, event)
		return nil, genErr
	}

	event, err := report.Complete(result.FileKey, time.Now())
	if err != nil {
		return nil, err
	}
	if err := g.reports.SaveReport(ctx, report, loadedVersion); err != nil {
		return nil, err
	}
	g.record(ctx, event)

	g.logger.Info("report generated",
		slog.String("report_id", report.ID.String()),
		slog.String("file_key", result.FileKey),
		slog.Int("photos", len(report.PhotoIDs)),
	)
	return result, nil
}

func (g *Generator) generate(ctx context.Context, report *weldmark.Report) (*GenerationResult, error) {
	order, err := g.orders.FindOrderByID(ctx, report.OrderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	data := reportData{
		Title:       report.Title,
		OrderNumber: order.Number,
		Description: order.Description,
		Format:      string(report.Format),
		Version:     report.Version,
		GeneratedAt: time.Now(),
	}
	if data.Title == "" {
		data.Title = fmt.Sprintf("QC Photo Documentation - Order %s", order.Number)
	}

	for _, photoID := range report.PhotoIDs {
		doc, err := g.photos.FindPhotoDocumentByID(ctx, photoID)
		if err != nil {
			return nil, fmt.Errorf("failed to load photo %s: %w", photoID, err)
		}
		if doc.Status != weldmark.ApprovalStatusApproved {
			// Reports document approved evidence only; anything the
			// reviewer has not signed off stays out.
			g.logger.Warn("skipping unapproved photo in report",
				slog.String("report_id", report.ID.String()),
				slog.String("photo_id", photoID.String()),
				slog.String("status", string(doc.Status)),
			)
			continue
		}
		data.Photos = append(data.Photos, photoView(g.storage, doc))
	}

	document, err := g.renderer.Render(data)
	if err != nil {
		return nil, err
	}

	// TODO: wire a native PDF renderer; until then both formats store the
	// print-ready HTML document.
	fileKey := fmt.Sprintf("reports/%s/v%d.html", report.ID, report.Version)
	url, err := g.storage.Upload(ctx, fileKey, bytes.NewReader(document), "text/html")
	if err != nil {
		return nil, fmt.Errorf("failed to upload report document: %w", err)
	}

	return &GenerationResult{FileKey: fileKey, URL: url}, nil
}

func photoView(storage weldmark.FileStorage, doc *weldmark.PhotoDocument) photoData {
	p := photoData{
		Template:    doc.Template.Name,
		Description: doc.Template.Description,
		StorageKey:  doc.StorageKey,
		URL:         storage.GetURL(doc.StorageKey),
		UploaderID:  doc.UploaderID.String(),
		UploadedAt:  doc.UploadedAt,
		ReviewedAt:  doc.ReviewedAt,
		Annotations: doc.Annotations,
	}
	if doc.ReviewerID != nil {
		p.ReviewerID = doc.ReviewerID.String()
	}
	if doc.Metadata != nil {
		p.Resolution = doc.Metadata.Resolution()
		p.Megapixels = fmt.Sprintf("%.1f", doc.Metadata.Megapixels())
	}
	return p
}

// record appends the event to the audit trail, logging on failure. A lost
// audit entry never fails the job.
func (g *Generator) record(ctx context.Context, event *weldmark.Event) {
	if event == nil {
		return
	}
	if err := g.audit.RecordEvent(ctx, event); err != nil {
		g.logger.Error("failed to record audit event",
			slog.String("event_type", event.Type),
			slog.String("error", err.Error()),
		)
	}
}
