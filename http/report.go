package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dukerupert/weldmark"
	"github.com/dukerupert/weldmark/internal/reportgen"
)

// CreateReportRequest is the request payload for creating a report.
type CreateReportRequest struct {
	OrderID  string   `json:"orderId"`
	Format   string   `json:"format"`
	Title    string   `json:"title"`
	PhotoIDs []string `json:"photoIds"`
}

func (s *Server) handleCreateReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	generatorID, err := requireReviewerID(c)
	if err != nil {
		return err
	}

	var req CreateReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	orderID, err := parseUUID(req.OrderID)
	if err != nil {
		return weldmark.Invalid("Invalid order ID format")
	}
	if _, err := s.orderService.FindOrderByID(ctx, orderID); err != nil {
		return err
	}

	format := weldmark.ReportFormatPDF
	if req.Format != "" {
		format = weldmark.ReportFormat(req.Format)
	}

	report, err := weldmark.NewReport(orderID, generatorID, format)
	if err != nil {
		return err
	}
	if req.Title != "" {
		if err := report.SetTitle(req.Title); err != nil {
			return err
		}
	}
	for _, raw := range req.PhotoIDs {
		photoID, err := parseUUID(raw)
		if err != nil {
			return weldmark.Invalid("Invalid photo ID format")
		}
		if err := report.IncludePhoto(photoID); err != nil {
			return err
		}
	}

	if err := s.reportService.CreateReport(ctx, report); err != nil {
		return err
	}
	s.record(c, report.CreatedEvent())

	s.log(c).Info("report created",
		slog.String("report_id", report.ID.String()),
		slog.String("order_id", orderID.String()),
	)

	return RespondCreated(c, report)
}

func (s *Server) handleGetReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	reportID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	report, err := s.reportService.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}

	return RespondOK(c, report)
}

func (s *Server) handleListReports(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	offset, limit := pagination(c)
	filter := weldmark.ReportFilter{Offset: offset, Limit: limit}

	if v := c.QueryParam("orderId"); v != "" {
		orderID, err := parseUUID(v)
		if err != nil {
			return weldmark.Invalid("Invalid order ID format")
		}
		filter.OrderID = &orderID
	}
	if v := c.QueryParam("status"); v != "" {
		status := weldmark.ReportStatus(v)
		if !status.Valid() {
			return weldmark.Invalid("Unknown report status %q", v)
		}
		filter.Status = &status
	}

	reports, total, err := s.reportService.FindReports(ctx, filter)
	if err != nil {
		return err
	}

	return RespondList(c, reports, total, offset, limit)
}

// IncludePhotoRequest is the request payload for adding a photo to a report.
type IncludePhotoRequest struct {
	PhotoID string `json:"photoId"`
}

func (s *Server) handleIncludeReportPhoto(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	reportID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req IncludePhotoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	photoID, err := parseUUID(req.PhotoID)
	if err != nil {
		return weldmark.Invalid("Invalid photo ID format")
	}
	if _, err := s.photoDocumentService.FindPhotoDocumentByID(ctx, photoID); err != nil {
		return err
	}

	report, err := s.reportService.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	expectedVersion := report.Version

	if err := report.IncludePhoto(photoID); err != nil {
		return err
	}
	report.IncrementVersion()

	if err := s.reportService.SaveReport(ctx, report, expectedVersion); err != nil {
		return err
	}

	return RespondOK(c, report)
}

// UpdateReportRequest is the request payload for editing a pending report.
type UpdateReportRequest struct {
	Title  *string `json:"title"`
	Format *string `json:"format"`
}

func (s *Server) handleUpdateReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	reportID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	report, err := s.reportService.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	expectedVersion := report.Version

	if req.Title != nil {
		if err := report.SetTitle(*req.Title); err != nil {
			return err
		}
	}
	if req.Format != nil {
		if err := report.SetFormat(weldmark.ReportFormat(*req.Format)); err != nil {
			return err
		}
	}
	report.IncrementVersion()

	if err := s.reportService.SaveReport(ctx, report, expectedVersion); err != nil {
		return err
	}

	return RespondOK(c, report)
}

func (s *Server) handleGenerateReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	reportID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	report, err := s.reportService.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.Status != weldmark.ReportStatusPending {
		return weldmark.IllegalState("Cannot generate report in status %q", report.Status)
	}

	if s.queue == nil {
		return weldmark.Internal("Queue service not available", nil)
	}

	payload, err := json.Marshal(reportgen.GenerationPayload{ReportID: report.ID})
	if err != nil {
		return weldmark.Internal("Failed to encode job payload", err)
	}

	job := &weldmark.Job{
		ID:        uuid.New(),
		QueueName: weldmark.QueueReports,
		JobType:   weldmark.JobTypeReportGeneration,
		Payload:   payload,
		Status:    weldmark.JobStatusPending,
	}

	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.log(c).Error("failed to enqueue report generation", slog.String("error", err.Error()))
		return weldmark.Internal("Failed to queue report generation", err)
	}

	s.log(c).Info("report generation queued",
		slog.String("report_id", report.ID.String()),
		slog.String("job_id", job.ID.String()),
	)

	return RespondAccepted(c, map[string]any{
		"jobId":    job.ID.String(),
		"reportId": report.ID.String(),
		"status":   "queued",
	})
}

func (s *Server) handleGetReportJob(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	jobID, err := requireUUIDParam(c, "jobId")
	if err != nil {
		return err
	}

	job, err := s.queue.GetJob(ctx, jobID)
	if err != nil {
		return err
	}

	return RespondOK(c, map[string]any{
		"jobId":       job.ID.String(),
		"status":      string(job.Status),
		"result":      json.RawMessage(job.Result),
		"error":       job.ErrorMessage,
		"createdAt":   job.CreatedAt,
		"completedAt": job.CompletedAt,
	})
}

// ApproveReportRequest is the request payload for approving a report.
type ApproveReportRequest struct {
	Comments string `json:"comments"`
}

func (s *Server) handleApproveReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	reportID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	reviewerID, err := requireReviewerID(c)
	if err != nil {
		return err
	}

	var req ApproveReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	report, err := s.reportService.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	expectedVersion := report.Version

	event, err := report.Approve(reviewerID, req.Comments)
	if err != nil {
		return err
	}

	if err := s.reportService.SaveReport(ctx, report, expectedVersion); err != nil {
		return err
	}
	s.record(c, event)

	s.log(c).Info("report approved",
		slog.String("report_id", reportID.String()),
		slog.String("reviewer_id", reviewerID.String()),
	)

	return RespondOK(c, report)
}

// DeliverReportRequest is the request payload for delivering a report.
type DeliverReportRequest struct {
	Recipient string `json:"recipient"`
}

func (s *Server) handleDeliverReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	reportID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req DeliverReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	report, err := s.reportService.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	expectedVersion := report.Version

	event, err := report.Deliver(req.Recipient, time.Now())
	if err != nil {
		return err
	}

	if err := s.reportService.SaveReport(ctx, report, expectedVersion); err != nil {
		return err
	}
	s.record(c, event)

	// Delivery email is best effort; the transition already committed.
	subject := report.Title
	if subject == "" {
		subject = "QC Photo Documentation Report"
	}
	if err := s.emailService.SendReport(ctx, req.Recipient, subject, s.fileStorage.GetURL(report.FileKey)); err != nil {
		s.log(c).Error("failed to send report email",
			slog.String("report_id", reportID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.log(c).Info("report delivered",
		slog.String("report_id", reportID.String()),
		slog.String("recipient", req.Recipient),
	)

	return RespondOK(c, report)
}

func (s *Server) handleArchiveReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	reportID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	report, err := s.reportService.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	expectedVersion := report.Version

	event, err := report.Archive()
	if err != nil {
		return err
	}

	if err := s.reportService.SaveReport(ctx, report, expectedVersion); err != nil {
		return err
	}
	s.record(c, event)

	s.log(c).Info("report archived", slog.String("report_id", reportID.String()))

	return RespondOK(c, report)
}

func (s *Server) handleDownloadReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	reportID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	report, err := s.reportService.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	if report.FileKey == "" {
		return weldmark.IllegalState("Report in status %q has no generated file", report.Status)
	}

	file, err := s.fileStorage.Download(ctx, report.FileKey)
	if err != nil {
		return err
	}
	defer file.Close()

	return c.Stream(http.StatusOK, downloadContentType(report), file)
}

// downloadContentType picks the content type for a generated report file.
// The generator may store a print-ready HTML document for formats it cannot
// yet render natively, so the stored key wins over the requested format.
func downloadContentType(report *weldmark.Report) string {
	if strings.HasSuffix(report.FileKey, ".html") {
		return weldmark.ReportFormatHTML.ContentType()
	}
	return report.Format.ContentType()
}

func (s *Server) handleDeleteReport(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	reportID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	report, err := s.reportService.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}

	if err := s.reportService.DeleteReport(ctx, reportID); err != nil {
		return err
	}

	// Delete the generated file (best effort)
	if report.FileKey != "" {
		if err := s.fileStorage.Delete(ctx, report.FileKey); err != nil {
			s.log(c).Error("failed to delete report file from storage",
				slog.String("report_id", reportID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	s.log(c).Info("report deleted", slog.String("report_id", reportID.String()))

	return RespondNoContent(c)
}
