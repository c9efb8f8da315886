package http

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dukerupert/weldmark"
)

func (s *Server) handleUploadPhoto(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	uploaderID, err := requireReviewerID(c)
	if err != nil {
		return err
	}

	templateName := c.FormValue("template_name")
	if templateName == "" {
		return weldmark.Invalid("template_name is required")
	}

	template, err := weldmark.TemplateByName(templateName)
	if err != nil {
		// Ad-hoc templates need a description alongside the name.
		if desc := c.FormValue("template_description"); desc != "" {
			template, err = weldmark.TemplateOf(templateName, desc)
		}
		if err != nil {
			return err
		}
	}

	// Optional order assignment at upload time.
	var orderID uuid.UUID
	if v := c.FormValue("order_id"); v != "" {
		orderID, err = parseUUID(v)
		if err != nil {
			return weldmark.Invalid("Invalid order ID format")
		}
		if _, err := s.orderService.FindOrderByID(ctx, orderID); err != nil {
			return err
		}
	}

	// Get uploaded file
	file, err := c.FormFile("image")
	if err != nil {
		return weldmark.Invalid("image file is required")
	}

	if file.Size > weldmark.MaxUploadSize {
		return weldmark.Invalid("image file exceeds maximum size of %d bytes", weldmark.MaxUploadSize)
	}

	contentType := file.Header.Get("Content-Type")
	if !weldmark.IsAcceptedUploadType(contentType) {
		return weldmark.Invalid("invalid image type, must be JPEG, PNG, or TIFF")
	}

	src, err := file.Open()
	if err != nil {
		return weldmark.Internal("Failed to read uploaded file", err)
	}
	defer src.Close()

	photoID := uuid.New()
	storageKey := "photos/" + photoID.String()

	if _, err := s.fileStorage.Upload(ctx, storageKey, src, contentType); err != nil {
		s.log(c).Error("failed to upload photo", slog.String("error", err.Error()))
		return weldmark.Internal("Failed to upload photo", err)
	}

	doc, err := weldmark.NewPhotoDocument(template, storageKey, uploaderID, time.Now())
	if err != nil {
		_ = s.fileStorage.Delete(ctx, storageKey)
		return err
	}
	doc.ID = photoID
	if orderID != uuid.Nil {
		if err := doc.AssignToOrder(orderID); err != nil {
			_ = s.fileStorage.Delete(ctx, storageKey)
			return err
		}
	}

	if err := s.photoDocumentService.CreatePhotoDocument(ctx, doc); err != nil {
		// Clean up uploaded file on error
		_ = s.fileStorage.Delete(ctx, storageKey)
		return err
	}

	s.record(c, doc.UploadedEvent())

	s.log(c).Info("photo uploaded",
		slog.String("photo_id", doc.ID.String()),
		slog.String("template", template.Name),
	)

	return RespondCreated(c, doc)
}

func (s *Server) handleGetPhoto(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	photoID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	doc, err := s.photoDocumentService.FindPhotoDocumentByID(ctx, photoID)
	if err != nil {
		return err
	}

	return RespondOK(c, doc)
}

func (s *Server) handleListPhotos(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	offset, limit := pagination(c)
	filter := weldmark.PhotoDocumentFilter{Offset: offset, Limit: limit}

	if v := c.QueryParam("orderId"); v != "" {
		orderID, err := parseUUID(v)
		if err != nil {
			return weldmark.Invalid("Invalid order ID format")
		}
		filter.OrderID = &orderID
	}
	if v := c.QueryParam("status"); v != "" {
		status := weldmark.ApprovalStatus(v)
		if !status.Valid() {
			return weldmark.Invalid("Unknown approval status %q", v)
		}
		filter.Status = &status
	}

	docs, total, err := s.photoDocumentService.FindPhotoDocuments(ctx, filter)
	if err != nil {
		return err
	}

	return RespondList(c, docs, total, offset, limit)
}

func (s *Server) handleDeletePhoto(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	photoID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	doc, err := s.photoDocumentService.FindPhotoDocumentByID(ctx, photoID)
	if err != nil {
		return err
	}

	if err := s.photoDocumentService.DeletePhotoDocument(ctx, photoID); err != nil {
		return err
	}

	// Delete from storage (best effort)
	if err := s.fileStorage.Delete(ctx, doc.StorageKey); err != nil {
		s.log(c).Error("failed to delete photo from storage",
			slog.String("photo_id", photoID.String()),
			slog.String("error", err.Error()),
		)
	}

	s.log(c).Info("photo deleted", slog.String("photo_id", photoID.String()))

	return RespondNoContent(c)
}

// SetMetadataRequest is the request payload for submitting photo metadata.
type SetMetadataRequest struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	FileSize    int64  `json:"fileSize"`
	ImageFormat string `json:"imageFormat"`
	ColorSpace  string `json:"colorSpace"`
	DPI         *int   `json:"dpi"`
}

// MetadataResponse carries the quality verdict alongside the document.
type MetadataResponse struct {
	Document      *weldmark.PhotoDocument `json:"document"`
	Violations    []string                `json:"violations,omitempty"`
	MeetsStandard bool                    `json:"meetsStandard"`
}

func (s *Server) handleSetPhotoMetadata(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	photoID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req SetMetadataRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	metadata, err := weldmark.NewPhotoMetadata(req.Width, req.Height, req.FileSize, req.ImageFormat, req.ColorSpace, req.DPI)
	if err != nil {
		return err
	}

	doc, err := s.photoDocumentService.FindPhotoDocumentByID(ctx, photoID)
	if err != nil {
		return err
	}

	violations := doc.SetMetadata(metadata)
	if err := s.photoDocumentService.SavePhotoDocument(ctx, doc); err != nil {
		return err
	}

	return RespondOK(c, MetadataResponse{
		Document:      doc,
		Violations:    violations,
		MeetsStandard: len(violations) == 0,
	})
}

func (s *Server) handleApprovePhoto(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	photoID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	reviewerID, err := requireReviewerID(c)
	if err != nil {
		return err
	}

	doc, err := s.photoDocumentService.FindPhotoDocumentByID(ctx, photoID)
	if err != nil {
		return err
	}

	event, err := doc.Approve(reviewerID, time.Now())
	if err != nil {
		return err
	}

	if err := s.photoDocumentService.SavePhotoDocument(ctx, doc); err != nil {
		return err
	}
	s.record(c, event)

	s.log(c).Info("photo approved",
		slog.String("photo_id", photoID.String()),
		slog.String("reviewer_id", reviewerID.String()),
	)

	return RespondOK(c, doc)
}

// RejectPhotoRequest is the request payload for rejecting a photo.
type RejectPhotoRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) handleRejectPhoto(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	photoID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	reviewerID, err := requireReviewerID(c)
	if err != nil {
		return err
	}

	var req RejectPhotoRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	doc, err := s.photoDocumentService.FindPhotoDocumentByID(ctx, photoID)
	if err != nil {
		return err
	}

	event, err := doc.Reject(reviewerID, time.Now(), req.Reason)
	if err != nil {
		return err
	}

	if err := s.photoDocumentService.SavePhotoDocument(ctx, doc); err != nil {
		return err
	}
	s.record(c, event)

	s.log(c).Info("photo rejected",
		slog.String("photo_id", photoID.String()),
		slog.String("reviewer_id", reviewerID.String()),
	)

	return RespondOK(c, doc)
}

// AssignPhotoRequest is the request payload for assigning a photo to an order.
type AssignPhotoRequest struct {
	OrderID string `json:"orderId"`
}

func (s *Server) handleAssignPhoto(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	photoID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req AssignPhotoRequest
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

	doc, err := s.photoDocumentService.FindPhotoDocumentByID(ctx, photoID)
	if err != nil {
		return err
	}

	if err := doc.AssignToOrder(orderID); err != nil {
		return err
	}

	if err := s.photoDocumentService.SavePhotoDocument(ctx, doc); err != nil {
		return err
	}

	return RespondOK(c, doc)
}

// AnnotationRequest is the request payload for adding or updating an annotation.
type AnnotationRequest struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (s *Server) handleAddAnnotation(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	photoID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	authorID, err := requireReviewerID(c)
	if err != nil {
		return err
	}

	var req AnnotationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	doc, err := s.photoDocumentService.FindPhotoDocumentByID(ctx, photoID)
	if err != nil {
		return err
	}

	annotation := weldmark.PhotoAnnotation{
		Text:      req.Text,
		X:         req.X,
		Y:         req.Y,
		AuthorID:  authorID,
		CreatedAt: time.Now(),
	}
	if err := doc.AddAnnotation(annotation); err != nil {
		return err
	}

	if err := s.photoDocumentService.SavePhotoDocument(ctx, doc); err != nil {
		return err
	}

	return RespondCreated(c, doc)
}

func (s *Server) handleUpdateAnnotation(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	photoID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}
	annotationID, err := requireUUIDParam(c, "annotationId")
	if err != nil {
		return err
	}

	var req AnnotationRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	doc, err := s.photoDocumentService.FindPhotoDocumentByID(ctx, photoID)
	if err != nil {
		return err
	}

	existing := doc.FindAnnotation(annotationID)
	if existing == nil {
		return weldmark.NotFound("Annotation not found")
	}

	updated := *existing
	updated.Text = req.Text
	updated.X = req.X
	updated.Y = req.Y
	if updated.Text == "" {
		return weldmark.Invalid("Annotation text is required")
	}
	doc.UpdateAnnotation(updated)

	if err := s.photoDocumentService.SavePhotoDocument(ctx, doc); err != nil {
		return err
	}

	return RespondOK(c, doc)
}

func (s *Server) handleRemoveAnnotation(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	photoID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}
	annotationID, err := requireUUIDParam(c, "annotationId")
	if err != nil {
		return err
	}

	doc, err := s.photoDocumentService.FindPhotoDocumentByID(ctx, photoID)
	if err != nil {
		return err
	}

	if !doc.RemoveAnnotation(annotationID) {
		return weldmark.NotFound("Annotation not found")
	}

	if err := s.photoDocumentService.SavePhotoDocument(ctx, doc); err != nil {
		return err
	}

	return RespondNoContent(c)
}
