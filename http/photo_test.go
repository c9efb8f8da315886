package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/weldmark"
	"github.com/dukerupert/weldmark/mock"
)

func pendingDocument(t *testing.T) *weldmark.PhotoDocument {
	t.Helper()
	doc, err := weldmark.NewPhotoDocument(weldmark.TemplateCloseUpOfWeld, "photos/test.jpg", uuid.New(), time.Now())
	require.NoError(t, err)
	return doc
}

func photoServer(t *testing.T, doc *weldmark.PhotoDocument) (*Server, *mock.AuditService) {
	t.Helper()
	photos := &mock.PhotoDocumentService{
		FindPhotoDocumentByIDFn: func(ctx context.Context, id uuid.UUID) (*weldmark.PhotoDocument, error) {
			if doc != nil && id == doc.ID {
				return doc, nil
			}
			return nil, weldmark.NotFound("Photo document not found")
		},
	}
	audit := &mock.AuditService{}
	s := newTestServer(t, Config{
		OrderService:         &mock.OrderService{},
		PhotoDocumentService: photos,
		AuditService:         audit,
		FileStorage:          &mock.FileStorage{},
	})
	return s, audit
}

func TestUploadPhoto(t *testing.T) {
	var created *weldmark.PhotoDocument
	photos := &mock.PhotoDocumentService{
		CreatePhotoDocumentFn: func(ctx context.Context, doc *weldmark.PhotoDocument) error {
			created = doc
			return nil
		},
	}
	var uploadedKey string
	storage := &mock.FileStorage{
		UploadFn: func(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
			uploadedKey = key
			assert.Equal(t, "image/jpeg", contentType)
			return "https://storage.example.com/" + key, nil
		},
	}
	audit := &mock.AuditService{}
	s := newTestServer(t, Config{
		OrderService:         &mock.OrderService{},
		PhotoDocumentService: photos,
		AuditService:         audit,
		FileStorage:          storage,
	})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("template_name", weldmark.TemplateTopViewOfJoint.Name))

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="joint.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photo-documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set(ReviewerHeader, uuid.NewString())
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.NotNil(t, created)
	assert.Equal(t, weldmark.TemplateTopViewOfJoint.Name, created.Template.Name)
	assert.Equal(t, uploadedKey, created.StorageKey)
	assert.Equal(t, weldmark.ApprovalStatusPending, created.Status)

	require.Len(t, audit.Recorded, 1)
	assert.Equal(t, weldmark.EventPhotoUploaded, audit.Recorded[0].Type)
}

func TestUploadPhoto_MissingReviewer(t *testing.T) {
	s, _ := photoServer(t, nil)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("template_name", weldmark.TemplateTopViewOfJoint.Name))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photo-documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApprovePhoto(t *testing.T) {
	doc := pendingDocument(t)
	s, audit := photoServer(t, doc)
	reviewer := uuid.New()

	rec := doJSON(s, http.MethodPost, "/api/photo-documents/"+doc.ID.String()+"/approve", "", map[string]string{
		ReviewerHeader: reviewer.String(),
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, weldmark.ApprovalStatusApproved, doc.Status)
	require.NotNil(t, doc.ReviewerID)
	assert.Equal(t, reviewer, *doc.ReviewerID)

	require.Len(t, audit.Recorded, 1)
	assert.Equal(t, weldmark.EventPhotoApproved, audit.Recorded[0].Type)
}

func TestApprovePhoto_NoReviewer(t *testing.T) {
	doc := pendingDocument(t)
	s, _ := photoServer(t, doc)

	rec := doJSON(s, http.MethodPost, "/api/photo-documents/"+doc.ID.String()+"/approve", "", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApprovePhoto_AlreadyDecided(t *testing.T) {
	doc := pendingDocument(t)
	_, err := doc.Approve(uuid.New(), time.Now())
	require.NoError(t, err)

	s, _ := photoServer(t, doc)

	rec := doJSON(s, http.MethodPost, "/api/photo-documents/"+doc.ID.String()+"/approve", "", map[string]string{
		ReviewerHeader: uuid.NewString(),
	})

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, weldmark.EILLEGALSTATE, resp.Error)
}

func TestRejectPhoto(t *testing.T) {
	doc := pendingDocument(t)
	s, audit := photoServer(t, doc)

	rec := doJSON(s, http.MethodPost, "/api/photo-documents/"+doc.ID.String()+"/reject", `{"reason":"blurry"}`, map[string]string{
		ReviewerHeader: uuid.NewString(),
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, weldmark.ApprovalStatusRejected, doc.Status)
	require.NotNil(t, doc.ReviewComment)
	assert.Equal(t, "blurry", *doc.ReviewComment)

	require.Len(t, audit.Recorded, 1)
	assert.Equal(t, weldmark.EventPhotoRejected, audit.Recorded[0].Type)
}

func TestSetPhotoMetadata_ReturnsViolations(t *testing.T) {
	doc := pendingDocument(t)
	s, _ := photoServer(t, doc)

	body := `{"width":800,"height":600,"fileSize":1024,"imageFormat":"BMP","colorSpace":"sRGB"}`
	rec := doJSON(s, http.MethodPut, "/api/photo-documents/"+doc.ID.String()+"/metadata", body, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got MetadataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.MeetsStandard)
	assert.Len(t, got.Violations, 2) // resolution and format
	require.NotNil(t, got.Document.Metadata)
}

func TestSetPhotoMetadata_CleanPass(t *testing.T) {
	doc := pendingDocument(t)
	s, _ := photoServer(t, doc)

	body := `{"width":1920,"height":1080,"fileSize":2048000,"imageFormat":"JPEG","colorSpace":"sRGB","dpi":150}`
	rec := doJSON(s, http.MethodPut, "/api/photo-documents/"+doc.ID.String()+"/metadata", body, nil)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var got MetadataResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.MeetsStandard)
	assert.Empty(t, got.Violations)
}

func TestAnnotationLifecycle(t *testing.T) {
	doc := pendingDocument(t)
	s, _ := photoServer(t, doc)
	author := uuid.NewString()

	rec := doJSON(s, http.MethodPost, "/api/photo-documents/"+doc.ID.String()+"/annotations",
		`{"text":"porosity near the root","x":0.4,"y":0.6}`,
		map[string]string{ReviewerHeader: author})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, doc.Annotations, 1)
	annotationID := doc.Annotations[0].ID

	rec = doJSON(s, http.MethodPut, "/api/photo-documents/"+doc.ID.String()+"/annotations/"+annotationID.String(),
		`{"text":"porosity cluster","x":0.42,"y":0.61}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "porosity cluster", doc.Annotations[0].Text)

	rec = doJSON(s, http.MethodDelete, "/api/photo-documents/"+doc.ID.String()+"/annotations/"+annotationID.String(), "", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, doc.Annotations)

	rec = doJSON(s, http.MethodDelete, "/api/photo-documents/"+doc.ID.String()+"/annotations/"+annotationID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
