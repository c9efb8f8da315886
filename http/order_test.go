package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/weldmark"
	"github.com/dukerupert/weldmark/mock"
)

func TestCreateOrder(t *testing.T) {
	orders := &mock.OrderService{}
	s := newTestServer(t, Config{OrderService: orders, AuditService: &mock.AuditService{}})

	body := fmt.Sprintf(`{"number":"WO-1042","description":"Frame assembly","customerId":%q}`, uuid.New())
	rec := doJSON(s, http.MethodPost, "/api/orders", body, nil)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got weldmark.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "WO-1042", got.Number)
	assert.Equal(t, weldmark.OrderStatusPending, got.Status)
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestCreateOrder_InvalidCustomer(t *testing.T) {
	s := newTestServer(t, Config{OrderService: &mock.OrderService{}, AuditService: &mock.AuditService{}})

	rec := doJSON(s, http.MethodPost, "/api/orders", `{"number":"WO-1","customerId":"nope"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetOrder_NotFound(t *testing.T) {
	s := newTestServer(t, Config{OrderService: &mock.OrderService{}, AuditService: &mock.AuditService{}})

	rec := doJSON(s, http.MethodGet, "/api/orders/"+uuid.NewString(), "", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, weldmark.ENOTFOUND, resp.Error)
}

func TestUpdateOrderStatus(t *testing.T) {
	orderID := uuid.New()
	orders := &mock.OrderService{
		UpdateOrderStatusFn: func(ctx context.Context, id uuid.UUID, status weldmark.OrderStatus) (*weldmark.Order, error) {
			if !status.Valid() {
				return nil, weldmark.Invalid("Unknown order status %q", status)
			}
			return &weldmark.Order{ID: id, Number: "WO-1", Status: status}, nil
		},
	}
	s := newTestServer(t, Config{OrderService: orders, AuditService: &mock.AuditService{}})

	rec := doJSON(s, http.MethodPut, "/api/orders/"+orderID.String()+"/status", `{"status":"completed"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got weldmark.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, weldmark.OrderStatusCompleted, got.Status)

	rec = doJSON(s, http.MethodPut, "/api/orders/"+orderID.String()+"/status", `{"status":"bogus"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateOrderStatus_NotifiesReviewer(t *testing.T) {
	orders := &mock.OrderService{
		UpdateOrderStatusFn: func(ctx context.Context, id uuid.UUID, status weldmark.OrderStatus) (*weldmark.Order, error) {
			return &weldmark.Order{ID: id, Number: "WO-33", Status: status}, nil
		},
	}
	var notifiedTo, notifiedOrder string
	email := &mock.EmailService{
		SendReviewNotificationFn: func(ctx context.Context, to, orderNumber string) error {
			notifiedTo = to
			notifiedOrder = orderNumber
			return nil
		},
	}
	s := newTestServer(t, Config{OrderService: orders, AuditService: &mock.AuditService{}, EmailService: email})

	body := `{"status":"completed","notifyEmail":"qa@shop.example"}`
	rec := doJSON(s, http.MethodPut, "/api/orders/"+uuid.NewString()+"/status", body, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "qa@shop.example", notifiedTo)
	assert.Equal(t, "WO-33", notifiedOrder)
}

func TestGetOrderReadiness(t *testing.T) {
	orderID := uuid.New()

	approved, err := weldmark.NewPhotoDocument(weldmark.TemplateTopViewOfJoint, "photos/a.jpg", uuid.New(), time.Now())
	require.NoError(t, err)
	_, err = approved.Approve(uuid.New(), time.Now())
	require.NoError(t, err)

	pending, err := weldmark.NewPhotoDocument(weldmark.TemplateSideViewOfWeld, "photos/b.jpg", uuid.New(), time.Now())
	require.NoError(t, err)

	orders := &mock.OrderService{
		FindOrderWithPhotosFn: func(ctx context.Context, id uuid.UUID) (*weldmark.Order, error) {
			return &weldmark.Order{
				ID:     orderID,
				Number: "WO-9",
				Status: weldmark.OrderStatusCompleted,
				Photos: []*weldmark.PhotoDocument{approved, pending},
			}, nil
		},
	}
	s := newTestServer(t, Config{OrderService: orders, AuditService: &mock.AuditService{}})

	rec := doJSON(s, http.MethodGet, "/api/orders/"+orderID.String()+"/readiness", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Ready)
	assert.Equal(t, 2, got.PhotoCount)
	assert.Equal(t, 1, got.ApprovedPhotos)
	assert.Equal(t, 1, got.PendingPhotos)
}
