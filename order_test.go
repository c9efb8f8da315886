package weldmark

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderWithPhotos(status OrderStatus, photoStatuses ...ApprovalStatus) *Order {
	o := &Order{
		ID:     uuid.New(),
		Number: "MO-1042",
		Status: status,
	}
	for _, s := range photoStatuses {
		o.Photos = append(o.Photos, &PhotoDocument{
			ID:     uuid.New(),
			Status: s,
		})
	}
	return o
}

func TestOrder_IsReadyForQAReview(t *testing.T) {
	tests := []struct {
		name   string
		order  *Order
		ready  bool
	}{
		{"CompletedWithPendingPhoto", orderWithPhotos(OrderStatusCompleted, ApprovalStatusPending), true},
		{"CompletedWithApprovedPhoto", orderWithPhotos(OrderStatusCompleted, ApprovalStatusApproved), true},
		{"CompletedWithRejectedPhotoOnly", orderWithPhotos(OrderStatusCompleted, ApprovalStatusRejected), true},
		{"CompletedWithoutPhotos", orderWithPhotos(OrderStatusCompleted), false},
		{"InProgressWithPhotos", orderWithPhotos(OrderStatusInProgress, ApprovalStatusApproved), false},
		{"PendingWithPhotos", orderWithPhotos(OrderStatusPending, ApprovalStatusPending), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ready, tt.order.IsReadyForQAReview())
		})
	}
}

func TestOrder_PhotoPartitions(t *testing.T) {
	o := orderWithPhotos(OrderStatusCompleted,
		ApprovalStatusApproved,
		ApprovalStatusPending,
		ApprovalStatusApproved,
		ApprovalStatusRejected,
	)

	approved := o.ApprovedPhotos()
	require.Len(t, approved, 2)
	for _, p := range approved {
		assert.Equal(t, ApprovalStatusApproved, p.Status)
	}

	pending := o.PendingPhotos()
	require.Len(t, pending, 1)
	assert.Equal(t, ApprovalStatusPending, pending[0].Status)
}

func TestOrder_PartitionsRecomputeAfterReview(t *testing.T) {
	o := orderWithPhotos(OrderStatusCompleted, ApprovalStatusPending, ApprovalStatusPending)
	require.Len(t, o.PendingPhotos(), 2)
	require.Empty(t, o.ApprovedPhotos())

	_, err := o.Photos[0].Approve(uuid.New(), time.Now())
	require.NoError(t, err)

	assert.Len(t, o.PendingPhotos(), 1)
	assert.Len(t, o.ApprovedPhotos(), 1)
}

func TestOrder_StatusPredicates(t *testing.T) {
	// Direct status predicates carry no photo dependency.
	o := orderWithPhotos(OrderStatusApproved)
	assert.True(t, o.IsApproved())
	assert.False(t, o.IsRejected())
	assert.False(t, o.IsDelivered())

	o.Status = OrderStatusRejected
	assert.True(t, o.IsRejected())

	o.Status = OrderStatusDelivered
	assert.True(t, o.IsDelivered())
}

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted,
		OrderStatusApproved, OrderStatusRejected, OrderStatusDelivered,
	} {
		assert.True(t, s.Valid())
	}
	assert.False(t, OrderStatus("shipped").Valid())
}
