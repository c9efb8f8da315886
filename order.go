package weldmark

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Order represents a manufacturing order whose work is documented by QC
// photos. Order execution itself is managed elsewhere; this service tracks
// the order reference, its status and the photo set attached to it.
type Order struct {
	ID          uuid.UUID   `json:"id"`
	Number      string      `json:"number"`
	Description string      `json:"description,omitempty"`
	CustomerID  uuid.UUID   `json:"customerId"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`

	// Joined fields (populated by some queries)
	Photos []*PhotoDocument `json:"photos,omitempty"`
}

// OrderStatus represents the status of a manufacturing order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusApproved   OrderStatus = "approved"
	OrderStatusRejected   OrderStatus = "rejected"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// Valid reports whether the value is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusInProgress, OrderStatusCompleted,
		OrderStatusApproved, OrderStatusRejected, OrderStatusDelivered:
		return true
	}
	return false
}

// ApprovedPhotos returns the order's photos with an approved review decision.
func (o *Order) ApprovedPhotos() []*PhotoDocument {
	return o.photosWithStatus(ApprovalStatusApproved)
}

// PendingPhotos returns the order's photos still awaiting review.
func (o *Order) PendingPhotos() []*PhotoDocument {
	return o.photosWithStatus(ApprovalStatusPending)
}

func (o *Order) photosWithStatus(status ApprovalStatus) []*PhotoDocument {
	var out []*PhotoDocument
	for _, p := range o.Photos {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// IsReadyForQAReview reports whether QA review may begin: the order must be
// completed and have at least one photo of any review status. This is a
// deliberately coarse gate; the reviewer's per-photo decisions refine it.
func (o *Order) IsReadyForQAReview() bool {
	return o.Status == OrderStatusCompleted && len(o.Photos) > 0
}

// IsApproved reports whether the order passed QC review.
func (o *Order) IsApproved() bool { return o.Status == OrderStatusApproved }

// IsRejected reports whether the order failed QC review.
func (o *Order) IsRejected() bool { return o.Status == OrderStatusRejected }

// IsDelivered reports whether the order has been delivered to the customer.
func (o *Order) IsDelivered() bool { return o.Status == OrderStatusDelivered }

// OrderService defines operations for managing orders.
type OrderService interface {
	// FindOrderByID retrieves an order by its ID.
	// Returns ENOTFOUND if the order does not exist.
	FindOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindOrderWithPhotos retrieves an order with its full photo set,
	// ready for readiness evaluation.
	// Returns ENOTFOUND if the order does not exist.
	FindOrderWithPhotos(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindOrders retrieves orders matching the filter criteria.
	// Returns the matching orders and total count.
	FindOrders(ctx context.Context, filter OrderFilter) ([]*Order, int, error)

	// CreateOrder creates a new order.
	CreateOrder(ctx context.Context, order *Order) error

	// UpdateOrderStatus changes the status of an order.
	// Returns EINVALID if the status is not a known value.
	// Returns ENOTFOUND if the order does not exist.
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status OrderStatus) (*Order, error)

	// DeleteOrder deletes an order and all associated data.
	// Returns ENOTFOUND if the order does not exist.
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

// OrderFilter defines criteria for filtering orders.
type OrderFilter struct {
	ID         *uuid.UUID
	CustomerID *uuid.UUID
	Status     *OrderStatus

	// Pagination
	Offset int
	Limit  int
}
