package mock

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dukerupert/weldmark"
)

// Compile-time interface check
var _ weldmark.OrderService = (*OrderService)(nil)

// OrderService is a mock implementation of weldmark.OrderService.
type OrderService struct {
	FindOrderByIDFn       func(ctx context.Context, id uuid.UUID) (*weldmark.Order, error)
	FindOrderWithPhotosFn func(ctx context.Context, id uuid.UUID) (*weldmark.Order, error)
	FindOrdersFn          func(ctx context.Context, filter weldmark.OrderFilter) ([]*weldmark.Order, int, error)
	CreateOrderFn         func(ctx context.Context, order *weldmark.Order) error
	UpdateOrderStatusFn   func(ctx context.Context, id uuid.UUID, status weldmark.OrderStatus) (*weldmark.Order, error)
	DeleteOrderFn         func(ctx context.Context, id uuid.UUID) error
}

func (s *OrderService) FindOrderByID(ctx context.Context, id uuid.UUID) (*weldmark.Order, error) {
	if s.FindOrderByIDFn != nil {
		return s.FindOrderByIDFn(ctx, id)
	}
	return nil, weldmark.NotFound("Order not found")
}

func (s *OrderService) FindOrderWithPhotos(ctx context.Context, id uuid.UUID) (*weldmark.Order, error) {
	if s.FindOrderWithPhotosFn != nil {
		return s.FindOrderWithPhotosFn(ctx, id)
	}
	return nil, weldmark.NotFound("Order not found")
}

func (s *OrderService) FindOrders(ctx context.Context, filter weldmark.OrderFilter) ([]*weldmark.Order, int, error) {
	if s.FindOrdersFn != nil {
		return s.FindOrdersFn(ctx, filter)
	}
	return []*weldmark.Order{}, 0, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, order *weldmark.Order) error {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, order)
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt
	return nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status weldmark.OrderStatus) (*weldmark.Order, error) {
	if s.UpdateOrderStatusFn != nil {
		return s.UpdateOrderStatusFn(ctx, id, status)
	}
	return nil, weldmark.NotFound("Order not found")
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if s.DeleteOrderFn != nil {
		return s.DeleteOrderFn(ctx, id)
	}
	return nil
}
