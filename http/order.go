package http

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/dukerupert/weldmark"
)

// CreateOrderRequest is the request payload for creating an order.
type CreateOrderRequest struct {
	Number      string `json:"number"`
	Description string `json:"description"`
	CustomerID  string `json:"customerId"`
}

func (s *Server) handleCreateOrder(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	var req CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	customerID, err := parseUUID(req.CustomerID)
	if err != nil {
		return weldmark.Invalid("Invalid customer ID format")
	}

	order := &weldmark.Order{
		Number:      req.Number,
		Description: req.Description,
		CustomerID:  customerID,
		Status:      weldmark.OrderStatusPending,
	}

	if err := s.orderService.CreateOrder(ctx, order); err != nil {
		return err
	}

	s.log(c).Info("order created",
		slog.String("order_id", order.ID.String()),
		slog.String("number", order.Number),
	)

	return RespondCreated(c, order)
}

func (s *Server) handleGetOrder(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	orderID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	order, err := s.orderService.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	return RespondOK(c, order)
}

func (s *Server) handleListOrders(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	offset, limit := pagination(c)
	filter := weldmark.OrderFilter{Offset: offset, Limit: limit}

	if v := c.QueryParam("customerId"); v != "" {
		customerID, err := parseUUID(v)
		if err != nil {
			return weldmark.Invalid("Invalid customer ID format")
		}
		filter.CustomerID = &customerID
	}
	if v := c.QueryParam("status"); v != "" {
		status := weldmark.OrderStatus(v)
		if !status.Valid() {
			return weldmark.Invalid("Unknown order status %q", v)
		}
		filter.Status = &status
	}

	orders, total, err := s.orderService.FindOrders(ctx, filter)
	if err != nil {
		return err
	}

	return RespondList(c, orders, total, offset, limit)
}

// UpdateOrderStatusRequest is the request payload for an order status change.
// NotifyEmail optionally names a reviewer to notify when the order completes.
type UpdateOrderStatusRequest struct {
	Status      string `json:"status"`
	NotifyEmail string `json:"notifyEmail"`
}

func (s *Server) handleUpdateOrderStatus(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	orderID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateOrderStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	status := weldmark.OrderStatus(req.Status)
	order, err := s.orderService.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return err
	}

	s.log(c).Info("order status updated",
		slog.String("order_id", orderID.String()),
		slog.String("status", string(status)),
	)

	// Notify the reviewer when the order completes (best effort).
	if req.NotifyEmail != "" && order.Status == weldmark.OrderStatusCompleted {
		if err := s.emailService.SendReviewNotification(ctx, req.NotifyEmail, order.Number); err != nil {
			s.log(c).Error("failed to send review notification",
				slog.String("order_id", orderID.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	return RespondOK(c, order)
}

// ReadinessResponse summarizes an order's QA review readiness.
type ReadinessResponse struct {
	OrderID        string               `json:"orderId"`
	Status         weldmark.OrderStatus `json:"status"`
	Ready          bool                 `json:"ready"`
	PhotoCount     int                  `json:"photoCount"`
	ApprovedPhotos int                  `json:"approvedPhotos"`
	PendingPhotos  int                  `json:"pendingPhotos"`
}

func (s *Server) handleGetOrderReadiness(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	orderID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	order, err := s.orderService.FindOrderWithPhotos(ctx, orderID)
	if err != nil {
		return err
	}

	return RespondOK(c, ReadinessResponse{
		OrderID:        order.ID.String(),
		Status:         order.Status,
		Ready:          order.IsReadyForQAReview(),
		PhotoCount:     len(order.Photos),
		ApprovedPhotos: len(order.ApprovedPhotos()),
		PendingPhotos:  len(order.PendingPhotos()),
	})
}

func (s *Server) handleGetOrderEvents(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	orderID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	offset, limit := pagination(c)
	events, err := s.auditService.FindEvents(ctx, weldmark.EventFilter{
		OrderID: &orderID,
		Offset:  offset,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return RespondOK(c, map[string]any{"events": events})
}

func (s *Server) handleDeleteOrder(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()

	orderID, err := requireUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := s.orderService.DeleteOrder(ctx, orderID); err != nil {
		return err
	}

	s.log(c).Info("order deleted", slog.String("order_id", orderID.String()))

	return RespondNoContent(c)
}
