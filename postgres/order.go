package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dukerupert/weldmark"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Compile-time check that OrderService implements weldmark.OrderService.
var _ weldmark.OrderService = (*OrderService)(nil)

// OrderService implements weldmark.OrderService using PostgreSQL.
type OrderService struct {
	db *DB
}

const orderColumns = `id, number, description, customer_id, status, created_at, updated_at`

func (s *OrderService) FindOrderByID(ctx context.Context, id uuid.UUID) (*weldmark.Order, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, weldmark.NotFound("Order not found")
		}
		return nil, weldmark.Internal("Failed to fetch order", err)
	}
	return order, nil
}

func (s *OrderService) FindOrderWithPhotos(ctx context.Context, id uuid.UUID) (*weldmark.Order, error) {
	order, err := s.FindOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	photoSvc := &PhotoDocumentService{db: s.db}
	photos, _, err := photoSvc.FindPhotoDocuments(ctx, weldmark.PhotoDocumentFilter{OrderID: &id})
	if err != nil {
		return nil, err
	}

	order.Photos = photos
	return order, nil
}

func (s *OrderService) FindOrders(ctx context.Context, filter weldmark.OrderFilter) ([]*weldmark.Order, int, error) {
	query := `SELECT ` + orderColumns + `, COUNT(*) OVER() FROM orders WHERE 1=1`
	args := []any{}

	if filter.ID != nil {
		args = append(args, *filter.ID)
		query += ` AND id = $` + itoa(len(args))
	}
	if filter.CustomerID != nil {
		args = append(args, *filter.CustomerID)
		query += ` AND customer_id = $` + itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = $` + itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += ` LIMIT $` + itoa(len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += ` OFFSET $` + itoa(len(args))
	}

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, weldmark.Internal("Failed to list orders", err)
	}
	defer rows.Close()

	var orders []*weldmark.Order
	total := 0
	for rows.Next() {
		var o weldmark.Order
		if err := rows.Scan(&o.ID, &o.Number, &o.Description, &o.CustomerID,
			&o.Status, &o.CreatedAt, &o.UpdatedAt, &total); err != nil {
			return nil, 0, weldmark.Internal("Failed to scan order", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, weldmark.Internal("Failed to list orders", err)
	}

	return orders, total, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, order *weldmark.Order) error {
	if order.Number == "" {
		return weldmark.Invalid("Order number is required")
	}
	if order.CustomerID == uuid.Nil {
		return weldmark.Invalid("Customer is required")
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Status == "" {
		order.Status = weldmark.OrderStatusPending
	}
	if !order.Status.Valid() {
		return weldmark.Invalid("Unknown order status %q", order.Status)
	}

	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now

	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO orders (id, number, description, customer_id, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		order.ID, order.Number, order.Description, order.CustomerID,
		order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return weldmark.Conflict("Order number %q already exists", order.Number)
		}
		return weldmark.Internal("Failed to create order", err)
	}
	return nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status weldmark.OrderStatus) (*weldmark.Order, error) {
	if !status.Valid() {
		return nil, weldmark.Invalid("Unknown order status %q", status)
	}

	row := s.db.pool.QueryRow(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1
		 RETURNING `+orderColumns, id, status, time.Now())

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, weldmark.NotFound("Order not found")
		}
		return nil, weldmark.Internal("Failed to update order status", err)
	}
	return order, nil
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return weldmark.Internal("Failed to delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return weldmark.NotFound("Order not found")
	}
	return nil
}

// scanOrder scans a single order row in orderColumns order.
func scanOrder(row pgx.Row) (*weldmark.Order, error) {
	var o weldmark.Order
	err := row.Scan(&o.ID, &o.Number, &o.Description, &o.CustomerID,
		&o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
