// Package postgres provides PostgreSQL implementations of domain service interfaces.
package postgres

import (
	"github.com/dukerupert/weldmark"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps the database connection pool and exposes domain services.
type DB struct {
	pool *pgxpool.Pool

	// Domain services (initialized in NewDB)
	OrderService         weldmark.OrderService
	PhotoDocumentService weldmark.PhotoDocumentService
	ReportService        weldmark.ReportService
	AuditService         weldmark.AuditService
}

// NewDB creates a new database wrapper with all services initialized.
func NewDB(pool *pgxpool.Pool) *DB {
	db := &DB{pool: pool}

	// Initialize services with reference back to DB
	db.OrderService = &OrderService{db: db}
	db.PhotoDocumentService = &PhotoDocumentService{db: db}
	db.ReportService = &ReportService{db: db}
	db.AuditService = &AuditService{db: db}

	return db
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer using service methods.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}

// Close closes the database connection pool.
func (db *DB) Close() {
	db.pool.Close()
}
