package postgres

import (
	"context"
	"errors"

	"github.com/dukerupert/weldmark"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Compile-time check that ReportService implements weldmark.ReportService.
var _ weldmark.ReportService = (*ReportService)(nil)

// ReportService implements weldmark.ReportService using PostgreSQL.
type ReportService struct {
	db *DB
}

const reportColumns = `id, order_id, generator_id, created_at, title, format, status, comments,
	version, file_key, completed_at, error_message, reviewer_id, recipient, delivered_at`

// reportUpdateQuery must reference every placeholder contiguously; Postgres
// rejects prepared statements with gaps in the $n sequence.
const reportUpdateQuery = `UPDATE reports SET
	title = $2, format = $3, status = $4, comments = $5, version = $6,
	file_key = $7, completed_at = $8, error_message = $9,
	reviewer_id = $10, recipient = $11, delivered_at = $12
 WHERE id = $1 AND version = $13`

func (s *ReportService) FindReportByID(ctx context.Context, id uuid.UUID) (*weldmark.Report, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`, id)

	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, weldmark.NotFound("Report not found")
		}
		return nil, weldmark.Internal("Failed to fetch report", err)
	}

	if err := s.loadPhotoIDs(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *ReportService) FindReports(ctx context.Context, filter weldmark.ReportFilter) ([]*weldmark.Report, int, error) {
	query := `SELECT ` + reportColumns + `, COUNT(*) OVER() FROM reports WHERE 1=1`
	args := []any{}

	if filter.ID != nil {
		args = append(args, *filter.ID)
		query += ` AND id = $` + itoa(len(args))
	}
	if filter.OrderID != nil {
		args = append(args, *filter.OrderID)
		query += ` AND order_id = $` + itoa(len(args))
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
		return nil, 0, weldmark.Internal("Failed to list reports", err)
	}
	defer rows.Close()

	var reports []*weldmark.Report
	total := 0
	for rows.Next() {
		report, err := scanReportInto(rows, &total)
		if err != nil {
			return nil, 0, weldmark.Internal("Failed to scan report", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, weldmark.Internal("Failed to list reports", err)
	}

	for _, r := range reports {
		if err := s.loadPhotoIDs(ctx, r); err != nil {
			return nil, 0, err
		}
	}

	return reports, total, nil
}

func (s *ReportService) CreateReport(ctx context.Context, report *weldmark.Report) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return weldmark.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO reports (`+reportColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		reportArgs(report)...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return weldmark.NotFound("Order not found")
		}
		return weldmark.Internal("Failed to create report", err)
	}

	if err := s.savePhotoIDs(ctx, tx, report); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return weldmark.Internal("Failed to commit report", err)
	}
	return nil
}

// SaveReport persists the report, guarded by the version the caller loaded.
// A version mismatch means a concurrent writer won the race; the caller must
// reload and retry.
func (s *ReportService) SaveReport(ctx context.Context, report *weldmark.Report, expectedVersion int) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return weldmark.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, reportUpdateQuery, reportUpdateArgs(report, expectedVersion)...)
	if err != nil {
		return weldmark.Internal("Failed to save report", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing report from a version race.
		var exists bool
		if err := s.db.pool.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM reports WHERE id = $1)`, report.ID).Scan(&exists); err != nil {
			return weldmark.Internal("Failed to save report", err)
		}
		if !exists {
			return weldmark.NotFound("Report not found")
		}
		return weldmark.Conflict("Report version %d is stale", expectedVersion)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM report_photos WHERE report_id = $1`, report.ID); err != nil {
		return weldmark.Internal("Failed to save report photos", err)
	}
	if err := s.savePhotoIDs(ctx, tx, report); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return weldmark.Internal("Failed to commit report", err)
	}
	return nil
}

func (s *ReportService) DeleteReport(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.pool.Exec(ctx, `DELETE FROM reports WHERE id = $1`, id)
	if err != nil {
		return weldmark.Internal("Failed to delete report", err)
	}
	if tag.RowsAffected() == 0 {
		return weldmark.NotFound("Report not found")
	}
	return nil
}

func (s *ReportService) loadPhotoIDs(ctx context.Context, report *weldmark.Report) error {
	rows, err := s.db.pool.Query(ctx,
		`SELECT photo_id FROM report_photos WHERE report_id = $1 ORDER BY position ASC`, report.ID)
	if err != nil {
		return weldmark.Internal("Failed to fetch report photos", err)
	}
	defer rows.Close()

	report.PhotoIDs = nil
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return weldmark.Internal("Failed to scan report photo", err)
		}
		report.PhotoIDs = append(report.PhotoIDs, id)
	}
	return rows.Err()
}

func (s *ReportService) savePhotoIDs(ctx context.Context, q queryExecer, report *weldmark.Report) error {
	for i, photoID := range report.PhotoIDs {
		_, err := q.Exec(ctx,
			`INSERT INTO report_photos (report_id, photo_id, position) VALUES ($1, $2, $3)`,
			report.ID, photoID, i)
		if err != nil {
			return weldmark.Internal("Failed to save report photo", err)
		}
	}
	return nil
}

// reportArgs lists the report's values in reportColumns order.
func reportArgs(r *weldmark.Report) []any {
	return []any{
		r.ID, r.OrderID, r.GeneratorID, r.CreatedAt, r.Title, r.Format, r.Status,
		toPgTextPtr(r.Comments), r.Version, r.FileKey,
		toPgTimestampPtr(r.CompletedAt), toPgTextPtr(r.ErrorMessage),
		toPgUUIDPtr(r.ReviewerID), toPgTextPtr(r.Recipient), toPgTimestampPtr(r.DeliveredAt),
	}
}

// reportUpdateArgs lists the mutable values in reportUpdateQuery order.
func reportUpdateArgs(r *weldmark.Report, expectedVersion int) []any {
	return []any{
		r.ID, r.Title, r.Format, r.Status, toPgTextPtr(r.Comments), r.Version, r.FileKey,
		toPgTimestampPtr(r.CompletedAt), toPgTextPtr(r.ErrorMessage),
		toPgUUIDPtr(r.ReviewerID), toPgTextPtr(r.Recipient), toPgTimestampPtr(r.DeliveredAt),
		expectedVersion,
	}
}

// scanReport scans a single report row in reportColumns order.
func scanReport(row pgx.Row) (*weldmark.Report, error) {
	return scanReportInto(row, nil)
}

func scanReportInto(row pgx.Row, total *int) (*weldmark.Report, error) {
	var (
		r           weldmark.Report
		comments    pgtype.Text
		completedAt pgtype.Timestamptz
		errMsg      pgtype.Text
		reviewerID  pgtype.UUID
		recipient   pgtype.Text
		deliveredAt pgtype.Timestamptz
	)

	dest := []any{
		&r.ID, &r.OrderID, &r.GeneratorID, &r.CreatedAt, &r.Title, &r.Format, &r.Status,
		&comments, &r.Version, &r.FileKey, &completedAt, &errMsg,
		&reviewerID, &recipient, &deliveredAt,
	}
	if total != nil {
		dest = append(dest, total)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	r.Comments = fromPgTextPtr(comments)
	r.CompletedAt = fromPgTimestampPtr(completedAt)
	r.ErrorMessage = fromPgTextPtr(errMsg)
	r.ReviewerID = fromPgUUIDPtr(reviewerID)
	r.Recipient = fromPgTextPtr(recipient)
	r.DeliveredAt = fromPgTimestampPtr(deliveredAt)

	return &r, nil
}
