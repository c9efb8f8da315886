package postgres

import (
	"context"
	"errors"

	"github.com/dukerupert/weldmark"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Compile-time check that PhotoDocumentService implements weldmark.PhotoDocumentService.
var _ weldmark.PhotoDocumentService = (*PhotoDocumentService)(nil)

// PhotoDocumentService implements weldmark.PhotoDocumentService using PostgreSQL.
type PhotoDocumentService struct {
	db *DB
}

const photoColumns = `id, order_id, template_name, template_description, template_required_fields,
	storage_key, uploader_id, uploaded_at,
	meta_width, meta_height, meta_file_size, meta_image_format, meta_color_space, meta_dpi,
	status, reviewer_id, reviewed_at, review_comment, last_modified_at`

// photoUpdateQuery must reference every placeholder contiguously; Postgres
// rejects prepared statements with gaps in the $n sequence.
const photoUpdateQuery = `UPDATE photo_documents SET
	order_id = $2, meta_width = $3, meta_height = $4, meta_file_size = $5,
	meta_image_format = $6, meta_color_space = $7, meta_dpi = $8,
	status = $9, reviewer_id = $10, reviewed_at = $11, review_comment = $12,
	last_modified_at = $13
 WHERE id = $1`

func (s *PhotoDocumentService) FindPhotoDocumentByID(ctx context.Context, id uuid.UUID) (*weldmark.PhotoDocument, error) {
	row := s.db.pool.QueryRow(ctx,
		`SELECT `+photoColumns+` FROM photo_documents WHERE id = $1`, id)

	doc, err := scanPhotoDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, weldmark.NotFound("Photo document not found")
		}
		return nil, weldmark.Internal("Failed to fetch photo document", err)
	}

	if err := s.loadAnnotations(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *PhotoDocumentService) FindPhotoDocuments(ctx context.Context, filter weldmark.PhotoDocumentFilter) ([]*weldmark.PhotoDocument, int, error) {
	query := `SELECT ` + photoColumns + `, COUNT(*) OVER() FROM photo_documents WHERE 1=1`
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

	query += ` ORDER BY uploaded_at ASC`
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
		return nil, 0, weldmark.Internal("Failed to list photo documents", err)
	}
	defer rows.Close()

	var docs []*weldmark.PhotoDocument
	total := 0
	for rows.Next() {
		doc, err := scanPhotoDocumentWithTotal(rows, &total)
		if err != nil {
			return nil, 0, weldmark.Internal("Failed to scan photo document", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, weldmark.Internal("Failed to list photo documents", err)
	}

	for _, doc := range docs {
		if err := s.loadAnnotations(ctx, doc); err != nil {
			return nil, 0, err
		}
	}

	return docs, total, nil
}

func (s *PhotoDocumentService) CreatePhotoDocument(ctx context.Context, doc *weldmark.PhotoDocument) error {
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO photo_documents (`+photoColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`,
		photoDocumentArgs(doc)...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return weldmark.NotFound("Order not found")
		}
		if isUniqueViolation(err) {
			return weldmark.Conflict("Photo document already exists")
		}
		return weldmark.Internal("Failed to create photo document", err)
	}

	return s.saveAnnotations(ctx, s.db.pool, doc)
}

func (s *PhotoDocumentService) SavePhotoDocument(ctx context.Context, doc *weldmark.PhotoDocument) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return weldmark.Internal("Failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, photoUpdateQuery, photoDocumentUpdateArgs(doc)...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return weldmark.NotFound("Order not found")
		}
		return weldmark.Internal("Failed to save photo document", err)
	}
	if tag.RowsAffected() == 0 {
		return weldmark.NotFound("Photo document not found")
	}

	if _, err := tx.Exec(ctx, `DELETE FROM photo_annotations WHERE photo_id = $1`, doc.ID); err != nil {
		return weldmark.Internal("Failed to save annotations", err)
	}
	if err := s.saveAnnotations(ctx, tx, doc); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return weldmark.Internal("Failed to commit photo document", err)
	}
	return nil
}

func (s *PhotoDocumentService) DeletePhotoDocument(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.pool.Exec(ctx, `DELETE FROM photo_documents WHERE id = $1`, id)
	if err != nil {
		return weldmark.Internal("Failed to delete photo document", err)
	}
	if tag.RowsAffected() == 0 {
		return weldmark.NotFound("Photo document not found")
	}
	return nil
}

// queryExecer covers both the pool and a transaction for annotation writes.
type queryExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func (s *PhotoDocumentService) loadAnnotations(ctx context.Context, doc *weldmark.PhotoDocument) error {
	rows, err := s.db.pool.Query(ctx,
		`SELECT id, text, x, y, author_id, created_at
		 FROM photo_annotations WHERE photo_id = $1
		 ORDER BY created_at ASC, id ASC`, doc.ID)
	if err != nil {
		return weldmark.Internal("Failed to fetch annotations", err)
	}
	defer rows.Close()

	doc.Annotations = nil
	for rows.Next() {
		var a weldmark.PhotoAnnotation
		if err := rows.Scan(&a.ID, &a.Text, &a.X, &a.Y, &a.AuthorID, &a.CreatedAt); err != nil {
			return weldmark.Internal("Failed to scan annotation", err)
		}
		doc.Annotations = append(doc.Annotations, a)
	}
	return rows.Err()
}

// saveAnnotations inserts the document's current annotation set.
func (s *PhotoDocumentService) saveAnnotations(ctx context.Context, q queryExecer, doc *weldmark.PhotoDocument) error {
	for _, a := range doc.Annotations {
		_, err := q.Exec(ctx,
			`INSERT INTO photo_annotations (id, photo_id, text, x, y, author_id, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			a.ID, doc.ID, a.Text, a.X, a.Y, a.AuthorID, a.CreatedAt)
		if err != nil {
			return weldmark.Internal("Failed to save annotation", err)
		}
	}
	return nil
}

// photoDocumentArgs lists the document's values in photoColumns order.
func photoDocumentArgs(doc *weldmark.PhotoDocument) []any {
	width, height, dpi, fileSize, format, colorSpace := photoMetadataValues(doc)

	fields := make([]string, len(doc.Template.RequiredFields))
	for i, f := range doc.Template.RequiredFields {
		fields[i] = string(f)
	}

	return []any{
		doc.ID, toPgUUID(doc.OrderID), doc.Template.Name, doc.Template.Description, fields,
		doc.StorageKey, doc.UploaderID, doc.UploadedAt,
		width, height, fileSize, format, colorSpace, dpi,
		doc.Status, toPgUUIDPtr(doc.ReviewerID), toPgTimestampPtr(doc.ReviewedAt),
		toPgTextPtr(doc.ReviewComment), doc.LastModifiedAt,
	}
}

// photoDocumentUpdateArgs lists the mutable values in photoUpdateQuery order.
func photoDocumentUpdateArgs(doc *weldmark.PhotoDocument) []any {
	width, height, dpi, fileSize, format, colorSpace := photoMetadataValues(doc)

	return []any{
		doc.ID, toPgUUID(doc.OrderID),
		width, height, fileSize, format, colorSpace, dpi,
		doc.Status, toPgUUIDPtr(doc.ReviewerID), toPgTimestampPtr(doc.ReviewedAt),
		toPgTextPtr(doc.ReviewComment), doc.LastModifiedAt,
	}
}

func photoMetadataValues(doc *weldmark.PhotoDocument) (width, height, dpi pgtype.Int4, fileSize pgtype.Int8, format, colorSpace pgtype.Text) {
	if m := doc.Metadata; m != nil {
		width = pgtype.Int4{Int32: int32(m.Width), Valid: true}
		height = pgtype.Int4{Int32: int32(m.Height), Valid: true}
		fileSize = pgtype.Int8{Int64: m.FileSize, Valid: true}
		format = pgtype.Text{String: m.ImageFormat, Valid: true}
		colorSpace = pgtype.Text{String: m.ColorSpace, Valid: true}
		dpi = toPgIntPtr(m.DPI)
	}
	return width, height, dpi, fileSize, format, colorSpace
}

// scanPhotoDocument scans a single photo document row in photoColumns order.
func scanPhotoDocument(row pgx.Row) (*weldmark.PhotoDocument, error) {
	return scanPhotoDocumentInto(row, nil)
}

func scanPhotoDocumentWithTotal(row pgx.Row, total *int) (*weldmark.PhotoDocument, error) {
	return scanPhotoDocumentInto(row, total)
}

func scanPhotoDocumentInto(row pgx.Row, total *int) (*weldmark.PhotoDocument, error) {
	var (
		doc        weldmark.PhotoDocument
		orderID    pgtype.UUID
		fields     []string
		width      pgtype.Int4
		height     pgtype.Int4
		fileSize   pgtype.Int8
		format     pgtype.Text
		colorSpace pgtype.Text
		dpi        pgtype.Int4
		reviewerID pgtype.UUID
		reviewedAt pgtype.Timestamptz
		comment    pgtype.Text
	)

	dest := []any{
		&doc.ID, &orderID, &doc.Template.Name, &doc.Template.Description, &fields,
		&doc.StorageKey, &doc.UploaderID, &doc.UploadedAt,
		&width, &height, &fileSize, &format, &colorSpace, &dpi,
		&doc.Status, &reviewerID, &reviewedAt, &comment, &doc.LastModifiedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	doc.OrderID = fromPgUUID(orderID)
	for _, f := range fields {
		doc.Template.RequiredFields = append(doc.Template.RequiredFields, weldmark.RequiredField(f))
	}
	if width.Valid {
		doc.Metadata = &weldmark.PhotoMetadata{
			Width:       int(width.Int32),
			Height:      int(height.Int32),
			FileSize:    fileSize.Int64,
			ImageFormat: format.String,
			ColorSpace:  colorSpace.String,
			DPI:         fromPgIntPtr(dpi),
		}
	}
	doc.ReviewerID = fromPgUUIDPtr(reviewerID)
	doc.ReviewedAt = fromPgTimestampPtr(reviewedAt)
	doc.ReviewComment = fromPgTextPtr(comment)

	return &doc, nil
}
