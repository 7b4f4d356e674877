package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/pagination"
)

const documentColumns = `id, title, description, filename, object_key, content_type, file_size,
	extracted_text, summary, entities, classification, classification_confidence, tags,
	status, processing_error, retries, created_at, updated_at, processed_at, indexed_at`

// DocumentRepository handles persistence of document metadata and derived
// processing results.
type DocumentRepository struct {
	db dbtx
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: pool}
}

func NewDocumentRepositoryWithTx(tx pgx.Tx) *DocumentRepository {
	return &DocumentRepository{db: tx}
}

// DocumentPage is one page of a cursor-paginated document listing.
type DocumentPage struct {
	Items      []*domain.Document
	NextCursor string
	HasMore    bool
}

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Document) error {
	entities, err := marshalEntities(d.Entities)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx,
		`INSERT INTO documents (`+documentColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`,
		d.ID, d.Title, nullableString(d.Description), d.Filename, d.ObjectKey, d.ContentType, d.FileSize,
		d.ExtractedText, d.Summary, entities, nullableString(d.Classification), d.ClassificationConfidence, d.Tags,
		d.Status, nullableString(d.ProcessingError), d.Retries, d.CreatedAt, d.UpdatedAt, d.ProcessedAt, d.IndexedAt,
	)
	return err
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListWithCursor pages documents newest-updated first.
func (r *DocumentRepository) ListWithCursor(ctx context.Context, cursor *pagination.Cursor, limit int) (*DocumentPage, error) {
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if cursor != nil {
		rows, err = r.db.Query(ctx,
			`SELECT `+documentColumns+`
			 FROM documents
			 WHERE (updated_at, id) < ($1, $2)
			 ORDER BY updated_at DESC, id DESC
			 LIMIT $3`,
			cursor.Timestamp, cursor.LastID, limit+1,
		)
	} else {
		rows, err = r.db.Query(ctx,
			`SELECT `+documentColumns+`
			 FROM documents
			 ORDER BY updated_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items, err := scanDocumentRows(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(items) > limit
	if hasMore {
		items = items[:limit]
	}

	var nextCursor string
	if hasMore && len(items) > 0 {
		last := items[len(items)-1]
		nextCursor = pagination.EncodeCursor(last.ID, last.UpdatedAt)
	}

	return &DocumentPage{Items: items, NextCursor: nextCursor, HasMore: hasMore}, nil
}

func (r *DocumentRepository) SetStatus(ctx context.Context, id string, status domain.DocumentStatus) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE documents SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ApplyProcessingResult writes a successful pipeline run back to the
// document row and clears any previous error.
func (r *DocumentRepository) ApplyProcessingResult(ctx context.Context, id string, u *domain.ProcessingUpdate) error {
	entities, err := marshalEntities(u.Entities)
	if err != nil {
		return err
	}
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE documents
		 SET extracted_text = $1, summary = $2, entities = $3, classification = $4,
		     classification_confidence = $5, tags = $6, status = $7,
		     processing_error = NULL, processed_at = $8, indexed_at = $8, updated_at = $9
		 WHERE id = $10`,
		u.ExtractedText, u.Summary, entities, nullableString(u.Classification),
		u.ClassificationConfidence, u.Tags, u.Status,
		u.ProcessedAt, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// MarkError records a failed run and bumps the retry counter.
func (r *DocumentRepository) MarkError(ctx context.Context, id string, cause string) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE documents
		 SET status = $1, processing_error = $2, retries = retries + 1, updated_at = $3
		 WHERE id = $4`,
		domain.DocumentStatusError, cause, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

// ClaimPending atomically claims documents awaiting processing, including
// errored ones that still have retries left, and moves them to processing.
func (r *DocumentRepository) ClaimPending(ctx context.Context, limit, maxRetries int) ([]*domain.Document, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := r.db.Query(ctx,
		`WITH cte AS (
			 SELECT id
			 FROM documents
			 WHERE status = $1 OR (status = $2 AND retries < $3)
			 ORDER BY created_at ASC
			 FOR UPDATE SKIP LOCKED
			 LIMIT $4
		 )
		 UPDATE documents
		 SET status = $5, updated_at = $6
		 FROM cte
		 WHERE documents.id = cte.id
		 RETURNING `+qualifiedDocumentColumns(),
		domain.DocumentStatusUploaded, domain.DocumentStatusError, maxRetries, limit,
		domain.DocumentStatusProcessing, time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDocumentRows(rows)
}

func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func qualifiedDocumentColumns() string {
	return `documents.id, documents.title, documents.description, documents.filename,
		documents.object_key, documents.content_type, documents.file_size,
		documents.extracted_text, documents.summary, documents.entities,
		documents.classification, documents.classification_confidence, documents.tags,
		documents.status, documents.processing_error, documents.retries,
		documents.created_at, documents.updated_at, documents.processed_at, documents.indexed_at`
}

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var d domain.Document
	var description, classification, processingError pgtype.Text
	var entities []byte
	if err := row.Scan(
		&d.ID, &d.Title, &description, &d.Filename, &d.ObjectKey, &d.ContentType, &d.FileSize,
		&d.ExtractedText, &d.Summary, &entities, &classification, &d.ClassificationConfidence, &d.Tags,
		&d.Status, &processingError, &d.Retries, &d.CreatedAt, &d.UpdatedAt, &d.ProcessedAt, &d.IndexedAt,
	); err != nil {
		return nil, err
	}
	if description.Valid {
		d.Description = description.String
	}
	if classification.Valid {
		d.Classification = classification.String
	}
	if processingError.Valid {
		d.ProcessingError = processingError.String
	}
	if len(entities) > 0 {
		if err := json.Unmarshal(entities, &d.Entities); err != nil {
			return nil, err
		}
	}
	return &d, nil
}

func scanDocumentRows(rows pgx.Rows) ([]*domain.Document, error) {
	var results []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	return results, rows.Err()
}

func marshalEntities(entities map[string][]string) ([]byte, error) {
	if entities == nil {
		return nil, nil
	}
	return json.Marshal(entities)
}
