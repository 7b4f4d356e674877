package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"github.com/sgd-labs/docintel/internal/domain"
)

// IndexRepository handles the vector index backing retrieval-augmented
// chat. Rows are append-only: reindexing a document inserts a new row, and
// searches read only the newest row per document id.
type IndexRepository struct {
	db dbtx
}

func NewIndexRepository(pool *pgxpool.Pool) *IndexRepository {
	return &IndexRepository{db: pool}
}

// Insert stores one indexed document with its embedding.
func (r *IndexRepository) Insert(ctx context.Context, doc *domain.IndexedDocument, embedding []float32) error {
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := doc.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO document_index (id, document_id, title, content, summary, category, tags, embedding, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, doc.DocumentID, doc.Title, doc.Content, doc.Summary,
		nullableString(doc.Category), doc.Tags, pgvector.NewVector(embedding), createdAt,
	)
	return err
}

// Search returns the documents most similar to the query embedding, newest
// index row per document, highest score first. A non-empty documentID
// restricts the search to that document.
func (r *IndexRepository) Search(ctx context.Context, embedding []float32, documentID string, limit int) ([]domain.IndexedDocument, error) {
	if limit <= 0 {
		limit = 5
	}

	vec := pgvector.NewVector(embedding)

	query := `
		WITH latest AS (
			SELECT DISTINCT ON (document_id)
			       id, document_id, title, content, summary, category, tags, embedding, created_at
			FROM document_index`
	args := []any{vec}

	if documentID != "" {
		query += `
			WHERE document_id = $2`
		args = append(args, documentID)
	}

	query += `
			ORDER BY document_id, created_at DESC
		)
		SELECT id, document_id, title, content, summary, category, tags, created_at,
		       1.0 / (1.0 + (embedding <=> $1)) AS score
		FROM latest
		ORDER BY score DESC
		LIMIT ` + fmt.Sprintf("$%d", len(args)+1)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]domain.IndexedDocument, 0)
	for rows.Next() {
		var doc domain.IndexedDocument
		var category *string
		if err := rows.Scan(&doc.ID, &doc.DocumentID, &doc.Title, &doc.Content, &doc.Summary,
			&category, &doc.Tags, &doc.CreatedAt, &doc.Score); err != nil {
			return nil, err
		}
		if category != nil {
			doc.Category = *category
		}
		results = append(results, doc)
	}

	return results, rows.Err()
}

// DeleteByDocument removes all index rows for a document.
func (r *IndexRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM document_index WHERE document_id = $1`, documentID)
	return err
}
