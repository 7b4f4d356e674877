//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitVector returns a 1536-dimensional embedding with a 1 at the given axis.
func unitVector(axis int) []float32 {
	v := make([]float32, 1536)
	v[axis] = 1
	return v
}

func createIndexedDocument(ctx context.Context, t *testing.T, docs *DocumentRepository, title string) *domain.Document {
	d := newTestDocument(title)
	require.NoError(t, docs.Create(ctx, d))
	return d
}

func TestIndexRepository_InsertAndSearch(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docs := NewDocumentRepository(pool)
	index := NewIndexRepository(pool)

	invoice := createIndexedDocument(ctx, t, docs, "Invoice")
	report := createIndexedDocument(ctx, t, docs, "Report")

	require.NoError(t, index.Insert(ctx, &domain.IndexedDocument{
		DocumentID: invoice.ID,
		Title:      "Invoice",
		Content:    "Invoice total due",
		Summary:    "An invoice",
	}, unitVector(0)))
	require.NoError(t, index.Insert(ctx, &domain.IndexedDocument{
		DocumentID: report.ID,
		Title:      "Report",
		Content:    "Quarterly report",
	}, unitVector(1)))

	results, err := index.Search(ctx, unitVector(0), "", 5)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, invoice.ID, results[0].DocumentID)
	assert.Equal(t, report.ID, results[1].DocumentID)
	assert.InDelta(t, 1.0, results[0].Score, 0.001)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestIndexRepository_Search_LatestRowPerDocument(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docs := NewDocumentRepository(pool)
	index := NewIndexRepository(pool)

	doc := createIndexedDocument(ctx, t, docs, "Reindexed")

	now := time.Now().UTC().Truncate(time.Microsecond)
	require.NoError(t, index.Insert(ctx, &domain.IndexedDocument{
		DocumentID: doc.ID,
		Title:      "Reindexed",
		Content:    "old content",
		CreatedAt:  now,
	}, unitVector(0)))
	require.NoError(t, index.Insert(ctx, &domain.IndexedDocument{
		DocumentID: doc.ID,
		Title:      "Reindexed",
		Content:    "new content",
		CreatedAt:  now.Add(time.Second),
	}, unitVector(0)))

	results, err := index.Search(ctx, unitVector(0), "", 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "new content", results[0].Content)
}

func TestIndexRepository_Search_DocumentFilter(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docs := NewDocumentRepository(pool)
	index := NewIndexRepository(pool)

	first := createIndexedDocument(ctx, t, docs, "First")
	second := createIndexedDocument(ctx, t, docs, "Second")

	require.NoError(t, index.Insert(ctx, &domain.IndexedDocument{DocumentID: first.ID, Title: "First", Content: "a"}, unitVector(0)))
	require.NoError(t, index.Insert(ctx, &domain.IndexedDocument{DocumentID: second.ID, Title: "Second", Content: "b"}, unitVector(1)))

	results, err := index.Search(ctx, unitVector(0), second.ID, 5)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, second.ID, results[0].DocumentID)
}

func TestIndexRepository_Search_Empty(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	index := NewIndexRepository(pool)

	results, err := index.Search(ctx, unitVector(0), "", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestIndexRepository_DeleteByDocument(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docs := NewDocumentRepository(pool)
	index := NewIndexRepository(pool)

	doc := createIndexedDocument(ctx, t, docs, "Removable")
	require.NoError(t, index.Insert(ctx, &domain.IndexedDocument{DocumentID: doc.ID, Title: "Removable", Content: "x"}, unitVector(0)))

	require.NoError(t, index.DeleteByDocument(ctx, doc.ID))

	results, err := index.Search(ctx, unitVector(0), "", 5)
	require.NoError(t, err)
	assert.Empty(t, results)

	// Deleting with no rows is not an error
	require.NoError(t, index.DeleteByDocument(ctx, uuid.NewString()))
}

func TestIndexRepository_CascadeOnDocumentDelete(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	docs := NewDocumentRepository(pool)
	index := NewIndexRepository(pool)

	doc := createIndexedDocument(ctx, t, docs, "Cascading")
	require.NoError(t, index.Insert(ctx, &domain.IndexedDocument{DocumentID: doc.ID, Title: "Cascading", Content: "x"}, unitVector(0)))

	require.NoError(t, docs.Delete(ctx, doc.ID))

	results, err := index.Search(ctx, unitVector(0), "", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
