//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sgd-labs/docintel/internal/domain"
	"github.com/sgd-labs/docintel/internal/pagination"
	"github.com/sgd-labs/docintel/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDocument(title string) *domain.Document {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Document{
		ID:          uuid.NewString(),
		Title:       title,
		Filename:    "contract.pdf",
		ObjectKey:   "documents/" + title + "/contract.pdf",
		ContentType: "application/pdf",
		FileSize:    2048,
		Status:      domain.DocumentStatusUploaded,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestDocumentRepository_Create(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDocumentRepository(pool)

	d := newTestDocument("Sales Contract")
	d.Description = "Signed copy"
	d.Entities = map[string][]string{"PERSON": {"Alice"}}
	d.Tags = []string{"legal"}

	require.NoError(t, repo.Create(ctx, d))

	retrieved, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ID, retrieved.ID)
	assert.Equal(t, d.Title, retrieved.Title)
	assert.Equal(t, d.Description, retrieved.Description)
	assert.Equal(t, d.ObjectKey, retrieved.ObjectKey)
	assert.Equal(t, domain.DocumentStatusUploaded, retrieved.Status)
	assert.Equal(t, map[string][]string{"PERSON": {"Alice"}}, retrieved.Entities)
	assert.Equal(t, []string{"legal"}, retrieved.Tags)
	assert.Nil(t, retrieved.ProcessedAt)
}

func TestDocumentRepository_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDocumentRepository(pool)

	_, err := repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocumentRepository_ListWithCursor(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDocumentRepository(pool)

	base := time.Now().UTC().Truncate(time.Microsecond)
	titles := []string{"First", "Second", "Third"}
	for i, title := range titles {
		d := newTestDocument(title)
		d.CreatedAt = base.Add(time.Duration(i) * time.Second)
		d.UpdatedAt = d.CreatedAt
		require.NoError(t, repo.Create(ctx, d))
	}

	page, err := repo.ListWithCursor(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextCursor)
	assert.Equal(t, "Third", page.Items[0].Title)
	assert.Equal(t, "Second", page.Items[1].Title)

	cursor, err := pagination.DecodeCursor(page.NextCursor)
	require.NoError(t, err)

	page, err = repo.ListWithCursor(ctx, cursor, 2)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
	assert.Equal(t, "First", page.Items[0].Title)
}

func TestDocumentRepository_SetStatus(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDocumentRepository(pool)

	d := newTestDocument("Status Doc")
	require.NoError(t, repo.Create(ctx, d))

	require.NoError(t, repo.SetStatus(ctx, d.ID, domain.DocumentStatusProcessing))

	retrieved, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusProcessing, retrieved.Status)

	err = repo.SetStatus(ctx, uuid.NewString(), domain.DocumentStatusProcessing)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestDocumentRepository_ApplyProcessingResult(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDocumentRepository(pool)

	d := newTestDocument("Pipeline Doc")
	require.NoError(t, repo.Create(ctx, d))
	require.NoError(t, repo.MarkError(ctx, d.ID, "extraction failed"))

	processedAt := time.Now().UTC().Truncate(time.Microsecond)
	update := &domain.ProcessingUpdate{
		ExtractedText:            "--- Page 1 ---\nHello",
		Summary:                  "A greeting",
		Entities:                 map[string][]string{"GPE": {"Paris"}},
		Classification:           "correspondence",
		ClassificationConfidence: 0.7,
		Tags:                     []string{"letter"},
		Status:                   domain.DocumentStatusProcessed,
		ProcessedAt:              processedAt,
	}
	require.NoError(t, repo.ApplyProcessingResult(ctx, d.ID, update))

	retrieved, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusProcessed, retrieved.Status)
	assert.Equal(t, update.ExtractedText, retrieved.ExtractedText)
	assert.Equal(t, update.Summary, retrieved.Summary)
	assert.Equal(t, "correspondence", retrieved.Classification)
	assert.Equal(t, []string{"letter"}, retrieved.Tags)
	assert.Empty(t, retrieved.ProcessingError)
	require.NotNil(t, retrieved.ProcessedAt)
	assert.Equal(t, processedAt, retrieved.ProcessedAt.UTC())
	require.NotNil(t, retrieved.IndexedAt)
}

func TestDocumentRepository_MarkError(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDocumentRepository(pool)

	d := newTestDocument("Failing Doc")
	require.NoError(t, repo.Create(ctx, d))

	require.NoError(t, repo.MarkError(ctx, d.ID, "ocr failed"))
	require.NoError(t, repo.MarkError(ctx, d.ID, "ocr failed again"))

	retrieved, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DocumentStatusError, retrieved.Status)
	assert.Equal(t, "ocr failed again", retrieved.ProcessingError)
	assert.Equal(t, 2, retrieved.Retries)
}

func TestDocumentRepository_ClaimPending(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDocumentRepository(pool)

	uploaded := newTestDocument("Uploaded Doc")
	require.NoError(t, repo.Create(ctx, uploaded))

	errored := newTestDocument("Errored Doc")
	errored.CreatedAt = uploaded.CreatedAt.Add(time.Second)
	errored.UpdatedAt = errored.CreatedAt
	require.NoError(t, repo.Create(ctx, errored))
	require.NoError(t, repo.MarkError(ctx, errored.ID, "transient"))

	exhausted := newTestDocument("Exhausted Doc")
	exhausted.CreatedAt = uploaded.CreatedAt.Add(2 * time.Second)
	exhausted.UpdatedAt = exhausted.CreatedAt
	require.NoError(t, repo.Create(ctx, exhausted))
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.MarkError(ctx, exhausted.ID, "permanent"))
	}

	claimed, err := repo.ClaimPending(ctx, 10, 3)
	require.NoError(t, err)
	require.Len(t, claimed, 2)
	assert.Equal(t, uploaded.ID, claimed[0].ID)
	assert.Equal(t, errored.ID, claimed[1].ID)
	for _, doc := range claimed {
		assert.Equal(t, domain.DocumentStatusProcessing, doc.Status)
	}

	// Already claimed documents stay claimed
	again, err := repo.ClaimPending(ctx, 10, 3)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestDocumentRepository_Delete(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewDocumentRepository(pool)

	d := newTestDocument("Doomed Doc")
	require.NoError(t, repo.Create(ctx, d))

	require.NoError(t, repo.Delete(ctx, d.ID))

	_, err := repo.GetByID(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)

	err = repo.Delete(ctx, d.ID)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}
