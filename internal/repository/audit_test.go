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

func TestAuditLogRepository_CreateAndList(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAuditLogRepository(pool)

	base := time.Now().UTC().Truncate(time.Microsecond)
	older := &domain.AuditLog{
		ID:           uuid.NewString(),
		Action:       domain.AuditActionUpload,
		ResourceType: "document",
		ResourceID:   uuid.NewString(),
		Details:      map[string]any{"filename": "contract.pdf"},
		IPAddress:    "10.0.0.1",
		UserAgent:    "curl/8.0",
		CreatedAt:    base,
	}
	newer := &domain.AuditLog{
		Action:       domain.AuditActionChat,
		ResourceType: "document",
		CreatedAt:    base.Add(time.Second),
	}

	require.NoError(t, repo.Create(ctx, older))
	require.NoError(t, repo.Create(ctx, newer))

	entries, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.AuditActionChat, entries[0].Action)
	assert.Empty(t, entries[0].ResourceID)

	assert.Equal(t, older.ID, entries[1].ID)
	assert.Equal(t, domain.AuditActionUpload, entries[1].Action)
	assert.Equal(t, older.ResourceID, entries[1].ResourceID)
	assert.Equal(t, "contract.pdf", entries[1].Details["filename"])
	assert.Equal(t, "10.0.0.1", entries[1].IPAddress)
	assert.Equal(t, "curl/8.0", entries[1].UserAgent)
}

func TestAuditLogRepository_List_Limit(t *testing.T) {
	ctx := context.Background()
	pc := testutil.NewPostgresContainer(ctx, t)
	defer pc.Terminate(ctx)

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	defer pool.Close()

	repo := NewAuditLogRepository(pool)

	base := time.Now().UTC().Truncate(time.Microsecond)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &domain.AuditLog{
			Action:       domain.AuditActionAccess,
			ResourceType: "document",
			CreatedAt:    base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := repo.List(ctx, 3)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
