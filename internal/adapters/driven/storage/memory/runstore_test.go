package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/seqsearch-cli/internal/core/domain"
)

func TestRunStore_RoundTrip(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	manifest := domain.RunManifest{ID: "run-1", CreatedAt: time.Now().UTC()}

	require.NoError(t, store.Save(ctx, manifest))

	got, err := store.Get(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRunStore_ListNewestFirst(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(ctx, domain.RunManifest{ID: "old", CreatedAt: base}))
	require.NoError(t, store.Save(ctx, domain.RunManifest{ID: "new", CreatedAt: base.Add(time.Hour)}))

	manifests, err := store.List(ctx)

	require.NoError(t, err)
	require.Len(t, manifests, 2)
	assert.Equal(t, "new", manifests[0].ID)
}

func TestRunStore_Delete(t *testing.T) {
	store := NewRunStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, domain.RunManifest{ID: "run-1"}))

	require.NoError(t, store.Delete(ctx, "run-1"))

	_, err := store.Get(ctx, "run-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
