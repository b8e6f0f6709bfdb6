package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/notefeed/internal/database"
	"github.com/jask/notefeed/internal/database/repository"
)

func openTestDB(t *testing.T) *repository.ArtifactRepo {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return repository.NewArtifactRepo(db)
}

func TestArtifactPutGet(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	missing, err := repo.Get(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)

	require.NoError(t, repo.Put(ctx, repository.Artifact{
		Key:          "k1",
		Kind:         "image-search",
		Inputs:       `{"query":"atom"}`,
		URL:          "https://img/a.jpg",
		Alternatives: []string{"https://img/b.jpg"},
	}))

	got, err := repo.Get(ctx, "k1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "https://img/a.jpg", got.URL)
	require.Equal(t, []string{"https://img/b.jpg"}, got.Alternatives)
	require.Equal(t, 1, got.Hits)

	again, err := repo.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, 2, again.Hits)
}

func TestArtifactUpsertAndPrune(t *testing.T) {
	ctx := context.Background()
	repo := openTestDB(t)

	old := time.Now().Add(-48 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, repo.Put(ctx, repository.Artifact{Key: "old", Kind: "image", Inputs: "{}", URL: "https://img/old.png", CreatedAt: old}))
	require.NoError(t, repo.Put(ctx, repository.Artifact{Key: "new", Kind: "image", Inputs: "{}", URL: "https://img/v1.png"}))
	require.NoError(t, repo.Put(ctx, repository.Artifact{Key: "new", Kind: "image", Inputs: "{}", URL: "https://img/v2.png"}))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	got, err := repo.Get(ctx, "new")
	require.NoError(t, err)
	require.Equal(t, "https://img/v2.png", got.URL)
	require.Empty(t, got.Alternatives)

	removed, err := repo.PruneBefore(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
