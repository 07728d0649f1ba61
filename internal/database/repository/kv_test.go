package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/dashgrid/internal/database"
)

func openTestDB(t *testing.T) *KVRepo {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	db, err := database.OpenMigrated(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewKVRepo(db, 3)
}

func TestKVRepoGetSet(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	repo := openTestDB(t)

	_, ok, err := repo.GetRaw(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.SetRaw(ctx, "k", "one"))
	require.NoError(t, repo.SetRaw(ctx, "k", "two"))
	require.NoError(t, repo.SetRaw(ctx, "other", "x"))

	v, ok, err := repo.GetRaw(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "two", v)
}

func TestKVRepoHistoryIsBounded(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	repo := openTestDB(t)

	for i := 1; i <= 5; i++ {
		require.NoError(t, repo.SetRaw(ctx, "k", fmt.Sprintf("v%d", i)))
	}
	require.NoError(t, repo.SetRaw(ctx, "other", "x"))

	revs, err := repo.History(ctx, "k")
	require.NoError(t, err)
	require.Len(t, revs, 3)
	require.Equal(t, "v5", revs[0].Value)
	require.Equal(t, "v3", revs[2].Value)
	require.False(t, revs[0].SavedAt.IsZero())

	rev, err := repo.Revision(ctx, revs[1].ID)
	require.NoError(t, err)
	require.NotNil(t, rev)
	require.Equal(t, "v4", rev.Value)

	gone, err := repo.Revision(ctx, 999999)
	require.NoError(t, err)
	require.Nil(t, gone)

	other, err := repo.History(ctx, "other")
	require.NoError(t, err)
	require.Len(t, other, 1)
}

func TestRunMigrationsIsRepeatable(t *testing.T) {
	t.Parallel()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(dbPath))
	require.NoError(t, database.RunMigrations(dbPath))
}
