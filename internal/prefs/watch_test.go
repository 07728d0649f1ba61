package prefs

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherCoalescesSaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dashboards.json")
	changed := make(chan struct{}, 8)
	w, err := Watch(path, 50*time.Millisecond, func() { changed <- struct{}{} }, nil)
	require.NoError(t, err)
	defer w.Close()

	s := NewFileStore(path)
	ctx := context.Background()
	require.NoError(t, s.SetRaw(ctx, "k", "1"))
	require.NoError(t, s.SetRaw(ctx, "k", "2"))

	select {
	case <-changed:
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
	select {
	case <-changed:
		t.Fatal("burst of saves reported twice")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	changed := make(chan struct{}, 1)
	w, err := Watch(filepath.Join(dir, "dashboards.json"), 20*time.Millisecond, func() { changed <- struct{}{} }, nil)
	require.NoError(t, err)

	require.NoError(t, NewFileStore(filepath.Join(dir, "other.json")).SetRaw(context.Background(), "k", "v"))
	select {
	case <-changed:
		t.Fatal("change reported for another file")
	case <-time.After(150 * time.Millisecond):
	}
	require.NoError(t, w.Close())
}
