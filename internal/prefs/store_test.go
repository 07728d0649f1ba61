package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "dashboards.json")
	s := NewFileStore(path)

	if _, ok, err := s.GetRaw(ctx, "k"); err != nil || ok {
		t.Fatalf("GetRaw() on missing file = ok:%v err:%v, want absent", ok, err)
	}
	if err := s.SetRaw(ctx, "k", `{"version":2}`); err != nil {
		t.Fatalf("SetRaw() error = %v", err)
	}
	if err := s.SetRaw(ctx, "other", "x"); err != nil {
		t.Fatalf("SetRaw() error = %v", err)
	}
	got, ok, err := NewFileStore(path).GetRaw(ctx, "k")
	if err != nil || !ok || got != `{"version":2}` {
		t.Fatalf("GetRaw() = %q, %v, %v", got, ok, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dashboards.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	s := NewFileStore(path)
	if _, _, err := s.GetRaw(ctx, "k"); err == nil {
		t.Fatalf("GetRaw() on corrupt file error = nil")
	}
	if err := s.SetRaw(ctx, "k", "v"); err == nil {
		t.Fatalf("SetRaw() over corrupt file error = nil")
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{not json" {
		t.Fatalf("corrupt file rewritten: %q, %v", data, err)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, ok, _ := s.GetRaw(ctx, "k"); ok {
		t.Fatalf("GetRaw() on empty store ok = true")
	}
	_ = s.SetRaw(ctx, "k", "v")
	if got, ok, _ := s.GetRaw(ctx, "k"); !ok || got != "v" {
		t.Fatalf("GetRaw() = %q, %v", got, ok)
	}
}
