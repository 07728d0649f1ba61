package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/jask/dashgrid/internal/catalog"
	"github.com/jask/dashgrid/internal/grid"
)

type fakePersister struct {
	values  map[string]string
	writes  int
	failGet error
	failSet error
}

func newFakePersister() *fakePersister { return &fakePersister{values: map[string]string{}} }

func (f *fakePersister) GetRaw(_ context.Context, key string) (string, bool, error) {
	if f.failGet != nil {
		return "", false, f.failGet
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *fakePersister) SetRaw(_ context.Context, key, value string) error {
	if f.failSet != nil {
		return f.failSet
	}
	f.writes++
	f.values[key] = value
	return nil
}

const testCatalogTOML = `cards = ["1", "2", "3"]

[[widget]]
id = "A"
x = 0
y = 0
w = 8
h = 3
min_w = 1
max_w = 12
min_h = 1
max_h = 6

[[widget]]
id = "B"
visible = false
x = 8
y = 0
w = 4
h = 2
min_w = 2
max_w = 6
min_h = 1
max_h = 4

[[widget]]
id = "C"
x = 0
y = 3
w = 6
h = 2
min_w = 3
max_w = 12
min_h = 2
max_h = 4

[preset.wallboard]
visible = ["B"]

[[preset.wallboard.layout]]
id = "B"
x = 0
y = 0
w = 6
h = 4
`

func newTestStore(t *testing.T) (*Store, *fakePersister) {
	t.Helper()
	cat, err := catalog.Parse([]byte(testCatalogTOML))
	require.NoError(t, err)
	p := newFakePersister()
	s := NewStore(cat, p, WithKey("test"))
	s.Load(context.Background())
	return s, p
}

// requireInvariant checks that every visible widget has exactly one valid
// layout item.
func requireInvariant(t *testing.T, cat *catalog.Catalog, cfg Config) {
	t.Helper()
	require.Len(t, cfg.Visible, len(cat.IDs()))
	for id, shown := range cfg.Visible {
		if !shown {
			continue
		}
		count := 0
		for _, it := range cfg.Layout {
			if it.ID != id {
				continue
			}
			count++
			require.True(t, grid.Valid(it, grid.Cols), "item %+v invalid", it)
		}
		require.Equal(t, 1, count, "visible widget %q has %d layout items", id, count)
	}
}

func TestLoadWithoutSavedDataUsesDefault(t *testing.T) {
	s, p := newTestStore(t)
	require.Equal(t, 0, p.writes)
	if diff := cmp.Diff(Default(s.Catalog()), s.Config()); diff != "" {
		t.Fatalf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadReadErrorUsesDefault(t *testing.T) {
	cat, err := catalog.Parse([]byte(testCatalogTOML))
	require.NoError(t, err)
	p := newFakePersister()
	p.failGet = errors.New("disk gone")
	core, logs := observer.New(zap.WarnLevel)
	s := NewStore(cat, p, WithLogger(zap.New(core)))

	cfg := s.Load(context.Background())
	require.Empty(t, cmp.Diff(Default(cat), cfg))
	require.Equal(t, 1, logs.FilterMessage("read dashboard failed, using defaults").Len())
}

func TestLoadLogsLegacyMigration(t *testing.T) {
	cat, err := catalog.Parse([]byte(testCatalogTOML))
	require.NoError(t, err)
	p := newFakePersister()
	p.values["k"] = `{"layout":[{"i":"A","x":1,"y":0,"w":2,"h":3,"minW":1,"maxW":4}]}`
	core, logs := observer.New(zap.InfoLevel)
	s := NewStore(cat, p, WithKey("k"), WithLogger(zap.New(core)))

	cfg := s.Load(context.Background())
	a, _ := cfg.Item("A")
	require.Equal(t, 3, a.X)
	require.Equal(t, 6, a.W)
	require.Equal(t, 1, logs.FilterMessage("migrated legacy 4-column layout").Len())
}

func TestSetVisibleEnsuresEntryAndPersists(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)

	// Start from a document that lost B's layout item.
	require.NoError(t, p.SetRaw(ctx, "test", `{"version":2,"visible":{"B":false},"layout":[{"i":"A","x":0,"y":0,"w":8,"h":3,"minW":1,"maxW":12,"minH":1,"maxH":6}]}`))
	s.Load(ctx)
	b, ok := s.Config().Item("B")
	require.True(t, ok, "load did not restore B's layout item")

	cfg, err := s.SetVisible(ctx, "B", true)
	require.NoError(t, err)
	require.True(t, cfg.Visible["B"])
	got, ok := cfg.Item("B")
	require.True(t, ok)
	require.Equal(t, b, got)
	requireInvariant(t, s.Catalog(), cfg)

	saved := Decode(p.values["test"], s.Catalog())
	require.Empty(t, cmp.Diff(cfg, saved))
}

func TestHiddenWidgetKeepsGeometry(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.Resize(ctx, "C", 10, 3)
	require.NoError(t, err)
	_, err = s.SetVisible(ctx, "C", false)
	require.NoError(t, err)

	// The surface only reports what it draws.
	x := 4
	_, err = s.ApplyPartialLayout(ctx, []grid.Patch{{ID: "A", X: &x}})
	require.NoError(t, err)

	cfg, err := s.SetVisible(ctx, "C", true)
	require.NoError(t, err)
	c, _ := cfg.Item("C")
	require.Equal(t, 10, c.W)
	require.Equal(t, 3, c.H)
}

func TestUnknownIDsAreNoops(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	before := s.Config()

	steps := []func() (Config, error){
		func() (Config, error) { return s.SetVisible(ctx, "ghost", true) },
		func() (Config, error) { return s.Resize(ctx, "ghost", 3, 3) },
		func() (Config, error) { return s.Reorder(ctx, "9", "1") },
		func() (Config, error) { return s.Reorder(ctx, "1", "1") },
		func() (Config, error) { return s.ApplyPreset(ctx, "nope") },
	}
	for i, step := range steps {
		cfg, err := step()
		require.NoError(t, err, "step %d", i)
		require.Empty(t, cmp.Diff(before, cfg), "step %d changed config", i)
	}
	require.Equal(t, 0, p.writes)
}

func TestResizeClamps(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	cfg, err := s.Resize(ctx, "A", 999, 10)
	require.NoError(t, err)
	a, _ := cfg.Item("A")
	require.Equal(t, 12, a.W)
	require.Equal(t, 6, a.H)
	require.Equal(t, 0, a.X)
}

func TestApplyPartialLayoutNormalises(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	x, w, y := 9, 7, -2

	cfg, err := s.ApplyPartialLayout(ctx, []grid.Patch{
		{ID: "A", X: &x, W: &w, Y: &y},
		{ID: "ghost", X: &x},
	})
	require.NoError(t, err)
	a, _ := cfg.Item("A")
	require.Equal(t, grid.Item{ID: "A", X: 5, Y: 0, W: 7, H: 3, MinW: 1, MinH: 1, MaxW: 12, MaxH: 6}, a)
	_, ok := cfg.Item("ghost")
	require.False(t, ok)
	require.Len(t, cfg.Layout, 3)
	requireInvariant(t, s.Catalog(), cfg)
}

func TestApplyPresetKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)

	_, err := s.Reorder(ctx, "3", "1")
	require.NoError(t, err)
	require.Equal(t, []string{"3", "1", "2"}, s.Config().Order)

	cfg, err := s.ApplyPreset(ctx, "wallboard")
	require.NoError(t, err)
	require.Equal(t, []string{"3", "1", "2"}, cfg.Order)
	require.Equal(t, map[string]bool{"A": false, "B": true, "C": false}, cfg.Visible)
	b, _ := cfg.Item("B")
	require.Equal(t, 0, b.X)
	require.Equal(t, 6, b.W)
	require.Equal(t, 4, b.H)
	// Widgets the preset omits still get a layout item.
	require.Len(t, cfg.Layout, 3)
	requireInvariant(t, s.Catalog(), cfg)

	saved := Decode(p.values["test"], s.Catalog())
	require.Equal(t, []string{"3", "1", "2"}, saved.Order)
}

func TestReorderMove(t *testing.T) {
	cat, err := catalog.Parse([]byte("cards = [\"1\", \"2\", \"3\", \"4\"]\n[[widget]]\nid = \"a\"\nw = 2\nh = 2\n"))
	require.NoError(t, err)
	s := NewStore(cat, newFakePersister())
	s.Load(context.Background())

	cfg, err := s.Reorder(context.Background(), "4", "1")
	require.NoError(t, err)
	require.Equal(t, []string{"4", "1", "2", "3"}, cfg.Order)
}

func TestResetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)

	_, _ = s.SetVisible(ctx, "B", true)
	_, _ = s.Resize(ctx, "A", 2, 2)
	_, _ = s.ApplyPreset(ctx, "wallboard")
	_, _ = s.Reorder(ctx, "2", "1")

	_, err := s.Reset(ctx)
	require.NoError(t, err)

	reloaded := NewStore(s.Catalog(), p, WithKey("test"))
	cfg := reloaded.Load(ctx)
	if diff := cmp.Diff(Default(s.Catalog()), cfg); diff != "" {
		t.Fatalf("Load() after Reset() mismatch (-want +got):\n%s", diff)
	}
}

func TestInvariantHoldsAcrossMutations(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	cat := s.Catalog()
	x, w := 11, 12

	steps := []func() (Config, error){
		func() (Config, error) { return s.SetVisible(ctx, "B", true) },
		func() (Config, error) { return s.Resize(ctx, "B", 100, 100) },
		func() (Config, error) { return s.Resize(ctx, "C", -5, 0) },
		func() (Config, error) { return s.ApplyPartialLayout(ctx, []grid.Patch{{ID: "C", X: &x, W: &w}}) },
		func() (Config, error) { return s.SetVisible(ctx, "A", false) },
		func() (Config, error) { return s.ApplyPreset(ctx, "wallboard") },
		func() (Config, error) { return s.SetVisible(ctx, "C", true) },
		func() (Config, error) { return s.Reorder(ctx, "1", "3") },
		func() (Config, error) { return s.Reset(ctx) },
	}
	for i, step := range steps {
		cfg, err := step()
		require.NoError(t, err, "step %d", i)
		requireInvariant(t, cat, cfg)
	}
}

func TestSaveFailureKeepsStateAndReturnsError(t *testing.T) {
	ctx := context.Background()
	s, p := newTestStore(t)
	p.failSet = errors.New("read-only")

	cfg, err := s.SetVisible(ctx, "B", true)
	require.Error(t, err)
	require.True(t, cfg.Visible["B"])
	require.True(t, s.Config().Visible["B"])
}

func TestOnChangeReceivesEveryMutation(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	var seen []Config
	s.OnChange(func(c Config) { seen = append(seen, c) })

	_, _ = s.SetVisible(ctx, "B", true)
	_, _ = s.Reset(ctx)
	require.Len(t, seen, 2)
	require.True(t, seen[0].Visible["B"])
	require.False(t, seen[1].Visible["B"])

	// Listeners get copies.
	seen[1].Visible["B"] = true
	require.False(t, s.Config().Visible["B"])
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)
	_, _ = s.SetVisible(ctx, "B", true)
	raw, err := Encode(s.Config())
	require.NoError(t, err)

	_, _ = s.Reset(ctx)
	cfg, err := s.Restore(ctx, raw)
	require.NoError(t, err)
	require.True(t, cfg.Visible["B"])
}

func TestStorageKeyIsStablePerInstance(t *testing.T) {
	require.Equal(t, StorageKey("ops"), StorageKey("ops"))
	require.NotEqual(t, StorageKey("ops"), StorageKey("sales"))
	require.Equal(t, StorageKey(""), StorageKey("default"))
}

func TestVisibleLayout(t *testing.T) {
	s, _ := newTestStore(t)
	var ids []string
	for _, it := range s.Config().VisibleLayout() {
		ids = append(ids, it.ID)
	}
	require.Equal(t, []string{"A", "C"}, ids)
}
