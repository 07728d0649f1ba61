package dashboard

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jask/dashgrid/internal/catalog"
	"github.com/jask/dashgrid/internal/grid"
	"github.com/jask/dashgrid/internal/layout"
	"github.com/jask/dashgrid/internal/order"
)

// Persister is a string key-value register. GetRaw reports ok=false when the
// key has never been written.
type Persister interface {
	GetRaw(ctx context.Context, key string) (value string, ok bool, err error)
	SetRaw(ctx context.Context, key, value string) error
}

// StorageKey derives the fixed persistence key for a dashboard instance.
func StorageKey(instance string) string {
	if instance == "" {
		instance = "default"
	}
	return "dashgrid.layout." + uuid.NewSHA1(uuid.NameSpaceURL, []byte("dashgrid:"+instance)).String()
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithKey overrides the persistence key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// Store owns one dashboard Config. It is not safe for concurrent use; the
// host serialises calls.
type Store struct {
	cat       *catalog.Catalog
	persist   Persister
	key       string
	log       *zap.Logger
	cfg       Config
	listeners []func(Config)
}

// NewStore returns a store holding the catalog default. Call Load to read the
// saved configuration.
func NewStore(cat *catalog.Catalog, p Persister, opts ...Option) *Store {
	s := &Store{
		cat:     cat,
		persist: p,
		key:     StorageKey(""),
		log:     zap.NewNop(),
		cfg:     Default(cat),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("key", s.key))
	return s
}

// Catalog returns the catalog the store was built with.
func (s *Store) Catalog() *catalog.Catalog { return s.cat }

// Key returns the persistence key.
func (s *Store) Key() string { return s.key }

// Config returns a copy of the current configuration.
func (s *Store) Config() Config { return s.cfg.Clone() }

// OnChange registers fn to receive the configuration after every mutation.
func (s *Store) OnChange(fn func(Config)) {
	s.listeners = append(s.listeners, fn)
}

// Load reads the saved configuration. Missing, unreadable or malformed data
// falls back to the catalog default; Load itself never fails.
func (s *Store) Load(ctx context.Context) Config {
	raw, ok, err := s.persist.GetRaw(ctx, s.key)
	switch {
	case err != nil:
		s.log.Warn("read dashboard failed, using defaults", zap.Error(err))
		raw = ""
	case !ok:
		s.log.Debug("no saved dashboard, using defaults")
	}
	cfg, rep := decode(raw, s.cat)
	if ok && rep.defaulted != "" {
		s.log.Warn("saved dashboard unreadable, using defaults", zap.String("reason", rep.defaulted))
	}
	if rep.migrated {
		s.log.Info("migrated legacy 4-column layout", zap.Int("cols", grid.Cols))
	}
	if rep.dropped > 0 {
		s.log.Warn("dropped unreadable dashboard fields", zap.Int("count", rep.dropped))
	}
	s.cfg = cfg
	s.notify()
	return s.Config()
}

// SetVisible shows or hides a widget. Showing a widget without a layout item
// gives it the catalog default. Unknown ids are ignored.
func (s *Store) SetVisible(ctx context.Context, id string, visible bool) (Config, error) {
	w, ok := s.cat.Widget(id)
	if !ok {
		return s.Config(), nil
	}
	next := s.cfg.Clone()
	next.Visible[id] = visible
	if visible {
		next.Layout = layout.EnsureEntry(next.Layout, w.Layout)
	}
	return s.commit(ctx, next)
}

// Resize sets a widget's size, clamped to its bounds. Unknown ids are ignored.
func (s *Store) Resize(ctx context.Context, id string, w, h int) (Config, error) {
	if grid.Find(s.cfg.Layout, id) < 0 {
		return s.Config(), nil
	}
	next := s.cfg.Clone()
	next.Layout = layout.Resize(next.Layout, id, w, h, grid.Cols)
	return s.commit(ctx, next)
}

// ApplyPartialLayout merges a partial layout reported by the rendering
// surface. Items it does not mention keep their geometry; items for widgets
// outside the catalog are discarded and every item is brought back within the
// grid.
func (s *Store) ApplyPartialLayout(ctx context.Context, partial []grid.Patch) (Config, error) {
	next := s.cfg.Clone()
	next.Layout = ensureAll(heal(layout.Merge(next.Layout, partial), s.cat), s.cat)
	return s.commit(ctx, next)
}

// ApplyPreset replaces visibility and layout with the named preset's. The card
// order is kept. Unknown names are ignored.
func (s *Store) ApplyPreset(ctx context.Context, name string) (Config, error) {
	p, ok := s.cat.Preset(name)
	if !ok {
		s.log.Debug("unknown preset", zap.String("preset", name))
		return s.Config(), nil
	}
	next := Config{
		Visible: p.Visible,
		Layout:  ensureAll(p.Layout, s.cat),
		Order:   s.cfg.Clone().Order,
	}
	return s.commit(ctx, next)
}

// Reset replaces the configuration with the catalog default.
func (s *Store) Reset(ctx context.Context) (Config, error) {
	return s.commit(ctx, Default(s.cat))
}

// Restore replaces the configuration with a previously saved document. The
// document is decoded and healed exactly as Load would.
func (s *Store) Restore(ctx context.Context, raw string) (Config, error) {
	cfg, rep := decode(raw, s.cat)
	if rep.defaulted != "" {
		s.log.Warn("restored document unreadable, using defaults", zap.String("reason", rep.defaulted))
	}
	return s.commit(ctx, cfg)
}

// Reorder moves card from to the position of card to. Unknown ids are ignored.
func (s *Store) Reorder(ctx context.Context, from, to string) (Config, error) {
	moved := order.Move(s.cfg.Order, from, to)
	if slices.Equal(moved, s.cfg.Order) {
		return s.Config(), nil
	}
	next := s.cfg.Clone()
	next.Order = moved
	return s.commit(ctx, next)
}

// commit installs next, writes it through and notifies listeners. The new
// state is kept even when the write fails; the error is returned so the host
// can tell the user.
func (s *Store) commit(ctx context.Context, next Config) (Config, error) {
	raw, err := Encode(next)
	if err != nil {
		return s.Config(), err
	}
	s.cfg = next
	defer s.notify()
	if err := s.persist.SetRaw(ctx, s.key, raw); err != nil {
		s.log.Error("save dashboard failed", zap.Error(err))
		return s.Config(), fmt.Errorf("save dashboard: %w", err)
	}
	return s.Config(), nil
}

func (s *Store) notify() {
	for _, fn := range s.listeners {
		fn(s.cfg.Clone())
	}
}
