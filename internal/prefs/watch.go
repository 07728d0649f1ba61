package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a Watcher waits for writes to settle.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reports changes to a FileStore made by other processes. Events are
// coalesced so one atomic save triggers one callback.
type Watcher struct {
	path     string
	fs       *fsnotify.Watcher
	debounce time.Duration
	onChange func()
	log      *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// Watch starts watching path. The parent directory is watched rather than the
// file, since atomic saves replace the file's inode. onChange runs on the
// watcher goroutine.
func Watch(path string, debounce time.Duration, onChange func(), log *zap.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir prefs dir: %w", err)
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		path:     filepath.Clean(path),
		fs:       fs,
		debounce: debounce,
		onChange: onChange,
		log:      log.With(zap.String("path", path)),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops the watcher and waits for its goroutine to exit.
func (w *Watcher) Close() error {
	close(w.stopCh)
	<-w.doneCh
	return w.fs.Close()
}

func (w *Watcher) run() {
	defer close(w.doneCh)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.stopCh:
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Create|fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case <-fire:
			fire = nil
			w.log.Debug("store file changed")
			w.onChange()
		}
	}
}
