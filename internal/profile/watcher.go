package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bft-labs/tablestress/pkg/log"
)

// DefaultDebounce coalesces bursts of write events from editors.
const DefaultDebounce = 100 * time.Millisecond

// Watcher keeps the latest valid profile loaded from a file.
type Watcher struct {
	path   string
	delay  time.Duration
	logger log.Logger

	mu       sync.Mutex
	current  Profile
	debounce *time.Timer
	reloads  int
}

// NewWatcher creates a Watcher for path starting from initial.
func NewWatcher(path string, initial Profile, logger log.Logger) *Watcher {
	return &Watcher{
		path:    path,
		delay:   DefaultDebounce,
		logger:  logger.With(log.String("profile_file", path)),
		current: initial,
	}
}

// Current returns the latest valid profile.
func (w *Watcher) Current() Profile {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Reloads returns the number of successful reloads.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.reloads
}

// Run watches the profile's directory until ctx is done. The directory is
// watched rather than the file so that editors replacing the file by rename
// are picked up.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	name := filepath.Base(w.path)

	for {
		select {
		case <-ctx.Done():
			w.stopDebounce()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.debounceReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("profile watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) debounceReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.delay, w.reload)
}

func (w *Watcher) stopDebounce() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}

func (w *Watcher) reload() {
	b, err := os.ReadFile(w.path)
	if err == nil && len(bytes.TrimSpace(b)) == 0 {
		// Truncated mid-write; the next write event brings the content.
		err = errors.New("profile file is empty")
	}
	var p Profile
	if err == nil {
		p, err = ParseProfile(b)
	}
	if err != nil {
		w.logger.Warn("profile reload rejected, keeping previous profile", log.Err(err))
		return
	}

	w.mu.Lock()
	w.current = p
	w.reloads++
	w.mu.Unlock()

	w.logger.Info("profile reloaded", log.String("profile", p.Name))
}
