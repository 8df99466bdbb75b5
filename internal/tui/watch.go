package tui

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 200 * time.Millisecond

// storeChangedMsg is sent when the store file changed on disk.
type storeChangedMsg struct{}

// storeWatcher reports debounced writes to the store file. It watches the
// parent directory so atomic rename-over writes and SQLite WAL files are
// both seen.
type storeWatcher struct {
	w       *fsnotify.Watcher
	path    string
	changes chan struct{}
	cancel  context.CancelFunc
}

func newStoreWatcher(path string, logger *slog.Logger) (*storeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	sw := &storeWatcher{
		w:       w,
		path:    path,
		changes: make(chan struct{}, 1),
		cancel:  cancel,
	}
	go sw.run(ctx, logger)
	logger.Debug("watcher: started", slog.String("path", path))
	return sw, nil
}

// touchesStore reports whether name is the store file or a file whose
// write means the store changed. SQLite's -shm index is skipped since
// readers write it too.
func touchesStore(name, storePath string) bool {
	name, storePath = filepath.Clean(name), filepath.Clean(storePath)
	switch name {
	case storePath, storePath + "-wal", storePath + "-journal":
		return true
	}
	return false
}

func (sw *storeWatcher) run(ctx context.Context, logger *slog.Logger) {
	defer close(sw.changes)

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case <-fire:
			fire = nil
			select {
			case sw.changes <- struct{}{}:
			default:
			}

		case ev, ok := <-sw.w.Events:
			if !ok {
				return
			}
			if !touchesStore(ev.Name, sw.path) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			fire = timer.C

		case err, ok := <-sw.w.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher: error", slog.String("error", err.Error()))
		}
	}
}

// Close stops the watcher.
func (sw *storeWatcher) Close() error {
	sw.cancel()
	return sw.w.Close()
}

// waitForChange blocks until the next debounced change.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}
