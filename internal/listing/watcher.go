package listing

import (
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/breeze-nav/breeze/internal/logger"
)

// Watcher tracks one directory at a time and reports that it changed.
// Events carry the watched path so a receiver that has since navigated
// elsewhere can recognize and drop stale notifications.
type Watcher struct {
	fsw     *fsnotify.Watcher
	events  chan string
	stop    chan struct{}
	mu      sync.Mutex
	current string
	closed  bool
}

// NewWatcher starts the fsnotify pump. The returned Watcher watches
// nothing until Watch is called.
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	w := &Watcher{
		fsw:    fsw,
		events: make(chan string, 1),
		stop:   make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Watch replaces the watched directory. Errors (e.g. unreadable dirs on
// network mounts) are logged and swallowed; the explorer works without
// change notification.
func (w *Watcher) Watch(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if w.current != "" {
		if err := w.fsw.Remove(w.current); err != nil {
			logger.Debug("unwatch %s: %v", w.current, err)
		}
		w.current = ""
	}
	if err := w.fsw.Add(dir); err != nil {
		logger.Warn("cannot watch %s: %v", dir, err)
		return
	}
	w.current = dir
}

// Events yields the path of the watched directory each time something
// inside it changes. The channel is buffered with capacity one and further
// notifications are dropped until the receiver catches up.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close stops the pump and releases the fsnotify handle.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()
	close(w.stop)
	w.fsw.Close()
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.stop:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) == 0 {
				continue
			}
			w.mu.Lock()
			dir := w.current
			w.mu.Unlock()
			if dir == "" {
				continue
			}
			select {
			case w.events <- dir:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error: %v", err)
		}
	}
}
