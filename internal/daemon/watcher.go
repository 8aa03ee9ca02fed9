// Package daemon provides watch mode: it monitors the export file and
// triggers a sync run whenever the authoring tool rewrites it.
package daemon

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits after the last write event
// before triggering. The authoring tool saves exports via temp file and
// rename, which lands as a burst of events; the debounce collapses the
// burst into one trigger.
const DefaultDebounce = 500 * time.Millisecond

// Config controls a Watcher.
type Config struct {
	// ExportPath is the export file to watch. The watch is placed on its
	// parent directory so rename-style saves are seen.
	ExportPath string

	// Debounce is the quiet period after the last event before OnChange
	// fires.
	Debounce time.Duration

	// Logger receives watch notices. Never nil after DefaultConfig.
	Logger *log.Logger

	// OnChange is invoked once per settled change to the export file.
	OnChange func()
}

// DefaultConfig returns a Config with the default debounce and a discard
// logger.
func DefaultConfig(exportPath string) Config {
	return Config{
		ExportPath: exportPath,
		Debounce:   DefaultDebounce,
		Logger:     log.New(io.Discard, "", 0),
	}
}

// Watcher watches the export file for rewrites.
type Watcher struct {
	cfg     Config
	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup

	mu      sync.Mutex
	running bool
	timer   *time.Timer
}

// NewWatcher creates a Watcher. It must be started with Start before it
// emits anything.
func NewWatcher(cfg Config) (*Watcher, error) {
	if cfg.ExportPath == "" {
		return nil, fmt.Errorf("export path is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard, "", 0)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{
		cfg:     cfg,
		watcher: fw,
		done:    make(chan struct{}),
	}, nil
}

// Start begins watching the export file's directory.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}

	dir := filepath.Dir(w.cfg.ExportPath)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}

	w.running = true
	w.wg.Add(1)
	go w.processEvents()

	w.cfg.Logger.Printf("watch: watching %s", w.cfg.ExportPath)
	return nil
}

// Stop stops the watcher and blocks until the event loop exits. A pending
// debounce trigger is cancelled.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	close(w.done)
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()
	return nil
}

// IsRunning reports whether the watcher is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				w.bump()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.cfg.Logger.Printf("watch: error: %v", err)
		}
	}
}

// relevant reports whether the event touches the export file. Create and
// Rename both matter: a temp-and-rename save surfaces as Create of the
// final name.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(w.cfg.ExportPath) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// bump resets the debounce timer; OnChange fires once events go quiet.
func (w *Watcher) bump() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.cfg.Debounce, func() {
		if w.cfg.OnChange != nil {
			w.cfg.OnChange()
		}
	})
}
