package page

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/preston-bernstein/footy-guide-ssr/internal/logging"
)

// Source hands out the current page template.
type Source interface {
	Current() (Template, error)
}

// Static is a template read once at startup.
type Static struct {
	tpl Template
}

// LoadStatic reads path once.
func LoadStatic(path string) (*Static, error) {
	tpl, err := readTemplate(path)
	if err != nil {
		return nil, err
	}
	return &Static{tpl: tpl}, nil
}

// NewStatic wraps an in-memory template.
func NewStatic(tpl Template) *Static {
	return &Static{tpl: tpl}
}

// Current implements Source.
func (s *Static) Current() (Template, error) {
	return s.tpl, nil
}

// Watched keeps a template in sync with its file. Without a working watcher
// it falls back to reading the file on every call.
type Watched struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu  sync.RWMutex
	tpl Template
	err error

	done chan struct{}
}

// Watch reads path and reloads it whenever it changes until ctx ends or Close is called.
func Watch(ctx context.Context, path string, logger *slog.Logger) (*Watched, error) {
	path = filepath.Clean(path)
	tpl, err := readTemplate(path)
	if err != nil {
		return nil, err
	}
	w := &Watched{
		path:   path,
		logger: logger,
		tpl:    tpl,
		done:   make(chan struct{}),
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logging.Warn(logger, "template watcher unavailable, reading per request", "error", err)
		close(w.done)
		return w, nil
	}
	// Editors replace files on save, so watch the directory rather than the file.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		logging.Warn(logger, "template watch failed, reading per request", logging.FieldPath, path, "error", err)
		close(w.done)
		return w, nil
	}
	w.watcher = watcher
	go w.loop(ctx)
	return w, nil
}

// Current implements Source.
func (w *Watched) Current() (Template, error) {
	if w.watcher == nil {
		return readTemplate(w.path)
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.tpl, w.err
}

// Close stops watching.
func (w *Watched) Close() error {
	if w.watcher == nil {
		return nil
	}
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watched) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			_ = w.watcher.Close()
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				w.reload()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Warn(w.logger, "template watcher error", "error", err)
		}
	}
}

func (w *Watched) reload() {
	tpl, err := readTemplate(w.path)
	if err != nil {
		// A replace-on-save leaves the file briefly missing; keep serving the last good copy.
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		logging.Warn(w.logger, "template reload failed", logging.FieldPath, w.path, "error", err)
		w.mu.Lock()
		w.err = err
		w.mu.Unlock()
		return
	}
	w.mu.Lock()
	w.tpl = tpl
	w.err = nil
	w.mu.Unlock()
	logging.Info(w.logger, "template reloaded", logging.FieldPath, w.path)
}

func readTemplate(path string) (Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("page: read template: %w", err)
	}
	return Parse(string(raw)), nil
}
