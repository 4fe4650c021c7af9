package registry

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/firepack/firepack/core/manifest"
)

// Holder keeps a registry loaded from a manifest directory and reloads it
// when the directory changes or on SIGHUP. A failed reload keeps the old
// schema set.
type Holder struct {
	registry *Registry
	dir      string
	logger   zerolog.Logger
	watcher  *fsnotify.Watcher
	onChange []func(*Registry)
	stopCh   chan struct{}
}

// NewHolder loads the initial schema set from dir.
func NewHolder(dir string, logger zerolog.Logger) (*Holder, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	h := &Holder{
		registry: New(),
		dir:      absDir,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}

	schemas, err := manifest.LoadDir(absDir)
	if err != nil {
		return nil, fmt.Errorf("load manifests: %w", err)
	}
	h.registry.Replace(schemas)

	return h, nil
}

// Registry returns the held registry. The same value stays valid across
// reloads; Reload swaps its contents atomically.
func (h *Holder) Registry() *Registry {
	return h.registry
}

// Reload re-reads the manifest directory. Returns an error and keeps the
// old schema set if loading fails.
func (h *Holder) Reload() error {
	h.logger.Info().Str("dir", h.dir).Msg("reloading schemas")

	schemas, err := manifest.LoadDir(h.dir)
	if err != nil {
		h.logger.Error().Err(err).Msg("schema reload failed, keeping old schemas")
		return fmt.Errorf("reload schemas: %w", err)
	}

	h.registry.Replace(schemas)

	for _, fn := range h.onChange {
		fn(h.registry)
	}

	h.logger.Info().Int("schemas", len(schemas)).Msg("schemas reloaded")
	return nil
}

// OnChange registers a callback invoked after each successful reload.
// Register callbacks before starting the watcher.
func (h *Holder) OnChange(fn func(*Registry)) {
	h.onChange = append(h.onChange, fn)
}

// Watch starts watching the manifest directory for changes. Changes to
// .yaml/.yml files trigger automatic reload.
func (h *Holder) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	if err := watcher.Add(h.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go h.watchLoop()

	h.logger.Info().Str("dir", h.dir).Msg("watching manifest directory for changes")
	return nil
}

// WatchSignals starts listening for SIGHUP to trigger reload.
func (h *Holder) WatchSignals() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)

	go func() {
		for {
			select {
			case <-sigCh:
				h.logger.Info().Msg("received SIGHUP, reloading schemas")
				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("SIGHUP reload failed")
				}
			case <-h.stopCh:
				signal.Stop(sigCh)
				return
			}
		}
	}()
}

// Stop stops watching for file changes and signals.
func (h *Holder) Stop() {
	close(h.stopCh)
	if h.watcher != nil {
		h.watcher.Close()
	}
}

func (h *Holder) watchLoop() {
	for {
		select {
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			ext := strings.ToLower(filepath.Ext(event.Name))
			if ext != ".yaml" && ext != ".yml" {
				continue
			}

			// Write, create, remove and rename all change the schema set;
			// atomic editor saves show up as create+rename.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				h.logger.Debug().
					Str("event", event.Op.String()).
					Str("file", event.Name).
					Msg("manifest file changed")

				if err := h.Reload(); err != nil {
					h.logger.Error().Err(err).Msg("file watch reload failed")
				}
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().Err(err).Msg("file watcher error")

		case <-h.stopCh:
			return
		}
	}
}
