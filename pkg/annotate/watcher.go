package annotate

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/opd-ai/go-annotate/internal/config"
)

// configWatcher reports edits to one configuration file. A burst of writes
// produces a single reload once the file has been quiet for the debounce
// interval.
type configWatcher struct {
	fsw      *fsnotify.Watcher
	target   string
	debounce time.Duration
	done     chan struct{}
}

// watchConfigFile watches the directory holding path. Editors that save by
// renaming a temporary file over the original only show up there.
func watchConfigFile(path string, debounce time.Duration) (*configWatcher, error) {
	target, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = config.DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		fsw.Close()
		return nil, err
	}
	return &configWatcher{
		fsw:      fsw,
		target:   target,
		debounce: debounce,
		done:     make(chan struct{}),
	}, nil
}

// Run delivers reloads until ctx is cancelled, then releases the fsnotify
// handle. It must be called exactly once.
func (w *configWatcher) Run(ctx context.Context, reload func(), report func(error)) {
	defer close(w.done)
	defer w.fsw.Close()

	quiet := time.NewTimer(w.debounce)
	quiet.Stop()
	defer quiet.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.relevant(ev) {
				quiet.Reset(w.debounce)
			}

		case <-quiet.C:
			if reload != nil {
				reload()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			if report != nil {
				report(err)
			}
		}
	}
}

// Done is closed when Run has returned.
func (w *configWatcher) Done() <-chan struct{} {
	return w.done
}

// Close releases a watcher whose Run was never started.
func (w *configWatcher) Close() error {
	return w.fsw.Close()
}

func (w *configWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	return err == nil && name == w.target
}
