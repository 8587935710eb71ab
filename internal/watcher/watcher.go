// Package watcher notifies zetline's --watch mode when an operand file
// changes on disk, so the calculation can be re-run without restarting the
// process.
package watcher

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// Event reports that path was written to or recreated.
type Event struct {
	Path string
}

// Watcher watches a fixed set of paths for changes.
type Watcher interface {
	// Watch starts watching and returns a channel of change events and a
	// channel of errors encountered while watching. Both channels are
	// closed once ctx is done or Close is called.
	Watch(ctx context.Context) (<-chan Event, <-chan error)
	Close() error
}

type fsWatcher struct {
	inner *fsnotify.Watcher
}

// New creates a Watcher for the given paths. Each path is watched
// individually rather than its containing directory, since zetline cares
// only about the specific operand files named on its command line.
func New(paths []string) (Watcher, error) {
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	for _, p := range paths {
		if err := inner.Add(p); err != nil {
			inner.Close()
			return nil, fmt.Errorf("watching %s: %w", p, err)
		}
	}
	return &fsWatcher{inner: inner}, nil
}

func (w *fsWatcher) Watch(ctx context.Context) (<-chan Event, <-chan error) {
	events := make(chan Event)
	errs := make(chan error)

	go func() {
		defer close(events)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.inner.Events:
				if !ok {
					return
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				select {
				case events <- Event{Path: ev.Name}:
				case <-ctx.Done():
					return
				}
			case err, ok := <-w.inner.Errors:
				if !ok {
					return
				}
				select {
				case errs <- err:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, errs
}

func (w *fsWatcher) Close() error {
	return w.inner.Close()
}
