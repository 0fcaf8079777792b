// Package watch turns filesystem changes to recorded visit graphs into
// graph change notifications.
package watch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/visitgraph/internal/store"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to a
// graph file to settle before reporting it.
const DefaultDebounce = 200 * time.Millisecond

// Handler is told the name of each graph whose file changed.
type Handler interface {
	GraphChanged(name string)
}

// Watcher reports debounced changes to visit_graph_<name>.json files in a directory.
type Watcher struct {
	dir      string
	debounce time.Duration
	handler  Handler
	log      *logrus.Logger
	fs       *fsnotify.Watcher
}

// New starts watching dir. Call Run to deliver changes and Close when done.
func New(dir string, debounce time.Duration, handler Handler, log *logrus.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	if err := fsw.Add(dir); err != nil {
		fsw.Close() //nolint:errcheck // already failing

		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{dir: dir, debounce: debounce, handler: handler, log: log, fs: fsw}, nil
}

// Close stops the underlying watcher. Run returns once it is closed.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run delivers changes until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.WithField("dir", w.dir).Info("watching graph directory")

	pending := make(map[string]struct{})

	var timer *time.Timer
	var timerC <-chan time.Time

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}

			name, relevant := w.graphFor(event)
			if !relevant {
				continue
			}
			pending[name] = struct{}{}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer, timerC = nil, nil
			w.flush(pending)
			clear(pending)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("graph watcher overflowed, some changes may be missed")

				continue
			}
			w.log.WithError(err).Warn("graph watcher error")
		}
	}
}

func (w *Watcher) graphFor(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}

	return store.NameFromPath(event.Name)
}

func (w *Watcher) flush(pending map[string]struct{}) {
	names := make([]string, 0, len(pending))
	for name := range pending {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w.log.WithField("graph", name).Debug("graph file changed")
		w.handler.GraphChanged(name)
	}
}
