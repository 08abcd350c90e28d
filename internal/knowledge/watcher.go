package knowledge

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reindexes the document folder when files change. Change
// notifications are debounced and delivered on the Changed channel; the
// session loop drains it so all index swaps happen on the session's
// goroutine.
type Watcher struct {
	dir      string
	log      *zap.Logger
	debounce time.Duration

	changed chan struct{}
}

// NewWatcher creates a watcher for dir.
func NewWatcher(dir string, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		dir:      dir,
		log:      log.Named("watcher"),
		debounce: 500 * time.Millisecond,
		changed:  make(chan struct{}, 1),
	}
}

// Changed signals after a burst of filesystem events settles.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

// Start watches until ctx is cancelled. It returns the fsnotify setup
// error, if any; runtime watch errors are logged and skipped.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := fw.Add(w.dir); err != nil {
		fw.Close()
		return err
	}

	go func() {
		defer fw.Close()
		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-fw.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				w.log.Debug("document change", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
				if timer == nil {
					timer = time.NewTimer(w.debounce)
					fire = timer.C
				} else {
					timer.Reset(w.debounce)
				}
			case err, ok := <-fw.Errors:
				if !ok {
					return
				}
				w.log.Warn("watch error", zap.Error(err))
			case <-fire:
				timer = nil
				fire = nil
				select {
				case w.changed <- struct{}{}:
				default:
				}
			}
		}
	}()
	return nil
}
