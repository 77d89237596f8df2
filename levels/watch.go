package levels

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/milk9111/platformer2d/content"
)

// Watcher publishes the new contents of level files edited on disk.
type Watcher struct {
	watcher *fsnotify.Watcher
	Updates chan content.LevelUpdate
	Errors  chan error
	closeCh chan struct{}
	once    sync.Once
}

func NewWatcher(dir string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher: w,
		Updates: make(chan content.LevelUpdate, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	last := make(map[string]time.Time)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			index, ok := IndexOf(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < 100*time.Millisecond {
				continue
			}

			data, err := os.ReadFile(filepath.Clean(event.Name))
			if err != nil {
				w.sendErr(err)
				continue
			}
			lines := SplitLines(data)
			if len(lines) == 0 {
				// truncated mid-save; the following write carries the content
				continue
			}
			last[event.Name] = now
			select {
			case w.Updates <- content.LevelUpdate{Index: index, Lines: lines}:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
