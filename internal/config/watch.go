package config

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reloads the configuration file on write and debounces bursts
// of filesystem events (editors often emit several writes per save).
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload func(*Config)
	done     chan struct{}
}

// Watch starts watching path for writes, invoking onReload with the
// freshly loaded Config each time the file settles after a write. The
// returned Watcher must be stopped with Close when no longer needed.
func Watch(path string, onReload func(*Config)) (*Watcher, error) {
	path = ExpandPath(path)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(path); err != nil {
		fw.Close()
		return nil, err
	}

	w := &Watcher{
		path:     path,
		watcher:  fw,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var debounce *time.Timer
	for {
		select {
		case <-w.done:
			if debounce != nil {
				debounce.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(300*time.Millisecond, func() {
				cfg, err := LoadFromFile(w.path)
				if err != nil {
					return
				}
				w.onReload(cfg)
			})
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
