package settings

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"vidmux/pkg/log"
)

// LoadFunc reads the settings out of the config file at path. Injected so
// this package stays independent of the config format.
type LoadFunc func(path string) (Settings, error)

// Watcher feeds a Store from the config file: whenever the file changes
// on disk, it is reloaded and the derived settings are published through
// Store.Set. Editors often replace files atomically (write to temp file,
// rename over), so rename and remove events are treated as potential
// rewrites rather than deletions.
type Watcher struct {
	path   string
	store  *Store
	load   LoadFunc
	fw     *fsnotify.Watcher
	logger *log.Logger
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWatcher creates a watcher for the config file at path. The file must
// exist. Call Start to begin watching and Stop to tear down.
func NewWatcher(path string, store *Store, load LoadFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	if err := fw.Add(path); err != nil {
		if cerr := fw.Close(); cerr != nil {
			return nil, fmt.Errorf("watching %s: %w (also failed to close watcher: %v)", path, err, cerr)
		}
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}

	return &Watcher{
		path:   path,
		store:  store,
		load:   load,
		fw:     fw,
		logger: log.ForComponent("settings"),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}, nil
}

// Start launches the watch loop in a background goroutine.
func (w *Watcher) Start() {
	w.logger.Infof("watching config file for changes: %s", w.path)
	go w.loop()
}

// Stop terminates the watch loop and releases the underlying watcher.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	<-w.doneCh
	return w.fw.Close()
}

func (w *Watcher) loop() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			// React to write, create, rename and remove: atomic writes
			// show up as rename/remove of the watched path.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}

			w.logger.Debugf("config file changed: %s (event: %s)", event.Name, event.Op.String())

			if event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove) {
				// Give the editor time to put the new file in place.
				time.Sleep(200 * time.Millisecond)

				if _, err := os.Stat(w.path); os.IsNotExist(err) {
					w.logger.Warnf("config file removed and not replaced, keeping current settings")
					continue
				}

				// The watched inode is gone; watch the replacement.
				if err := w.fw.Add(w.path); err != nil {
					w.logger.Warnf("failed to re-watch config file after rename/remove: %v", err)
				}
			} else {
				// Give the write time to complete.
				time.Sleep(100 * time.Millisecond)
			}

			w.reload()
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.Errorf("config file watcher error: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	settings, err := w.load(w.path)
	if err != nil {
		w.logger.Errorf("failed to reload settings from %s: %v", w.path, err)
		return
	}

	w.store.Set(settings)
	w.logger.Infof("settings reloaded from %s", w.path)
}
