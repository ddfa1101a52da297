package sqlport

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rickar/props"
	log "github.com/sirupsen/logrus"
)

// MapMapper is a QueryMapper backed by an in-memory map.
type MapMapper map[string]string

func (mm MapMapper) Map(name string) string {
	return mm[name]
}

type propFileMapper struct {
	properties *props.Properties
}

func (pm propFileMapper) Map(name string) string {
	return pm.properties.Get(name)
}

// PropFileToQueryMapper loads a .properties file of name=query pairs into a
// QueryMapper. The file is read once; see WatchedPropFileMapper for a mapper
// that follows edits.
func PropFileToQueryMapper(name string) (QueryMapper, error) {
	properties, err := readPropFile(name)
	if err != nil {
		return nil, err
	}
	return propFileMapper{properties}, nil
}

func readPropFile(name string) (*props.Properties, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return props.Read(file)
}

// WatchedPropFileMapper is a QueryMapper over a .properties file that reloads
// when the file changes on disk. Map is safe for concurrent use with reloads.
type WatchedPropFileMapper struct {
	mu         sync.RWMutex
	properties *props.Properties

	path      string
	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	doneCh    chan struct{}

	// Debouncing: editors fire several events per save; collapse them.
	debounceDelay time.Duration
	timerMu       sync.Mutex
	reloadTimer   *time.Timer

	onError func(err error)
}

// WatcherOption configures a WatchedPropFileMapper.
type WatcherOption func(*WatchedPropFileMapper)

// WithDebounceDelay sets the delay used to batch file events.
// Default is 100ms.
func WithDebounceDelay(d time.Duration) WatcherOption {
	return func(w *WatchedPropFileMapper) {
		w.debounceDelay = d
	}
}

// WithOnError sets a callback for reload errors.
func WithOnError(fn func(err error)) WatcherOption {
	return func(w *WatchedPropFileMapper) {
		w.onError = fn
	}
}

// NewWatchedPropFileMapper loads path and starts watching it. Close must be
// called to release the watcher.
func NewWatchedPropFileMapper(path string, opts ...WatcherOption) (*WatchedPropFileMapper, error) {
	properties, err := readPropFile(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory, not the file: saves that replace the file keep
	// working after the original inode goes away.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &WatchedPropFileMapper{
		properties:    properties,
		path:          path,
		fsWatcher:     fsw,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
		debounceDelay: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(w)
	}

	go w.processEvents()

	return w, nil
}

func (w *WatchedPropFileMapper) Map(name string) string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.properties.Get(name)
}

// Close stops watching. Map keeps serving the last loaded queries.
func (w *WatchedPropFileMapper) Close() error {
	close(w.stopCh)
	err := w.fsWatcher.Close()
	<-w.doneCh
	return err
}

func (w *WatchedPropFileMapper) processEvents() {
	defer close(w.doneCh)

	for {
		select {
		case <-w.stopCh:
			w.timerMu.Lock()
			if w.reloadTimer != nil {
				w.reloadTimer.Stop()
			}
			w.timerMu.Unlock()
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warnln("query file watcher error:", err)
			if w.onError != nil {
				w.onError(err)
			}
		}
	}
}

func (w *WatchedPropFileMapper) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != filepath.Clean(w.path) {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.timerMu.Lock()
	defer w.timerMu.Unlock()
	if w.reloadTimer != nil {
		w.reloadTimer.Stop()
	}
	w.reloadTimer = time.AfterFunc(w.debounceDelay, w.reload)
}

func (w *WatchedPropFileMapper) reload() {
	properties, err := readPropFile(w.path)
	if err != nil {
		log.Warnln("failed to reload query file", w.path, ":", err)
		if w.onError != nil {
			w.onError(err)
		}
		return
	}

	w.mu.Lock()
	w.properties = properties
	w.mu.Unlock()

	log.Debugln("query file reloaded:", w.path)
}
