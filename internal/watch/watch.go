// Package watch reports changes to Pitanja source files using
// github.com/fsnotify/fsnotify. Directories are watched recursively and rapid
// events for one file are debounced, since editors often write several times
// per save.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrStarted is returned when Watch is called on a watcher that already
// runs or has been stopped
var ErrStarted = errors.New("watcher already started")

// DebounceInterval is the minimum gap between two callbacks for one file
const DebounceInterval = 100 * time.Millisecond

// Directories never descended into
var ignoreDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
}

// Watcher calls back when a watched source file is written or created
type Watcher struct {
	fw      *fsnotify.Watcher
	exts    []string
	files   map[string]bool // explicitly watched files
	trees   []string        // recursively watched roots
	done    chan struct{}
	started bool
	stopped bool
	mu      sync.Mutex // guards files, trees, started and stopped
}

// NewWatcher creates a watcher for files with one of exts
func NewWatcher(exts []string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:    fw,
		exts:  exts,
		files: make(map[string]bool),
		done:  make(chan struct{}),
	}, nil
}

// Watch starts monitoring paths. A directory is watched recursively for
// files with a source extension; a file is watched whatever its extension.
// onChange receives the absolute path of each changed file and onError any
// watcher error; both run on the watcher goroutine. A Watcher is started
// once: later calls return ErrStarted.
func (w *Watcher) Watch(paths []string, onChange func(path string), onError func(error)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started || w.stopped {
		return ErrStarted
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			w.files[abs] = true
			if err := w.fw.Add(filepath.Dir(abs)); err != nil {
				return err
			}
			continue
		}
		if err := w.addTree(abs); err != nil {
			return err
		}
		w.trees = append(w.trees, abs)
	}

	w.started = true
	go w.loop(onChange, onError)
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if ignoreDirs[info.Name()] && path != root {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) loop(onChange func(string), onError func(error)) {
	last := make(map[string]time.Time)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			path := event.Name

			// New directories below a watched tree get watched too
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() {
					if !ignoreDirs[info.Name()] {
						_ = w.addTree(path)
					}
					continue
				}
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.relevant(path) {
				continue
			}

			now := time.Now()
			if prev, seen := last[path]; seen && now.Sub(prev) < DebounceInterval {
				continue
			}
			last[path] = now
			onChange(path)

		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			}

		case <-w.done:
			return
		}
	}
}

// relevant reports whether a change to path should be reported
func (w *Watcher) relevant(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.files[path] {
		return true
	}
	for _, root := range w.trees {
		if strings.HasPrefix(path, root+string(filepath.Separator)) {
			return slices.Contains(w.exts, strings.ToLower(filepath.Ext(path)))
		}
	}
	return false
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}
