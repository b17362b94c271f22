package scenario

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce drops repeated events for the same file that arrive
// within this window.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports scenario and script files that change on disk.
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration
	Events   chan string
	Errors   chan error
	closeCh  chan struct{}
	done     chan struct{}
	once     sync.Once
}

// NewWatcher watches the given directories. debounce <= 0 uses
// DefaultDebounce.
func NewWatcher(debounce time.Duration, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	watcher := &Watcher{
		watcher:  w,
		debounce: debounce,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
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
			if !IsScenarioFile(event.Name) && !IsScriptFile(event.Name) {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- event.Name:
			case <-w.closeCh:
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// IsScenarioFile reports whether path names a YAML scenario.
func IsScenarioFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// IsScriptFile reports whether path names a tengo script.
func IsScriptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".tengo")
}
