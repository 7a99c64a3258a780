package overlay

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is the default debounce interval for file watch events.
const DefaultWatchDebounce = 500 * time.Millisecond

// sceneWatcher calls onChange once a burst of writes to a configuration
// file has settled.
type sceneWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func() error
	onError  func(error)

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// newSceneWatcher watches the directory holding path, so editors that save
// by renaming a temporary file are seen too.
func newSceneWatcher(path string, debounce time.Duration, onChange func() error, onError func(error)) (*sceneWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	return &sceneWatcher{
		watcher:  w,
		path:     path,
		debounce: debounce,
		onChange: onChange,
		onError:  onError,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start runs the watch loop in a goroutine.
func (sw *sceneWatcher) Start() {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.started {
		return
	}
	sw.started = true
	go sw.loop()
}

// Stop ends the watch loop and waits for it. Safe to call more than once
// and before Start.
func (sw *sceneWatcher) Stop() {
	sw.mu.Lock()
	started := sw.started
	select {
	case <-sw.stopCh:
	default:
		close(sw.stopCh)
	}
	sw.mu.Unlock()

	if started {
		<-sw.doneCh
	} else {
		sw.watcher.Close()
	}
}

func (sw *sceneWatcher) matches(name string) bool {
	if filepath.Base(name) == filepath.Base(sw.path) {
		return true
	}
	a, errA := filepath.Abs(name)
	b, errB := filepath.Abs(sw.path)
	return errA == nil && errB == nil && a == b
}

func (sw *sceneWatcher) loop() {
	defer close(sw.doneCh)
	defer sw.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-sw.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.matches(ev.Name) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(sw.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if err := sw.onChange(); err != nil && sw.onError != nil {
				sw.onError(err)
			}

		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			if sw.onError != nil {
				sw.onError(err)
			}
		}
	}
}
