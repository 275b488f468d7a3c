package radial

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce collapses the burst of events an editor produces for
// a single save.
const DefaultWatchDebounce = 200 * time.Millisecond

// settingsWatcher reports edits of the settings file. It watches the parent
// directory so that editors which save by rename are still seen.
type settingsWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func()
	onError  func(error)

	stopOnce  sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func newSettingsWatcher(path string, debounce time.Duration, onChange func(), onError func(error)) (*settingsWatcher, error) {
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
	sw := &settingsWatcher{
		watcher:   w,
		path:      path,
		debounce:  debounce,
		onChange:  onChange,
		onError:   onError,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
	go sw.loop()
	return sw, nil
}

// Stop ends the watch and waits for the loop to exit. It is safe to call
// more than once.
func (sw *settingsWatcher) Stop() {
	sw.stopOnce.Do(func() {
		close(sw.stopCh)
	})
	<-sw.stoppedCh
}

func (sw *settingsWatcher) matches(name string) bool {
	if filepath.Base(name) != filepath.Base(sw.path) {
		return false
	}
	a, errA := filepath.Abs(name)
	b, errB := filepath.Abs(sw.path)
	return errA != nil || errB != nil || a == b
}

func (sw *settingsWatcher) loop() {
	defer close(sw.stoppedCh)
	defer sw.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-sw.stopCh:
			return

		case ev, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if !sw.matches(ev.Name) || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(sw.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			if sw.onChange != nil {
				sw.onChange()
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
