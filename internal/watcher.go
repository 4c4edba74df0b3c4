package internal

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
)

// EventType represents the type of filesystem event
type EventType int

const (
	EventCreate EventType = iota
	EventDelete
	EventRename
)

// WatchEvent represents a filesystem event we care about
type WatchEvent struct {
	Type EventType
	Path string
}

// Watcher wraps an fsnotify watcher on one folder and filters to supported media.
type Watcher struct {
	cfg     *Config
	watcher *fsnotify.Watcher
	events  chan *WatchEvent
	errors  chan error
	done    chan struct{}
}

// NewWatcher watches folder (not its subdirectories) for media file changes.
func NewWatcher(folder string, cfg *Config) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(folder); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		cfg:     cfg,
		watcher: fsWatcher,
		events:  make(chan *WatchEvent, 100),
		errors:  make(chan error, 10),
		done:    make(chan struct{}),
	}
	go w.processEvents()
	return w, nil
}

// processEvents converts raw fsnotify events and drops non-media paths.
func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.cfg.KindOf(event.Name) == KindUnsupported {
				continue
			}

			watchEvent := &WatchEvent{Path: event.Name}
			switch {
			case event.Has(fsnotify.Create):
				watchEvent.Type = EventCreate
			case event.Has(fsnotify.Remove):
				watchEvent.Type = EventDelete
			case event.Has(fsnotify.Rename):
				watchEvent.Type = EventRename
			default:
				continue
			}

			select {
			case w.events <- watchEvent:
			default:
				// Event channel is full; a pass is already due.
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}

		case <-w.done:
			return
		}
	}
}

// Events returns the channel of filtered watch events
func (w *Watcher) Events() <-chan *WatchEvent {
	return w.events
}

// Errors returns the channel of watcher errors
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Run calls onChange once per burst of media creations, after the folder has been
// quiet for debounce. It returns when ctx is done.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, onChange func(), onError func(error)) {
	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev := <-w.events:
			if ev.Type != EventCreate {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange()
			// Creates seen while onChange ran are mostly its own renames.
			w.drain()
		case err := <-w.errors:
			if onError != nil {
				onError(err)
			}
		}
	}
}

func (w *Watcher) drain() {
	for {
		select {
		case <-w.events:
		default:
			return
		}
	}
}

// Close stops the watcher and cleans up resources
func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
