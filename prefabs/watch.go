package prefabs

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type ChangeKind int

const (
	ChangeSpec ChangeKind = iota
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeSpec:
		return "spec"
	case ChangeScript:
		return "script"
	}
	return "unknown"
}

// Change is a debounced edit to a prefab or script file on disk.
type Change struct {
	Path string
	Kind ChangeKind
}

// Name returns the path relative to the prefabs directory, the form Load and
// LoadScript accept.
func (c Change) Name() string {
	s := filepath.ToSlash(c.Path)
	if idx := strings.LastIndex(s, "prefabs/"); idx >= 0 {
		return s[idx+len("prefabs/"):]
	}
	return filepath.Base(s)
}

type Watcher struct {
	watcher  *fsnotify.Watcher
	Events   chan Change
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
	debounce time.Duration
}

func NewWatcher(dirs ...string) (*Watcher, error) {
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

	watcher := &Watcher{
		watcher:  w,
		Events:   make(chan Change, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		debounce: 100 * time.Millisecond,
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

// Drain returns every pending change without blocking. Call from the game
// loop so reloads happen on the update goroutine.
func (w *Watcher) Drain() []Change {
	if w == nil {
		return nil
	}
	var out []Change
	for {
		select {
		case c := <-w.Events:
			out = append(out, c)
		default:
			return out
		}
	}
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
			kind, ok := classify(event.Name)
			if !ok {
				continue
			}
			now := time.Now()
			if t, ok := last[event.Name]; ok && now.Sub(t) < w.debounce {
				continue
			}
			last[event.Name] = now
			select {
			case w.Events <- Change{Path: event.Name, Kind: kind}:
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

func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeSpec, true
	case ".tengo":
		return ChangeScript, true
	}
	return 0, false
}
