package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// settle is how long a file must stay quiet before its change is reported.
// Editors save in several writes; reloading mid-save reads a torn file.
const settle = 100 * time.Millisecond

// ChangeKind says which part of the config a change touches.
type ChangeKind uint8

const (
	ChangeTable ChangeKind = iota + 1
	ChangeScript
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeTable:
		return "table"
	case ChangeScript:
		return "script"
	default:
		return "unknown"
	}
}

// Change is one settled edit under the config directory.
type Change struct {
	Kind ChangeKind
	Path string
}

func classify(path string) (ChangeKind, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ChangeTable, true
	case ".tengo":
		return ChangeScript, true
	}
	return 0, false
}

// Watcher follows a config directory and its scripts/ subdirectory.
// Changes is closed when the watcher stops; watch errors are logged.
type Watcher struct {
	fs      *fsnotify.Watcher
	log     zerolog.Logger
	Changes chan Change

	done chan struct{}
	once sync.Once
}

// NewWatcher watches root, plus root/scripts when it exists.
func NewWatcher(log zerolog.Logger, root string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dirs := []string{root}
	if info, err := os.Stat(filepath.Join(root, "scripts")); err == nil && info.IsDir() {
		dirs = append(dirs, filepath.Join(root, "scripts"))
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}

	w := &Watcher{
		fs:      fw,
		log:     log,
		Changes: make(chan Change, 8),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.fs.Close()
	})
	return err
}

func (w *Watcher) run() {
	defer close(w.Changes)

	pending := make(map[string]ChangeKind)
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			kind, ok := classify(ev.Name)
			if !ok {
				continue
			}
			pending[ev.Name] = kind
			timer.Reset(settle)
		case <-timer.C:
			if !w.flush(pending) {
				return
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("config: watch error")
		case <-w.done:
			return
		}
	}
}

// flush reports every pending path in name order and empties the set. It
// returns false when the watcher closed mid-send.
func (w *Watcher) flush(pending map[string]ChangeKind) bool {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		c := Change{Kind: pending[p], Path: p}
		delete(pending, p)
		w.log.Debug().Stringer("kind", c.Kind).Str("file", p).Msg("config: change settled")
		select {
		case w.Changes <- c:
		case <-w.done:
			return false
		}
	}
	return true
}
