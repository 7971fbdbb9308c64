// Package watch re-imports markdown files into topics when they change on
// disk, so a lesson can be authored in any text editor.
package watch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"academy/internal/log"
)

// ChangeHandler is called with the full file content when a watched file changes.
type ChangeHandler func(topicID, content string)

// Watcher maps markdown files to topics and reports every saved change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onChange ChangeHandler
	logger   *zap.Logger
	mu       sync.RWMutex
	watching map[string]string // absolute path -> topic id
	done     chan struct{}
}

// New creates a watcher and starts its event loop.
func New(onChange ChangeHandler) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		onChange: onChange,
		logger:   log.Get().Named("watch"),
		watching: make(map[string]string),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// WatchFile starts mirroring filePath into topicID.
func (w *Watcher) WatchFile(topicID, filePath string) error {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.watching[absPath] = topicID
	w.mu.Unlock()

	// Watch the directory: editors that save by rename replace the file's inode.
	return w.watcher.Add(filepath.Dir(absPath))
}

// StopWatching forgets every file mapped to topicID.
func (w *Watcher) StopWatching(topicID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, id := range w.watching {
		if id == topicID {
			delete(w.watching, path)
		}
	}
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}

func (w *Watcher) loop() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.handle(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handle(name string) {
	absPath, _ := filepath.Abs(name)
	w.mu.RLock()
	topicID, watched := w.watching[absPath]
	w.mu.RUnlock()
	if !watched {
		return
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		w.logger.Warn("read watched file", zap.String("path", absPath), zap.Error(err))
		return
	}
	w.logger.Debug("file changed", zap.String("path", absPath), zap.String("topic", topicID))
	if w.onChange != nil {
		w.onChange(topicID, string(content))
	}
}
