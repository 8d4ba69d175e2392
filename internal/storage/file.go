package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// File keeps one JSON file per key under a directory. Writes go through a
// temp file and rename so readers never see a torn blob; fsnotify reports
// writes from other processes sharing the directory.
type File struct {
	dir string

	mu       sync.Mutex
	watchers []*fsnotify.Watcher
}

// NewFile creates the directory if needed and returns a File storage.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, url.PathEscape(key)+".json")
}

func (f *File) Get(_ context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return b, nil
}

func (f *File) Set(_ context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := os.Rename(tmpName, f.path(key)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (f *File) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (f *File) Watch(ctx context.Context, key string) (<-chan Change, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory, not the file: rename replaces the inode.
	if err := watcher.Add(f.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", f.dir, err)
	}

	f.mu.Lock()
	f.watchers = append(f.watchers, watcher)
	f.mu.Unlock()

	target := f.path(key)
	out := make(chan Change, watchBuffer)

	go func() {
		defer close(out)
		defer f.release(watcher)

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != target {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue // chmod
				}

				value, err := f.Get(ctx, key)
				if err != nil && !errors.Is(err, ErrNotFound) {
					log.Warn().Err(err).Str("key", key).Msg("Storage watch read failed")
					continue
				}
				deliver(out, Change{Key: key, Value: value})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Str("key", key).Msg("Storage watcher error")
			}
		}
	}()
	return out, nil
}

func (f *File) release(w *fsnotify.Watcher) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, other := range f.watchers {
		if other == w {
			f.watchers = append(f.watchers[:i], f.watchers[i+1:]...)
			break
		}
	}
	w.Close()
}

// Close stops every watcher. Their channels close shortly after.
func (f *File) Close() error {
	f.mu.Lock()
	watchers := append([]*fsnotify.Watcher(nil), f.watchers...)
	f.mu.Unlock()

	for _, w := range watchers {
		w.Close()
	}
	return nil
}
