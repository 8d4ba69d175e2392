// Package storage is the client's local persistent storage: a small
// key/value contract with several drivers behind it.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when the key was never written.
	ErrNotFound = errors.New("storage: key not found")
	// ErrWatchUnsupported is returned by drivers that cannot observe
	// writes from other processes.
	ErrWatchUnsupported = errors.New("storage: watch not supported")
)

// Change is a write to a watched key made by another writer. Value is nil
// when the key was deleted. Drivers that cannot tell writers apart also
// deliver the watcher's own writes.
type Change struct {
	Key   string
	Value []byte
}

// Storage persists opaque blobs under string keys. Writes are last-write-wins;
// there is no locking between writers.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Watch delivers changes to key until ctx is done, then closes the
	// channel.
	Watch(ctx context.Context, key string) (<-chan Change, error)
	Close() error
}

// watchBuffer is the per-watcher channel capacity. When it is full the
// oldest queued change is dropped; a watcher only ever needs the latest value.
const watchBuffer = 16

// deliver queues c on ch, evicting the oldest queued change when ch is full.
// Each watch channel has a single sender, so after one eviction the send
// cannot block.
func deliver(ch chan Change, c Change) {
	for {
		select {
		case ch <- c:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
