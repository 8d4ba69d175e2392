package storage

import "context"

// Nop is the fallback used when no persistent storage exists (server-side
// rendering, headless runs): reads miss, writes vanish.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, error) { return nil, ErrNotFound }

func (Nop) Set(context.Context, string, []byte) error { return nil }

func (Nop) Delete(context.Context, string) error { return nil }

func (Nop) Watch(context.Context, string) (<-chan Change, error) {
	return nil, ErrWatchUnsupported
}

func (Nop) Close() error { return nil }
