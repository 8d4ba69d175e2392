package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/storefront/internal/storage"
)

// blob is the on-disk envelope of a persisted store.
type blob[T any] struct {
	State   T   `json:"state"`
	Version int `json:"version"`
}

const blobVersion = 0

// persister writes one store's state under a fixed key and recognises its
// own writes when they come back through a watch.
type persister struct {
	storage storage.Storage
	key     string

	mu   sync.Mutex
	last []byte
}

func newPersister(st storage.Storage, key string) *persister {
	if st == nil {
		st = storage.Nop{}
	}
	return &persister{storage: st, key: key}
}

// load decodes the stored state into dst. It reports false when nothing
// usable was stored; failures are logged, never returned.
func (p *persister) load(ctx context.Context, dst any) bool {
	raw, err := p.storage.Get(ctx, p.key)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		log.Warn().Err(err).Str("key", p.key).Msg("Failed to load persisted state")
		return false
	}
	if err := decodeBlob(raw, dst); err != nil {
		log.Warn().Err(err).Str("key", p.key).Msg("Discarding corrupt persisted state")
		return false
	}

	p.mu.Lock()
	p.last = raw
	p.mu.Unlock()
	return true
}

// save writes the state produced by snapshot. Saves are serialised and the
// snapshot is taken inside the critical section, so the newest state is
// always the last one written.
func (p *persister) save(ctx context.Context, snapshot func() any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw, err := json.Marshal(blob[any]{State: snapshot(), Version: blobVersion})
	if err != nil {
		log.Error().Err(err).Str("key", p.key).Msg("Failed to encode state")
		return
	}
	if bytes.Equal(raw, p.last) {
		return
	}
	if err := p.storage.Set(ctx, p.key, raw); err != nil {
		log.Warn().Err(err).Str("key", p.key).Msg("Failed to persist state")
		return
	}
	p.last = raw
}

// watch calls apply for every foreign write to the key until ctx is done.
func (p *persister) watch(ctx context.Context, apply func(raw []byte)) error {
	changes, err := p.storage.Watch(ctx, p.key)
	if err != nil {
		return err
	}
	for change := range changes {
		if change.Value == nil {
			log.Debug().Str("key", p.key).Msg("Persisted state deleted elsewhere, keeping local copy")
			continue
		}

		p.mu.Lock()
		own := bytes.Equal(change.Value, p.last)
		if !own {
			p.last = change.Value
		}
		p.mu.Unlock()

		if !own {
			apply(change.Value)
		}
	}
	return nil
}

func decodeBlob(raw []byte, dst any) error {
	var env blob[json.RawMessage]
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	if len(env.State) == 0 {
		return errors.New("missing state")
	}
	return json.Unmarshal(env.State, dst)
}
