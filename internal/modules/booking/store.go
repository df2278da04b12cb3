// README: Draft persistence with optimistic versioning. Drafts expire with the browser session.
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"toptransfer/internal/types"
)

// DefaultDraftTTL bounds how long an untouched draft survives.
const DefaultDraftTTL = 2 * time.Hour

// Store persists drafts. Update writes d only when the stored version still
// equals d.Version and bumps d.Version on success; a stale write is ErrConflict.
type Store interface {
	Create(ctx context.Context, d *Draft) error
	Get(ctx context.Context, id types.ID) (*Draft, error)
	Update(ctx context.Context, d *Draft) error
	Delete(ctx context.Context, id types.ID) error
}

type memoryEntry struct {
	data      []byte
	version   int
	expiresAt time.Time
}

// MemoryStore keeps drafts in process. Values are stored encoded so callers
// never share pointers with the store. Expired drafts are swept on Create at
// most once per TTL.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	entries   map[types.ID]memoryEntry
	lastSweep time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultDraftTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, entries: make(map[types.ID]memoryEntry)}
}

func (s *MemoryStore) Create(ctx context.Context, d *Draft) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sweep(now)
	if e, ok := s.entries[d.ID]; ok && now.Before(e.expiresAt) {
		return ErrConflict
	}
	s.entries[d.ID] = memoryEntry{data: data, version: d.Version, expiresAt: now.Add(s.ttl)}
	return nil
}

// sweep drops expired entries. Callers hold s.mu.
func (s *MemoryStore) sweep(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl {
		return
	}
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.lastSweep = now
}

func (s *MemoryStore) Get(ctx context.Context, id types.ID) (*Draft, error) {
	s.mu.Lock()
	e, ok := s.entries[id]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.entries, id)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decodeDraft(e.data)
}

func (s *MemoryStore) Update(ctx context.Context, d *Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[d.ID]
	if !ok || !s.now().Before(e.expiresAt) {
		return ErrNotFound
	}
	if e.version != d.Version {
		return ErrConflict
	}
	d.Version++
	data, err := json.Marshal(d)
	if err != nil {
		d.Version--
		return err
	}
	s.entries[d.ID] = memoryEntry{data: data, version: d.Version, expiresAt: s.now().Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id types.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

func decodeDraft(data []byte) (*Draft, error) {
	var d Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}
