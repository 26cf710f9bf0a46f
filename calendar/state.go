package calendar

import (
	"context"
	"sync"
	"time"

	"github.com/juju/errors"
)

// StateStore binds an OAuth state nonce to the user who started the consent flow.
type StateStore interface {
	Save(ctx context.Context, state string, userID uint, ttl time.Duration) error
	// Consume returns the bound user id and forgets the state. Unknown or
	// expired states are NotFound.
	Consume(ctx context.Context, state string) (uint, error)
}

type stateEntry struct {
	userID  uint
	expires time.Time
}

// MemoryStateStore is used when Redis is not configured. States do not survive
// a restart and are not shared between instances.
type MemoryStateStore struct {
	mu      sync.Mutex
	entries map[string]stateEntry
	now     func() time.Time
}

var _ StateStore = (*MemoryStateStore)(nil)

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{entries: make(map[string]stateEntry), now: time.Now}
}

func (m *MemoryStateStore) Save(ctx context.Context, state string, userID uint, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, e := range m.entries {
		if now.After(e.expires) {
			delete(m.entries, k)
		}
	}
	m.entries[state] = stateEntry{userID: userID, expires: now.Add(ttl)}
	return nil
}

func (m *MemoryStateStore) Consume(ctx context.Context, state string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[state]
	delete(m.entries, state)
	if !ok || m.now().After(e.expires) {
		return 0, errors.NotFoundf("oauth state")
	}
	return e.userID, nil
}
