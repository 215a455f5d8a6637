package catalog

import (
	"context"
	"sync"

	"github.com/neotoxic-off/glacier/internal/signature"
)

// MapStore is an in-memory Store, grounded on
// daemon/manager/store.go's mutex-guarded SessionStore — the spec's
// Open Question "test implementations may be in-memory" answered
// directly with the teacher's own pattern.
type MapStore struct {
	mu      sync.RWMutex
	records map[string]signature.Record
}

// NewMapStore creates an empty in-memory store.
func NewMapStore() *MapStore {
	return &MapStore{records: make(map[string]signature.Record)}
}

// Save implements Store.
func (m *MapStore) Save(ctx context.Context, record signature.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.records[record.FileName]; exists {
		return ErrAlreadyExists
	}
	m.records[record.FileName] = record
	return nil
}

// Load implements Store.
func (m *MapStore) Load(ctx context.Context, fileName string) (signature.Record, error) {
	if err := ctx.Err(); err != nil {
		return signature.Record{}, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	record, exists := m.records[fileName]
	if !exists {
		return signature.Record{}, ErrNotFound
	}
	return record, nil
}

// Close implements Store. MapStore holds no external resources.
func (m *MapStore) Close() error {
	return nil
}
