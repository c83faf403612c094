package store

import (
	"context"
	"encoding/json"
	"sync"
)

// Memory is an in-process store used by tests and database-less dev runs.
type Memory struct {
	mu      sync.RWMutex
	records map[Kind]map[string]json.RawMessage
}

func NewMemory() *Memory {
	return &Memory{records: make(map[Kind]map[string]json.RawMessage)}
}

func (m *Memory) Get(ctx context.Context, kind Kind, id string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[kind][id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (m *Memory) Set(ctx context.Context, kind Kind, id string, record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records[kind] == nil {
		m.records[kind] = make(map[string]json.RawMessage)
	}
	m.records[kind][id] = data
	return nil
}

func (m *Memory) Delete(ctx context.Context, kind Kind, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records[kind], id)
	return nil
}

func (m *Memory) All(ctx context.Context, kind Kind) (map[string]json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make(map[string]json.RawMessage, len(m.records[kind]))
	for id, rec := range m.records[kind] {
		res[id] = rec
	}
	return res, nil
}

func (m *Memory) Close() {}
