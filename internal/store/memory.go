package store

import (
	"context"
	"sync"
)

// Memory is an in-process Gateway. FailSaves and FailLoads make it return
// the given error, which lets callers exercise degraded persistence.
type Memory struct {
	mu        sync.Mutex
	data      map[string][]byte
	saves     int
	FailSaves error
	FailLoads error
}

// NewMemory creates an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

// Load implements Gateway.
func (m *Memory) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailLoads != nil {
		return nil, m.FailLoads
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Save implements Gateway.
func (m *Memory) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves != nil {
		return m.FailSaves
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	m.saves++
	return nil
}

// SetFailSaves swaps the save error under the lock.
func (m *Memory) SetFailSaves(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailSaves = err
}

// Saves returns how many successful saves have happened.
func (m *Memory) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
