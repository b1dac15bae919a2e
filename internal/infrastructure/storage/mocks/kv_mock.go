package mocks

import (
	"context"
	"sync"
)

// MockKV is an in-memory KV that records writes and can inject failures
type MockKV struct {
	mu     sync.RWMutex
	values map[string]string

	// For tracking calls in tests
	SetCalls    []SetCall
	DeleteCalls [][]string
	GetErr      error
	SetErr      error
	DeleteErr   error
}

// SetCall records parameters passed to Set
type SetCall struct {
	Key   string
	Value string
}

func NewMockKV() *MockKV {
	return &MockKV{
		values:   make(map[string]string),
		SetCalls: make([]SetCall, 0),
	}
}

func (m *MockKV) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetErr != nil {
		return "", false, m.GetErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MockKV) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SetCalls = append(m.SetCalls, SetCall{Key: key, Value: value})
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *MockKV) Delete(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeleteCalls = append(m.DeleteCalls, keys)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

func (m *MockKV) Close() error { return nil }

// Put seeds a value without recording a call
func (m *MockKV) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Value returns the stored value for key
func (m *MockKV) Value(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// SetCallsFor returns the number of writes to key
func (m *MockKV) SetCallsFor(key string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, c := range m.SetCalls {
		if c.Key == key {
			n++
		}
	}
	return n
}
