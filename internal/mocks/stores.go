package mocks

import (
	"context"
	"sync"

	"console/internal/repository"
)

// MockSettingsStore is an in-memory SettingsStore. Setting ReadError or
// WriteError makes every call of that kind fail.
type MockSettingsStore struct {
	mu         sync.Mutex
	Data       map[string][]byte
	ReadError  error
	WriteError error
	PingError  error
	Writes     map[string]int
}

func NewMockSettingsStore() *MockSettingsStore {
	return &MockSettingsStore{
		Data:   make(map[string][]byte),
		Writes: make(map[string]int),
	}
}

func (m *MockSettingsStore) Read(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadError != nil {
		return nil, m.ReadError
	}
	data, ok := m.Data[key]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *MockSettingsStore) Write(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteError != nil {
		return m.WriteError
	}
	m.Data[key] = append([]byte(nil), data...)
	m.Writes[key]++
	return nil
}

func (m *MockSettingsStore) Ping(ctx context.Context) error {
	return m.PingError
}

// Put seeds a raw blob
func (m *MockSettingsStore) Put(key, data string) {
	m.mu.Lock()
	m.Data[key] = []byte(data)
	m.mu.Unlock()
}

func (m *MockSettingsStore) WriteCount(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Writes[key]
}

// PublishedEvent is one call recorded by MockNotifier
type PublishedEvent struct {
	Event string
	Data  map[string]interface{}
}

// MockNotifier records every published message
type MockNotifier struct {
	mu     sync.Mutex
	Events []PublishedEvent
}

func (n *MockNotifier) Publish(event string, data map[string]interface{}) {
	n.mu.Lock()
	n.Events = append(n.Events, PublishedEvent{Event: event, Data: data})
	n.mu.Unlock()
}

// Count returns how many messages of the given event were published
func (n *MockNotifier) Count(event string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, e := range n.Events {
		if e.Event == event {
			count++
		}
	}
	return count
}
