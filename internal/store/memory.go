package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/vk/wireflow/internal/graph"
)

// Memory is an ephemeral, thread-safe, in-memory Store. Definitions are
// registered up front and read many times during execution, so a plain
// RWMutex-guarded map is the right shape.
type Memory struct {
	mu    sync.RWMutex
	items map[string]*graph.Graph
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string]*graph.Graph)}
}

// Load implements Store.
func (m *Memory) Load(ctx context.Context, id string) (*graph.Graph, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("workflow '%s': %w", id, ErrNotFound)
	}
	return g, nil
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, id string, g *graph.Graph) error {
	if id == "" {
		return fmt.Errorf("workflow id cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[id] = g
	return nil
}

// List implements Store.
func (m *Memory) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
