//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory batch result manager, mainly
// for tests and short-lived benchmark runs.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/droidworld/agentbench/internal/clone"
	"github.com/droidworld/agentbench/result"
)

var _ result.Manager = (*Manager)(nil)

// Manager stores batch results in process memory, keyed by batch ID.
type Manager struct {
	mu      sync.RWMutex
	batches map[string]*result.BatchResult
}

// New creates an empty in-memory manager.
func New() *Manager {
	return &Manager{batches: make(map[string]*result.BatchResult)}
}

// Save implements result.Manager.
func (m *Manager) Save(ctx context.Context, batch *result.BatchResult) error {
	if batch == nil {
		return errors.New("batch result is nil")
	}
	if batch.BatchID == "" {
		return errors.New("batch id is empty")
	}
	cloned, err := clone.Clone(batch)
	if err != nil {
		return fmt.Errorf("clone batch result: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches[batch.BatchID] = cloned
	return nil
}

// Get implements result.Manager.
func (m *Manager) Get(ctx context.Context, batchID string) (*result.BatchResult, error) {
	m.mu.RLock()
	batch, ok := m.batches[batchID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", result.ErrNotFound, batchID)
	}
	return clone.Clone(batch)
}

// List implements result.Manager.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.batches))
	for id := range m.batches {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Close implements result.Manager.
func (m *Manager) Close() error { return nil }
