//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory episode manager.
package inmemory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/droidworld/agentbench/episode"
)

var _ episode.Manager = (*manager)(nil)

type manager struct {
	mu       sync.RWMutex
	episodes map[string]*episode.Episode
}

// New creates an in-memory episode manager.
func New() episode.Manager {
	return &manager{episodes: make(map[string]*episode.Episode)}
}

// Get returns the episode identified by episodeID.
func (m *manager) Get(ctx context.Context, episodeID string) (*episode.Episode, error) {
	if episodeID == "" {
		return nil, errors.New("episode id is empty")
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ep, ok := m.episodes[episodeID]
	if !ok {
		return nil, fmt.Errorf("episode %s: %w", episodeID, episode.ErrNotFound)
	}
	return ep.Clone(), nil
}

// List returns all stored episodes ordered by episode ID.
func (m *manager) List(ctx context.Context) ([]*episode.Episode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*episode.Episode, 0, len(m.episodes))
	for _, ep := range m.episodes {
		out = append(out, ep.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EpisodeID < out[j].EpisodeID })
	return out, nil
}

// Put stores a copy of the episode.
func (m *manager) Put(ctx context.Context, ep *episode.Episode) error {
	if ep == nil {
		return errors.New("episode is nil")
	}
	if ep.EpisodeID == "" {
		return errors.New("episode id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.episodes[ep.EpisodeID] = ep.Clone()
	return nil
}

// Delete removes the episode identified by episodeID.
func (m *manager) Delete(ctx context.Context, episodeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.episodes[episodeID]; !ok {
		return fmt.Errorf("episode %s: %w", episodeID, episode.ErrNotFound)
	}
	delete(m.episodes, episodeID)
	return nil
}

// Close implements episode.Manager.
func (m *manager) Close() error { return nil }
