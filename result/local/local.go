//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package local provides a batch result manager backed by JSON files in
// a directory, one file per batch.
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/droidworld/agentbench/result"
)

const fileSuffix = ".batch_result.json"

var _ result.Manager = (*Manager)(nil)

// Manager persists batch results as pretty-printed JSON files under a
// base directory.
type Manager struct {
	dir string
}

// New creates a manager rooted at dir, creating it if necessary.
func New(dir string) (*Manager, error) {
	if dir == "" {
		return nil, errors.New("result dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create result dir: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Save implements result.Manager. The file is written to a temporary
// path and renamed so readers never observe a partial batch.
func (m *Manager) Save(ctx context.Context, batch *result.BatchResult) error {
	if batch == nil {
		return errors.New("batch result is nil")
	}
	if batch.BatchID == "" {
		return errors.New("batch id is empty")
	}
	data, err := json.MarshalIndent(batch, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch result: %w", err)
	}
	path := m.path(batch.BatchID)
	tmp, err := os.CreateTemp(m.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write batch result: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename batch result: %w", err)
	}
	return nil
}

// Get implements result.Manager.
func (m *Manager) Get(ctx context.Context, batchID string) (*result.BatchResult, error) {
	data, err := os.ReadFile(m.path(batchID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", result.ErrNotFound, batchID)
		}
		return nil, fmt.Errorf("read batch result: %w", err)
	}
	batch := &result.BatchResult{}
	if err := json.Unmarshal(data, batch); err != nil {
		return nil, fmt.Errorf("unmarshal batch result %s: %w", batchID, err)
	}
	return batch, nil
}

// List implements result.Manager.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("read result dir: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), fileSuffix))
	}
	sort.Strings(ids)
	return ids, nil
}

// Close implements result.Manager.
func (m *Manager) Close() error { return nil }

func (m *Manager) path(batchID string) string {
	return filepath.Join(m.dir, batchID+fileSuffix)
}
