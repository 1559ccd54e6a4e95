//
// Copyright (C) 2026 The agentbench Authors. All rights reserved.
//
// agentbench is licensed under the Apache License Version 2.0.
//
//

// Package local provides a JSON-file episode manager. Each episode lives in
// its own <id>.episode.json file under the base directory, with ground-truth
// actions stored in grammar form, e.g. CLICK("Apps").
package local

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/droidworld/agentbench/action"
	"github.com/droidworld/agentbench/episode"
	"github.com/droidworld/agentbench/log"
)

// FileSuffix is the extension episode files must carry to be picked up.
const FileSuffix = ".episode.json"

var _ episode.Manager = (*manager)(nil)

type manager struct {
	baseDir string
	parser  *action.Parser
	verbs   action.VerbSet
	mu      sync.Mutex
}

// New creates a local file episode manager rooted at baseDir. The verb set
// is used to parse and validate stored ground-truth actions.
func New(baseDir string, verbs action.VerbSet) episode.Manager {
	return &manager{
		baseDir: baseDir,
		parser:  action.NewParser(verbs),
		verbs:   verbs,
	}
}

// episodeJSON is the on-disk representation of an episode.
type episodeJSON struct {
	// EpisodeID uniquely identifies the episode. Defaults to the file name.
	EpisodeID string `json:"episode_id,omitempty"`
	// Goal describes the task objective.
	Goal string `json:"goal"`
	// Steps is the ordered gold trace.
	Steps []stepJSON `json:"steps"`
}

// stepJSON is the on-disk representation of a step.
type stepJSON struct {
	// Observation is the screen snapshot.
	Observation episode.Observation `json:"observation"`
	// GroundTruth keeps the oracle action in grammar form.
	GroundTruth string `json:"ground_truth"`
}

// Get returns the episode identified by episodeID.
func (m *manager) Get(ctx context.Context, episodeID string) (*episode.Episode, error) {
	if episodeID == "" {
		return nil, errors.New("episode id is empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(episodeID)
}

// List returns all well-formed episodes under the base directory. Malformed
// episode files are skipped with a logged reason; they never fail the batch.
func (m *manager) List(ctx context.Context) ([]*episode.Episode, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries, err := os.ReadDir(m.baseDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*episode.Episode{}, nil
		}
		return nil, fmt.Errorf("read episode dir: %w", err)
	}
	var episodes []*episode.Episode
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileSuffix) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), FileSuffix)
		ep, err := m.load(id)
		if err != nil {
			if errors.Is(err, episode.ErrBadEpisodeData) {
				log.Warnf("skip episode %s: %v", id, err)
				continue
			}
			return nil, err
		}
		episodes = append(episodes, ep)
	}
	return episodes, nil
}

// Put stores an episode, serializing ground-truth actions back to grammar
// form. The write is atomic (tmp file plus rename).
func (m *manager) Put(ctx context.Context, ep *episode.Episode) error {
	if ep == nil {
		return errors.New("episode is nil")
	}
	if err := ep.Validate(m.verbs); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.MkdirAll(m.baseDir, 0o755); err != nil {
		return err
	}
	out := episodeJSON{EpisodeID: ep.EpisodeID, Goal: ep.Goal, Steps: make([]stepJSON, len(ep.Steps))}
	for i, step := range ep.Steps {
		out.Steps[i] = stepJSON{Observation: step.Observation, GroundTruth: step.GroundTruth.String()}
	}
	path := m.episodePath(ep.EpisodeID)
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// Delete removes the episode file identified by episodeID.
func (m *manager) Delete(ctx context.Context, episodeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.Remove(m.episodePath(episodeID)); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("episode %s: %w", episodeID, episode.ErrNotFound)
		}
		return err
	}
	return nil
}

// Close implements episode.Manager.
func (m *manager) Close() error { return nil }

func (m *manager) episodePath(episodeID string) string {
	return filepath.Join(m.baseDir, episodeID+FileSuffix)
}

func (m *manager) load(episodeID string) (*episode.Episode, error) {
	f, err := os.Open(m.episodePath(episodeID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("episode %s: %w", episodeID, episode.ErrNotFound)
		}
		return nil, err
	}
	defer f.Close()
	var raw episodeJSON
	if err := json.NewDecoder(f).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: episode %s: %v", episode.ErrBadEpisodeData, episodeID, err)
	}
	if raw.EpisodeID == "" {
		raw.EpisodeID = episodeID
	}
	ep := &episode.Episode{EpisodeID: raw.EpisodeID, Goal: raw.Goal, Steps: make([]episode.Step, len(raw.Steps))}
	for i, step := range raw.Steps {
		parsed, failure := m.parser.Parse(step.GroundTruth)
		if failure != nil {
			return nil, fmt.Errorf("%w: episode %s step %d ground truth %q: %s",
				episode.ErrBadEpisodeData, episodeID, i, step.GroundTruth, failure.Reason)
		}
		ep.Steps[i] = episode.Step{Observation: step.Observation, GroundTruth: *parsed}
	}
	if err := ep.Validate(m.verbs); err != nil {
		return nil, err
	}
	return ep, nil
}
