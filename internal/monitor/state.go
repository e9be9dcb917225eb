package monitor

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
)

// StateStore persists the per-repository URL sets used for incremental
// diffs. All access is serialized through one mutex, and every write merges
// against the latest on-disk content so concurrent checks of different
// repositories never lose each other's entries.
type StateStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// repoState is one repository's entry in the state document. URLs is the
// full set seen on the last successful check, not a cumulative union, so
// removed entries naturally drop out of future diffs.
type repoState struct {
	URLs        []string  `json:"urls"`
	LastChecked time.Time `json:"last_checked"`
}

// NewStateStore tracks diff state in the JSON document at path.
func NewStateStore(path string, logger *zap.Logger) *StateStore {
	return &StateStore{path: path, logger: logger}
}

// Seen returns the URL set recorded for repo as of the last successful
// check. A missing or unreadable state file reads as no prior state.
func (s *StateStore) Seen(repo string) map[string]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	entry, ok := state[repo]
	if !ok {
		return map[string]struct{}{}
	}
	seen := make(map[string]struct{}, len(entry.URLs))
	for _, u := range entry.URLs {
		seen[u] = struct{}{}
	}
	return seen
}

// Record replaces repo's URL set with the current snapshot and stamps the
// check time, preserving every other repository's entry.
func (s *StateStore) Record(repo string, urls map[string]struct{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := s.load()
	sorted := make([]string, 0, len(urls))
	for u := range urls {
		sorted = append(sorted, u)
	}
	slices.Sort(sorted)
	state[repo] = repoState{
		URLs:        sorted,
		LastChecked: time.Now().UTC(),
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal monitor state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	// Write-then-rename keeps a crashed run from leaving a torn file.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write monitor state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace monitor state: %w", err)
	}

	s.logger.Debug("saved monitor state",
		zap.String("repo", repo), zap.Int("urls", len(urls)))
	return nil
}

// load reads the full state document, treating absence or corruption as an
// empty document. Callers must hold s.mu.
func (s *StateStore) load() map[string]repoState {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("could not read monitor state, starting fresh",
				zap.String("path", s.path), zap.Error(err))
		}
		return map[string]repoState{}
	}

	var state map[string]repoState
	if err := json.Unmarshal(data, &state); err != nil {
		s.logger.Warn("monitor state unreadable, starting fresh",
			zap.String("path", s.path), zap.Error(err))
		return map[string]repoState{}
	}
	if state == nil {
		state = map[string]repoState{}
	}
	return state
}
