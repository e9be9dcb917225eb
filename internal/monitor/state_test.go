package monitor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *StateStore {
	t.Helper()
	return NewStateStore(filepath.Join(t.TempDir(), "monitor_state.json"), zap.NewNop())
}

func urlSet(urls ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		set[u] = struct{}{}
	}
	return set
}

func TestSeenIsEmptyWithoutStateFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	assert.Empty(t, store.Seen("owner/repo"))
}

func TestRecordThenSeenRoundTrips(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Record("owner/repo", urlSet("https://a.example.com", "https://b.example.com")))

	seen := store.Seen("owner/repo")
	assert.Contains(t, seen, "https://a.example.com")
	assert.Contains(t, seen, "https://b.example.com")
	assert.Len(t, seen, 2)
}

func TestRecordReplacesRatherThanUnions(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Record("owner/repo", urlSet("https://old.example.com")))
	require.NoError(t, store.Record("owner/repo", urlSet("https://new.example.com")))

	seen := store.Seen("owner/repo")
	assert.NotContains(t, seen, "https://old.example.com")
	assert.Contains(t, seen, "https://new.example.com")
}

func TestRecordPreservesSiblingRepositories(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	require.NoError(t, store.Record("owner/alpha", urlSet("https://alpha.example.com/1")))
	require.NoError(t, store.Record("owner/beta", urlSet("https://beta.example.com/1")))

	assert.Contains(t, store.Seen("owner/alpha"), "https://alpha.example.com/1")
	assert.Contains(t, store.Seen("owner/beta"), "https://beta.example.com/1")
}

func TestCorruptStateFileReadsAsEmpty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "monitor_state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	store := NewStateStore(path, zap.NewNop())
	assert.Empty(t, store.Seen("owner/repo"))

	// Recording over a corrupt file starts fresh rather than failing.
	require.NoError(t, store.Record("owner/repo", urlSet("https://a.example.com")))
	assert.Contains(t, store.Seen("owner/repo"), "https://a.example.com")
}

func TestRecordWritesSortedURLs(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "monitor_state.json")
	store := NewStateStore(path, zap.NewNop())
	require.NoError(t, store.Record("owner/repo", urlSet("https://z.example.com", "https://a.example.com")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var state map[string]repoState
	require.NoError(t, json.Unmarshal(data, &state))
	require.Contains(t, state, "owner/repo")
	assert.Equal(t, []string{"https://a.example.com", "https://z.example.com"}, state["owner/repo"].URLs)
	assert.False(t, state["owner/repo"].LastChecked.IsZero())
}
