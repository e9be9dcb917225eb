package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ctsc/internship-tracker/internal/listing"
)

func TestWriteProducesTimestampedArtifact(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "snapshots")
	w := NewWriter(dir, zap.NewNop())

	listings := []listing.RawListing{
		{
			Company:     "Acme",
			CompanySlug: "acme",
			Title:       "SWE Intern",
			Location:    "Atlanta, GA",
			URL:         "https://acme.example.com/1",
			Source:      listing.SourceGreenhouse,
		},
	}

	path, err := w.Write("run-123", listings)
	require.NoError(t, err)
	assert.Regexp(t, `raw_discovery_\d{8}T\d{6}Z\.json$`, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		RunID      string               `json:"run_id"`
		TotalCount int                  `json:"total_count"`
		Listings   []listing.RawListing `json:"listings"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "run-123", got.RunID)
	assert.Equal(t, 1, got.TotalCount)
	require.Len(t, got.Listings, 1)
	assert.Equal(t, "SWE Intern", got.Listings[0].Title)
}

func TestWriteFailsWhenDirIsAFile(t *testing.T) {
	blocked := filepath.Join(t.TempDir(), "not-a-dir")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0o644))

	w := NewWriter(filepath.Join(blocked, "snapshots"), zap.NewNop())
	_, err := w.Write("run-123", nil)
	assert.Error(t, err)
}
