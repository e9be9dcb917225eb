// Package snapshot persists the raw output of a discovery run as a
// timestamped JSON artifact.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/ctsc/internship-tracker/internal/listing"
)

const fileTimestamp = "20060102T150405Z"

type payload struct {
	DiscoveredAt time.Time            `json:"discovered_at"`
	RunID        string               `json:"run_id"`
	TotalCount   int                  `json:"total_count"`
	Listings     []listing.RawListing `json:"listings"`
}

// Writer emits one snapshot file per discovery run.
type Writer struct {
	dir    string
	logger *zap.Logger
}

// NewWriter builds a writer rooted at dir. The directory is created on the
// first Write.
func NewWriter(dir string, logger *zap.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Write persists the listings under a timestamped filename and returns the
// path written.
func (w *Writer) Write(runID string, listings []listing.RawListing) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}

	now := time.Now().UTC()
	p := payload{
		DiscoveredAt: now,
		RunID:        runID,
		TotalCount:   len(listings),
		Listings:     listings,
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}

	path := filepath.Join(w.dir, fmt.Sprintf("raw_discovery_%s.json", now.Format(fileTimestamp)))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}

	w.logger.Info("wrote discovery snapshot",
		zap.String("path", path),
		zap.String("run_id", runID),
		zap.Int("listings", len(listings)))
	return path, nil
}
