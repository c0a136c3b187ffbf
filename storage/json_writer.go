package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"compra-agil-scraper/models"
	"compra-agil-scraper/utils"
)

// JSONWriter persists listing sets as pretty-printed UTF-8 JSON files under
// a fixed directory. Writes are atomic: temp file then rename, so a crashed
// run never leaves a half-written artifact.
type JSONWriter struct {
	dir    string
	logger *utils.Logger
}

var _ ArtifactStore = (*JSONWriter)(nil)

// NewJSONWriter creates a writer rooted at dir.
func NewJSONWriter(dir string, logger *utils.Logger) *JSONWriter {
	return &JSONWriter{dir: dir, logger: logger}
}

// Save writes the listings to <dir>/<name> and returns the full path.
func (w *JSONWriter) Save(name string, listings []models.Listing) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := json.MarshalIndent(listings, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode listings: %w", err)
	}

	path := filepath.Join(w.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("failed to finalize %s: %w", path, err)
	}

	w.logger.Info("Saved %d listings to: %s", len(listings), path)
	return path, nil
}

// Load reads a previously saved artifact.
func (w *JSONWriter) Load(location string) ([]models.Listing, error) {
	data, err := os.ReadFile(location)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", location, err)
	}

	var listings []models.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("invalid JSON in %s: %w", location, err)
	}

	w.logger.Info("Loaded %d listings from: %s", len(listings), location)
	return listings, nil
}
