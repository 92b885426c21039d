package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/discochess/openingweeks"
)

// ManifestVersion is the current manifest format version.
const ManifestVersion = 1

// Manifest describes a written report directory.
type Manifest struct {
	Version     int       `json:"version"`
	RunID       string    `json:"run_id"`
	GeneratedAt time.Time `json:"generated_at"`
	Input       string    `json:"input,omitempty"`
	Mode        string    `json:"mode"`
	RatingMean  string    `json:"rating_mean"`
	Compression string    `json:"compression"`

	Rows           int `json:"rows"`
	DroppedRows    int `json:"dropped_rows"`
	Games          int `json:"games"`
	Counted        int `json:"counted"`
	Excluded       int `json:"excluded"`
	Other          int `json:"other"`
	MissingRatings int `json:"missing_ratings"`
	Weeks          int `json:"weeks"`

	Openings  []string `json:"openings"`
	Artifacts []string `json:"artifacts"`
}

// NewManifest returns a manifest for rep with a fresh run id.
func NewManifest(rep *openingweeks.Report, meta Meta) *Manifest {
	s := rep.Summary
	return &Manifest{
		Version:        ManifestVersion,
		RunID:          uuid.NewString(),
		GeneratedAt:    meta.Generated.UTC(),
		Input:          meta.Input,
		Mode:           rep.Mode.String(),
		RatingMean:     rep.RatingScope.String(),
		Rows:           s.Rows,
		DroppedRows:    s.DroppedRows,
		Games:          s.Games,
		Counted:        s.Counted,
		Excluded:       s.Excluded,
		Other:          s.Other,
		MissingRatings: s.MissingRatings,
		Weeks:          s.Weeks,
		Openings:       append([]string{}, rep.Openings...),
	}
}

// WriteManifest writes the manifest to the output directory.
func WriteManifest(dir string, m *Manifest) error {
	path := filepath.Join(dir, ManifestFile)
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// ReadManifest reads the manifest from a report directory.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return &m, nil
}
