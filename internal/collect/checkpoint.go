package collect

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/HarmonLabs/titlescope/internal/utils"
)

// ManifestName is the run manifest file inside a checkpoint directory.
const ManifestName = "manifest.yaml"

// CellStatus records the resolution of one (genre, year) cell.
type CellStatus struct {
	Genre     string `yaml:"genre"`
	Year      int    `yaml:"year"`
	Status    string `yaml:"status"`
	Collected int    `yaml:"collected"`
	Target    int    `yaml:"target"`
}

// Manifest makes recovery deterministic: one run identifier, the explicit
// cohort file list and the status of every resolved cell, instead of
// filename pattern-matching.
type Manifest struct {
	RunID          string       `yaml:"run_id"`
	CreatedAt      time.Time    `yaml:"created_at"`
	Mode           string       `yaml:"mode"`
	TargetPerGenre int          `yaml:"target_per_genre"`
	TracksPerYear  int          `yaml:"tracks_per_year"`
	CohortFiles    []string     `yaml:"cohort_files"`
	Cells          []CellStatus `yaml:"cells"`
}

// NewManifest creates a manifest for a fresh run.
func NewManifest(cfg RunConfig) *Manifest {
	return &Manifest{
		RunID:          uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
		Mode:           cfg.Mode,
		TargetPerGenre: cfg.TargetPerGenre,
		TracksPerYear:  cfg.TracksPerYear,
	}
}

// RecordCell appends a resolved cell and registers its cohort file. An empty
// cohortFile records only the cell status: cells that contributed no rows
// have no checkpoint on disk.
func (m *Manifest) RecordCell(cell CellStatus, cohortFile string) {
	m.Cells = append(m.Cells, cell)
	if cohortFile == "" {
		return
	}
	for _, f := range m.CohortFiles {
		if f == cohortFile {
			return
		}
	}
	m.CohortFiles = append(m.CohortFiles, cohortFile)
}

// Save writes the manifest atomically into dir.
func (m *Manifest) Save(dir string) error {
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return utils.SafeWriteFile(filepath.Join(dir, ManifestName), b)
}

// LoadManifest reads the manifest from a checkpoint directory.
func LoadManifest(dir string) (*Manifest, error) {
	b, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// NewCheckpointDir creates a fresh checkpoint directory under dataDir.
func NewCheckpointDir(dataDir string) (string, error) {
	dir := filepath.Join(dataDir, "temp_collection_"+time.Now().Format("20060102_150405"))
	if err := utils.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("create checkpoint dir: %w", err)
	}
	return dir, nil
}

// ListCheckpointDirs returns checkpoint directories under dataDir, oldest first.
func ListCheckpointDirs(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), "temp_collection_") {
			out = append(out, filepath.Join(dataDir, e.Name()))
		}
	}
	return out, nil
}

// cohortFileName maps a genre to its checkpoint file name. Genres may carry
// characters that are awkward in file names ("r&b").
func cohortFileName(genre string) string {
	var sb strings.Builder
	for _, r := range genre {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	return sb.String() + ".csv"
}
