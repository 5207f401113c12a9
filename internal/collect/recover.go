package collect

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/HarmonLabs/titlescope/internal/dataset"
)

// RecoveryReport describes what a recovery pass found.
type RecoveryReport struct {
	RunID        string
	FilesLoaded  int
	FilesSkipped []string
	Duplicates   int
	Total        int
}

// Recover reconstructs a consolidated dataset from the cohort checkpoints of
// an interrupted run. The manifest's explicit file list is used when present;
// a run that crashed before writing one falls back to scanning the directory.
// Unreadable files are skipped and reported, not fatal; duplicates across
// files are dropped, first occurrence wins. Recovery is idempotent.
func Recover(dir string, out io.Writer) ([]dataset.Track, *RecoveryReport, error) {
	rep := &RecoveryReport{}

	var files []string
	if m, err := LoadManifest(dir); err == nil {
		rep.RunID = m.RunID
		for _, f := range m.CohortFiles {
			files = append(files, filepath.Join(dir, f))
		}
	}
	if len(files) == 0 {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("read checkpoint dir: %w", err)
		}
		for _, e := range entries {
			if !e.IsDir() && strings.HasSuffix(e.Name(), ".csv") {
				files = append(files, filepath.Join(dir, e.Name()))
			}
		}
		sort.Strings(files)
	}

	seen := make(map[string]struct{})
	var all []dataset.Track
	for _, f := range files {
		tracks, err := dataset.ReadFile(f)
		if err != nil {
			rep.FilesSkipped = append(rep.FilesSkipped, filepath.Base(f))
			fmt.Fprintf(out, "⚠ skipping unreadable checkpoint %s: %v\n", filepath.Base(f), err)
			continue
		}
		rep.FilesLoaded++
		for _, t := range tracks {
			if _, dup := seen[t.Key()]; dup {
				rep.Duplicates++
				continue
			}
			seen[t.Key()] = struct{}{}
			all = append(all, t)
		}
	}
	if rep.FilesLoaded == 0 {
		return nil, nil, &RecoveryError{Dir: dir}
	}
	rep.Total = len(all)
	return all, rep, nil
}
