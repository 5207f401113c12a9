// Package collect implements the balanced multi-dimensional sampling
// collector: it fills a (genre × year) grid of cohorts from paginated search
// queries, checkpointing each cohort to disk so an interrupted run loses no
// completed cell.
package collect

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HarmonLabs/titlescope/internal/catalog"
	"github.com/HarmonLabs/titlescope/internal/dataset"
	"github.com/HarmonLabs/titlescope/internal/feature"
	"github.com/HarmonLabs/titlescope/internal/spotify"
)

// Cell states. A cell is PENDING until the run loop reaches it, COLLECTING
// while queries are in flight, then SATISFIED or EXHAUSTED.
const (
	StatePending    = "pending"
	StateCollecting = "collecting"
	StateSatisfied  = "satisfied"
	StateExhausted  = "exhausted"
)

// Searcher is the slice of the search API the collector needs. The concrete
// client lives in internal/spotify; tests substitute a fake.
type Searcher interface {
	Search(ctx context.Context, query string, limit, offset int) (*spotify.SearchPage, error)
}

// Summary reports the outcome of one collection run.
type Summary struct {
	RunID      string
	Total      int
	Cells      []CellStatus
	Shortfalls []CellStatus
	ByGenre    map[string]int
	ByYear     map[int]int
}

// Collector drives one balanced collection run. Sequential by design: one
// cell, one query, one page at a time, so upstream rate-limit usage stays
// bounded and predictable.
type Collector struct {
	src Searcher
	cfg RunConfig
	out io.Writer
}

// Option configures a Collector.
type Option func(*Collector)

// WithOutput redirects progress output (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(c *Collector) { c.out = w }
}

// New builds a collector over a search source with an immutable run config.
func New(src Searcher, cfg RunConfig, opts ...Option) *Collector {
	c := &Collector{src: src, cfg: cfg, out: os.Stdout}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Run executes the full (genre × year) grid in fixed category-major,
// year-minor order, checkpointing each resolved cell into checkpointDir.
// Per-cell shortfalls are soft failures recorded in the summary. A
// non-transient search error (bad credentials) aborts the run immediately
// with the typed error; completed checkpoints stay recoverable. Otherwise
// the only fatal condition is a run with zero records overall.
func (c *Collector) Run(ctx context.Context, checkpointDir string) ([]dataset.Track, *Summary, error) {
	manifest := NewManifest(c.cfg)
	if err := manifest.Save(checkpointDir); err != nil {
		return nil, nil, err
	}

	sum := &Summary{
		RunID:   manifest.RunID,
		ByGenre: make(map[string]int),
		ByYear:  make(map[int]int),
	}
	seen := make(map[string]struct{})
	var all []dataset.Track

	for _, genre := range c.cfg.Genres {
		fmt.Fprintf(c.out, "\nCollecting %s tracks (target %d, %d per year)...\n", genre, c.cfg.TargetPerGenre, c.cfg.TracksPerYear)
		for _, year := range c.cfg.Years {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			cell, err := c.collectCell(ctx, genre, year, seen)
			if err != nil {
				return nil, nil, fmt.Errorf("collect %s/%d: %w", genre, year, err)
			}
			// Empty cells write no file; registering one would make recovery
			// chase a checkpoint that never existed.
			cohortFile := ""
			if len(cell.tracks) > 0 {
				cohortFile = cohortFileName(genre)
				if err := dataset.AppendFile(filepath.Join(checkpointDir, cohortFile), cell.tracks); err != nil {
					return nil, nil, fmt.Errorf("checkpoint %s/%d: %w", genre, year, err)
				}
			}
			manifest.RecordCell(cell.status, cohortFile)
			if err := manifest.Save(checkpointDir); err != nil {
				return nil, nil, err
			}

			sum.Cells = append(sum.Cells, cell.status)
			if cell.status.Status == StateExhausted {
				sum.Shortfalls = append(sum.Shortfalls, cell.status)
				fmt.Fprintf(c.out, "  ⚠ %d: exhausted with %d/%d tracks\n", year, cell.status.Collected, cell.status.Target)
			} else {
				fmt.Fprintf(c.out, "  ✓ %d: collected %d tracks\n", year, cell.status.Collected)
			}
			all = append(all, cell.tracks...)
			sum.ByGenre[genre] += len(cell.tracks)
			sum.ByYear[year] += len(cell.tracks)
		}
		fmt.Fprintf(c.out, "Final count for %s: %d tracks\n", genre, sum.ByGenre[genre])
	}

	sum.Total = len(all)
	if sum.Total == 0 {
		return nil, nil, &RunFailure{RunDir: checkpointDir}
	}
	return all, sum, nil
}

type cellResult struct {
	tracks []dataset.Track
	status CellStatus
}

// collectCell resolves one (genre, year) cell: round-robin through the
// genre's query variants, each tried with two formulations, until the
// per-year target is reached or the attempt budget is exhausted. Only
// non-transient errors propagate.
func (c *Collector) collectCell(ctx context.Context, genre string, year int, seen map[string]struct{}) (cellResult, error) {
	variants := catalog.Variants(genre)
	target := c.cfg.TracksPerYear
	status := CellStatus{Genre: genre, Year: year, Status: StateCollecting, Target: target}

	var tracks []dataset.Track
	maxAttempts := len(variants) * c.cfg.AttemptMultiplier
	attempts := 0
	for queryIndex := 0; len(tracks) < target && attempts < maxAttempts; queryIndex++ {
		variant := variants[queryIndex%len(variants)]
		queries := []string{
			fmt.Sprintf("year:%d %s", year, variant),
			fmt.Sprintf("year:%d genre:%s", year, genre),
		}
		for _, q := range queries {
			if len(tracks) >= target || ctx.Err() != nil {
				break
			}
			found, err := c.searchQuery(ctx, q, genre, year, target, &tracks, seen)
			if err != nil {
				return cellResult{}, err
			}
			if found > 0 {
				fmt.Fprintf(c.out, "    %q: +%d tracks (total %d)\n", q, found, len(tracks))
			}
		}
		attempts++
	}

	status.Collected = len(tracks)
	if len(tracks) >= target {
		status.Status = StateSatisfied
	} else {
		status.Status = StateExhausted
	}
	return cellResult{tracks: tracks, status: status}, nil
}

// searchQuery paginates one query string, appending qualifying items to the
// cell accumulator, and returns how many new items it contributed. Transient
// errors abandon the query string and the caller moves on to the next
// variant; a non-transient error (auth failure) is returned as-is, since no
// other variant can succeed with the same credentials.
func (c *Collector) searchQuery(ctx context.Context, query, genre string, targetYear, target int, tracks *[]dataset.Track, seen map[string]struct{}) (int, error) {
	before := len(*tracks)
	offset := 0
	for len(*tracks) < target && offset < c.cfg.MaxOffset {
		page, err := c.src.Search(ctx, query, spotify.PageSize, offset)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			if !spotify.IsTransient(err) {
				return len(*tracks) - before, err
			}
			fmt.Fprintf(c.out, "    ✗ %q at offset %d: %v\n", query, offset, err)
			break
		}
		if len(page.Tracks) == 0 {
			break
		}
		for _, item := range page.Tracks {
			if len(*tracks) >= target {
				break
			}
			t, ok := c.qualify(item, genre, targetYear, seen)
			if !ok {
				continue
			}
			seen[t.Key()] = struct{}{}
			*tracks = append(*tracks, t)
		}
		offset += len(page.Tracks)
		c.pause(ctx)
	}
	return len(*tracks) - before, nil
}

// qualify applies the admission rules to one candidate: de-duplication
// against the whole run, the popularity floor, and release-year verification
// against the item's own metadata (the query's year filter is a hint, not a
// guarantee). Titles must carry at least one word; a whitespace-only title
// would produce a zero word count.
func (c *Collector) qualify(item spotify.Track, genre string, targetYear int, seen map[string]struct{}) (dataset.Track, bool) {
	name := item.Name
	artist := item.PrimaryArtist()
	if len(strings.Fields(name)) == 0 || artist == "" {
		return dataset.Track{}, false
	}
	t := dataset.Track{TrackName: name, ArtistName: artist}
	if _, dup := seen[t.Key()]; dup {
		return dataset.Track{}, false
	}
	if item.Popularity < c.cfg.PopularityFloor {
		return dataset.Track{}, false
	}
	if item.ReleaseYear() != targetYear {
		return dataset.Track{}, false
	}
	f := feature.Extract(name)
	t.Popularity = item.Popularity
	t.DurationMS = item.DurationMS
	t.TitleLength = f.Length
	t.WordCount = f.WordCount
	t.HasDigits = f.HasDigit
	t.HasSpecialChars = f.HasSpecialChar
	t.Genre = genre
	t.ReleaseYear = targetYear
	return t, true
}

// pause applies the fixed inter-page delay, waking early on cancellation.
func (c *Collector) pause(ctx context.Context) {
	if c.cfg.PageDelay <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(c.cfg.PageDelay):
	}
}
