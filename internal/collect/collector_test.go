package collect_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/HarmonLabs/titlescope/internal/collect"
	"github.com/HarmonLabs/titlescope/internal/dataset"
	"github.com/HarmonLabs/titlescope/internal/spotify"
)

// fakeSearcher serves synthetic catalog pages. Tracks are generated per
// query string so different variants yield different items unless the
// generator says otherwise.
type fakeSearcher struct {
	// perQuery caps how many items a single query string can ever return;
	// 0 means unlimited (up to one page per offset 0, empty after).
	perQuery int
	// pool caps the distinct items available per year across all queries.
	pool int
	// failQueries maps query substrings to errors.
	failQueries map[string]error

	calls int
}

func queryYear(query string) int {
	for _, f := range strings.Fields(query) {
		if strings.HasPrefix(f, "year:") {
			y, _ := strconv.Atoi(strings.TrimPrefix(f, "year:"))
			return y
		}
	}
	return 0
}

func (f *fakeSearcher) Search(_ context.Context, query string, limit, offset int) (*spotify.SearchPage, error) {
	f.calls++
	for sub, err := range f.failQueries {
		if strings.Contains(query, sub) {
			return nil, err
		}
	}
	if offset > 0 {
		return &spotify.SearchPage{}, nil
	}
	year := queryYear(query)
	n := limit
	if f.perQuery < 0 {
		n = 0
	} else if f.perQuery > 0 && n > f.perQuery {
		n = f.perQuery
	}
	page := &spotify.SearchPage{}
	for i := 0; i < n; i++ {
		var name string
		if f.pool > 0 {
			// Shared pool: every query yields the same items, so the run
			// can never see more than pool distinct keys per year.
			name = fmt.Sprintf("Track %d of %d", i%f.pool, year)
		} else {
			name = fmt.Sprintf("Track %d %s", i, query)
		}
		page.Tracks = append(page.Tracks, spotify.Track{
			Name:       name,
			Artists:    []spotify.Artist{{Name: "Artist " + strconv.Itoa(year)}},
			Popularity: 50,
			DurationMS: 200000,
			Album:      spotify.Album{ReleaseDate: fmt.Sprintf("%d-06-01", year)},
		})
	}
	return page, nil
}

func testConfig(t *testing.T, perYear int) collect.RunConfig {
	t.Helper()
	cfg, err := collect.NewRunConfigForTarget(perYear * 5)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	cfg.Genres = []string{"pop", "rock"}
	cfg.Years = []int{2024, 2023}
	cfg.PageDelay = 0
	return cfg
}

func TestRunSatisfiesAllCells(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, 4)
	c := collect.New(&fakeSearcher{}, cfg, collect.WithOutput(io.Discard))

	tracks, sum, err := c.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	want := cfg.TracksPerYear * len(cfg.Genres) * len(cfg.Years)
	if len(tracks) != want {
		t.Fatalf("collected %d tracks, want %d", len(tracks), want)
	}
	for _, cell := range sum.Cells {
		if cell.Status != collect.StateSatisfied {
			t.Errorf("cell %s/%d status %q, want satisfied", cell.Genre, cell.Year, cell.Status)
		}
	}
	keys := map[string]struct{}{}
	for _, tr := range tracks {
		if _, dup := keys[tr.Key()]; dup {
			t.Fatalf("duplicate key %q in run output", tr.Key())
		}
		keys[tr.Key()] = struct{}{}
		if tr.TitleLength < 1 || tr.WordCount < 1 {
			t.Errorf("features not populated: %+v", tr)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "pop.csv")); err != nil {
		t.Errorf("missing pop cohort checkpoint: %v", err)
	}
	m, err := collect.LoadManifest(dir)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if m.RunID != sum.RunID {
		t.Errorf("manifest run id %q != summary %q", m.RunID, sum.RunID)
	}
	if len(m.Cells) != len(cfg.Genres)*len(cfg.Years) {
		t.Errorf("manifest records %d cells, want %d", len(m.Cells), len(cfg.Genres)*len(cfg.Years))
	}
}

func TestRunKeepsPartialOnExhaustion(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, 5)
	// Only 3 distinct items exist per year; the cell must end exhausted
	// with those 3 kept, not raise an error.
	c := collect.New(&fakeSearcher{pool: 3}, cfg, collect.WithOutput(io.Discard))

	tracks, sum, err := c.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(sum.Shortfalls) == 0 {
		t.Fatalf("expected shortfalls, got none")
	}
	first := sum.Cells[0]
	if first.Status != collect.StateExhausted || first.Collected != 3 {
		t.Fatalf("first cell %+v, want exhausted with 3", first)
	}
	if len(tracks) == 0 {
		t.Fatalf("partial results must be kept")
	}
}

func TestRunFailureWhenNothingCollected(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, 2)
	c := collect.New(&fakeSearcher{perQuery: -1}, cfg, collect.WithOutput(io.Discard))

	_, _, err := c.Run(context.Background(), dir)
	var rf *collect.RunFailure
	if !errors.As(err, &rf) {
		t.Fatalf("expected RunFailure, got %v", err)
	}
	if rf.RunDir != dir {
		t.Errorf("RunFailure dir = %q, want %q", rf.RunDir, dir)
	}
}

// mixedSearcher returns one page containing disqualified candidates along
// with good ones.
type mixedSearcher struct{}

func (mixedSearcher) Search(_ context.Context, query string, limit, offset int) (*spotify.SearchPage, error) {
	if offset > 0 {
		return &spotify.SearchPage{}, nil
	}
	year := queryYear(query)
	mk := func(name string, pop, y int) spotify.Track {
		return spotify.Track{
			Name:       name,
			Artists:    []spotify.Artist{{Name: "Someone"}},
			Popularity: pop,
			DurationMS: 180000,
			Album:      spotify.Album{ReleaseDate: fmt.Sprintf("%d-01-01", y)},
		}
	}
	return &spotify.SearchPage{Tracks: []spotify.Track{
		mk("Wrong Year", 90, year-1),
		mk("Too Obscure", 5, year),
		mk("Keeper", 40, year),
		mk("No Date", 40, 0),
	}}, nil
}

func TestRunDiscardsUnverifiedMetadata(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, 1)
	cfg.Genres = []string{"pop"}
	cfg.Years = []int{2023}
	c := collect.New(mixedSearcher{}, cfg, collect.WithOutput(io.Discard))

	tracks, _, err := c.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(tracks) != 1 || tracks[0].TrackName != "Keeper" {
		t.Fatalf("expected only the qualifying track, got %+v", tracks)
	}
	if tracks[0].ReleaseYear != 2023 {
		t.Errorf("release year = %d, want verified 2023", tracks[0].ReleaseYear)
	}
}

func TestTransientErrorsAbandonQueryNotRun(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, 2)
	cfg.Genres = []string{"pop"}
	cfg.Years = []int{2024}
	fake := &fakeSearcher{failQueries: map[string]error{
		"genre:pop": &spotify.ServerError{APIError: &spotify.APIError{StatusCode: 503}},
	}}
	c := collect.New(fake, cfg, collect.WithOutput(io.Discard))

	tracks, sum, err := c.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("transient errors must not fail the run: %v", err)
	}
	if len(tracks) == 0 || sum.Cells[0].Status != collect.StateSatisfied {
		t.Fatalf("expected the run to recover via other variants: %+v", sum.Cells)
	}
}

func TestAuthFailureAbortsRunImmediately(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, 2)
	// Every query fails authentication; retrying other variants with the
	// same credentials cannot succeed, so the run must stop at once.
	fake := &fakeSearcher{failQueries: map[string]error{
		"": &spotify.AuthError{APIError: &spotify.APIError{StatusCode: 401, Message: "invalid client"}},
	}}
	c := collect.New(fake, cfg, collect.WithOutput(io.Discard))

	_, _, err := c.Run(context.Background(), dir)
	var auth *spotify.AuthError
	if !errors.As(err, &auth) {
		t.Fatalf("expected AuthError to surface, got %v", err)
	}
	var rf *collect.RunFailure
	if errors.As(err, &rf) {
		t.Fatalf("auth failure must not be reported as a generic run failure")
	}
	if fake.calls != 1 {
		t.Fatalf("expected the run to abort after 1 search call, made %d", fake.calls)
	}
}

// popOnlySearcher yields results only for pop queries, so every other
// genre's cells resolve empty.
type popOnlySearcher struct{}

func (popOnlySearcher) Search(_ context.Context, query string, limit, offset int) (*spotify.SearchPage, error) {
	if offset > 0 || !strings.Contains(query, "pop") {
		return &spotify.SearchPage{}, nil
	}
	year := queryYear(query)
	page := &spotify.SearchPage{}
	for i := 0; i < limit; i++ {
		page.Tracks = append(page.Tracks, spotify.Track{
			Name:       fmt.Sprintf("Track %d %s", i, query),
			Artists:    []spotify.Artist{{Name: "Artist"}},
			Popularity: 50,
			DurationMS: 200000,
			Album:      spotify.Album{ReleaseDate: fmt.Sprintf("%d-06-01", year)},
		})
	}
	return page, nil
}

func TestEmptyCellsLeaveNoManifestEntry(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, 2)
	c := collect.New(popOnlySearcher{}, cfg, collect.WithOutput(io.Discard))

	if _, _, err := c.Run(context.Background(), dir); err != nil {
		t.Fatalf("run: %v", err)
	}
	m, err := collect.LoadManifest(dir)
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if len(m.CohortFiles) != 1 || m.CohortFiles[0] != "pop.csv" {
		t.Fatalf("manifest must list only cohorts with rows, got %v", m.CohortFiles)
	}
	if _, err := os.Stat(filepath.Join(dir, "rock.csv")); !os.IsNotExist(err) {
		t.Fatalf("empty cell must not create a checkpoint file: %v", err)
	}
	_, rep, err := collect.Recover(dir, io.Discard)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if len(rep.FilesSkipped) != 0 {
		t.Fatalf("recovery chased phantom checkpoints: %v", rep.FilesSkipped)
	}
}

// blankTitleSearcher offers a whitespace-only title ahead of a real one.
type blankTitleSearcher struct{}

func (blankTitleSearcher) Search(_ context.Context, query string, limit, offset int) (*spotify.SearchPage, error) {
	if offset > 0 {
		return &spotify.SearchPage{}, nil
	}
	year := queryYear(query)
	mk := func(name string) spotify.Track {
		return spotify.Track{
			Name:       name,
			Artists:    []spotify.Artist{{Name: "Someone"}},
			Popularity: 60,
			DurationMS: 180000,
			Album:      spotify.Album{ReleaseDate: fmt.Sprintf("%d-01-01", year)},
		}
	}
	return &spotify.SearchPage{Tracks: []spotify.Track{mk("   "), mk("Real Title")}}, nil
}

func TestWhitespaceOnlyTitlesRejected(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, 1)
	cfg.Genres = []string{"pop"}
	cfg.Years = []int{2023}
	c := collect.New(blankTitleSearcher{}, cfg, collect.WithOutput(io.Discard))

	tracks, _, err := c.Run(context.Background(), dir)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(tracks) != 1 || tracks[0].TrackName != "Real Title" {
		t.Fatalf("expected only the titled track, got %+v", tracks)
	}
	if tracks[0].WordCount < 1 {
		t.Errorf("word count must be at least 1, got %d", tracks[0].WordCount)
	}
}

func TestRecoverConsolidatesAndDeduplicates(t *testing.T) {
	dir := t.TempDir()
	mk := func(name, artist, genre string) dataset.Track {
		return dataset.Track{
			TrackName: name, ArtistName: artist, Popularity: 40, DurationMS: 1000,
			TitleLength: len(name), WordCount: 1, Genre: genre, ReleaseYear: 2023,
		}
	}
	popTracks := []dataset.Track{mk("One", "A", "pop"), mk("Two", "B", "pop")}
	rockTracks := []dataset.Track{mk("Two", "B", "rock"), mk("Three", "C", "rock")}
	if err := dataset.WriteFile(filepath.Join(dir, "pop.csv"), popTracks); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := dataset.WriteFile(filepath.Join(dir, "rock.csv"), rockTracks); err != nil {
		t.Fatalf("write: %v", err)
	}
	// A file that cannot be parsed must be skipped, not fatal.
	if err := os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("a,b\n\"unterminated\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	tracks, rep, err := collect.Recover(dir, io.Discard)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if rep.FilesLoaded != 2 || len(rep.FilesSkipped) != 1 {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if rep.Duplicates != 1 || len(tracks) != 3 {
		t.Fatalf("expected 3 unique tracks with 1 duplicate dropped, got %d/%d", len(tracks), rep.Duplicates)
	}
	// First occurrence wins: "Two"/"B" keeps the pop label.
	for _, tr := range tracks {
		if tr.TrackName == "Two" && tr.Genre != "pop" {
			t.Errorf("first occurrence should win, got genre %q", tr.Genre)
		}
	}
}

func TestRecoverIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	tracks := []dataset.Track{
		{TrackName: "One", ArtistName: "A", Popularity: 30, DurationMS: 100, TitleLength: 3, WordCount: 1, Genre: "jazz", ReleaseYear: 2022},
		{TrackName: "Two", ArtistName: "B", Popularity: 30, DurationMS: 100, TitleLength: 3, WordCount: 1, Genre: "jazz", ReleaseYear: 2022},
	}
	if err := dataset.WriteFile(filepath.Join(dir, "jazz.csv"), tracks); err != nil {
		t.Fatalf("write: %v", err)
	}
	first, _, err := collect.Recover(dir, io.Discard)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	second, _, err := collect.Recover(dir, io.Discard)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	keysOf := func(ts []dataset.Track) []string {
		var out []string
		for _, t := range ts {
			out = append(out, t.Key())
		}
		sort.Strings(out)
		return out
	}
	if len(first) != len(second) || !reflect.DeepEqual(keysOf(first), keysOf(second)) {
		t.Fatalf("recovery not idempotent: %d vs %d rows", len(first), len(second))
	}
}

func TestRecoverFailsWithNoCheckpoints(t *testing.T) {
	dir := t.TempDir()
	_, _, err := collect.Recover(dir, io.Discard)
	var re *collect.RecoveryError
	if !errors.As(err, &re) {
		t.Fatalf("expected RecoveryError, got %v", err)
	}
}

func TestRecoverUsesManifestFileList(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, 2)
	cfg.Genres = []string{"metal"}
	cfg.Years = []int{2024}
	c := collect.New(&fakeSearcher{}, cfg, collect.WithOutput(io.Discard))
	if _, _, err := c.Run(context.Background(), dir); err != nil {
		t.Fatalf("run: %v", err)
	}
	// A stray CSV not listed in the manifest is ignored.
	stray := []dataset.Track{{TrackName: "Stray", ArtistName: "X", Popularity: 30, DurationMS: 1, TitleLength: 5, WordCount: 1, Genre: "pop", ReleaseYear: 2024}}
	if err := dataset.WriteFile(filepath.Join(dir, "stray.csv"), stray); err != nil {
		t.Fatalf("write: %v", err)
	}
	tracks, rep, err := collect.Recover(dir, io.Discard)
	if err != nil {
		t.Fatalf("recover: %v", err)
	}
	if rep.RunID == "" {
		t.Errorf("expected run id from manifest")
	}
	for _, tr := range tracks {
		if tr.TrackName == "Stray" {
			t.Fatalf("manifest-driven recovery must ignore unlisted files")
		}
	}
}

func TestRunConfigSizes(t *testing.T) {
	cases := []struct {
		size    string
		target  int
		perYear int
	}{
		{"test", 100, 20},
		{"medium", 250, 50},
		{"full", 4000, 800},
		{"mega", 6000, 1200},
	}
	for _, c := range cases {
		cfg, err := collect.NewRunConfig(c.size)
		if err != nil {
			t.Fatalf("%s: %v", c.size, err)
		}
		if cfg.TargetPerGenre != c.target || cfg.TracksPerYear != c.perYear {
			t.Errorf("%s: got target=%d perYear=%d, want %d/%d", c.size, cfg.TargetPerGenre, cfg.TracksPerYear, c.target, c.perYear)
		}
	}
	if _, err := collect.NewRunConfig("gigantic"); err == nil {
		t.Errorf("expected error for unknown size")
	}
	cfg, err := collect.NewRunConfigForTarget(10)
	if err != nil {
		t.Fatalf("target config: %v", err)
	}
	if cfg.TracksPerYear != 2 {
		t.Errorf("target 10 over 5 years should give 2 per year, got %d", cfg.TracksPerYear)
	}
	cfg, err = collect.NewRunConfigForTarget(3)
	if err != nil {
		t.Fatalf("target config: %v", err)
	}
	if cfg.TracksPerYear != 1 {
		t.Errorf("per-year target floors at 1, got %d", cfg.TracksPerYear)
	}
}
