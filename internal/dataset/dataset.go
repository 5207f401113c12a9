// Package dataset defines the collected track record, its CSV persistence,
// the post-collection cleaning pipeline and the advisory quality rules.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/HarmonLabs/titlescope/internal/utils"
)

// Track is one collected catalog item plus its title-derived features.
// (TrackName, ArtistName) is the uniqueness key within a run.
type Track struct {
	TrackName       string
	ArtistName      string
	Popularity      int
	DurationMS      int
	TitleLength     int
	WordCount       int
	HasDigits       bool
	HasSpecialChars bool
	Genre           string
	ReleaseYear     int

	// Derived categorical bins, populated by Clean.
	TitleLengthGroup string
	WordCountGroup   string
	PopularityGroup  string
	TitleFeatures    string

	// Incomplete marks rows whose critical fields were missing or
	// unparseable on load; the cleaning pipeline drops them.
	Incomplete bool
}

// Key returns the uniqueness key for a (title, artist) pair.
func (t Track) Key() string { return t.TrackName + "\x1f" + t.ArtistName }

// Header is the canonical CSV column order.
var Header = []string{
	"track_name", "artist_name", "popularity", "duration_ms",
	"title_length", "word_count", "has_numbers", "has_special_chars",
	"genre_category", "release_year",
	"title_length_group", "word_count_group", "popularity_category", "title_feature_group",
}

func (t Track) record() []string {
	return []string{
		t.TrackName, t.ArtistName,
		strconv.Itoa(t.Popularity), strconv.Itoa(t.DurationMS),
		strconv.Itoa(t.TitleLength), strconv.Itoa(t.WordCount),
		strconv.FormatBool(t.HasDigits), strconv.FormatBool(t.HasSpecialChars),
		t.Genre, strconv.Itoa(t.ReleaseYear),
		t.TitleLengthGroup, t.WordCountGroup, t.PopularityGroup, t.TitleFeatures,
	}
}

// ReadFile loads tracks from a CSV file. Columns are matched by header name,
// so files written before the derived-bin columns existed still load. Rows
// with missing or unparseable critical fields are kept but marked Incomplete;
// deciding their fate belongs to the cleaning pipeline, not the loader.
func ReadFile(path string) ([]Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	return readAll(f)
}

func readAll(r io.Reader) ([]Track, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	field := func(rec []string, name string) (string, bool) {
		i, ok := idx[name]
		if !ok || i >= len(rec) {
			return "", false
		}
		return strings.TrimSpace(rec[i]), true
	}

	var tracks []Track
	row := 0
	for {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", row+1, err)
		}
		row++
		var t Track
		t.TrackName, _ = field(rec, "track_name")
		t.ArtistName, _ = field(rec, "artist_name")
		t.Genre, _ = field(rec, "genre_category")
		if t.TrackName == "" || t.ArtistName == "" || t.Genre == "" {
			t.Incomplete = true
		}
		t.Popularity = parseIntField(rec, field, "popularity", &t.Incomplete)
		t.DurationMS = parseIntField(rec, field, "duration_ms", &t.Incomplete)

		// Non-critical: unparseable values default rather than invalidate.
		t.TitleLength = parseIntLenient(rec, field, "title_length")
		t.WordCount = parseIntLenient(rec, field, "word_count")
		t.HasDigits = parseBoolLenient(rec, field, "has_numbers")
		t.HasSpecialChars = parseBoolLenient(rec, field, "has_special_chars")
		t.ReleaseYear = parseIntLenient(rec, field, "release_year")

		t.TitleLengthGroup, _ = field(rec, "title_length_group")
		t.WordCountGroup, _ = field(rec, "word_count_group")
		t.PopularityGroup, _ = field(rec, "popularity_category")
		t.TitleFeatures, _ = field(rec, "title_feature_group")
		tracks = append(tracks, t)
	}
	return tracks, nil
}

type fieldFn func(rec []string, name string) (string, bool)

func parseIntField(rec []string, field fieldFn, name string, incomplete *bool) int {
	v, ok := field(rec, name)
	if !ok || v == "" {
		*incomplete = true
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		// Python writers emit integers as "61.0" after numeric coercion.
		if f, ferr := strconv.ParseFloat(v, 64); ferr == nil {
			return int(f)
		}
		*incomplete = true
		return 0
	}
	return n
}

func parseIntLenient(rec []string, field fieldFn, name string) int {
	v, ok := field(rec, name)
	if !ok || v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}

func parseBoolLenient(rec []string, field fieldFn, name string) bool {
	v, ok := field(rec, name)
	if !ok || v == "" {
		return false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false
	}
	return b
}

// WriteFile writes tracks as CSV, atomically replacing any existing file.
func WriteFile(path string, tracks []Track) error {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	if err := w.Write(Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, t := range tracks {
		if err := w.Write(t.record()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return utils.SafeWriteFile(path, []byte(sb.String()))
}

// AppendFile appends tracks to an existing CSV checkpoint, creating it (with
// a header) on first use. Append-only by design: a crash mid-run must never
// truncate cohorts already flushed.
func AppendFile(path string, tracks []Track) error {
	if len(tracks) == 0 {
		return nil
	}
	// A zero-byte file still needs its header, or the first data row would
	// later be consumed as one.
	writeHeader := true
	if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
		writeHeader = false
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open checkpoint: %w", err)
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write(Header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	for _, t := range tracks {
		if err := w.Write(t.record()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush checkpoint: %w", err)
	}
	return nil
}

// List returns dataset CSV files in dir matching the final-dataset naming
// convention, sorted by name (timestamps make that chronological).
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, "spotify") && strings.HasSuffix(name, ".csv") {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Strings(out)
	return out, nil
}
