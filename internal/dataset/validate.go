package dataset

import "fmt"

// Violation reports one failed quality rule. Violations are advisory: the
// data is reported on, never mutated or discarded.
type Violation struct {
	Rule   string
	Column string
	Count  int
}

func (v Violation) String() string {
	return fmt.Sprintf("%s (column %s): %d offending rows", v.Rule, v.Column, v.Count)
}

// Validate checks the declared quality rules against a dataset and returns
// every violated rule. An empty slice means the dataset passes.
func Validate(tracks []Track) []Violation {
	var (
		nullTitle, nullArtist, nullGenre int
		popRange, titleRange, wordRange  int
		durRange                         int
		dupes                            int
	)
	seen := make(map[string]struct{}, len(tracks))
	for _, t := range tracks {
		if t.TrackName == "" {
			nullTitle++
		}
		if t.ArtistName == "" {
			nullArtist++
		}
		if t.Genre == "" {
			nullGenre++
		}
		if t.Popularity < 0 || t.Popularity > MaxPopularity {
			popRange++
		}
		if t.TitleLength < 1 || t.TitleLength > MaxTitleLength {
			titleRange++
		}
		if t.WordCount < 1 || t.WordCount > MaxWordCount {
			wordRange++
		}
		if t.DurationMS < 0 {
			durRange++
		}
		if _, dup := seen[t.Key()]; dup {
			dupes++
		}
		seen[t.Key()] = struct{}{}
	}

	var out []Violation
	add := func(rule, column string, count int) {
		if count > 0 {
			out = append(out, Violation{Rule: rule, Column: column, Count: count})
		}
	}
	add("values must not be null", "track_name", nullTitle)
	add("values must not be null", "artist_name", nullArtist)
	add("values must not be null", "genre_category", nullGenre)
	add("values must be between 0 and 100", "popularity", popRange)
	add("values must be between 1 and 200", "title_length", titleRange)
	add("values must be between 1 and 50", "word_count", wordRange)
	add("values must be non-negative", "duration_ms", durRange)
	add("compound key must be unique", "track_name, artist_name", dupes)
	return out
}
