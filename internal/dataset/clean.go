package dataset

// Clipping ranges for numeric fields. Out-of-range values are clamped, never
// dropped.
const (
	MaxPopularity  = 100
	MaxDurationMS  = 3_600_000
	MaxTitleLength = 200
	MaxWordCount   = 50
)

// CleanReport summarizes what the cleaning pipeline did.
type CleanReport struct {
	InputRows      int
	DroppedMissing int
	DroppedDupes   int
	Clipped        int
	OutputRows     int
}

// Clean applies the deterministic cleaning sequence: drop rows missing
// critical fields, drop duplicate (title, artist) pairs, clip numeric fields
// to their valid ranges and derive the categorical bins. Missing feature
// flags were already defaulted to false on load. Applying Clean to its own
// output is a no-op beyond the report counters.
func Clean(tracks []Track) ([]Track, CleanReport) {
	rep := CleanReport{InputRows: len(tracks)}
	seen := make(map[string]struct{}, len(tracks))
	out := make([]Track, 0, len(tracks))

	for _, t := range tracks {
		if t.Incomplete || t.TrackName == "" || t.ArtistName == "" || t.Genre == "" {
			rep.DroppedMissing++
			continue
		}
		if _, dup := seen[t.Key()]; dup {
			rep.DroppedDupes++
			continue
		}
		seen[t.Key()] = struct{}{}

		clipped := false
		t.Popularity = clip(t.Popularity, 0, MaxPopularity, &clipped)
		t.DurationMS = clip(t.DurationMS, 0, MaxDurationMS, &clipped)
		t.TitleLength = clip(t.TitleLength, 0, MaxTitleLength, &clipped)
		t.WordCount = clip(t.WordCount, 0, MaxWordCount, &clipped)
		if clipped {
			rep.Clipped++
		}

		t.TitleLengthGroup = TitleLengthBucket(t.TitleLength)
		t.WordCountGroup = WordCountBucket(t.WordCount)
		t.PopularityGroup = PopularityBucket(t.Popularity)
		t.TitleFeatures = FeatureLabel(t.HasDigits, t.HasSpecialChars)
		out = append(out, t)
	}
	rep.OutputRows = len(out)
	return out, rep
}

func clip(v, lo, hi int, clipped *bool) int {
	if v < lo {
		*clipped = true
		return lo
	}
	if v > hi {
		*clipped = true
		return hi
	}
	return v
}

// TitleLengthBucket assigns a title length to one of four fixed bins.
func TitleLengthBucket(n int) string {
	switch {
	case n <= 20:
		return "Very Short (0-20)"
	case n <= 40:
		return "Short (21-40)"
	case n <= 60:
		return "Medium (41-60)"
	default:
		return "Long (60+)"
	}
}

// WordCountBucket assigns a word count to one of three fixed bins.
func WordCountBucket(n int) string {
	switch {
	case n <= 2:
		return "Short (1-2 words)"
	case n <= 4:
		return "Medium (3-4 words)"
	default:
		return "Long (5+ words)"
	}
}

// PopularityBucket assigns a popularity score to one of five fixed bins.
func PopularityBucket(n int) string {
	switch {
	case n <= 20:
		return "Very Low (0-20)"
	case n <= 40:
		return "Low (21-40)"
	case n <= 60:
		return "Medium (41-60)"
	case n <= 80:
		return "High (61-80)"
	default:
		return "Very High (81-100)"
	}
}

// FeatureLabel combines the digit and special-char flags into one label.
func FeatureLabel(hasDigits, hasSpecial bool) string {
	d := "No Numbers"
	if hasDigits {
		d = "Has Numbers"
	}
	s := "No Special Chars"
	if hasSpecial {
		s = "Has Special Chars"
	}
	return d + ", " + s
}
