package dataset

import (
	"fmt"
	"sort"

	mstats "github.com/montanaflynn/stats"
)

// Bias-correction strategies applied after exploratory review of a cleaned
// dataset. Artist skew is the dominant sampling bias: a handful of prolific
// artists can dominate a genre's cohort and drag the popularity statistics
// toward their house style.
const (
	StrategyAuto           = "auto"
	StrategyArtistLimit    = "artist_limit"
	StrategyStratified     = "stratified"
	StrategyRemoveOutliers = "remove_outliers"
)

// DefaultArtistLimit caps how many tracks a single artist may contribute
// under the artist-limit strategy.
const DefaultArtistLimit = 5

// BiasReport summarizes what a bias-correction pass did. GroupsAffected
// counts the artists (or genres, for the stratified strategy) that were
// capped or removed.
type BiasReport struct {
	Strategy       string
	InputRows      int
	OutputRows     int
	GroupsAffected int
}

// BiasCorrect applies the named bias-correction strategy to an
// already-cleaned dataset. "auto" currently resolves to artist limiting, the
// correction that addresses the skew every collection run exhibits.
func BiasCorrect(tracks []Track, strategy string) ([]Track, BiasReport, error) {
	if strategy == "" || strategy == StrategyAuto {
		strategy = StrategyArtistLimit
	}
	switch strategy {
	case StrategyArtistLimit:
		out, rep := LimitArtists(tracks, DefaultArtistLimit)
		return out, rep, nil
	case StrategyStratified:
		out, rep := StratifyGenres(tracks)
		return out, rep, nil
	case StrategyRemoveOutliers:
		out, rep := RemoveArtistOutliers(tracks)
		return out, rep, nil
	default:
		return nil, BiasReport{}, fmt.Errorf("bias-correction strategy must be auto, artist_limit, stratified or remove_outliers, got %q", strategy)
	}
}

// LimitArtists keeps at most limit tracks per artist, preferring the most
// popular ones. Input order is preserved among the survivors.
func LimitArtists(tracks []Track, limit int) ([]Track, BiasReport) {
	rep := BiasReport{Strategy: StrategyArtistLimit, InputRows: len(tracks)}
	byArtist := make(map[string][]int)
	for i, t := range tracks {
		byArtist[t.ArtistName] = append(byArtist[t.ArtistName], i)
	}
	keep := make(map[int]bool, len(tracks))
	for _, idx := range byArtist {
		if len(idx) > limit {
			rep.GroupsAffected++
		}
		for _, i := range topByPopularity(idx, tracks, limit) {
			keep[i] = true
		}
	}
	out := filterKept(tracks, keep)
	rep.OutputRows = len(out)
	return out, rep
}

// StratifyGenres downsamples every genre to the size of the smallest one so
// each stratum carries equal weight, keeping each genre's most popular rows.
func StratifyGenres(tracks []Track) ([]Track, BiasReport) {
	rep := BiasReport{Strategy: StrategyStratified, InputRows: len(tracks)}
	byGenre := make(map[string][]int)
	for i, t := range tracks {
		byGenre[t.Genre] = append(byGenre[t.Genre], i)
	}
	if len(byGenre) == 0 {
		return nil, rep
	}
	min := len(tracks)
	for _, idx := range byGenre {
		if len(idx) < min {
			min = len(idx)
		}
	}
	keep := make(map[int]bool, len(tracks))
	for _, idx := range byGenre {
		if len(idx) > min {
			rep.GroupsAffected++
		}
		for _, i := range topByPopularity(idx, tracks, min) {
			keep[i] = true
		}
	}
	out := filterKept(tracks, keep)
	rep.OutputRows = len(out)
	return out, rep
}

// RemoveArtistOutliers drops every track by artists whose track count sits
// more than two standard deviations above the mean count. With fewer than
// two artists there is no distribution to judge against and nothing is
// removed.
func RemoveArtistOutliers(tracks []Track) ([]Track, BiasReport) {
	rep := BiasReport{Strategy: StrategyRemoveOutliers, InputRows: len(tracks)}
	counts := make(map[string]int)
	for _, t := range tracks {
		counts[t.ArtistName]++
	}
	if len(counts) < 2 {
		rep.OutputRows = len(tracks)
		return tracks, rep
	}
	vals := make([]float64, 0, len(counts))
	for _, n := range counts {
		vals = append(vals, float64(n))
	}
	mean, _ := mstats.Mean(vals)
	std, err := mstats.StdDevS(vals)
	if err != nil {
		rep.OutputRows = len(tracks)
		return tracks, rep
	}
	threshold := mean + 2*std

	outliers := make(map[string]bool)
	for artist, n := range counts {
		if float64(n) > threshold {
			outliers[artist] = true
		}
	}
	rep.GroupsAffected = len(outliers)

	var out []Track
	for _, t := range tracks {
		if !outliers[t.ArtistName] {
			out = append(out, t)
		}
	}
	rep.OutputRows = len(out)
	return out, rep
}

// topByPopularity selects up to limit of the given row indices, most popular
// first, returning them in ascending index order.
func topByPopularity(idx []int, tracks []Track, limit int) []int {
	if len(idx) <= limit {
		return idx
	}
	ranked := make([]int, len(idx))
	copy(ranked, idx)
	sort.SliceStable(ranked, func(a, b int) bool {
		return tracks[ranked[a]].Popularity > tracks[ranked[b]].Popularity
	})
	ranked = ranked[:limit]
	sort.Ints(ranked)
	return ranked
}

func filterKept(tracks []Track, keep map[int]bool) []Track {
	var out []Track
	for i, t := range tracks {
		if keep[i] {
			out = append(out, t)
		}
	}
	return out
}
