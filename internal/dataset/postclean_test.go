package dataset_test

import (
	"testing"

	"github.com/HarmonLabs/titlescope/internal/dataset"
)

func biasTrack(name, artist, genre string, popularity int) dataset.Track {
	return dataset.Track{
		TrackName:   name,
		ArtistName:  artist,
		Genre:       genre,
		ReleaseYear: 2024,
		Popularity:  popularity,
		TitleLength: len(name),
		WordCount:   1,
	}
}

func TestLimitArtistsKeepsMostPopular(t *testing.T) {
	var tracks []dataset.Track
	pops := []int{40, 90, 10, 70, 60, 30, 80}
	for i, p := range pops {
		tracks = append(tracks, biasTrack("A"+string(rune('a'+i)), "Prolific", "pop", p))
	}
	tracks = append(tracks, biasTrack("Solo", "Modest", "pop", 20))

	out, rep := dataset.LimitArtists(tracks, 5)

	if rep.GroupsAffected != 1 {
		t.Fatalf("expected 1 capped artist, got %d", rep.GroupsAffected)
	}
	if rep.OutputRows != 6 || len(out) != 6 {
		t.Fatalf("expected 6 rows (5 capped + 1 untouched), got %d", len(out))
	}
	kept := 0
	for _, tr := range out {
		if tr.ArtistName == "Prolific" {
			kept++
			if tr.Popularity < 40 {
				t.Errorf("kept low-popularity track %q (pop=%d)", tr.TrackName, tr.Popularity)
			}
		}
	}
	if kept != 5 {
		t.Fatalf("expected 5 tracks by capped artist, got %d", kept)
	}
	if out[len(out)-1].ArtistName != "Modest" {
		t.Fatal("input order not preserved among survivors")
	}
}

func TestStratifyGenresEqualizesStrata(t *testing.T) {
	tracks := []dataset.Track{
		biasTrack("P1", "A1", "pop", 90),
		biasTrack("P2", "A2", "pop", 10),
		biasTrack("P3", "A3", "pop", 70),
		biasTrack("P4", "A4", "pop", 50),
		biasTrack("R1", "B1", "rock", 60),
		biasTrack("R2", "B2", "rock", 40),
	}

	out, rep := dataset.StratifyGenres(tracks)

	if rep.GroupsAffected != 1 {
		t.Fatalf("expected 1 downsampled genre, got %d", rep.GroupsAffected)
	}
	byGenre := make(map[string]int)
	for _, tr := range out {
		byGenre[tr.Genre]++
		if tr.TrackName == "P2" || tr.TrackName == "P4" {
			t.Errorf("kept %q over a more popular row", tr.TrackName)
		}
	}
	if byGenre["pop"] != 2 || byGenre["rock"] != 2 {
		t.Fatalf("expected 2 rows per genre, got %v", byGenre)
	}
}

func TestRemoveArtistOutliersDropsProlificArtist(t *testing.T) {
	var tracks []dataset.Track
	for i := 0; i < 10; i++ {
		tracks = append(tracks, biasTrack("H"+string(rune('a'+i)), "Factory", "pop", 50))
	}
	for _, artist := range []string{"B", "C", "D", "E", "F"} {
		tracks = append(tracks, biasTrack("One by "+artist, artist, "rock", 50))
	}

	out, rep := dataset.RemoveArtistOutliers(tracks)

	if rep.GroupsAffected != 1 {
		t.Fatalf("expected 1 outlier artist, got %d", rep.GroupsAffected)
	}
	if len(out) != 5 {
		t.Fatalf("expected 5 surviving rows, got %d", len(out))
	}
	for _, tr := range out {
		if tr.ArtistName == "Factory" {
			t.Fatal("outlier artist survived removal")
		}
	}
}

func TestRemoveArtistOutliersNoOpOnBalancedData(t *testing.T) {
	tracks := []dataset.Track{
		biasTrack("X", "A", "pop", 50),
		biasTrack("Y", "B", "pop", 50),
		biasTrack("Z", "C", "pop", 50),
	}
	out, rep := dataset.RemoveArtistOutliers(tracks)
	if len(out) != 3 || rep.GroupsAffected != 0 {
		t.Fatalf("expected untouched dataset, got %d rows, %d outliers", len(out), rep.GroupsAffected)
	}
}

func TestBiasCorrectStrategies(t *testing.T) {
	tracks := []dataset.Track{
		biasTrack("X", "A", "pop", 50),
		biasTrack("Y", "B", "rock", 50),
	}

	for _, strategy := range []string{"", dataset.StrategyAuto, dataset.StrategyArtistLimit, dataset.StrategyStratified, dataset.StrategyRemoveOutliers} {
		out, rep, err := dataset.BiasCorrect(tracks, strategy)
		if err != nil {
			t.Fatalf("BiasCorrect(%q): %v", strategy, err)
		}
		if len(out) != 2 {
			t.Fatalf("BiasCorrect(%q) dropped rows from a balanced dataset: %d", strategy, len(out))
		}
		if strategy == "" || strategy == dataset.StrategyAuto {
			if rep.Strategy != dataset.StrategyArtistLimit {
				t.Fatalf("auto should resolve to artist_limit, got %s", rep.Strategy)
			}
		}
	}

	if _, _, err := dataset.BiasCorrect(tracks, "aggressive"); err == nil {
		t.Fatal("expected error for unknown strategy")
	}
}
