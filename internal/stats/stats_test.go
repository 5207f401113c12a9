package stats_test

import (
	"math"
	"testing"

	"github.com/HarmonLabs/titlescope/internal/dataset"
	"github.com/HarmonLabs/titlescope/internal/stats"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestDescribe(t *testing.T) {
	s, err := stats.Describe([]float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if s.Count != 5 || !almost(s.Mean, 3) || !almost(s.Median, 3) || !almost(s.Min, 1) || !almost(s.Max, 5) {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if math.Abs(s.Std-math.Sqrt(2.5)) > 1e-9 {
		t.Fatalf("sample stddev = %v, want sqrt(2.5)", s.Std)
	}
}

func TestDescribeEmpty(t *testing.T) {
	if _, err := stats.Describe(nil); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestPearsonPerfectCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{2, 4, 6, 8, 10, 12}
	res, err := stats.PearsonTest(x, y)
	if err != nil {
		t.Fatalf("pearson: %v", err)
	}
	if !almost(res.Statistic, 1) {
		t.Errorf("r = %v, want 1", res.Statistic)
	}
	if !res.Significant() {
		t.Errorf("perfect correlation should be significant, p=%v", res.PValue)
	}
	if got := stats.CorrelationBand(res.Statistic); got != "large" {
		t.Errorf("band = %q, want large", got)
	}
}

func TestPearsonZeroCorrelation(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{1, -1, -1, 1}
	res, err := stats.PearsonTest(x, y)
	if err != nil {
		t.Fatalf("pearson: %v", err)
	}
	if !almost(res.Statistic, 0) {
		t.Errorf("r = %v, want 0", res.Statistic)
	}
	if res.Significant() {
		t.Errorf("r=0 must not be significant, p=%v", res.PValue)
	}
	if res.Conclusion != "No significant correlation found between title length and popularity" {
		t.Errorf("conclusion = %q", res.Conclusion)
	}
}

func TestOneWayANOVASeparatedGroups(t *testing.T) {
	groups := map[string][]float64{
		"Short (1-2 words)":  {10, 11, 12, 13},
		"Medium (3-4 words)": {30, 31, 32, 33},
		"Long (5+ words)":    {50, 51, 52, 53},
	}
	res, err := stats.OneWayANOVA(groups)
	if err != nil {
		t.Fatalf("anova: %v", err)
	}
	if !res.Significant() {
		t.Errorf("well separated groups should be significant, p=%v", res.PValue)
	}
	if res.EffectSize < 0.14 {
		t.Errorf("eta² = %v, expected large effect", res.EffectSize)
	}
	if got := stats.EtaSquaredBand(res.EffectSize); got != "large" {
		t.Errorf("band = %q, want large", got)
	}
}

func TestOneWayANOVAIdenticalGroups(t *testing.T) {
	groups := map[string][]float64{
		"a": {10, 20, 30},
		"b": {10, 20, 30},
	}
	res, err := stats.OneWayANOVA(groups)
	if err != nil {
		t.Fatalf("anova: %v", err)
	}
	if !almost(res.Statistic, 0) {
		t.Errorf("F = %v, want 0", res.Statistic)
	}
	if res.Significant() {
		t.Errorf("identical groups must not be significant, p=%v", res.PValue)
	}
}

func TestTwoSampleTTest(t *testing.T) {
	with := []float64{80, 82, 84, 86}
	without := []float64{20, 22, 24, 26}
	res, err := stats.TwoSampleTTest(with, without)
	if err != nil {
		t.Fatalf("t-test: %v", err)
	}
	if !res.Significant() {
		t.Errorf("separated groups should be significant, p=%v", res.PValue)
	}
	if res.Statistic <= 0 {
		t.Errorf("t = %v, want positive (with > without)", res.Statistic)
	}
	if got := stats.CohenBand(res.EffectSize); got != "large" {
		t.Errorf("band = %q, want large", got)
	}
}

func TestTwoSampleTTestNoDifference(t *testing.T) {
	with := []float64{50, 60, 70}
	without := []float64{50, 60, 70}
	res, err := stats.TwoSampleTTest(with, without)
	if err != nil {
		t.Fatalf("t-test: %v", err)
	}
	if res.Significant() {
		t.Errorf("identical groups must not be significant, p=%v", res.PValue)
	}
}

func TestEffectSizeBands(t *testing.T) {
	if got := stats.CorrelationBand(0.05); got != "negligible" {
		t.Errorf("CorrelationBand(0.05) = %q", got)
	}
	if got := stats.CorrelationBand(-0.2); got != "small" {
		t.Errorf("CorrelationBand(-0.2) = %q", got)
	}
	if got := stats.CorrelationBand(0.4); got != "medium" {
		t.Errorf("CorrelationBand(0.4) = %q", got)
	}
	if got := stats.CohenBand(0.3); got != "small" {
		t.Errorf("CohenBand(0.3) = %q", got)
	}
	if got := stats.CohenBand(0.6); got != "medium" {
		t.Errorf("CohenBand(0.6) = %q", got)
	}
	if got := stats.EtaSquaredBand(0.01); got != "small" {
		t.Errorf("EtaSquaredBand(0.01) = %q", got)
	}
	if got := stats.EtaSquaredBand(0.1); got != "medium" {
		t.Errorf("EtaSquaredBand(0.1) = %q", got)
	}
}

func TestRunAllBattery(t *testing.T) {
	var tracks []dataset.Track
	for i := 0; i < 40; i++ {
		tracks = append(tracks, dataset.Track{
			TrackName:       "Track",
			ArtistName:      "Artist",
			Popularity:      30 + (i*7)%60,
			TitleLength:     5 + (i*3)%40,
			WordCount:       1 + i%6,
			HasSpecialChars: i%3 == 0,
			Genre:           "pop",
		})
	}
	results, err := stats.RunAll(tracks)
	if err != nil {
		t.Fatalf("run all: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	names := []string{"Title Length Correlation", "Word Count ANOVA", "Special Characters t-test"}
	for i, r := range results {
		if r.Name != names[i] {
			t.Errorf("result %d name = %q, want %q", i, r.Name, names[i])
		}
		if r.PValue < 0 || r.PValue > 1 {
			t.Errorf("%s: p-value %v out of range", r.Name, r.PValue)
		}
		if r.Conclusion == "" {
			t.Errorf("%s: empty conclusion", r.Name)
		}
	}
}
