package feature_test

import (
	"testing"

	"github.com/HarmonLabs/titlescope/internal/feature"
)

func TestExtract(t *testing.T) {
	cases := []struct {
		title string
		want  feature.Features
	}{
		{"Lost In Translation", feature.Features{Length: 19, WordCount: 3}},
		{"99 Problems", feature.Features{Length: 11, WordCount: 2, HasDigit: true}},
		{"Rock & Roll", feature.Features{Length: 11, WordCount: 3, HasSpecialChar: true}},
		{"", feature.Features{}},
		{"   ", feature.Features{Length: 3}},
		{"Song (feat. Someone)", feature.Features{Length: 20, WordCount: 3, HasSpecialChar: true}},
		{"Héroe", feature.Features{Length: 5, WordCount: 1}},
	}
	for _, c := range cases {
		if got := feature.Extract(c.title); got != c.want {
			t.Errorf("Extract(%q) = %+v, want %+v", c.title, got, c.want)
		}
	}
}

func TestExtractDeterministic(t *testing.T) {
	a := feature.Extract("Intro #1 (Live)")
	b := feature.Extract("Intro #1 (Live)")
	if a != b {
		t.Fatalf("extraction not deterministic: %+v vs %+v", a, b)
	}
	if !a.HasDigit || !a.HasSpecialChar {
		t.Fatalf("expected digit and special char flags set: %+v", a)
	}
}
