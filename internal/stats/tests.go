package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/HarmonLabs/titlescope/internal/dataset"
)

// Alpha is the fixed significance threshold for every test in the battery.
const Alpha = 0.05

// TestResult is the structured outcome of one hypothesis test.
type TestResult struct {
	Name           string
	NullHypothesis string
	AltHypothesis  string
	Statistic      float64
	PValue         float64
	EffectSize     float64
	Conclusion     string
}

// Significant reports whether the result clears the fixed threshold.
func (r TestResult) Significant() bool { return r.PValue < Alpha }

// RunAll executes the fixed battery against a cleaned dataset: Pearson
// correlation of title length vs popularity, one-way ANOVA across word-count
// buckets, and a two-sample t-test on special-character presence.
func RunAll(tracks []dataset.Track) ([]TestResult, error) {
	if len(tracks) < 3 {
		return nil, fmt.Errorf("hypothesis tests need at least 3 rows, have %d", len(tracks))
	}
	length := make([]float64, len(tracks))
	pop := make([]float64, len(tracks))
	for i, t := range tracks {
		length[i] = float64(t.TitleLength)
		pop[i] = float64(t.Popularity)
	}

	corr, err := PearsonTest(length, pop)
	if err != nil {
		return nil, err
	}

	groups := map[string][]float64{}
	for _, t := range tracks {
		b := t.WordCountGroup
		if b == "" {
			b = dataset.WordCountBucket(t.WordCount)
		}
		groups[b] = append(groups[b], float64(t.Popularity))
	}
	anova, err := OneWayANOVA(groups)
	if err != nil {
		return nil, err
	}

	var with, without []float64
	for _, t := range tracks {
		if t.HasSpecialChars {
			with = append(with, float64(t.Popularity))
		} else {
			without = append(without, float64(t.Popularity))
		}
	}
	ttest, err := TwoSampleTTest(with, without)
	if err != nil {
		return nil, err
	}
	return []TestResult{corr, anova, ttest}, nil
}

// PearsonTest runs the title length vs popularity correlation test.
func PearsonTest(length, popularity []float64) (TestResult, error) {
	n := len(length)
	if n < 3 || n != len(popularity) {
		return TestResult{}, fmt.Errorf("pearson test: need matched samples of 3+, have %d/%d", n, len(popularity))
	}
	r, err := Correlation(length, popularity)
	if err != nil {
		return TestResult{}, err
	}
	// t statistic for H0: rho = 0, df = n-2.
	df := float64(n - 2)
	p := 1.0
	if math.Abs(r) < 1 {
		t := r * math.Sqrt(df/(1-r*r))
		p = twoSidedT(t, df)
	} else {
		p = 0
	}
	res := TestResult{
		Name:           "Title Length Correlation",
		NullHypothesis: "There is no correlation between title length and track popularity",
		AltHypothesis:  "There is a significant correlation between title length and track popularity",
		Statistic:      r,
		PValue:         p,
		EffectSize:     math.Abs(r),
	}
	res.Conclusion = interpretCorrelation(r, p)
	return res, nil
}

// OneWayANOVA compares popularity distributions across named groups.
func OneWayANOVA(groups map[string][]float64) (TestResult, error) {
	if len(groups) < 2 {
		return TestResult{}, fmt.Errorf("anova: need at least 2 groups, have %d", len(groups))
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	var grand float64
	var total int
	for _, name := range names {
		vals := groups[name]
		if len(vals) == 0 {
			return TestResult{}, fmt.Errorf("anova: group %q is empty", name)
		}
		for _, v := range vals {
			grand += v
		}
		total += len(vals)
	}
	grand /= float64(total)

	var ssb, ssw, sst float64
	for _, name := range names {
		vals := groups[name]
		var mean float64
		for _, v := range vals {
			mean += v
		}
		mean /= float64(len(vals))
		ssb += float64(len(vals)) * (mean - grand) * (mean - grand)
		for _, v := range vals {
			ssw += (v - mean) * (v - mean)
			sst += (v - grand) * (v - grand)
		}
	}
	dfb := float64(len(names) - 1)
	dfw := float64(total - len(names))
	if dfw <= 0 || ssw == 0 {
		return TestResult{}, fmt.Errorf("anova: degenerate design (df within = %.0f)", dfw)
	}
	f := (ssb / dfb) / (ssw / dfw)
	p := 1 - distuv.F{D1: dfb, D2: dfw}.CDF(f)
	eta2 := 0.0
	if sst > 0 {
		eta2 = ssb / sst
	}
	res := TestResult{
		Name:           "Word Count ANOVA",
		NullHypothesis: "There is no difference in popularity between word count groups",
		AltHypothesis:  "There are significant differences in popularity between word count groups",
		Statistic:      f,
		PValue:         p,
		EffectSize:     eta2,
	}
	res.Conclusion = interpretANOVA(p, eta2)
	return res, nil
}

// TwoSampleTTest compares popularity between titles with and without special
// characters (pooled-variance Student's t).
func TwoSampleTTest(with, without []float64) (TestResult, error) {
	n1, n2 := len(with), len(without)
	if n1 < 2 || n2 < 2 {
		return TestResult{}, fmt.Errorf("t-test: need 2+ samples per group, have %d/%d", n1, n2)
	}
	m1, s1 := meanVar(with)
	m2, s2 := meanVar(without)
	df := float64(n1 + n2 - 2)
	pooled := ((float64(n1)-1)*s1 + (float64(n2)-1)*s2) / df
	if pooled == 0 {
		return TestResult{}, fmt.Errorf("t-test: zero pooled variance")
	}
	t := (m1 - m2) / math.Sqrt(pooled*(1/float64(n1)+1/float64(n2)))
	p := twoSidedT(t, df)
	d := (m1 - m2) / math.Sqrt((s1+s2)/2)
	res := TestResult{
		Name:           "Special Characters t-test",
		NullHypothesis: "There is no difference in popularity based on title features",
		AltHypothesis:  "There are significant differences in popularity based on title features",
		Statistic:      t,
		PValue:         p,
		EffectSize:     math.Abs(d),
	}
	res.Conclusion = interpretTTest(p, d)
	return res, nil
}

func meanVar(vals []float64) (mean, variance float64) {
	for _, v := range vals {
		mean += v
	}
	mean /= float64(len(vals))
	for _, v := range vals {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(vals) - 1)
	return mean, variance
}

func twoSidedT(t, df float64) float64 {
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	return 2 * (1 - dist.CDF(math.Abs(t)))
}

// CorrelationBand names the effect-size band of a correlation coefficient.
func CorrelationBand(r float64) string {
	switch a := math.Abs(r); {
	case a < 0.1:
		return "negligible"
	case a < 0.3:
		return "small"
	case a < 0.5:
		return "medium"
	default:
		return "large"
	}
}

// CohenBand names the effect-size band of a Cohen's d value.
func CohenBand(d float64) string {
	switch a := math.Abs(d); {
	case a < 0.5:
		return "small"
	case a < 0.8:
		return "medium"
	default:
		return "large"
	}
}

// EtaSquaredBand names the effect-size band of an eta-squared value.
func EtaSquaredBand(e float64) string {
	switch {
	case e < 0.06:
		return "small"
	case e < 0.14:
		return "medium"
	default:
		return "large"
	}
}

func interpretCorrelation(r, p float64) string {
	if p >= Alpha {
		return "No significant correlation found between title length and popularity"
	}
	direction := "positive"
	if r < 0 {
		direction = "negative"
	}
	return fmt.Sprintf("Found %s %s correlation (r=%.2f)", CorrelationBand(r), direction, r)
}

func interpretANOVA(p, eta2 float64) string {
	if p >= Alpha {
		return "No significant difference found between word count groups"
	}
	return fmt.Sprintf("Found significant differences between groups with %s effect size (eta²=%.2f)", EtaSquaredBand(eta2), eta2)
}

func interpretTTest(p, d float64) string {
	if p >= Alpha {
		return "No significant difference found in popularity between titles with and without special characters"
	}
	direction := "higher"
	if d < 0 {
		direction = "lower"
	}
	return fmt.Sprintf("Found %s effect size (d=%.2f) with %s popularity for titles with special characters", CohenBand(d), d, direction)
}
