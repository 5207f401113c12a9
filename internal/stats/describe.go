// Package stats provides descriptive summaries and the fixed hypothesis-test
// battery run against a cleaned dataset.
package stats

import (
	"fmt"

	mstats "github.com/montanaflynn/stats"
)

// Summary captures descriptive statistics for one numeric column.
type Summary struct {
	Count  int
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
}

// Describe computes a Summary over values. It fails on an empty input.
func Describe(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, fmt.Errorf("describe: no values")
	}
	data := mstats.Float64Data(values)
	mean, err := data.Mean()
	if err != nil {
		return Summary{}, fmt.Errorf("mean: %w", err)
	}
	median, err := data.Median()
	if err != nil {
		return Summary{}, fmt.Errorf("median: %w", err)
	}
	std := 0.0
	if len(values) > 1 {
		std, err = mstats.StdDevS(data)
		if err != nil {
			return Summary{}, fmt.Errorf("stddev: %w", err)
		}
	}
	min, err := data.Min()
	if err != nil {
		return Summary{}, fmt.Errorf("min: %w", err)
	}
	max, err := data.Max()
	if err != nil {
		return Summary{}, fmt.Errorf("max: %w", err)
	}
	return Summary{
		Count:  len(values),
		Mean:   mean,
		Median: median,
		Std:    std,
		Min:    min,
		Max:    max,
	}, nil
}

// Correlation returns the Pearson correlation coefficient of two columns.
func Correlation(x, y []float64) (float64, error) {
	r, err := mstats.Pearson(mstats.Float64Data(x), mstats.Float64Data(y))
	if err != nil {
		return 0, fmt.Errorf("pearson: %w", err)
	}
	return r, nil
}
