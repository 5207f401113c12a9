package collect

import (
	"fmt"
	"time"

	"github.com/HarmonLabs/titlescope/internal/catalog"
)

// Collection tuning constants. The attempt multiplier bounds how many query
// variants a cell may burn before it is declared exhausted; 3 matches the
// historical tuning and is deliberately kept a tunable constant.
const (
	DefaultPopularityFloor   = 15
	DefaultMaxOffset         = 500
	DefaultPageDelay         = 100 * time.Millisecond
	DefaultAttemptMultiplier = 3
)

// Per-genre targets for the named collection sizes.
var sizeTargets = map[string]int{
	"test":   100,
	"medium": 250,
	"full":   4000,
	"mega":   6000,
}

// RunConfig is the immutable configuration of one collection run, fixed at
// construction. There are no setters; order-dependent setup is not a thing.
type RunConfig struct {
	Mode           string
	Genres         []string
	Years          []int
	TargetPerGenre int
	TracksPerYear  int

	PopularityFloor   int
	MaxOffset         int
	PageDelay         time.Duration
	AttemptMultiplier int
}

// NewRunConfig builds the configuration for a named collection size
// (test, medium, full or mega).
func NewRunConfig(size string) (RunConfig, error) {
	target, ok := sizeTargets[size]
	if !ok {
		return RunConfig{}, fmt.Errorf("collection size must be test, medium, full or mega, got %q", size)
	}
	cfg := configForTarget(target)
	cfg.Mode = size
	return cfg, nil
}

// NewRunConfigForTarget builds a configuration for an explicit per-genre
// target count.
func NewRunConfigForTarget(targetPerGenre int) (RunConfig, error) {
	if targetPerGenre <= 0 {
		return RunConfig{}, fmt.Errorf("target per genre must be positive, got %d", targetPerGenre)
	}
	cfg := configForTarget(targetPerGenre)
	cfg.Mode = fmt.Sprintf("custom-%d", targetPerGenre)
	return cfg, nil
}

func configForTarget(target int) RunConfig {
	perYear := target / len(catalog.Years)
	if perYear == 0 {
		perYear = 1
	}
	return RunConfig{
		Genres:            catalog.Genres,
		Years:             catalog.Years,
		TargetPerGenre:    target,
		TracksPerYear:     perYear,
		PopularityFloor:   DefaultPopularityFloor,
		MaxOffset:         DefaultMaxOffset,
		PageDelay:         DefaultPageDelay,
		AttemptMultiplier: DefaultAttemptMultiplier,
	}
}

// ExpectedTotal is the upper bound on records a full run can produce.
func (c RunConfig) ExpectedTotal() int {
	return c.TargetPerGenre * len(c.Genres)
}
