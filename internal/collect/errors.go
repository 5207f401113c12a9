package collect

import "fmt"

// RunFailure is the only fatal collection condition: a whole run produced
// zero records across every category.
type RunFailure struct {
	RunDir string
}

func (e *RunFailure) Error() string {
	if e.RunDir != "" {
		return fmt.Sprintf("collection run produced no records (checkpoints, if any, under %s)", e.RunDir)
	}
	return "collection run produced no records"
}

// RecoveryError indicates a recovery request found no parseable checkpoint
// files in the given directory.
type RecoveryError struct {
	Dir string
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("no parseable checkpoint files in %s", e.Dir)
}
