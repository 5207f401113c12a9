package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HarmonLabs/titlescope/internal/dataset"
)

// timestamp returns the file-name timestamp used by every generated dataset.
func timestamp() string {
	return time.Now().Format("20060102_150405")
}

// resolveDataset maps a command argument to a dataset path. An empty argument
// means the most recent dataset in the data directory; a bare file name is
// looked up under the data directory; anything with a path separator is used
// as given.
func resolveDataset(arg string) (string, error) {
	if arg == "" {
		files, err := dataset.List(dataDir())
		if err != nil {
			return "", err
		}
		if len(files) == 0 {
			return "", fmt.Errorf("no datasets in %s; run 'titlescope collect' first", dataDir())
		}
		// List returns paths sorted ascending; timestamps sort with them.
		return files[len(files)-1], nil
	}
	if strings.ContainsRune(arg, os.PathSeparator) {
		return arg, nil
	}
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	return filepath.Join(dataDir(), arg), nil
}

// appendRunLog appends one timestamped line to the run log. Logging failures
// never fail the command.
func appendRunLog(format string, args ...any) {
	name := "titlescope.log"
	if cfg != nil && cfg.LogFile != "" {
		name = cfg.LogFile
	}
	path := name
	if !strings.ContainsRune(name, os.PathSeparator) {
		path = filepath.Join(dataDir(), name)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	fmt.Fprintf(f, "%s %s\n", time.Now().Format(time.RFC3339), fmt.Sprintf(format, args...))
}
