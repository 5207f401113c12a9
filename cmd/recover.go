package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HarmonLabs/titlescope/internal/collect"
	"github.com/HarmonLabs/titlescope/internal/dataset"
)

var (
	recoverDir  string
	recoverList bool
)

var recoverCmd = &cobra.Command{
	Use:   "recover",
	Short: "Consolidate checkpoints from an interrupted collection run",
	RunE: func(cmd *cobra.Command, args []string) error {
		dirs, err := collect.ListCheckpointDirs(dataDir())
		if err != nil {
			return err
		}
		if recoverList {
			if len(dirs) == 0 {
				fmt.Println("(no checkpoint directories)")
				return nil
			}
			for _, d := range dirs {
				fmt.Printf("- %s\n", d)
			}
			return nil
		}

		dir := recoverDir
		if dir == "" {
			if len(dirs) == 0 {
				return fmt.Errorf("no checkpoint directories under %s", dataDir())
			}
			// most recent run
			dir = dirs[len(dirs)-1]
		}

		tracks, rep, err := collect.Recover(dir, os.Stdout)
		if err != nil {
			return err
		}

		out := filepath.Join(dataDir(), fmt.Sprintf("spotify_recovered_%s.csv", timestamp()))
		if err := dataset.WriteFile(out, tracks); err != nil {
			return fmt.Errorf("write recovered dataset: %w", err)
		}

		if rep.RunID != "" {
			fmt.Printf("✓ Recovered run %s\n", rep.RunID)
		}
		fmt.Printf("✓ Loaded %d checkpoint files (%d skipped), dropped %d duplicates\n", rep.FilesLoaded, len(rep.FilesSkipped), rep.Duplicates)
		fmt.Printf("✓ Saved %d tracks to %s\n", rep.Total, out)
		appendRunLog("recover dir=%s files=%d dupes=%d total=%d out=%s", filepath.Base(dir), rep.FilesLoaded, rep.Duplicates, rep.Total, filepath.Base(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recoverCmd)
	recoverCmd.Flags().StringVar(&recoverDir, "dir", "", "checkpoint directory to recover (default: most recent)")
	recoverCmd.Flags().BoolVar(&recoverList, "list", false, "list checkpoint directories and exit")
}
