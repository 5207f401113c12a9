package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HarmonLabs/titlescope/internal/dataset"
)

var (
	cleanOutput   string
	cleanPostEDA  bool
	cleanStrategy string
)

var cleanCmd = &cobra.Command{
	Use:   "clean [file]",
	Short: "Clean a raw dataset into an analysis-ready one",
	Long: `Clean drops rows missing critical fields, removes duplicate
(title, artist) pairs, clips numeric values to their valid ranges and derives
the categorical bins. The input file is never modified; a new timestamped
dataset is written next to it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arg := ""
		if len(args) == 1 {
			arg = args[0]
		}
		path, err := resolveDataset(arg)
		if err != nil {
			return err
		}
		tracks, err := dataset.ReadFile(path)
		if err != nil {
			return err
		}

		cleaned, rep := dataset.Clean(tracks)

		var biasRep dataset.BiasReport
		if cleanPostEDA {
			var err error
			cleaned, biasRep, err = dataset.BiasCorrect(cleaned, cleanStrategy)
			if err != nil {
				return err
			}
		}

		out := cleanOutput
		if out == "" {
			out = filepath.Join(dataDir(), fmt.Sprintf("spotify_cleaned_%s.csv", timestamp()))
		}
		if err := dataset.WriteFile(out, cleaned); err != nil {
			return fmt.Errorf("write cleaned dataset: %w", err)
		}

		fmt.Printf("Cleaned %s:\n", filepath.Base(path))
		fmt.Printf("  input rows:        %d\n", rep.InputRows)
		fmt.Printf("  dropped (missing): %d\n", rep.DroppedMissing)
		fmt.Printf("  dropped (dupes):   %d\n", rep.DroppedDupes)
		fmt.Printf("  values clipped:    %d\n", rep.Clipped)
		fmt.Printf("  output rows:       %d\n", rep.OutputRows)
		if cleanPostEDA {
			fmt.Printf("Bias correction (%s):\n", biasRep.Strategy)
			fmt.Printf("  rows:              %d -> %d\n", biasRep.InputRows, biasRep.OutputRows)
			fmt.Printf("  groups affected:   %d\n", biasRep.GroupsAffected)
		}

		if violations := dataset.Validate(cleaned); len(violations) > 0 {
			fmt.Printf("⚠ %d quality rule(s) still violated:\n", len(violations))
			for _, v := range violations {
				fmt.Printf("  %s\n", v)
			}
		} else {
			fmt.Println("✓ All quality rules pass")
		}
		fmt.Printf("✓ Saved cleaned dataset to %s\n", out)
		appendRunLog("clean in=%s rows=%d->%d out=%s", filepath.Base(path), rep.InputRows, rep.OutputRows, filepath.Base(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "output path (default: data dir, timestamped)")
	cleanCmd.Flags().BoolVar(&cleanPostEDA, "post-eda", false, "apply bias correction after basic cleaning")
	cleanCmd.Flags().StringVar(&cleanStrategy, "strategy", "auto", "bias-correction strategy: auto | artist_limit | stratified | remove_outliers")
}
