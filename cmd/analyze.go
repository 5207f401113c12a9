package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HarmonLabs/titlescope/internal/dataset"
	"github.com/HarmonLabs/titlescope/internal/stats"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Run the title-feature hypothesis tests on a dataset",
	Long: `Analyze runs the statistical battery against a cleaned dataset:
a Pearson correlation test between title length and popularity, a one-way
ANOVA of popularity across word-count groups, and a two-sample t-test of
popularity with and without special characters in the title.`,
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

		results, err := stats.RunAll(tracks)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d tracks, α=%.2f\n", filepath.Base(path), len(tracks), stats.Alpha)
		significant := 0
		for i, r := range results {
			fmt.Printf("\n%d. %s\n", i+1, r.Name)
			fmt.Printf("   H0: %s\n", r.NullHypothesis)
			fmt.Printf("   H1: %s\n", r.AltHypothesis)
			fmt.Printf("   statistic=%.4f  p=%.4f  effect=%.4f\n", r.Statistic, r.PValue, r.EffectSize)
			if r.Significant() {
				significant++
				fmt.Printf("   ✓ %s\n", r.Conclusion)
			} else {
				fmt.Printf("   ✗ %s\n", r.Conclusion)
			}
		}
		fmt.Printf("\n%d of %d tests significant at α=%.2f\n", significant, len(results), stats.Alpha)
		appendRunLog("analyze in=%s tests=%d significant=%d", filepath.Base(path), len(results), significant)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
