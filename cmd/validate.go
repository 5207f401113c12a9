package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HarmonLabs/titlescope/internal/dataset"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a dataset against the quality rules",
	Long: `Validate reports quality rule violations without modifying anything:
missing critical fields, out-of-range numeric values and duplicate
(title, artist) pairs. Use 'titlescope clean' to fix what it reports.`,
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
		violations := dataset.Validate(tracks)
		fmt.Printf("%s: %d tracks\n", filepath.Base(path), len(tracks))
		if len(violations) == 0 {
			fmt.Println("✓ All quality rules pass")
			return nil
		}
		fmt.Printf("⚠ %d rule(s) violated:\n", len(violations))
		for _, v := range violations {
			fmt.Printf("  %s\n", v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
