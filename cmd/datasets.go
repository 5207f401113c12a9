package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/HarmonLabs/titlescope/internal/dataset"
)

var datasetsHead int

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List collected datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := dataset.List(dataDir())
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println("(no datasets)")
			return nil
		}
		for _, f := range files {
			tracks, err := dataset.ReadFile(f)
			if err != nil {
				fmt.Printf("- %s (unreadable: %v)\n", filepath.Base(f), err)
				continue
			}
			fmt.Printf("- %s (%d tracks)\n", filepath.Base(f), len(tracks))
		}
		return nil
	},
}

var datasetsViewCmd = &cobra.Command{
	Use:   "view [file]",
	Short: "Show the first rows of a dataset (default: most recent)",
	Args:  cobra.MaximumNArgs(1),
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
		fmt.Printf("%s: %d tracks\n\n", filepath.Base(path), len(tracks))
		n := datasetsHead
		if n > len(tracks) {
			n = len(tracks)
		}
		for _, t := range tracks[:n] {
			fmt.Printf("%-40.40s  %-24.24s  %-10s  %d  pop=%d\n", t.TrackName, t.ArtistName, t.Genre, t.ReleaseYear, t.Popularity)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
	datasetsCmd.AddCommand(datasetsViewCmd)
	datasetsViewCmd.Flags().IntVar(&datasetsHead, "head", 10, "number of rows to show")
}
