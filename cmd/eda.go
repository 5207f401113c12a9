package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/HarmonLabs/titlescope/internal/dataset"
	"github.com/HarmonLabs/titlescope/internal/stats"
)

var edaCmd = &cobra.Command{
	Use:   "eda [file]",
	Short: "Print descriptive statistics for a dataset",
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
		if len(tracks) == 0 {
			return fmt.Errorf("dataset %s is empty", filepath.Base(path))
		}

		popularity := make([]float64, len(tracks))
		duration := make([]float64, len(tracks))
		length := make([]float64, len(tracks))
		words := make([]float64, len(tracks))
		byGenre := make(map[string]int)
		byYear := make(map[int]int)
		withDigits, withSpecial := 0, 0
		for i, t := range tracks {
			popularity[i] = float64(t.Popularity)
			duration[i] = float64(t.DurationMS)
			length[i] = float64(t.TitleLength)
			words[i] = float64(t.WordCount)
			byGenre[t.Genre]++
			byYear[t.ReleaseYear]++
			if t.HasDigits {
				withDigits++
			}
			if t.HasSpecialChars {
				withSpecial++
			}
		}

		fmt.Printf("%s: %d tracks\n\n", filepath.Base(path), len(tracks))

		fmt.Printf("%-14s %8s %10s %10s %10s %10s %10s\n", "column", "count", "mean", "median", "std", "min", "max")
		cols := []struct {
			name string
			vals []float64
		}{
			{"popularity", popularity},
			{"duration_ms", duration},
			{"title_length", length},
			{"word_count", words},
		}
		for _, c := range cols {
			s, err := stats.Describe(c.vals)
			if err != nil {
				return err
			}
			fmt.Printf("%-14s %8d %10.2f %10.2f %10.2f %10.0f %10.0f\n", c.name, s.Count, s.Mean, s.Median, s.Std, s.Min, s.Max)
		}

		n := float64(len(tracks))
		fmt.Printf("\nTitles with digits: %d (%.1f%%), with special characters: %d (%.1f%%)\n",
			withDigits, 100*float64(withDigits)/n, withSpecial, 100*float64(withSpecial)/n)

		fmt.Println("\nCorrelations with popularity:")
		for _, c := range []struct {
			name string
			vals []float64
		}{
			{"title_length", length},
			{"word_count", words},
			{"duration_ms", duration},
		} {
			r, err := stats.Correlation(c.vals, popularity)
			if err != nil {
				fmt.Printf("  %-14s n/a (%v)\n", c.name, err)
				continue
			}
			fmt.Printf("  %-14s r=%+.3f (%s)\n", c.name, r, stats.CorrelationBand(r))
		}

		fmt.Println("\nTracks per genre:")
		genres := make([]string, 0, len(byGenre))
		for g := range byGenre {
			genres = append(genres, g)
		}
		sort.Strings(genres)
		for _, g := range genres {
			fmt.Printf("  %-12s %d\n", g, byGenre[g])
		}

		fmt.Println("\nTracks per year:")
		years := make([]int, 0, len(byYear))
		for y := range byYear {
			years = append(years, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(years)))
		for _, y := range years {
			fmt.Printf("  %d  %d\n", y, byYear[y])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(edaCmd)
}
