package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/HarmonLabs/titlescope/internal/collect"
	"github.com/HarmonLabs/titlescope/internal/dataset"
)

var (
	collectSize   string
	collectTarget int
	collectYes    bool
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run a balanced collection across all genres and years",
	Long: `Collect fills a genre-by-year grid of track cohorts from the Spotify
search API. Each completed cohort is checkpointed to disk, so an interrupted
run can be consolidated later with 'titlescope recover'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var runCfg collect.RunConfig
		var err error
		if cmd.Flags().Changed("target") {
			runCfg, err = collect.NewRunConfigForTarget(collectTarget)
		} else {
			runCfg, err = collect.NewRunConfig(collectSize)
		}
		if err != nil {
			return err
		}

		total := runCfg.ExpectedTotal()
		if total >= 2000 && !collectYes {
			fmt.Printf("This run targets up to %d tracks and may take a long time. Continue? [y/N] ", total)
			reader := bufio.NewReader(os.Stdin)
			line, _ := reader.ReadString('\n')
			if ans := strings.ToLower(strings.TrimSpace(line)); ans != "y" && ans != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		client, err := newSpotifyClient()
		if err != nil {
			return err
		}
		checkpointDir, err := collect.NewCheckpointDir(dataDir())
		if err != nil {
			return err
		}
		fmt.Printf("Starting %s collection (up to %d tracks), checkpoints in %s\n", runCfg.Mode, total, checkpointDir)

		col := collect.New(client, runCfg)
		tracks, sum, err := col.Run(cmd.Context(), checkpointDir)
		if err != nil {
			appendRunLog("collect %s failed: %v", runCfg.Mode, err)
			return err
		}

		out := filepath.Join(dataDir(), fmt.Sprintf("spotify_%s_%s.csv", runCfg.Mode, timestamp()))
		if err := dataset.WriteFile(out, tracks); err != nil {
			return fmt.Errorf("write dataset: %w", err)
		}

		artists := make(map[string]struct{}, len(tracks))
		for _, t := range tracks {
			artists[t.ArtistName] = struct{}{}
		}
		fmt.Printf("\n✓ Collected %d tracks from %d artists (run %s)\n", sum.Total, len(artists), sum.RunID)
		genres := make([]string, 0, len(sum.ByGenre))
		for g := range sum.ByGenre {
			genres = append(genres, g)
		}
		sort.Strings(genres)
		for _, g := range genres {
			fmt.Printf("  %-12s %d\n", g, sum.ByGenre[g])
		}
		years := make([]int, 0, len(sum.ByYear))
		for y := range sum.ByYear {
			years = append(years, y)
		}
		sort.Sort(sort.Reverse(sort.IntSlice(years)))
		fmt.Println("Per year:")
		for _, y := range years {
			fmt.Printf("  %d  %d\n", y, sum.ByYear[y])
		}
		if len(sum.Shortfalls) > 0 {
			fmt.Printf("⚠ %d cells fell short of their per-year target:\n", len(sum.Shortfalls))
			for _, c := range sum.Shortfalls {
				fmt.Printf("  %s %d: %d/%d\n", c.Genre, c.Year, c.Collected, c.Target)
			}
		}
		fmt.Printf("✓ Saved dataset to %s\n", out)
		appendRunLog("collect %s run=%s total=%d shortfalls=%d out=%s", runCfg.Mode, sum.RunID, sum.Total, len(sum.Shortfalls), filepath.Base(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(collectCmd)
	collectCmd.Flags().StringVar(&collectSize, "size", "test", "collection size: test | medium | full | mega")
	collectCmd.Flags().IntVar(&collectTarget, "target", 0, "explicit per-genre target (overrides --size)")
	collectCmd.Flags().BoolVarP(&collectYes, "yes", "y", false, "skip the confirmation prompt for large runs")
}
