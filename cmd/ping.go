package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HarmonLabs/titlescope/internal/catalog"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Verify Spotify API credentials and connectivity",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newSpotifyClient()
		if err != nil {
			return err
		}
		query := fmt.Sprintf("year:%d genre:pop", catalog.Years[0])
		page, err := client.Search(cmd.Context(), query, 1, 0)
		if err != nil {
			return fmt.Errorf("spotify api unreachable: %w", err)
		}
		fmt.Printf("✓ Spotify API reachable (test query matched %d tracks)\n", page.Total)
		if len(page.Tracks) > 0 {
			t := page.Tracks[0]
			fmt.Printf("  sample: %q by %s\n", t.Name, t.PrimaryArtist())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(pingCmd)
}
