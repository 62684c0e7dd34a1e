package cmd

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/tarot-today/internal/card"
	"github.com/arcanaland/tarot-today/internal/loader"
	"github.com/arcanaland/tarot-today/internal/pathresolve"
	"github.com/arcanaland/tarot-today/internal/thumbnail"
)

var thumbnailsCmd = &cobra.Command{
	Use:   "thumbnails [deck_id]",
	Short: "Generate the thumbnails of a deck",
	Long: fmt.Sprintf(`Thumbnails reads every full-size card image of a deck from the site root and
writes a thumbnail fitting %dx%d per declared thumbnail format. WebP and
JPEG output use quality %d.`,
		thumbnail.Width, thumbnail.Height, thumbnail.Quality),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckID := appConfig.DefaultDeck
		if len(args) == 1 {
			deckID = args[0]
		}

		results, err := thumbnail.New(registry, siteDir(cmd), logger).Deck(cmd.Context(), deckID)
		if err != nil {
			return err
		}

		var written, skipped, failed int
		for _, r := range results {
			written += len(r.Written)
			skipped += len(r.Skipped)
			if r.Err != nil {
				failed++
				fmt.Printf("%s %s: %v\n", color.RedString("✗"), r.Card.Name, r.Err)
			}
		}

		fmt.Printf("%s %d thumbnails written, %d skipped, %d cards failed\n",
			color.CyanString(deckID+":"), written, skipped, failed)
		if failed > 0 {
			return fmt.Errorf("%d of %d cards failed", failed, len(results))
		}
		return nil
	},
}

var preloadCmd = &cobra.Command{
	Use:   "preload [deck_id]",
	Short: "Load every card image of a deck and report failures",
	Long: `Preload fetches the full-size image of every card, from the site root on disk
or, with --url, from a running site. It exits non-zero when any image fails.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckID := appConfig.DefaultDeck
		if len(args) == 1 {
			deckID = args[0]
		}
		workers, _ := cmd.Flags().GetInt("workers")
		base, _ := cmd.Flags().GetString("url")

		var fetcher loader.Fetcher = loader.DirFetcher{Dir: siteDir(cmd)}
		if base != "" {
			page, err := url.Parse(base)
			if err != nil {
				return fmt.Errorf("invalid --url: %w", err)
			}
			fetcher = loader.HTTPFetcher{Client: &http.Client{Timeout: 30 * time.Second}, Page: page}
		}

		l := loader.New(registry, pathresolve.New(pathresolve.Static("/")),
			loader.WithLogger(logger), loader.WithFetcher(fetcher))
		if _, err := l.Deck(deckID); err != nil {
			return err
		}

		start := time.Now()
		results := l.PreloadAll(cmd.Context(), deckID, card.All(), workers)
		err := loader.Failed(results)

		loaded := 0
		for _, r := range results {
			if r.Err == nil {
				loaded++
			}
		}
		fmt.Printf("%s %d of %d images loaded in %s\n",
			color.CyanString(deckID+":"), loaded, len(results), time.Since(start).Round(time.Millisecond))
		return err
	},
}

func init() {
	RootCmd.AddCommand(thumbnailsCmd)
	RootCmd.AddCommand(preloadCmd)

	for _, c := range []*cobra.Command{thumbnailsCmd, preloadCmd} {
		c.Flags().String("site", "", "Site root holding the decks/ folder (defaults to site_root)")
	}
	preloadCmd.Flags().Int("workers", 8, "Number of concurrent fetches")
	preloadCmd.Flags().String("url", "", "Fetch from a running site at this base URL instead of disk")
}
