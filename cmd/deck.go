package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/tarot-today/internal/config"
	"github.com/arcanaland/tarot-today/internal/loader"
)

// deckCmd represents the deck command group
var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Inspect and select tarot decks",
	Long:  `Commands for listing the registered decks, showing their layout and choosing the default one.`,
}

// deckListCmd represents the deck list command
var deckListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List registered decks",
	Run: func(cmd *cobra.Command, args []string) {
		for _, d := range registry.All() {
			if d.ID == appConfig.DefaultDeck {
				fmt.Printf("* %s (%s) [DEFAULT]\n", color.HiWhiteString(d.ID), d.Name)
			} else {
				fmt.Printf("  %s (%s)\n", d.ID, d.Name)
			}
		}
	},
}

// deckShowCmd represents the deck show command
var deckShowCmd = &cobra.Command{
	Use:   "show [deck_id]",
	Short: "Show how a deck lays out its files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := loader.New(registry, nil).Deck(args[0])
		if err != nil {
			return err
		}

		label := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("%s %s\n", label("Deck:     "), color.HiWhiteString(d.Name))
		fmt.Printf("%s %s\n", label("ID:       "), d.ID)
		fmt.Printf("%s %s/%s (%s)\n", label("Images:   "), loader.AssetsRoot, d.Folder, d.ImageFormat)
		if d.HasThumbnails {
			fmt.Printf("%s %s/%s (%s)\n", label("Thumbnails:"), loader.AssetsRoot, d.ThumbnailFolder,
				strings.Join(d.ThumbnailFormats, ", "))
		} else {
			fmt.Printf("%s none\n", label("Thumbnails:"))
		}
		if d.Structure.Flat() {
			fmt.Printf("%s flat\n", label("Structure:"))
		} else {
			fmt.Printf("%s %s, %s\n", label("Structure:"), d.Structure.Major, d.Structure.Minor)
		}
		fmt.Printf("%s %d\n", label("Offset:   "), d.NumberingOffset)
		if d.HasCustomSuitOrder() {
			suits := make([]string, len(d.SuitOrder))
			for i, s := range d.SuitOrder {
				suits[i] = string(s)
			}
			fmt.Printf("%s %s\n", label("Suit order:"), strings.Join(suits, ", "))
		}
		return nil
	},
}

// deckSetDefaultCmd represents the deck set-default command
var deckSetDefaultCmd = &cobra.Command{
	Use:   "set-default [deck_id]",
	Short: "Set the default deck",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deckID := args[0]

		if _, ok := registry.Get(deckID); !ok {
			return fmt.Errorf("%w: %s", loader.ErrUnknownDeck, deckID)
		}

		if err := config.SetDefaultDeck(deckID); err != nil {
			return fmt.Errorf("error setting default deck: %w", err)
		}

		fmt.Printf("Default deck set to: %s\n", deckID)
		return nil
	},
}

// deckVerifyCmd represents the deck verify command
var deckVerifyCmd = &cobra.Command{
	Use:   "verify [deck_id]",
	Short: "Check that every card of a deck resolves to its own file",
	Long: `Verify resolves the image and thumbnail path of all 78 cards and reports
any two cards that would share a file. Without an argument every deck is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := registry.IDs()
		if len(args) == 1 {
			ids = args
		}

		l := loader.New(registry, nil, loader.WithLogger(logger))
		failed := 0
		for _, id := range ids {
			if err := l.Verify(id); err != nil {
				fmt.Printf("%s %s: %v\n", color.RedString("✗"), id, err)
				failed++
				continue
			}
			fmt.Printf("%s %s\n", color.GreenString("✓"), id)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d decks failed verification", failed, len(ids))
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(deckCmd)
	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckShowCmd)
	deckCmd.AddCommand(deckSetDefaultCmd)
	deckCmd.AddCommand(deckVerifyCmd)
}
