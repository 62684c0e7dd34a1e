package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/tarot-today/internal/ansiart"
	"github.com/arcanaland/tarot-today/internal/card"
	"github.com/arcanaland/tarot-today/internal/config"
	"github.com/arcanaland/tarot-today/internal/loader"
	"github.com/arcanaland/tarot-today/internal/meanings"
	"github.com/arcanaland/tarot-today/internal/pathresolve"
)

// Art is rendered at 20 columns by 32 rows of half blocks.
const (
	artWidth  = 20
	artHeight = 32
)

var cardCmd = &cobra.Command{
	Use:   "card",
	Short: "Browse the 78-card catalog",
}

var cardListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the cards of the catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		suit, _ := cmd.Flags().GetString("suit")

		cards := card.All()
		switch suit {
		case "":
		case "major":
			cards = card.MajorArcana()
		default:
			if !card.ValidSuit(card.Suit(suit)) {
				return fmt.Errorf("unknown suit: %s", suit)
			}
			cards = card.BySuit(card.Suit(suit))
		}

		return writeCards(os.Stdout, cards, output)
	},
}

// writeCards prints cards as a table, JSON or YAML.
func writeCards(w io.Writer, cards []card.Card, output string) error {
	switch output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(cards)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cards)
	case "", "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tTYPE\tSUIT\tFILE")
		for _, c := range cards {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.Suit, c.Filename)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", output)
	}
}

var cardShowCmd = &cobra.Command{
	Use:   "show [name|id]",
	Short: "Display a card with its meanings",
	Long: `Show displays a card of the catalog with its upright and reversed meanings.
With --art the card image of the selected deck is rendered as ANSI art,
reading the image from the site root.

Examples:
  tarot-today card show "The Fool"
  tarot-today card show 22 --art --deck miro`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := lookupCard(strings.Join(args, " "))
		if err != nil {
			return err
		}

		deckID := deckOrDefault(cmd)
		l := loader.New(registry, pathresolve.New(pathresolve.Static("/")), loader.WithLogger(logger))
		d, err := l.Deck(deckID)
		if err != nil {
			return err
		}

		var art string
		if withArt, _ := cmd.Flags().GetBool("art"); withArt {
			rel, _ := l.Image(deckID, c)
			cache := ansiart.Cache{Dir: filepath.Join(config.GetCacheDir(), "ansi_cache")}
			art, err = cache.Load(filepath.Join(siteDir(cmd), filepath.FromSlash(rel)), artWidth, artHeight, true)
			if err != nil {
				return fmt.Errorf("error rendering card art: %w", err)
			}
		}

		displayCard(c, art, d.Name)
		return nil
	},
}

// lookupCard accepts a catalog id or an exact display name.
func lookupCard(arg string) (card.Card, error) {
	if id, err := strconv.Atoi(arg); err == nil {
		return card.ByID(id)
	}
	return card.ByName(arg)
}

func getSuitSymbol(suit card.Suit) string {
	switch suit {
	case card.Wands:
		return "♣"
	case card.Cups:
		return "♥"
	case card.Swords:
		return "♠"
	case card.Pentacles:
		return "♦"
	default:
		return "•"
	}
}

// displayCard prints the art on the left and the card details beside it.
func displayCard(c card.Card, art, deckName string) {
	var artLines []string
	if art != "" {
		artLines = strings.Split(strings.TrimRight(art, "\n"), "\n")
	}
	maxArtWidth := 0
	for _, line := range artLines {
		if w := ansiart.VisibleWidth(line); w > maxArtWidth {
			maxArtWidth = w
		}
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	label := color.CyanString
	var info []string
	info = append(info, label("Card: ")+color.HiWhiteString("%s", c.Name))
	info = append(info, label("Deck: ")+color.HiWhiteString("%s", deckName))
	info = append(info, label("ID:   ")+color.HiWhiteString("%d", c.ID))
	if c.IsMinor() {
		info = append(info, label("Type: ")+color.HiWhiteString("Minor Arcana"))
		info = append(info, label("Suit: ")+color.HiWhiteString("%s · %s", c.Suit, getSuitSymbol(c.Suit)))
		info = append(info, label("Rank: ")+color.HiWhiteString("%s", c.Rank))
	} else {
		info = append(info, label("Type: ")+color.HiWhiteString("Major Arcana"))
	}

	spacing := 4
	infoStartCol := 0
	if maxArtWidth > 0 {
		infoStartCol = maxArtWidth + spacing
	}
	infoWidth := width - infoStartCol - 2
	if infoWidth < 20 {
		infoWidth = 20
	}

	if m, err := meanings.For(c); err == nil {
		info = append(info, "", label("Upright:"))
		info = append(info, ansiart.Wrap(m.Upright, infoWidth)...)
		info = append(info, "", label("Reversed:"))
		info = append(info, ansiart.Wrap(m.Reversed, infoWidth)...)
	}

	fmt.Println()
	for i := 0; i < max(len(artLines), len(info)); i++ {
		fmt.Print("  ")
		if i < len(artLines) {
			fmt.Print(artLines[i])
			fmt.Print(strings.Repeat(" ", infoStartCol-ansiart.VisibleWidth(artLines[i])))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}
		if i < len(info) {
			fmt.Print(info[i])
		}
		fmt.Println()
	}
	fmt.Println()
}

func init() {
	RootCmd.AddCommand(cardCmd)
	cardCmd.AddCommand(cardListCmd)
	cardCmd.AddCommand(cardShowCmd)

	cardListCmd.Flags().StringP("output", "o", "table", "Output format: table, json or yaml")
	cardListCmd.Flags().String("suit", "", "Only list one suit, or \"major\" for the major arcana")

	cardShowCmd.Flags().StringP("deck", "d", "", "Deck to render (defaults to the configured deck)")
	cardShowCmd.Flags().String("site", "", "Site root holding the decks/ folder (defaults to site_root)")
	cardShowCmd.Flags().Bool("art", false, "Render the card image as ANSI art")
}
