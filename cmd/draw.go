package cmd

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/tarot-today/internal/ansiart"
	"github.com/arcanaland/tarot-today/internal/config"
	"github.com/arcanaland/tarot-today/internal/journal"
	"github.com/arcanaland/tarot-today/internal/loader"
	"github.com/arcanaland/tarot-today/internal/reading"
)

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Draw the card of the day",
	Long: `Draw picks a random card and orientation from the selected deck, prints its
advice in the chosen language and records the reading in the journal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lang, _ := cmd.Flags().GetString("lang")
		if lang == "" {
			lang = appConfig.Language
		}
		question, _ := cmd.Flags().GetString("question")

		reader, err := reading.NewReader(loader.New(registry, nil, loader.WithLogger(logger)))
		if err != nil {
			return err
		}

		s := &reading.Session{Deck: deckOrDefault(cmd), Language: lang, Question: question}
		rd, err := reader.Draw(s, stdRNG{})
		if err != nil {
			return err
		}

		fmt.Println()
		if rd.Question != "" {
			fmt.Printf("  %s\n\n", color.New(color.Italic).Sprint(rd.Question))
		}
		fmt.Printf("  %s %s\n", color.HiWhiteString(rd.Card.Name), color.CyanString(rd.Orientation))
		for _, line := range ansiart.Wrap(rd.Advice, 72) {
			fmt.Printf("  %s\n", line)
		}
		fmt.Println()

		if skip, _ := cmd.Flags().GetBool("no-journal"); skip {
			return nil
		}
		store, err := journal.Open(appConfig.JournalPath)
		if err != nil {
			return err
		}
		defer store.Close()
		if _, err := store.Record(cmd.Context(), rd); err != nil {
			return fmt.Errorf("error recording reading: %w", err)
		}
		return nil
	},
}

var langCmd = &cobra.Command{
	Use:   "lang [code]",
	Short: "Show or set the reading language",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Println(appConfig.Language)
			return nil
		}

		lang := strings.ToLower(args[0])
		known := false
		for _, l := range reading.Languages {
			if l == lang {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("unknown language %q (want one of %s)", lang, strings.Join(reading.Languages, ", "))
		}

		if err := config.SetLanguage(lang); err != nil {
			return fmt.Errorf("error setting language: %w", err)
		}
		fmt.Printf("Language set to: %s\n", lang)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(drawCmd)
	RootCmd.AddCommand(langCmd)

	drawCmd.Flags().StringP("deck", "d", "", "Deck to draw from (defaults to the configured deck)")
	drawCmd.Flags().StringP("lang", "l", "", "Reading language (defaults to the configured language)")
	drawCmd.Flags().StringP("question", "q", "", "Question to ask the cards")
	drawCmd.Flags().Bool("no-journal", false, "Do not record the reading")
}
