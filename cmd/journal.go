package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arcanaland/tarot-today/internal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Review past readings",
}

var journalListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List recent readings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		output, _ := cmd.Flags().GetString("output")

		store, err := journal.Open(appConfig.JournalPath)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.List(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if output == "yaml" {
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(entries)
		}

		if len(entries) == 0 {
			fmt.Println("No readings recorded yet.")
			return nil
		}
		for _, e := range entries {
			fmt.Printf("%s  %s %s %s\n",
				color.CyanString(e.DrawnAt.Local().Format("2006-01-02 15:04")),
				color.HiWhiteString(e.CardName), e.Orientation,
				color.New(color.Faint).Sprintf("[%s]", e.Deck))
			if e.Question != "" {
				fmt.Printf("  Q: %s\n", e.Question)
			}
		}
		return nil
	},
}

var journalClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every recorded reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := journal.Open(appConfig.JournalPath)
		if err != nil {
			return err
		}
		defer store.Close()

		n, err := store.Clear(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d readings\n", n)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalClearCmd)

	journalListCmd.Flags().IntP("limit", "n", 20, "Maximum number of readings to show")
	journalListCmd.Flags().StringP("output", "o", "text", "Output format: text or yaml")
}
