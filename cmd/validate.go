package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcanaland/tarot-today/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [site_dir]",
	Short: "Validate the deck files of a site directory",
	Long: `Validate checks that a site directory holds every file the loader resolves
for a deck: all 78 full-size images, the thumbnails of each declared format
and the placeholder image. Missing images are errors; missing or oversized
thumbnails and stray files are warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := appConfig.SiteRoot
		if len(args) == 1 {
			dir = args[0]
		}
		deckID := deckOrDefault(cmd)

		// Check if path exists
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("site directory not found: %s", dir)
		}

		v := validator.NewValidator(registry, dir, deckID)
		v.Placeholder = appConfig.Placeholder
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		// Display validation results
		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Printf("✅ Deck '%s' in '%s' is complete.\n", deckID, dir)
		} else {
			fmt.Printf("❌ Deck '%s' in '%s' has %d validation errors:\n", deckID, dir, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		if !results.OK() {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringP("deck", "d", "", "Deck to validate (defaults to the configured deck)")
}
