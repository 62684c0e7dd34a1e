package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arcanaland/tarot-today/internal/config"
	"github.com/arcanaland/tarot-today/internal/deck"
)

var (
	appConfig *config.Config
	logger    *slog.Logger
	registry  *deck.Registry
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tarot-today",
	Short: "Tool for serving and managing the Tarot Today decks",
	Long: `Tarot Today draws a card of the day from one of several illustrated decks.
This tool resolves deck image paths, renders responsive picture markup,
generates and validates thumbnails, keeps a journal of readings and serves the site.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg
		logger = cfg.NewLogger(os.Stderr)
		slog.SetDefault(logger)

		registry, err = deck.Load(cfg.DecksFile)
		if err != nil {
			return fmt.Errorf("error loading decks file: %w", err)
		}
		return nil
	},
}

// deckOrDefault returns the --deck flag value or the configured default.
func deckOrDefault(cmd *cobra.Command) string {
	if id, _ := cmd.Flags().GetString("deck"); id != "" {
		return id
	}
	return appConfig.DefaultDeck
}

// siteDir returns the --site flag value or the configured site root.
func siteDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("site"); dir != "" {
		return dir
	}
	return appConfig.SiteRoot
}

// Execute adds all child commands to the root command and sets flags
// appropriately. An interrupt cancels the command's context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}
