package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcanaland/tarot-today/internal/journal"
	"github.com/arcanaland/tarot-today/internal/loader"
	"github.com/arcanaland/tarot-today/internal/reading"
	"github.com/arcanaland/tarot-today/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site and the card API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = appConfig.HTTPAddr
		}

		reader, err := reading.NewReader(loader.New(registry, nil, loader.WithLogger(logger)))
		if err != nil {
			return err
		}

		store, err := journal.Open(appConfig.JournalPath)
		if err != nil {
			return err
		}
		defer store.Close()

		h := server.NewHandler(server.Config{
			Decks:       registry,
			Reader:      reader,
			Journal:     store,
			RNG:         stdRNG{},
			Logger:      logger,
			Subfolder:   appConfig.Subfolder,
			Placeholder: appConfig.Placeholder,
			DefaultDeck: appConfig.DefaultDeck,
			DefaultLang: appConfig.Language,
		})
		srv := &http.Server{
			Addr: addr,
			Handler: server.NewRouter(h, &server.RouterOptions{
				RateLimit:      appConfig.RateLimit,
				RateLimitBurst: appConfig.RateLimitBurst,
				SiteDir:        siteDir(cmd),
			}),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("starting server", "addr", addr, "site", siteDir(cmd))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		case <-cmd.Context().Done():
		}
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", "error", err)
			return err
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (defaults to http_addr)")
	serveCmd.Flags().String("site", "", "Site root to serve (defaults to site_root)")
}
