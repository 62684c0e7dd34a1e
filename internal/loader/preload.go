package loader

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "golang.org/x/image/webp"

	"github.com/arcanaland/tarot-today/internal/card"
)

// Fetcher loads the image at a page-relative path.
type Fetcher interface {
	Fetch(ctx context.Context, path string) error
}

// HTTPFetcher fetches images over HTTP, resolving paths against Page the
// way a browser resolves them against the current document.
type HTTPFetcher struct {
	Client *http.Client
	Page   *url.URL
}

func (f HTTPFetcher) Fetch(ctx context.Context, path string) error {
	if f.Page == nil {
		return fmt.Errorf("%w: %s: no page URL", ErrImageLoad, path)
	}
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageLoad, path, err)
	}
	target := f.Page.ResolveReference(ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageLoad, path, err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageLoad, target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s: status %d", ErrImageLoad, target, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%w: %s: content type %s", ErrImageLoad, target, ct)
	}
	_, err = io.Copy(io.Discard, resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageLoad, target, err)
	}
	return nil
}

// DirFetcher loads images from disk. Dir is the directory of the current
// page, so "../decks/..." paths resolve like they would in a browser.
type DirFetcher struct {
	Dir string
}

func (f DirFetcher) Fetch(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	full := filepath.Join(f.Dir, filepath.FromSlash(path))
	file, err := os.Open(full)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrImageLoad, err)
	}
	defer file.Close()

	if _, _, err := image.DecodeConfig(file); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImageLoad, full, err)
	}
	return nil
}

// Preload fetches the full-size image of c so it is warm before display.
func (l *Loader) Preload(ctx context.Context, deckID string, c card.Card) error {
	p, err := l.Image(deckID, c)
	if err != nil {
		return err
	}
	if l.fetcher == nil {
		return fmt.Errorf("%w: %s: no fetcher configured", ErrImageLoad, p)
	}
	if err := l.fetcher.Fetch(ctx, p); err != nil {
		l.logger.Warn("preload failed", "deck", deckID, "card", c.Name, "path", p, "error", err)
		return err
	}
	return nil
}

// PreloadResult is the outcome of preloading one card.
type PreloadResult struct {
	Card card.Card
	Err  error
}

// PreloadAll preloads cards with at most workers concurrent fetches. Results
// are returned in the order of cards.
func (l *Loader) PreloadAll(ctx context.Context, deckID string, cards []card.Card, workers int) []PreloadResult {
	if workers < 1 {
		workers = 1
	}

	results := make([]PreloadResult, len(cards))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for i, c := range cards {
		results[i].Card = c

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		}

		wg.Add(1)
		go func(i int, c card.Card) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i].Err = l.Preload(ctx, deckID, c)
		}(i, c)
	}

	wg.Wait()
	return results
}

// Failed returns the errors of the unsuccessful results joined together.
func Failed(results []PreloadResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", r.Card.Name, r.Err))
		}
	}
	return errors.Join(errs...)
}
