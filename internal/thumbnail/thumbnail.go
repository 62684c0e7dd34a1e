// Package thumbnail writes the reduced card images served in galleries.
package thumbnail

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	webpenc "github.com/gen2brain/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/arcanaland/tarot-today/internal/card"
	"github.com/arcanaland/tarot-today/internal/deck"
	"github.com/arcanaland/tarot-today/internal/loader"
	"github.com/arcanaland/tarot-today/internal/pathresolve"
)

const (
	Width   = 300
	Height  = 520
	Quality = 80
)

var (
	// ErrNoThumbnails is returned for decks that do not declare thumbnails.
	ErrNoThumbnails = errors.New("deck has no thumbnails")
	// ErrUnsupportedFormat is returned for formats that cannot be encoded.
	ErrUnsupportedFormat = errors.New("unsupported thumbnail format")
)

// Result is the outcome for one card.
type Result struct {
	Card    card.Card
	Source  string
	Written []string
	Skipped []string
	Err     error
}

// Generator builds thumbnails for the decks of a site directory.
type Generator struct {
	loader  *loader.Loader
	siteDir string
	logger  *slog.Logger
	workers int
}

// New returns a generator reading and writing below siteDir.
func New(decks *deck.Registry, siteDir string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		loader:  loader.New(decks, pathresolve.New(pathresolve.Static("/")), loader.WithLogger(logger)),
		siteDir: siteDir,
		logger:  logger,
		workers: 4,
	}
}

// Deck generates a thumbnail per declared format for every card of the
// deck. Formats that cannot be encoded are reported as skipped.
func (g *Generator) Deck(ctx context.Context, deckID string) ([]Result, error) {
	d, err := g.loader.Deck(deckID)
	if err != nil {
		return nil, err
	}
	if !d.HasThumbnails {
		return nil, fmt.Errorf("%w: %s", ErrNoThumbnails, deckID)
	}

	cards := card.All()
	results := make([]Result, len(cards))
	sem := make(chan struct{}, g.workers)
	var wg sync.WaitGroup

	for i, c := range cards {
		if err := ctx.Err(); err != nil {
			results[i] = Result{Card: c, Err: err}
			continue
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, c card.Card) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = g.card(d, c)
		}(i, c)
	}
	wg.Wait()

	return results, nil
}

func (g *Generator) card(d deck.Deck, c card.Card) Result {
	res := Result{Card: c}

	src, err := g.loader.Image(d.ID, c)
	if err != nil {
		res.Err = err
		return res
	}
	res.Source = g.onDisk(src)

	img, err := decodeFile(res.Source)
	if err != nil {
		res.Err = err
		return res
	}
	thumb := Resize(img, Width, Height)

	for _, format := range d.ThumbnailFormats {
		if !Supported(format) {
			res.Skipped = append(res.Skipped, format)
			continue
		}
		dst, err := g.loader.Thumbnail(d.ID, c, format)
		if err != nil {
			res.Err = err
			return res
		}
		dst = g.onDisk(dst)
		if err := writeFile(dst, thumb, format); err != nil {
			res.Err = err
			return res
		}
		res.Written = append(res.Written, dst)
	}

	g.logger.Debug("thumbnail generated", "deck", d.ID, "card", c.Name, "written", len(res.Written))
	return res
}

func (g *Generator) onDisk(p string) string {
	return filepath.Join(g.siteDir, filepath.FromSlash(p))
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

func writeFile(path string, img image.Image, format string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}

// Supported reports whether Encode can write format.
func Supported(format string) bool {
	switch strings.ToLower(format) {
	case "jpg", "jpeg", "png", "webp":
		return true
	}
	return false
}

// Encode writes img in format. JPEG and WebP use Quality.
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: Quality})
	case "png":
		return png.Encode(w, img)
	case "webp":
		return webpenc.Encode(w, img, webpenc.Options{Quality: Quality})
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Resize scales src to fit inside maxW x maxH keeping its aspect ratio.
// Images already inside the box are returned unchanged.
func Resize(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 || (w <= maxW && h <= maxH) {
		return src
	}

	// Scale by the tighter of the two ratios.
	nw, nh := maxW, h*maxW/w
	if nh > maxH {
		nw, nh = w*maxH/h, maxH
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
