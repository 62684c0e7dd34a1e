package validator

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	_ "golang.org/x/image/webp"

	"github.com/arcanaland/tarot-today/internal/card"
	"github.com/arcanaland/tarot-today/internal/deck"
	"github.com/arcanaland/tarot-today/internal/loader"
	"github.com/arcanaland/tarot-today/internal/pathresolve"
	"github.com/arcanaland/tarot-today/internal/thumbnail"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

// OK reports whether no errors were found.
func (r ValidationResults) OK() bool {
	return len(r.Errors) == 0
}

// Validator checks that a site directory holds every file the loader
// resolves for a deck.
type Validator struct {
	SiteDir     string
	DeckID      string
	Placeholder string
	Results     ValidationResults

	loader *loader.Loader
	deck   deck.Deck
	// site-relative paths the deck is expected to use
	expected map[string]bool
}

func NewValidator(decks *deck.Registry, siteDir, deckID string) *Validator {
	return &Validator{
		SiteDir:     siteDir,
		DeckID:      deckID,
		Placeholder: loader.DefaultPlaceholder,
		loader:      loader.New(decks, pathresolve.New(pathresolve.Static("/"))),
		expected:    make(map[string]bool),
	}
}

// Validate checks the site from scratch; results of an earlier call are
// discarded.
func (v *Validator) Validate() (ValidationResults, error) {
	v.Results = ValidationResults{}
	v.expected = make(map[string]bool)

	if _, err := os.Stat(v.SiteDir); err != nil {
		return v.Results, fmt.Errorf("site directory not found: %s", v.SiteDir)
	}

	d, err := v.loader.Deck(v.DeckID)
	if err != nil {
		return v.Results, err
	}
	v.deck = d

	if err := v.validateDeckDefinition(); err != nil {
		return v.Results, nil
	}

	v.validateImages()
	v.validateThumbnails()
	v.validatePlaceholder()
	v.validateStrayFiles()

	return v.Results, nil
}

func (v *Validator) errorf(format string, args ...any) {
	v.Results.Errors = append(v.Results.Errors, fmt.Sprintf(format, args...))
}

func (v *Validator) warnf(format string, args ...any) {
	v.Results.Warnings = append(v.Results.Warnings, fmt.Sprintf(format, args...))
}

func (v *Validator) onDisk(p string) string {
	return filepath.Join(v.SiteDir, filepath.FromSlash(p))
}

// validateDeckDefinition checks the deck record and that no two cards share
// a file. Later steps are meaningless if it fails.
func (v *Validator) validateDeckDefinition() error {
	if err := v.deck.Validate(); err != nil {
		v.errorf("%v", err)
		return err
	}
	if err := v.loader.Verify(v.DeckID); err != nil {
		v.errorf("%v", err)
		return err
	}
	return nil
}

// validateImages checks that every full-size image exists and decodes
func (v *Validator) validateImages() {
	folder := v.onDisk(pathresolve.Join(loader.AssetsRoot, v.deck.Folder))
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		v.errorf("deck folder not found: %s", folder)
		return
	}

	for _, c := range card.All() {
		p, _ := v.loader.Image(v.DeckID, c)
		v.expected[p] = true

		full := v.onDisk(p)
		if _, err := os.Stat(full); os.IsNotExist(err) {
			v.errorf("image not found for %s: %s", c.Name, p)
			continue
		}
		if _, err := decodeConfig(full); err != nil {
			v.errorf("image for %s cannot be decoded: %s (%v)", c.Name, p, err)
		}
	}
}

// validateThumbnails checks thumbnails in every declared format. Missing
// thumbnails are warnings since pages fall back to the card back.
func (v *Validator) validateThumbnails() {
	if !v.deck.HasThumbnails {
		return
	}

	folder := v.onDisk(pathresolve.Join(loader.AssetsRoot, v.deck.ThumbnailFolder))
	if _, err := os.Stat(folder); os.IsNotExist(err) {
		v.warnf("thumbnail folder not found: %s", folder)
		return
	}

	for _, format := range v.deck.ThumbnailFormats {
		missing := 0
		for _, c := range card.All() {
			p, _ := v.loader.Thumbnail(v.DeckID, c, format)
			v.expected[p] = true

			full := v.onDisk(p)
			if _, err := os.Stat(full); os.IsNotExist(err) {
				missing++
				continue
			}
			cfg, err := decodeConfig(full)
			if err != nil {
				v.warnf("thumbnail for %s cannot be decoded: %s (%v)", c.Name, p, err)
				continue
			}
			if cfg.Width > thumbnail.Width || cfg.Height > thumbnail.Height {
				v.warnf("thumbnail for %s is %dx%d, larger than %dx%d: %s",
					c.Name, cfg.Width, cfg.Height, thumbnail.Width, thumbnail.Height, p)
			}
		}
		if missing > 0 {
			v.warnf("%d of %d %s thumbnails missing", missing, card.Total, format)
		}
	}
}

// validatePlaceholder checks the image shown when a card fails to load
func (v *Validator) validatePlaceholder() {
	if v.Placeholder == "" {
		return
	}
	if _, err := os.Stat(v.onDisk(v.Placeholder)); os.IsNotExist(err) {
		v.warnf("placeholder image not found: %s", v.Placeholder)
	}
}

// validateStrayFiles reports files in the deck folders no card resolves to
func (v *Validator) validateStrayFiles() {
	roots := []string{v.deck.Folder}
	if v.deck.HasThumbnails {
		roots = append(roots, v.deck.ThumbnailFolder)
	}

	var stray []string
	for _, root := range roots {
		base := pathresolve.Join(loader.AssetsRoot, root)
		_ = filepath.WalkDir(v.onDisk(base), func(path string, e fs.DirEntry, err error) error {
			if err != nil || e.IsDir() || e.Name()[0] == '.' {
				return nil
			}
			rel, err := filepath.Rel(v.SiteDir, path)
			if err != nil {
				return nil
			}
			if rel = filepath.ToSlash(rel); !v.expected[rel] {
				stray = append(stray, rel)
			}
			return nil
		})
	}

	sort.Strings(stray)
	for _, s := range stray {
		v.warnf("unexpected file: %s", s)
	}
}

func decodeConfig(path string) (image.Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return image.Config{}, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	return cfg, err
}
