// Package loader turns a (deck, card) pair into image paths and responsive
// image markup.
//
// Every deck-specific quirk (folder layout, numbering offset, suit order,
// numeric rank file names) is read from the deck record, so one routine
// serves all decks.
package loader

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arcanaland/tarot-today/internal/card"
	"github.com/arcanaland/tarot-today/internal/deck"
	"github.com/arcanaland/tarot-today/internal/pathresolve"
)

// AssetsRoot is the site folder holding every deck folder.
const AssetsRoot = "decks"

// DefaultPlaceholder is shown in place of an image that failed to load.
const DefaultPlaceholder = "images/card-back.svg"

var (
	// ErrUnknownDeck is returned for deck ids absent from the registry.
	ErrUnknownDeck = errors.New("unknown deck")
	// ErrImageLoad is returned when an image cannot be fetched or decoded.
	ErrImageLoad = errors.New("image load failed")
	// ErrPathCollision is returned by Verify when two cards share a file.
	ErrPathCollision = errors.New("path collision")
)

// Loader resolves card images for the decks of a registry.
type Loader struct {
	decks    *deck.Registry
	resolver *pathresolve.Resolver
	logger   *slog.Logger
	fetcher  Fetcher
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger used for reported failures.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithFetcher sets the fetcher used by Preload.
func WithFetcher(f Fetcher) Option {
	return func(l *Loader) { l.fetcher = f }
}

// New returns a loader. A nil registry means the built-in decks and a nil
// resolver resolves from the site root.
func New(decks *deck.Registry, resolver *pathresolve.Resolver, opts ...Option) *Loader {
	if decks == nil {
		decks = deck.Default()
	}
	if resolver == nil {
		resolver = pathresolve.New(pathresolve.Static("/"))
	}
	l := &Loader{
		decks:    decks,
		resolver: resolver,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Decks returns the registry the loader reads from.
func (l *Loader) Decks() *deck.Registry {
	return l.decks
}

// Resolver returns the path resolver of the loader.
func (l *Loader) Resolver() *pathresolve.Resolver {
	return l.resolver
}

// Deck looks up a deck by id.
func (l *Loader) Deck(deckID string) (deck.Deck, error) {
	d, ok := l.decks.Get(deckID)
	if !ok {
		return deck.Deck{}, fmt.Errorf("%w: %s", ErrUnknownDeck, deckID)
	}
	return d, nil
}

// CardFileNumber computes the file sequence number of c in deck d.
//
// Minor cards of a deck with a custom suit order are moved to their suit's
// on-disk block: 22 + position*14 + rank within suit. The deck's numbering
// offset is added last.
func CardFileNumber(d deck.Deck, c card.Card) int {
	n := c.ID

	if c.IsMinor() && d.HasCustomSuitOrder() {
		rank := c.RankInSuit()
		pos := d.SuitPosition(c.Suit)
		if rank >= 0 && pos >= 0 {
			n = card.MajorCount + pos*card.SuitSize + rank
		}
	}

	return n + d.NumberingOffset
}

var rankNumbers = map[string]string{
	"ace":    "1",
	"two":    "2",
	"three":  "3",
	"four":   "4",
	"five":   "5",
	"six":    "6",
	"seven":  "7",
	"eight":  "8",
	"nine":   "9",
	"ten":    "10",
	"page":   "11",
	"knight": "12",
	"queen":  "13",
	"king":   "14",
}

// NumericRankFilename replaces a leading rank word with its number:
// ace-of-cups -> 1-of-cups, two-of-wands -> 2-of-wands,
// king-of-pentacles -> 14-of-pentacles. Other stems are returned unchanged.
func NumericRankFilename(stem string) string {
	word, rest, found := strings.Cut(stem, "-")
	if !found {
		return stem
	}
	if num, ok := rankNumbers[word]; ok {
		return num + "-" + rest
	}
	return stem
}

// Filename builds the on-disk file name of c in deck d with extension ext.
func Filename(d deck.Deck, c card.Card, ext string) string {
	if c.IsMinor() && d.NumericMinorRanks {
		return NumericRankFilename(c.Filename) + "." + ext
	}
	return fmt.Sprintf("%02d-%s.%s", CardFileNumber(d, c), c.Filename, ext)
}

func (l *Loader) path(root string, d deck.Deck, c card.Card, ext string) string {
	return l.resolver.Resolve(AssetsRoot, root, d.Subfolder(c), Filename(d, c, ext))
}

// Image returns the path of the full-size image of c.
func (l *Loader) Image(deckID string, c card.Card) (string, error) {
	d, err := l.Deck(deckID)
	if err != nil {
		return "", err
	}
	return l.path(d.Folder, d, c, d.ImageFormat), nil
}

// Thumbnail returns the path of the thumbnail of c in format. An empty
// format selects the deck's first thumbnail format; a format the deck does
// not declare is replaced by the first declared one. Decks without
// thumbnails yield the full-size image.
func (l *Loader) Thumbnail(deckID string, c card.Card, format string) (string, error) {
	d, err := l.Deck(deckID)
	if err != nil {
		return "", err
	}
	if !d.HasThumbnails || len(d.ThumbnailFormats) == 0 {
		return l.path(d.Folder, d, c, d.ImageFormat), nil
	}

	switch {
	case format == "":
		format = d.ThumbnailFormats[0]
	case !d.SupportsThumbnailFormat(format):
		l.logger.Warn("unsupported thumbnail format",
			"deck", deckID,
			"card", c.Name,
			"format", format,
			"fallback", d.ThumbnailFormats[0],
		)
		format = d.ThumbnailFormats[0]
	}

	return l.path(d.ThumbnailFolder, d, c, strings.ToLower(format)), nil
}

// ImagePath is Image for callers that cannot handle errors: an unknown
// deck is logged and yields "".
func (l *Loader) ImagePath(deckID string, c card.Card) string {
	p, err := l.Image(deckID, c)
	if err != nil {
		l.logger.Error("cannot resolve image", "deck", deckID, "card", c.Name, "error", err)
		return ""
	}
	return p
}

// ThumbnailPath is Thumbnail for callers that cannot handle errors: an
// unknown deck is logged and yields "".
func (l *Loader) ThumbnailPath(deckID string, c card.Card, format string) string {
	p, err := l.Thumbnail(deckID, c, format)
	if err != nil {
		l.logger.Error("cannot resolve thumbnail", "deck", deckID, "card", c.Name, "format", format, "error", err)
		return ""
	}
	return p
}

// AllCards returns the full catalog.
func (l *Loader) AllCards() []card.Card {
	return card.All()
}

// CardByName looks a card up by exact name.
func (l *Loader) CardByName(name string) (card.Card, error) {
	return card.ByName(name)
}

// CardByID looks a card up by catalog id.
func (l *Loader) CardByID(id int) (card.Card, error) {
	return card.ByID(id)
}

// Verify checks that every card of the deck resolves to a distinct
// full-size path and, per thumbnail format, a distinct thumbnail path.
func (l *Loader) Verify(deckID string) error {
	d, err := l.Deck(deckID)
	if err != nil {
		return err
	}

	check := func(kind, root, ext string) error {
		seen := make(map[string]string, card.Total)
		for _, c := range card.All() {
			p := l.path(root, d, c, ext)
			if p == "" {
				return fmt.Errorf("%s %s: empty path for %s", deckID, kind, c.Name)
			}
			if other, dup := seen[p]; dup {
				return fmt.Errorf("%w in %s %s: %s and %s both resolve to %s",
					ErrPathCollision, deckID, kind, other, c.Name, p)
			}
			seen[p] = c.Name
		}
		return nil
	}

	if err := check("images", d.Folder, d.ImageFormat); err != nil {
		return err
	}
	if d.HasThumbnails {
		for _, f := range d.ThumbnailFormats {
			if err := check("thumbnails", d.ThumbnailFolder, f); err != nil {
				return err
			}
		}
	}
	return nil
}
