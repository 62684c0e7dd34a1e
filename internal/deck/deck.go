package deck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arcanaland/tarot-today/internal/card"
)

// SuitPlaceholder is substituted with the card's suit in Structure.Minor.
const SuitPlaceholder = "{suit}"

// ErrInvalidDeck is wrapped by every Validate failure.
var ErrInvalidDeck = errors.New("invalid deck")

// Structure describes the subfolder layout of a deck. Both fields are empty
// for flat decks.
type Structure struct {
	Major string `toml:"major" json:"major" yaml:"major"`
	Minor string `toml:"minor" json:"minor" yaml:"minor"`
}

// Flat reports whether all cards live directly in the deck folder.
func (s Structure) Flat() bool {
	return s.Major == "" && s.Minor == ""
}

// Deck represents a visual rendering style of the 78-card catalog
type Deck struct {
	ID               string      `toml:"id" json:"id" yaml:"id"`
	Name             string      `toml:"name" json:"name" yaml:"name"`
	Folder           string      `toml:"folder" json:"folder" yaml:"folder"`
	ImageFormat      string      `toml:"image_format" json:"image_format" yaml:"image_format"`
	HasThumbnails    bool        `toml:"has_thumbnails" json:"has_thumbnails" yaml:"has_thumbnails"`
	ThumbnailFolder  string      `toml:"thumbnail_folder" json:"thumbnail_folder,omitempty" yaml:"thumbnail_folder,omitempty"`
	ThumbnailFormats []string    `toml:"thumbnail_formats" json:"thumbnail_formats,omitempty" yaml:"thumbnail_formats,omitempty"`
	Structure        Structure   `toml:"structure" json:"structure" yaml:"structure"`
	NumberingOffset  int         `toml:"numbering_offset" json:"numbering_offset" yaml:"numbering_offset"`
	SuitOrder        []card.Suit `toml:"suit_order" json:"suit_order,omitempty" yaml:"suit_order,omitempty"`

	// NumericMinorRanks marks decks whose minor arcana files are named by
	// rank number only (1-of-cups.png, 11-of-cups.png).
	NumericMinorRanks bool `toml:"numeric_minor_ranks" json:"numeric_minor_ranks" yaml:"numeric_minor_ranks"`
}

// HasCustomSuitOrder reports whether the deck enumerates suits differently
// from the catalog.
func (d Deck) HasCustomSuitOrder() bool {
	return len(d.SuitOrder) > 0
}

// SuitPosition returns the on-disk position of a suit for this deck.
func (d Deck) SuitPosition(s card.Suit) int {
	if !d.HasCustomSuitOrder() {
		return card.SuitIndex(s)
	}
	for i, o := range d.SuitOrder {
		if o == s {
			return i
		}
	}
	return -1
}

// Subfolder returns the structural folder holding the card, or "" for a
// flat deck.
func (d Deck) Subfolder(c card.Card) string {
	if c.Type == card.Major {
		return d.Structure.Major
	}
	if c.IsMinor() {
		return strings.ReplaceAll(d.Structure.Minor, SuitPlaceholder, string(c.Suit))
	}
	return ""
}

// SupportsThumbnailFormat reports whether the deck declares format.
func (d Deck) SupportsThumbnailFormat(format string) bool {
	for _, f := range d.ThumbnailFormats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// Validate checks the deck definition for internal consistency.
func (d Deck) Validate() error {
	var problems []string

	if d.ID == "" {
		problems = append(problems, "id is required")
	}
	if d.Folder == "" {
		problems = append(problems, "folder is required")
	}
	if d.ImageFormat == "" {
		problems = append(problems, "image_format is required")
	}
	if d.NumberingOffset < 0 {
		problems = append(problems, fmt.Sprintf("numbering_offset must not be negative (got %d)", d.NumberingOffset))
	}
	if d.HasThumbnails && len(d.ThumbnailFormats) == 0 {
		problems = append(problems, "thumbnail_formats is required when has_thumbnails is set")
	}
	if d.HasThumbnails && d.ThumbnailFolder == "" {
		problems = append(problems, "thumbnail_folder is required when has_thumbnails is set")
	}
	if (d.Structure.Major == "") != (d.Structure.Minor == "") {
		problems = append(problems, "structure must set both major and minor, or neither")
	}
	if d.Structure.Minor != "" && d.Structure.Major == d.Structure.Minor {
		problems = append(problems, "structure.minor must differ from structure.major")
	}
	if d.Structure.Minor != "" && !strings.Contains(d.Structure.Minor, SuitPlaceholder) {
		problems = append(problems, "structure.minor must contain "+SuitPlaceholder)
	}
	if d.HasCustomSuitOrder() {
		if err := validateSuitOrder(d.SuitOrder); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		id := d.ID
		if id == "" {
			id = "<unnamed>"
		}
		return fmt.Errorf("%w %s: %s", ErrInvalidDeck, id, strings.Join(problems, "; "))
	}
	return nil
}

func validateSuitOrder(order []card.Suit) error {
	if len(order) != 4 {
		return fmt.Errorf("suit_order must list 4 suits (got %d)", len(order))
	}
	seen := make(map[card.Suit]bool, 4)
	for _, s := range order {
		if !card.ValidSuit(s) {
			return fmt.Errorf("suit_order has unknown suit %q", s)
		}
		if seen[s] {
			return fmt.Errorf("suit_order repeats suit %q", s)
		}
		seen[s] = true
	}
	return nil
}
