package card

import "strings"

// Arcana is the card family.
type Arcana string

const (
	Major Arcana = "major"
	Minor Arcana = "minor"
)

// Suit is one of the four minor arcana suits.
type Suit string

const (
	Cups      Suit = "cups"
	Pentacles Suit = "pentacles"
	Swords    Suit = "swords"
	Wands     Suit = "wands"
)

// Rank is the position of a minor arcana card inside its suit.
type Rank string

// Card represents a tarot card
type Card struct {
	ID       int    `json:"id" yaml:"id"`             // Catalog id, 0-77
	Name     string `json:"name" yaml:"name"`         // Display name (e.g., The Fool, Ace of Cups)
	Filename string `json:"filename" yaml:"filename"` // Filename stem (e.g., the-fool)
	Type     Arcana `json:"type" yaml:"type"`
	Suit     Suit   `json:"suit,omitempty" yaml:"suit,omitempty"` // Minor arcana only
	Rank     Rank   `json:"rank,omitempty" yaml:"rank,omitempty"` // Minor arcana only
}

// IsMinor reports whether the card belongs to a suit.
func (c Card) IsMinor() bool {
	return c.Type == Minor && c.Suit != ""
}

// RankInSuit returns the 0-based position of a minor card inside its suit
// in catalog order, or -1 for major arcana.
func (c Card) RankInSuit() int {
	if !c.IsMinor() {
		return -1
	}
	idx := SuitIndex(c.Suit)
	if idx < 0 {
		return -1
	}
	return c.ID - MajorCount - idx*SuitSize
}

// Stem derives a filename stem from a display name.
func Stem(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// ValidSuit reports whether s is one of the four suits.
func ValidSuit(s Suit) bool {
	return SuitIndex(s) >= 0
}
