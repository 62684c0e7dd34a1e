package card

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// MajorCount is the number of major arcana cards.
	MajorCount = 22
	// SuitSize is the number of cards in each suit.
	SuitSize = 14
	// Total is the size of the full catalog.
	Total = MajorCount + 4*SuitSize
)

// ErrCardNotFound is returned by lookups that miss the catalog.
var ErrCardNotFound = errors.New("card not found")

var majorNames = [MajorCount]string{
	"The Fool",
	"The Magician",
	"The High Priestess",
	"The Empress",
	"The Emperor",
	"The Hierophant",
	"The Lovers",
	"The Chariot",
	"Strength",
	"The Hermit",
	"Wheel of Fortune",
	"Justice",
	"The Hanged Man",
	"Death",
	"Temperance",
	"The Devil",
	"The Tower",
	"The Star",
	"The Moon",
	"The Sun",
	"Judgement",
	"The World",
}

// canonicalSuits is the catalog order of the suits.
var canonicalSuits = [4]Suit{Cups, Pentacles, Swords, Wands}

var ranks = [SuitSize]Rank{
	"ace", "2", "3", "4", "5", "6", "7", "8", "9", "10",
	"page", "knight", "queen", "king",
}

var rankWords = [SuitSize]string{
	"Ace", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine", "Ten",
	"Page", "Knight", "Queen", "King",
}

// catalog is built once and never handed out directly.
var catalog = buildCatalog()

func buildCatalog() [Total]Card {
	var cards [Total]Card

	for i, name := range majorNames {
		cards[i] = Card{
			ID:       i,
			Name:     name,
			Filename: Stem(name),
			Type:     Major,
		}
	}

	for s, suit := range canonicalSuits {
		suitTitle := strings.ToUpper(string(suit[:1])) + string(suit[1:])
		for r := range SuitSize {
			id := MajorCount + s*SuitSize + r
			name := fmt.Sprintf("%s of %s", rankWords[r], suitTitle)
			cards[id] = Card{
				ID:       id,
				Name:     name,
				Filename: Stem(name),
				Type:     Minor,
				Suit:     suit,
				Rank:     ranks[r],
			}
		}
	}

	return cards
}

// Suits returns the canonical suit order: cups, pentacles, swords, wands.
func Suits() []Suit {
	out := make([]Suit, len(canonicalSuits))
	copy(out, canonicalSuits[:])
	return out
}

// SuitIndex returns the canonical position of s, or -1.
func SuitIndex(s Suit) int {
	for i, cs := range canonicalSuits {
		if cs == s {
			return i
		}
	}
	return -1
}

// All returns the 78 cards in catalog order. Each call returns a new slice.
func All() []Card {
	out := make([]Card, Total)
	copy(out, catalog[:])
	return out
}

// MajorArcana returns the 22 major arcana.
func MajorArcana() []Card {
	out := make([]Card, MajorCount)
	copy(out, catalog[:MajorCount])
	return out
}

// BySuit returns the 14 cards of a suit in rank order.
func BySuit(s Suit) []Card {
	idx := SuitIndex(s)
	if idx < 0 {
		return nil
	}
	start := MajorCount + idx*SuitSize
	out := make([]Card, SuitSize)
	copy(out, catalog[start:start+SuitSize])
	return out
}

// ByID gets a card by its catalog id.
func ByID(id int) (Card, error) {
	if id < 0 || id >= Total {
		return Card{}, fmt.Errorf("%w: id %d", ErrCardNotFound, id)
	}
	return catalog[id], nil
}

// ByName gets a card by its exact display name. The major arcana are
// searched before the minor arcana.
func ByName(name string) (Card, error) {
	for _, c := range catalog[:MajorCount] {
		if c.Name == name {
			return c, nil
		}
	}
	for _, c := range catalog[MajorCount:] {
		if c.Name == name {
			return c, nil
		}
	}
	return Card{}, fmt.Errorf("%w: %q", ErrCardNotFound, name)
}
