// Package meanings provides the upright and reversed keywords of every card.
package meanings

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/arcanaland/tarot-today/internal/card"
)

//go:embed data/card-meanings.json
var rawMeanings []byte

// ErrNoMeaning is returned for card names without an entry.
var ErrNoMeaning = errors.New("no meaning for card")

// Meaning holds the keywords of one card.
type Meaning struct {
	Name     string      `json:"name" yaml:"name"`
	Upright  string      `json:"upright" yaml:"upright"`
	Reversed string      `json:"reversed" yaml:"reversed"`
	Type     card.Arcana `json:"type" yaml:"type"`
	Suit     card.Suit   `json:"suit,omitempty" yaml:"suit,omitempty"`
}

// Text returns the keywords for the given orientation.
func (m Meaning) Text(reversed bool) string {
	if reversed {
		return m.Reversed
	}
	return m.Upright
}

type file struct {
	Major []Meaning               `json:"major_arcana"`
	Minor map[card.Suit][]Meaning `json:"minor_arcana"`
}

var (
	loadOnce sync.Once
	byName   map[string]Meaning
	loadErr  error
)

func load() {
	var f file
	if err := json.Unmarshal(rawMeanings, &f); err != nil {
		loadErr = fmt.Errorf("decoding card meanings: %w", err)
		return
	}

	byName = make(map[string]Meaning, card.Total)
	for _, m := range f.Major {
		m.Type = card.Major
		byName[m.Name] = m
	}
	for suit, list := range f.Minor {
		for _, m := range list {
			m.Type = card.Minor
			m.Suit = suit
			byName[m.Name] = m
		}
	}
}

// Lookup returns the meaning of the card with the given name.
func Lookup(name string) (Meaning, error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return Meaning{}, loadErr
	}
	m, ok := byName[name]
	if !ok {
		return Meaning{}, fmt.Errorf("%w: %q", ErrNoMeaning, name)
	}
	return m, nil
}

// For returns the meaning of c.
func For(c card.Card) (Meaning, error) {
	return Lookup(c.Name)
}
