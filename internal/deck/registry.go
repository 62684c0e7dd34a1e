package deck

import (
	"fmt"
	"os"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/arcanaland/tarot-today/internal/card"
)

// Registry is an immutable set of decks keyed by id.
type Registry struct {
	decks map[string]Deck
}

// NewRegistry validates decks and builds a registry. Duplicate ids are an
// error.
func NewRegistry(decks ...Deck) (*Registry, error) {
	r := &Registry{decks: make(map[string]Deck, len(decks))}
	for _, d := range decks {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if _, dup := r.decks[d.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate deck id %s", ErrInvalidDeck, d.ID)
		}
		r.decks[d.ID] = cloneDeck(d)
	}
	return r, nil
}

// Get returns the deck with the given id.
func (r *Registry) Get(id string) (Deck, bool) {
	d, ok := r.decks[id]
	if !ok {
		return Deck{}, false
	}
	return cloneDeck(d), true
}

// IDs returns the deck ids in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.decks))
	for id := range r.decks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// All returns every deck ordered by id.
func (r *Registry) All() []Deck {
	ids := r.IDs()
	out := make([]Deck, 0, len(ids))
	for _, id := range ids {
		out = append(out, cloneDeck(r.decks[id]))
	}
	return out
}

// Len returns the number of decks.
func (r *Registry) Len() int {
	return len(r.decks)
}

// Merge returns a new registry holding r's decks overlaid with extra. A deck
// in extra replaces the deck of r with the same id.
func (r *Registry) Merge(extra ...Deck) (*Registry, error) {
	merged := make(map[string]Deck, len(r.decks)+len(extra))
	for id, d := range r.decks {
		merged[id] = d
	}

	seen := make(map[string]bool, len(extra))
	for _, d := range extra {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if seen[d.ID] {
			return nil, fmt.Errorf("%w: duplicate deck id %s", ErrInvalidDeck, d.ID)
		}
		seen[d.ID] = true
		merged[d.ID] = cloneDeck(d)
	}

	return &Registry{decks: merged}, nil
}

// fileConfig is the layout of a decks.toml file
type fileConfig struct {
	Decks []Deck `toml:"deck"`
}

// LoadFile decodes deck definitions from a TOML file of [[deck]] tables.
func LoadFile(path string) ([]Deck, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("decks file not found: %w", err)
	}

	var cfg fileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys in %s: %v", ErrInvalidDeck, path, undecoded)
	}

	return cfg.Decks, nil
}

// Load returns the built-in registry overlaid with the decks of path. An
// empty path yields the built-in registry.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}
	decks, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	return Default().Merge(decks...)
}

func cloneDeck(d Deck) Deck {
	if d.ThumbnailFormats != nil {
		d.ThumbnailFormats = append([]string(nil), d.ThumbnailFormats...)
	}
	if d.SuitOrder != nil {
		d.SuitOrder = append([]card.Suit(nil), d.SuitOrder...)
	}
	return d
}
