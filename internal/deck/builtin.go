package deck

import "github.com/arcanaland/tarot-today/internal/card"

// Built-in deck ids.
const (
	RiderWaite = "rider-waite"
	Artistic   = "artistic"
	Miro       = "miro"
	Picasso    = "picasso"
)

// Builtin returns the decks shipped with the site.
func Builtin() []Deck {
	return []Deck{
		{
			ID:                RiderWaite,
			Name:              "Rider-Waite Classic",
			Folder:            "images",
			ImageFormat:       "png",
			HasThumbnails:     true,
			ThumbnailFolder:   "images-thumbnails",
			ThumbnailFormats:  []string{"webp", "jpg"},
			Structure:         Structure{Major: "major_arcana", Minor: "minor_arcana/{suit}"},
			NumericMinorRanks: true,
		},
		{
			ID:               Artistic,
			Name:             "Artistic Tarot",
			Folder:           "artistic-tarot-cards",
			ImageFormat:      "png",
			HasThumbnails:    true,
			ThumbnailFolder:  "artistic-tarot-cards-thumbnails",
			ThumbnailFormats: []string{"webp", "jpg"},
			NumberingOffset:  1,
			SuitOrder:        []card.Suit{card.Wands, card.Cups, card.Swords, card.Pentacles},
		},
		{
			ID:               Miro,
			Name:             "Miró Surrealism",
			Folder:           "miro-tarot-cards",
			ImageFormat:      "png",
			HasThumbnails:    true,
			ThumbnailFolder:  "miro-tarot-cards-thumbnails",
			ThumbnailFormats: []string{"webp", "jpg"},
			NumberingOffset:  1,
			SuitOrder:        []card.Suit{card.Cups, card.Wands, card.Swords, card.Pentacles},
		},
		{
			ID:               Picasso,
			Name:             "Picasso Cubism",
			Folder:           "picasso-tarot-cards",
			ImageFormat:      "png",
			HasThumbnails:    true,
			ThumbnailFolder:  "picasso-tarot-cards-thumbnails",
			ThumbnailFormats: []string{"webp", "jpg"},
			NumberingOffset:  1,
			SuitOrder:        []card.Suit{card.Wands, card.Cups, card.Swords, card.Pentacles},
		},
	}
}

var builtinRegistry = mustRegistry(Builtin()...)

// Default returns the registry of built-in decks.
func Default() *Registry {
	return builtinRegistry
}

func mustRegistry(decks ...Deck) *Registry {
	r, err := NewRegistry(decks...)
	if err != nil {
		panic(err)
	}
	return r
}
