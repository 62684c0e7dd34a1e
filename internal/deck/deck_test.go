package deck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/tarot-today/internal/card"
)

func TestDefault_BuiltinDecks(t *testing.T) {
	r := Default()
	assert.Equal(t, 4, r.Len())
	assert.Equal(t, []string{Artistic, Miro, Picasso, RiderWaite}, r.IDs())

	rw, ok := r.Get(RiderWaite)
	require.True(t, ok)
	assert.Equal(t, "Rider-Waite Classic", rw.Name)
	assert.Equal(t, "images", rw.Folder)
	assert.Equal(t, "images-thumbnails", rw.ThumbnailFolder)
	assert.Equal(t, "major_arcana", rw.Structure.Major)
	assert.Equal(t, "minor_arcana/{suit}", rw.Structure.Minor)
	assert.True(t, rw.NumericMinorRanks)
	assert.False(t, rw.HasCustomSuitOrder())

	artistic, ok := r.Get(Artistic)
	require.True(t, ok)
	assert.Equal(t, card.Wands, artistic.SuitOrder[0])
	assert.Equal(t, 1, artistic.NumberingOffset)
	assert.True(t, artistic.Structure.Flat())

	picasso, ok := r.Get(Picasso)
	require.True(t, ok)
	assert.Equal(t, 1, picasso.NumberingOffset)

	_, ok = r.Get("tarot-de-marseille")
	assert.False(t, ok)
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	d, ok := Default().Get(Miro)
	require.True(t, ok)
	d.SuitOrder[0] = card.Swords
	d.ThumbnailFormats[0] = "gif"

	again, _ := Default().Get(Miro)
	assert.Equal(t, card.Cups, again.SuitOrder[0])
	assert.Equal(t, "webp", again.ThumbnailFormats[0])
}

func TestDeck_SuitPosition(t *testing.T) {
	rw, _ := Default().Get(RiderWaite)
	miro, _ := Default().Get(Miro)

	assert.Equal(t, 0, rw.SuitPosition(card.Cups))
	assert.Equal(t, 3, rw.SuitPosition(card.Wands))
	assert.Equal(t, 1, miro.SuitPosition(card.Wands))
	assert.Equal(t, -1, miro.SuitPosition("coins"))
}

func TestDeck_Subfolder(t *testing.T) {
	rw, _ := Default().Get(RiderWaite)
	flat, _ := Default().Get(Artistic)

	fool, _ := card.ByID(0)
	sword, _ := card.ByName("Three of Swords")

	assert.Equal(t, "major_arcana", rw.Subfolder(fool))
	assert.Equal(t, "minor_arcana/swords", rw.Subfolder(sword))
	assert.Equal(t, "", flat.Subfolder(fool))
	assert.Equal(t, "", flat.Subfolder(sword))
}

func TestDeck_Validate(t *testing.T) {
	valid := Deck{ID: "x", Folder: "x", ImageFormat: "png"}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(d *Deck)
	}{
		{"missing id", func(d *Deck) { d.ID = "" }},
		{"missing folder", func(d *Deck) { d.Folder = "" }},
		{"missing format", func(d *Deck) { d.ImageFormat = "" }},
		{"negative offset", func(d *Deck) { d.NumberingOffset = -1 }},
		{"thumbnails without formats", func(d *Deck) {
			d.HasThumbnails = true
			d.ThumbnailFolder = "thumbs"
		}},
		{"thumbnails without folder", func(d *Deck) {
			d.HasThumbnails = true
			d.ThumbnailFormats = []string{"jpg"}
		}},
		{"half structure", func(d *Deck) { d.Structure.Major = "major" }},
		{"minor without placeholder", func(d *Deck) {
			d.Structure = Structure{Major: "major", Minor: "minor"}
		}},
		{"short suit order", func(d *Deck) { d.SuitOrder = []card.Suit{card.Cups} }},
		{"repeated suit", func(d *Deck) {
			d.SuitOrder = []card.Suit{card.Cups, card.Cups, card.Swords, card.Wands}
		}},
		{"unknown suit", func(d *Deck) {
			d.SuitOrder = []card.Suit{card.Cups, "coins", card.Swords, card.Wands}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			assert.ErrorIs(t, d.Validate(), ErrInvalidDeck)
		})
	}
}

func TestNewRegistry_Duplicate(t *testing.T) {
	d := Deck{ID: "x", Folder: "x", ImageFormat: "png"}
	_, err := NewRegistry(d, d)
	assert.ErrorIs(t, err, ErrInvalidDeck)
}

const decksTOML = `
[[deck]]
id = "marseille"
name = "Tarot de Marseille"
folder = "marseille"
image_format = "jpg"
numbering_offset = 1
suit_order = ["swords", "wands", "cups", "pentacles"]

[deck.structure]
major = "trumps"
minor = "pips/{suit}"

[[deck]]
id = "picasso"
name = "Picasso Reprint"
folder = "picasso-v2"
image_format = "webp"
`

func TestLoad_MergesOverBuiltins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decks.toml")
	require.NoError(t, os.WriteFile(path, []byte(decksTOML), 0644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, r.Len())

	m, ok := r.Get("marseille")
	require.True(t, ok)
	assert.Equal(t, "trumps", m.Structure.Major)
	assert.Equal(t, "pips/{suit}", m.Structure.Minor)
	assert.Equal(t, []card.Suit{card.Swords, card.Wands, card.Cups, card.Pentacles}, m.SuitOrder)

	p, ok := r.Get(Picasso)
	require.True(t, ok)
	assert.Equal(t, "picasso-v2", p.Folder)
	assert.False(t, p.HasThumbnails)

	// The built-in registry is untouched.
	orig, _ := Default().Get(Picasso)
	assert.Equal(t, "picasso-tarot-cards", orig.Folder)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(bad, []byte("[[deck]]\nid = \"x\"\nfolder = \"x\"\nimage_format = \"png\"\ncolour = \"red\"\n"), 0644))
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrInvalidDeck)

	invalid := filepath.Join(dir, "invalid.toml")
	require.NoError(t, os.WriteFile(invalid, []byte("[[deck]]\nid = \"x\"\n"), 0644))
	_, err = Load(invalid)
	assert.ErrorIs(t, err, ErrInvalidDeck)

	r, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), r)
}
