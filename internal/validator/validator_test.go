package validator

import (
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/tarot-today/internal/card"
	"github.com/arcanaland/tarot-today/internal/deck"
	"github.com/arcanaland/tarot-today/internal/loader"
)

func writeImage(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if filepath.Ext(path) == ".jpg" {
		require.NoError(t, jpeg.Encode(f, img, nil))
		return
	}
	require.NoError(t, png.Encode(f, img))
}

// buildSite lays out full images and jpg thumbnails for the Rider-Waite deck.
func buildSite(t *testing.T) string {
	t.Helper()
	site := t.TempDir()
	l := loader.New(nil, nil)
	for _, c := range card.All() {
		writeImage(t, filepath.Join(site, filepath.FromSlash(l.ImagePath(deck.RiderWaite, c))), 4, 6)
		writeImage(t, filepath.Join(site, filepath.FromSlash(l.ThumbnailPath(deck.RiderWaite, c, "jpg"))), 3, 5)
	}
	require.NoError(t, os.MkdirAll(filepath.Join(site, "images"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(site, "images", "card-back.svg"), []byte("<svg/>"), 0644))
	return site
}

func TestValidate_CompleteSite(t *testing.T) {
	site := buildSite(t)

	results, err := NewValidator(nil, site, deck.RiderWaite).Validate()
	require.NoError(t, err)

	assert.True(t, results.OK(), "errors: %v", results.Errors)
	assert.Equal(t, []string{"78 of 78 webp thumbnails missing"}, results.Warnings)
}

func TestValidate_Problems(t *testing.T) {
	site := buildSite(t)

	require.NoError(t, os.Remove(filepath.Join(site, "decks", "images", "major_arcana", "00-the-fool.png")))
	require.NoError(t, os.WriteFile(filepath.Join(site, "decks", "images", "major_arcana", "01-the-magician.png"), []byte("oops"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(site, "decks", "images", "notes.txt"), []byte("x"), 0644))
	writeImage(t, filepath.Join(site, "decks", "images-thumbnails", "major_arcana", "02-the-high-priestess.jpg"), 600, 1040)
	require.NoError(t, os.Remove(filepath.Join(site, "images", "card-back.svg")))

	results, err := NewValidator(nil, site, deck.RiderWaite).Validate()
	require.NoError(t, err)

	require.Len(t, results.Errors, 2)
	assert.Contains(t, results.Errors[0], "image not found for The Fool")
	assert.Contains(t, results.Errors[1], "The Magician cannot be decoded")

	assert.Contains(t, results.Warnings, "unexpected file: decks/images/notes.txt")
	assert.Contains(t, results.Warnings, "placeholder image not found: images/card-back.svg")
	assert.Contains(t, results.Warnings,
		"thumbnail for The High Priestess is 600x1040, larger than 300x520: decks/images-thumbnails/major_arcana/02-the-high-priestess.jpg")
}

func TestValidate_Repeatable(t *testing.T) {
	site := buildSite(t)
	require.NoError(t, os.Remove(filepath.Join(site, "decks", "images", "major_arcana", "00-the-fool.png")))

	v := NewValidator(nil, site, deck.RiderWaite)
	first, err := v.Validate()
	require.NoError(t, err)
	second, err := v.Validate()
	require.NoError(t, err)

	require.Len(t, second.Errors, 1)
	assert.Equal(t, first, second)
	assert.Equal(t, second, v.Results)
}

func TestValidate_MissingFolders(t *testing.T) {
	site := t.TempDir()

	results, err := NewValidator(nil, site, deck.Miro).Validate()
	require.NoError(t, err)
	require.Len(t, results.Errors, 1)
	assert.Contains(t, results.Errors[0], "deck folder not found")
	assert.Contains(t, results.Warnings[0], "thumbnail folder not found")
}

func TestValidate_Fatal(t *testing.T) {
	_, err := NewValidator(nil, filepath.Join(t.TempDir(), "missing"), deck.RiderWaite).Validate()
	assert.Error(t, err)

	_, err = NewValidator(nil, t.TempDir(), "nope").Validate()
	assert.ErrorIs(t, err, loader.ErrUnknownDeck)
}
