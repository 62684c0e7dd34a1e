package thumbnail

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"github.com/arcanaland/tarot-today/internal/card"
	"github.com/arcanaland/tarot-today/internal/deck"
	"github.com/arcanaland/tarot-today/internal/loader"
)

func TestResize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"tall card", 600, 1040, 300, 520},
		{"wide card", 1200, 600, 300, 150},
		{"narrow card", 400, 1300, 160, 520},
		{"already small", 200, 300, 200, 300},
		{"zero width", 0, 900, 0, 900},
		{"zero height", 900, 0, 900, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resize(image.NewRGBA(image.Rect(0, 0, tt.w, tt.h)), Width, Height)
			assert.Equal(t, tt.wantW, got.Bounds().Dx())
			assert.Equal(t, tt.wantH, got.Bounds().Dy())
		})
	}
}

func TestEncode(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, img, "JPG"))
	_, err := jpeg.Decode(&buf)
	assert.NoError(t, err)

	buf.Reset()
	require.NoError(t, Encode(&buf, img, "png"))
	_, err = png.Decode(&buf)
	assert.NoError(t, err)

	buf.Reset()
	require.NoError(t, Encode(&buf, img, "webp"))
	cfg, err := webp.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Width)

	assert.ErrorIs(t, Encode(&buf, img, "tiff"), ErrUnsupportedFormat)
	assert.True(t, Supported("jpeg"))
	assert.True(t, Supported("WEBP"))
	assert.False(t, Supported("tiff"))
}

func writeSource(t *testing.T, path string, w, h int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))))
}

func TestGenerator_Deck(t *testing.T) {
	site := t.TempDir()
	l := loader.New(nil, nil)
	for _, c := range card.All() {
		writeSource(t, filepath.Join(site, filepath.FromSlash(l.ImagePath(deck.RiderWaite, c))), 60, 104)
	}
	// One oversized source to exercise scaling.
	fool, _ := card.ByID(0)
	writeSource(t, filepath.Join(site, filepath.FromSlash(l.ImagePath(deck.RiderWaite, fool))), 600, 1040)

	g := New(nil, site, nil)
	results, err := g.Deck(context.Background(), deck.RiderWaite)
	require.NoError(t, err)
	require.Len(t, results, card.Total)

	for _, r := range results {
		require.NoError(t, r.Err, r.Card.Name)
		assert.Empty(t, r.Skipped)
		require.Len(t, r.Written, 2)
	}

	webpThumb := filepath.Join(site, filepath.FromSlash(l.ThumbnailPath(deck.RiderWaite, fool, "webp")))
	wf, err := os.Open(webpThumb)
	require.NoError(t, err)
	defer wf.Close()
	wcfg, err := webp.DecodeConfig(wf)
	require.NoError(t, err)
	assert.Equal(t, 300, wcfg.Width)
	assert.Equal(t, 520, wcfg.Height)

	thumb := filepath.Join(site, "decks", "images-thumbnails", "major_arcana", "00-the-fool.jpg")
	f, err := os.Open(thumb)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 300, cfg.Width)
	assert.Equal(t, 520, cfg.Height)

	assert.FileExists(t, filepath.Join(site, "decks", "images-thumbnails", "minor_arcana", "cups", "1-of-cups.jpg"))
}

func TestGenerator_Errors(t *testing.T) {
	g := New(nil, t.TempDir(), nil)

	_, err := g.Deck(context.Background(), "nope")
	assert.ErrorIs(t, err, loader.ErrUnknownDeck)

	reg, err := deck.NewRegistry(deck.Deck{ID: "plain", Folder: "plain", ImageFormat: "png"})
	require.NoError(t, err)
	_, err = New(reg, t.TempDir(), nil).Deck(context.Background(), "plain")
	assert.ErrorIs(t, err, ErrNoThumbnails)

	results, err := g.Deck(context.Background(), deck.Picasso)
	require.NoError(t, err)
	for _, r := range results {
		assert.Error(t, r.Err, "missing source for %s", r.Card.Name)
	}
}
