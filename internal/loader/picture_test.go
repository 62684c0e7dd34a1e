package loader

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/tarot-today/internal/deck"
)

func TestResponsiveImage_Thumbnails(t *testing.T) {
	l, _ := newTestLoader(t, "/index.html")

	pic, err := l.ResponsiveImage(deck.RiderWaite, mustCard(t, "The Fool"), Options{Class: "card-img"})
	require.NoError(t, err)

	require.Len(t, pic.Sources, 2)
	assert.Equal(t, Source{SrcSet: "decks/images-thumbnails/major_arcana/00-the-fool.webp", Type: "image/webp"}, pic.Sources[0])
	assert.Equal(t, Source{SrcSet: "decks/images-thumbnails/major_arcana/00-the-fool.jpg", Type: "image/jpeg"}, pic.Sources[1])

	assert.Equal(t, "decks/images-thumbnails/major_arcana/00-the-fool.jpg", pic.Img.Src())
	assert.Equal(t, "The Fool", pic.Img.Alt)
	assert.Equal(t, "lazy", pic.Img.Loading)
	assert.Equal(t, "async", pic.Img.Decoding)
	assert.Equal(t, "card-img", pic.Img.Class)
}

func TestResponsiveImage_FullSize(t *testing.T) {
	l, _ := newTestLoader(t, "/pages/journey.html")

	pic, err := l.ResponsiveImage(deck.Miro, mustCard(t, "Ace of Cups"), Options{FullSize: true, Loading: "eager"})
	require.NoError(t, err)

	assert.Empty(t, pic.Sources)
	assert.Equal(t, "../decks/miro-tarot-cards/23-ace-of-cups.png", pic.Img.Src())
	assert.Equal(t, "eager", pic.Img.Loading)
}

func TestResponsiveImage_UnknownDeck(t *testing.T) {
	l, _ := newTestLoader(t, "/index.html")
	_, err := l.ResponsiveImage("nope", mustCard(t, "The Fool"), Options{})
	assert.ErrorIs(t, err, ErrUnknownDeck)
}

func TestPicture_HTML(t *testing.T) {
	l, _ := newTestLoader(t, "/index.html")

	pic, err := l.ResponsiveImage(deck.Picasso, mustCard(t, "The Fool"), Options{})
	require.NoError(t, err)
	l.AddErrorHandler(pic.Img, "")

	html, err := pic.HTML()
	require.NoError(t, err)

	assert.Contains(t, html, "<picture>")
	assert.Contains(t, html, "</picture>")
	assert.Contains(t, html, `srcset="decks/picasso-tarot-cards-thumbnails/01-the-fool.webp"`)
	assert.Contains(t, html, `type="image/webp"`)
	assert.Contains(t, html, `src="decks/picasso-tarot-cards-thumbnails/01-the-fool.jpg"`)
	assert.Contains(t, html, `alt="The Fool"`)
	assert.Contains(t, html, `loading="lazy"`)
	assert.Contains(t, html, `decoding="async"`)
	assert.Contains(t, html, "this.onerror=null")
	assert.Contains(t, html, "images/card-back.svg")
	assert.NotContains(t, html, "class=")
}

func TestAddErrorHandler_OneShot(t *testing.T) {
	l, logs := newTestLoader(t, "/index.html")

	pic, err := l.ResponsiveImage(deck.RiderWaite, mustCard(t, "The Fool"), Options{})
	require.NoError(t, err)
	img := pic.Img
	original := img.Src()

	assert.False(t, img.Fail(errors.New("404")), "no handler installed")
	assert.Equal(t, original, img.Src())

	l.AddErrorHandler(img, "")
	assert.Equal(t, "images/card-back.svg", img.Fallback())

	assert.True(t, img.Fail(errors.New("404")))
	assert.Equal(t, "images/card-back.svg", img.Src())
	assert.Contains(t, logs.String(), "image failed to load")
	assert.Contains(t, logs.String(), original)

	// The placeholder failing too must not loop.
	assert.False(t, img.Fail(errors.New("404")))
	assert.Equal(t, "images/card-back.svg", img.Src())

	html, err := pic.HTML()
	require.NoError(t, err)
	assert.NotContains(t, html, "onerror")
}

func TestAddErrorHandler_CustomPlaceholderFromSubfolder(t *testing.T) {
	l, _ := newTestLoader(t, "/pages/gallery.html")

	pic, err := l.ResponsiveImage(deck.Artistic, mustCard(t, "The Sun"), Options{})
	require.NoError(t, err)

	l.AddErrorHandler(pic.Img, "images/missing.png")
	assert.True(t, pic.Img.Fail(nil))
	assert.Equal(t, "../images/missing.png", pic.Img.Src())

	l.AddErrorHandler(nil, "")
}

func TestImage_ZeroValue(t *testing.T) {
	l, _ := newTestLoader(t, "/index.html")

	var img Image
	assert.Equal(t, "", img.Src())
	assert.Equal(t, "", img.Fallback())
	assert.False(t, img.Fail(errors.New("404")))

	html, err := (&Picture{Img: &Image{}}).HTML()
	require.NoError(t, err)
	assert.Contains(t, html, "<img")

	fool := &Image{Alt: "The Fool"}
	l.AddErrorHandler(fool, "")
	assert.Equal(t, "images/card-back.svg", fool.Fallback())
	assert.True(t, fool.Fail(nil))
	assert.Equal(t, "images/card-back.svg", fool.Src())
	assert.False(t, fool.Fail(nil))

	var missing *Image
	assert.Equal(t, "", missing.Src())
	assert.False(t, missing.Fail(nil))
}

func TestImage_ConcurrentFailSwapsOnce(t *testing.T) {
	l, _ := newTestLoader(t, "/index.html")
	pic, err := l.ResponsiveImage(deck.Miro, mustCard(t, "The Moon"), Options{})
	require.NoError(t, err)
	l.AddErrorHandler(pic.Img, "")

	var swaps atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if pic.Img.Fail(errors.New("timeout")) {
				swaps.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), swaps.Load())
	assert.Equal(t, "images/card-back.svg", pic.Img.Src())
}

func TestMIMEType(t *testing.T) {
	assert.Equal(t, "image/webp", MIMEType("webp"))
	assert.Equal(t, "image/jpeg", MIMEType("JPG"))
	assert.Equal(t, "image/jpeg", MIMEType("jpeg"))
	assert.Equal(t, "image/png", MIMEType("png"))
	assert.Equal(t, "image/svg+xml", MIMEType("svg"))
	assert.Equal(t, "", MIMEType(""))
}
