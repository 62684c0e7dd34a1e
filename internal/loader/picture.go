package loader

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/atomic"

	"github.com/arcanaland/tarot-today/internal/card"
)

// Options control ResponsiveImage.
type Options struct {
	FullSize bool   // skip thumbnails and point at the full-size image
	Loading  string // "lazy" (default) or "eager"
	Class    string // class attribute of the <img>
}

// Source is one <source> of a <picture>.
type Source struct {
	SrcSet string `json:"srcset"`
	Type   string `json:"type"`
}

// Image is the final <img> of a <picture>. The zero value is an image
// with no source and no error handler.
type Image struct {
	Alt      string
	Loading  string
	Decoding string
	Class    string

	src      atomic.String
	fallback atomic.String
	handled  atomic.Bool
	logger   *slog.Logger
}

func newImage(src, alt string) *Image {
	img := &Image{
		Alt:      alt,
		Decoding: "async",
		logger:   slog.Default(),
	}
	img.src.Store(src)
	return img
}

// Src returns the current source of the image.
func (img *Image) Src() string {
	if img == nil {
		return ""
	}
	return img.src.Load()
}

// Fallback returns the placeholder installed by AddErrorHandler, if any.
func (img *Image) Fallback() string {
	if img == nil {
		return ""
	}
	return img.fallback.Load()
}

// Fail reports a load failure of the current source. The first failure
// after AddErrorHandler swaps the source to the placeholder and returns
// true; later failures, including one of the placeholder itself, return
// false.
func (img *Image) Fail(cause error) bool {
	if img == nil {
		return false
	}
	fallback := img.fallback.Load()
	if fallback == "" || !img.handled.CompareAndSwap(false, true) {
		return false
	}
	failed := img.src.Swap(fallback)

	logger := img.logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("image failed to load",
		"card", img.Alt,
		"src", failed,
		"placeholder", fallback,
		"error", cause,
	)
	return true
}

// Picture is a responsive image fragment.
type Picture struct {
	Sources []Source
	Img     *Image
}

// ResponsiveImage builds a <picture> for c. Decks with thumbnails get one
// <source> per thumbnail format and an <img> in the last (most widely
// supported) format; otherwise, or with Options.FullSize, the <img> points
// at the full-size image.
func (l *Loader) ResponsiveImage(deckID string, c card.Card, opts Options) (*Picture, error) {
	d, err := l.Deck(deckID)
	if err != nil {
		return nil, err
	}

	pic := &Picture{}
	var src string

	if d.HasThumbnails && len(d.ThumbnailFormats) > 0 && !opts.FullSize {
		for _, f := range d.ThumbnailFormats {
			p, _ := l.Thumbnail(deckID, c, f)
			pic.Sources = append(pic.Sources, Source{SrcSet: p, Type: MIMEType(f)})
		}
		src = pic.Sources[len(pic.Sources)-1].SrcSet
	} else {
		src, _ = l.Image(deckID, c)
	}

	img := newImage(src, c.Name)
	img.logger = l.logger
	img.Loading = opts.Loading
	if img.Loading == "" {
		img.Loading = "lazy"
	}
	img.Class = opts.Class
	pic.Img = img

	return pic, nil
}

// AddErrorHandler installs a one-shot fallback on img: the first load
// failure switches it to placeholder, resolved against the current page.
// An empty placeholder selects DefaultPlaceholder.
func (l *Loader) AddErrorHandler(img *Image, placeholder string) {
	if img == nil {
		return
	}
	if placeholder == "" {
		placeholder = DefaultPlaceholder
	}
	img.logger = l.logger
	img.handled.Store(false)
	img.fallback.Store(l.resolver.Resolve(placeholder))
}

// MIMEType maps an image extension to its media type.
func MIMEType(format string) string {
	switch strings.ToLower(format) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "svg":
		return "image/svg+xml"
	case "":
		return ""
	default:
		return "image/" + strings.ToLower(format)
	}
}

// Element returns the picture as an etree element.
func (p *Picture) Element() *etree.Element {
	el := etree.NewElement("picture")
	for _, s := range p.Sources {
		src := el.CreateElement("source")
		src.CreateAttr("srcset", s.SrcSet)
		src.CreateAttr("type", s.Type)
	}
	if p.Img != nil {
		el.AddChild(p.Img.Element())
	}
	return el
}

// Element returns the image as an etree element. An installed error
// handler is rendered as a self-clearing onerror attribute.
func (img *Image) Element() *etree.Element {
	el := etree.NewElement("img")
	el.CreateAttr("src", img.Src())
	el.CreateAttr("alt", img.Alt)
	if img.Loading != "" {
		el.CreateAttr("loading", img.Loading)
	}
	if img.Decoding != "" {
		el.CreateAttr("decoding", img.Decoding)
	}
	if img.Class != "" {
		el.CreateAttr("class", img.Class)
	}
	if fallback := img.Fallback(); fallback != "" && !img.handled.Load() {
		el.CreateAttr("onerror", fmt.Sprintf("this.onerror=null;this.src='%s'", fallback))
	}
	return el
}

// HTML renders the picture as markup.
func (p *Picture) HTML() (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(p.Element())
	return doc.WriteToString()
}
