package pathresolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasePath(t *testing.T) {
	tests := []struct {
		location string
		want     string
	}{
		{"/index.html", ""},
		{"/", ""},
		{"/pages/gallery.html", "../"},
		{"/pages/dictionary.html", "../"},
		{"http://localhost:8080/index.html", ""},
		{"https://tarot.example/pages/journey.html?deck=miro#top", "../"},
		{"file:///home/me/site/index.html", ""},
		{"file:///home/me/site/pages/gallery.html", "../"},
		{"/pagesx/gallery.html", ""},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			r := New(Static(tt.location))
			assert.Equal(t, tt.want, r.BasePath())
			assert.Equal(t, tt.want != "", r.InSubfolder())
		})
	}
}

func TestResolve(t *testing.T) {
	root := New(Static("/index.html"))
	sub := New(Static("/pages/gallery.html"))

	assert.Equal(t, "decks/images/card.png", root.Resolve("decks", "images", "card.png"))
	assert.Equal(t, "../decks/images/card.png", sub.Resolve("decks", "images", "card.png"))

	assert.Equal(t, "decks/images/card.png", root.Resolve("decks", "", "images", "", "card.png"))
	assert.Equal(t, "decks/images/minor_arcana/cups/1-of-cups.png",
		root.Resolve("decks/", "/images", "minor_arcana//cups", "1-of-cups.png"))
	assert.Equal(t, "", root.Resolve())
	assert.Equal(t, "../", sub.Resolve("", ""))
}

func TestResolve_ReadsLocationEachCall(t *testing.T) {
	current := "/index.html"
	r := New(LocationFunc(func() string { return current }))

	assert.Equal(t, "decks/a.png", r.Resolve("decks", "a.png"))

	current = "/pages/gallery.html"
	assert.Equal(t, "../decks/a.png", r.Resolve("decks", "a.png"))
	assert.Equal(t, "gallery.html", r.CurrentPage())

	current = "/index.html"
	assert.Equal(t, "decks/a.png", r.Resolve("decks", "a.png"))
}

func TestCurrentPage(t *testing.T) {
	assert.Equal(t, "dictionary.html", New(Static("/pages/dictionary.html")).CurrentPage())
	assert.Equal(t, "index.html", New(Static("http://host/index.html")).CurrentPage())
	assert.Equal(t, "", New(Static("/")).CurrentPage())
}

func TestNewWithSubfolder(t *testing.T) {
	r := NewWithSubfolder(Static("/views/reading.html"), "/views/")
	assert.Equal(t, "../", r.BasePath())
	assert.False(t, New(Static("/views/reading.html")).InSubfolder())

	assert.Equal(t, "", New(nil).BasePath())
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a/b/c", Join("a", "b", "c"))
	assert.Equal(t, "a/b", Join("", "a", "", "b", ""))
	assert.Equal(t, "a/b/c", Join("/a/", "//b//c/"))
	assert.Equal(t, "", Join())
}
