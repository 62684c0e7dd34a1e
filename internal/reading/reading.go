// Package reading draws the card of the day and phrases its advice.
package reading

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/arcanaland/tarot-today/internal/card"
	"github.com/arcanaland/tarot-today/internal/deck"
	"github.com/arcanaland/tarot-today/internal/loader"
	"github.com/arcanaland/tarot-today/internal/meanings"
)

//go:embed locales/*.toml
var localeFS embed.FS

// Languages lists the interface languages with message files.
var Languages = []string{"en", "fr", "es", "zh", "ja", "ko"}

// RNG abstracts random number generation for deterministic testing.
type RNG interface {
	// Intn returns a non-negative random int in [0, n).
	Intn(n int) int
}

// Three draws in ten come out reversed.
const (
	reversedIn  = 10
	reversedMax = 3
)

// Session is the state of one visitor's reading.
type Session struct {
	Deck     string     `json:"deck"`
	Language string     `json:"language"`
	Question string     `json:"question,omitempty"`
	Card     *card.Card `json:"card,omitempty"`
	Reversed bool       `json:"reversed"`
}

// Reading is a drawn card with its localized presentation.
type Reading struct {
	Deck        string    `json:"deck" yaml:"deck"`
	Language    string    `json:"language" yaml:"language"`
	Question    string    `json:"question,omitempty" yaml:"question,omitempty"`
	Card        card.Card `json:"card" yaml:"card"`
	Reversed    bool      `json:"reversed" yaml:"reversed"`
	Orientation string    `json:"orientation" yaml:"orientation"`
	Meaning     string    `json:"meaning" yaml:"meaning"`
	Advice      string    `json:"advice" yaml:"advice"`
	Image       string    `json:"image" yaml:"image"`
	DrawnAt     time.Time `json:"drawn_at" yaml:"drawn_at"`
}

// Reader draws readings against the decks of a loader.
type Reader struct {
	loader *loader.Loader
	bundle *i18n.Bundle
	now    func() time.Time
}

// NewReader loads the embedded message files.
func NewReader(l *loader.Loader) (*Reader, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(localeFS, "locales/*.toml")
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	if l == nil {
		l = loader.New(nil, nil)
	}
	return &Reader{loader: l, bundle: bundle, now: time.Now}, nil
}

// Draw picks a uniformly random card and orientation for the session and
// records them on it. An empty session deck means the Rider-Waite deck.
func (r *Reader) Draw(s *Session, rng RNG) (Reading, error) {
	if s.Deck == "" {
		s.Deck = deck.RiderWaite
	}
	if _, err := r.loader.Deck(s.Deck); err != nil {
		return Reading{}, err
	}

	cards := card.All()
	c := cards[rng.Intn(len(cards))]
	reversed := rng.Intn(reversedIn) < reversedMax

	s.Card = &c
	s.Reversed = reversed

	return r.Present(s)
}

// Present builds the reading for the card already on the session.
func (r *Reader) Present(s *Session) (Reading, error) {
	if s.Card == nil {
		return Reading{}, errors.New("session has no card")
	}
	c := *s.Card

	m, err := meanings.For(c)
	if err != nil {
		return Reading{}, err
	}
	advice, err := r.Advice(m, s.Reversed, s.Language)
	if err != nil {
		return Reading{}, err
	}
	img, err := r.loader.Image(s.Deck, c)
	if err != nil {
		return Reading{}, err
	}

	return Reading{
		Deck:        s.Deck,
		Language:    r.languageOf(s.Language),
		Question:    s.Question,
		Card:        c,
		Reversed:    s.Reversed,
		Orientation: r.Orientation(s.Reversed, s.Language),
		Meaning:     m.Text(s.Reversed),
		Advice:      advice,
		Image:       img,
		DrawnAt:     r.now(),
	}, nil
}

// Advice fills the daily advice template matching the orientation and the
// card's arcana with the meaning keywords.
func (r *Reader) Advice(m meanings.Meaning, reversed bool, lang string) (string, error) {
	id := "advice_upright_"
	if reversed {
		id = "advice_reversed_"
	}
	if m.Type == card.Major {
		id += "major"
	} else {
		id += "minor"
	}

	return r.localize(lang, id, map[string]string{"Meaning": m.Text(reversed)})
}

// Orientation returns the parenthesized orientation label, using
// full-width parentheses for Chinese.
func (r *Reader) Orientation(reversed bool, lang string) string {
	id := "upright"
	if reversed {
		id = "reversed"
	}
	label := r.Message(lang, id)
	if isChinese(lang) {
		return "（" + label + "）"
	}
	return "(" + label + ")"
}

// Questions returns the suggested questions.
func (r *Reader) Questions(lang string) []string {
	return []string{
		r.Message(lang, "question1"),
		r.Message(lang, "question2"),
		r.Message(lang, "question3"),
	}
}

// Message returns a plain interface string, or its id when missing.
func (r *Reader) Message(lang, id string) string {
	msg, err := r.localize(lang, id, nil)
	if err != nil {
		return id
	}
	return msg
}

func (r *Reader) localize(lang, id string, data any) (string, error) {
	loc := i18n.NewLocalizer(r.bundle, lang, language.English.String())
	msg, err := loc.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		// A message missing in lang is rendered from English and reported
		// as not found; keep the English text.
		var nf *i18n.MessageNotFoundErr
		if msg == "" || !errors.As(err, &nf) {
			return "", fmt.Errorf("localizing %s: %w", id, err)
		}
	}
	return msg, nil
}

// languageOf returns the supported language lang resolves to.
func (r *Reader) languageOf(lang string) string {
	tags := r.bundle.LanguageTags()
	_, idx, _ := language.NewMatcher(tags).Match(language.Make(lang))
	base, _ := tags[idx].Base()
	return base.String()
}

func isChinese(lang string) bool {
	zh, _ := language.Chinese.Base()
	base, _ := language.Make(lang).Base()
	return base == zh
}
