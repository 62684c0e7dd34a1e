// Package server exposes the deck catalog, the loader and daily readings
// over HTTP, and serves the static site.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/arcanaland/tarot-today/internal/card"
	"github.com/arcanaland/tarot-today/internal/deck"
	"github.com/arcanaland/tarot-today/internal/journal"
	"github.com/arcanaland/tarot-today/internal/loader"
	"github.com/arcanaland/tarot-today/internal/meanings"
	"github.com/arcanaland/tarot-today/internal/pathresolve"
	"github.com/arcanaland/tarot-today/internal/reading"
)

// Journal stores drawn readings.
type Journal interface {
	Record(ctx context.Context, r reading.Reading) (journal.Entry, error)
	List(ctx context.Context, limit int) ([]journal.Entry, error)
	Clear(ctx context.Context) (int64, error)
}

// Handler serves the API.
type Handler struct {
	decks       *deck.Registry
	reader      *reading.Reader
	journal     Journal
	rng         reading.RNG
	logger      *slog.Logger
	subfolder   string
	placeholder string
	defaultDeck string
	defaultLang string
}

// Config holds the Handler dependencies. Journal may be nil.
type Config struct {
	Decks       *deck.Registry
	Reader      *reading.Reader
	Journal     Journal
	RNG         reading.RNG
	Logger      *slog.Logger
	Subfolder   string
	Placeholder string
	DefaultDeck string
	DefaultLang string
}

func NewHandler(cfg Config) *Handler {
	h := &Handler{
		decks:       cfg.Decks,
		reader:      cfg.Reader,
		journal:     cfg.Journal,
		rng:         cfg.RNG,
		logger:      cfg.Logger,
		subfolder:   cfg.Subfolder,
		placeholder: cfg.Placeholder,
		defaultDeck: cfg.DefaultDeck,
		defaultLang: cfg.DefaultLang,
	}
	if h.decks == nil {
		h.decks = deck.Default()
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.defaultDeck == "" {
		h.defaultDeck = deck.RiderWaite
	}
	if h.defaultLang == "" {
		h.defaultLang = "en"
	}
	return h
}

// RouterOptions allows customization of router setup for tests
type RouterOptions struct {
	DisableRateLimiting bool
	RateLimit           float64
	RateLimitBurst      int
	SiteDir             string // static site root; empty disables file serving
}

// NewRouter creates the application router with all routes and middleware
func NewRouter(h *Handler, opts *RouterOptions) *chi.Mux {
	if opts == nil {
		opts = &RouterOptions{}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(h.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(SecurityHeaders())

	if !opts.DisableRateLimiting && opts.RateLimit > 0 {
		r.Use(NewRateLimiter(opts.RateLimit, opts.RateLimitBurst).Middleware())
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/decks", h.ListDecks)
		r.Get("/cards", h.ListCards)
		r.Get("/cards/{id}", h.GetCard)
		r.Get("/decks/{deck}/cards/{id}/path", h.CardPath)
		r.Get("/decks/{deck}/cards/{id}/picture", h.CardPicture)
		r.Get("/reading", h.Reading)
		r.Get("/journal", h.ListJournal)
		r.Delete("/journal", h.ClearJournal)
	})

	if opts.SiteDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(opts.SiteDir)))
	}

	return r
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// mapError translates domain errors to status codes.
func (h *Handler) mapError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, loader.ErrUnknownDeck),
		errors.Is(err, card.ErrCardNotFound),
		errors.Is(err, journal.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// loaderFor returns a loader resolving paths for the page named by the
// "from" query parameter, the site root by default.
func (h *Handler) loaderFor(r *http.Request) *loader.Loader {
	from := r.URL.Query().Get("from")
	if from == "" {
		from = "/"
	}
	res := pathresolve.NewWithSubfolder(pathresolve.Static(from), h.subfolder)
	return loader.New(h.decks, res, loader.WithLogger(h.logger))
}

func (h *Handler) cardParam(r *http.Request) (card.Card, error) {
	raw := chi.URLParam(r, "id")
	if id, err := strconv.Atoi(raw); err == nil {
		return card.ByID(id)
	}
	return card.ByName(raw)
}

func (h *Handler) ListDecks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.decks.All())
}

func (h *Handler) ListCards(w http.ResponseWriter, r *http.Request) {
	cards := card.All()
	switch s := r.URL.Query().Get("suit"); {
	case s == "":
	case s == "major":
		cards = card.MajorArcana()
	case card.ValidSuit(card.Suit(s)):
		cards = card.BySuit(card.Suit(s))
	default:
		writeError(w, http.StatusBadRequest, "unknown suit: "+s)
		return
	}
	writeJSON(w, http.StatusOK, cards)
}

// CardResponse is a card with its meaning.
type CardResponse struct {
	card.Card
	Upright  string `json:"upright"`
	Reversed string `json:"reversed"`
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardParam(r)
	if err != nil {
		h.mapError(w, r, err)
		return
	}
	resp := CardResponse{Card: c}
	if m, err := meanings.For(c); err == nil {
		resp.Upright, resp.Reversed = m.Upright, m.Reversed
	}
	writeJSON(w, http.StatusOK, resp)
}

// PathResponse carries the resolved image paths of a card.
type PathResponse struct {
	Deck      string `json:"deck"`
	Card      string `json:"card"`
	Image     string `json:"image"`
	Thumbnail string `json:"thumbnail"`
}

func (h *Handler) CardPath(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardParam(r)
	if err != nil {
		h.mapError(w, r, err)
		return
	}
	deckID := chi.URLParam(r, "deck")
	l := h.loaderFor(r)

	img, err := l.Image(deckID, c)
	if err != nil {
		h.mapError(w, r, err)
		return
	}
	thumb, err := l.Thumbnail(deckID, c, r.URL.Query().Get("format"))
	if err != nil {
		h.mapError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, PathResponse{Deck: deckID, Card: c.Name, Image: img, Thumbnail: thumb})
}

func (h *Handler) CardPicture(w http.ResponseWriter, r *http.Request) {
	c, err := h.cardParam(r)
	if err != nil {
		h.mapError(w, r, err)
		return
	}
	q := r.URL.Query()
	l := h.loaderFor(r)

	pic, err := l.ResponsiveImage(chi.URLParam(r, "deck"), c, loader.Options{
		FullSize: q.Get("full") == "1" || q.Get("full") == "true",
		Loading:  q.Get("loading"),
		Class:    q.Get("class"),
	})
	if err != nil {
		h.mapError(w, r, err)
		return
	}
	l.AddErrorHandler(pic.Img, h.placeholder)

	html, err := pic.HTML()
	if err != nil {
		h.mapError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(html))
}

func (h *Handler) Reading(w http.ResponseWriter, r *http.Request) {
	if h.reader == nil || h.rng == nil {
		writeError(w, http.StatusServiceUnavailable, "readings are not configured")
		return
	}

	q := r.URL.Query()
	s := &reading.Session{
		Deck:     q.Get("deck"),
		Language: q.Get("lang"),
		Question: q.Get("q"),
	}
	if s.Deck == "" {
		s.Deck = h.defaultDeck
	}
	if s.Language == "" {
		s.Language = h.defaultLang
	}
	if len(s.Question) > 500 {
		writeError(w, http.StatusBadRequest, "q must be at most 500 characters")
		return
	}

	rd, err := h.reader.Draw(s, h.rng)
	if err != nil {
		h.mapError(w, r, err)
		return
	}

	if h.journal != nil {
		if _, err := h.journal.Record(r.Context(), rd); err != nil {
			h.logger.Warn("journal record failed", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, rd)
}

func (h *Handler) ListJournal(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeJSON(w, http.StatusOK, []journal.Entry{})
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	entries, err := h.journal.List(r.Context(), limit)
	if err != nil {
		h.mapError(w, r, err)
		return
	}
	if entries == nil {
		entries = []journal.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (h *Handler) ClearJournal(w http.ResponseWriter, r *http.Request) {
	if h.journal == nil {
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": 0})
		return
	}
	n, err := h.journal.Clear(r.Context())
	if err != nil {
		h.mapError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
