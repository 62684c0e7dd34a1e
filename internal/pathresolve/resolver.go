// Package pathresolve computes asset path prefixes for pages served either
// from the site root or from one level down in a fixed subfolder.
package pathresolve

import (
	"net/url"
	"strings"
)

// DefaultSubfolder is the one-level-deep folder holding secondary pages.
const DefaultSubfolder = "pages"

// parentPrefix is returned as base path for pages inside the subfolder.
const parentPrefix = "../"

// Location reports where the consuming page currently lives. It may be a
// bare path ("/pages/gallery.html") or a URL of any scheme
// ("http://host/index.html", "file:///srv/site/pages/journey.html").
type Location interface {
	Location() string
}

// Static is a fixed Location.
type Static string

func (s Static) Location() string { return string(s) }

// LocationFunc adapts a function to Location.
type LocationFunc func() string

func (f LocationFunc) Location() string { return f() }

// Resolver builds page-relative asset paths. The location is read on every
// call so a resolver may be shared across pages.
type Resolver struct {
	loc       Location
	subfolder string
}

// New returns a resolver for loc using the default subfolder.
func New(loc Location) *Resolver {
	return NewWithSubfolder(loc, DefaultSubfolder)
}

// NewWithSubfolder returns a resolver that treats pages under /<subfolder>/
// as one level deep.
func NewWithSubfolder(loc Location, subfolder string) *Resolver {
	if loc == nil {
		loc = Static("/")
	}
	subfolder = strings.Trim(subfolder, "/")
	if subfolder == "" {
		subfolder = DefaultSubfolder
	}
	return &Resolver{loc: loc, subfolder: subfolder}
}

// pathname extracts the path component of the current location.
func (r *Resolver) pathname() string {
	raw := r.loc.Location()
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		return u.Path
	}
	return raw
}

// InSubfolder reports whether the current page lives in the subfolder.
func (r *Resolver) InSubfolder() bool {
	return strings.Contains(r.pathname(), "/"+r.subfolder+"/")
}

// BasePath returns "../" for subfolder pages and "" otherwise.
func (r *Resolver) BasePath() string {
	if r.InSubfolder() {
		return parentPrefix
	}
	return ""
}

// Resolve joins the non-empty parts with "/" and prefixes the base path.
//
// From the root, Resolve("decks", "images", "card.png") returns
// "decks/images/card.png"; from /pages/ it returns "../decks/images/card.png".
func (r *Resolver) Resolve(parts ...string) string {
	return r.BasePath() + Join(parts...)
}

// CurrentPage returns the last path element of the current location.
func (r *Resolver) CurrentPage() string {
	p := r.pathname()
	return p[strings.LastIndex(p, "/")+1:]
}

// Join joins path segments with "/". Empty segments are dropped and runs of
// slashes inside a segment collapse to one.
func Join(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		for _, elem := range strings.Split(p, "/") {
			if elem != "" {
				kept = append(kept, elem)
			}
		}
	}
	return strings.Join(kept, "/")
}
