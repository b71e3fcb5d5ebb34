// Package catalog defines the ranked movie and anime items shared by the API
// server and the terminal browser.
package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownContentType is returned for content types outside Movie and Anime.
var ErrUnknownContentType = errors.New("unknown content type")

// ContentType selects which ranked list is shown. The set is closed: only
// Movie and Anime are valid, and every lookup on another value fails.
type ContentType uint8

const (
	// Movie lists come from TMDB.
	Movie ContentType = iota
	// Anime lists come from Jikan (MyAnimeList).
	Anime
)

// ContentTypes lists every valid content type in toggle order.
var ContentTypes = []ContentType{Movie, Anime}

type contentInfo struct {
	name     string
	key      string
	label    string
	endpoint string
	source   string
}

var contentInfos = [...]contentInfo{
	Movie: {
		name:     "movie",
		key:      "movies",
		label:    "Movies",
		endpoint: "/api/movies/best-last-year",
		source:   "The Movie Database (TMDB)",
	},
	Anime: {
		name:     "anime",
		key:      "anime",
		label:    "Anime",
		endpoint: "/api/anime/best-last-year",
		source:   "Jikan API (MyAnimeList)",
	},
}

// ParseContentType parses "movie" or "anime" (case-insensitive, "movies" accepted).
func ParseContentType(s string) (ContentType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return Movie, nil
	case "anime":
		return Anime, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownContentType, s)
}

// Valid reports whether c is one of the known content types.
func (c ContentType) Valid() bool {
	return int(c) < len(contentInfos)
}

func (c ContentType) String() string {
	if !c.Valid() {
		return fmt.Sprintf("ContentType(%d)", uint8(c))
	}
	return contentInfos[c].name
}

// Endpoint returns the API path serving the ranked list for c.
func (c ContentType) Endpoint() (string, error) {
	if !c.Valid() {
		return "", fmt.Errorf("%w: %s", ErrUnknownContentType, c)
	}
	return contentInfos[c].endpoint, nil
}

// ResponseKey is the JSON key carrying the item list, the plural of the type.
func (c ContentType) ResponseKey() string {
	if !c.Valid() {
		return ""
	}
	return contentInfos[c].key
}

// Label is the plural display name ("Movies", "Anime").
func (c ContentType) Label() string {
	if !c.Valid() {
		return ""
	}
	return contentInfos[c].label
}

// Source names the upstream data provider.
func (c ContentType) Source() string {
	if !c.Valid() {
		return ""
	}
	return contentInfos[c].source
}

// Other returns the opposite content type.
func (c ContentType) Other() ContentType {
	if c == Movie {
		return Anime
	}
	return Movie
}
