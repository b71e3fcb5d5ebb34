// Package deeplink builds the external links shown for ranked items and
// hands them to the desktop.
package deeplink

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
)

const (
	searchBaseURL  = "https://www.google.com/search"
	stremioBaseURL = "stremio:///search"
)

// ErrUnsupportedScheme is returned for links that are neither web nor Stremio URLs.
var ErrUnsupportedScheme = errors.New("unsupported link scheme")

// SearchURL returns a web search for the title, qualified by content type
// ("<title> movie" or "<title> anime").
func SearchURL(title string, ct catalog.ContentType) string {
	query := strings.TrimSpace(title)
	if ct.Valid() {
		query += " " + ct.String()
	}
	return searchBaseURL + "?" + url.Values{"q": {query}}.Encode()
}

// StremioURL returns a Stremio deep link searching for the title.
func StremioURL(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return stremioBaseURL + "?" + url.Values{"search": {title}}.Encode()
}

func validate(link string, schemes ...string) error {
	u, err := url.Parse(link)
	if err != nil {
		return fmt.Errorf("parse link: %w", err)
	}
	for _, s := range schemes {
		if strings.EqualFold(u.Scheme, s) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
}
