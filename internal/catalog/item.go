package catalog

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ItemID is an opaque upstream identifier. Upstreams send numbers, but any
// JSON scalar is accepted; the empty value means the id was absent.
type ItemID string

// UnmarshalJSON accepts any JSON scalar. Numbers and booleans keep their
// literal text. Objects and arrays are rejected.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	switch {
	case raw == "null":
		*id = ""
		return nil
	case strings.HasPrefix(raw, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	case strings.HasPrefix(raw, "{"), strings.HasPrefix(raw, "["):
		return fmt.Errorf("item id: unsupported JSON value %.20s", raw)
	}
	*id = ItemID(raw)
	return nil
}

// MarshalJSON writes integer ids back as numbers.
func (id ItemID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// Item is one ranked movie or anime entry.
type Item struct {
	ID          ItemID   `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string   `json:"title" yaml:"title"`
	ReleaseDate string   `json:"release_date" yaml:"release_date"`
	Rating      float64  `json:"rating" yaml:"rating"`
	Votes       int      `json:"votes" yaml:"votes"`
	GenreIDs    []int    `json:"genre_ids,omitempty" yaml:"genre_ids,omitempty"`
	Genres      []string `json:"genres,omitempty" yaml:"genres,omitempty"`
	PosterURL   string   `json:"poster_url,omitempty" yaml:"poster_url,omitempty"`
	StremioURL  string   `json:"stremio_url,omitempty" yaml:"stremio_url,omitempty"`
}

// Key returns a key unique within a list even when the id is missing or repeated.
func (i Item) Key(index int) string {
	return fmt.Sprintf("%s-%d", i.ID, index)
}

// GenreList joins the genres for display, "N/A" when there are none.
func (i Item) GenreList() string {
	if len(i.Genres) == 0 {
		return "N/A"
	}
	return strings.Join(i.Genres, ", ")
}

// HasGenre reports whether the item carries name, ignoring case.
func (i Item) HasGenre(name string) bool {
	for _, g := range i.Genres {
		if strings.EqualFold(g, name) {
			return true
		}
	}
	return false
}

func (i Item) hasAny(names map[string]bool) bool {
	for name := range names {
		if i.HasGenre(name) {
			return true
		}
	}
	return false
}

func (i Item) hasAll(names map[string]bool) bool {
	for name := range names {
		if !i.HasGenre(name) {
			return false
		}
	}
	return true
}
