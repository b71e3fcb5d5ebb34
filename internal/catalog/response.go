package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
)

// GenreRef is an upstream genre with its provider id. TMDB ids are numbers,
// anime genres use the name as id.
type GenreRef struct {
	ID   any    `json:"id"`
	Name string `json:"name"`
}

// ListResponse is the body of a best-last-year endpoint. The item list is
// written under the key of its content type ("movies" or "anime").
type ListResponse struct {
	Type            ContentType
	Items           []Item
	AvailableGenres []GenreRef
}

// MarshalJSON encodes the response with the list keyed by content type.
func (r ListResponse) MarshalJSON() ([]byte, error) {
	if !r.Type.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContentType, r.Type)
	}
	items := r.Items
	if items == nil {
		items = []Item{}
	}
	genres := r.AvailableGenres
	if genres == nil {
		genres = []GenreRef{}
	}
	return json.Marshal(map[string]any{
		r.Type.ResponseKey(): items,
		"available_genres":   genres,
	})
}

// DecodeList reads a best-last-year body and returns the items for ct.
//
// The key for ct is looked up first and the other content type's key is
// accepted when it is absent. A missing, null or malformed list yields an
// empty list, and entries that cannot be read as items are skipped. Only a
// body that is not a JSON object is an error.
func DecodeList(ct ContentType, r io.Reader) ([]Item, error) {
	if !ct.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownContentType, ct)
	}

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", ct, err)
	}

	raw, ok := fields[ct.ResponseKey()]
	if !ok {
		raw, ok = fields[ct.Other().ResponseKey()]
	}
	if !ok || len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return []Item{}, nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.Debug("Ignoring malformed item list", "content_type", ct.String(), "error", err)
		return []Item{}, nil
	}

	items := make([]Item, 0, len(entries))
	for i, entry := range entries {
		var item Item
		if err := json.Unmarshal(entry, &item); err != nil {
			slog.Debug("Skipping malformed item", "content_type", ct.String(), "index", i, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}
