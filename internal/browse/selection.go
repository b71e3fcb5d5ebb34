package browse

import (
	"fmt"
	"slices"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
)

// Selection is the user's filter state: one content type and a set of genre
// names. Genres are kept in selection order only so requests are stable.
type Selection struct {
	contentType catalog.ContentType
	genres      []string
}

// NewSelection returns a selection of ct with no genres.
func NewSelection(ct catalog.ContentType) Selection {
	return Selection{contentType: ct}
}

// ContentType returns the selected content type.
func (s Selection) ContentType() catalog.ContentType {
	return s.contentType
}

// Genres returns a copy of the selected genre names.
func (s Selection) Genres() []string {
	return slices.Clone(s.genres)
}

// IsSelected reports whether name is selected.
func (s Selection) IsSelected(name string) bool {
	return slices.Contains(s.genres, name)
}

// ToggleGenre adds name when absent and removes it when present.
func (s *Selection) ToggleGenre(name string) {
	if i := slices.Index(s.genres, name); i >= 0 {
		s.genres = slices.Delete(slices.Clone(s.genres), i, i+1)
		return
	}
	s.genres = append(slices.Clone(s.genres), name)
}

// SetContentType switches to ct and clears the genres. It reports false when
// ct is already selected.
func (s *Selection) SetContentType(ct catalog.ContentType) (bool, error) {
	if !ct.Valid() {
		return false, fmt.Errorf("%w: %s", catalog.ErrUnknownContentType, ct)
	}
	if ct == s.contentType {
		return false, nil
	}
	s.contentType = ct
	s.genres = nil
	return true, nil
}
