package catalog

import (
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// GenreFacet is a genre name with the number of items in the current list
// carrying it.
type GenreFacet struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// BuildFacets derives the genre facets of items from scratch. Empty genre
// names are skipped. Facets are ordered by English collation with byte order
// as the tie-breaker, so the result depends only on items.
func BuildFacets(items []Item) []GenreFacet {
	counts := make(map[string]int)
	for _, item := range items {
		for _, name := range item.Genres {
			if name == "" {
				continue
			}
			counts[name]++
		}
	}

	facets := make([]GenreFacet, 0, len(counts))
	for name, count := range counts {
		facets = append(facets, GenreFacet{Name: name, Count: count})
	}

	// collate.Collator keeps internal buffers, so one per call
	col := collate.New(language.English)
	slices.SortFunc(facets, func(a, b GenreFacet) int {
		if c := col.CompareString(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return facets
}
