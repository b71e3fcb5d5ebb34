package catalog

import "strings"

// ignoredSelections are placeholder genre names that mean "no filter".
var ignoredSelections = map[string]bool{
	"none": true,
	"all":  true,
	"any":  true,
}

// GenreFilter narrows a ranked list by genre name, ignoring case.
type GenreFilter struct {
	// Include keeps items carrying every one of these genres.
	Include []string
	// Exclude drops items carrying any of these genres.
	Exclude []string
}

// Empty reports whether the filter keeps every item.
func (f GenreFilter) Empty() bool {
	return len(f.include()) == 0 && len(f.exclude()) == 0
}

func (f GenreFilter) include() map[string]bool {
	names := make(map[string]bool, len(f.Include))
	for _, name := range f.Include {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "" || ignoredSelections[lower] {
			continue
		}
		names[lower] = true
	}
	return names
}

func (f GenreFilter) exclude() map[string]bool {
	names := make(map[string]bool, len(f.Exclude))
	for _, name := range f.Exclude {
		lower := strings.ToLower(strings.TrimSpace(name))
		if lower == "" {
			continue
		}
		names[lower] = true
	}
	return names
}

// Apply returns the items passing the filter, keeping their order.
func (f GenreFilter) Apply(items []Item) []Item {
	include, exclude := f.include(), f.exclude()
	if len(include) == 0 && len(exclude) == 0 {
		return items
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if item.hasAny(exclude) || !item.hasAll(include) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Restrict drops included and excluded names missing from known, ignoring
// case. Movie genres are matched against the provider's genre list this way,
// so an unknown name does not narrow the result.
func (f GenreFilter) Restrict(known []string) GenreFilter {
	set := make(map[string]bool, len(known))
	for _, name := range known {
		set[strings.ToLower(name)] = true
	}
	keep := func(names []string) []string {
		var out []string
		for _, name := range names {
			if set[strings.ToLower(strings.TrimSpace(name))] {
				out = append(out, name)
			}
		}
		return out
	}
	return GenreFilter{Include: keep(f.Include), Exclude: keep(f.Exclude)}
}
