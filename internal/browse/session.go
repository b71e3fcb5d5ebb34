package browse

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
)

// Generation numbers requests in the order they were issued.
type Generation uint64

// Request is one fetch the session wants performed.
type Request struct {
	Generation  Generation
	ContentType catalog.ContentType
	Genres      []string
}

// Result is the outcome of a Request.
type Result struct {
	Generation Generation
	Items      []catalog.Item
	Err        error
}

// Run performs the request with fetch.
func (r Request) Run(ctx context.Context, fetch FetchFunc) Result {
	items, err := fetch(ctx, r.ContentType, r.Genres)
	return Result{Generation: r.Generation, Items: items, Err: err}
}

// Session is the browser state: the selection, the item list with its
// facets, and the loading and error flags.
//
// Every transition that needs data returns a Request. Results are handed to
// Commit, which only applies the result of the most recently issued request.
// A Session is owned by a single goroutine and is not safe for concurrent use.
type Session struct {
	selection  Selection
	generation Generation
	items      []catalog.Item
	facets     []catalog.GenreFacet
	loading    bool
	err        error
}

// NewSession creates a session showing ct with no genres selected.
func NewSession(ct catalog.ContentType) *Session {
	return &Session{selection: NewSelection(ct)}
}

// Selection returns the current selection.
func (s *Session) Selection() Selection { return s.selection }

// Items returns the committed item list in server order.
func (s *Session) Items() []catalog.Item { return s.items }

// Facets returns the genre facets of the committed list.
func (s *Session) Facets() []catalog.GenreFacet { return s.facets }

// Loading reports whether the latest request is still outstanding.
func (s *Session) Loading() bool { return s.loading }

// Err returns the error of the latest request, if it failed.
func (s *Session) Err() error { return s.err }

// Generation returns the generation of the latest issued request.
func (s *Session) Generation() Generation { return s.generation }

func (s *Session) issue() Request {
	s.generation++
	s.loading = true
	s.err = nil
	return Request{
		Generation:  s.generation,
		ContentType: s.selection.ContentType(),
		Genres:      s.selection.Genres(),
	}
}

// Start issues the initial request.
func (s *Session) Start() Request {
	return s.issue()
}

// SelectGenre toggles name and issues a request for the new selection.
func (s *Session) SelectGenre(name string) Request {
	s.selection.ToggleGenre(name)
	return s.issue()
}

// SetContentType switches the content type. On a change the genres, items and
// facets are cleared at once and a request is issued. It reports false when
// ct is already selected.
func (s *Session) SetContentType(ct catalog.ContentType) (Request, bool, error) {
	changed, err := s.selection.SetContentType(ct)
	if err != nil || !changed {
		return Request{}, false, err
	}
	s.items = nil
	s.facets = nil
	return s.issue(), true, nil
}

// Commit applies res if it answers the latest request and reports whether it
// did. Superseded results are dropped.
func (s *Session) Commit(res Result) bool {
	if res.Generation != s.generation {
		slog.Debug("Dropping superseded result", "generation", res.Generation, "current", s.generation)
		return false
	}

	s.loading = false
	if res.Err != nil {
		s.err = res.Err
		s.items = nil
		s.facets = nil
		return true
	}

	s.err = nil
	s.items = res.Items
	if s.items == nil {
		s.items = []catalog.Item{}
	}
	s.facets = catalog.BuildFacets(s.items)
	return true
}
