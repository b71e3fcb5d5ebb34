package server

import (
	"net/http"

	"github.com/lepinkainen/bestlastyear/internal/catalog"
)

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	return nil
}

// getBestLastYear serves the filtered list for ct. Genres are passed as
// repeated selected_genres and excluded_genres parameters.
func (s *Server) getBestLastYear(ct catalog.ContentType) HandlerWithErr {
	return func(w http.ResponseWriter, r *http.Request) error {
		query := r.URL.Query()
		filter := catalog.GenreFilter{
			Include: query["selected_genres"],
			Exclude: query["excluded_genres"],
		}

		resp, err := s.ranker.BestLastYear(r.Context(), ct, filter)
		if err != nil {
			return err
		}

		writeJSON(w, http.StatusOK, resp)
		return nil
	}
}

func (s *Server) getGenres(ct catalog.ContentType) HandlerWithErr {
	return func(w http.ResponseWriter, r *http.Request) error {
		writeJSON(w, http.StatusOK, s.ranker.Genres(r.Context(), ct))
		return nil
	}
}
