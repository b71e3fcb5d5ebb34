package tmdb

// Genre is one entry of TMDB's genre list.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// DiscoverResult represents a single movie from /discover/movie.
type DiscoverResult struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	ReleaseDate string  `json:"release_date"`
	PosterPath  string  `json:"poster_path"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
	GenreIDs    []int   `json:"genre_ids"`
}

type discoverPage struct {
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	Results    []DiscoverResult `json:"results"`
}
