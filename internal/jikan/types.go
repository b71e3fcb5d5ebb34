package jikan

// Genre is one entry of Jikan's anime genre list.
type Genre struct {
	ID    int    `json:"mal_id"`
	Name  string `json:"name"`
	Count int    `json:"count,omitempty"`
}

// Anime represents a single entry from /anime.
type Anime struct {
	MalID        int     `json:"mal_id"`
	Title        string  `json:"title"`
	TitleEnglish string  `json:"title_english"`
	Score        float64 `json:"score"`
	ScoredBy     int     `json:"scored_by"`
	Images       Images  `json:"images"`
	Aired        Aired   `json:"aired"`
	Genres       []Genre `json:"genres"`
}

// Images holds poster variants per format.
type Images struct {
	JPG ImageURLs `json:"jpg"`
}

// ImageURLs lists the poster sizes Jikan returns.
type ImageURLs struct {
	ImageURL      string `json:"image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// Aired is the broadcast period; From is an RFC 3339 timestamp.
type Aired struct {
	From string `json:"from"`
}

// Pagination describes the page returned.
type Pagination struct {
	LastVisiblePage int  `json:"last_visible_page"`
	HasNextPage     bool `json:"has_next_page"`
}

type animePage struct {
	Data       []Anime    `json:"data"`
	Pagination Pagination `json:"pagination"`
}
