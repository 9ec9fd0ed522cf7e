package model

type Movie struct {
	ImdbID     string `json:"imdb_id"`
	Title      string `json:"title"`
	Year       string `json:"year"`
	Genre      string `json:"genre,omitempty"`
	Poster     string `json:"poster,omitempty"`
	Plot       string `json:"plot,omitempty"`
	Director   string `json:"director,omitempty"`
	Actors     string `json:"actors,omitempty"`
	Runtime    string `json:"runtime,omitempty"`
	Rated      string `json:"rated,omitempty"`
	ImdbRating string `json:"imdb_rating,omitempty"`
}

type MovieSummary struct {
	ImdbID string `json:"imdb_id"`
	Title  string `json:"title"`
	Year   string `json:"year"`
	Type   string `json:"type"`
	Poster string `json:"poster,omitempty"`
}

type MovieSearchResult struct {
	Results      []MovieSummary `json:"results"`
	TotalResults int            `json:"total_results"`
	Page         int            `json:"page"`
}
