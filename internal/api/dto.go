package api

import "github.com/diegoalvesdg/CineList-Projeto/internal/schema"

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type MoviesResponse struct {
	Movies []schema.Movie `json:"movies"`
}

type MovieResponse struct {
	Movie    schema.Movie `json:"movie"`
	ImageURL string       `json:"image_url,omitempty"`
}

// CreateMovieRequest mirrors the add-new form. Rating is a pointer so that a
// missing value is told apart from 0.
type CreateMovieRequest struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title"`
	Type     string   `json:"type"`
	Rating   *float64 `json:"rating"`
	Synopsis string   `json:"synopsis"`
	Image    string   `json:"image,omitempty"`
}

type SetWatchedRequest struct {
	Watched *bool `json:"watched"`
}

type AddCommentRequest struct {
	Text string `json:"text"`
}

type CommentResponse struct {
	MovieID string         `json:"movie_id"`
	Comment schema.Comment `json:"comment"`
}
