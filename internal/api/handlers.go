package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/diegoalvesdg/CineList-Projeto/internal/media"
	"github.com/diegoalvesdg/CineList-Projeto/internal/repository"
	"github.com/diegoalvesdg/CineList-Projeto/internal/schema"
	"github.com/diegoalvesdg/CineList-Projeto/internal/storage"
	"github.com/diegoalvesdg/CineList-Projeto/internal/streaming"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const Version = "0.2.0"

const maxBodyBytes = 1 << 20

type Handler struct {
	store       repository.Store
	logger      zerolog.Logger
	assets      *media.AssetResolver
	streamer    *streaming.Handler
	placeholder string
}

func NewHandler(store repository.Store, logger zerolog.Logger, assets *media.AssetResolver, placeholder string) *Handler {
	return &Handler{
		store:       store,
		logger:      logger,
		assets:      assets,
		streamer:    streaming.NewHandler(),
		placeholder: placeholder,
	}
}

// Routes registers the record store endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/health", h.Health)

	r.Route("/movies", func(r chi.Router) {
		r.Get("/", h.ListMovies)
		r.Post("/", h.CreateMovie)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetMovie)
			r.Patch("/", h.PatchMovie)
			r.Delete("/", h.DeleteMovie)
			r.Put("/watched", h.SetWatched)
			r.Get("/image", h.GetMovieImage)

			r.Post("/comments", h.AddComment)
			r.Delete("/comments/{commentID}", h.RemoveComment)
		})
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:  "ok",
		Version: Version,
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := h.store.List(r.Context())
	if err != nil {
		h.writeStoreError(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, MoviesResponse{Movies: movies})
}

func (h *Handler) CreateMovie(w http.ResponseWriter, r *http.Request) {
	var req CreateMovieRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Rating == nil {
		writeValidationError(w, "rating", "Rating is required")
		return
	}

	// Same fallback as the add-new form when no poster was picked.
	image := req.Image
	if strings.TrimSpace(image) == "" {
		image = h.placeholder
	}

	movie, err := h.store.Create(r.Context(), schema.Movie{
		ID:       req.ID,
		Title:    req.Title,
		Type:     schema.MovieType(req.Type),
		Rating:   *req.Rating,
		Synopsis: req.Synopsis,
		Image:    image,
	})
	if err != nil {
		h.writeStoreError(w, err, req.ID)
		return
	}

	h.logger.Info().
		Str("movie_id", movie.ID).
		Str("title", movie.Title).
		Msg("movie created")

	w.Header().Set("Location", "/api/v1/movies/"+movie.ID)
	writeJSON(w, http.StatusCreated, newMovieResponse(movie))
}

func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	movie, err := h.store.Get(r.Context(), movieID)
	if err != nil {
		h.writeStoreError(w, err, movieID)
		return
	}

	writeJSON(w, http.StatusOK, newMovieResponse(movie))
}

func (h *Handler) PatchMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	var patch schema.MoviePatch
	if !decodeBody(w, r, &patch) {
		return
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "No fields to update")
		return
	}

	movie, err := h.store.Patch(r.Context(), movieID, patch)
	if err != nil {
		h.writeStoreError(w, err, movieID)
		return
	}

	writeJSON(w, http.StatusOK, newMovieResponse(movie))
}

// DeleteMovie answers 204 whether or not the movie existed.
func (h *Handler) DeleteMovie(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	if err := h.store.DeleteMovie(r.Context(), movieID); err != nil {
		h.writeStoreError(w, err, movieID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetWatched(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	var req SetWatchedRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Watched == nil {
		writeValidationError(w, "watched", "Watched is required")
		return
	}

	movie, err := h.store.SetWatched(r.Context(), movieID, *req.Watched)
	if err != nil {
		h.writeStoreError(w, err, movieID)
		return
	}

	writeJSON(w, http.StatusOK, newMovieResponse(movie))
}

func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	var req AddCommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	comment, err := h.store.AddComment(r.Context(), movieID, req.Text)
	if err != nil {
		h.writeStoreError(w, err, movieID)
		return
	}

	writeJSON(w, http.StatusCreated, CommentResponse{
		MovieID: movieID,
		Comment: comment,
	})
}

func (h *Handler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")
	commentID := chi.URLParam(r, "commentID")

	if err := h.store.RemoveComment(r.Context(), movieID, commentID); err != nil {
		h.writeStoreError(w, err, movieID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMovieImage redirects to remote posters and streams local ones.
func (h *Handler) GetMovieImage(w http.ResponseWriter, r *http.Request) {
	movieID := chi.URLParam(r, "id")

	movie, err := h.store.Get(r.Context(), movieID)
	if err != nil {
		h.writeStoreError(w, err, movieID)
		return
	}

	switch media.ClassifyImage(movie.Image) {
	case media.ImageRemote:
		http.Redirect(w, r, movie.Image, http.StatusFound)
	case media.ImageLocal:
		if h.assets == nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Local assets not configured")
			return
		}
		path, err := h.assets.Resolve(movie.Image)
		if err != nil {
			h.logger.Warn().Err(err).Str("id", movieID).Str("image", movie.Image).Msg("cannot resolve poster")
			writeError(w, http.StatusNotFound, "IMAGE_NOT_FOUND", "Image not available")
			return
		}
		h.streamer.ServeFile(w, r, path)
	default:
		writeError(w, http.StatusNotFound, "IMAGE_NOT_FOUND", "Movie has no image")
	}
}

func newMovieResponse(movie schema.Movie) MovieResponse {
	resp := MovieResponse{Movie: movie}
	if media.ClassifyImage(movie.Image) != media.ImageNone {
		resp.ImageURL = "/api/v1/movies/" + movie.ID + "/image"
	}
	return resp
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid request body")
		return false
	}
	return true
}

func (h *Handler) writeStoreError(w http.ResponseWriter, err error, movieID string) {
	var ve *schema.ValidationError

	switch {
	case errors.As(err, &ve):
		writeValidationError(w, ve.Field, ve.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "MOVIE_NOT_FOUND", "Movie not found")
	case errors.Is(err, storage.ErrStorage):
		h.logger.Error().Err(err).Str("id", movieID).Msg("storage failure")
		writeError(w, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Storage unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Request cancelled")
	default:
		h.logger.Error().Err(err).Str("id", movieID).Msg("store operation failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func writeValidationError(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{
		Error: ErrorDetail{
			Code:    "VALIDATION_ERROR",
			Message: message,
			Field:   field,
		},
	})
}
