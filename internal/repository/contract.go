package repository

import (
	"context"

	"github.com/diegoalvesdg/CineList-Projeto/internal/schema"
)

// Store is what the presentation layer sees of the record store. Views
// re-fetch List when they regain focus, or Subscribe to hear about changes
// made elsewhere.
type Store interface {
	List(ctx context.Context) ([]schema.Movie, error)
	Get(ctx context.Context, id string) (schema.Movie, error)
	Create(ctx context.Context, in schema.Movie) (schema.Movie, error)
	Update(ctx context.Context, id string, fn UpdateFunc) (schema.Movie, error)
	Patch(ctx context.Context, id string, p schema.MoviePatch) (schema.Movie, error)
	DeleteMovie(ctx context.Context, id string) error
	AddComment(ctx context.Context, movieID, text string) (schema.Comment, error)
	RemoveComment(ctx context.Context, movieID, commentID string) error
	SetWatched(ctx context.Context, id string, watched bool) (schema.Movie, error)
	Subscribe(buffer int) (<-chan Event, func())
}

var _ Store = (*Repository)(nil)
