package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diegoalvesdg/CineList-Projeto/internal/cache"
	"github.com/diegoalvesdg/CineList-Projeto/internal/schema"
	"github.com/diegoalvesdg/CineList-Projeto/internal/seed"
	"github.com/diegoalvesdg/CineList-Projeto/internal/storage"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

var ErrNotFound = errors.New("movie not found")

// maxIDAttempts bounds regeneration of colliding identifiers.
const maxIDAttempts = 8

type State int32

const (
	StateUninitialized State = iota
	StateSeeding
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSeeding:
		return "seeding"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int32(s))
}

// UpdateFunc mutates a copy of a stored movie. Returning an error aborts the
// update without writing.
type UpdateFunc func(m *schema.Movie) error

type Options struct {
	Key   string               // document key, storage.DefaultKey when empty
	Seed  seed.Source          // seed.Builtin() when nil
	Cache *cache.DocumentCache // optional
	NewID schema.IDGenerator   // schema.NewID when nil
	Now   func() time.Time     // time.Now when nil
}

// Repository owns the persisted movie collection. Every operation is one
// transaction (load, mutate, persist) and transactions never overlap, so
// each one observes the previous one's write.
type Repository struct {
	store  storage.Adapter
	key    string
	seed   seed.Source
	cache  *cache.DocumentCache
	logger zerolog.Logger
	newID  schema.IDGenerator
	now    func() time.Time

	sem   *semaphore.Weighted
	state atomic.Int32

	subsMu sync.Mutex
	subs   map[*subscriber]struct{}
}

func New(store storage.Adapter, logger zerolog.Logger, opts Options) *Repository {
	r := &Repository{
		store:  store,
		key:    opts.Key,
		seed:   opts.Seed,
		cache:  opts.Cache,
		logger: logger.With().Str("component", "repository").Logger(),
		newID:  opts.NewID,
		now:    opts.Now,
		sem:    semaphore.NewWeighted(1),
		subs:   make(map[*subscriber]struct{}),
	}

	if r.key == "" {
		r.key = storage.DefaultKey
	}
	if r.seed == nil {
		r.seed = seed.Builtin()
	}
	if r.newID == nil {
		r.newID = schema.NewID
	}
	if r.now == nil {
		r.now = time.Now
	}

	return r
}

func (r *Repository) State() State {
	return State(r.state.Load())
}

// begin takes the transaction lock. Waiting honours ctx, but the returned
// context ignores cancellation: a started transaction always completes.
func (r *Repository) begin(ctx context.Context) (context.Context, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	return context.WithoutCancel(ctx), nil
}

func (r *Repository) end() {
	r.sem.Release(1)
}

// load returns the latest persisted collection, seeding the document on first
// access. Must be called inside a transaction.
func (r *Repository) load(ctx context.Context) ([]schema.Movie, error) {
	raw, found, err := r.store.Read(ctx, r.key)
	if err != nil {
		return nil, err
	}

	// A zero-byte value counts as absent.
	if !found || len(raw) == 0 {
		if r.State() == StateReady {
			// Removed behind our back after startup; start over empty.
			return []schema.Movie{}, nil
		}
		return r.seedDocument(ctx)
	}

	r.state.Store(int32(StateReady))
	return r.decode(raw), nil
}

func (r *Repository) seedDocument(ctx context.Context) ([]schema.Movie, error) {
	r.state.Store(int32(StateSeeding))

	movies := r.seed.Movies(r.now())
	raw, err := encodeDocument(movies)
	if err != nil {
		r.state.Store(int32(StateUninitialized))
		return nil, fmt.Errorf("encode seed: %w", err)
	}

	if err := r.store.Write(ctx, r.key, raw); err != nil {
		r.state.Store(int32(StateUninitialized))
		return nil, err
	}

	r.cache.Add(raw, movies)
	r.state.Store(int32(StateReady))

	r.logger.Info().
		Str("key", r.key).
		Int("movies", len(movies)).
		Msg("seeded empty store")
	r.publish(Event{Kind: EventSeeded})

	return movies, nil
}

func (r *Repository) decode(raw []byte) []schema.Movie {
	if movies, ok := r.cache.Get(raw); ok {
		return movies
	}

	movies, err := decodeDocument(raw)
	if err != nil {
		r.logger.Warn().
			Err(err).
			Str("key", r.key).
			Int("size", len(raw)).
			Msg("persisted document is invalid, treating it as empty")
		return []schema.Movie{}
	}

	r.cache.Add(raw, movies)
	return movies
}

func (r *Repository) persist(ctx context.Context, movies []schema.Movie) error {
	raw, err := encodeDocument(movies)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err := r.store.Write(ctx, r.key, raw); err != nil {
		return err
	}

	r.cache.Add(raw, movies)
	return nil
}

// view runs a read-only transaction.
func (r *Repository) view(ctx context.Context, fn func(movies []schema.Movie) error) error {
	ctx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer r.end()

	movies, err := r.load(ctx)
	if err != nil {
		return err
	}
	return fn(movies)
}

// mutate runs a read-mutate-write transaction. fn returns the new collection
// and the event describing the change; a nil event means nothing changed and
// nothing is written.
func (r *Repository) mutate(ctx context.Context, fn func(movies []schema.Movie) ([]schema.Movie, *Event, error)) error {
	ctx, err := r.begin(ctx)
	if err != nil {
		return err
	}
	defer r.end()

	movies, err := r.load(ctx)
	if err != nil {
		return err
	}

	next, ev, err := fn(movies)
	if err != nil {
		return err
	}
	if ev == nil {
		return nil
	}

	if err := r.persist(ctx, next); err != nil {
		return err
	}

	r.logger.Debug().
		Str("kind", string(ev.Kind)).
		Str("movie_id", ev.MovieID).
		Str("comment_id", ev.CommentID).
		Int("movies", len(next)).
		Msg("transaction committed")
	r.publish(*ev)

	return nil
}

// List returns the collection in stored order. Storage failures are logged
// and answered with the seed collection (before the store is ready) or an
// empty one; the only error is ctx ending before the transaction starts.
func (r *Repository) List(ctx context.Context) ([]schema.Movie, error) {
	var out []schema.Movie
	err := r.view(ctx, func(movies []schema.Movie) error {
		out = movies
		return nil
	})
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	r.logger.Warn().Err(err).Str("state", r.State().String()).Msg("failed to load collection")
	if r.State() != StateReady {
		return r.seed.Movies(r.now()), nil
	}
	return []schema.Movie{}, nil
}

func (r *Repository) Get(ctx context.Context, id string) (schema.Movie, error) {
	var out schema.Movie
	err := r.view(ctx, func(movies []schema.Movie) error {
		i := indexOf(movies, id)
		if i < 0 {
			return notFound(id)
		}
		out = movies[i]
		return nil
	})
	if err != nil {
		return schema.Movie{}, err
	}
	return out, nil
}

// Create validates in and appends it. A blank id is generated (and
// regenerated on collision); a supplied id already in use is rejected.
func (r *Repository) Create(ctx context.Context, in schema.Movie) (schema.Movie, error) {
	var created schema.Movie
	err := r.mutate(ctx, func(movies []schema.Movie) ([]schema.Movie, *Event, error) {
		if strings.TrimSpace(in.ID) == "" {
			id, err := r.uniqueID(func(id string) bool { return indexOf(movies, id) >= 0 })
			if err != nil {
				return nil, nil, err
			}
			in.ID = id
		} else if indexOf(movies, in.ID) >= 0 {
			return nil, nil, &schema.ValidationError{Field: "id", Reason: fmt.Sprintf("%q already exists", in.ID)}
		}

		m, err := schema.ValidateMovie(in, nil)
		if err != nil {
			return nil, nil, err
		}

		created = m.Clone()
		return append(movies, m), &Event{Kind: EventMovieCreated, MovieID: m.ID}, nil
	})
	if err != nil {
		return schema.Movie{}, err
	}
	return created, nil
}

// Update applies fn to the stored movie and re-validates the result.
// The id cannot be changed.
func (r *Repository) Update(ctx context.Context, id string, fn UpdateFunc) (schema.Movie, error) {
	var updated schema.Movie
	err := r.mutate(ctx, func(movies []schema.Movie) ([]schema.Movie, *Event, error) {
		i := indexOf(movies, id)
		if i < 0 {
			return nil, nil, notFound(id)
		}

		candidate := movies[i].Clone()
		if err := fn(&candidate); err != nil {
			return nil, nil, err
		}
		if candidate.ID != id {
			return nil, nil, &schema.ValidationError{Field: "id", Reason: "is immutable"}
		}

		m, err := schema.ValidateMovie(candidate, nil)
		if err != nil {
			return nil, nil, err
		}

		movies[i] = m
		updated = m.Clone()
		return movies, &Event{Kind: EventMovieUpdated, MovieID: id}, nil
	})
	if err != nil {
		return schema.Movie{}, err
	}
	return updated, nil
}

func (r *Repository) Patch(ctx context.Context, id string, p schema.MoviePatch) (schema.Movie, error) {
	return r.Update(ctx, id, func(m *schema.Movie) error {
		p.Apply(m)
		return nil
	})
}

// SetWatched sets the flag to exactly watched. Toggling is left to callers
// so that repeating the call is harmless.
func (r *Repository) SetWatched(ctx context.Context, id string, watched bool) (schema.Movie, error) {
	return r.Update(ctx, id, func(m *schema.Movie) error {
		m.Watched = watched
		return nil
	})
}

// DeleteMovie removes the movie if present. Deleting an unknown id succeeds.
func (r *Repository) DeleteMovie(ctx context.Context, id string) error {
	return r.mutate(ctx, func(movies []schema.Movie) ([]schema.Movie, *Event, error) {
		i := indexOf(movies, id)
		if i < 0 {
			return movies, nil, nil
		}
		next := append(movies[:i:i], movies[i+1:]...)
		return next, &Event{Kind: EventMovieDeleted, MovieID: id}, nil
	})
}

// AddComment prepends a new comment to the movie's list.
func (r *Repository) AddComment(ctx context.Context, movieID, text string) (schema.Comment, error) {
	if _, err := schema.ValidateComment(schema.Comment{Text: text}); err != nil {
		return schema.Comment{}, err
	}

	var added schema.Comment
	err := r.mutate(ctx, func(movies []schema.Movie) ([]schema.Movie, *Event, error) {
		i := indexOf(movies, movieID)
		if i < 0 {
			return nil, nil, notFound(movieID)
		}

		m := &movies[i]
		id, err := r.uniqueID(func(id string) bool { return m.CommentIndex(id) >= 0 })
		if err != nil {
			return nil, nil, err
		}

		added = schema.Comment{
			ID:        id,
			Text:      text,
			Timestamp: r.now().UnixMilli(),
		}
		m.Comments = append([]schema.Comment{added}, m.Comments...)

		return movies, &Event{Kind: EventCommentAdded, MovieID: movieID, CommentID: id}, nil
	})
	if err != nil {
		return schema.Comment{}, err
	}
	return added, nil
}

// RemoveComment deletes the comment if present. Unknown movie or comment ids
// are not an error.
func (r *Repository) RemoveComment(ctx context.Context, movieID, commentID string) error {
	return r.mutate(ctx, func(movies []schema.Movie) ([]schema.Movie, *Event, error) {
		i := indexOf(movies, movieID)
		if i < 0 {
			return movies, nil, nil
		}

		m := &movies[i]
		j := m.CommentIndex(commentID)
		if j < 0 {
			return movies, nil, nil
		}
		m.Comments = append(m.Comments[:j:j], m.Comments[j+1:]...)

		return movies, &Event{Kind: EventCommentRemoved, MovieID: movieID, CommentID: commentID}, nil
	})
}

func (r *Repository) uniqueID(taken func(id string) bool) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := r.newID()
		if strings.TrimSpace(id) != "" && !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("no unique id after %d attempts", maxIDAttempts)
}

func indexOf(movies []schema.Movie, id string) int {
	for i := range movies {
		if movies[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}
