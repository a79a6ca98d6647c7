package repository

type EventKind string

const (
	EventSeeded         EventKind = "store.seeded"
	EventMovieCreated   EventKind = "movie.created"
	EventMovieUpdated   EventKind = "movie.updated"
	EventMovieDeleted   EventKind = "movie.deleted"
	EventCommentAdded   EventKind = "comment.added"
	EventCommentRemoved EventKind = "comment.removed"
)

// Event describes one committed change to the collection.
type Event struct {
	Kind      EventKind `json:"kind"`
	MovieID   string    `json:"movie_id,omitempty"`
	CommentID string    `json:"comment_id,omitempty"`
}

type subscriber struct {
	ch chan Event
}

// Subscribe returns a channel receiving every committed change, in commit
// order. Events are dropped for a subscriber whose buffer is full. Calling
// the returned func closes the channel.
func (r *Repository) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 1 {
		buffer = 1
	}
	sub := &subscriber{ch: make(chan Event, buffer)}

	r.subsMu.Lock()
	r.subs[sub] = struct{}{}
	r.subsMu.Unlock()

	cancel := func() {
		r.subsMu.Lock()
		defer r.subsMu.Unlock()
		if _, ok := r.subs[sub]; ok {
			delete(r.subs, sub)
			close(sub.ch)
		}
	}
	return sub.ch, cancel
}

func (r *Repository) publish(ev Event) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()

	for sub := range r.subs {
		select {
		case sub.ch <- ev:
		default:
			r.logger.Debug().
				Str("kind", string(ev.Kind)).
				Str("movie_id", ev.MovieID).
				Msg("subscriber buffer full, event dropped")
		}
	}
}
