package schema

type MovieType string

const (
	TypeMovie  MovieType = "Movie"
	TypeSeries MovieType = "Series"
)

// PlaceholderImage is the poster used when a record is added without one.
const PlaceholderImage = "https://via.placeholder.com/300x400?text=Movie"

type Comment struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	Timestamp int64  `json:"timestamp" yaml:"timestamp"` // Milliseconds since epoch
}

type Movie struct {
	ID       string    `json:"id" yaml:"id"`
	Title    string    `json:"title" yaml:"title"`
	Type     MovieType `json:"type" yaml:"type"`
	Rating   float64   `json:"rating" yaml:"rating"` // 0.0 - 10.0
	Synopsis string    `json:"synopsis" yaml:"synopsis"`
	Image    string    `json:"image" yaml:"image"`
	Watched  bool      `json:"watched" yaml:"watched"`
	Comments []Comment `json:"comments" yaml:"comments"` // Newest first
}

// Clone returns a copy that shares no comment storage with m.
func (m Movie) Clone() Movie {
	c := m
	c.Comments = make([]Comment, len(m.Comments))
	copy(c.Comments, m.Comments)
	return c
}

// CloneAll deep-copies a collection. The result is never nil.
func CloneAll(movies []Movie) []Movie {
	out := make([]Movie, len(movies))
	for i := range movies {
		out[i] = movies[i].Clone()
	}
	return out
}

// CommentIndex returns the position of the comment with the given id, or -1.
func (m Movie) CommentIndex(id string) int {
	for i := range m.Comments {
		if m.Comments[i].ID == id {
			return i
		}
	}
	return -1
}
