package schema

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	MinRating        = 0.0
	MaxRating        = 10.0
	MaxCommentLength = 500
)

// ErrInvalid is wrapped by every ValidationError.
var ErrInvalid = errors.New("invalid record")

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalid
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IDGenerator produces record identifiers.
type IDGenerator func() string

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}

// ParseMovieType accepts the canonical names and the legacy Portuguese ones,
// ignoring case.
func ParseMovieType(s string) (MovieType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "filme":
		return TypeMovie, true
	case "series", "série", "serie":
		return TypeSeries, true
	}
	return "", false
}

// ValidateMovie checks in and returns the record to store. A blank id is
// filled from gen; with a nil gen a blank id is an error. Legacy type names
// are rewritten to the canonical ones and a nil comment list becomes empty.
func ValidateMovie(in Movie, gen IDGenerator) (Movie, error) {
	m := in.Clone()

	if strings.TrimSpace(m.ID) == "" {
		if gen == nil {
			return Movie{}, invalid("id", "must not be empty")
		}
		m.ID = gen()
		if strings.TrimSpace(m.ID) == "" {
			return Movie{}, invalid("id", "generator returned an empty id")
		}
	}

	// Invalid UTF-8 would be rewritten to U+FFFD on persist.
	for _, f := range []struct{ name, value string }{
		{"id", m.ID}, {"title", m.Title}, {"synopsis", m.Synopsis}, {"image", m.Image},
	} {
		if !utf8.ValidString(f.value) {
			return Movie{}, invalid(f.name, "must be valid UTF-8")
		}
	}

	if strings.TrimSpace(m.Title) == "" {
		return Movie{}, invalid("title", "must not be empty")
	}

	t, ok := ParseMovieType(string(m.Type))
	if !ok {
		return Movie{}, invalid("type", fmt.Sprintf("unknown type %q", m.Type))
	}
	m.Type = t

	if math.IsNaN(m.Rating) || math.IsInf(m.Rating, 0) {
		return Movie{}, invalid("rating", "must be a finite number")
	}
	if m.Rating < MinRating || m.Rating > MaxRating {
		return Movie{}, invalid("rating", fmt.Sprintf("must be between %.1f and %.1f", MinRating, MaxRating))
	}

	if strings.TrimSpace(m.Synopsis) == "" {
		return Movie{}, invalid("synopsis", "must not be empty")
	}

	seen := make(map[string]struct{}, len(m.Comments))
	for i, c := range m.Comments {
		if strings.TrimSpace(c.ID) == "" {
			return Movie{}, invalid(fmt.Sprintf("comments[%d].id", i), "must not be empty")
		}
		if !utf8.ValidString(c.ID) {
			return Movie{}, invalid(fmt.Sprintf("comments[%d].id", i), "must be valid UTF-8")
		}
		if _, dup := seen[c.ID]; dup {
			return Movie{}, invalid(fmt.Sprintf("comments[%d].id", i), fmt.Sprintf("duplicate id %q", c.ID))
		}
		seen[c.ID] = struct{}{}

		if _, err := ValidateComment(c); err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				ve.Field = fmt.Sprintf("comments[%d].%s", i, ve.Field)
			}
			return Movie{}, err
		}
	}

	return m, nil
}

// ValidateComment checks the comment text. Identifiers and timestamps are the
// caller's concern.
func ValidateComment(in Comment) (Comment, error) {
	if strings.TrimSpace(in.Text) == "" {
		return Comment{}, invalid("text", "must not be empty")
	}
	if !utf8.ValidString(in.Text) {
		return Comment{}, invalid("text", "must be valid UTF-8")
	}
	if n := utf8.RuneCountInString(in.Text); n > MaxCommentLength {
		return Comment{}, invalid("text", fmt.Sprintf("is %d characters, limit is %d", n, MaxCommentLength))
	}
	return in, nil
}
