package schema

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validMovie() Movie {
	return Movie{
		Title:    "Dune",
		Type:     TypeMovie,
		Rating:   8.0,
		Synopsis: "Paul Atreides travels to Arrakis.",
	}
}

func fixedID(id string) IDGenerator {
	return func() string { return id }
}

func TestValidateMovie(t *testing.T) {
	t.Run("AssignsIDAndEmptyComments", func(t *testing.T) {
		m, err := ValidateMovie(validMovie(), fixedID("abc"))
		require.NoError(t, err)
		assert.Equal(t, "abc", m.ID)
		assert.NotNil(t, m.Comments)
		assert.Empty(t, m.Comments)
		assert.False(t, m.Watched)
	})

	t.Run("KeepsSuppliedID", func(t *testing.T) {
		in := validMovie()
		in.ID = "42"
		m, err := ValidateMovie(in, fixedID("abc"))
		require.NoError(t, err)
		assert.Equal(t, "42", m.ID)
	})

	t.Run("MissingIDWithoutGenerator", func(t *testing.T) {
		_, err := ValidateMovie(validMovie(), nil)
		assertInvalidField(t, err, "id")
	})

	t.Run("BlankGeneratedID", func(t *testing.T) {
		_, err := ValidateMovie(validMovie(), fixedID(""))
		assertInvalidField(t, err, "id")
	})

	t.Run("RejectsInvalidUTF8", func(t *testing.T) {
		in := validMovie()
		in.Title = "Dune \xff"
		_, err := ValidateMovie(in, NewID)
		assertInvalidField(t, err, "title")

		in = validMovie()
		in.Synopsis = "\xc3\x28"
		_, err = ValidateMovie(in, NewID)
		assertInvalidField(t, err, "synopsis")

		in = validMovie()
		in.Comments = []Comment{{ID: "1", Text: "ok \xff"}}
		_, err = ValidateMovie(in, NewID)
		assertInvalidField(t, err, "comments[0].text")
	})

	t.Run("RatingBounds", func(t *testing.T) {
		for _, r := range []float64{0, 10, 5.5} {
			in := validMovie()
			in.Rating = r
			_, err := ValidateMovie(in, NewID)
			assert.NoError(t, err, "rating %v", r)
		}
		for _, r := range []float64{-0.1, 10.01, math.NaN(), math.Inf(1)} {
			in := validMovie()
			in.Rating = r
			_, err := ValidateMovie(in, NewID)
			assertInvalidField(t, err, "rating")
		}
	})

	t.Run("RejectsBlankFields", func(t *testing.T) {
		in := validMovie()
		in.Title = "   "
		_, err := ValidateMovie(in, NewID)
		assertInvalidField(t, err, "title")

		in = validMovie()
		in.Synopsis = ""
		_, err = ValidateMovie(in, NewID)
		assertInvalidField(t, err, "synopsis")
	})

	t.Run("Types", func(t *testing.T) {
		in := validMovie()
		in.Type = "Documentary"
		_, err := ValidateMovie(in, NewID)
		assertInvalidField(t, err, "type")

		in.Type = "Série"
		m, err := ValidateMovie(in, NewID)
		require.NoError(t, err)
		assert.Equal(t, TypeSeries, m.Type)

		in.Type = "filme"
		m, err = ValidateMovie(in, NewID)
		require.NoError(t, err)
		assert.Equal(t, TypeMovie, m.Type)
	})

	t.Run("Comments", func(t *testing.T) {
		in := validMovie()
		in.Comments = []Comment{{ID: "1", Text: "a"}, {ID: "1", Text: "b"}}
		_, err := ValidateMovie(in, NewID)
		assertInvalidField(t, err, "comments[1].id")

		in.Comments = []Comment{{ID: "1", Text: ""}}
		_, err = ValidateMovie(in, NewID)
		assertInvalidField(t, err, "comments[0].text")
	})

	t.Run("DoesNotAliasInput", func(t *testing.T) {
		in := validMovie()
		in.Comments = []Comment{{ID: "1", Text: "a"}}
		m, err := ValidateMovie(in, NewID)
		require.NoError(t, err)
		m.Comments[0].Text = "changed"
		assert.Equal(t, "a", in.Comments[0].Text)
	})
}

func TestValidateComment(t *testing.T) {
	_, err := ValidateComment(Comment{Text: strings.Repeat("x", MaxCommentLength)})
	assert.NoError(t, err)

	// Limit counts characters, not bytes.
	_, err = ValidateComment(Comment{Text: strings.Repeat("é", MaxCommentLength)})
	assert.NoError(t, err)

	_, err = ValidateComment(Comment{Text: strings.Repeat("x", MaxCommentLength+1)})
	assertInvalidField(t, err, "text")

	_, err = ValidateComment(Comment{Text: " \n\t"})
	assertInvalidField(t, err, "text")

	_, err = ValidateComment(Comment{Text: "ok \xff"})
	assertInvalidField(t, err, "text")
}

func TestMoviePatch(t *testing.T) {
	assert.True(t, MoviePatch{}.IsEmpty())

	m := validMovie()
	watched := true
	comments := []Comment{{ID: "c1", Text: "hi"}}
	p := MoviePatch{Watched: &watched, Comments: &comments}
	assert.False(t, p.IsEmpty())

	p.Apply(&m)
	assert.True(t, m.Watched)
	assert.Equal(t, "Dune", m.Title)
	require.Len(t, m.Comments, 1)

	comments[0].Text = "mutated"
	assert.Equal(t, "hi", m.Comments[0].Text)
}

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.NotEmpty(t, id)
		require.False(t, seen[id])
		seen[id] = true
	}
}

func assertInvalidField(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, field, ve.Field)
}
