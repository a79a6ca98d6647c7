package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/diegoalvesdg/CineList-Projeto/internal/schema"
)

// decodeDocument parses a persisted collection. Any record failing schema
// validation, or a duplicated movie id, makes the whole document invalid.
func decodeDocument(raw []byte) ([]schema.Movie, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	var movies []schema.Movie
	if err := dec.Decode(&movies); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode document: trailing data")
	}

	out := make([]schema.Movie, 0, len(movies))
	seen := make(map[string]struct{}, len(movies))
	for i := range movies {
		m, err := schema.ValidateMovie(movies[i], nil)
		if err != nil {
			return nil, fmt.Errorf("decode document: movie %d: %w", i, err)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("decode document: duplicate movie id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}

	return out, nil
}

func encodeDocument(movies []schema.Movie) ([]byte, error) {
	if movies == nil {
		movies = []schema.Movie{}
	}
	for i := range movies {
		if movies[i].Comments == nil {
			movies[i].Comments = []schema.Comment{}
		}
	}
	return json.Marshal(movies)
}
