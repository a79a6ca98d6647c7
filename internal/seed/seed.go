package seed

import (
	"fmt"
	"os"
	"time"

	"github.com/diegoalvesdg/CineList-Projeto/internal/schema"
	"gopkg.in/yaml.v3"
)

// Source provides the collection written to an empty store on first run.
type Source interface {
	Movies(now time.Time) []schema.Movie
}

type builtin struct{}

// Builtin returns the three sample records shipped with the app.
func Builtin() Source {
	return builtin{}
}

func (builtin) Movies(now time.Time) []schema.Movie {
	ms := now.UnixMilli()
	day := int64(24 * time.Hour / time.Millisecond)

	return []schema.Movie{
		{
			ID:       "1",
			Title:    "Stranger Things",
			Type:     schema.TypeSeries,
			Rating:   9.8,
			Synopsis: "Stranger Things é uma série de ficção científica e terror dos anos 1980 que acompanha o desaparecimento de um garoto e os fenômenos sobrenaturais que afetam a cidade de Hawkins.",
			Image:    "assets/imagens/stranger.jpg",
			Comments: []schema.Comment{
				{ID: "1", Text: "Essa série é incrível!", Timestamp: ms - day},
				{ID: "2", Text: "Ansioso pela nova aventura com a 11 em Hawkins", Timestamp: ms - 2*day},
			},
		},
		{
			ID:       "2",
			Title:    "Vingadores: Ultimato",
			Type:     schema.TypeMovie,
			Rating:   9.2,
			Synopsis: "Os Vingadores enfrentam Thanos em uma épica batalha final.",
			Image:    "https://via.placeholder.com/300x400?text=Vingadores",
			Comments: []schema.Comment{},
		},
		{
			ID:       "3",
			Title:    "Alita: Anjo de Combate",
			Type:     schema.TypeMovie,
			Rating:   8.5,
			Synopsis: "Uma ciborgue amnésica descobre sua verdadeira natureza em uma metrópole futurista.",
			Image:    "assets/imagens/alita.jpg",
			Comments: []schema.Comment{},
		},
	}
}

type fileSeed struct {
	Movies []fileMovie `yaml:"movies"`
}

// fileMovie lets a seed file give comment ages instead of absolute timestamps.
type fileMovie struct {
	schema.Movie `yaml:",inline"`
	CommentAges  []time.Duration `yaml:"comment_ages"`
}

type static struct {
	movies []fileMovie
}

// FromFile loads seed records from a YAML file. Every record is validated
// up front so a bad file is reported at startup, not on first run.
func FromFile(path string) (Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}

	var doc fileSeed
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(doc.Movies))
	for i, fm := range doc.Movies {
		m, err := schema.ValidateMovie(fm.Movie, nil)
		if err != nil {
			return nil, fmt.Errorf("seed movie %d: %w", i, err)
		}
		if _, dup := seen[m.ID]; dup {
			return nil, fmt.Errorf("seed movie %d: duplicate id %q", i, m.ID)
		}
		seen[m.ID] = struct{}{}
		doc.Movies[i].Movie = m
	}

	return static{movies: doc.Movies}, nil
}

func (s static) Movies(now time.Time) []schema.Movie {
	out := make([]schema.Movie, len(s.movies))
	for i, fm := range s.movies {
		m := fm.Movie.Clone()
		for j := range m.Comments {
			if m.Comments[j].Timestamp == 0 && j < len(fm.CommentAges) {
				m.Comments[j].Timestamp = now.Add(-fm.CommentAges[j]).UnixMilli()
			}
		}
		out[i] = m
	}
	return out
}
