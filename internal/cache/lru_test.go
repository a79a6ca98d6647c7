package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegoalvesdg/CineList-Projeto/internal/schema"
)

func sample() []schema.Movie {
	return []schema.Movie{{
		ID:       "1",
		Title:    "Alita",
		Type:     schema.TypeMovie,
		Rating:   8.5,
		Synopsis: "A cyborg wakes up.",
		Comments: []schema.Comment{{ID: "c1", Text: "nice", Timestamp: 1}},
	}}
}

func TestDocumentCache(t *testing.T) {
	c, err := NewDocumentCache(2)
	require.NoError(t, err)

	raw := []byte(`doc-a`)
	_, ok := c.Get(raw)
	assert.False(t, ok)

	c.Add(raw, sample())
	got, ok := c.Get(raw)
	require.True(t, ok)
	assert.Equal(t, sample(), got)

	t.Run("CopiesOnGet", func(t *testing.T) {
		got[0].Comments[0].Text = "mutated"
		again, ok := c.Get(raw)
		require.True(t, ok)
		assert.Equal(t, "nice", again[0].Comments[0].Text)
	})

	t.Run("KeyedByContent", func(t *testing.T) {
		_, ok := c.Get([]byte(`doc-b`))
		assert.False(t, ok)
	})

	t.Run("Evicts", func(t *testing.T) {
		c.Add([]byte(`doc-b`), nil)
		c.Add([]byte(`doc-c`), nil)
		assert.Equal(t, 2, c.Len())
		_, ok := c.Get(raw)
		assert.False(t, ok)
	})

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestDisabledDocumentCache(t *testing.T) {
	c, err := NewDocumentCache(0)
	require.NoError(t, err)

	c.Add([]byte(`doc`), sample())
	_, ok := c.Get([]byte(`doc`))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	var nilCache *DocumentCache
	_, ok = nilCache.Get([]byte(`doc`))
	assert.False(t, ok)
}
