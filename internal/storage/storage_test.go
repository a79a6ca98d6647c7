package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "data", "cinelist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func newRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	s, err := NewRedisStorage(RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, mr
}

func TestAdapters(t *testing.T) {
	adapters := map[string]func(t *testing.T) Adapter{
		"sqlite": func(t *testing.T) Adapter { return newSQLite(t) },
		"redis": func(t *testing.T) Adapter {
			s, _ := newRedis(t)
			return s
		},
	}

	for name, open := range adapters {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := open(t)

			t.Run("AbsentKey", func(t *testing.T) {
				value, found, err := s.Read(ctx, "missing")
				require.NoError(t, err)
				assert.False(t, found)
				assert.Nil(t, value)
			})

			t.Run("WriteThenRead", func(t *testing.T) {
				require.NoError(t, s.Write(ctx, DefaultKey, []byte(`[{"id":"1"}]`)))
				value, found, err := s.Read(ctx, DefaultKey)
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, `[{"id":"1"}]`, string(value))
			})

			t.Run("Overwrite", func(t *testing.T) {
				require.NoError(t, s.Write(ctx, DefaultKey, []byte(`[]`)))
				value, found, err := s.Read(ctx, DefaultKey)
				require.NoError(t, err)
				assert.True(t, found)
				assert.Equal(t, `[]`, string(value))
			})

			t.Run("EmptyValueIsFound", func(t *testing.T) {
				require.NoError(t, s.Write(ctx, "empty", []byte{}))
				_, found, err := s.Read(ctx, "empty")
				require.NoError(t, err)
				assert.True(t, found)
			})
		})
	}
}

func TestSQLitePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cinelist.db")

	s, err := NewSQLiteStorage(path)
	require.NoError(t, err)
	require.NoError(t, s.Write(ctx, DefaultKey, []byte(`["x"]`)))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStorage(path)
	require.NoError(t, err)
	defer s.Close()

	value, found, err := s.Read(ctx, DefaultKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `["x"]`, string(value))
}

func TestSQLiteErrorsAreWrapped(t *testing.T) {
	s := newSQLite(t)
	require.NoError(t, s.Close())

	_, _, err := s.Read(context.Background(), DefaultKey)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))

	var se *Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "read", se.Op)
	assert.Equal(t, DefaultKey, se.Key)
}

func TestRedisErrorsAreWrapped(t *testing.T) {
	s, mr := newRedis(t)
	mr.Close()

	err := s.Write(context.Background(), DefaultKey, []byte(`[]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestNewRedisStorageUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStorage(RedisOptions{Addr: addr})
	assert.Error(t, err)
}
