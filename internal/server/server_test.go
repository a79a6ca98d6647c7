package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diegoalvesdg/CineList-Projeto/internal/api"
	"github.com/diegoalvesdg/CineList-Projeto/internal/config"
	"github.com/diegoalvesdg/CineList-Projeto/internal/media"
	"github.com/diegoalvesdg/CineList-Projeto/internal/repository"
	"github.com/diegoalvesdg/CineList-Projeto/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *bytes.Buffer) {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "cinelist.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	assets, err := media.NewAssetResolver(t.TempDir())
	require.NoError(t, err)

	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	repo := repository.New(store, zerolog.Nop(), repository.Options{})
	return New(config.Default(), logger, repo, assets), &logs
}

func TestServerRoutes(t *testing.T) {
	srv, logs := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp api.MoviesResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Movies, 3)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(logs.Bytes()), &line))
	assert.Equal(t, "request", line["message"])
	assert.Equal(t, "/api/v1/movies", line["path"])
	assert.NotEmpty(t, line["request_id"])
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/v1/movies/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestUnknownRoute(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/library/tree", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
