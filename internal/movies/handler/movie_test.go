package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinehub/internal/movies/omdb"
	"cinehub/internal/movies/service"
	"cinehub/pkg/config"
	"cinehub/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOMDb serves a two-movie catalogue in OMDb's wire format.
func fakeOMDb(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("i") == "tt0133093" || q.Get("t") == "The Matrix":
			_, _ = w.Write([]byte(`{"Title":"The Matrix","Year":"1999","imdbID":"tt0133093","Response":"True"}`))
		case q.Get("i") == "tt0111161":
			_, _ = w.Write([]byte(`{"Title":"The Shawshank Redemption","Year":"1994","imdbID":"tt0111161","Response":"True"}`))
		case q.Get("s") == "matrix":
			_, _ = w.Write([]byte(`{"Search":[{"Title":"The Matrix","Year":"1999","imdbID":"tt0133093","Type":"movie"}],"totalResults":"1","Response":"True"}`))
		case q.Get("s") != "":
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Movie not found!"}`))
		default:
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRouter(t *testing.T) *httprouter.Router {
	t.Helper()
	srv := fakeOMDb(t)
	cfg := &config.Config{
		Log:                 logger.Discard(),
		FeaturedMovies:      []string{"tt0111161", "tt9999999", "tt0133093"},
		FeaturedConcurrency: 2,
	}
	source := omdb.NewClient(srv.URL, "key", time.Second, cfg.Log)
	router := httprouter.New()
	NewMovieHandler(service.NewCatalogService(source, nil, cfg), cfg.Log).RegisterRoutes(router)
	return router
}

func get(router http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestMovieHandler_ByID(t *testing.T) {
	router := newRouter(t)

	rec := get(router, "/api/v1/movies/id/tt0133093")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data struct {
			ImdbID string `json:"imdb_id"`
			Title  string `json:"title"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "The Matrix", body.Data.Title)

	assert.Equal(t, http.StatusNotFound, get(router, "/api/v1/movies/id/tt0000001").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/movies/id/matrix").Code)
}

func TestMovieHandler_Search(t *testing.T) {
	router := newRouter(t)

	rec := get(router, "/api/v1/movies/search?q=matrix")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total_results":1`)

	rec = get(router, "/api/v1/movies/search?q=nothing-here")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"results":[]`)

	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/movies/search?q=matrix&page=zero").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/api/v1/movies/search").Code)
}

func TestMovieHandler_ByTitle(t *testing.T) {
	router := newRouter(t)

	rec := get(router, "/api/v1/movies/title?t=The%20Matrix")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "tt0133093")
}

func TestMovieHandler_Featured(t *testing.T) {
	router := newRouter(t)

	rec := get(router, "/api/v1/movies/featured")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []struct {
			ImdbID string `json:"imdb_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, "tt0111161", body.Data[0].ImdbID)
	assert.Equal(t, "tt0133093", body.Data[1].ImdbID)
}
