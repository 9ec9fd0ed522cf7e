package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"cinehub/pkg/client"
	apperrors "cinehub/pkg/errors"
	"cinehub/pkg/logger"
	"cinehub/pkg/model"
)

const (
	responseTrue = "True"

	errMovieNotFound  = "Movie not found!"
	errIncorrectID    = "Incorrect IMDb ID."
	errTooManyResults = "Too many results."

	notAvailable = "N/A"

	MaxSearchPage = 100
)

var ErrMissingAPIKey = errors.New("OMDB_API_KEY is not configured")

// Client talks to the OMDb API. It never returns raw transport errors:
// everything is mapped onto an AppError.
type Client struct {
	http   *client.HttpClient
	apiKey string
	log    *logger.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		http:   client.NewHttpClientWithTimeout(strings.TrimRight(baseURL, "/")+"/", timeout),
		apiKey: apiKey,
		log:    log,
	}
}

type movieResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	Rated      string `json:"Rated"`
	Runtime    string `json:"Runtime"`
	Genre      string `json:"Genre"`
	Director   string `json:"Director"`
	Actors     string `json:"Actors"`
	Plot       string `json:"Plot"`
	Poster     string `json:"Poster"`
	ImdbRating string `json:"imdbRating"`
	ImdbID     string `json:"imdbID"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

type searchResponse struct {
	Search []struct {
		Title  string `json:"Title"`
		Year   string `json:"Year"`
		ImdbID string `json:"imdbID"`
		Type   string `json:"Type"`
		Poster string `json:"Poster"`
	} `json:"Search"`
	TotalResults string `json:"totalResults"`
	Response     string `json:"Response"`
	Error        string `json:"Error"`
}

func (c *Client) LookupByID(ctx context.Context, imdbID string) (*model.Movie, error) {
	var resp movieResponse
	if err := c.get(ctx, url.Values{"i": {imdbID}, "plot": {"short"}}, &resp); err != nil {
		return nil, err
	}
	if resp.Response != responseTrue {
		return nil, c.mapError(resp.Error, "Movie", imdbID)
	}
	return resp.toMovie(), nil
}

func (c *Client) LookupByTitle(ctx context.Context, title string) (*model.Movie, error) {
	var resp movieResponse
	if err := c.get(ctx, url.Values{"t": {title}, "plot": {"short"}}, &resp); err != nil {
		return nil, err
	}
	if resp.Response != responseTrue {
		return nil, c.mapError(resp.Error, "Movie", title)
	}
	return resp.toMovie(), nil
}

// Search treats "Movie not found!" as an empty page rather than an error.
func (c *Client) Search(ctx context.Context, query string, page int) (*model.MovieSearchResult, error) {
	page = min(max(page, 1), MaxSearchPage)

	var resp searchResponse
	params := url.Values{"s": {query}, "page": {strconv.Itoa(page)}}
	if err := c.get(ctx, params, &resp); err != nil {
		return nil, err
	}

	result := &model.MovieSearchResult{Results: []model.MovieSummary{}, Page: page}
	if resp.Response != responseTrue {
		switch resp.Error {
		case errMovieNotFound:
			return result, nil
		case errTooManyResults:
			return nil, apperrors.InvalidInput("Search query is too broad, please be more specific")
		default:
			return nil, c.mapError(resp.Error, "Movie", query)
		}
	}

	for _, item := range resp.Search {
		result.Results = append(result.Results, model.MovieSummary{
			ImdbID: item.ImdbID,
			Title:  item.Title,
			Year:   item.Year,
			Type:   item.Type,
			Poster: clean(item.Poster),
		})
	}
	result.TotalResults, _ = strconv.Atoi(resp.TotalResults)
	return result, nil
}

func (c *Client) get(ctx context.Context, params url.Values, target any) error {
	if c.apiKey == "" {
		return catalogueUnavailable(ErrMissingAPIKey)
	}
	params.Set("apikey", c.apiKey)

	resp, err := c.http.Get(ctx, "", params)
	if err != nil {
		c.log.Warn("OMDb request failed", "error", err)
		return catalogueUnavailable(err)
	}
	// OMDb answers a bad key with 401 and a JSON error body, so only 5xx counts as an outage.
	if resp.StatusCode >= http.StatusInternalServerError {
		c.log.Warn("OMDb returned server error", "status", resp.StatusCode)
		return catalogueUnavailable(fmt.Errorf("omdb status %d", resp.StatusCode))
	}
	if err := resp.DecodeJSON(target); err != nil {
		c.log.Warn("OMDb returned undecodable body", "status", resp.StatusCode, "error", err)
		return catalogueUnavailable(err)
	}
	return nil
}

func (c *Client) mapError(message, resource, id string) error {
	switch message {
	case errMovieNotFound, errIncorrectID:
		return apperrors.NotFoundWithID(resource, id)
	default:
		c.log.Error("OMDb rejected request", "omdb_error", message)
		return catalogueUnavailable(fmt.Errorf("omdb: %s", message))
	}
}

func catalogueUnavailable(err error) *apperrors.AppError {
	appErr := apperrors.Unavailable("movie catalogue")
	appErr.Err = err
	return appErr
}

func (r *movieResponse) toMovie() *model.Movie {
	return &model.Movie{
		ImdbID:     r.ImdbID,
		Title:      r.Title,
		Year:       r.Year,
		Genre:      clean(r.Genre),
		Poster:     clean(r.Poster),
		Plot:       clean(r.Plot),
		Director:   clean(r.Director),
		Actors:     clean(r.Actors),
		Runtime:    clean(r.Runtime),
		Rated:      clean(r.Rated),
		ImdbRating: clean(r.ImdbRating),
	}
}

func clean(value string) string {
	if value == notAvailable {
		return ""
	}
	return value
}
