package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/moviej/moviej-backend/internal/domain"
)

const castLimit = 5

// FetchError describes a failed call against the external catalog. Callers
// decide whether to surface or absorb it; the client never hides failures.
type FetchError struct {
	Endpoint string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog: %s: %v", e.Endpoint, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client defines the contract for querying the external movie catalog.
type Client interface {
	FetchByGenre(ctx context.Context, genreID int64, page int) ([]domain.Candidate, error)
	FetchByActor(ctx context.Context, actorID int64, page int) ([]domain.Candidate, error)
	FetchCast(ctx context.Context, movieID int64) ([]domain.CastMember, error)
	FetchPopular(ctx context.Context, count int) ([]domain.Candidate, error)
}

// HTTPClient implements Client over HTTP against a TMDB-shaped API.
type HTTPClient struct {
	baseURL  *url.URL
	apiKey   string
	language string
	client   *http.Client
}

// NewHTTPClient constructs a new HTTP-backed catalog client.
func NewHTTPClient(baseURL, apiKey, language string, timeout time.Duration) (*HTTPClient, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	return &HTTPClient{
		baseURL:  parsed,
		apiKey:   apiKey,
		language: language,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}, nil
}

// FetchByGenre lists movies for a genre, most popular first.
func (c *HTTPClient) FetchByGenre(ctx context.Context, genreID int64, page int) ([]domain.Candidate, error) {
	params := url.Values{}
	params.Set("with_genres", strconv.FormatInt(genreID, 10))
	return c.discover(ctx, params, page)
}

// FetchByActor lists movies featuring an actor, most popular first.
func (c *HTTPClient) FetchByActor(ctx context.Context, actorID int64, page int) ([]domain.Candidate, error) {
	params := url.Values{}
	params.Set("with_cast", strconv.FormatInt(actorID, 10))
	return c.discover(ctx, params, page)
}

func (c *HTTPClient) discover(ctx context.Context, params url.Values, page int) ([]domain.Candidate, error) {
	params.Set("page", strconv.Itoa(page))
	params.Set("sort_by", "popularity.desc")

	var payload searchResponse
	if err := c.get(ctx, "/discover/movie", params, &payload); err != nil {
		return nil, err
	}
	return convertResults(payload.Results), nil
}

// FetchPopular returns up to count movies from the catalog's popular list.
func (c *HTTPClient) FetchPopular(ctx context.Context, count int) ([]domain.Candidate, error) {
	params := url.Values{}
	params.Set("page", "1")

	var payload searchResponse
	if err := c.get(ctx, "/movie/popular", params, &payload); err != nil {
		return nil, err
	}
	results := payload.Results
	if count >= 0 && count < len(results) {
		results = results[:count]
	}
	return convertResults(results), nil
}

// FetchCast returns the top five cast members of a movie in catalog order.
func (c *HTTPClient) FetchCast(ctx context.Context, movieID int64) ([]domain.CastMember, error) {
	endpoint := fmt.Sprintf("/movie/%d/credits", movieID)

	var payload creditsResponse
	if err := c.get(ctx, endpoint, url.Values{}, &payload); err != nil {
		return nil, err
	}

	cast := payload.Cast
	if len(cast) > castLimit {
		cast = cast[:castLimit]
	}
	members := make([]domain.CastMember, 0, len(cast))
	for _, entry := range cast {
		members = append(members, domain.CastMember{ID: entry.ID, Name: entry.Name})
	}
	return members, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint string, params url.Values, dst interface{}) error {
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	rel := &url.URL{Path: endpoint, RawQuery: params.Encode()}
	target := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &FetchError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("upstream returned %d", resp.StatusCode)}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &FetchError{Endpoint: endpoint, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

type searchResponse struct {
	Results []movieResult `json:"results"`
}

// movieResult tolerates absent optional fields; only the id is required to
// be meaningful, everything else decodes to its zero value.
type movieResult struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	VoteAverage float64 `json:"vote_average"`
	GenreIDs    []int64 `json:"genre_ids"`
}

type creditsResponse struct {
	Cast []castResult `json:"cast"`
}

type castResult struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func convertResults(results []movieResult) []domain.Candidate {
	candidates := make([]domain.Candidate, 0, len(results))
	for _, result := range results {
		candidates = append(candidates, domain.Candidate{
			ID:            result.ID,
			Title:         result.Title,
			Overview:      result.Overview,
			PosterPath:    result.PosterPath,
			ReleaseDate:   result.ReleaseDate,
			AverageRating: result.VoteAverage,
			GenreIDs:      result.GenreIDs,
		})
	}
	return candidates
}
