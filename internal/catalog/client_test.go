package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "test-key", "ko-KR", 2*time.Second)
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	return client
}

func TestFetchByGenre(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "ko-KR", q.Get("language"))
		assert.Equal(t, "28", q.Get("with_genres"))
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "popularity.desc", q.Get("sort_by"))

		fmt.Fprint(w, `{"results":[
            {"id":27205,"title":"인셉션","overview":"o","poster_path":"/p.jpg","release_date":"2010-07-21","vote_average":8.4,"genre_ids":[28,878]},
            {"id":19995,"title":"아바타","vote_average":7.6,"genre_ids":[28,12]}
        ]}`)
	})

	got, err := client.FetchByGenre(context.Background(), 28, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(27205), got[0].ID)
	assert.Equal(t, "인셉션", got[0].Title)
	assert.Equal(t, 8.4, got[0].AverageRating)
	assert.Equal(t, []int64{28, 878}, got[0].GenreIDs)
	assert.Nil(t, got[0].ActorIDs)
	assert.Nil(t, got[0].MatchingScore)
}

func TestFetchByActor(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/discover/movie", r.URL.Path)
		assert.Equal(t, "500", r.URL.Query().Get("with_cast"))
		fmt.Fprint(w, `{"results":[{"id":1,"title":"t"}]}`)
	})

	got, err := client.FetchByActor(context.Background(), 500, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestFetchByGenreTolerantOfMissingFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":[{"id":42}]}`)
	})

	got, err := client.FetchByGenre(context.Background(), 28, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].ID)
	assert.Empty(t, got[0].Title)
	assert.Zero(t, got[0].AverageRating)
}

func TestFetchPopularTruncates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/popular", r.URL.Path)
		fmt.Fprint(w, `{"results":[{"id":1},{"id":2},{"id":3}]}`)
	})

	got, err := client.FetchPopular(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = client.FetchPopular(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestFetchCastTopFive(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/27205/credits", r.URL.Path)
		fmt.Fprint(w, `{"cast":[
            {"id":1,"name":"a"},{"id":2,"name":"b"},{"id":3,"name":"c"},
            {"id":4,"name":"d"},{"id":5,"name":"e"},{"id":6,"name":"f"},{"id":7,"name":"g"}
        ]}`)
	})

	got, err := client.FetchCast(context.Background(), 27205)
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "e", got[4].Name)
}

func TestFetchUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.FetchByGenre(context.Background(), 28, 1)
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "/discover/movie", fetchErr.Endpoint)
}

func TestFetchMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"results":`)
	})

	_, err := client.FetchPopular(context.Background(), 5)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
}

func TestFetchHonoursContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchByGenre(ctx, 28, 1)
	require.Error(t, err)
}

func TestGenreName(t *testing.T) {
	assert.Equal(t, "액션", GenreName(28))
	assert.Equal(t, "애니메이션", GenreName(16))
	assert.Equal(t, "기타", GenreName(424242))
}
