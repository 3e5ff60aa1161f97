package recommend

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviej/moviej-backend/internal/catalog"
	"github.com/moviej/moviej-backend/internal/domain"
	"github.com/moviej/moviej-backend/internal/repository"
)

type fakeCatalog struct {
	mu           sync.Mutex
	genreCalls   int
	actorCalls   int
	castCalls    int
	popularCalls int

	byGenre map[int64][]domain.Candidate
	byActor map[int64][]domain.Candidate
	cast    map[int64][]domain.CastMember
	popular []domain.Candidate

	genreErr   map[int64]error
	castErr    error
	popularErr error
}

func (f *fakeCatalog) FetchByGenre(ctx context.Context, genreID int64, page int) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.genreCalls++
	if err, ok := f.genreErr[genreID]; ok {
		return nil, err
	}
	return f.byGenre[genreID], nil
}

func (f *fakeCatalog) FetchByActor(ctx context.Context, actorID int64, page int) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actorCalls++
	return f.byActor[actorID], nil
}

func (f *fakeCatalog) FetchCast(ctx context.Context, movieID int64) ([]domain.CastMember, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.castCalls++
	if f.castErr != nil {
		return nil, f.castErr
	}
	return f.cast[movieID], nil
}

func (f *fakeCatalog) FetchPopular(ctx context.Context, count int) ([]domain.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.popularCalls++
	if f.popularErr != nil {
		return nil, f.popularErr
	}
	return f.popular, nil
}

func (f *fakeCatalog) counts() (genre, actor, cast int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.genreCalls, f.actorCalls, f.castCalls
}

type fakeProfiles struct {
	users map[string]domain.User
	prefs map[int64][]domain.PreferenceSnapshot
}

func (f *fakeProfiles) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	user, ok := f.users[email]
	if !ok {
		return domain.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeProfiles) ListPreferencesByUserID(ctx context.Context, userID int64) ([]domain.PreferenceSnapshot, error) {
	return f.prefs[userID], nil
}

func newTestService(client catalog.Client, profiles ProfileStore) *Service {
	return NewService(client, catalog.NewCache(nil), profiles, log.New(io.Discard, "", 0))
}

func TestRecommendEmptyProfile(t *testing.T) {
	fake := &fakeCatalog{}
	svc := newTestService(fake, &fakeProfiles{})

	got := svc.Recommend(context.Background(), domain.UserProfile{}, 10)
	require.NotNil(t, got)
	assert.Empty(t, got)

	genre, actor, cast := fake.counts()
	assert.Zero(t, genre)
	assert.Zero(t, actor)
	assert.Zero(t, cast)
}

func TestRecommendDedupeScoreAndRank(t *testing.T) {
	movieA := domain.Candidate{ID: 1, Title: "A", GenreIDs: []int64{28}, AverageRating: 4.0}
	movieB := domain.Candidate{ID: 2, Title: "B", GenreIDs: []int64{99}, AverageRating: 8.0}
	movieC := domain.Candidate{ID: 3, Title: "C", GenreIDs: []int64{28, 12}, AverageRating: 2.0}

	fake := &fakeCatalog{
		byGenre: map[int64][]domain.Candidate{
			28: {movieA, movieB},
			12: {movieB, movieC},
		},
	}
	svc := newTestService(fake, &fakeProfiles{})
	profile := domain.UserProfile{GenreIDs: []int64{28, 12}}

	got := svc.Recommend(context.Background(), profile, -1)
	require.Len(t, got, 3)

	// C: full genre overlap, A: half, B: none but well rated.
	assert.Equal(t, []int64{3, 2, 1}, []int64{got[0].ID, got[1].ID, got[2].ID})
	require.NotNil(t, got[0].MatchingScore)
	assert.Equal(t, 74.0, *got[0].MatchingScore)
	assert.Equal(t, 66.0, *got[1].MatchingScore)
	assert.Equal(t, 62.0, *got[2].MatchingScore)
}

func TestRecommendTruncatesToDesiredCount(t *testing.T) {
	fake := &fakeCatalog{
		byGenre: map[int64][]domain.Candidate{
			28: {
				{ID: 1, GenreIDs: []int64{28}, AverageRating: 4.0},
				{ID: 2, GenreIDs: []int64{99}, AverageRating: 8.0},
				{ID: 3, GenreIDs: []int64{28}, AverageRating: 9.0},
			},
		},
	}
	svc := newTestService(fake, &fakeProfiles{})
	profile := domain.UserProfile{GenreIDs: []int64{28}}

	got := svc.Recommend(context.Background(), profile, 2)
	assert.Len(t, got, 2)

	// Zero keeps the shape but drops every candidate.
	got = svc.Recommend(context.Background(), profile, 0)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestRecommendCapsSeeds(t *testing.T) {
	fake := &fakeCatalog{}
	svc := newTestService(fake, &fakeProfiles{})
	profile := domain.UserProfile{
		GenreIDs: []int64{1, 2, 3, 4, 5},
		ActorIDs: []int64{10, 11, 12, 13},
	}

	svc.Recommend(context.Background(), profile, 10)

	genre, actor, _ := fake.counts()
	assert.Equal(t, 3, genre)
	assert.Equal(t, 3, actor)
}

func TestRecommendReusesCachedSeeds(t *testing.T) {
	fake := &fakeCatalog{
		byGenre: map[int64][]domain.Candidate{
			28: {{ID: 1, GenreIDs: []int64{28}, AverageRating: 7.0}},
		},
	}
	svc := newTestService(fake, &fakeProfiles{})
	profile := domain.UserProfile{GenreIDs: []int64{28}}

	svc.Recommend(context.Background(), profile, 10)
	svc.Recommend(context.Background(), profile, 10)

	genre, _, cast := fake.counts()
	assert.Equal(t, 1, genre)
	assert.Equal(t, 1, cast)
}

func TestRecommendAbsorbsSeedFailures(t *testing.T) {
	fake := &fakeCatalog{
		byGenre: map[int64][]domain.Candidate{
			12: {{ID: 7, GenreIDs: []int64{12}, AverageRating: 6.0}},
		},
		genreErr: map[int64]error{28: errors.New("upstream down")},
	}
	svc := newTestService(fake, &fakeProfiles{})
	profile := domain.UserProfile{GenreIDs: []int64{28, 12}}

	got := svc.Recommend(context.Background(), profile, 10)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ID)
}

func TestRecommendAbsorbsCastFailures(t *testing.T) {
	fake := &fakeCatalog{
		byGenre: map[int64][]domain.Candidate{
			28: {{ID: 1, GenreIDs: []int64{28}, AverageRating: 5.0}},
		},
		castErr: errors.New("credits unavailable"),
	}
	svc := newTestService(fake, &fakeProfiles{})
	profile := domain.UserProfile{GenreIDs: []int64{28}, ActorIDs: []int64{500}}

	got := svc.Recommend(context.Background(), profile, 10)
	require.Len(t, got, 1)
	assert.Empty(t, got[0].ActorIDs)
	require.NotNil(t, got[0].MatchingScore)
}

func TestProfileForUser(t *testing.T) {
	profiles := &fakeProfiles{
		users: map[string]domain.User{"kim@example.com": {ID: 7, Email: "kim@example.com"}},
		prefs: map[int64][]domain.PreferenceSnapshot{
			7: {{Genres: []domain.GenreTag{{ID: 28}}, Actors: []domain.ActorTag{{ID: 500}}}},
		},
	}
	svc := newTestService(&fakeCatalog{}, profiles)

	profile, err := svc.ProfileForUser(context.Background(), "kim@example.com")
	require.NoError(t, err)
	assert.Equal(t, []int64{28}, profile.GenreIDs)
	assert.Equal(t, []int64{500}, profile.ActorIDs)

	_, err = svc.ProfileForUser(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestScoreForUserEmptyProfile(t *testing.T) {
	profiles := &fakeProfiles{
		users: map[string]domain.User{"new@example.com": {ID: 9, Email: "new@example.com"}},
	}
	svc := newTestService(&fakeCatalog{}, profiles)

	score, err := svc.ScoreForUser(context.Background(), "new@example.com", domain.Candidate{AverageRating: 9.0})
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestPopular(t *testing.T) {
	fake := &fakeCatalog{
		popular: []domain.Candidate{{ID: 1, Title: "Popular"}},
		cast:    map[int64][]domain.CastMember{1: {{ID: 500, Name: "actor"}}},
	}
	svc := newTestService(fake, &fakeProfiles{})

	got := svc.Popular(context.Background(), 10)
	require.Len(t, got, 1)
	assert.Equal(t, []int64{500}, got[0].ActorIDs)
	assert.Nil(t, got[0].MatchingScore)
}

func TestPopularFetchFailure(t *testing.T) {
	fake := &fakeCatalog{popularErr: errors.New("upstream down")}
	svc := newTestService(fake, &fakeProfiles{})

	got := svc.Popular(context.Background(), 10)
	require.NotNil(t, got)
	assert.Empty(t, got)
}
