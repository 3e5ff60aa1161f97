package recommend

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/moviej/moviej-backend/internal/catalog"
	"github.com/moviej/moviej-backend/internal/domain"
	"github.com/moviej/moviej-backend/internal/repository"
)

// maxSeedsPerKind caps how many genre and actor ids seed the catalog
// fan-out, in profile insertion order.
const maxSeedsPerKind = 3

// ErrUserNotFound is the only error the recommendation core surfaces to
// callers; every catalog failure degrades to fewer candidates instead.
var ErrUserNotFound = errors.New("recommend: user not found")

// ProfileStore supplies the persisted preference data a profile is built
// from.
type ProfileStore interface {
	FindUserByEmail(ctx context.Context, email string) (domain.User, error)
	ListPreferencesByUserID(ctx context.Context, userID int64) ([]domain.PreferenceSnapshot, error)
}

// Service orchestrates profile loading, catalog fan-out, deduplication,
// scoring, and ranking.
type Service struct {
	client   catalog.Client
	cache    *catalog.Cache
	profiles ProfileStore
	logger   *log.Logger
}

// NewService wires the aggregation service.
func NewService(client catalog.Client, cache *catalog.Cache, profiles ProfileStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	if cache == nil {
		cache = catalog.NewCache(nil)
	}
	return &Service{client: client, cache: cache, profiles: profiles, logger: logger}
}

// ProfileForUser loads a user by email and rebuilds their taste profile
// from all stored snapshots. Returns ErrUserNotFound when the email is
// unknown; an empty preference history yields an empty profile, not an
// error.
func (s *Service) ProfileForUser(ctx context.Context, email string) (domain.UserProfile, error) {
	user, err := s.profiles.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.UserProfile{}, ErrUserNotFound
		}
		return domain.UserProfile{}, fmt.Errorf("load user: %w", err)
	}
	snapshots, err := s.profiles.ListPreferencesByUserID(ctx, user.ID)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("load preferences: %w", err)
	}
	return BuildProfile(snapshots), nil
}

// RecommendForUser is the request entry point: profile lookup plus
// Recommend. Only a missing user aborts the call.
func (s *Service) RecommendForUser(ctx context.Context, email string, desiredCount int) ([]domain.Candidate, error) {
	profile, err := s.ProfileForUser(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.Recommend(ctx, profile, desiredCount), nil
}

// ScoreForUser rates a single candidate against the user's profile.
func (s *Service) ScoreForUser(ctx context.Context, email string, candidate domain.Candidate) (float64, error) {
	profile, err := s.ProfileForUser(ctx, email)
	if err != nil {
		return 0, err
	}
	if profile.Empty() {
		return 0, nil
	}
	return Score(profile, candidate), nil
}

// Recommend fetches candidates seeded by the profile's first genre and
// actor ids, deduplicates them by catalog id (first seen wins), scores
// each against the profile, and returns the top desiredCount in descending
// score order. Ties keep first-seen fetch order. Per-seed fetch failures
// contribute zero candidates; partial results are still ranked.
func (s *Service) Recommend(ctx context.Context, profile domain.UserProfile, desiredCount int) []domain.Candidate {
	if profile.Empty() {
		return []domain.Candidate{}
	}

	genreSeeds := firstN(profile.GenreIDs, maxSeedsPerKind)
	actorSeeds := firstN(profile.ActorIDs, maxSeedsPerKind)

	batches := make([][]domain.Candidate, len(genreSeeds)+len(actorSeeds))
	var wg sync.WaitGroup
	for i, genreID := range genreSeeds {
		wg.Add(1)
		go func(slot int, id int64) {
			defer wg.Done()
			batches[slot] = s.moviesByGenre(ctx, id)
		}(i, genreID)
	}
	for i, actorID := range actorSeeds {
		wg.Add(1)
		go func(slot int, id int64) {
			defer wg.Done()
			batches[slot] = s.moviesByActor(ctx, id)
		}(len(genreSeeds)+i, actorID)
	}
	wg.Wait()

	seen := make(map[int64]struct{})
	var distinct []domain.Candidate
	for _, batch := range batches {
		for _, candidate := range batch {
			if _, ok := seen[candidate.ID]; ok {
				continue
			}
			seen[candidate.ID] = struct{}{}
			distinct = append(distinct, candidate)
		}
	}

	for i := range distinct {
		distinct[i].ActorIDs = s.castIDs(ctx, distinct[i].ID)
		score := Score(profile, distinct[i])
		distinct[i].MatchingScore = &score
	}

	sort.SliceStable(distinct, func(i, j int) bool {
		return *distinct[i].MatchingScore > *distinct[j].MatchingScore
	})

	if desiredCount >= 0 && desiredCount < len(distinct) {
		distinct = distinct[:desiredCount]
	}
	if distinct == nil {
		distinct = []domain.Candidate{}
	}
	return distinct
}

// Popular returns the catalog's popular list with cast attached, unscored.
func (s *Service) Popular(ctx context.Context, count int) []domain.Candidate {
	movies, err := s.client.FetchPopular(ctx, count)
	if err != nil {
		s.logger.Printf("recommend: popular fetch failed: %v", err)
		return []domain.Candidate{}
	}
	for i := range movies {
		movies[i].ActorIDs = s.castIDs(ctx, movies[i].ID)
	}
	return movies
}

func (s *Service) moviesByGenre(ctx context.Context, genreID int64) []domain.Candidate {
	key := catalog.Key{Kind: catalog.KindGenre, Selector: genreID, Page: 1}
	movies, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]domain.Candidate, error) {
		return s.client.FetchByGenre(ctx, genreID, 1)
	})
	if err != nil {
		s.logger.Printf("recommend: genre %d fetch failed: %v", genreID, err)
	}
	return movies
}

func (s *Service) moviesByActor(ctx context.Context, actorID int64) []domain.Candidate {
	key := catalog.Key{Kind: catalog.KindActor, Selector: actorID, Page: 1}
	movies, err := s.cache.GetOrFetch(ctx, key, func(ctx context.Context) ([]domain.Candidate, error) {
		return s.client.FetchByActor(ctx, actorID, 1)
	})
	if err != nil {
		s.logger.Printf("recommend: actor %d fetch failed: %v", actorID, err)
	}
	return movies
}

func (s *Service) castIDs(ctx context.Context, movieID int64) []int64 {
	cast, err := s.cache.GetOrFetchCast(ctx, movieID, func(ctx context.Context) ([]domain.CastMember, error) {
		return s.client.FetchCast(ctx, movieID)
	})
	if err != nil {
		s.logger.Printf("recommend: credits for movie %d failed: %v", movieID, err)
		return nil
	}
	ids := make([]int64, 0, len(cast))
	for _, member := range cast {
		ids = append(ids, member.ID)
	}
	return ids
}

func firstN(ids []int64, n int) []int64 {
	if len(ids) <= n {
		return ids
	}
	return ids[:n]
}
