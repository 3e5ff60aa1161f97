package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/moviej/moviej-backend/internal/catalog"
	"github.com/moviej/moviej-backend/internal/domain"
	"github.com/moviej/moviej-backend/internal/recommend"
)

const defaultRecommendationCount = 20

type candidateResponse struct {
	TmdbID        int64             `json:"tmdbId"`
	Title         string            `json:"title"`
	Overview      string            `json:"overview"`
	PosterPath    string            `json:"posterPath"`
	ReleaseDate   string            `json:"releaseDate"`
	Rating        float64           `json:"rating"`
	Genres        []domain.GenreTag `json:"genres"`
	ActorIDs      []int64           `json:"actorIds"`
	MatchingScore *float64          `json:"matchingScore,omitempty"`
}

type scoreRequest struct {
	TmdbID      int64   `json:"tmdbId"`
	Title       string  `json:"title"`
	Overview    string  `json:"overview"`
	PosterPath  string  `json:"posterPath"`
	ReleaseDate string  `json:"releaseDate"`
	Rating      float64 `json:"rating"`
	GenreIDs    []int64 `json:"genreIds"`
	ActorIDs    []int64 `json:"actorIds"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "email is required")
		return
	}

	count := defaultRecommendationCount
	if val := strings.TrimSpace(r.URL.Query().Get("count")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 0 {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid count value")
			return
		}
		count = parsed
	}

	candidates, err := s.rec.RecommendForUser(r.Context(), email, count)
	if err != nil {
		if errors.Is(err, recommend.ErrUserNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
			return
		}
		s.logger.Printf("recommendations error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to build recommendations")
		return
	}

	s.respondJSON(w, http.StatusOK, toCandidateResponses(candidates))
}

func (s *Server) handleMatchingScore(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "email is required")
		return
	}

	var req scoreRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	candidate := domain.Candidate{
		ID:            req.TmdbID,
		Title:         req.Title,
		Overview:      req.Overview,
		PosterPath:    req.PosterPath,
		ReleaseDate:   req.ReleaseDate,
		AverageRating: req.Rating,
		GenreIDs:      req.GenreIDs,
		ActorIDs:      req.ActorIDs,
	}

	score, err := s.rec.ScoreForUser(r.Context(), email, candidate)
	if err != nil {
		if errors.Is(err, recommend.ErrUserNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Profile not found")
			return
		}
		s.logger.Printf("matching score error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute score")
		return
	}

	s.respondJSON(w, http.StatusOK, scoreResponse{Score: score})
}

func (s *Server) handlePopularMovies(w http.ResponseWriter, r *http.Request) {
	count := defaultRecommendationCount
	if val := strings.TrimSpace(r.URL.Query().Get("count")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 0 {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid count value")
			return
		}
		count = parsed
	}

	movies := s.rec.Popular(r.Context(), count)
	s.respondJSON(w, http.StatusOK, toCandidateResponses(movies))
}

func toCandidateResponses(candidates []domain.Candidate) []candidateResponse {
	out := make([]candidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		genres := make([]domain.GenreTag, 0, len(candidate.GenreIDs))
		for _, id := range candidate.GenreIDs {
			genres = append(genres, domain.GenreTag{ID: id, Name: catalog.GenreName(id)})
		}
		out = append(out, candidateResponse{
			TmdbID:        candidate.ID,
			Title:         candidate.Title,
			Overview:      candidate.Overview,
			PosterPath:    candidate.PosterPath,
			ReleaseDate:   candidate.ReleaseDate,
			Rating:        candidate.AverageRating,
			Genres:        genres,
			ActorIDs:      candidate.ActorIDs,
			MatchingScore: candidate.MatchingScore,
		})
	}
	return out
}
