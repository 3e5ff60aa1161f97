package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moviej/moviej-backend/internal/domain"
	"github.com/moviej/moviej-backend/internal/repository"
)

type reviewCreateRequest struct {
	MovieTitle string `json:"movieTitle"`
	Rating     int    `json:"rating"`
	Content    string `json:"content"`
}

type reviewResponse struct {
	ID          int64      `json:"id"`
	TmdbMovieID string     `json:"tmdbMovieId"`
	MovieTitle  string     `json:"movieTitle"`
	Nickname    string     `json:"nickname"`
	Rating      int        `json:"rating"`
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

type pagedReviewsResponse struct {
	Items []reviewResponse `json:"items"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Total int64            `json:"total"`
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	tmdbID := strings.TrimSpace(chi.URLParam(r, "tmdbID"))
	if tmdbID == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing tmdbID parameter")
		return
	}

	var req reviewCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "rating must be between 1 and 5")
		return
	}
	if strings.TrimSpace(req.MovieTitle) == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "movieTitle is required")
		return
	}

	review, err := s.repo.Reviews.Create(r.Context(), repository.ReviewCreateParams{
		TmdbMovieID: tmdbID,
		MovieTitle:  strings.TrimSpace(req.MovieTitle),
		Nickname:    claims.Nickname,
		Rating:      req.Rating,
		Content:     req.Content,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "You already reviewed this movie")
			return
		}
		s.logger.Printf("create review error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create review")
		return
	}

	s.respondJSON(w, http.StatusCreated, toReviewResponse(review))
}

func (s *Server) handleListMovieReviews(w http.ResponseWriter, r *http.Request) {
	tmdbID := strings.TrimSpace(chi.URLParam(r, "tmdbID"))
	if tmdbID == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "missing tmdbID parameter")
		return
	}

	page := 1
	if val := strings.TrimSpace(r.URL.Query().Get("page")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 1 {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid page value")
			return
		}
		page = parsed
	}
	limit := 20
	if val := strings.TrimSpace(r.URL.Query().Get("limit")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil || parsed < 1 {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid limit value")
			return
		}
		limit = parsed
	}

	reviews, total, err := s.repo.Reviews.ListByMovie(r.Context(), tmdbID, page, limit)
	if err != nil {
		s.logger.Printf("list movie reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reviews")
		return
	}

	items := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, pagedReviewsResponse{Items: items, Page: page, Limit: limit, Total: total})
}

func (s *Server) handleListUserReviews(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "email is required")
		return
	}

	user, err := s.repo.Users.GetByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
			return
		}
		s.logger.Printf("list user reviews lookup error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reviews")
		return
	}

	reviews, err := s.repo.Reviews.ListByNickname(r.Context(), user.Nickname)
	if err != nil {
		s.logger.Printf("list user reviews error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reviews")
		return
	}

	items := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, items)
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:          review.ID,
		TmdbMovieID: review.TmdbMovieID,
		MovieTitle:  review.MovieTitle,
		Nickname:    review.Nickname,
		Rating:      review.Rating,
		Content:     review.Content,
		CreatedAt:   review.CreatedAt,
		UpdatedAt:   review.UpdatedAt,
	}
}
