package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/moviej/moviej-backend/internal/domain"
	"github.com/moviej/moviej-backend/internal/repository"
)

type wishlistAddRequest struct {
	MovieID    int64  `json:"movieId"`
	Title      string `json:"title"`
	PosterPath string `json:"posterPath"`
}

type wishlistItemResponse struct {
	ID         int64     `json:"id"`
	MovieID    int64     `json:"movieId"`
	Title      string    `json:"title"`
	PosterPath string    `json:"posterPath"`
	Rating     *float64  `json:"rating,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (s *Server) handleAddWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userFromEmailQuery(w, r)
	if !ok {
		return
	}

	var req wishlistAddRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.MovieID <= 0 {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "movieId must be positive")
		return
	}

	item, err := s.repo.Wishlist.Add(r.Context(), repository.WishlistAddParams{
		UserID:     user.ID,
		MovieID:    req.MovieID,
		Title:      req.Title,
		PosterPath: req.PosterPath,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Movie already wishlisted")
			return
		}
		s.logger.Printf("add wishlist error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to add to wishlist")
		return
	}

	s.respondJSON(w, http.StatusCreated, toWishlistItemResponse(item))
}

func (s *Server) handleRemoveWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userFromEmailQuery(w, r)
	if !ok {
		return
	}
	movieID, ok := s.movieIDQuery(w, r)
	if !ok {
		return
	}

	if err := s.repo.Wishlist.Remove(r.Context(), user.ID, movieID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Movie is not in the wishlist")
			return
		}
		s.logger.Printf("remove wishlist error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to remove from wishlist")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userFromEmailQuery(w, r)
	if !ok {
		return
	}

	items, err := s.repo.Wishlist.ListByUserID(r.Context(), user.ID)
	if err != nil {
		s.logger.Printf("list wishlist error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list wishlist")
		return
	}

	out := make([]wishlistItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toWishlistItemResponse(item))
	}
	s.respondJSON(w, http.StatusOK, out)
}

// handleToggleWishlist removes the movie when present, adds it otherwise,
// and reports the resulting membership.
func (s *Server) handleToggleWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userFromEmailQuery(w, r)
	if !ok {
		return
	}

	var req wishlistAddRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.MovieID <= 0 {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "movieId must be positive")
		return
	}

	exists, err := s.repo.Wishlist.Exists(r.Context(), user.ID, req.MovieID)
	if err != nil {
		s.logger.Printf("toggle wishlist check error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to toggle wishlist")
		return
	}

	if exists {
		if err := s.repo.Wishlist.Remove(r.Context(), user.ID, req.MovieID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			s.logger.Printf("toggle wishlist remove error: %v", err)
			s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to toggle wishlist")
			return
		}
		s.respondJSON(w, http.StatusOK, map[string]bool{"wishlisted": false})
		return
	}

	if _, err := s.repo.Wishlist.Add(r.Context(), repository.WishlistAddParams{
		UserID:     user.ID,
		MovieID:    req.MovieID,
		Title:      req.Title,
		PosterPath: req.PosterPath,
	}); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		s.logger.Printf("toggle wishlist add error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to toggle wishlist")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"wishlisted": true})
}

func (s *Server) handleCheckWishlist(w http.ResponseWriter, r *http.Request) {
	user, ok := s.userFromEmailQuery(w, r)
	if !ok {
		return
	}
	movieID, ok := s.movieIDQuery(w, r)
	if !ok {
		return
	}

	exists, err := s.repo.Wishlist.Exists(r.Context(), user.ID, movieID)
	if err != nil {
		s.logger.Printf("check wishlist error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check wishlist")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"wishlisted": exists})
}

// userFromEmailQuery resolves the email query parameter to a user, writing
// the error response itself when resolution fails.
func (s *Server) userFromEmailQuery(w http.ResponseWriter, r *http.Request) (domain.User, bool) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "email is required")
		return domain.User{}, false
	}
	user, err := s.lookupUser(r.Context(), email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
			return domain.User{}, false
		}
		s.logger.Printf("user lookup error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to resolve user")
		return domain.User{}, false
	}
	return user, true
}

func (s *Server) lookupUser(ctx context.Context, email string) (domain.User, error) {
	return s.repo.Users.GetByEmail(ctx, email)
}

func (s *Server) movieIDQuery(w http.ResponseWriter, r *http.Request) (int64, bool) {
	movieID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("movieId")), 10, 64)
	if err != nil || movieID <= 0 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid movieId value")
		return 0, false
	}
	return movieID, true
}

func toWishlistItemResponse(item domain.WishlistItem) wishlistItemResponse {
	return wishlistItemResponse{
		ID:         item.ID,
		MovieID:    item.MovieID,
		Title:      item.Title,
		PosterPath: item.PosterPath,
		Rating:     item.Rating,
		CreatedAt:  item.CreatedAt,
	}
}
