package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/moviej/moviej-backend/internal/auth"
	"github.com/moviej/moviej-backend/internal/domain"
	"github.com/moviej/moviej-backend/internal/repository"
)

type signupRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type userResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type preferenceRequest struct {
	Genres []domain.GenreTag  `json:"genres"`
	Actors []domain.ActorTag  `json:"actors"`
	Movies []domain.SeedMovie `json:"movies"`
}

type preferenceResponse struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"userId"`
	Genres    []domain.GenreTag  `json:"genres"`
	Actors    []domain.ActorTag  `json:"actors"`
	Movies    []domain.SeedMovie `json:"movies"`
	CreatedAt time.Time          `json:"createdAt"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Nickname = strings.TrimSpace(req.Nickname)
	if req.Email == "" || req.Nickname == "" || req.Password == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "email, nickname, and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Printf("hash password error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		return
	}

	user, err := s.repo.Users.Create(r.Context(), repository.UserCreateParams{
		Email:        req.Email,
		Nickname:     req.Nickname,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.respondError(w, http.StatusConflict, "CONFLICT", "Email or nickname already in use")
			return
		}
		s.logger.Printf("create user error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create user")
		return
	}

	s.respondJSON(w, http.StatusCreated, userResponse{ID: user.ID, Email: user.Email, Nickname: user.Nickname})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	user, err := s.repo.Users.GetByEmail(r.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
			return
		}
		s.logger.Printf("login lookup error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
		return
	}

	token, err := s.tokens.Generate(user.Email, user.Nickname)
	if err != nil {
		s.logger.Printf("token generate error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to log in")
		return
	}

	s.respondJSON(w, http.StatusOK, loginResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Email: user.Email, Nickname: user.Nickname},
	})
}

type passwordChangeRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsFromContext(r.Context())
	if !ok {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req passwordChangeRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}
	if req.NewPassword == "" {
		s.respondError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "newPassword is required")
		return
	}

	user, err := s.repo.Users.GetByEmail(r.Context(), claims.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
			return
		}
		s.logger.Printf("change password lookup error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to change password")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials")
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		s.logger.Printf("hash password error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to change password")
		return
	}
	if err := s.repo.Users.UpdatePassword(r.Context(), user.ID, hash); err != nil {
		s.logger.Printf("update password error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to change password")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleSavePreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid userID parameter")
		return
	}

	var req preferenceRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	if _, err := s.repo.Preferences.CreateSnapshot(r.Context(), repository.SnapshotCreateParams{
		UserID: userID,
		Genres: req.Genres,
		Actors: req.Actors,
		Movies: req.Movies,
	}); err != nil {
		s.logger.Printf("save preferences error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save preferences")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleCheckPreferences(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("userId")), 10, 64)
	if err != nil || userID <= 0 {
		s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid userId value")
		return
	}

	snapshot, err := s.repo.Preferences.LatestByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		s.logger.Printf("check preferences error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to check preferences")
		return
	}

	s.respondJSON(w, http.StatusOK, preferenceResponse{
		ID:        snapshot.ID,
		UserID:    snapshot.UserID,
		Genres:    snapshot.Genres,
		Actors:    snapshot.Actors,
		Movies:    snapshot.Movies,
		CreatedAt: snapshot.CreatedAt,
	})
}
