package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moviej/moviej-backend/internal/domain"
	"github.com/moviej/moviej-backend/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// ErrDuplicate indicates a uniqueness constraint was violated.
var ErrDuplicate = errors.New("repository: duplicate")

// Repository aggregates all domain-specific repositories.
type Repository struct {
	Users       *UsersRepository
	Preferences *PreferencesRepository
	Reviews     *ReviewsRepository
	Wishlist    *WishlistRepository
}

// New constructs a Repository backed by the provided store.
func New(st *store.Store) *Repository {
	return NewWithPool(st.Pool())
}

// NewWithPool allows constructing repositories directly from a pgx pool.
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{
		Users:       &UsersRepository{pool: pool},
		Preferences: &PreferencesRepository{pool: pool},
		Reviews:     &ReviewsRepository{pool: pool},
		Wishlist:    &WishlistRepository{pool: pool},
	}
}

// FindUserByEmail satisfies the recommendation core's profile store.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.Users.GetByEmail(ctx, email)
}

// ListPreferencesByUserID satisfies the recommendation core's profile store.
func (r *Repository) ListPreferencesByUserID(ctx context.Context, userID int64) ([]domain.PreferenceSnapshot, error) {
	return r.Preferences.ListByUserID(ctx, userID)
}
