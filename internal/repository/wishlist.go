package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moviej/moviej-backend/internal/domain"
)

// WishlistRepository provides persistence helpers for wishlisted movies.
type WishlistRepository struct {
	pool *pgxpool.Pool
}

const wishlistColumns = `
    id,
    user_id,
    movie_id,
    title,
    poster_path,
    rating,
    created_at
`

// WishlistAddParams bundles the fields required to wishlist a movie.
type WishlistAddParams struct {
	UserID     int64
	MovieID    int64
	Title      string
	PosterPath string
}

// Add inserts a wishlist row. Returns ErrDuplicate when the movie is
// already wishlisted by the user.
func (r *WishlistRepository) Add(ctx context.Context, params WishlistAddParams) (domain.WishlistItem, error) {
	query := `
        INSERT INTO wishlist (user_id, movie_id, title, poster_path)
        VALUES ($1, $2, $3, $4)
        RETURNING` + wishlistColumns

	row := r.pool.QueryRow(ctx, query, params.UserID, params.MovieID, params.Title, params.PosterPath)
	item, err := scanWishlistItem(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.WishlistItem{}, ErrDuplicate
		}
		return domain.WishlistItem{}, err
	}
	return item, nil
}

// Remove deletes a wishlist row. Returns ErrNotFound when the movie was
// not wishlisted.
func (r *WishlistRepository) Remove(ctx context.Context, userID, movieID int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wishlist WHERE user_id = $1 AND movie_id = $2`, userID, movieID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByUserID returns a user's wishlist, newest first.
func (r *WishlistRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.WishlistItem, error) {
	query := `SELECT` + wishlistColumns + `
        FROM wishlist
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		item, err := scanWishlistItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Exists reports whether a movie is in the user's wishlist.
func (r *WishlistRepository) Exists(ctx context.Context, userID, movieID int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
        SELECT EXISTS (SELECT 1 FROM wishlist WHERE user_id = $1 AND movie_id = $2)
    `, userID, movieID).Scan(&exists)
	return exists, err
}

func scanWishlistItem(row pgx.Row) (domain.WishlistItem, error) {
	var item domain.WishlistItem
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.MovieID,
		&item.Title,
		&item.PosterPath,
		&item.Rating,
		&item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.WishlistItem{}, ErrNotFound
		}
		return domain.WishlistItem{}, err
	}
	return item, nil
}
