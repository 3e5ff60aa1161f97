package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moviej/moviej-backend/internal/domain"
)

// ReviewsRepository provides persistence helpers for movie reviews.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

const reviewColumns = `
    id,
    tmdb_movie_id,
    movie_title,
    nickname,
    rating,
    content,
    created_at,
    updated_at
`

// ReviewCreateParams bundles the fields required to create a review.
type ReviewCreateParams struct {
	TmdbMovieID string
	MovieTitle  string
	Nickname    string
	Rating      int
	Content     string
}

// Create inserts a review. A user may review a movie only once; a second
// attempt returns ErrDuplicate.
func (r *ReviewsRepository) Create(ctx context.Context, params ReviewCreateParams) (domain.Review, error) {
	query := `
        INSERT INTO reviews (tmdb_movie_id, movie_title, nickname, rating, content)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING` + reviewColumns

	row := r.pool.QueryRow(ctx, query, params.TmdbMovieID, params.MovieTitle, params.Nickname, params.Rating, params.Content)
	review, err := scanReview(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Review{}, ErrDuplicate
		}
		return domain.Review{}, err
	}
	return review, nil
}

// ListByMovie returns a movie's reviews, newest first, paged.
func (r *ReviewsRepository) ListByMovie(ctx context.Context, tmdbMovieID string, page, limit int) ([]domain.Review, int64, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM reviews WHERE tmdb_movie_id = $1`, tmdbMovieID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT` + reviewColumns + `
        FROM reviews
        WHERE tmdb_movie_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, tmdbMovieID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	reviews, err := collectReviews(rows)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// ListByNickname returns all reviews written by a user, newest first.
func (r *ReviewsRepository) ListByNickname(ctx context.Context, nickname string) ([]domain.Review, error) {
	query := `SELECT` + reviewColumns + `
        FROM reviews
        WHERE nickname = $1
        ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, nickname)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReviews(rows)
}

func collectReviews(rows pgx.Rows) ([]domain.Review, error) {
	var reviews []domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.TmdbMovieID,
		&review.MovieTitle,
		&review.Nickname,
		&review.Rating,
		&review.Content,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Review{}, ErrNotFound
		}
		return domain.Review{}, err
	}
	return review, nil
}
