package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moviej/moviej-backend/internal/domain"
)

// UsersRepository provides persistence helpers for user accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `
    id,
    email,
    nickname,
    password_hash,
    created_at
`

// UserCreateParams bundles the fields required to register a user.
type UserCreateParams struct {
	Email        string
	Nickname     string
	PasswordHash string
}

// Create inserts a new user row. Returns ErrDuplicate when the email or
// nickname is already taken.
func (r *UsersRepository) Create(ctx context.Context, params UserCreateParams) (domain.User, error) {
	query := `
        INSERT INTO users (email, nickname, password_hash)
        VALUES ($1, $2, $3)
        RETURNING` + userColumns

	row := r.pool.QueryRow(ctx, query, params.Email, params.Nickname, params.PasswordHash)
	user, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, ErrDuplicate
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByEmail fetches a user by email.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

// GetByNickname fetches a user by nickname.
func (r *UsersRepository) GetByNickname(ctx context.Context, nickname string) (domain.User, error) {
	query := `SELECT` + userColumns + `FROM users WHERE nickname = $1`
	return r.getOne(ctx, query, nickname)
}

// UpdatePassword replaces a user's password hash.
func (r *UsersRepository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UsersRepository) getOne(ctx context.Context, query string, arg interface{}) (domain.User, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	if err := row.Scan(&user.ID, &user.Email, &user.Nickname, &user.PasswordHash, &user.CreatedAt); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
