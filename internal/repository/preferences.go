package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moviej/moviej-backend/internal/domain"
)

// PreferencesRepository stores append-only taste snapshots per user.
type PreferencesRepository struct {
	pool *pgxpool.Pool
}

// SnapshotCreateParams bundles one onboarding/preference submission.
type SnapshotCreateParams struct {
	UserID int64
	Genres []domain.GenreTag
	Actors []domain.ActorTag
	Movies []domain.SeedMovie
}

// CreateSnapshot persists a snapshot with its genre/actor/movie rows in a
// single transaction.
func (r *PreferencesRepository) CreateSnapshot(ctx context.Context, params SnapshotCreateParams) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var snapshotID int64
	err = tx.QueryRow(ctx, `
        INSERT INTO user_preferences (user_id)
        VALUES ($1)
        RETURNING id
    `, params.UserID).Scan(&snapshotID)
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}

	for _, genre := range params.Genres {
		if _, err := tx.Exec(ctx, `
            INSERT INTO preference_genres (preference_id, genre_id, genre_name)
            VALUES ($1, $2, $3)
        `, snapshotID, genre.ID, genre.Name); err != nil {
			return 0, fmt.Errorf("insert genre: %w", err)
		}
	}
	for _, actor := range params.Actors {
		if _, err := tx.Exec(ctx, `
            INSERT INTO preference_actors (preference_id, actor_id, actor_name)
            VALUES ($1, $2, $3)
        `, snapshotID, actor.ID, actor.Name); err != nil {
			return 0, fmt.Errorf("insert actor: %w", err)
		}
	}
	for _, movie := range params.Movies {
		if _, err := tx.Exec(ctx, `
            INSERT INTO preference_movies (preference_id, tmdb_id, title, rating)
            VALUES ($1, $2, $3, $4)
        `, snapshotID, movie.TmdbID, movie.Title, movie.Rating); err != nil {
			return 0, fmt.Errorf("insert seed movie: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit snapshot: %w", err)
	}
	return snapshotID, nil
}

// ListByUserID returns every snapshot for a user, oldest first, with genre
// and actor rows attached in insertion order.
func (r *PreferencesRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.PreferenceSnapshot, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, user_id, created_at
        FROM user_preferences
        WHERE user_id = $1
        ORDER BY created_at ASC, id ASC
    `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []domain.PreferenceSnapshot
	for rows.Next() {
		var snap domain.PreferenceSnapshot
		if err := rows.Scan(&snap.ID, &snap.UserID, &snap.CreatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range snapshots {
		if err := r.attachDetails(ctx, &snapshots[i]); err != nil {
			return nil, err
		}
	}
	return snapshots, nil
}

// LatestByUserID returns the newest snapshot for a user, or ErrNotFound
// when the user has never submitted preferences.
func (r *PreferencesRepository) LatestByUserID(ctx context.Context, userID int64) (domain.PreferenceSnapshot, error) {
	var snap domain.PreferenceSnapshot
	err := r.pool.QueryRow(ctx, `
        SELECT id, user_id, created_at
        FROM user_preferences
        WHERE user_id = $1
        ORDER BY created_at DESC, id DESC
        LIMIT 1
    `, userID).Scan(&snap.ID, &snap.UserID, &snap.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.PreferenceSnapshot{}, ErrNotFound
		}
		return domain.PreferenceSnapshot{}, err
	}
	if err := r.attachDetails(ctx, &snap); err != nil {
		return domain.PreferenceSnapshot{}, err
	}
	return snap, nil
}

func (r *PreferencesRepository) attachDetails(ctx context.Context, snap *domain.PreferenceSnapshot) error {
	genreRows, err := r.pool.Query(ctx, `
        SELECT genre_id, genre_name
        FROM preference_genres
        WHERE preference_id = $1
        ORDER BY id ASC
    `, snap.ID)
	if err != nil {
		return err
	}
	defer genreRows.Close()
	for genreRows.Next() {
		var tag domain.GenreTag
		if err := genreRows.Scan(&tag.ID, &tag.Name); err != nil {
			return err
		}
		snap.Genres = append(snap.Genres, tag)
	}
	if err := genreRows.Err(); err != nil {
		return err
	}

	actorRows, err := r.pool.Query(ctx, `
        SELECT actor_id, actor_name
        FROM preference_actors
        WHERE preference_id = $1
        ORDER BY id ASC
    `, snap.ID)
	if err != nil {
		return err
	}
	defer actorRows.Close()
	for actorRows.Next() {
		var tag domain.ActorTag
		if err := actorRows.Scan(&tag.ID, &tag.Name); err != nil {
			return err
		}
		snap.Actors = append(snap.Actors, tag)
	}
	if err := actorRows.Err(); err != nil {
		return err
	}

	movieRows, err := r.pool.Query(ctx, `
        SELECT tmdb_id, title, rating
        FROM preference_movies
        WHERE preference_id = $1
        ORDER BY id ASC
    `, snap.ID)
	if err != nil {
		return err
	}
	defer movieRows.Close()
	for movieRows.Next() {
		var movie domain.SeedMovie
		if err := movieRows.Scan(&movie.TmdbID, &movie.Title, &movie.Rating); err != nil {
			return err
		}
		snap.Movies = append(snap.Movies, movie)
	}
	return movieRows.Err()
}
