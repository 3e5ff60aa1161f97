package domain

import "time"

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           int64
	Email        string
	Nickname     string
	PasswordHash string
	CreatedAt    time.Time
}

// GenreTag pairs a catalog genre id with its display name.
type GenreTag struct {
	ID   int64  `json:"genreId"`
	Name string `json:"genreName"`
}

// ActorTag pairs a catalog actor id with its display name.
type ActorTag struct {
	ID   int64  `json:"actorId"`
	Name string `json:"actorName"`
}

// SeedMovie is an onboarding movie the user marked as a favourite.
type SeedMovie struct {
	TmdbID int64   `json:"tmdbId"`
	Title  string  `json:"title"`
	Rating float64 `json:"rating"`
}

// PreferenceSnapshot is one stored taste snapshot for a user. Snapshots are
// append-only; the profile is rebuilt from all of them on every request.
type PreferenceSnapshot struct {
	ID        int64
	UserID    int64
	Genres    []GenreTag
	Actors    []ActorTag
	Movies    []SeedMovie
	CreatedAt time.Time
}

// Review is a user's review of a catalog movie, one per (movie, nickname).
type Review struct {
	ID          int64
	TmdbMovieID string
	MovieTitle  string
	Nickname    string
	Rating      int
	Content     string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// WishlistItem is one wishlisted movie for a user.
type WishlistItem struct {
	ID         int64
	UserID     int64
	MovieID    int64
	Title      string
	PosterPath string
	Rating     *float64
	CreatedAt  time.Time
}
