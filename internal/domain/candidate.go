package domain

// Candidate is a movie fetched from the external catalog, eligible for
// scoring and ranking. Optional catalog fields default to their zero value;
// downstream code never sees null strings.
type Candidate struct {
	ID            int64    `json:"tmdbId"`
	Title         string   `json:"title"`
	Overview      string   `json:"overview"`
	PosterPath    string   `json:"posterPath"`
	ReleaseDate   string   `json:"releaseDate"`
	AverageRating float64  `json:"rating"`
	GenreIDs      []int64  `json:"genreIds"`
	ActorIDs      []int64  `json:"actorIds"`
	MatchingScore *float64 `json:"matchingScore,omitempty"`
}

// CastMember is one entry of a movie's credits, catalog order.
type CastMember struct {
	ID   int64  `json:"actorId"`
	Name string `json:"actorName"`
}

// UserProfile is the set of a user's preferred genre and actor ids, derived
// from stored preference snapshots. Slices are distinct, positive ids in
// first-seen order so seed selection and tie-breaks stay deterministic.
type UserProfile struct {
	GenreIDs []int64
	ActorIDs []int64
}

// Empty reports whether the profile carries no usable preferences.
func (p UserProfile) Empty() bool {
	return len(p.GenreIDs) == 0 && len(p.ActorIDs) == 0
}
