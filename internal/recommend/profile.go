package recommend

import "github.com/moviej/moviej-backend/internal/domain"

// BuildProfile derives a taste profile from every stored preference
// snapshot for a user. Ids that are zero or negative are treated as
// unknown and dropped; the rest are deduplicated in first-seen order so
// seed selection stays deterministic.
func BuildProfile(snapshots []domain.PreferenceSnapshot) domain.UserProfile {
	var profile domain.UserProfile
	genreSeen := make(map[int64]struct{})
	actorSeen := make(map[int64]struct{})

	for _, snapshot := range snapshots {
		for _, genre := range snapshot.Genres {
			if genre.ID <= 0 {
				continue
			}
			if _, ok := genreSeen[genre.ID]; ok {
				continue
			}
			genreSeen[genre.ID] = struct{}{}
			profile.GenreIDs = append(profile.GenreIDs, genre.ID)
		}
		for _, actor := range snapshot.Actors {
			if actor.ID <= 0 {
				continue
			}
			if _, ok := actorSeen[actor.ID]; ok {
				continue
			}
			actorSeen[actor.ID] = struct{}{}
			profile.ActorIDs = append(profile.ActorIDs, actor.ID)
		}
	}
	return profile
}
