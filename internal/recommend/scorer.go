package recommend

import (
	"math"

	"github.com/moviej/moviej-backend/internal/domain"
)

// Fixed blend weights. Genre and actor contributions are each amplified
// beyond their 0-100 range before blending; the result is clamped, not a
// probability.
const (
	baseScore      = 20.0
	baseWeight     = 0.1
	publicWeight   = 0.8
	matchingWeight = 0.4
	genreAmplifier = 1.4
	actorAmplifier = 1.5
	defaultPublic  = 65.0
	maxScore       = 100.0
)

// Score rates a candidate against a profile on a 0-100 scale. It is pure:
// identical inputs always produce the identical rounded value.
//
// A rating of 0 and an absent rating both fall back to the neutral default
// public score; unrated titles are not penalized.
func Score(profile domain.UserProfile, candidate domain.Candidate) float64 {
	genreScore := overlapScore(profile.GenreIDs, candidate.GenreIDs)
	actorScore := overlapScore(profile.ActorIDs, candidate.ActorIDs)

	publicScore := defaultPublic
	if candidate.AverageRating != 0 {
		publicScore = candidate.AverageRating * 10.0
	}

	matching := genreScore*genreAmplifier + actorScore*actorAmplifier
	final := baseScore*baseWeight + publicScore*publicWeight + matching*matchingWeight
	if final > maxScore {
		final = maxScore
	}
	return math.Round(final)
}

// overlapScore is the percentage of profile ids present in the candidate's
// ids; 0 when the profile side is empty.
func overlapScore(profileIDs, candidateIDs []int64) float64 {
	if len(profileIDs) == 0 {
		return 0
	}
	present := make(map[int64]struct{}, len(candidateIDs))
	for _, id := range candidateIDs {
		present[id] = struct{}{}
	}
	matches := 0
	for _, id := range profileIDs {
		if _, ok := present[id]; ok {
			matches++
		}
	}
	return float64(matches) * 100.0 / float64(len(profileIDs))
}
