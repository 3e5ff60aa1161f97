package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/moviej/moviej-backend/internal/domain"
)

func TestScoreKnownValues(t *testing.T) {
	tests := []struct {
		name      string
		profile   domain.UserProfile
		candidate domain.Candidate
		want      float64
	}{
		{
			name:      "full genre match with high rating clamps at 100",
			profile:   domain.UserProfile{GenreIDs: []int64{28}},
			candidate: domain.Candidate{GenreIDs: []int64{28, 12}, AverageRating: 7.5},
			want:      100,
		},
		{
			name:      "full genre match with unrated title clamps at 100",
			profile:   domain.UserProfile{GenreIDs: []int64{28}},
			candidate: domain.Candidate{GenreIDs: []int64{28}, AverageRating: 0},
			want:      100,
		},
		{
			name:      "no overlap rides on the public rating alone",
			profile:   domain.UserProfile{GenreIDs: []int64{28}},
			candidate: domain.Candidate{GenreIDs: []int64{99}, AverageRating: 8.0},
			want:      66,
		},
		{
			name:      "half genre overlap",
			profile:   domain.UserProfile{GenreIDs: []int64{28, 12}},
			candidate: domain.Candidate{GenreIDs: []int64{28}, AverageRating: 5.0},
			want:      70,
		},
		{
			name:      "half actor overlap",
			profile:   domain.UserProfile{ActorIDs: []int64{1, 2}},
			candidate: domain.Candidate{ActorIDs: []int64{2}, AverageRating: 6.0},
			want:      80,
		},
		{
			name:      "empty profile scores the unrated default alone",
			profile:   domain.UserProfile{},
			candidate: domain.Candidate{GenreIDs: []int64{28}, AverageRating: 0},
			want:      54,
		},
		{
			name:      "third genre overlap rounds to nearest integer",
			profile:   domain.UserProfile{GenreIDs: []int64{28, 12, 16}},
			candidate: domain.Candidate{GenreIDs: []int64{28}, AverageRating: 4.2},
			want:      54,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Score(tt.profile, tt.candidate)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScoreDeterministic(t *testing.T) {
	profile := domain.UserProfile{GenreIDs: []int64{28, 12}, ActorIDs: []int64{500}}
	candidate := domain.Candidate{GenreIDs: []int64{28}, ActorIDs: []int64{500, 501}, AverageRating: 6.3}

	first := Score(profile, candidate)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Score(profile, candidate))
	}
}

func TestScoreStaysInRange(t *testing.T) {
	profiles := []domain.UserProfile{
		{},
		{GenreIDs: []int64{28}},
		{GenreIDs: []int64{28, 12, 16}, ActorIDs: []int64{1, 2, 3}},
	}
	candidates := []domain.Candidate{
		{},
		{GenreIDs: []int64{28, 12, 16}, ActorIDs: []int64{1, 2, 3}, AverageRating: 10},
		{GenreIDs: []int64{99}, AverageRating: 0.1},
	}

	for _, profile := range profiles {
		for _, candidate := range candidates {
			got := Score(profile, candidate)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 100.0)
		}
	}
}

func TestScoreMoreOverlapNeverScoresLower(t *testing.T) {
	profile := domain.UserProfile{GenreIDs: []int64{28, 12, 16}}
	rating := 3.0

	none := Score(profile, domain.Candidate{GenreIDs: []int64{99}, AverageRating: rating})
	one := Score(profile, domain.Candidate{GenreIDs: []int64{28}, AverageRating: rating})
	all := Score(profile, domain.Candidate{GenreIDs: []int64{28, 12, 16}, AverageRating: rating})

	assert.LessOrEqual(t, none, one)
	assert.LessOrEqual(t, one, all)
}

func TestBuildProfile(t *testing.T) {
	snapshots := []domain.PreferenceSnapshot{
		{
			Genres: []domain.GenreTag{{ID: 28, Name: "액션"}, {ID: 0, Name: "unknown"}, {ID: 12, Name: "모험"}},
			Actors: []domain.ActorTag{{ID: 500, Name: "actor"}},
		},
		{
			Genres: []domain.GenreTag{{ID: 28, Name: "액션"}, {ID: 35, Name: "코미디"}},
			Actors: []domain.ActorTag{{ID: -1, Name: "bogus"}, {ID: 500, Name: "actor"}, {ID: 501, Name: "other"}},
		},
	}

	profile := BuildProfile(snapshots)
	assert.Equal(t, []int64{28, 12, 35}, profile.GenreIDs)
	assert.Equal(t, []int64{500, 501}, profile.ActorIDs)
	assert.False(t, profile.Empty())
}

func TestBuildProfileEmpty(t *testing.T) {
	assert.True(t, BuildProfile(nil).Empty())
	assert.True(t, BuildProfile([]domain.PreferenceSnapshot{{}}).Empty())
}
