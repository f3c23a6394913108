package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/zachorg/SwipeCore-sub002/domain"
)

func TestPositionScore(t *testing.T) {
	decay := DefaultConfig().PositionDecay

	assert.InDelta(t, 100, positionScore(1, decay), 1e-9)

	// strictly decreasing, never negative
	prev := positionScore(1, decay)
	for pos := 2; pos <= 20; pos++ {
		cur := positionScore(pos, decay)
		assert.Less(t, cur, prev, "position %d", pos)
		assert.GreaterOrEqual(t, cur, 0.0)
		prev = cur
	}

	// out-of-range positions are treated as the next card
	assert.InDelta(t, 100, positionScore(0, decay), 1e-9)
	assert.InDelta(t, 100, positionScore(-3, decay), 1e-9)
}

func TestRatingScore(t *testing.T) {
	assert.InDelta(t, 50, ratingScore(domain.CandidateCard{}), 1e-9)
	assert.InDelta(t, 0, ratingScore(domain.CandidateCard{Rating: 1}), 1e-9)
	assert.InDelta(t, 50, ratingScore(domain.CandidateCard{Rating: 3}), 1e-9)
	assert.InDelta(t, 100, ratingScore(domain.CandidateCard{Rating: 5}), 1e-9)
}

func TestContentRelevanceScore(t *testing.T) {
	card := domain.CandidateCard{
		Rating:           4.5,
		PriceRange:       2,
		Cuisines:         []string{"Italian", "Pizza"},
		DistanceInMeters: 500,
	}

	// no preferences means neutral
	assert.InDelta(t, 50, contentRelevanceScore(card, nil), 1e-9)

	match := &domain.UserPreferences{
		MinRating:           4.0,
		PreferredPriceRange: []int{2, 3},
		PreferredCuisines:   []string{"italian"},
		MaxDistance:         2000,
	}
	miss := &domain.UserPreferences{
		MinRating:           5.0,
		PreferredPriceRange: []int{4},
		PreferredCuisines:   []string{"sushi"},
		MaxDistance:         100,
	}

	assert.Greater(t, contentRelevanceScore(card, match), contentRelevanceScore(card, miss))
}

func TestCuisineMatchesIsCaseInsensitiveSubstring(t *testing.T) {
	assert.True(t, cuisineMatches([]string{"Modern Italian"}, []string{"italian"}))
	assert.True(t, cuisineMatches([]string{"Thai"}, []string{"thai food"}))
	assert.False(t, cuisineMatches([]string{"Burgers"}, []string{"sushi"}))
}

func TestUserPatternScore_NewUserGetsFlatScore(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

	b := domain.UserBehaviorMetrics{TotalCardsViewed: 10}
	got := userPatternScore(domain.CandidateCard{Rating: 2}, b, now, cfg)
	assert.InDelta(t, cfg.NewUserScore, got, 1e-9)

	// established users are scored on their habits
	b = domain.UserBehaviorMetrics{
		TotalCardsViewed:  200,
		DetailViewRate:    0.5,
		TimeOfDayPatterns: map[int]int{19: 10},
	}
	high := userPatternScore(domain.CandidateCard{Rating: 4.5}, b, now, cfg)
	low := userPatternScore(domain.CandidateCard{Rating: 2.5}, b, now, cfg)
	assert.Greater(t, high, low)
}

func TestTimeContextScore_OpenNowDominates(t *testing.T) {
	dinner := time.Date(2026, 3, 16, 19, 0, 0, 0, time.UTC)
	open, closed := true, false

	openScore := timeContextScore(domain.CandidateCard{OpenNow: &open}, dinner)
	closedScore := timeContextScore(domain.CandidateCard{OpenNow: &closed}, dinner)
	assert.InDelta(t, 75, openScore, 1e-9)
	assert.InDelta(t, 45, closedScore, 1e-9)
}

func TestClampBounds(t *testing.T) {
	assert.Equal(t, 0.0, clampScore(-5))
	assert.Equal(t, 100.0, clampScore(250))
	assert.Equal(t, 0.1, clampConfidence(0))
	assert.Equal(t, 1.0, clampConfidence(1.4))
}
