package scoring

import (
	"math"
	"strings"
	"time"

	"github.com/zachorg/SwipeCore-sub002/domain"
)

const neutralScore = 50.0

// positionScore decays steeply so only the next few cards matter.
// Position 1 (the next card) scores exactly 100.
func positionScore(position int, decay float64) float64 {
	if position < 1 {
		position = 1
	}
	return clampScore(100 * math.Exp(-decay*float64(position-1)))
}

// ratingScore maps the 1..5 rating linearly onto 0..100. Cards without a
// rating get the neutral default.
func ratingScore(card domain.CandidateCard) float64 {
	if !card.HasRating() {
		return neutralScore
	}
	return clampScore((card.Rating - 1) * 25)
}

// contentRelevanceScore measures the card against the user's stated filter
// preferences. Without preferences every card is neutrally relevant.
func contentRelevanceScore(card domain.CandidateCard, prefs *domain.UserPreferences) float64 {
	if prefs == nil {
		return neutralScore
	}

	score := neutralScore

	if prefs.MinRating > 0 && card.HasRating() {
		diff := (card.Rating - prefs.MinRating) * 10
		if diff > 20 {
			diff = 20
		} else if diff < -20 {
			diff = -20
		}
		score += diff
	}

	if len(prefs.PreferredPriceRange) > 0 && card.PriceRange > 0 {
		if containsInt(prefs.PreferredPriceRange, card.PriceRange) {
			score += 15
		} else {
			score -= 10
		}
	}

	if len(prefs.PreferredCuisines) > 0 {
		if cuisineMatches(card.Cuisines, prefs.PreferredCuisines) {
			score += 20
		} else {
			score -= 5
		}
	}

	if prefs.MaxDistance > 0 && card.DistanceInMeters > 0 {
		ratio := card.DistanceInMeters / prefs.MaxDistance
		if ratio > 1 {
			score -= 15
		} else {
			score += 10 * (1 - ratio)
		}
	}

	if prefs.OnlyOpenNow && card.OpenNow != nil {
		if *card.OpenNow {
			score += 10
		} else {
			score -= 20
		}
	}

	return clampScore(score)
}

// userPatternScore rewards cards matching the user's accumulated habits.
// Users with little history get a flat optimistic score.
func userPatternScore(card domain.CandidateCard, b domain.UserBehaviorMetrics, now time.Time, cfg Config) float64 {
	if b.TotalCardsViewed <= cfg.EstablishedUserCards {
		return cfg.NewUserScore
	}

	score := neutralScore

	if card.HasRating() {
		if card.Rating >= 4.0 {
			score += 15
		} else if card.Rating < 3.0 {
			score -= 20
		}
	}

	// peak-hour bonus scaled by how active this hour historically is
	if maxActivity := maxHourActivity(b.TimeOfDayPatterns); maxActivity > 0 {
		hourActivity := b.TimeOfDayPatterns[now.Hour()]
		score += 20 * float64(hourActivity) / float64(maxActivity)
	}

	// quality seekers open details often and favor well-rated cards
	if b.DetailViewRate > 0.3 && card.Rating >= 4.0 {
		score += 10
	}

	return clampScore(score)
}

// sessionContextScore reflects how receptive the user is right now.
func sessionContextScore(s domain.CurrentSessionMetrics) float64 {
	score := neutralScore

	switch s.EngagementLevel {
	case domain.EngagementHigh:
		score += 20
	case domain.EngagementLow:
		score -= 15
	}

	if avg := meanOf(s.RecentViewTimes); len(s.RecentViewTimes) > 0 {
		if avg > 8 {
			score += 15
		} else if avg < 3 {
			score -= 10
		}
	}

	if s.CurrentSwipeSpeed > 0 {
		if s.CurrentSwipeSpeed < 5 {
			score += 10
		} else if s.CurrentSwipeSpeed > 15 {
			score -= 15
		}
	}

	return clampScore(score)
}

// timeContextScore favors meal windows and open venues.
func timeContextScore(card domain.CandidateCard, now time.Time) float64 {
	score := neutralScore

	switch hour := now.Hour(); {
	case hour >= 7 && hour <= 10:
		score += 5 // breakfast
	case hour >= 11 && hour <= 14:
		score += 10 // lunch
	case hour >= 17 && hour <= 21:
		score += 15 // dinner
	}

	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		score += 5
	}

	if card.OpenNow != nil {
		if *card.OpenNow {
			score += 10
		} else {
			score -= 20
		}
	}

	return clampScore(score)
}

// popularityScore is a rough quality prior from rating tier and price tier.
func popularityScore(card domain.CandidateCard) float64 {
	score := neutralScore

	if card.HasRating() {
		switch {
		case card.Rating >= 4.5:
			score += 20
		case card.Rating >= 4.0:
			score += 10
		case card.Rating < 3.0:
			score -= 15
		}
	}

	// mid-priced venues draw the broadest audience
	if card.PriceRange == 2 || card.PriceRange == 3 {
		score += 5
	}

	return clampScore(score)
}

// engagementPredictionScore estimates how deeply the user would engage
// with this card's details and photos.
func engagementPredictionScore(card domain.CandidateCard, b domain.UserBehaviorMetrics, s domain.CurrentSessionMetrics) float64 {
	score := neutralScore

	if b.DetailViewRate > 0.5 {
		score += 20
	} else if b.DetailViewRate < 0.1 && b.TotalCardsViewed > 0 {
		score -= 15
	}

	if b.PhotoInteractionRate > 0.3 {
		score += 15
	}

	switch s.EngagementLevel {
	case domain.EngagementHigh:
		score += 25
	case domain.EngagementLow:
		score -= 20
	}

	if card.Rating >= 4.5 {
		score += 10
	}
	if len(card.Photos) > 3 {
		score += 5
	}

	return clampScore(score)
}

func cuisineMatches(cuisines, preferred []string) bool {
	for _, p := range preferred {
		pl := strings.ToLower(p)
		for _, c := range cuisines {
			cl := strings.ToLower(c)
			if strings.Contains(cl, pl) || strings.Contains(pl, cl) {
				return true
			}
		}
	}
	return false
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func maxHourActivity(patterns map[int]int) int {
	max := 0
	for _, c := range patterns {
		if c > max {
			max = c
		}
	}
	return max
}

func meanOf(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampConfidence(v float64) float64 {
	if v < 0.1 {
		return 0.1
	}
	if v > 1 {
		return 1
	}
	return v
}
