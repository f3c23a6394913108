package scoring

import (
	"math"

	"github.com/zachorg/SwipeCore-sub002/domain"
)

// Weights blend the five positional/contextual sub-scores into the base
// score. They must sum to 1.0.
type Weights struct {
	Position float64
	Content  float64
	Behavior float64
	Session  float64
	Time     float64
}

func (w Weights) Sum() float64 {
	return w.Position + w.Content + w.Behavior + w.Session + w.Time
}

type Config struct {
	Weights Weights

	// exponential decay rate of the position score
	PositionDecay float64

	// contextual adjustments applied to the base score
	QualityBoostRating float64 // rating at or above this multiplies the score
	QualityBoostFactor float64
	FatigueMinutes     float64 // low-engagement sessions older than this get damped
	FatigueFactor      float64
	HotStreakFactor    float64 // high engagement on an already-strong card
	HotStreakMinBase   float64

	// behavior-match gating
	EstablishedUserCards int     // behavior history kicks in past this many cards
	NewUserScore         float64 // flat optimistic score before that
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Position: 0.35,
			Content:  0.25,
			Behavior: 0.20,
			Session:  0.15,
			Time:     0.05,
		},
		PositionDecay:        0.3,
		QualityBoostRating:   4.8,
		QualityBoostFactor:   1.10,
		FatigueMinutes:       15,
		FatigueFactor:        0.80,
		HotStreakFactor:      1.05,
		HotStreakMinBase:     80,
		EstablishedUserCards: 50,
		NewUserScore:         60,
	}
}

// ConfigFromTuning overlays persisted weight overrides onto the defaults.
// Overrides that do not sum to 1.0 are ignored.
func ConfigFromTuning(tuning domain.EngineTuning) Config {
	cfg := DefaultConfig()

	w := Weights{
		Position: tuning.WPosition,
		Content:  tuning.WContent,
		Behavior: tuning.WBehavior,
		Session:  tuning.WSession,
		Time:     tuning.WTime,
	}
	if math.Abs(w.Sum()-1.0) < 1e-9 {
		cfg.Weights = w
	}

	return cfg
}
