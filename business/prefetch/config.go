package prefetch

import "github.com/zachorg/SwipeCore-sub002/domain"

type Config struct {
	// fixed per-call upstream API costs, dollars
	DetailsCost float64
	PhotoCost   float64

	// cost estimation is near-deterministic
	CostConfidence float64

	// dollar value attributed to each realized outcome
	ValueCardView       float64
	ValueDetailView     float64
	ValuePhotoView      float64
	ValueHighEngagement float64

	// photo views trail detail views at roughly this rate
	PhotoViewFactor float64

	// base gates before budget tightening
	BaseThresholds Thresholds

	// conservative photo-prefetch gate
	PhotoMinConfidence float64
	PhotoMinScore      float64
	PhotoMinEngagement float64

	// engagementHistory fallback before analytics accumulate
	DefaultEngagementHistory float64
}

// Thresholds gate which candidates are worth prefetching at all. They are
// raised as budget depletes, never lowered.
type Thresholds struct {
	MinConfidence float64 `json:"min_confidence"`
	MinScore      float64 `json:"min_score"`
}

func DefaultConfig() Config {
	return Config{
		DetailsCost:    0.017,
		PhotoCost:      0.007,
		CostConfidence: 0.95,

		ValueCardView:       0.02,
		ValueDetailView:     0.05,
		ValuePhotoView:      0.03,
		ValueHighEngagement: 0.08,

		PhotoViewFactor: 0.7,

		BaseThresholds: Thresholds{
			MinConfidence: 0.5,
			MinScore:      50,
		},

		PhotoMinConfidence: 0.85,
		PhotoMinScore:      80,
		PhotoMinEngagement: 70,

		DefaultEngagementHistory: 0.5,
	}
}

// ConfigFromTuning overlays persisted cost/value overrides onto defaults.
// Zero fields in the tuning row keep their default.
func ConfigFromTuning(tuning domain.EngineTuning) Config {
	cfg := DefaultConfig()

	if tuning.DetailsCost > 0 {
		cfg.DetailsCost = tuning.DetailsCost
	}
	if tuning.PhotoCost > 0 {
		cfg.PhotoCost = tuning.PhotoCost
	}
	if tuning.MinConfidence > 0 {
		cfg.BaseThresholds.MinConfidence = tuning.MinConfidence
	}
	if tuning.MinScore > 0 {
		cfg.BaseThresholds.MinScore = tuning.MinScore
	}
	if tuning.ValueCardView > 0 {
		cfg.ValueCardView = tuning.ValueCardView
	}
	if tuning.ValueDetailView > 0 {
		cfg.ValueDetailView = tuning.ValueDetailView
	}
	if tuning.ValuePhotoView > 0 {
		cfg.ValuePhotoView = tuning.ValuePhotoView
	}
	if tuning.ValueHighEngagement > 0 {
		cfg.ValueHighEngagement = tuning.ValueHighEngagement
	}

	return cfg
}
