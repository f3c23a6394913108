package domain

import "time"

// EngineTuning is a persisted, versionable override set for the numeric
// constants the decision engine runs on. One row per deployment profile;
// the engine falls back to compiled-in defaults when no row exists.
type EngineTuning struct {
	Profile string `json:"profile" gorm:"column:profile;primaryKey"`

	// scoring weights (must sum to 1.0)
	WPosition float64 `json:"w_position" gorm:"column:w_position"`
	WContent  float64 `json:"w_content" gorm:"column:w_content"`
	WBehavior float64 `json:"w_behavior" gorm:"column:w_behavior"`
	WSession  float64 `json:"w_session" gorm:"column:w_session"`
	WTime     float64 `json:"w_time" gorm:"column:w_time"`

	// per-call upstream API costs, dollars
	DetailsCost float64 `json:"details_cost" gorm:"column:details_cost"`
	PhotoCost   float64 `json:"photo_cost" gorm:"column:photo_cost"`

	// base prefetch gates
	MinConfidence float64 `json:"min_confidence" gorm:"column:min_confidence"`
	MinScore      float64 `json:"min_score" gorm:"column:min_score"`

	// dollar values per realized outcome
	ValueCardView       float64 `json:"value_card_view" gorm:"column:value_card_view"`
	ValueDetailView     float64 `json:"value_detail_view" gorm:"column:value_detail_view"`
	ValuePhotoView      float64 `json:"value_photo_view" gorm:"column:value_photo_view"`
	ValueHighEngagement float64 `json:"value_high_engagement" gorm:"column:value_high_engagement"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (EngineTuning) TableName() string {
	return "prefetch_engine_config"
}
