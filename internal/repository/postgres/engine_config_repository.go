package postgres

import (
	"context"

	"github.com/zachorg/SwipeCore-sub002/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EngineConfigRepository stores per-profile tuning overrides for the
// decision engine's numeric constants.
type EngineConfigRepository struct {
	DB *gorm.DB
}

func NewEngineConfigRepository(db *gorm.DB) *EngineConfigRepository {
	return &EngineConfigRepository{DB: db}
}

func (r *EngineConfigRepository) GetTuning(ctx context.Context, profile string) (domain.EngineTuning, bool, error) {
	var tuning domain.EngineTuning

	err := r.DB.WithContext(ctx).
		Where("profile = ?", profile).
		First(&tuning).Error
	if err == gorm.ErrRecordNotFound {
		return domain.EngineTuning{}, false, nil
	}
	if err != nil {
		return domain.EngineTuning{}, false, err
	}

	return tuning, true, nil
}

func (r *EngineConfigRepository) UpsertTuning(ctx context.Context, tuning domain.EngineTuning) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "profile"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"w_position",
				"w_content",
				"w_behavior",
				"w_session",
				"w_time",
				"details_cost",
				"photo_cost",
				"min_confidence",
				"min_score",
				"value_card_view",
				"value_detail_view",
				"value_photo_view",
				"value_high_engagement",
				"updated_at",
			}),
		}).
		Create(&tuning).Error
}
