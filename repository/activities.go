package repository

import (
	"context"

	"recycling-rewards-backend/models"

	"gorm.io/gorm"
)

type activityRepo struct {
	db *gorm.DB
}

func (r *activityRepo) Create(ctx context.Context, a *models.RecyclingActivity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *activityRepo) ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.RecyclingActivity, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.RecyclingActivity{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []models.RecyclingActivity
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Offset(offset).Limit(limit).
		Find(&activities).Error
	return activities, total, err
}
