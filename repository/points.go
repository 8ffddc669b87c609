package repository

import (
	"context"
	"time"

	"recycling-rewards-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type pointsRepo struct {
	db *gorm.DB
}

// Add upserts the row and increments in a single statement, so concurrent
// deltas for the same user never lose an update.
func (r *pointsRepo) Add(ctx context.Context, userID string, delta int64, at time.Time) (int64, error) {
	row := models.RewardPoints{UserID: userID, TotalPoints: delta, LastUpdated: at}
	err := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"total_points": gorm.Expr("reward_points.total_points + ?", delta),
				"last_updated": at,
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "total_points"}}},
	).Create(&row).Error
	if err != nil {
		return 0, err
	}
	return row.TotalPoints, nil
}

func (r *pointsRepo) Get(ctx context.Context, userID string) (*models.RewardPoints, bool, error) {
	return first[models.RewardPoints](r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *pointsRepo) Reset(ctx context.Context, userIDs []string, at time.Time) error {
	if len(userIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.RewardPoints{}).
		Where("user_id IN ?", userIDs).
		Updates(map[string]interface{}{"total_points": 0, "last_updated": at}).Error
}

func (r *pointsRepo) ListNonZeroUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.RewardPoints{}).
		Where("total_points > 0").
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
