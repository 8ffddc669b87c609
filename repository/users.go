package repository

import (
	"context"
	"time"

	"recycling-rewards-backend/models"

	"gorm.io/gorm"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) Create(ctx context.Context, u *models.User) error {
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *userRepo) FindByID(ctx context.Context, id string) (*models.User, bool, error) {
	return first[models.User](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *userRepo) UpdateRole(ctx context.Context, id string, role models.Role) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now()})
	return res.RowsAffected > 0, res.Error
}

func (r *userRepo) ListStandings(ctx context.Context, county string) ([]models.Standing, error) {
	q := r.db.WithContext(ctx).Table("users AS u").
		Select("u.id AS user_id, u.username, u.county, u.city, u.role, COALESCE(rp.total_points, 0) AS points").
		Joins("LEFT JOIN reward_points rp ON rp.user_id = u.id")
	if county != "" {
		q = q.Where("LOWER(u.county) = LOWER(?)", county)
	}

	var standings []models.Standing
	err := q.Order("u.created_at ASC").Order("u.id ASC").Scan(&standings).Error
	return standings, err
}

func (r *userRepo) ListInactiveSince(ctx context.Context, since time.Time) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND created_at < ?", models.RoleUser, since).
		Where("NOT EXISTS (SELECT 1 FROM recycling_activities a WHERE a.user_id = users.id AND a.created_at >= ?)", since).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}
