package repository

import (
	"context"

	"recycling-rewards-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type materialRepo struct {
	db *gorm.DB
}

func (r *materialRepo) Create(ctx context.Context, m *models.RecyclableMaterial) error {
	return translate(r.db.WithContext(ctx).Create(m).Error)
}

func (r *materialRepo) Update(ctx context.Context, m *models.RecyclableMaterial) error {
	return translate(r.db.WithContext(ctx).Save(m).Error)
}

func (r *materialRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.RecyclableMaterial{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *materialRepo) FindByID(ctx context.Context, id string) (*models.RecyclableMaterial, bool, error) {
	return first[models.RecyclableMaterial](r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *materialRepo) FindByName(ctx context.Context, name string) (*models.RecyclableMaterial, bool, error) {
	return first[models.RecyclableMaterial](r.db.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name))
}

func (r *materialRepo) List(ctx context.Context) ([]models.RecyclableMaterial, error) {
	var materials []models.RecyclableMaterial
	err := r.db.WithContext(ctx).Order("name ASC").Find(&materials).Error
	return materials, err
}

type centerRepo struct {
	db *gorm.DB
}

func (r *centerRepo) Create(ctx context.Context, c *models.RecyclingCenter) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error)
}

func (r *centerRepo) Update(ctx context.Context, c *models.RecyclingCenter) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error)
}

// Delete also removes the center's rows in the join table.
func (r *centerRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Select("AcceptedMaterials").Delete(&models.RecyclingCenter{ID: id})
	return res.RowsAffected > 0, res.Error
}

func (r *centerRepo) FindByID(ctx context.Context, id string) (*models.RecyclingCenter, bool, error) {
	return first[models.RecyclingCenter](r.db.WithContext(ctx).Preload("AcceptedMaterials").Where("id = ?", id))
}

func (r *centerRepo) List(ctx context.Context, county string, offset, limit int) ([]models.RecyclingCenter, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.RecyclingCenter{})
		if county != "" {
			q = q.Where("LOWER(county) = LOWER(?)", county)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var centers []models.RecyclingCenter
	err := scoped().Preload("AcceptedMaterials").
		Order("name ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&centers).Error
	return centers, total, err
}

func (r *centerRepo) ReplaceMaterials(ctx context.Context, centerID string, materialIDs []string) error {
	materials := make([]models.RecyclableMaterial, 0, len(materialIDs))
	for _, id := range materialIDs {
		materials = append(materials, models.RecyclableMaterial{ID: id})
	}
	assoc := r.db.WithContext(ctx).Model(&models.RecyclingCenter{ID: centerID}).Association("AcceptedMaterials")
	if len(materials) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(materials)
}

type voucherTypeRepo struct {
	db *gorm.DB
}

func (r *voucherTypeRepo) Create(ctx context.Context, vt *models.VoucherType) error {
	return translate(r.db.WithContext(ctx).Create(vt).Error)
}

func (r *voucherTypeRepo) FindAll(ctx context.Context) ([]models.VoucherType, error) {
	var types []models.VoucherType
	err := r.db.WithContext(ctx).Order("threshold_points ASC").Find(&types).Error
	return types, err
}

func (r *voucherTypeRepo) FindByThresholdBetween(ctx context.Context, low, high int64) ([]models.VoucherType, error) {
	var types []models.VoucherType
	err := r.db.WithContext(ctx).
		Where("threshold_points > ? AND threshold_points <= ?", low, high).
		Order("threshold_points ASC").
		Find(&types).Error
	return types, err
}
