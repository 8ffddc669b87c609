package repository

import (
	"context"
	"strings"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/services"

	"gorm.io/gorm"
)

type contentRepo struct {
	db *gorm.DB
}

func (r *contentRepo) Create(ctx context.Context, c *models.EducationalContent) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *contentRepo) Update(ctx context.Context, c *models.EducationalContent) error {
	return translate(r.db.WithContext(ctx).Save(c).Error)
}

func (r *contentRepo) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.EducationalContent{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *contentRepo) FindBySlug(ctx context.Context, slug string) (*models.EducationalContent, bool, error) {
	return first[models.EducationalContent](r.db.WithContext(ctx).Where("slug = ?", slug))
}

func (r *contentRepo) SlugsWithPrefix(ctx context.Context, base string) ([]string, error) {
	var slugs []string
	err := r.db.WithContext(ctx).Model(&models.EducationalContent{}).
		Where("slug = ? OR slug LIKE ?", base, escapeLike(base)+"-%").
		Pluck("slug", &slugs).Error
	return slugs, err
}

func (r *contentRepo) List(ctx context.Context, f services.ContentFilter) ([]models.EducationalContent, int64, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.EducationalContent{})
		if f.Query != "" {
			q = q.Where("search_text LIKE ?", "%"+escapeLike(f.Query)+"%")
		}
		if f.Kind != "" {
			q = q.Where("kind = ?", f.Kind)
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.EducationalContent
	err := scoped().Order("created_at DESC").Order("id ASC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&items).Error
	return items, total, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
