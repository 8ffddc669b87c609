package repository

import (
	"context"
	"fmt"
	"time"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/services"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sortable columns; the service layer maps request fields onto these.
var voucherColumns = map[string]bool{
	"created_at":  true,
	"expires_at":  true,
	"redeemed_at": true,
	"unique_code": true,
}

type voucherRepo struct {
	db *gorm.DB
}

// Insert skips the row instead of failing on a code collision, which keeps an
// enclosing Postgres transaction usable for the retry.
func (r *voucherRepo) Insert(ctx context.Context, v *models.Voucher) (bool, error) {
	res := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "unique_code"}}, DoNothing: true}).
		Create(v)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *voucherRepo) FindByCode(ctx context.Context, code string) (*models.Voucher, bool, error) {
	return first[models.Voucher](r.db.WithContext(ctx).Preload("VoucherType").Where("unique_code = ?", code))
}

func (r *voucherRepo) MarkRedeemed(ctx context.Context, id string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Voucher{}).
		Where("id = ? AND redeemed = ?", id, false).
		Updates(map[string]interface{}{"redeemed": true, "redeemed_at": at})
	return res.RowsAffected == 1, res.Error
}

func (r *voucherRepo) CountUnretrieved(ctx context.Context, userID string, now time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Voucher{}).
		Where("user_id = ? AND redeemed = ? AND expires_at < ?", userID, false, now).
		Count(&n).Error
	return n, err
}

func (r *voucherRepo) Search(ctx context.Context, f services.VoucherFilter) ([]models.Voucher, int64, error) {
	column := f.SortColumn
	if column == "" {
		column = "created_at"
	}
	if !voucherColumns[column] {
		return nil, 0, fmt.Errorf("%w: cannot sort by %q", services.ErrInvalidArgument, column)
	}

	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.Voucher{})
		if f.UserID != "" {
			q = q.Where("user_id = ?", f.UserID)
		}
		if f.Code != "" {
			q = q.Where("unique_code ILIKE ?", "%"+escapeLike(f.Code)+"%")
		}
		if f.Redeemed != nil {
			q = q.Where("redeemed = ?", *f.Redeemed)
		}
		if f.Expired != nil {
			if *f.Expired {
				q = q.Where("expires_at < ?", f.Now)
			} else {
				q = q.Where("expires_at >= ?", f.Now)
			}
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var vouchers []models.Voucher
	err := scoped().Preload("VoucherType").
		Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: f.Desc}).
		Order("id ASC").
		Offset(f.Offset).Limit(f.Limit).
		Find(&vouchers).Error
	return vouchers, total, err
}
