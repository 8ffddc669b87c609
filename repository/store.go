package repository

import (
	"context"

	"recycling-rewards-backend/services"

	"gorm.io/gorm"
)

// GormStore implements services.Store on a *gorm.DB, which may be a transaction.
type GormStore struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Users() services.UserRepository               { return &userRepo{db: s.db} }
func (s *GormStore) Points() services.PointsRepository            { return &pointsRepo{db: s.db} }
func (s *GormStore) Materials() services.MaterialRepository       { return &materialRepo{db: s.db} }
func (s *GormStore) Centers() services.CenterRepository           { return &centerRepo{db: s.db} }
func (s *GormStore) Activities() services.ActivityRepository      { return &activityRepo{db: s.db} }
func (s *GormStore) VoucherTypes() services.VoucherTypeRepository { return &voucherTypeRepo{db: s.db} }
func (s *GormStore) Vouchers() services.VoucherRepository         { return &voucherRepo{db: s.db} }
func (s *GormStore) Content() services.ContentRepository          { return &contentRepo{db: s.db} }

// Atomic runs fn in a transaction; nested calls become savepoints.
func (s *GormStore) Atomic(ctx context.Context, fn func(tx services.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
