package repository

import (
	"errors"
	"fmt"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/services"
	"recycling-rewards-backend/utils"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open connects to Postgres. TranslateError makes unique violations surface
// as gorm.ErrDuplicatedKey.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RewardPoints{},
		&models.RecyclableMaterial{},
		&models.RecyclingCenter{},
		&models.RecyclingActivity{},
		&models.VoucherType{},
		&models.Voucher{},
		&models.EducationalContent{},
	)
}

// Seed inserts the default materials and reward ladder into empty tables.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.RecyclableMaterial{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		materials := []models.RecyclableMaterial{
			{Name: "Plastic", RewardPointsPerUnit: 10, Unit: "kg"},
			{Name: "Paper", RewardPointsPerUnit: 5, Unit: "kg"},
			{Name: "Glass", RewardPointsPerUnit: 8, Unit: "kg"},
			{Name: "Metal", RewardPointsPerUnit: 15, Unit: "kg"},
			{Name: "Electronics", RewardPointsPerUnit: 25, Unit: "piece"},
		}
		for i := range materials {
			materials[i].ID = uuid.NewString()
		}
		if err := db.Create(&materials).Error; err != nil {
			return fmt.Errorf("seed materials: %w", err)
		}
		utils.LogInfo("[DB] seeded %d materials", len(materials))
	}

	if err := db.Model(&models.VoucherType{}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		ladder := []models.VoucherType{
			{Name: "Bronze voucher", Description: "5% off at partner stores", ThresholdPoints: 100},
			{Name: "Silver voucher", Description: "10% off at partner stores", ThresholdPoints: 500},
			{Name: "Gold voucher", Description: "20% off at partner stores", ThresholdPoints: 1000},
			{Name: "Platinum voucher", Description: "Free public transport day pass", ThresholdPoints: 2500},
		}
		for i := range ladder {
			ladder[i].ID = uuid.NewString()
		}
		if err := db.Create(&ladder).Error; err != nil {
			return fmt.Errorf("seed voucher types: %w", err)
		}
		utils.LogInfo("[DB] seeded %d voucher types", len(ladder))
	}
	return nil
}

// translate turns a unique violation into services.ErrConflict.
func translate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", services.ErrConflict, err)
	}
	return err
}

func first[T any](q *gorm.DB) (*T, bool, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &out, true, nil
}
