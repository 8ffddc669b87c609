package models

import (
	"time"
)

// RewardPoints holds the running total for one user.
type RewardPoints struct {
	UserID      string    `gorm:"primaryKey;type:uuid" json:"user_id"`
	TotalPoints int64     `gorm:"not null;default:0;check:total_points >= 0" json:"total_points"`
	LastUpdated time.Time `gorm:"not null" json:"last_updated"`
}

// VoucherType is one rung of the reward ladder.
type VoucherType struct {
	ID              string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description"`
	ThresholdPoints int64     `gorm:"uniqueIndex;not null;check:threshold_points > 0" json:"threshold_points"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// Voucher is issued once per crossed threshold. Expiry is derived from ExpiresAt.
type Voucher struct {
	ID            string       `gorm:"primaryKey;type:uuid" json:"id"`
	UserID        string       `gorm:"type:uuid;index;not null" json:"user_id"`
	VoucherTypeID string       `gorm:"type:uuid;index;not null" json:"voucher_type_id"`
	VoucherType   *VoucherType `gorm:"foreignKey:VoucherTypeID" json:"voucher_type,omitempty"`
	UniqueCode    string       `gorm:"type:varchar(16);uniqueIndex;not null" json:"unique_code"`
	Redeemed      bool         `gorm:"not null;default:false" json:"redeemed"`
	CreatedAt     time.Time    `json:"created_at"`
	ExpiresAt     time.Time    `gorm:"index;not null" json:"expires_at"`
	RedeemedAt    *time.Time   `json:"redeemed_at,omitempty"`
}

// Expired reports whether the voucher is past its expiry at now.
func (v *Voucher) Expired(now time.Time) bool {
	return now.After(v.ExpiresAt)
}
