package models

import (
	"time"
)

// RecyclableMaterial is static reference data; RewardPointsPerUnit is a whole-number rate.
type RecyclableMaterial struct {
	ID                  string    `gorm:"primaryKey;type:uuid" json:"id"`
	Name                string    `gorm:"uniqueIndex;not null" json:"name"`
	RewardPointsPerUnit int64     `gorm:"not null;check:reward_points_per_unit > 0" json:"reward_points_per_unit"`
	Unit                string    `gorm:"type:varchar(16);not null;default:'kg'" json:"unit"`
	ImageURL            string    `gorm:"type:text" json:"image_url,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type RecyclingCenter struct {
	ID                string               `gorm:"primaryKey;type:uuid" json:"id"`
	Name              string               `gorm:"not null" json:"name"`
	County            string               `gorm:"index" json:"county"`
	City              string               `json:"city"`
	Address           string               `json:"address"`
	Latitude          float64              `json:"latitude"`
	Longitude         float64              `json:"longitude"`
	OpeningHours      string               `json:"opening_hours"`
	AcceptedMaterials []RecyclableMaterial `gorm:"many2many:center_materials;" json:"accepted_materials"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// Accepts reports whether materialID may be dropped off here.
// A center without an accepted list takes everything.
func (c *RecyclingCenter) Accepts(materialID string) bool {
	if len(c.AcceptedMaterials) == 0 {
		return true
	}
	for _, m := range c.AcceptedMaterials {
		if m.ID == materialID {
			return true
		}
	}
	return false
}

// RecyclingActivity is an append-only fact.
type RecyclingActivity struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string    `gorm:"type:uuid;index;not null" json:"user_id"`
	CenterID     string    `gorm:"type:uuid;index;not null" json:"center_id"`
	MaterialID   string    `gorm:"type:uuid;index;not null" json:"material_id"`
	Amount       int64     `gorm:"not null;check:amount > 0" json:"amount"`
	PointsEarned int64     `gorm:"not null" json:"points_earned"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
