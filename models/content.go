package models

import "time"

type ContentKind string

const (
	ContentArticle     ContentKind = "article"
	ContentVideo       ContentKind = "video"
	ContentInfographic ContentKind = "infographic"
)

// EducationalContent is browsable material about recycling.
type EducationalContent struct {
	ID         string      `gorm:"primaryKey;type:uuid" json:"id"`
	Title      string      `gorm:"not null" json:"title"`
	Slug       string      `gorm:"uniqueIndex;not null" json:"slug"`
	Kind       ContentKind `gorm:"type:varchar(16);not null;default:'article'" json:"kind"`
	Body       string      `gorm:"type:text" json:"body"`
	ImageURL   string      `gorm:"type:text" json:"image_url,omitempty"`
	SearchText string      `gorm:"type:text;index" json:"-"` // transliterated lowercase title + body
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}
