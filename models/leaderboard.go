package models

// Standing is a user joined with their current total, as read from the store.
type Standing struct {
	UserID   string
	Username string
	County   string
	City     string
	Role     Role
	Points   int64
}

// LeaderboardEntry is derived, never persisted. Rank is nil for administrative users.
type LeaderboardEntry struct {
	UserID         string `json:"user_id"`
	Username       string `json:"username"`
	County         string `json:"county"`
	City           string `json:"city"`
	RewardPoints   int64  `json:"reward_points"`
	Administration bool   `json:"administration"`
	Rank           *int   `json:"rank"`
}

// Page is one slice of a paginated listing. Page numbers start at 1.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

func NewPage[T any](items []T, page, size int, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{Items: items, Page: page, Size: size, TotalItems: total, TotalPages: pages}
}
