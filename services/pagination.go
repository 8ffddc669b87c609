package services

import "strings"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// normalizePage clamps 1-based page numbers and sizes the way listings expect.
func normalizePage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}
	return page, size
}

// parseSortOrder returns true for descending. Empty means descending.
func parseSortOrder(order string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "", "desc":
		return true, nil
	case "asc":
		return false, nil
	}
	return false, invalid("sort order must be asc or desc, got %q", order)
}
