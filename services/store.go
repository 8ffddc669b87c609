package services

import (
	"context"
	"time"

	"recycling-rewards-backend/models"
)

// Store groups the repositories the services read and write. Finders return
// (nil, false, nil) when the row does not exist. Implementations translate a
// unique-key violation into ErrConflict.
type Store interface {
	Users() UserRepository
	Points() PointsRepository
	Materials() MaterialRepository
	Centers() CenterRepository
	Activities() ActivityRepository
	VoucherTypes() VoucherTypeRepository
	Vouchers() VoucherRepository
	Content() ContentRepository

	// Atomic runs fn against a transactional Store. Any error rolls everything back.
	Atomic(ctx context.Context, fn func(tx Store) error) error
}

type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, bool, error)
	UpdateRole(ctx context.Context, id string, role models.Role) (bool, error)
	// ListStandings returns every user (optionally in one county, case-insensitive)
	// with their current total, ordered by creation time then id.
	ListStandings(ctx context.Context, county string) ([]models.Standing, error)
	// ListInactiveSince returns non-administrative users registered before since
	// who have no recycling activity at or after since.
	ListInactiveSince(ctx context.Context, since time.Time) ([]models.User, error)
}

type PointsRepository interface {
	// Add atomically adds delta to the user's total (creating the row if needed)
	// and returns the total after the addition.
	Add(ctx context.Context, userID string, delta int64, at time.Time) (int64, error)
	Get(ctx context.Context, userID string) (*models.RewardPoints, bool, error)
	Reset(ctx context.Context, userIDs []string, at time.Time) error
	ListNonZeroUserIDs(ctx context.Context) ([]string, error)
}

type MaterialRepository interface {
	Create(ctx context.Context, m *models.RecyclableMaterial) error
	Update(ctx context.Context, m *models.RecyclableMaterial) error
	Delete(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.RecyclableMaterial, bool, error)
	FindByName(ctx context.Context, name string) (*models.RecyclableMaterial, bool, error)
	List(ctx context.Context) ([]models.RecyclableMaterial, error)
}

type CenterRepository interface {
	Create(ctx context.Context, c *models.RecyclingCenter) error
	Update(ctx context.Context, c *models.RecyclingCenter) error
	Delete(ctx context.Context, id string) (bool, error)
	FindByID(ctx context.Context, id string) (*models.RecyclingCenter, bool, error)
	List(ctx context.Context, county string, offset, limit int) ([]models.RecyclingCenter, int64, error)
	ReplaceMaterials(ctx context.Context, centerID string, materialIDs []string) error
}

type ActivityRepository interface {
	Create(ctx context.Context, a *models.RecyclingActivity) error
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]models.RecyclingActivity, int64, error)
}

type VoucherTypeRepository interface {
	Create(ctx context.Context, vt *models.VoucherType) error
	FindAll(ctx context.Context) ([]models.VoucherType, error)
	// FindByThresholdBetween returns types with low < threshold <= high, ascending.
	FindByThresholdBetween(ctx context.Context, low, high int64) ([]models.VoucherType, error)
}

// VoucherFilter is the storage-level form of a voucher search.
type VoucherFilter struct {
	UserID     string
	Code       string
	Redeemed   *bool
	Expired    *bool
	Now        time.Time
	Offset     int
	Limit      int
	SortColumn string
	Desc       bool
}

type VoucherRepository interface {
	// Insert returns false without error when the unique code is already taken.
	Insert(ctx context.Context, v *models.Voucher) (bool, error)
	FindByCode(ctx context.Context, code string) (*models.Voucher, bool, error)
	// MarkRedeemed flips an unredeemed voucher; false means it was already redeemed.
	MarkRedeemed(ctx context.Context, id string, at time.Time) (bool, error)
	CountUnretrieved(ctx context.Context, userID string, now time.Time) (int64, error)
	Search(ctx context.Context, f VoucherFilter) ([]models.Voucher, int64, error)
}

// ContentFilter narrows a content listing.
type ContentFilter struct {
	Query  string
	Kind   models.ContentKind
	Offset int
	Limit  int
}

type ContentRepository interface {
	Create(ctx context.Context, c *models.EducationalContent) error
	Update(ctx context.Context, c *models.EducationalContent) error
	Delete(ctx context.Context, id string) (bool, error)
	FindBySlug(ctx context.Context, slug string) (*models.EducationalContent, bool, error)
	SlugsWithPrefix(ctx context.Context, base string) ([]string, error)
	List(ctx context.Context, f ContentFilter) ([]models.EducationalContent, int64, error)
}
