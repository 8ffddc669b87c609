package services

import (
	"context"
	"strings"
	"time"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/utils"
)

// VoucherQuery is a user's filtered, paginated voucher listing.
// Expired is evaluated against the clock at query time, so two identical
// queries may return different rows without any write in between.
type VoucherQuery struct {
	UserID    string
	Code      string
	Redeemed  *bool
	Expired   *bool
	Page      int
	Size      int
	SortBy    string
	SortOrder string
}

var voucherSortColumns = map[string]string{
	"created_at":  "created_at",
	"createdAt":   "created_at",
	"expires_at":  "expires_at",
	"expiresAt":   "expires_at",
	"redeemed_at": "redeemed_at",
	"redeemedAt":  "redeemed_at",
	"code":        "unique_code",
}

// VoucherLifecycle handles reads and the one-way issued -> redeemed transition.
type VoucherLifecycle struct {
	store Store
	now   func() time.Time
}

func NewVoucherLifecycle(store Store, now func() time.Time) *VoucherLifecycle {
	if now == nil {
		now = time.Now
	}
	return &VoucherLifecycle{store: store, now: now}
}

// Get returns the caller's voucher by code.
func (s *VoucherLifecycle) Get(ctx context.Context, userID, code string) (*models.Voucher, error) {
	v, ok, err := s.store.Vouchers().FindByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return nil, storageErr("load voucher", err)
	}
	if !ok {
		return nil, notFound("voucher %s", code)
	}
	if v.UserID != userID {
		return nil, ErrForbidden
	}
	return v, nil
}

// Redeem marks the voucher used. The transition is irreversible.
func (s *VoucherLifecycle) Redeem(ctx context.Context, userID, code string) (*models.Voucher, error) {
	v, err := s.Get(ctx, userID, code)
	if err != nil {
		return nil, err
	}
	if v.Redeemed {
		return nil, conflict("voucher %s already redeemed", v.UniqueCode)
	}

	now := s.now()
	if v.Expired(now) {
		return nil, ErrExpired
	}

	flipped, err := s.store.Vouchers().MarkRedeemed(ctx, v.ID, now)
	if err != nil {
		return nil, storageErr("redeem voucher", err)
	}
	if !flipped {
		// lost a race with a concurrent redemption
		return nil, conflict("voucher %s already redeemed", v.UniqueCode)
	}

	v.Redeemed = true
	v.RedeemedAt = &now
	utils.LogSuccess("[VOUCHER] %s redeemed %s", userID, v.UniqueCode)
	return v, nil
}

// CountUnretrieved counts vouchers that expired without being redeemed.
func (s *VoucherLifecycle) CountUnretrieved(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.Vouchers().CountUnretrieved(ctx, userID, s.now())
	if err != nil {
		return 0, storageErr("count vouchers", err)
	}
	return n, nil
}

func (s *VoucherLifecycle) Search(ctx context.Context, q VoucherQuery) (models.Page[models.Voucher], error) {
	page, size := normalizePage(q.Page, q.Size)

	column, ok := voucherSortColumns[q.SortBy]
	if !ok {
		if q.SortBy != "" {
			return models.Page[models.Voucher]{}, invalid("unsupported sort field %q", q.SortBy)
		}
		column = "created_at"
	}
	desc, err := parseSortOrder(q.SortOrder)
	if err != nil {
		return models.Page[models.Voucher]{}, err
	}

	items, total, err := s.store.Vouchers().Search(ctx, VoucherFilter{
		UserID:     q.UserID,
		Code:       strings.TrimSpace(q.Code),
		Redeemed:   q.Redeemed,
		Expired:    q.Expired,
		Now:        s.now(),
		Offset:     (page - 1) * size,
		Limit:      size,
		SortColumn: column,
		Desc:       desc,
	})
	if err != nil {
		return models.Page[models.Voucher]{}, storageErr("search vouchers", err)
	}
	return models.NewPage(items, page, size, total), nil
}
