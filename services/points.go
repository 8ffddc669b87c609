package services

import (
	"context"
	"time"

	"recycling-rewards-backend/utils"
)

// PointsChange is the before/after pair produced by a single ApplyDelta call.
// VoucherEngine must be fed exactly this pair, never a fresh read.
type PointsChange struct {
	UserID string `json:"user_id"`
	Before int64  `json:"before"`
	After  int64  `json:"after"`
	Delta  int64  `json:"delta"`
}

// PointsLedger owns every mutation of reward_points.
type PointsLedger struct {
	store Store
	now   func() time.Time
}

func NewPointsLedger(store Store, now func() time.Time) *PointsLedger {
	if now == nil {
		now = time.Now
	}
	return &PointsLedger{store: store, now: now}
}

// WithStore returns a ledger bound to another store, typically a transaction.
func (l *PointsLedger) WithStore(s Store) *PointsLedger {
	return &PointsLedger{store: s, now: l.now}
}

// ApplyDelta credits amountUnits of a material to the user. The addition is a
// single atomic statement; its result is the linearization point for the pair.
func (l *PointsLedger) ApplyDelta(ctx context.Context, userID, materialID string, amountUnits int64) (*PointsChange, error) {
	if amountUnits <= 0 {
		return nil, invalid("amount must be positive, got %d", amountUnits)
	}

	if _, ok, err := l.store.Users().FindByID(ctx, userID); err != nil {
		return nil, storageErr("load user", err)
	} else if !ok {
		return nil, notFound("user %s", userID)
	}

	material, ok, err := l.store.Materials().FindByID(ctx, materialID)
	if err != nil {
		return nil, storageErr("load material", err)
	}
	if !ok {
		return nil, notFound("material %s", materialID)
	}

	delta := amountUnits * material.RewardPointsPerUnit
	after, err := l.store.Points().Add(ctx, userID, delta, l.now())
	if err != nil {
		return nil, storageErr("add points", err)
	}

	utils.LogInfo("[POINTS] %s +%d (%d x %s) -> %d", userID, delta, amountUnits, material.Name, after)

	return &PointsChange{
		UserID: userID,
		Before: after - delta,
		After:  after,
		Delta:  delta,
	}, nil
}

// GetTotal returns the user's balance; a user without a row has zero.
func (l *PointsLedger) GetTotal(ctx context.Context, userID string) (int64, error) {
	rp, ok, err := l.store.Points().Get(ctx, userID)
	if err != nil {
		return 0, storageErr("load points", err)
	}
	if !ok {
		return 0, nil
	}
	return rp.TotalPoints, nil
}

// ResetAll zeroes the given users' totals. Resetting never issues vouchers.
func (l *PointsLedger) ResetAll(ctx context.Context, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	if err := l.store.Points().Reset(ctx, userIDs, l.now()); err != nil {
		return storageErr("reset points", err)
	}
	return nil
}

// ResetEveryone zeroes every non-zero balance; used by the monthly job.
func (l *PointsLedger) ResetEveryone(ctx context.Context) (int, error) {
	ids, err := l.store.Points().ListNonZeroUserIDs(ctx)
	if err != nil {
		return 0, storageErr("list balances", err)
	}
	if err := l.ResetAll(ctx, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
