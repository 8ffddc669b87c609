package services

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/utils"

	"github.com/google/uuid"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 8
)

// NewVoucherCode returns a random 8-character alphanumeric code.
func NewVoucherCode() (string, error) {
	buf := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// VoucherEngine issues vouchers for thresholds crossed by a points change.
type VoucherEngine struct {
	store       Store
	now         func() time.Time
	validity    time.Duration
	maxAttempts int
	newCode     func() (string, error)
}

func NewVoucherEngine(store Store, validity time.Duration, maxAttempts int, now func() time.Time) *VoucherEngine {
	if now == nil {
		now = time.Now
	}
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &VoucherEngine{
		store:       store,
		now:         now,
		validity:    validity,
		maxAttempts: maxAttempts,
		newCode:     NewVoucherCode,
	}
}

func (e *VoucherEngine) WithStore(s Store) *VoucherEngine {
	cp := *e
	cp.store = s
	return &cp
}

// CheckAndIssue creates one voucher per type with pointsBefore < threshold <= pointsAfter.
// A total that did not grow issues nothing, so resets can never earn vouchers.
func (e *VoucherEngine) CheckAndIssue(ctx context.Context, userID string, pointsBefore, pointsAfter int64) (int, error) {
	vouchers, err := e.issue(ctx, userID, pointsBefore, pointsAfter)
	return len(vouchers), err
}

func (e *VoucherEngine) issue(ctx context.Context, userID string, pointsBefore, pointsAfter int64) ([]models.Voucher, error) {
	if pointsAfter <= pointsBefore {
		return nil, nil
	}

	types, err := e.store.VoucherTypes().FindByThresholdBetween(ctx, pointsBefore, pointsAfter)
	if err != nil {
		return nil, storageErr("load voucher types", err)
	}

	now := e.now()
	issued := make([]models.Voucher, 0, len(types))
	for _, vt := range types {
		vt := vt
		v := models.Voucher{
			ID:            uuid.NewString(),
			UserID:        userID,
			VoucherTypeID: vt.ID,
			Redeemed:      false,
			CreatedAt:     now,
			ExpiresAt:     now.Add(e.validity),
		}
		if err := e.insertWithFreshCode(ctx, &v); err != nil {
			return issued, err
		}
		v.VoucherType = &vt
		issued = append(issued, v)
		utils.LogSuccess("[VOUCHER] %s earned %q (threshold %d) code=%s", userID, vt.Name, vt.ThresholdPoints, v.UniqueCode)
	}
	return issued, nil
}

// insertWithFreshCode draws codes until the unique index accepts one.
// Only a reported collision triggers a retry; storage errors return at once.
func (e *VoucherEngine) insertWithFreshCode(ctx context.Context, v *models.Voucher) error {
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		code, err := e.newCode()
		if err != nil {
			return storageErr("generate voucher code", err)
		}
		v.UniqueCode = code

		inserted, err := e.store.Vouchers().Insert(ctx, v)
		if err != nil {
			return storageErr("save voucher", err)
		}
		if inserted {
			return nil
		}
		utils.LogWarn("[VOUCHER] code collision on attempt %d for user %s", attempt, v.UserID)
	}
	return conflict("no free voucher code after %d attempts", e.maxAttempts)
}
