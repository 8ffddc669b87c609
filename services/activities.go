package services

import (
	"context"
	"time"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/utils"

	"github.com/google/uuid"
)

type ActivityInput struct {
	CenterID   string `json:"center_id" validate:"required,uuid"`
	MaterialID string `json:"material_id" validate:"required,uuid"`
	Amount     int64  `json:"amount" validate:"required,gt=0"`
}

type ActivityResult struct {
	Activity       models.RecyclingActivity `json:"activity"`
	Points         PointsChange             `json:"points"`
	VouchersIssued []models.Voucher         `json:"vouchers_issued"`
}

// ActivityService records recycling and drives the ledger and voucher engine.
type ActivityService struct {
	store  Store
	ledger *PointsLedger
	engine *VoucherEngine
	now    func() time.Time
}

func NewActivityService(store Store, ledger *PointsLedger, engine *VoucherEngine, now func() time.Time) *ActivityService {
	if now == nil {
		now = time.Now
	}
	return &ActivityService{store: store, ledger: ledger, engine: engine, now: now}
}

// Record appends the activity, applies its points and issues any vouchers it
// earns, all in one transaction.
func (s *ActivityService) Record(ctx context.Context, userID string, in ActivityInput) (*ActivityResult, error) {
	if in.Amount <= 0 {
		return nil, invalid("amount must be positive, got %d", in.Amount)
	}

	center, ok, err := s.store.Centers().FindByID(ctx, in.CenterID)
	if err != nil {
		return nil, storageErr("load center", err)
	}
	if !ok {
		return nil, notFound("recycling center %s", in.CenterID)
	}
	if !center.Accepts(in.MaterialID) {
		return nil, invalid("center %s does not accept material %s", center.Name, in.MaterialID)
	}

	var result ActivityResult
	err = s.store.Atomic(ctx, func(tx Store) error {
		change, err := s.ledger.WithStore(tx).ApplyDelta(ctx, userID, in.MaterialID, in.Amount)
		if err != nil {
			return err
		}

		activity := models.RecyclingActivity{
			ID:           uuid.NewString(),
			UserID:       userID,
			CenterID:     in.CenterID,
			MaterialID:   in.MaterialID,
			Amount:       in.Amount,
			PointsEarned: change.Delta,
			CreatedAt:    s.now(),
		}
		if err := tx.Activities().Create(ctx, &activity); err != nil {
			return storageErr("save activity", err)
		}

		vouchers, err := s.engine.WithStore(tx).issue(ctx, userID, change.Before, change.After)
		if err != nil {
			return err
		}

		result = ActivityResult{Activity: activity, Points: *change, VouchersIssued: vouchers}
		return nil
	})
	if err != nil {
		return nil, domainOr("record activity", err)
	}

	utils.LogInfo("[ACTIVITY] %s recycled %d at %s: +%d points, %d voucher(s)",
		userID, in.Amount, center.Name, result.Points.Delta, len(result.VouchersIssued))
	return &result, nil
}

func (s *ActivityService) History(ctx context.Context, userID string, page, size int) (models.Page[models.RecyclingActivity], error) {
	page, size = normalizePage(page, size)
	items, total, err := s.store.Activities().ListByUser(ctx, userID, (page-1)*size, size)
	if err != nil {
		return models.Page[models.RecyclingActivity]{}, storageErr("list activities", err)
	}
	return models.NewPage(items, page, size, total), nil
}
