package services

import (
	"context"
	"errors"
	"path"
	"strings"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/utils"

	"github.com/google/uuid"
)

// Uploader stores a public asset and returns its URL.
type Uploader interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type CenterInput struct {
	Name         string   `json:"name" validate:"required,max=128"`
	County       string   `json:"county" validate:"required,max=64"`
	City         string   `json:"city" validate:"required,max=64"`
	Address      string   `json:"address" validate:"max=255"`
	Latitude     float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64  `json:"longitude" validate:"gte=-180,lte=180"`
	OpeningHours string   `json:"opening_hours" validate:"max=128"`
	MaterialIDs  []string `json:"material_ids" validate:"dive,uuid"`
}

type MaterialInput struct {
	Name                string `json:"name" validate:"required,max=64"`
	RewardPointsPerUnit int64  `json:"reward_points_per_unit" validate:"required,gt=0"`
	Unit                string `json:"unit" validate:"omitempty,max=16"`
}

type VoucherTypeInput struct {
	Name            string `json:"name" validate:"required,max=128"`
	Description     string `json:"description"`
	ThresholdPoints int64  `json:"threshold_points" validate:"required,gt=0"`
}

// CatalogService manages the reference data administrators own.
type CatalogService struct {
	store    Store
	uploader Uploader
}

func NewCatalogService(store Store, uploader Uploader) *CatalogService {
	return &CatalogService{store: store, uploader: uploader}
}

// --- Centers ---

func (s *CatalogService) CreateCenter(ctx context.Context, in CenterInput) (*models.RecyclingCenter, error) {
	c := &models.RecyclingCenter{ID: uuid.NewString()}
	applyCenterInput(c, in)

	err := s.store.Atomic(ctx, func(tx Store) error {
		if err := tx.Centers().Create(ctx, c); err != nil {
			return storageErr("create center", err)
		}
		return s.replaceMaterials(ctx, tx, c.ID, in.MaterialIDs)
	})
	if err != nil {
		return nil, domainOr("create center", err)
	}
	return s.GetCenter(ctx, c.ID)
}

func (s *CatalogService) UpdateCenter(ctx context.Context, id string, in CenterInput) (*models.RecyclingCenter, error) {
	c, err := s.GetCenter(ctx, id)
	if err != nil {
		return nil, err
	}
	applyCenterInput(c, in)

	err = s.store.Atomic(ctx, func(tx Store) error {
		if err := tx.Centers().Update(ctx, c); err != nil {
			return storageErr("update center", err)
		}
		return s.replaceMaterials(ctx, tx, c.ID, in.MaterialIDs)
	})
	if err != nil {
		return nil, domainOr("update center", err)
	}
	return s.GetCenter(ctx, id)
}

func (s *CatalogService) replaceMaterials(ctx context.Context, tx Store, centerID string, materialIDs []string) error {
	for _, id := range materialIDs {
		if _, ok, err := tx.Materials().FindByID(ctx, id); err != nil {
			return storageErr("load material", err)
		} else if !ok {
			return notFound("material %s", id)
		}
	}
	if err := tx.Centers().ReplaceMaterials(ctx, centerID, materialIDs); err != nil {
		return storageErr("set center materials", err)
	}
	return nil
}

func applyCenterInput(c *models.RecyclingCenter, in CenterInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.County = utils.CanonicalPlace(in.County)
	c.City = utils.CanonicalPlace(in.City)
	c.Address = strings.TrimSpace(in.Address)
	c.Latitude = in.Latitude
	c.Longitude = in.Longitude
	c.OpeningHours = in.OpeningHours
}

func (s *CatalogService) GetCenter(ctx context.Context, id string) (*models.RecyclingCenter, error) {
	c, ok, err := s.store.Centers().FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("load center", err)
	}
	if !ok {
		return nil, notFound("recycling center %s", id)
	}
	return c, nil
}

func (s *CatalogService) DeleteCenter(ctx context.Context, id string) error {
	ok, err := s.store.Centers().Delete(ctx, id)
	if err != nil {
		return storageErr("delete center", err)
	}
	if !ok {
		return notFound("recycling center %s", id)
	}
	return nil
}

func (s *CatalogService) ListCenters(ctx context.Context, county string, page, size int) (models.Page[models.RecyclingCenter], error) {
	page, size = normalizePage(page, size)
	items, total, err := s.store.Centers().List(ctx, strings.TrimSpace(county), (page-1)*size, size)
	if err != nil {
		return models.Page[models.RecyclingCenter]{}, storageErr("list centers", err)
	}
	return models.NewPage(items, page, size, total), nil
}

// --- Materials ---

func (s *CatalogService) CreateMaterial(ctx context.Context, in MaterialInput) (*models.RecyclableMaterial, error) {
	if in.RewardPointsPerUnit <= 0 {
		return nil, invalid("reward points per unit must be positive")
	}
	m := &models.RecyclableMaterial{
		ID:                  uuid.NewString(),
		Name:                strings.TrimSpace(in.Name),
		RewardPointsPerUnit: in.RewardPointsPerUnit,
		Unit:                unitOrDefault(in.Unit),
	}
	if err := s.store.Materials().Create(ctx, m); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, conflict("material %q already exists", m.Name)
		}
		return nil, storageErr("create material", err)
	}
	return m, nil
}

func (s *CatalogService) UpdateMaterial(ctx context.Context, id string, in MaterialInput) (*models.RecyclableMaterial, error) {
	if in.RewardPointsPerUnit <= 0 {
		return nil, invalid("reward points per unit must be positive")
	}
	m, err := s.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Name = strings.TrimSpace(in.Name)
	m.RewardPointsPerUnit = in.RewardPointsPerUnit
	m.Unit = unitOrDefault(in.Unit)
	if err := s.store.Materials().Update(ctx, m); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, conflict("material %q already exists", m.Name)
		}
		return nil, storageErr("update material", err)
	}
	return m, nil
}

func unitOrDefault(u string) string {
	if u = strings.TrimSpace(u); u == "" {
		return "kg"
	}
	return u
}

func (s *CatalogService) GetMaterial(ctx context.Context, id string) (*models.RecyclableMaterial, error) {
	m, ok, err := s.store.Materials().FindByID(ctx, id)
	if err != nil {
		return nil, storageErr("load material", err)
	}
	if !ok {
		return nil, notFound("material %s", id)
	}
	return m, nil
}

// MaterialByName looks a material up by its unique name.
func (s *CatalogService) MaterialByName(ctx context.Context, name string) (*models.RecyclableMaterial, error) {
	m, ok, err := s.store.Materials().FindByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, storageErr("load material", err)
	}
	if !ok {
		return nil, notFound("material %q", name)
	}
	return m, nil
}

func (s *CatalogService) DeleteMaterial(ctx context.Context, id string) error {
	ok, err := s.store.Materials().Delete(ctx, id)
	if err != nil {
		return storageErr("delete material", err)
	}
	if !ok {
		return notFound("material %s", id)
	}
	return nil
}

func (s *CatalogService) ListMaterials(ctx context.Context) ([]models.RecyclableMaterial, error) {
	items, err := s.store.Materials().List(ctx)
	if err != nil {
		return nil, storageErr("list materials", err)
	}
	return items, nil
}

// SetMaterialImage uploads an icon and stores its URL on the material.
func (s *CatalogService) SetMaterialImage(ctx context.Context, id, filename, contentType string, body []byte) (*models.RecyclableMaterial, error) {
	if s.uploader == nil {
		return nil, invalid("image storage is not configured")
	}
	m, err := s.GetMaterial(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.uploader.Put(ctx, "materials/"+uuid.NewString()+imageExt(filename), contentType, body)
	if err != nil {
		return nil, storageErr("upload material image", err)
	}
	m.ImageURL = url
	if err := s.store.Materials().Update(ctx, m); err != nil {
		return nil, storageErr("update material", err)
	}
	return m, nil
}

func imageExt(filename string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" {
		return ext
	}
	return ".png"
}

// --- Voucher types ---

func (s *CatalogService) CreateVoucherType(ctx context.Context, in VoucherTypeInput) (*models.VoucherType, error) {
	if in.ThresholdPoints <= 0 {
		return nil, invalid("threshold must be positive")
	}
	vt := &models.VoucherType{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(in.Name),
		Description:     in.Description,
		ThresholdPoints: in.ThresholdPoints,
	}
	if err := s.store.VoucherTypes().Create(ctx, vt); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, conflict("a voucher type already uses threshold %d", in.ThresholdPoints)
		}
		return nil, storageErr("create voucher type", err)
	}
	return vt, nil
}

func (s *CatalogService) ListVoucherTypes(ctx context.Context) ([]models.VoucherType, error) {
	items, err := s.store.VoucherTypes().FindAll(ctx)
	if err != nil {
		return nil, storageErr("list voucher types", err)
	}
	return items, nil
}
