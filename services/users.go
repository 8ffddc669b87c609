package services

import (
	"context"
	"errors"
	"strings"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/utils"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	County   string `json:"county" validate:"required,max=64"`
	City     string `json:"city" validate:"required,max=64"`
}

// Profile is what a user sees about their own account.
type Profile struct {
	User                *models.User `json:"user"`
	TotalPoints         int64        `json:"total_points"`
	UnretrievedVouchers int64        `json:"unretrieved_vouchers"`
}

type UserService struct {
	store    Store
	ledger   *PointsLedger
	vouchers *VoucherLifecycle
}

func NewUserService(store Store, ledger *PointsLedger, vouchers *VoucherLifecycle) *UserService {
	return &UserService{store: store, ledger: ledger, vouchers: vouchers}
}

// Register creates a USER account. Points start at an implicit zero.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" {
		return nil, invalid("username and email are required")
	}
	if len(in.Password) < 8 {
		return nil, invalid("password must have at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, invalid("password cannot be hashed: %v", err)
	}

	u := &models.User{
		ID:           uuid.NewString(),
		Username:     strings.TrimSpace(in.Username),
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		County:       utils.CanonicalPlace(in.County),
		City:         utils.CanonicalPlace(in.City),
	}
	if err := s.store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, conflict("username or email already registered")
		}
		return nil, storageErr("create user", err)
	}

	utils.LogSuccess("[USERS] registered %s (%s, %s)", u.Username, u.City, u.County)
	return u, nil
}

// CheckPassword reports whether password matches the stored hash.
func CheckPassword(u *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (s *UserService) Profile(ctx context.Context, userID string) (*Profile, error) {
	u, ok, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, storageErr("load user", err)
	}
	if !ok {
		return nil, notFound("user %s", userID)
	}
	total, err := s.ledger.GetTotal(ctx, userID)
	if err != nil {
		return nil, err
	}
	unretrieved, err := s.vouchers.CountUnretrieved(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: u, TotalPoints: total, UnretrievedVouchers: unretrieved}, nil
}

// SetRole changes a user's role. Only callers with CapManageUsers may do this.
func (s *UserService) SetRole(ctx context.Context, actor models.Role, userID string, role models.Role) error {
	if !actor.Can(models.CapManageUsers) {
		return ErrForbidden
	}
	if _, err := models.ParseRole(string(role)); err != nil {
		return invalid("%v", err)
	}
	ok, err := s.store.Users().UpdateRole(ctx, userID, role)
	if err != nil {
		return storageErr("update role", err)
	}
	if !ok {
		return notFound("user %s", userID)
	}
	utils.LogInfo("[USERS] %s is now %s", userID, role)
	return nil
}
