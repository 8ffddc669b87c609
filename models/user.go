package models

import (
	"fmt"
	"strings"
	"time"
)

// Role is the closed set of account roles.
type Role string

const (
	RoleUser     Role = "USER"
	RoleAdmin    Role = "ADMIN"
	RoleSysAdmin Role = "SYSADMIN"
)

// Capability names an action guarded by role.
type Capability string

const (
	CapRecordActivity Capability = "record_activity"
	CapManageCatalog  Capability = "manage_catalog"
	CapManageUsers    Capability = "manage_users"
)

// ParseRole accepts role names case-insensitively, with or without a "ROLE_" prefix.
func ParseRole(s string) (Role, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "ROLE_")
	switch Role(s) {
	case RoleUser, RoleAdmin, RoleSysAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// IsAdministrative reports whether the role is excluded from leaderboard ranking.
func (r Role) IsAdministrative() bool {
	return r == RoleAdmin || r == RoleSysAdmin
}

func (r Role) Can(c Capability) bool {
	switch c {
	case CapRecordActivity:
		return r == RoleUser || r == RoleAdmin || r == RoleSysAdmin
	case CapManageCatalog:
		return r.IsAdministrative()
	case CapManageUsers:
		return r == RoleSysAdmin
	}
	return false
}

// User is a registered account. Points and vouchers reference it by UserID only.
type User struct {
	ID           string    `gorm:"primaryKey;type:uuid" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         Role      `gorm:"type:varchar(16);not null;default:'USER'" json:"role"`
	County       string    `gorm:"index" json:"county"`
	City         string    `json:"city"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
