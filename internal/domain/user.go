package domain

import (
	"fmt"
	"strings"
	"time"
)

type UserRole string

const (
	RoleGuest UserRole = "GUEST"
	RoleStaff UserRole = "STAFF"
	RoleAdmin UserRole = "ADMIN"
)

// ParseUserRole accepts any casing ("admin", "Admin", "ADMIN").
func ParseUserRole(s string) (UserRole, error) {
	switch r := UserRole(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleGuest, RoleStaff, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// IsStaff reports whether the role may operate the front desk (staff or admin).
func (r UserRole) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name" gorm:"size:120"`
	Phone        string    `json:"phone,omitempty" gorm:"size:40"`
	Role         UserRole  `json:"role" gorm:"size:16;not null;index"`
	IsDeleted    bool      `json:"is_deleted" gorm:"not null;default:false;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Actor is the authenticated caller of an operation, as resolved by the auth middleware.
type Actor struct {
	UserID int64
	Role   UserRole
}

func (a Actor) IsStaff() bool { return a.Role.IsStaff() }
