package models

import (
	"time"
)

// RoleType represents a user's role
type RoleType string

const (
	RoleMember RoleType = "MEMBER"
	RoleAdmin  RoleType = "ADMIN"
)

// Account lockout policy: MaxLoginAttempts consecutive failures lock the
// account for LockoutDuration.
const (
	MaxLoginAttempts = 5
	LockoutDuration  = 2 * time.Hour
)

// User defines the user model based on the 'users' table
type User struct {
	ID            int64      `json:"id" db:"id" example:"1"`
	Email         string     `json:"email" db:"email" example:"admin@sevasetu.org"`
	Password      string     `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	FirstName     string     `json:"firstName" db:"first_name"`
	LastName      string     `json:"lastName" db:"last_name"`
	Phone         string     `json:"phone,omitempty" db:"phone"`
	RoleType      RoleType   `json:"roleType" db:"role_type" example:"MEMBER"`
	IsActive      bool       `json:"isActive" db:"is_active"`
	LoginAttempts int        `json:"-" db:"login_attempts"`
	LockUntil     *time.Time `json:"-" db:"lock_until"`
	LastLoginAt   *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// IsLocked reports whether the account is currently locked out
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && now.Before(*u.LockUntil)
}
