package models

import (
	"time"
)

// MembershipType represents the tier of a membership
type MembershipType string

const (
	MembershipBasic    MembershipType = "basic"
	MembershipPremium  MembershipType = "premium"
	MembershipLifetime MembershipType = "lifetime"
)

// ApprovalStatus represents the lifecycle state of a membership
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
	ApprovalExpired  ApprovalStatus = "expired"
)

// MembershipDurationMonths maps a membership type to its duration in months.
// Lifetime memberships carry a 100-year duration so the expiry check needs no
// special case.
var MembershipDurationMonths = map[MembershipType]int{
	MembershipBasic:    12,
	MembershipPremium:  24,
	MembershipLifetime: 1200,
}

// IsValidMembershipType reports whether the given type is a known tier
func IsValidMembershipType(t string) bool {
	_, ok := MembershipDurationMonths[MembershipType(t)]
	return ok
}

// Member defines the member model based on the 'members' table
type Member struct {
	ID                   int64          `json:"id" db:"id" example:"1"`
	Name                 string         `json:"name" db:"name" example:"Asha Verma"`
	Email                string         `json:"email" db:"email" example:"asha@example.org"`
	Phone                string         `json:"phone" db:"phone" example:"+91 98765 43210"`
	MembershipType       MembershipType `json:"membershipType" db:"membership_type" example:"basic"`
	MembershipID         string         `json:"membershipId" db:"membership_id" example:"SEVA-2025-4F7A2C"`
	LoginID              string         `json:"loginId" db:"login_id" example:"asha4821"`
	Password             string         `json:"-" db:"password"`
	JoinDate             time.Time      `json:"joinDate" db:"join_date"`
	MembershipStartDate  *time.Time     `json:"membershipStartDate,omitempty" db:"membership_start_date"`
	MembershipEndDate    *time.Time     `json:"membershipEndDate,omitempty" db:"membership_end_date"`
	MembershipDuration   int            `json:"membershipDuration" db:"membership_duration"` // months
	ApprovalStatus       ApprovalStatus `json:"approvalStatus" db:"approval_status" example:"pending"`
	IsActive             bool           `json:"isActive" db:"is_active"`
	CertificateSent      bool           `json:"certificateSent" db:"certificate_sent"`
	HasVerificationBadge bool           `json:"hasVerificationBadge" db:"has_verification_badge"`
	LastLogin            *time.Time     `json:"lastLogin,omitempty" db:"last_login"`
	CreatedAt            time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time      `json:"updatedAt" db:"updated_at"`
}
