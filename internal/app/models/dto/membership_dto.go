package dto

import "time"

// MembershipApplicationRequest is the membership application payload
type MembershipApplicationRequest struct {
	Name           string `json:"name" binding:"required,min=2,max=100"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required,min=7,max=20"`
	MembershipType string `json:"membershipType" binding:"required,oneof=basic premium lifetime"`
}

// MembershipApplicationResponse returns the issued identifiers. The one-time
// password is only ever delivered by email, never in the API response.
type MembershipApplicationResponse struct {
	MembershipID   string    `json:"membershipId" example:"SEVA-2025-4F7A2C"`
	LoginID        string    `json:"loginId" example:"asha4821"`
	ApprovalStatus string    `json:"approvalStatus" example:"pending"`
	JoinDate       time.Time `json:"joinDate"`
}

// MemberLoginRequest is the member-portal login payload
type MemberLoginRequest struct {
	LoginID  string `json:"loginId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ExtendMembershipRequest adds months to a membership
type ExtendMembershipRequest struct {
	AdditionalMonths int `json:"additionalMonths" binding:"required,min=1"`
}

// MembershipStatusResponse is the public status view of a member
type MembershipStatusResponse struct {
	MembershipID         string     `json:"membershipId"`
	Name                 string     `json:"name"`
	MembershipType       string     `json:"membershipType"`
	ApprovalStatus       string     `json:"approvalStatus"`
	HasVerificationBadge bool       `json:"hasVerificationBadge"`
	IsActive             bool       `json:"isActive"`
	MembershipStartDate  *time.Time `json:"membershipStartDate,omitempty"`
	MembershipEndDate    *time.Time `json:"membershipEndDate,omitempty"`
	CertificateSent      bool       `json:"certificateSent"`
}
