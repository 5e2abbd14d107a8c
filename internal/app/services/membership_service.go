package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
	"github.com/sevasetu/sevasetu/internal/pkg/auth"
	"github.com/sevasetu/sevasetu/internal/pkg/certificate"
	"github.com/sevasetu/sevasetu/internal/pkg/lifecycle"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

// MemberStore is the persistence surface the membership service needs
type MemberStore interface {
	Create(ctx context.Context, m *models.Member) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	GetByMembershipID(ctx context.Context, membershipID string) (*models.Member, error)
	GetByLoginID(ctx context.Context, loginID string) (*models.Member, error)
	Update(ctx context.Context, m *models.Member) error
	List(ctx context.Context, status string, offset uint64, limit int) ([]*models.Member, int64, error)
}

// TaskEnqueuer persists deferred side effects for the background worker
type TaskEnqueuer interface {
	Enqueue(ctx context.Context, taskType models.OutboxTaskType, payload interface{}) (int64, error)
}

// Outbox task payloads. Passwords travel through the outbox exactly once,
// at application time; they are never retrievable afterwards.
type (
	// CredentialsPayload drives the welcome email with portal credentials
	CredentialsPayload struct {
		MemberID int64  `json:"memberId"`
		Password string `json:"password"`
	}
	// ApprovalPayload drives the approval email with certificate attached
	ApprovalPayload struct {
		MemberID int64 `json:"memberId"`
	}
)

// MembershipService implements the membership lifecycle
type MembershipService struct {
	members   MemberStore
	outbox    TaskEnqueuer
	generator certificate.Generator
	orgPrefix string
	now       func() time.Time
}

// NewMembershipService creates a new MembershipService
func NewMembershipService(members MemberStore, outbox TaskEnqueuer, generator certificate.Generator, orgPrefix string) *MembershipService {
	return &MembershipService{
		members:   members,
		outbox:    outbox,
		generator: generator,
		orgPrefix: orgPrefix,
		now:       time.Now,
	}
}

// Apply registers a new membership application. The member starts pending
// with no start or end date; generated credentials are delivered by email
// through the outbox and never returned by the API.
func (s *MembershipService) Apply(ctx context.Context, req *dto.MembershipApplicationRequest) (*dto.MembershipApplicationResponse, error) {
	now := s.now()

	membershipID, err := s.generateMembershipID(now)
	if err != nil {
		return nil, err
	}
	loginID, err := generateLoginID(req.Name)
	if err != nil {
		return nil, err
	}
	password, err := auth.GeneratePassword(10)
	if err != nil {
		return nil, fmt.Errorf("failed to generate password: %w", err)
	}
	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	member := &models.Member{
		Name:               req.Name,
		Email:              strings.ToLower(req.Email),
		Phone:              req.Phone,
		MembershipType:     models.MembershipType(req.MembershipType),
		MembershipID:       membershipID,
		LoginID:            loginID,
		Password:           hashed,
		JoinDate:           now,
		MembershipDuration: models.MembershipDurationMonths[models.MembershipType(req.MembershipType)],
		ApprovalStatus:     models.ApprovalPending,
	}

	id, err := s.members.Create(ctx, member)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberEmailExists) {
			return nil, apperrors.ErrMemberAlreadyExists
		}
		return nil, err
	}
	member.ID = id

	if _, err := s.outbox.Enqueue(ctx, models.TaskMemberCredentials, CredentialsPayload{
		MemberID: id,
		Password: password,
	}); err != nil {
		// The application itself succeeded; the credentials email can be
		// re-sent by an admin.
		logger.Error().Err(err).Int64("memberID", id).Msg("Could not enqueue credentials email")
	}

	return &dto.MembershipApplicationResponse{
		MembershipID:   membershipID,
		LoginID:        loginID,
		ApprovalStatus: string(member.ApprovalStatus),
		JoinDate:       member.JoinDate,
	}, nil
}

// Login authenticates a member against the portal credentials. Expiry is
// checked lazily here, so a lapsed member sees the expired status
// immediately.
func (s *MembershipService) Login(ctx context.Context, req *dto.MemberLoginRequest) (*models.Member, error) {
	member, err := s.members.GetByLoginID(ctx, req.LoginID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(member.Password, req.Password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	switch member.ApprovalStatus {
	case models.ApprovalPending:
		return nil, apperrors.ErrMembershipNotApproved
	case models.ApprovalRejected:
		return nil, apperrors.ErrMembershipRejected
	}

	now := s.now()
	changed := lifecycle.CheckExpiry(member, now)
	last := now
	member.LastLogin = &last
	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}
	if changed {
		logger.Info().Str("membershipID", member.MembershipID).Msg("Membership expired at login")
	}

	return member, nil
}

// GetStatus returns the public status view of a member, applying lazy expiry
func (s *MembershipService) GetStatus(ctx context.Context, membershipID string) (*dto.MembershipStatusResponse, error) {
	member, err := s.getAndRefresh(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	return statusView(member), nil
}

// Approve transitions a member to approved, stamping the membership window
// from the clock, and queues the approval email with the certificate
// attached. Re-approving restarts the window rather than extending it;
// only rejected is a conflict.
func (s *MembershipService) Approve(ctx context.Context, membershipID string) (*dto.MembershipStatusResponse, error) {
	member, err := s.getAndRefresh(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if member.ApprovalStatus == models.ApprovalRejected {
		return nil, apperrors.NewConflictError("membership application was rejected")
	}

	// Approving again restarts the window from the clock; it is not additive,
	// so two approvals at the same instant yield the same end date.
	wasApproved := member.ApprovalStatus == models.ApprovalApproved
	lifecycle.Approve(member, s.now())
	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}

	if !wasApproved {
		if _, err := s.outbox.Enqueue(ctx, models.TaskMemberApproval, ApprovalPayload{MemberID: member.ID}); err != nil {
			logger.Error().Err(err).Int64("memberID", member.ID).Msg("Could not enqueue approval email")
		}
	}

	return statusView(member), nil
}

// Reject marks a pending member rejected
func (s *MembershipService) Reject(ctx context.Context, membershipID string) (*dto.MembershipStatusResponse, error) {
	member, err := s.getAndRefresh(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if member.ApprovalStatus == models.ApprovalApproved {
		return nil, apperrors.NewConflictError("an approved membership cannot be rejected")
	}

	member.ApprovalStatus = models.ApprovalRejected
	member.IsActive = false
	member.HasVerificationBadge = false
	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}

	return statusView(member), nil
}

// Extend pushes the membership end date out. Extending an expired member
// reinstates it.
func (s *MembershipService) Extend(ctx context.Context, membershipID string, additionalMonths int) (*dto.MembershipStatusResponse, error) {
	if additionalMonths < 1 {
		return nil, apperrors.NewBadRequestError("additionalMonths must be at least 1")
	}

	member, err := s.getAndRefresh(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if member.ApprovalStatus == models.ApprovalPending || member.ApprovalStatus == models.ApprovalRejected {
		return nil, apperrors.NewConflictError("only approved or expired memberships can be extended")
	}

	lifecycle.Extend(member, additionalMonths, s.now())
	if err := s.members.Update(ctx, member); err != nil {
		return nil, err
	}

	return statusView(member), nil
}

// Certificate renders the membership certificate PDF for an approved member
func (s *MembershipService) Certificate(ctx context.Context, membershipID string) ([]byte, error) {
	member, err := s.getAndRefresh(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if member.ApprovalStatus != models.ApprovalApproved {
		return nil, apperrors.NewBadRequestError("certificate is only available for approved memberships")
	}
	return s.generator.MembershipCertificate(member)
}

// List returns members filtered by approval status for the admin panel
func (s *MembershipService) List(ctx context.Context, status string, offset uint64, limit int) ([]*models.Member, int64, error) {
	if status != "" && !isValidApprovalStatus(status) {
		return nil, 0, apperrors.NewBadRequestError(fmt.Sprintf("unknown approval status %q", status))
	}
	return s.members.List(ctx, status, offset, limit)
}

// getAndRefresh loads a member and persists a lazy expiry flip when one
// happened
func (s *MembershipService) getAndRefresh(ctx context.Context, membershipID string) (*models.Member, error) {
	member, err := s.members.GetByMembershipID(ctx, membershipID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, err
	}

	if lifecycle.CheckExpiry(member, s.now()) {
		if err := s.members.Update(ctx, member); err != nil {
			return nil, err
		}
	}
	return member, nil
}

func (s *MembershipService) generateMembershipID(now time.Time) (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate membership id: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s", s.orgPrefix, now.Year(), strings.ToUpper(hex.EncodeToString(buf))), nil
}

// generateLoginID builds a portal login from the first name plus four random
// digits, e.g. "asha4821"
func generateLoginID(name string) (string, error) {
	var first string
	if fields := strings.Fields(name); len(fields) > 0 {
		first = strings.ToLower(fields[0])
	}
	first = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, first)
	if first == "" {
		first = "member"
	}
	if len(first) > 12 {
		first = first[:12]
	}

	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", fmt.Errorf("failed to generate login id: %w", err)
	}
	return fmt.Sprintf("%s%04d", first, n.Int64()), nil
}

func isValidApprovalStatus(s string) bool {
	switch models.ApprovalStatus(s) {
	case models.ApprovalPending, models.ApprovalApproved, models.ApprovalRejected, models.ApprovalExpired:
		return true
	}
	return false
}

func statusView(m *models.Member) *dto.MembershipStatusResponse {
	return &dto.MembershipStatusResponse{
		MembershipID:         m.MembershipID,
		Name:                 m.Name,
		MembershipType:       string(m.MembershipType),
		ApprovalStatus:       string(m.ApprovalStatus),
		HasVerificationBadge: m.HasVerificationBadge,
		IsActive:             m.IsActive,
		MembershipStartDate:  m.MembershipStartDate,
		MembershipEndDate:    m.MembershipEndDate,
		CertificateSent:      m.CertificateSent,
	}
}
