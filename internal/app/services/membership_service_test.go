package services

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
	"github.com/sevasetu/sevasetu/internal/pkg/auth"
)

func newMembershipFixture(t *testing.T, now time.Time) (*MembershipService, *fakeMemberStore, *fakeEnqueuer) {
	t.Helper()
	store := newFakeMemberStore()
	enq := &fakeEnqueuer{}
	svc := NewMembershipService(store, enq, fakeGenerator{}, "SEVA")
	svc.now = func() time.Time { return now }
	return svc, store, enq
}

func apply(t *testing.T, svc *MembershipService, email, membershipType string) *dto.MembershipApplicationResponse {
	t.Helper()
	resp, err := svc.Apply(context.Background(), &dto.MembershipApplicationRequest{
		Name:           "Asha Verma",
		Email:          email,
		Phone:          "+91 98765 43210",
		MembershipType: membershipType,
	})
	require.NoError(t, err)
	return resp
}

func TestApplyCreatesPendingMember(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc, store, enq := newMembershipFixture(t, now)

	resp := apply(t, svc, "Asha@Example.org", "basic")

	assert.True(t, strings.HasPrefix(resp.MembershipID, "SEVA-2025-"))
	assert.Equal(t, "pending", resp.ApprovalStatus)
	assert.True(t, strings.HasPrefix(resp.LoginID, "asha"))

	member, err := store.GetByMembershipID(context.Background(), resp.MembershipID)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.org", member.Email)
	assert.Nil(t, member.MembershipStartDate)
	assert.Nil(t, member.MembershipEndDate)
	assert.Equal(t, 12, member.MembershipDuration)
	assert.False(t, member.IsActive)
	assert.NotEqual(t, "password", member.Password)

	tasks := enq.ofType(models.TaskMemberCredentials)
	require.Len(t, tasks, 1)
	var payload CredentialsPayload
	require.NoError(t, json.Unmarshal(tasks[0].payload, &payload))
	assert.Equal(t, member.ID, payload.MemberID)
	assert.NotEmpty(t, payload.Password)
	assert.True(t, auth.CheckPassword(member.Password, payload.Password))
}

func TestApplyBlankNameFallsBackToGenericLogin(t *testing.T) {
	svc, _, _ := newMembershipFixture(t, time.Now())

	resp, err := svc.Apply(context.Background(), &dto.MembershipApplicationRequest{
		Name:           "  ",
		Email:          "blank@example.org",
		Phone:          "+91 98765 43210",
		MembershipType: "basic",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.LoginID, "member"))
}

func TestApplyDuplicateEmail(t *testing.T) {
	svc, _, _ := newMembershipFixture(t, time.Now())

	apply(t, svc, "asha@example.org", "basic")
	_, err := svc.Apply(context.Background(), &dto.MembershipApplicationRequest{
		Name:           "Asha Again",
		Email:          "asha@example.org",
		Phone:          "+91 98765 43210",
		MembershipType: "premium",
	})
	assert.ErrorIs(t, err, apperrors.ErrMemberAlreadyExists)
}

func TestApproveStampsMembershipWindow(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc, _, enq := newMembershipFixture(t, now)

	resp := apply(t, svc, "asha@example.org", "premium")

	status, err := svc.Approve(context.Background(), resp.MembershipID)
	require.NoError(t, err)
	assert.Equal(t, "approved", status.ApprovalStatus)
	assert.True(t, status.HasVerificationBadge)
	assert.True(t, status.IsActive)
	require.NotNil(t, status.MembershipStartDate)
	require.NotNil(t, status.MembershipEndDate)
	assert.Equal(t, now, *status.MembershipStartDate)
	assert.Equal(t, time.Date(2027, time.March, 10, 12, 0, 0, 0, time.UTC), *status.MembershipEndDate)

	require.Len(t, enq.ofType(models.TaskMemberApproval), 1)
}

func TestApproveTwiceIsNotAdditive(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc, _, enq := newMembershipFixture(t, now)
	resp := apply(t, svc, "asha@example.org", "basic")

	first, err := svc.Approve(context.Background(), resp.MembershipID)
	require.NoError(t, err)

	second, err := svc.Approve(context.Background(), resp.MembershipID)
	require.NoError(t, err)
	assert.Equal(t, *first.MembershipEndDate, *second.MembershipEndDate)

	// Only the first approval sends the welcome mail.
	assert.Len(t, enq.ofType(models.TaskMemberApproval), 1)
}

func TestRejectApprovedConflicts(t *testing.T) {
	svc, _, _ := newMembershipFixture(t, time.Now())
	resp := apply(t, svc, "asha@example.org", "basic")

	_, err := svc.Approve(context.Background(), resp.MembershipID)
	require.NoError(t, err)

	_, err = svc.Reject(context.Background(), resp.MembershipID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestExtendIsAdditive(t *testing.T) {
	now := time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	svc, _, _ := newMembershipFixture(t, now)
	resp := apply(t, svc, "asha@example.org", "basic")

	_, err := svc.Approve(context.Background(), resp.MembershipID)
	require.NoError(t, err)

	first, err := svc.Extend(context.Background(), resp.MembershipID, 6)
	require.NoError(t, err)
	second, err := svc.Extend(context.Background(), resp.MembershipID, 6)
	require.NoError(t, err)

	// 12 months from approval plus 6 plus 6
	assert.Equal(t, time.Date(2026, time.July, 15, 0, 0, 0, 0, time.UTC), *first.MembershipEndDate)
	assert.Equal(t, time.Date(2027, time.January, 15, 0, 0, 0, 0, time.UTC), *second.MembershipEndDate)
}

func TestStatusExpiresLazily(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	svc, store, _ := newMembershipFixture(t, now)
	resp := apply(t, svc, "asha@example.org", "basic")

	_, err := svc.Approve(context.Background(), resp.MembershipID)
	require.NoError(t, err)

	// Jump past the one-year membership window.
	svc.now = func() time.Time { return now.AddDate(1, 1, 0) }

	status, err := svc.GetStatus(context.Background(), resp.MembershipID)
	require.NoError(t, err)
	assert.Equal(t, "expired", status.ApprovalStatus)
	assert.False(t, status.HasVerificationBadge)

	// The flip was persisted, not just projected.
	stored, err := store.GetByMembershipID(context.Background(), resp.MembershipID)
	require.NoError(t, err)
	assert.Equal(t, models.ApprovalExpired, stored.ApprovalStatus)
}

func TestExtendExpiredReinstates(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	svc, _, _ := newMembershipFixture(t, now)
	resp := apply(t, svc, "asha@example.org", "basic")

	_, err := svc.Approve(context.Background(), resp.MembershipID)
	require.NoError(t, err)

	svc.now = func() time.Time { return now.AddDate(2, 0, 0) }

	status, err := svc.Extend(context.Background(), resp.MembershipID, 12)
	require.NoError(t, err)
	assert.Equal(t, "approved", status.ApprovalStatus)
	assert.True(t, status.HasVerificationBadge)
	assert.True(t, status.IsActive)
	// Expired memberships extend from the old end date, not from now.
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), *status.MembershipEndDate)
}

func TestMemberLogin(t *testing.T) {
	svc, _, enq := newMembershipFixture(t, time.Now())
	resp := apply(t, svc, "asha@example.org", "basic")

	var payload CredentialsPayload
	require.NoError(t, json.Unmarshal(enq.ofType(models.TaskMemberCredentials)[0].payload, &payload))

	// Pending members cannot log in.
	_, err := svc.Login(context.Background(), &dto.MemberLoginRequest{LoginID: resp.LoginID, Password: payload.Password})
	assert.ErrorIs(t, err, apperrors.ErrMembershipNotApproved)

	_, err = svc.Approve(context.Background(), resp.MembershipID)
	require.NoError(t, err)

	member, err := svc.Login(context.Background(), &dto.MemberLoginRequest{LoginID: resp.LoginID, Password: payload.Password})
	require.NoError(t, err)
	assert.NotNil(t, member.LastLogin)

	_, err = svc.Login(context.Background(), &dto.MemberLoginRequest{LoginID: resp.LoginID, Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), &dto.MemberLoginRequest{LoginID: "nobody", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestCertificateRequiresApproval(t *testing.T) {
	svc, _, _ := newMembershipFixture(t, time.Now())
	resp := apply(t, svc, "asha@example.org", "basic")

	_, err := svc.Certificate(context.Background(), resp.MembershipID)
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)

	_, err = svc.Approve(context.Background(), resp.MembershipID)
	require.NoError(t, err)

	pdf, err := svc.Certificate(context.Background(), resp.MembershipID)
	require.NoError(t, err)
	assert.Contains(t, string(pdf), resp.MembershipID)
}
