package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
)

func newContactFixture(t *testing.T, now time.Time) (*ContactService, *fakeContactStore, *fakeEnqueuer) {
	t.Helper()
	store := newFakeContactStore()
	enq := &fakeEnqueuer{}
	svc := NewContactService(store, enq)
	svc.now = func() time.Time { return now }
	return svc, store, enq
}

func contactRequest(subject, message string) *dto.CreateContactRequest {
	return &dto.CreateContactRequest{
		Name:    "Priya Nair",
		Email:   "priya@example.org",
		Subject: subject,
		Message: message,
	}
}

func TestCreateContactDefaultPriority(t *testing.T) {
	svc, _, enq := newContactFixture(t, time.Now())

	view, err := svc.Create(context.Background(), contactRequest("Question about events", "When is the next cleanup drive happening?"))
	require.NoError(t, err)

	assert.Equal(t, "new", view.Status)
	assert.Equal(t, "medium", view.Priority)
	assert.Equal(t, 24, view.EstimatedResponseTime)
	assert.False(t, view.IsOverdue)
	assert.Len(t, enq.ofType(models.TaskContactAck), 1)
}

func TestCreateContactEscalatesUrgent(t *testing.T) {
	svc, _, _ := newContactFixture(t, time.Now())

	view, err := svc.Create(context.Background(), contactRequest("Emergency at the shelter", "We need supplies immediately, the situation is critical"))
	require.NoError(t, err)

	assert.Equal(t, "urgent", view.Priority)
	assert.Equal(t, 2, view.EstimatedResponseTime)
}

func TestCreateContactEscalatesHigh(t *testing.T) {
	svc, _, _ := newContactFixture(t, time.Now())

	view, err := svc.Create(context.Background(), contactRequest("Complaint", "My donation payment failed and I have not heard back"))
	require.NoError(t, err)

	assert.Equal(t, "high", view.Priority)
	assert.Equal(t, 8, view.EstimatedResponseTime)
}

func TestContactOverdueComputedAtRead(t *testing.T) {
	created := time.Date(2025, time.June, 1, 9, 0, 0, 0, time.UTC)
	svc, _, _ := newContactFixture(t, created)

	view, err := svc.Create(context.Background(), contactRequest("Question", "Just a general question about membership fees"))
	require.NoError(t, err)
	assert.False(t, view.IsOverdue)

	// 25 hours later a medium (24h) message is overdue.
	svc.now = func() time.Time { return created.Add(25 * time.Hour) }
	late, err := svc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.True(t, late.IsOverdue)

	// Resolving stops the overdue flag regardless of age.
	resolved, err := svc.Resolve(context.Background(), view.ID)
	require.NoError(t, err)
	assert.False(t, resolved.IsOverdue)
	assert.Equal(t, "resolved", resolved.Status)
}

func TestAssignAndRespond(t *testing.T) {
	svc, _, _ := newContactFixture(t, time.Now())

	view, err := svc.Create(context.Background(), contactRequest("Volunteering", "I would like to volunteer on weekends"))
	require.NoError(t, err)

	assigned, err := svc.Assign(context.Background(), view.ID, 7)
	require.NoError(t, err)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, int64(7), *assigned.AssignedTo)
	assert.Equal(t, "in-progress", assigned.Status)

	responded, err := svc.Respond(context.Background(), view.ID, "Thanks for reaching out, our coordinator will call you")
	require.NoError(t, err)
	// A written reply closes the message.
	assert.Equal(t, "resolved", responded.Status)
	assert.NotEmpty(t, responded.Response)
	assert.False(t, responded.IsOverdue)
}

func TestResolveSpamConflicts(t *testing.T) {
	svc, _, _ := newContactFixture(t, time.Now())

	view, err := svc.Create(context.Background(), contactRequest("Win money now", "Click this link to claim your prize"))
	require.NoError(t, err)

	spam, err := svc.MarkSpam(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, "spam", spam.Status)
	assert.False(t, spam.IsOverdue)

	_, err = svc.Resolve(context.Background(), view.ID)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestGetMovesNewMessageToInProgress(t *testing.T) {
	svc, _, _ := newContactFixture(t, time.Now())

	view, err := svc.Create(context.Background(), contactRequest("Question", "How do I update my address?"))
	require.NoError(t, err)
	assert.Equal(t, "new", view.Status)

	opened, err := svc.Get(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, "in-progress", opened.Status)
}

func TestContactNotFound(t *testing.T) {
	svc, _, _ := newContactFixture(t, time.Now())
	_, err := svc.Get(context.Background(), 99)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)
}
