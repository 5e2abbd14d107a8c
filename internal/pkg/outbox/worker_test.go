package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevasetu/sevasetu/internal/app/models"
)

type fakeStore struct {
	pending  []*models.OutboxTask
	stale    []*models.OutboxTask
	done     []int64
	failed   []int64
	released int64
}

func (s *fakeStore) FetchPending(_ context.Context, limit int) ([]*models.OutboxTask, error) {
	if len(s.pending) > limit {
		return s.pending[:limit], nil
	}
	out := s.pending
	s.pending = nil
	return out, nil
}

func (s *fakeStore) MarkDone(_ context.Context, id int64, _ time.Time) error {
	s.done = append(s.done, id)
	return nil
}

func (s *fakeStore) MarkFailed(_ context.Context, id int64, _ error, _ int) error {
	s.failed = append(s.failed, id)
	return nil
}

func (s *fakeStore) ReleaseStale(_ context.Context, olderThan time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-olderThan)
	var kept []*models.OutboxTask
	for _, t := range s.stale {
		if t.ClaimedAt != nil && t.ClaimedAt.Before(cutoff) {
			t.Status = models.TaskPending
			s.pending = append(s.pending, t)
			s.released++
			continue
		}
		kept = append(kept, t)
	}
	s.stale = kept
	return s.released, nil
}

func task(id int64, taskType models.OutboxTaskType, payload string) *models.OutboxTask {
	return &models.OutboxTask{
		ID:       id,
		TaskType: taskType,
		Payload:  json.RawMessage(payload),
		Status:   models.TaskPending,
	}
}

func TestProcessBatchDispatchesByType(t *testing.T) {
	store := &fakeStore{pending: []*models.OutboxTask{
		task(1, models.TaskContactAck, `{"contactId":7}`),
		task(2, models.TaskDonationReceipt, `{"donationId":9}`),
	}}

	w := NewWorker(store, Config{BatchSize: 10})

	var gotContact, gotDonation json.RawMessage
	w.Register(models.TaskContactAck, func(_ context.Context, p json.RawMessage) error {
		gotContact = p
		return nil
	})
	w.Register(models.TaskDonationReceipt, func(_ context.Context, p json.RawMessage) error {
		gotDonation = p
		return nil
	})

	processed, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.JSONEq(t, `{"contactId":7}`, string(gotContact))
	assert.JSONEq(t, `{"donationId":9}`, string(gotDonation))
	assert.Equal(t, []int64{1, 2}, store.done)
	assert.Empty(t, store.failed)
}

func TestProcessBatchMarksFailureAndContinues(t *testing.T) {
	store := &fakeStore{pending: []*models.OutboxTask{
		task(1, models.TaskContactAck, `{}`),
		task(2, models.TaskContactAck, `{}`),
	}}

	w := NewWorker(store, Config{BatchSize: 10})

	calls := 0
	w.Register(models.TaskContactAck, func(_ context.Context, _ json.RawMessage) error {
		calls++
		if calls == 1 {
			return errors.New("smtp unreachable")
		}
		return nil
	})

	processed, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, []int64{1}, store.failed)
	assert.Equal(t, []int64{2}, store.done)
}

func TestProcessBatchUnknownTypeFails(t *testing.T) {
	store := &fakeStore{pending: []*models.OutboxTask{
		task(1, models.OutboxTaskType("mystery"), `{}`),
	}}

	w := NewWorker(store, Config{BatchSize: 10})

	processed, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Equal(t, []int64{1}, store.failed)
}

func TestProcessBatchReclaimsStaleTasks(t *testing.T) {
	now := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	claimed := now.Add(-time.Hour)
	orphan := task(5, models.TaskContactAck, `{"contactId":3}`)
	orphan.Status = models.TaskProcessing
	orphan.ClaimedAt = &claimed

	store := &fakeStore{stale: []*models.OutboxTask{orphan}}
	w := NewWorker(store, Config{BatchSize: 10})
	w.now = func() time.Time { return now }
	w.Register(models.TaskContactAck, func(_ context.Context, _ json.RawMessage) error {
		return nil
	})

	processed, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, int64(1), store.released)
	assert.Equal(t, []int64{5}, store.done)
}

func TestProcessBatchLeavesFreshClaimsAlone(t *testing.T) {
	now := time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)
	claimed := now.Add(-time.Minute)
	inFlight := task(6, models.TaskContactAck, `{}`)
	inFlight.Status = models.TaskProcessing
	inFlight.ClaimedAt = &claimed

	store := &fakeStore{stale: []*models.OutboxTask{inFlight}}
	w := NewWorker(store, Config{BatchSize: 10})
	w.now = func() time.Time { return now }

	processed, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Zero(t, store.released)
}

func TestProcessBatchRespectsBatchSize(t *testing.T) {
	store := &fakeStore{pending: []*models.OutboxTask{
		task(1, models.TaskContactAck, `{}`),
		task(2, models.TaskContactAck, `{}`),
		task(3, models.TaskContactAck, `{}`),
	}}

	w := NewWorker(store, Config{BatchSize: 2})
	w.Register(models.TaskContactAck, func(_ context.Context, _ json.RawMessage) error {
		return nil
	})

	processed, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
}
