// Package outbox runs the deferred side effects (emails, certificates) that
// API handlers enqueue instead of performing inline. A cron-scheduled poller
// claims pending tasks in batches and dispatches each to its registered
// handler; failures are retried up to a bounded attempt count.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

// Store is the persistence surface the worker needs
type Store interface {
	FetchPending(ctx context.Context, limit int) ([]*models.OutboxTask, error)
	MarkDone(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64, taskErr error, maxAttempts int) error
	ReleaseStale(ctx context.Context, olderThan time.Duration, now time.Time) (int64, error)
}

// staleClaimAge is how long a task may sit in processing before the poller
// assumes the worker that claimed it died and returns it to pending.
const staleClaimAge = 10 * time.Minute

// Handler performs the side effect for one task type
type Handler func(ctx context.Context, payload json.RawMessage) error

// Config controls polling cadence and retry limits
type Config struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
}

// Worker polls the outbox and dispatches tasks to handlers
type Worker struct {
	store    Store
	cfg      Config
	cron     *cron.Cron
	log      zerolog.Logger
	now      func() time.Time
	mu       sync.RWMutex
	handlers map[models.OutboxTaskType]Handler
}

// NewWorker creates a worker with no handlers registered
func NewWorker(store Store, cfg Config) *Worker {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	return &Worker{
		store:    store,
		cfg:      cfg,
		log:      logger.WithComponent("outbox"),
		now:      time.Now,
		handlers: map[models.OutboxTaskType]Handler{},
	}
}

// Register binds a handler to a task type. Registering twice replaces the
// previous handler.
func (w *Worker) Register(taskType models.OutboxTaskType, h Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[taskType] = h
}

// Start begins the polling schedule. Overlapping runs are skipped, not queued.
func (w *Worker) Start() error {
	if w.cron != nil {
		return fmt.Errorf("outbox worker already started")
	}

	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))
	spec := fmt.Sprintf("@every %s", w.cfg.PollInterval)
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), w.cfg.PollInterval)
		defer cancel()
		if _, err := w.ProcessBatch(ctx); err != nil {
			w.log.Error().Err(err).Msg("Outbox poll failed")
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule outbox poll: %w", err)
	}

	c.Start()
	w.cron = c
	w.log.Info().
		Dur("pollInterval", w.cfg.PollInterval).
		Int("batchSize", w.cfg.BatchSize).
		Msg("Outbox worker started")
	return nil
}

// Stop halts the schedule and waits for any in-flight run to finish
func (w *Worker) Stop() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
	w.cron = nil
	w.log.Info().Msg("Outbox worker stopped")
}

// ProcessBatch reclaims stale tasks, then claims and runs one batch of
// pending tasks. Returns how many tasks completed successfully.
func (w *Worker) ProcessBatch(ctx context.Context) (int, error) {
	released, err := w.store.ReleaseStale(ctx, staleClaimAge, w.now())
	if err != nil {
		w.log.Error().Err(err).Msg("Could not release stale tasks")
	} else if released > 0 {
		w.log.Warn().Int64("count", released).Msg("Released tasks from a dead worker")
	}

	tasks, err := w.store.FetchPending(ctx, w.cfg.BatchSize)
	if err != nil {
		return 0, fmt.Errorf("error fetching pending tasks: %w", err)
	}

	processed := 0
	for _, task := range tasks {
		if err := w.runTask(ctx, task); err != nil {
			w.log.Warn().Err(err).
				Int64("taskID", task.ID).
				Str("taskType", string(task.TaskType)).
				Int("attempts", task.Attempts+1).
				Msg("Outbox task failed")
			if markErr := w.store.MarkFailed(ctx, task.ID, err, w.cfg.MaxAttempts); markErr != nil {
				w.log.Error().Err(markErr).Int64("taskID", task.ID).Msg("Could not record task failure")
			}
			continue
		}
		if err := w.store.MarkDone(ctx, task.ID, w.now()); err != nil {
			w.log.Error().Err(err).Int64("taskID", task.ID).Msg("Could not mark task done")
			continue
		}
		processed++
	}

	return processed, nil
}

func (w *Worker) runTask(ctx context.Context, task *models.OutboxTask) error {
	w.mu.RLock()
	h, ok := w.handlers[task.TaskType]
	w.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no handler registered for task type %q", task.TaskType)
	}
	return h(ctx, task.Payload)
}
