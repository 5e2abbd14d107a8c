package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

var outboxColumns = []string{
	"id", "task_type", "payload", "status", "attempts", "last_error",
	"claimed_at", "created_at", "processed_at",
}

func scanOutboxTask(row pgx.Row) (*models.OutboxTask, error) {
	t := &models.OutboxTask{}
	err := row.Scan(
		&t.ID, &t.TaskType, &t.Payload, &t.Status, &t.Attempts,
		&t.LastError, &t.ClaimedAt, &t.CreatedAt, &t.ProcessedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning outbox task row: %w", err)
	}
	return t, nil
}

// OutboxRepository handles outbox task database operations
type OutboxRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(db *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Enqueue inserts a pending task
func (r *OutboxRepository) Enqueue(ctx context.Context, taskType models.OutboxTaskType, payload interface{}) (int64, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	sql, args, err := r.sb.Insert("outbox_tasks").
		Columns("task_type", "payload", "status").
		Values(taskType, raw, models.TaskPending).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build enqueue task query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Str("taskType", string(taskType)).Msg("Error enqueueing outbox task")
		return 0, fmt.Errorf("error enqueueing outbox task: %w", err)
	}

	return id, nil
}

// FetchPending claims up to limit pending tasks, marking them processing.
// FOR UPDATE SKIP LOCKED keeps concurrent pollers from claiming the same rows.
func (r *OutboxRepository) FetchPending(ctx context.Context, limit int) ([]*models.OutboxTask, error) {
	sql := `
		UPDATE outbox_tasks SET status = $1, claimed_at = NOW()
		WHERE id IN (
			SELECT id FROM outbox_tasks
			WHERE status = $2
			ORDER BY created_at ASC
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, task_type, payload, status, attempts, last_error, claimed_at, created_at, processed_at`

	rows, err := r.db.Query(ctx, sql, models.TaskProcessing, models.TaskPending, limit)
	if err != nil {
		return nil, fmt.Errorf("error fetching pending tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.OutboxTask{}
	for rows.Next() {
		t, err := scanOutboxTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating outbox task rows: %w", err)
	}

	return tasks, nil
}

// MarkDone marks a task finished
func (r *OutboxRepository) MarkDone(ctx context.Context, id int64, at time.Time) error {
	sql, args, err := r.sb.Update("outbox_tasks").
		SetMap(map[string]interface{}{
			"status":       models.TaskDone,
			"processed_at": at,
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark done query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error marking task done: %w", err)
	}
	return nil
}

// MarkFailed records a failed attempt. Tasks under maxAttempts return to
// pending for the next poll; tasks at the limit stay failed for manual
// requeue.
func (r *OutboxRepository) MarkFailed(ctx context.Context, id int64, taskErr error, maxAttempts int) error {
	sql, args, err := r.sb.Update("outbox_tasks").
		SetMap(map[string]interface{}{
			"attempts":   squirrel.Expr("attempts + 1"),
			"last_error": taskErr.Error(),
			"status": squirrel.Expr(
				"CASE WHEN attempts + 1 >= ? THEN ? ELSE ? END",
				maxAttempts, models.TaskFailed, models.TaskPending),
		}).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark failed query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error marking task failed: %w", err)
	}
	return nil
}

// Requeue moves a failed task back to pending with a fresh attempt budget
func (r *OutboxRepository) Requeue(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("outbox_tasks").
		SetMap(map[string]interface{}{
			"status":     models.TaskPending,
			"attempts":   0,
			"last_error": "",
		}).
		Where(squirrel.Eq{"id": id, "status": models.TaskFailed}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build requeue task query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error requeueing task: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ReleaseStale returns tasks stuck in processing (a crashed worker) back to
// pending
func (r *OutboxRepository) ReleaseStale(ctx context.Context, olderThan time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-olderThan)
	sql, args, err := r.sb.Update("outbox_tasks").
		Set("status", models.TaskPending).
		Where(squirrel.Eq{"status": models.TaskProcessing}).
		Where(squirrel.Lt{"claimed_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build release stale query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error releasing stale tasks: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// ListFailed pages through tasks that have exhausted their attempts, newest
// first, for the admin requeue view
func (r *OutboxRepository) ListFailed(ctx context.Context, offset uint64, limit int) ([]*models.OutboxTask, int64, error) {
	countSql, countArgs, err := r.sb.Select("COUNT(*)").From("outbox_tasks").
		Where(squirrel.Eq{"status": models.TaskFailed}).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count failed tasks query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting failed tasks: %w", err)
	}

	sql, args, err := r.sb.Select(outboxColumns...).From("outbox_tasks").
		Where(squirrel.Eq{"status": models.TaskFailed}).
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list failed tasks query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying failed tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*models.OutboxTask{}
	for rows.Next() {
		t, err := scanOutboxTask(rows)
		if err != nil {
			return nil, 0, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating failed task rows: %w", err)
	}

	return tasks, total, nil
}
