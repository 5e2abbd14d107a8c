package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

// ErrContactNotFound is returned when a contact message is not found.
var ErrContactNotFound = ErrNotFound

var contactColumns = []string{
	"id", "name", "email", "phone", "subject", "message", "category",
	"status", "priority", "estimated_response_time", "assigned_to",
	"response", "responded_at", "created_at", "updated_at",
}

// ContactFilter narrows List results
type ContactFilter struct {
	Status   string
	Priority string
	Category string
}

// ContactRepository handles contact message database operations
type ContactRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanContact(row pgx.Row) (*models.ContactMessage, error) {
	c := &models.ContactMessage{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.Subject, &c.Message, &c.Category,
		&c.Status, &c.Priority, &c.EstimatedResponseTime, &c.AssignedTo,
		&c.Response, &c.RespondedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new contact message and returns its id
func (r *ContactRepository) Create(ctx context.Context, c *models.ContactMessage) (int64, error) {
	sql, args, err := r.sb.Insert("contact_messages").
		Columns("name", "email", "phone", "subject", "message", "category",
			"status", "priority", "estimated_response_time").
		Values(c.Name, c.Email, c.Phone, c.Subject, c.Message, c.Category,
			c.Status, c.Priority, c.EstimatedResponseTime).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create contact SQL")
		return 0, fmt.Errorf("failed to build create contact query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create contact query")
		return 0, fmt.Errorf("error creating contact message: %w", err)
	}

	return id, nil
}

// GetByID retrieves a contact message by primary key
func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	sql, args, err := r.sb.Select(contactColumns...).
		From("contact_messages").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get contact query: %w", err)
	}

	c, err := scanContact(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		logger.Error().Err(err).Int64("contactID", id).Msg("Error scanning contact row")
		return nil, fmt.Errorf("error getting contact message: %w", err)
	}
	return c, nil
}

// Assign sets the handler and moves the message to in-progress
func (r *ContactRepository) Assign(ctx context.Context, id, userID int64) error {
	return r.update(ctx, id, map[string]interface{}{
		"assigned_to": userID,
		"status":      models.ContactInProgress,
	})
}

// Respond stores the staff response and closes the message
func (r *ContactRepository) Respond(ctx context.Context, id int64, response string, respondedAt time.Time) error {
	return r.update(ctx, id, map[string]interface{}{
		"response":     response,
		"responded_at": respondedAt,
		"status":       models.ContactResolved,
	})
}

// SetStatus moves the message to the given status
func (r *ContactRepository) SetStatus(ctx context.Context, id int64, status models.ContactStatus) error {
	return r.update(ctx, id, map[string]interface{}{"status": status})
}

func (r *ContactRepository) update(ctx context.Context, id int64, fields map[string]interface{}) error {
	fields["updated_at"] = squirrel.Expr("CURRENT_TIMESTAMP")
	sql, args, err := r.sb.Update("contact_messages").
		SetMap(fields).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update contact query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("contactID", id).Msg("Error executing update contact query")
		return fmt.Errorf("error updating contact message: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrContactNotFound
	}
	return nil
}

// List retrieves contact messages matching the filter, urgent first then newest
func (r *ContactRepository) List(ctx context.Context, filter ContactFilter, offset uint64, limit int) ([]*models.ContactMessage, int64, error) {
	conds := squirrel.And{}
	if filter.Status != "" {
		conds = append(conds, squirrel.Eq{"status": filter.Status})
	}
	if filter.Priority != "" {
		conds = append(conds, squirrel.Eq{"priority": filter.Priority})
	}
	if filter.Category != "" {
		conds = append(conds, squirrel.Eq{"category": filter.Category})
	}

	base := r.sb.Select(contactColumns...).From("contact_messages")
	countQuery := r.sb.Select("COUNT(*)").From("contact_messages")
	if len(conds) > 0 {
		base = base.Where(conds)
		countQuery = countQuery.Where(conds)
	}

	countSql, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count contacts query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting contact messages: %w", err)
	}

	sql, args, err := base.
		OrderBy("CASE priority WHEN 'urgent' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END", "created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list contacts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying contact messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.ContactMessage{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning contact row: %w", err)
		}
		messages = append(messages, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating contact rows: %w", err)
	}

	return messages, total, nil
}
