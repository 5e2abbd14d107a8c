package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

// ErrChatMessageNotFound is returned when a chat message or session is not found.
var ErrChatMessageNotFound = ErrNotFound

var chatColumns = []string{
	"id", "session_id", "sender", "sender_name", "sender_email", "content",
	"keywords", "priority", "escalate_to_human", "sentiment", "read_by",
	"assigned_to", "created_at",
}

// ChatRepository handles chat message database operations
type ChatRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanChatMessage(row pgx.Row) (*models.ChatMessage, error) {
	m := &models.ChatMessage{}
	err := row.Scan(
		&m.ID, &m.SessionID, &m.Sender, &m.SenderName, &m.SenderEmail,
		&m.Content, &m.Keywords, &m.Priority, &m.EscalateToHuman,
		&m.Sentiment, &m.ReadBy, &m.AssignedTo, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if m.Keywords == nil {
		m.Keywords = []string{}
	}
	if m.ReadBy == nil {
		m.ReadBy = []int64{}
	}
	return m, nil
}

// Create inserts a new chat message and returns its id
func (r *ChatRepository) Create(ctx context.Context, m *models.ChatMessage) (int64, error) {
	sql, args, err := r.sb.Insert("chat_messages").
		Columns("session_id", "sender", "sender_name", "sender_email",
			"content", "keywords", "priority", "escalate_to_human",
			"sentiment", "read_by", "assigned_to").
		Values(m.SessionID, m.Sender, m.SenderName, m.SenderEmail,
			m.Content, m.Keywords, m.Priority, m.EscalateToHuman,
			m.Sentiment, m.ReadBy, m.AssignedTo).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create chat message SQL")
		return 0, fmt.Errorf("failed to build create chat message query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create chat message query")
		return 0, fmt.Errorf("error creating chat message: %w", err)
	}

	return id, nil
}

// ListBySession retrieves every message of one session, oldest first
func (r *ChatRepository) ListBySession(ctx context.Context, sessionID string) ([]*models.ChatMessage, error) {
	sql, args, err := r.sb.Select(chatColumns...).
		From("chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list session messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying session messages: %w", err)
	}
	defer rows.Close()

	messages := []*models.ChatMessage{}
	for rows.Next() {
		m, err := scanChatMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning chat message row: %w", err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat message rows: %w", err)
	}

	return messages, nil
}

// ListSessions aggregates sessions for the staff inbox, most recent first.
// Visitor identity comes from the first visitor message of the session.
func (r *ChatRepository) ListSessions(ctx context.Context, escalatedOnly bool, offset uint64, limit int) ([]*models.ChatSessionSummary, int64, error) {
	base := r.sb.Select(
		"session_id",
		"MAX(sender_name) FILTER (WHERE sender = 'visitor')",
		"MAX(sender_email) FILTER (WHERE sender = 'visitor')",
		"COUNT(*)",
		"MAX(CASE priority WHEN 'urgent' THEN 3 WHEN 'high' THEN 2 WHEN 'medium' THEN 1 ELSE 0 END)",
		"BOOL_OR(escalate_to_human)",
		"MAX(assigned_to)",
		"MAX(created_at)",
	).
		From("chat_messages").
		GroupBy("session_id")
	countQuery := r.sb.Select("COUNT(DISTINCT session_id)").From("chat_messages")
	if escalatedOnly {
		having := squirrel.Expr("BOOL_OR(escalate_to_human)")
		base = base.Having(having)
		countQuery = r.sb.Select("COUNT(*)").
			FromSelect(r.sb.Select("session_id").
				From("chat_messages").
				GroupBy("session_id").
				Having(having), "escalated")
	}

	countSql, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count sessions query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting chat sessions: %w", err)
	}

	sql, args, err := base.
		OrderBy("MAX(created_at) DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list sessions query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying chat sessions: %w", err)
	}
	defer rows.Close()

	priorities := []models.Priority{
		models.PriorityLow, models.PriorityMedium, models.PriorityHigh, models.PriorityUrgent,
	}
	sessions := []*models.ChatSessionSummary{}
	for rows.Next() {
		s := &models.ChatSessionSummary{}
		var visitorName, visitorEmail *string
		var priorityRank int
		err := rows.Scan(&s.SessionID, &visitorName, &visitorEmail,
			&s.MessageCount, &priorityRank, &s.EscalateToHuman,
			&s.AssignedTo, &s.LastMessageAt)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning chat session row: %w", err)
		}
		if visitorName != nil {
			s.VisitorName = *visitorName
		}
		if visitorEmail != nil {
			s.VisitorEmail = *visitorEmail
		}
		s.Priority = priorities[priorityRank]
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating chat session rows: %w", err)
	}

	return sessions, total, nil
}

// MarkSessionRead appends the user to read_by on every message of the
// session that the user has not read yet
func (r *ChatRepository) MarkSessionRead(ctx context.Context, sessionID string, userID int64) error {
	sql, args, err := r.sb.Update("chat_messages").
		Set("read_by", squirrel.Expr("array_append(read_by, ?)", userID)).
		Where(squirrel.Eq{"session_id": sessionID}).
		Where(squirrel.Expr("NOT (? = ANY(read_by))", userID)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build mark session read query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("sessionID", sessionID).Msg("Error marking session read")
		return fmt.Errorf("error marking session read: %w", err)
	}
	return nil
}

// AssignSession assigns every message of the session to a staff user and
// flags the session as escalated
func (r *ChatRepository) AssignSession(ctx context.Context, sessionID string, userID int64) error {
	sql, args, err := r.sb.Update("chat_messages").
		Set("assigned_to", userID).
		Set("escalate_to_human", true).
		Where(squirrel.Eq{"session_id": sessionID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build assign session query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("sessionID", sessionID).Msg("Error assigning chat session")
		return fmt.Errorf("error assigning chat session: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrChatMessageNotFound
	}
	return nil
}

// SessionExists reports whether any message exists for the session
func (r *ChatRepository) SessionExists(ctx context.Context, sessionID string) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("chat_messages").
		Where(squirrel.Eq{"session_id": sessionID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build session exists query: %w", err)
	}

	var one int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking session existence: %w", err)
	}
	return true, nil
}
