package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Token error types
var (
	// ErrTokenNotFound is returned when a refresh token is unknown.
	ErrTokenNotFound = ErrNotFound
	// ErrTokenExpired is returned when a refresh token exists but has expired.
	ErrTokenExpired = errors.New("refresh token expired")
)

// RefreshToken subject kinds. Staff users and portal members share the
// refresh token table.
const (
	SubjectUser   = "user"
	SubjectMember = "member"
)

// RefreshToken is one issued refresh token based on the 'refresh_tokens' table
type RefreshToken struct {
	Token       string
	SubjectType string
	SubjectID   int64
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// TokenRepository handles refresh token database operations
type TokenRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Store persists a refresh token
func (r *TokenRepository) Store(ctx context.Context, t *RefreshToken) error {
	sql, args, err := r.sb.Insert("refresh_tokens").
		Columns("token", "subject_type", "subject_id", "expires_at").
		Values(t.Token, t.SubjectType, t.SubjectID, t.ExpiresAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build store token query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error storing refresh token: %w", err)
	}
	return nil
}

// Consume looks up a refresh token, deletes it, and returns it. Rotation:
// a refresh token is single use. Expired tokens are deleted and reported
// as ErrTokenExpired.
func (r *TokenRepository) Consume(ctx context.Context, token string, now time.Time) (*RefreshToken, error) {
	sql, args, err := r.sb.Delete("refresh_tokens").
		Where(squirrel.Eq{"token": token}).
		Suffix("RETURNING token, subject_type, subject_id, expires_at, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build consume token query: %w", err)
	}

	t := &RefreshToken{}
	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&t.Token, &t.SubjectType, &t.SubjectID, &t.ExpiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("error consuming refresh token: %w", err)
	}
	if now.After(t.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	return t, nil
}

// DeleteForSubject revokes every refresh token of one subject
func (r *TokenRepository) DeleteForSubject(ctx context.Context, subjectType string, subjectID int64) error {
	sql, args, err := r.sb.Delete("refresh_tokens").
		Where(squirrel.Eq{"subject_type": subjectType, "subject_id": subjectID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete tokens query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("error deleting refresh tokens: %w", err)
	}
	return nil
}
