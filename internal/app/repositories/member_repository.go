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

// Member error types
var (
	// ErrMemberNotFound is returned when a member is not found.
	ErrMemberNotFound = ErrNotFound
	// ErrMemberEmailExists is returned when a member with the same email exists.
	ErrMemberEmailExists = errors.New("member with this email already exists")
)

var memberColumns = []string{
	"id", "name", "email", "phone", "membership_type", "membership_id",
	"login_id", "password", "join_date", "membership_start_date",
	"membership_end_date", "membership_duration", "approval_status",
	"is_active", "certificate_sent", "has_verification_badge", "last_login",
	"created_at", "updated_at",
}

// MemberRepository handles member database operations
type MemberRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanMember(row pgx.Row) (*models.Member, error) {
	m := &models.Member{}
	err := row.Scan(
		&m.ID, &m.Name, &m.Email, &m.Phone, &m.MembershipType, &m.MembershipID,
		&m.LoginID, &m.Password, &m.JoinDate, &m.MembershipStartDate,
		&m.MembershipEndDate, &m.MembershipDuration, &m.ApprovalStatus,
		&m.IsActive, &m.CertificateSent, &m.HasVerificationBadge, &m.LastLogin,
		&m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Create inserts a new member and returns its id
func (r *MemberRepository) Create(ctx context.Context, m *models.Member) (int64, error) {
	sql, args, err := r.sb.Insert("members").
		Columns("name", "email", "phone", "membership_type", "membership_id",
			"login_id", "password", "join_date", "membership_start_date",
			"membership_end_date", "membership_duration", "approval_status",
			"is_active", "certificate_sent", "has_verification_badge").
		Values(m.Name, m.Email, m.Phone, m.MembershipType, m.MembershipID,
			m.LoginID, m.Password, m.JoinDate, m.MembershipStartDate,
			m.MembershipEndDate, m.MembershipDuration, m.ApprovalStatus,
			m.IsActive, m.CertificateSent, m.HasVerificationBadge).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create member SQL")
		return 0, fmt.Errorf("failed to build create member query: %w", err)
	}

	var id int64
	err = r.db.QueryRow(ctx, sql, args...).Scan(&id)
	if err != nil {
		if isDuplicateKeyError(err) {
			return 0, ErrMemberEmailExists
		}
		logger.Error().Err(err).Msg("Error executing create member query")
		return 0, fmt.Errorf("error creating member: %w", err)
	}

	return id, nil
}

// GetByID retrieves a member by primary key
func (r *MemberRepository) GetByID(ctx context.Context, id int64) (*models.Member, error) {
	return r.getByColumn(ctx, "id", id)
}

// GetByMembershipID retrieves a member by its public membership identifier
func (r *MemberRepository) GetByMembershipID(ctx context.Context, membershipID string) (*models.Member, error) {
	return r.getByColumn(ctx, "membership_id", membershipID)
}

// GetByLoginID retrieves a member by its portal login id
func (r *MemberRepository) GetByLoginID(ctx context.Context, loginID string) (*models.Member, error) {
	return r.getByColumn(ctx, "login_id", loginID)
}

func (r *MemberRepository) getByColumn(ctx context.Context, column string, value interface{}) (*models.Member, error) {
	sql, args, err := r.sb.Select(memberColumns...).
		From("members").
		Where(squirrel.Eq{column: value}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get member query: %w", err)
	}

	m, err := scanMember(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		logger.Error().Err(err).Str("column", column).Msg("Error scanning member row")
		return nil, fmt.Errorf("error getting member: %w", err)
	}
	return m, nil
}

// Update persists the mutable lifecycle fields of a member
func (r *MemberRepository) Update(ctx context.Context, m *models.Member) error {
	sql, args, err := r.sb.Update("members").
		SetMap(map[string]interface{}{
			"name":                   m.Name,
			"phone":                  m.Phone,
			"membership_start_date":  m.MembershipStartDate,
			"membership_end_date":    m.MembershipEndDate,
			"membership_duration":    m.MembershipDuration,
			"approval_status":        m.ApprovalStatus,
			"is_active":              m.IsActive,
			"certificate_sent":       m.CertificateSent,
			"has_verification_badge": m.HasVerificationBadge,
			"last_login":             m.LastLogin,
			"updated_at":             squirrel.Expr("CURRENT_TIMESTAMP"),
		}).
		Where(squirrel.Eq{"id": m.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update member query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("memberID", m.ID).Msg("Error executing update member query")
		return fmt.Errorf("error updating member: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}

	return nil
}

// SetCertificateSent flips the certificate-sent flag
func (r *MemberRepository) SetCertificateSent(ctx context.Context, id int64, sent bool) error {
	sql, args, err := r.sb.Update("members").
		Set("certificate_sent", sent).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set certificate sent query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting certificate sent: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// List retrieves members with optional approval-status filter, newest first
func (r *MemberRepository) List(ctx context.Context, status string, offset uint64, limit int) ([]*models.Member, int64, error) {
	base := r.sb.Select(memberColumns...).From("members")
	countQuery := r.sb.Select("COUNT(*)").From("members")
	if status != "" {
		base = base.Where(squirrel.Eq{"approval_status": status})
		countQuery = countQuery.Where(squirrel.Eq{"approval_status": status})
	}

	countSql, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count members query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting members: %w", err)
	}

	sql, args, err := base.
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying members: %w", err)
	}
	defer rows.Close()

	members := []*models.Member{}
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning member row: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, total, nil
}
