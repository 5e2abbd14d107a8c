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

// Donation error types
var (
	// ErrDonationNotFound is returned when a donation is not found.
	ErrDonationNotFound = ErrNotFound
	// ErrDonationStatusConflict is returned when a conditional status update
	// finds the row in a different status than expected.
	ErrDonationStatusConflict = errors.New("donation status changed concurrently")
)

var donationColumns = []string{
	"id", "donor_name", "donor_email", "donor_phone", "donor_address",
	"is_anonymous", "amount", "currency", "processing_fee", "net_amount",
	"donation_type", "payment_method", "designation", "transaction_id",
	"donation_date", "fiscal_year", "quarter", "month", "payment_status",
	"tax_deductible", "tax_receipt_number", "tax_receipt_sent",
	"certificate_sent", "thank_you_sent", "recurring_frequency",
	"recurring_next_date", "recurring_is_active", "created_at", "updated_at",
}

// DonationFilter narrows List results
type DonationFilter struct {
	PaymentStatus string
	DonationType  string
	FiscalYear    int
	DonorEmail    string
}

// DonationRepository handles donation database operations
type DonationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewDonationRepository creates a new DonationRepository
func NewDonationRepository(db *pgxpool.Pool) *DonationRepository {
	return &DonationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanDonation(row pgx.Row) (*models.Donation, error) {
	d := &models.Donation{}
	var recurringFrequency *string
	var recurringNextDate *time.Time
	var recurringIsActive *bool

	err := row.Scan(
		&d.ID, &d.DonorName, &d.DonorEmail, &d.DonorPhone, &d.DonorAddress,
		&d.IsAnonymous, &d.Amount, &d.Currency, &d.ProcessingFee, &d.NetAmount,
		&d.DonationType, &d.PaymentMethod, &d.Designation, &d.TransactionID,
		&d.DonationDate, &d.FiscalYear, &d.Quarter, &d.Month, &d.PaymentStatus,
		&d.TaxDeductible, &d.TaxReceiptNumber, &d.TaxReceiptSent,
		&d.CertificateSent, &d.ThankYouSent, &recurringFrequency,
		&recurringNextDate, &recurringIsActive, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if recurringFrequency != nil {
		d.Recurring = &models.RecurringDetails{
			Frequency: *recurringFrequency,
			NextDate:  recurringNextDate,
		}
		if recurringIsActive != nil {
			d.Recurring.IsActive = *recurringIsActive
		}
	}

	return d, nil
}

// Create inserts a new donation and returns its id
func (r *DonationRepository) Create(ctx context.Context, d *models.Donation) (int64, error) {
	var recurringFrequency *string
	var recurringNextDate interface{}
	var recurringIsActive *bool
	if d.Recurring != nil {
		recurringFrequency = &d.Recurring.Frequency
		recurringNextDate = d.Recurring.NextDate
		recurringIsActive = &d.Recurring.IsActive
	}

	sql, args, err := r.sb.Insert("donations").
		Columns("donor_name", "donor_email", "donor_phone", "donor_address",
			"is_anonymous", "amount", "currency", "processing_fee", "net_amount",
			"donation_type", "payment_method", "designation", "transaction_id",
			"donation_date", "fiscal_year", "quarter", "month", "payment_status",
			"tax_deductible", "tax_receipt_number", "tax_receipt_sent",
			"certificate_sent", "thank_you_sent", "recurring_frequency",
			"recurring_next_date", "recurring_is_active").
		Values(d.DonorName, d.DonorEmail, d.DonorPhone, d.DonorAddress,
			d.IsAnonymous, d.Amount, d.Currency, d.ProcessingFee, d.NetAmount,
			d.DonationType, d.PaymentMethod, d.Designation, d.TransactionID,
			d.DonationDate, d.FiscalYear, d.Quarter, d.Month, d.PaymentStatus,
			d.TaxDeductible, d.TaxReceiptNumber, d.TaxReceiptSent,
			d.CertificateSent, d.ThankYouSent, recurringFrequency,
			recurringNextDate, recurringIsActive).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create donation SQL")
		return 0, fmt.Errorf("failed to build create donation query: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		logger.Error().Err(err).Msg("Error executing create donation query")
		return 0, fmt.Errorf("error creating donation: %w", err)
	}

	return id, nil
}

// GetByID retrieves a donation by primary key
func (r *DonationRepository) GetByID(ctx context.Context, id int64) (*models.Donation, error) {
	sql, args, err := r.sb.Select(donationColumns...).
		From("donations").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get donation query: %w", err)
	}

	d, err := scanDonation(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDonationNotFound
		}
		logger.Error().Err(err).Int64("donationID", id).Msg("Error scanning donation row")
		return nil, fmt.Errorf("error getting donation: %w", err)
	}
	return d, nil
}

// UpdatePaymentStatus performs a compare-and-swap status transition: the row
// is updated only when its current status matches expected. Returns
// ErrDonationStatusConflict when the row exists in a different status.
func (r *DonationRepository) UpdatePaymentStatus(ctx context.Context, id int64, expected, next models.PaymentStatus) error {
	sql, args, err := r.sb.Update("donations").
		Set("payment_status", next).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id, "payment_status": expected}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update payment status query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("donationID", id).Msg("Error executing update payment status query")
		return fmt.Errorf("error updating payment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Distinguish missing row from a concurrent status change.
		exists, err := r.exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrDonationNotFound
		}
		return ErrDonationStatusConflict
	}

	return nil
}

func (r *DonationRepository) exists(ctx context.Context, id int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("donations").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build donation exists query: %w", err)
	}

	var one int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking donation existence: %w", err)
	}
	return true, nil
}

// SetMailFlags updates the notification bookkeeping flags
func (r *DonationRepository) SetMailFlags(ctx context.Context, id int64, taxReceiptSent, certificateSent, thankYouSent *bool) error {
	update := r.sb.Update("donations").
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": id})
	if taxReceiptSent != nil {
		update = update.Set("tax_receipt_sent", *taxReceiptSent)
	}
	if certificateSent != nil {
		update = update.Set("certificate_sent", *certificateSent)
	}
	if thankYouSent != nil {
		update = update.Set("thank_you_sent", *thankYouSent)
	}

	sql, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build set mail flags query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error setting donation mail flags: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrDonationNotFound
	}
	return nil
}

// List retrieves donations matching the filter, newest first
func (r *DonationRepository) List(ctx context.Context, filter DonationFilter, offset uint64, limit int) ([]*models.Donation, int64, error) {
	conds := squirrel.And{}
	if filter.PaymentStatus != "" {
		conds = append(conds, squirrel.Eq{"payment_status": filter.PaymentStatus})
	}
	if filter.DonationType != "" {
		conds = append(conds, squirrel.Eq{"donation_type": filter.DonationType})
	}
	if filter.FiscalYear != 0 {
		conds = append(conds, squirrel.Eq{"fiscal_year": filter.FiscalYear})
	}
	if filter.DonorEmail != "" {
		conds = append(conds, squirrel.Eq{"donor_email": filter.DonorEmail})
	}

	base := r.sb.Select(donationColumns...).From("donations")
	countQuery := r.sb.Select("COUNT(*)").From("donations")
	if len(conds) > 0 {
		base = base.Where(conds)
		countQuery = countQuery.Where(conds)
	}

	countSql, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count donations query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting donations: %w", err)
	}

	sql, args, err := base.
		OrderBy("donation_date DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list donations query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying donations: %w", err)
	}
	defer rows.Close()

	donations := []*models.Donation{}
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning donation row: %w", err)
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating donation rows: %w", err)
	}

	return donations, total, nil
}

// Stats aggregates donation totals. Amount totals cover completed donations
// only; the per-status counts cover every row.
func (r *DonationRepository) Stats(ctx context.Context, fiscalYear int) (*models.DonationStats, error) {
	stats := &models.DonationStats{
		ByStatus: map[string]int64{},
		ByType:   map[string]float64{},
	}

	statusQuery := r.sb.Select("payment_status", "COUNT(*)").
		From("donations").
		GroupBy("payment_status")
	totalsQuery := r.sb.Select("COALESCE(SUM(amount), 0)", "COALESCE(SUM(net_amount), 0)").
		From("donations").
		Where(squirrel.Eq{"payment_status": models.PaymentCompleted})
	typeQuery := r.sb.Select("donation_type", "COALESCE(SUM(amount), 0)").
		From("donations").
		Where(squirrel.Eq{"payment_status": models.PaymentCompleted}).
		GroupBy("donation_type")
	if fiscalYear != 0 {
		statusQuery = statusQuery.Where(squirrel.Eq{"fiscal_year": fiscalYear})
		totalsQuery = totalsQuery.Where(squirrel.Eq{"fiscal_year": fiscalYear})
		typeQuery = typeQuery.Where(squirrel.Eq{"fiscal_year": fiscalYear})
	}

	sql, args, err := statusQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build status stats query: %w", err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying status stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("error scanning status stats row: %w", err)
		}
		stats.ByStatus[status] = count
		stats.TotalDonations += count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status stats rows: %w", err)
	}

	sql, args, err = totalsQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build totals stats query: %w", err)
	}
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&stats.TotalAmount, &stats.TotalNetAmount); err != nil {
		return nil, fmt.Errorf("error querying totals stats: %w", err)
	}

	sql, args, err = typeQuery.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build type stats query: %w", err)
	}
	typeRows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying type stats: %w", err)
	}
	defer typeRows.Close()
	for typeRows.Next() {
		var donationType string
		var amount float64
		if err := typeRows.Scan(&donationType, &amount); err != nil {
			return nil, fmt.Errorf("error scanning type stats row: %w", err)
		}
		stats.ByType[donationType] = amount
	}
	if err := typeRows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating type stats rows: %w", err)
	}

	return stats, nil
}
