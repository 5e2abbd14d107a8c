package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
	"github.com/sevasetu/sevasetu/internal/pkg/cache"
	"github.com/sevasetu/sevasetu/internal/pkg/certificate"
	"github.com/sevasetu/sevasetu/internal/pkg/lifecycle"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

// DonationStore is the persistence surface the donation service needs
type DonationStore interface {
	Create(ctx context.Context, d *models.Donation) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Donation, error)
	UpdatePaymentStatus(ctx context.Context, id int64, expected, next models.PaymentStatus) error
	SetMailFlags(ctx context.Context, id int64, taxReceiptSent, certificateSent, thankYouSent *bool) error
	List(ctx context.Context, filter repositories.DonationFilter, offset uint64, limit int) ([]*models.Donation, int64, error)
	Stats(ctx context.Context, fiscalYear int) (*models.DonationStats, error)
}

// ReceiptPayload drives the donation receipt email
type ReceiptPayload struct {
	DonationID int64 `json:"donationId"`
}

// CertificatePayload drives the donation certificate email
type CertificatePayload struct {
	DonationID int64 `json:"donationId"`
}

// DonationService implements donation intake, settlement and reporting
type DonationService struct {
	donations DonationStore
	outbox    TaskEnqueuer
	generator certificate.Generator
	stats     *cache.Cache
	statsTTL  time.Duration
	now       func() time.Time
}

// NewDonationService creates a new DonationService. statsCache may be nil
// when Redis is disabled; stats are then always computed from the database.
func NewDonationService(donations DonationStore, outbox TaskEnqueuer, generator certificate.Generator, statsCache *cache.Cache, statsTTL time.Duration) *DonationService {
	return &DonationService{
		donations: donations,
		outbox:    outbox,
		generator: generator,
		stats:     statsCache,
		statsTTL:  statsTTL,
		now:       time.Now,
	}
}

// Create records a donation, deriving the fiscal fields and identifiers.
// Completed tax-deductible donations immediately queue a receipt email.
func (s *DonationService) Create(ctx context.Context, req *dto.CreateDonationRequest) (*models.Donation, error) {
	donation := &models.Donation{
		DonorName:     req.DonorName,
		DonorEmail:    strings.ToLower(req.DonorEmail),
		DonorPhone:    req.DonorPhone,
		DonorAddress:  req.DonorAddress,
		IsAnonymous:   req.IsAnonymous,
		Amount:        req.Amount,
		Currency:      strings.ToUpper(req.Currency),
		ProcessingFee: req.ProcessingFee,
		DonationType:  models.DonationType(req.DonationType),
		PaymentMethod: req.PaymentMethod,
		Designation:   req.Designation,
		TransactionID: req.TransactionID,
		PaymentStatus: models.PaymentStatus(req.PaymentStatus),
		TaxDeductible: req.TaxDeductible,
	}
	if donation.Currency == "" {
		donation.Currency = "INR"
	}
	if donation.DonationType == "" {
		donation.DonationType = models.DonationGeneral
	}
	if donation.PaymentStatus == "" {
		donation.PaymentStatus = models.PaymentPending
	}
	if req.DonationDate != nil {
		donation.DonationDate = *req.DonationDate
	} else {
		donation.DonationDate = s.now()
	}
	if donation.ProcessingFee > donation.Amount {
		return nil, apperrors.NewBadRequestError("processing fee cannot exceed the donation amount")
	}
	if req.Recurring != nil {
		next := nextRecurringDate(donation.DonationDate, req.Recurring.Frequency)
		donation.Recurring = &models.RecurringDetails{
			Frequency: req.Recurring.Frequency,
			NextDate:  &next,
			IsActive:  true,
		}
	}

	lifecycle.ApplyDonationDerivedFields(donation)

	id, err := s.donations.Create(ctx, donation)
	if err != nil {
		return nil, err
	}
	donation.ID = id

	if donation.PaymentStatus == models.PaymentCompleted {
		s.enqueueCompletionMail(ctx, donation)
	}
	s.invalidateStats(ctx)

	return donation, nil
}

// Get retrieves a donation
func (s *DonationService) Get(ctx context.Context, id int64) (*models.Donation, error) {
	donation, err := s.donations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrDonationNotFound) {
			return nil, apperrors.ErrDonationNotFound
		}
		return nil, err
	}
	return donation, nil
}

// UpdateStatus performs the guarded payment status transition. The update
// only applies when the row still holds the caller's expected status; a
// mismatch surfaces as a conflict rather than silently overwriting.
func (s *DonationService) UpdateStatus(ctx context.Context, id int64, req *dto.UpdateDonationStatusRequest) (*models.Donation, error) {
	expected := models.PaymentStatus(req.ExpectedStatus)
	next := models.PaymentStatus(req.PaymentStatus)
	if expected == next {
		return nil, apperrors.NewBadRequestError("payment status is already " + req.PaymentStatus)
	}
	if !isAllowedTransition(expected, next) {
		return nil, apperrors.ErrInvalidStatusChange
	}

	err := s.donations.UpdatePaymentStatus(ctx, id, expected, next)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrDonationNotFound):
			return nil, apperrors.ErrDonationNotFound
		case errors.Is(err, repositories.ErrDonationStatusConflict):
			return nil, apperrors.ErrStatusChangeConflict
		}
		return nil, err
	}

	s.invalidateStats(ctx)

	donation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if next == models.PaymentCompleted {
		s.enqueueCompletionMail(ctx, donation)
	}
	return donation, nil
}

// Certificate renders the donation certificate PDF. Email delivery of the
// certificate is handled when the payment completes.
func (s *DonationService) Certificate(ctx context.Context, id int64) ([]byte, error) {
	donation, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !donation.TaxDeductible {
		return nil, apperrors.ErrNotTaxDeductible
	}
	if donation.PaymentStatus != models.PaymentCompleted {
		return nil, apperrors.NewBadRequestError("certificate is only available for completed donations")
	}

	return s.generator.DonationCertificate(donation)
}

// List retrieves donations matching the filters
func (s *DonationService) List(ctx context.Context, filter repositories.DonationFilter, offset uint64, limit int) ([]*models.Donation, int64, error) {
	if filter.PaymentStatus != "" && !models.IsValidPaymentStatus(filter.PaymentStatus) {
		return nil, 0, apperrors.NewBadRequestError(fmt.Sprintf("unknown payment status %q", filter.PaymentStatus))
	}
	return s.donations.List(ctx, filter, offset, limit)
}

// Stats returns aggregate donation totals, served from the Redis cache when
// one is configured
func (s *DonationService) Stats(ctx context.Context, fiscalYear int) (*models.DonationStats, error) {
	key := statsCacheKey(fiscalYear)
	if s.stats != nil {
		var cached models.DonationStats
		err := s.stats.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			logger.Warn().Err(err).Msg("Donation stats cache read failed")
		}
	}

	stats, err := s.donations.Stats(ctx, fiscalYear)
	if err != nil {
		return nil, err
	}

	if s.stats != nil {
		if err := s.stats.SetJSON(ctx, key, stats, s.statsTTL); err != nil {
			logger.Warn().Err(err).Msg("Donation stats cache write failed")
		}
	}

	return stats, nil
}

// enqueueCompletionMail queues the thank-you receipt for a completed payment
// and, for tax deductible donations, the certificate email.
func (s *DonationService) enqueueCompletionMail(ctx context.Context, donation *models.Donation) {
	if _, err := s.outbox.Enqueue(ctx, models.TaskDonationReceipt, ReceiptPayload{DonationID: donation.ID}); err != nil {
		logger.Error().Err(err).Int64("donationID", donation.ID).Msg("Could not enqueue receipt email")
	}
	if !donation.TaxDeductible || donation.CertificateSent {
		return
	}
	if _, err := s.outbox.Enqueue(ctx, models.TaskDonationCertificate, CertificatePayload{DonationID: donation.ID}); err != nil {
		logger.Error().Err(err).Int64("donationID", donation.ID).Msg("Could not enqueue certificate email")
	}
}

func (s *DonationService) invalidateStats(ctx context.Context) {
	if s.stats == nil {
		return
	}
	// Only the all-years key is proactively dropped; per-year keys age out
	// with their TTL.
	if err := s.stats.Delete(ctx, statsCacheKey(0)); err != nil {
		logger.Warn().Err(err).Msg("Donation stats cache invalidation failed")
	}
}

func statsCacheKey(fiscalYear int) string {
	if fiscalYear == 0 {
		return "donations:stats:all"
	}
	return fmt.Sprintf("donations:stats:%d", fiscalYear)
}

// isAllowedTransition encodes the settlement state machine. Terminal refunds
// and cancellations never move again; a completed donation can only move to
// refunded.
func isAllowedTransition(from, to models.PaymentStatus) bool {
	switch from {
	case models.PaymentPending:
		return to == models.PaymentCompleted || to == models.PaymentFailed || to == models.PaymentCancelled
	case models.PaymentCompleted:
		return to == models.PaymentRefunded
	case models.PaymentFailed:
		return to == models.PaymentPending
	}
	return false
}

func nextRecurringDate(from time.Time, frequency string) time.Time {
	switch frequency {
	case "quarterly":
		return lifecycle.AddMonthsClamped(from, 3)
	case "yearly":
		return lifecycle.AddMonthsClamped(from, 12)
	default:
		return lifecycle.AddMonthsClamped(from, 1)
	}
}
