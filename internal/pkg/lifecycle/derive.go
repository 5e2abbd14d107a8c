// Package lifecycle holds the derived-field and classification rules for
// members, donations and messages. Every function here is pure: services
// call them immediately before persisting a record, which keeps the rules
// testable without a database.
package lifecycle

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sevasetu/sevasetu/internal/app/models"
)

// AddMonthsClamped adds n calendar months to t, clamping to the last day of
// the target month. 2024-01-31 plus one month is 2024-02-29, not March 2.
// This is the single month-arithmetic rule used for approvals and extensions.
func AddMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := first.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// ApplyMemberDerivedFields recomputes the membership end date. When the
// start date and a positive duration are set, the end date is always
// start plus duration months.
func ApplyMemberDerivedFields(m *models.Member) {
	if m.MembershipStartDate != nil && m.MembershipDuration > 0 {
		end := AddMonthsClamped(*m.MembershipStartDate, m.MembershipDuration)
		m.MembershipEndDate = &end
	}
}

// Approve transitions a member to approved at the given instant. Calling it
// again with the same clock value yields the same end date; approval is not
// additive.
func Approve(m *models.Member, now time.Time) {
	m.ApprovalStatus = models.ApprovalApproved
	m.HasVerificationBadge = true
	m.IsActive = true
	start := now
	m.MembershipStartDate = &start
	if m.MembershipDuration <= 0 {
		m.MembershipDuration = models.MembershipDurationMonths[m.MembershipType]
	}
	ApplyMemberDerivedFields(m)
}

// Extend pushes the membership end date out by additionalMonths, measured
// from the current end date, or from now when no end date exists yet.
// Extension always reinstates the member: approved, badged, active.
func Extend(m *models.Member, additionalMonths int, now time.Time) {
	base := now
	if m.MembershipEndDate != nil {
		base = *m.MembershipEndDate
	}
	end := AddMonthsClamped(base, additionalMonths)
	m.MembershipEndDate = &end
	m.ApprovalStatus = models.ApprovalApproved
	m.HasVerificationBadge = true
	m.IsActive = true
}

// IsExpired reports whether an approved membership has passed its end date
func IsExpired(m *models.Member, now time.Time) bool {
	return m.ApprovalStatus == models.ApprovalApproved &&
		m.MembershipEndDate != nil &&
		now.After(*m.MembershipEndDate)
}

// CheckExpiry lazily flips an approved member past its end date to expired
// and removes the verification badge. Returns true when the member changed
// and needs to be persisted. Expiry is only ever detected this way; there is
// no background sweep.
func CheckExpiry(m *models.Member, now time.Time) bool {
	if !IsExpired(m, now) {
		return false
	}
	m.ApprovalStatus = models.ApprovalExpired
	m.HasVerificationBadge = false
	return true
}

// ApplyDonationDerivedFields recomputes every derived donation field:
// net amount, fiscal calendar decomposition of the donation date, and the
// auto-generated identifiers. Deterministic except for the random suffixes.
func ApplyDonationDerivedFields(d *models.Donation) {
	d.NetAmount = d.Amount - d.ProcessingFee

	if d.DonationDate.IsZero() {
		d.DonationDate = time.Now()
	}
	d.FiscalYear = d.DonationDate.Year()
	d.Month = int(d.DonationDate.Month())
	d.Quarter = (d.Month-1)/3 + 1

	if d.TransactionID == "" {
		d.TransactionID = fmt.Sprintf("TXN-%d-%05d", d.DonationDate.UnixMilli(), rand.Intn(100000))
	}
	if d.TaxDeductible && d.TaxReceiptNumber == "" {
		d.TaxReceiptNumber = fmt.Sprintf("TR-%d-%d-%05d", d.DonationDate.Year(), time.Now().UnixMilli(), rand.Intn(100000))
	}
}
