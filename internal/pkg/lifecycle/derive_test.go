package lifecycle

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevasetu/sevasetu/internal/app/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		start  time.Time
		months int
		want   time.Time
	}{
		{"plain add", date(2024, time.March, 15), 6, date(2024, time.September, 15)},
		{"year rollover", date(2024, time.November, 1), 3, date(2025, time.February, 1)},
		{"clamp to leap february", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"clamp to non-leap february", date(2023, time.January, 31), 1, date(2023, time.February, 28)},
		{"clamp to thirty days", date(2024, time.August, 31), 1, date(2024, time.September, 30)},
		{"twelve months", date(2024, time.February, 29), 12, date(2025, time.February, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonthsClamped(tt.start, tt.months))
		})
	}
}

func TestApplyMemberDerivedFields(t *testing.T) {
	start := date(2024, time.January, 31)
	m := &models.Member{
		MembershipStartDate: &start,
		MembershipDuration:  1,
	}
	ApplyMemberDerivedFields(m)
	require.NotNil(t, m.MembershipEndDate)
	assert.Equal(t, date(2024, time.February, 29), *m.MembershipEndDate)

	// no start date: nothing derived
	m2 := &models.Member{MembershipDuration: 12}
	ApplyMemberDerivedFields(m2)
	assert.Nil(t, m2.MembershipEndDate)
}

func TestApproveIsNotAdditive(t *testing.T) {
	now := date(2025, time.March, 10)
	m := &models.Member{
		MembershipType: models.MembershipBasic,
		ApprovalStatus: models.ApprovalPending,
	}

	Approve(m, now)
	require.NotNil(t, m.MembershipEndDate)
	first := *m.MembershipEndDate
	assert.Equal(t, date(2026, time.March, 10), first)
	assert.Equal(t, models.ApprovalApproved, m.ApprovalStatus)
	assert.True(t, m.HasVerificationBadge)

	// approving again at the same instant yields the same end date
	Approve(m, now)
	assert.Equal(t, first, *m.MembershipEndDate)
}

func TestExtendIsAdditive(t *testing.T) {
	now := date(2025, time.March, 10)
	m := &models.Member{
		MembershipType: models.MembershipBasic,
		ApprovalStatus: models.ApprovalExpired,
	}
	end := date(2025, time.January, 1)
	m.MembershipEndDate = &end

	Extend(m, 6, now)
	assert.Equal(t, date(2025, time.July, 1), *m.MembershipEndDate)
	Extend(m, 6, now)
	assert.Equal(t, date(2026, time.January, 1), *m.MembershipEndDate)

	assert.Equal(t, models.ApprovalApproved, m.ApprovalStatus)
	assert.True(t, m.HasVerificationBadge)
	assert.True(t, m.IsActive)
}

func TestExtendWithoutEndDateStartsFromNow(t *testing.T) {
	now := date(2025, time.June, 1)
	m := &models.Member{ApprovalStatus: models.ApprovalPending}
	Extend(m, 3, now)
	require.NotNil(t, m.MembershipEndDate)
	assert.Equal(t, date(2025, time.September, 1), *m.MembershipEndDate)
}

func TestCheckExpiry(t *testing.T) {
	end := date(2025, time.January, 1)
	m := &models.Member{
		ApprovalStatus:       models.ApprovalApproved,
		HasVerificationBadge: true,
		MembershipEndDate:    &end,
	}

	// before the end date nothing changes
	assert.False(t, CheckExpiry(m, date(2024, time.December, 31)))
	assert.Equal(t, models.ApprovalApproved, m.ApprovalStatus)

	// after the end date the member flips to expired and loses the badge
	assert.True(t, CheckExpiry(m, date(2025, time.January, 2)))
	assert.Equal(t, models.ApprovalExpired, m.ApprovalStatus)
	assert.False(t, m.HasVerificationBadge)

	// already expired: no further change
	assert.False(t, CheckExpiry(m, date(2025, time.February, 1)))
}

func TestApplyDonationDerivedFields(t *testing.T) {
	d := &models.Donation{
		Amount:        100,
		ProcessingFee: 0,
		DonationDate:  date(2024, time.November, 15),
	}
	ApplyDonationDerivedFields(d)

	assert.Equal(t, 100.0, d.NetAmount)
	assert.Equal(t, 2024, d.FiscalYear)
	assert.Equal(t, 4, d.Quarter)
	assert.Equal(t, 11, d.Month)
	assert.NotEmpty(t, d.TransactionID)
}

func TestApplyDonationDerivedFieldsNetAmount(t *testing.T) {
	tests := []struct {
		amount, fee, want float64
	}{
		{100, 0, 100},
		{2500, 37.5, 2462.5},
		{1, 1, 0},
	}
	for _, tt := range tests {
		d := &models.Donation{Amount: tt.amount, ProcessingFee: tt.fee, DonationDate: date(2025, time.April, 1)}
		ApplyDonationDerivedFields(d)
		assert.Equal(t, tt.want, d.NetAmount)
	}
}

func TestApplyDonationDerivedFieldsQuarters(t *testing.T) {
	for month, wantQuarter := range map[time.Month]int{
		time.January: 1, time.March: 1, time.April: 2,
		time.June: 2, time.July: 3, time.October: 4, time.December: 4,
	} {
		d := &models.Donation{Amount: 10, DonationDate: date(2025, month, 5)}
		ApplyDonationDerivedFields(d)
		assert.Equalf(t, wantQuarter, d.Quarter, "month %s", month)
	}
}

func TestTaxReceiptNumber(t *testing.T) {
	d := &models.Donation{
		Amount:        500,
		TaxDeductible: true,
		DonationDate:  date(2025, time.February, 10),
	}
	ApplyDonationDerivedFields(d)
	require.NotEmpty(t, d.TaxReceiptNumber)
	assert.True(t, strings.HasPrefix(d.TaxReceiptNumber, "TR-2025-"))

	// an existing receipt number is never regenerated
	existing := d.TaxReceiptNumber
	ApplyDonationDerivedFields(d)
	assert.Equal(t, existing, d.TaxReceiptNumber)

	// non-deductible donations never get one
	d2 := &models.Donation{Amount: 500, DonationDate: date(2025, time.February, 10)}
	ApplyDonationDerivedFields(d2)
	assert.Empty(t, d2.TaxReceiptNumber)
}
