package certificate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevasetu/sevasetu/internal/app/models"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "Rupees Zero Only"},
		{1, "Rupees One Only"},
		{21, "Rupees Twenty One Only"},
		{100, "Rupees One Hundred Only"},
		{999, "Rupees Nine Hundred Ninety Nine Only"},
		{1000, "Rupees One Thousand Only"},
		{2500, "Rupees Two Thousand Five Hundred Only"},
		{100000, "Rupees One Lakh Only"},
		{250000, "Rupees Two Lakh Fifty Thousand Only"},
		{10000000, "Rupees One Crore Only"},
		{12345678, "Rupees One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Only"},
		{1000000000, "Rupees One Hundred Crore Only"},
		{100.50, "Rupees One Hundred and Fifty Paise Only"},
		{0.25, "Rupees Zero and Twenty Five Paise Only"},
	}

	for _, tt := range tests {
		assert.Equalf(t, tt.want, AmountInWords(tt.amount), "amount %v", tt.amount)
	}
}

func TestMembershipCertificate(t *testing.T) {
	g := NewPDFGenerator("SevaSetu Foundation")
	end := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	member := &models.Member{
		Name:              "Asha Verma",
		MembershipType:    models.MembershipBasic,
		MembershipID:      "SEVA-2025-4F7A2C",
		JoinDate:          time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC),
		MembershipEndDate: &end,
	}

	pdfBytes, err := g.MembershipCertificate(member)
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestDonationCertificate(t *testing.T) {
	g := NewPDFGenerator("SevaSetu Foundation")
	donation := &models.Donation{
		DonorName:        "Ravi Iyer",
		Amount:           2500,
		Currency:         "INR",
		TransactionID:    "TXN-1700000000000-00042",
		DonationDate:     time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
		TaxDeductible:    true,
		TaxReceiptNumber: "TR-2025-1700000000000-00042",
		Designation:      "School meals programme",
	}

	pdfBytes, err := g.DonationCertificate(donation)
	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestDonationCertificateAnonymous(t *testing.T) {
	g := NewPDFGenerator("SevaSetu Foundation")
	donation := &models.Donation{
		DonorName:     "Ravi Iyer",
		IsAnonymous:   true,
		Amount:        100,
		Currency:      "INR",
		TransactionID: "TXN-1",
		DonationDate:  time.Now(),
		TaxDeductible: true,
	}
	pdfBytes, err := g.DonationCertificate(donation)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
}

func TestDonationCertificateRejectsNonDeductible(t *testing.T) {
	g := NewPDFGenerator("SevaSetu Foundation")
	_, err := g.DonationCertificate(&models.Donation{Amount: 100, TaxDeductible: false})
	assert.Error(t, err)
}
