// Package certificate renders membership and donation certificates as PDF
// byte buffers. Rendering is stateless; documents are generated on demand
// and either streamed to the client or attached to an email, never stored.
package certificate

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
)

// Generator defines the interface for certificate rendering, injected into
// services so tests can substitute a fake.
type Generator interface {
	MembershipCertificate(member *models.Member) ([]byte, error)
	DonationCertificate(donation *models.Donation) ([]byte, error)
}

// PDFGenerator implements Generator with gofpdf
type PDFGenerator struct {
	orgName string
}

// NewPDFGenerator creates a PDF certificate generator for the given
// organization name
func NewPDFGenerator(orgName string) *PDFGenerator {
	return &PDFGenerator{orgName: orgName}
}

// MembershipCertificate renders a landscape certificate embedding the
// member's name, membership type, id and join date.
func (g *PDFGenerator) MembershipCertificate(member *models.Member) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// border
	pdf.SetLineWidth(1.2)
	pdf.SetDrawColor(184, 134, 11)
	pdf.Rect(10, 10, 277, 190, "D")
	pdf.SetLineWidth(0.3)
	pdf.Rect(13, 13, 271, 184, "D")

	pdf.SetFont("Helvetica", "B", 30)
	pdf.SetTextColor(34, 87, 56)
	pdf.SetY(30)
	pdf.CellFormat(0, 14, g.orgName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 10, "Certificate of Membership", "", 1, "C", false, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, "This is to certify that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 16, member.Name, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 13)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, fmt.Sprintf("is a registered %s member of %s", member.MembershipType, g.orgName), "", 1, "C", false, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Membership ID: %s", member.MembershipID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, fmt.Sprintf("Member since: %s", member.JoinDate.Format("02 January 2006")), "", 1, "C", false, 0, "")
	if member.MembershipEndDate != nil {
		pdf.CellFormat(0, 7, fmt.Sprintf("Valid until: %s", member.MembershipEndDate.Format("02 January 2006")), "", 1, "C", false, 0, "")
	}

	pdf.SetY(-40)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated on %s", time.Now().Format("02 January 2006")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render membership certificate: %w", err)
	}
	return buf.Bytes(), nil
}

// DonationCertificate renders a portrait donation certificate. Only
// tax-deductible donations are eligible; callers should reject others
// before invoking this, and it errors if they do not.
func (g *PDFGenerator) DonationCertificate(donation *models.Donation) ([]byte, error) {
	if !donation.TaxDeductible {
		return nil, apperrors.NewBadRequestError("donation is not tax deductible, certificate not available")
	}

	donorName := donation.DonorName
	if donation.IsAnonymous {
		donorName = "An Anonymous Donor"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetLineWidth(1.0)
	pdf.SetDrawColor(184, 134, 11)
	pdf.Rect(10, 10, 190, 277, "D")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(34, 87, 56)
	pdf.SetY(30)
	pdf.CellFormat(0, 12, g.orgName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(80, 80, 80)
	pdf.CellFormat(0, 9, "Donation Certificate", "", 1, "C", false, 0, "")

	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 8, "With gratitude, this acknowledges the generous contribution of", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 13, donorName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s %.2f", donation.Currency, donation.Amount), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(90, 90, 90)
	pdf.MultiCell(0, 6, "("+AmountInWords(donation.Amount)+")", "", "C", false)

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, fmt.Sprintf("Transaction ID: %s", donation.TransactionID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Date of donation: %s", donation.DonationDate.Format("02 January 2006")), "", 1, "C", false, 0, "")
	if donation.TaxReceiptNumber != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Tax receipt no: %s", donation.TaxReceiptNumber), "", 1, "C", false, 0, "")
	}
	if donation.Designation != "" {
		pdf.Ln(4)
		pdf.MultiCell(0, 6, fmt.Sprintf("Designated towards: %s", donation.Designation), "", "C", false)
	}

	pdf.SetY(-45)
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 5, "Donations to "+g.orgName+" are eligible for deduction under Section 80G of the Income Tax Act.", "", "C", false)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated on %s", time.Now().Format("02 January 2006")), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render donation certificate: %w", err)
	}
	return buf.Bytes(), nil
}
