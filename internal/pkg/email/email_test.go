package email

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevasetu/sevasetu/internal/app/models"
)

func testDispatcher() *SMTPDispatcher {
	return NewSMTPDispatcher(SMTPConfig{
		Host:      "smtp.example.org",
		Port:      587,
		FromName:  "SevaSetu Foundation",
		FromEmail: "no-reply@sevasetu.org",
	}, zerolog.Nop())
}

func TestBuildMessagePlain(t *testing.T) {
	d := testDispatcher()
	raw := string(d.buildMessage(&Message{
		To:       "asha@example.org",
		Subject:  "Hello",
		HTMLBody: "<p>Hi</p>",
	}))

	assert.Contains(t, raw, "From: SevaSetu Foundation <no-reply@sevasetu.org>")
	assert.Contains(t, raw, "To: asha@example.org")
	assert.Contains(t, raw, "Subject: Hello")
	assert.Contains(t, raw, "Content-Type: text/html; charset=UTF-8")
	assert.Contains(t, raw, "<p>Hi</p>")
	assert.NotContains(t, raw, "multipart/mixed")
}

func TestBuildMessageWithAttachment(t *testing.T) {
	d := testDispatcher()
	raw := string(d.buildMessage(&Message{
		To:       "ravi@example.org",
		Subject:  "Certificate",
		HTMLBody: "<p>Attached</p>",
		Attachments: []Attachment{{
			Filename:    "certificate.pdf",
			ContentType: "application/pdf",
			Data:        []byte("%PDF-1.4 fake"),
		}},
	}))

	assert.Contains(t, raw, "multipart/mixed")
	assert.Contains(t, raw, `Content-Disposition: attachment; filename="certificate.pdf"`)
	assert.Contains(t, raw, "Content-Transfer-Encoding: base64")
	// body part and closing boundary both present
	assert.Contains(t, raw, "<p>Attached</p>")
	assert.True(t, strings.Contains(raw, "--sevasetu-mixed-boundary--"))
}

func TestSendWithoutCredentialsIsNoOp(t *testing.T) {
	d := testDispatcher()
	err := d.Send(&Message{To: "asha@example.org", Subject: "x", HTMLBody: "y"})
	assert.NoError(t, err)
}

func TestCredentialsMessage(t *testing.T) {
	member := &models.Member{
		Name:           "Asha Verma",
		Email:          "asha@example.org",
		LoginID:        "asha4821",
		MembershipType: models.MembershipBasic,
	}
	msg := CredentialsMessage(member, "SevaSetu Foundation", "s3cret")

	assert.Equal(t, "asha@example.org", msg.To)
	assert.Contains(t, msg.HTMLBody, "asha4821")
	assert.Contains(t, msg.HTMLBody, "s3cret")
	assert.Empty(t, msg.Attachments)
}

func TestApprovalMessageAttachesCertificate(t *testing.T) {
	end := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	member := &models.Member{
		Name:              "Asha Verma",
		Email:             "asha@example.org",
		MembershipID:      "SEVA-2025-4F7A2C",
		MembershipType:    models.MembershipBasic,
		MembershipEndDate: &end,
	}
	msg := ApprovalMessage(member, "SevaSetu Foundation", []byte("%PDF"))

	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "application/pdf", msg.Attachments[0].ContentType)
	assert.Contains(t, msg.HTMLBody, "SEVA-2025-4F7A2C")
	assert.Contains(t, msg.HTMLBody, "01 March 2026")
}

func TestDonationReceiptMessageIncludesTaxReceipt(t *testing.T) {
	donation := &models.Donation{
		DonorName:        "Ravi Iyer",
		DonorEmail:       "ravi@example.org",
		Amount:           2500,
		Currency:         "INR",
		TransactionID:    "TXN-1",
		TaxDeductible:    true,
		TaxReceiptNumber: "TR-2025-1-00001",
	}
	msg := DonationReceiptMessage(donation, "SevaSetu Foundation")
	assert.Contains(t, msg.HTMLBody, "TR-2025-1-00001")
	assert.Contains(t, msg.HTMLBody, "2500.00")
}

func TestContactAckMessage(t *testing.T) {
	contact := &models.ContactMessage{
		Name:                  "Meera",
		Email:                 "meera@example.org",
		Subject:               "Volunteering",
		EstimatedResponseTime: 24,
	}
	msg := ContactAckMessage(contact, "SevaSetu Foundation")
	assert.Contains(t, msg.HTMLBody, "24 hours")
	assert.Contains(t, msg.HTMLBody, "Volunteering")
}
