package email

import (
	"fmt"

	"github.com/sevasetu/sevasetu/internal/app/models"
)

// Templated messages composed by the notification side of the platform.
// Each builds a fixed HTML body from record fields; delivery is the
// Dispatcher's job.

// CredentialsMessage is sent when a membership application is received,
// carrying the generated login id and one-time password.
func CredentialsMessage(member *models.Member, orgName, password string) *Message {
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #225738;">Welcome to %s!</h2>
				<p>Dear %s,</p>
				<p>Thank you for applying for a <strong>%s</strong> membership. Your application is under review; you will be notified once it is approved.</p>
				<p>You can track your application status with these credentials:</p>
				<p style="background-color: #f4f4f4; padding: 12px; border-radius: 4px;">
					Login ID: <strong>%s</strong><br>
					Password: <strong>%s</strong>
				</p>
				<p>Please change your password after your first login.</p>
				<p>Warm regards,<br>The %s Team</p>
			</div>
		</body>
		</html>
	`, orgName, member.Name, member.MembershipType, member.LoginID, password, orgName)

	return &Message{
		To:       member.Email,
		ToName:   member.Name,
		Subject:  fmt.Sprintf("Your %s membership application", orgName),
		HTMLBody: body,
	}
}

// ApprovalMessage is sent when a membership is approved. The membership
// certificate is attached when available.
func ApprovalMessage(member *models.Member, orgName string, certificate []byte) *Message {
	validity := ""
	if member.MembershipEndDate != nil {
		validity = fmt.Sprintf("<p>Your membership is valid until <strong>%s</strong>.</p>",
			member.MembershipEndDate.Format("02 January 2006"))
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #225738;">Membership Approved</h2>
				<p>Dear %s,</p>
				<p>We are delighted to let you know that your <strong>%s</strong> membership with %s has been approved. Your membership ID is <strong>%s</strong>.</p>
				%s
				<p>Your membership certificate is attached to this email.</p>
				<p>Warm regards,<br>The %s Team</p>
			</div>
		</body>
		</html>
	`, member.Name, member.MembershipType, orgName, member.MembershipID, validity, orgName)

	msg := &Message{
		To:       member.Email,
		ToName:   member.Name,
		Subject:  fmt.Sprintf("Your %s membership is approved", orgName),
		HTMLBody: body,
	}
	if len(certificate) > 0 {
		msg.Attachments = append(msg.Attachments, Attachment{
			Filename:    fmt.Sprintf("membership-certificate-%s.pdf", member.MembershipID),
			ContentType: "application/pdf",
			Data:        certificate,
		})
	}
	return msg
}

// DonationReceiptMessage thanks a donor and carries the tax receipt number
// when the donation is tax deductible.
func DonationReceiptMessage(donation *models.Donation, orgName string) *Message {
	receipt := ""
	if donation.TaxDeductible && donation.TaxReceiptNumber != "" {
		receipt = fmt.Sprintf(`<p>Your tax receipt number is <strong>%s</strong>. Donations to %s are eligible for deduction under Section 80G.</p>`,
			donation.TaxReceiptNumber, orgName)
	}

	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #225738;">Thank you for your donation</h2>
				<p>Dear %s,</p>
				<p>We gratefully acknowledge your donation of <strong>%s %.2f</strong> (transaction %s).</p>
				%s
				<p>Your support makes our work possible.</p>
				<p>Warm regards,<br>The %s Team</p>
			</div>
		</body>
		</html>
	`, donation.DonorName, donation.Currency, donation.Amount, donation.TransactionID, receipt, orgName)

	return &Message{
		To:       donation.DonorEmail,
		ToName:   donation.DonorName,
		Subject:  fmt.Sprintf("Thank you for supporting %s", orgName),
		HTMLBody: body,
	}
}

// DonationCertificateMessage carries the donation certificate PDF
func DonationCertificateMessage(donation *models.Donation, orgName string, certificate []byte) *Message {
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #225738;">Your donation certificate</h2>
				<p>Dear %s,</p>
				<p>Please find attached the certificate for your donation of <strong>%s %.2f</strong>.</p>
				<p>Warm regards,<br>The %s Team</p>
			</div>
		</body>
		</html>
	`, donation.DonorName, donation.Currency, donation.Amount, orgName)

	return &Message{
		To:       donation.DonorEmail,
		ToName:   donation.DonorName,
		Subject:  fmt.Sprintf("Donation certificate from %s", orgName),
		HTMLBody: body,
		Attachments: []Attachment{{
			Filename:    fmt.Sprintf("donation-certificate-%s.pdf", donation.TransactionID),
			ContentType: "application/pdf",
			Data:        certificate,
		}},
	}
}

// ContactAckMessage acknowledges a contact-form submission with the
// estimated response time derived from the message priority.
func ContactAckMessage(contact *models.ContactMessage, orgName string) *Message {
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #225738;">We received your message</h2>
				<p>Dear %s,</p>
				<p>Thank you for contacting %s about "<strong>%s</strong>". Our team typically responds within <strong>%d hours</strong> for messages like yours.</p>
				<p>Warm regards,<br>The %s Team</p>
			</div>
		</body>
		</html>
	`, contact.Name, orgName, contact.Subject, contact.EstimatedResponseTime, orgName)

	return &Message{
		To:       contact.Email,
		ToName:   contact.Name,
		Subject:  fmt.Sprintf("We received your message - %s", orgName),
		HTMLBody: body,
	}
}
