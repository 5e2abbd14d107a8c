package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/pkg/certificate"
	"github.com/sevasetu/sevasetu/internal/pkg/email"
	"github.com/sevasetu/sevasetu/internal/pkg/outbox"
)

// NotificationMemberStore is what notification handlers need from members
type NotificationMemberStore interface {
	GetByID(ctx context.Context, id int64) (*models.Member, error)
	SetCertificateSent(ctx context.Context, id int64, sent bool) error
}

// NotificationDonationStore is what notification handlers need from donations
type NotificationDonationStore interface {
	GetByID(ctx context.Context, id int64) (*models.Donation, error)
	SetMailFlags(ctx context.Context, id int64, taxReceiptSent, certificateSent, thankYouSent *bool) error
}

// NotificationContactStore is what notification handlers need from contacts
type NotificationContactStore interface {
	GetByID(ctx context.Context, id int64) (*models.ContactMessage, error)
}

// NotificationService executes the deferred email side effects. Each method
// is an outbox handler; RegisterHandlers wires them to their task types.
type NotificationService struct {
	members    NotificationMemberStore
	donations  NotificationDonationStore
	contacts   NotificationContactStore
	dispatcher email.Dispatcher
	generator  certificate.Generator
	orgName    string
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(
	members NotificationMemberStore,
	donations NotificationDonationStore,
	contacts NotificationContactStore,
	dispatcher email.Dispatcher,
	generator certificate.Generator,
	orgName string,
) *NotificationService {
	return &NotificationService{
		members:    members,
		donations:  donations,
		contacts:   contacts,
		dispatcher: dispatcher,
		generator:  generator,
		orgName:    orgName,
	}
}

// RegisterHandlers binds every notification handler to the worker
func (s *NotificationService) RegisterHandlers(w *outbox.Worker) {
	w.Register(models.TaskMemberCredentials, s.SendMemberCredentials)
	w.Register(models.TaskMemberApproval, s.SendMemberApproval)
	w.Register(models.TaskDonationReceipt, s.SendDonationReceipt)
	w.Register(models.TaskDonationCertificate, s.SendDonationCertificate)
	w.Register(models.TaskContactAck, s.SendContactAck)
}

// SendMemberCredentials emails the generated portal credentials
func (s *NotificationService) SendMemberCredentials(ctx context.Context, payload json.RawMessage) error {
	var p CredentialsPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid credentials payload: %w", err)
	}

	member, err := s.members.GetByID(ctx, p.MemberID)
	if err != nil {
		return err
	}

	return s.dispatcher.Send(email.CredentialsMessage(member, s.orgName, p.Password))
}

// SendMemberApproval emails the approval notice with the membership
// certificate attached, then records the certificate as sent
func (s *NotificationService) SendMemberApproval(ctx context.Context, payload json.RawMessage) error {
	var p ApprovalPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid approval payload: %w", err)
	}

	member, err := s.members.GetByID(ctx, p.MemberID)
	if err != nil {
		return err
	}

	cert, err := s.generator.MembershipCertificate(member)
	if err != nil {
		return fmt.Errorf("failed to render membership certificate: %w", err)
	}

	if err := s.dispatcher.Send(email.ApprovalMessage(member, s.orgName, cert)); err != nil {
		return err
	}

	return s.members.SetCertificateSent(ctx, member.ID, true)
}

// SendDonationReceipt emails the receipt and thank-you note
func (s *NotificationService) SendDonationReceipt(ctx context.Context, payload json.RawMessage) error {
	var p ReceiptPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid receipt payload: %w", err)
	}

	donation, err := s.donations.GetByID(ctx, p.DonationID)
	if err != nil {
		return err
	}
	if donation.IsAnonymous && donation.DonorEmail == "" {
		return nil
	}

	if err := s.dispatcher.Send(email.DonationReceiptMessage(donation, s.orgName)); err != nil {
		return err
	}

	sent := true
	var taxReceiptSent *bool
	if donation.TaxDeductible {
		taxReceiptSent = &sent
	}
	return s.donations.SetMailFlags(ctx, donation.ID, taxReceiptSent, nil, &sent)
}

// SendDonationCertificate emails the donation certificate PDF
func (s *NotificationService) SendDonationCertificate(ctx context.Context, payload json.RawMessage) error {
	var p CertificatePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid certificate payload: %w", err)
	}

	donation, err := s.donations.GetByID(ctx, p.DonationID)
	if err != nil {
		return err
	}
	if donation.IsAnonymous && donation.DonorEmail == "" {
		return nil
	}

	cert, err := s.generator.DonationCertificate(donation)
	if err != nil {
		return fmt.Errorf("failed to render donation certificate: %w", err)
	}

	if err := s.dispatcher.Send(email.DonationCertificateMessage(donation, s.orgName, cert)); err != nil {
		return err
	}

	sent := true
	return s.donations.SetMailFlags(ctx, donation.ID, nil, &sent, nil)
}

// SendContactAck emails the acknowledgement with the estimated response time
func (s *NotificationService) SendContactAck(ctx context.Context, payload json.RawMessage) error {
	var p ContactAckPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("invalid contact ack payload: %w", err)
	}

	contact, err := s.contacts.GetByID(ctx, p.ContactID)
	if err != nil {
		return err
	}

	return s.dispatcher.Send(email.ContactAckMessage(contact, s.orgName))
}
