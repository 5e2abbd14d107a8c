package services

import (
	"context"
	"errors"
	"time"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
	"github.com/sevasetu/sevasetu/internal/pkg/lifecycle"
	"github.com/sevasetu/sevasetu/internal/pkg/logger"
)

// ContactStore is the persistence surface the contact service needs
type ContactStore interface {
	Create(ctx context.Context, c *models.ContactMessage) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ContactMessage, error)
	Assign(ctx context.Context, id, userID int64) error
	Respond(ctx context.Context, id int64, response string, respondedAt time.Time) error
	SetStatus(ctx context.Context, id int64, status models.ContactStatus) error
	List(ctx context.Context, filter repositories.ContactFilter, offset uint64, limit int) ([]*models.ContactMessage, int64, error)
}

// ContactAckPayload drives the acknowledgement email
type ContactAckPayload struct {
	ContactID int64 `json:"contactId"`
}

// ContactService implements contact-form intake and staff handling
type ContactService struct {
	contacts ContactStore
	outbox   TaskEnqueuer
	now      func() time.Time
}

// NewContactService creates a new ContactService
func NewContactService(contacts ContactStore, outbox TaskEnqueuer) *ContactService {
	return &ContactService{
		contacts: contacts,
		outbox:   outbox,
		now:      time.Now,
	}
}

// Create stores a contact-form submission. Priority is escalated from the
// message text; the sender gets an acknowledgement email with the estimated
// response time.
func (s *ContactService) Create(ctx context.Context, req *dto.CreateContactRequest) (*dto.ContactView, error) {
	priority, hours := lifecycle.EscalatePriority(req.Subject, req.Message, models.PriorityMedium)

	contact := &models.ContactMessage{
		Name:                  req.Name,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Subject:               req.Subject,
		Message:               req.Message,
		Category:              req.Category,
		Status:                models.ContactNew,
		Priority:              priority,
		EstimatedResponseTime: hours,
		CreatedAt:             s.now(),
	}

	id, err := s.contacts.Create(ctx, contact)
	if err != nil {
		return nil, err
	}
	contact.ID = id

	if _, err := s.outbox.Enqueue(ctx, models.TaskContactAck, ContactAckPayload{ContactID: id}); err != nil {
		logger.Error().Err(err).Int64("contactID", id).Msg("Could not enqueue contact acknowledgement")
	}

	return s.view(contact), nil
}

// Get retrieves one contact message. Opening a new message moves it to
// in-progress so the inbox reflects that someone has seen it.
func (s *ContactService) Get(ctx context.Context, id int64) (*dto.ContactView, error) {
	contact, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.Status == models.ContactNew {
		if err := s.contacts.SetStatus(ctx, id, models.ContactInProgress); err != nil {
			logger.Warn().Err(err).Int64("contactID", id).Msg("Could not mark contact message as opened")
		} else {
			contact.Status = models.ContactInProgress
		}
	}
	return s.view(contact), nil
}

// Assign hands a message to a staff user and moves it to in-progress
func (s *ContactService) Assign(ctx context.Context, id, userID int64) (*dto.ContactView, error) {
	if err := s.mapNotFound(s.contacts.Assign(ctx, id, userID)); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Respond stores the staff response and resolves the message. Resolve stays
// available for closing a message without a written reply.
func (s *ContactService) Respond(ctx context.Context, id int64, response string) (*dto.ContactView, error) {
	if err := s.mapNotFound(s.contacts.Respond(ctx, id, response, s.now())); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// Resolve closes a message
func (s *ContactService) Resolve(ctx context.Context, id int64) (*dto.ContactView, error) {
	contact, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.Status == models.ContactSpam {
		return nil, apperrors.NewConflictError("a message marked as spam cannot be resolved")
	}
	if err := s.mapNotFound(s.contacts.SetStatus(ctx, id, models.ContactResolved)); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// MarkSpam flags a message as spam, which also stops overdue tracking
func (s *ContactService) MarkSpam(ctx context.Context, id int64) (*dto.ContactView, error) {
	if err := s.mapNotFound(s.contacts.SetStatus(ctx, id, models.ContactSpam)); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// List retrieves contact messages for the staff inbox
func (s *ContactService) List(ctx context.Context, filter repositories.ContactFilter, offset uint64, limit int) ([]*dto.ContactView, int64, error) {
	messages, total, err := s.contacts.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	views := make([]*dto.ContactView, 0, len(messages))
	for _, m := range messages {
		views = append(views, s.view(m))
	}
	return views, total, nil
}

func (s *ContactService) getByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	contact, err := s.contacts.GetByID(ctx, id)
	if err != nil {
		return nil, s.mapNotFound(err)
	}
	return contact, nil
}

func (s *ContactService) mapNotFound(err error) error {
	if errors.Is(err, repositories.ErrContactNotFound) {
		return apperrors.ErrContactNotFound
	}
	return err
}

// view builds the API projection, computing the overdue flag at read time
func (s *ContactService) view(m *models.ContactMessage) *dto.ContactView {
	return &dto.ContactView{
		ID:                    m.ID,
		Name:                  m.Name,
		Email:                 m.Email,
		Phone:                 m.Phone,
		Subject:               m.Subject,
		Message:               m.Message,
		Category:              m.Category,
		Status:                string(m.Status),
		Priority:              string(m.Priority),
		EstimatedResponseTime: m.EstimatedResponseTime,
		IsOverdue:             m.IsOverdue(s.now()),
		AssignedTo:            m.AssignedTo,
		Response:              m.Response,
		CreatedAt:             m.CreatedAt.Format(time.RFC3339),
	}
}
