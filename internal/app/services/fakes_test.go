package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/pkg/email"
)

// In-memory fakes shared by the service tests.

type fakeMemberStore struct {
	mu      sync.Mutex
	nextID  int64
	members map[int64]*models.Member
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{members: map[int64]*models.Member{}}
}

func (s *fakeMemberStore) Create(_ context.Context, m *models.Member) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members {
		if existing.Email == m.Email {
			return 0, repositories.ErrMemberEmailExists
		}
	}
	s.nextID++
	cp := *m
	cp.ID = s.nextID
	s.members[cp.ID] = &cp
	return cp.ID, nil
}

func (s *fakeMemberStore) GetByID(_ context.Context, id int64) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return nil, repositories.ErrMemberNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMemberStore) GetByMembershipID(_ context.Context, membershipID string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.MembershipID == membershipID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repositories.ErrMemberNotFound
}

func (s *fakeMemberStore) GetByLoginID(_ context.Context, loginID string) (*models.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.LoginID == loginID {
			cp := *m
			return &cp, nil
		}
	}
	return nil, repositories.ErrMemberNotFound
}

func (s *fakeMemberStore) Update(_ context.Context, m *models.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[m.ID]; !ok {
		return repositories.ErrMemberNotFound
	}
	cp := *m
	s.members[m.ID] = &cp
	return nil
}

func (s *fakeMemberStore) SetCertificateSent(_ context.Context, id int64, sent bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return repositories.ErrMemberNotFound
	}
	m.CertificateSent = sent
	return nil
}

func (s *fakeMemberStore) List(_ context.Context, status string, offset uint64, limit int) ([]*models.Member, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Member
	for _, m := range s.members {
		if status == "" || string(m.ApprovalStatus) == status {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

type enqueuedTask struct {
	taskType models.OutboxTaskType
	payload  json.RawMessage
}

type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []enqueuedTask
}

func (f *fakeEnqueuer) Enqueue(_ context.Context, taskType models.OutboxTaskType, payload interface{}) (int64, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, enqueuedTask{taskType: taskType, payload: raw})
	return int64(len(f.tasks)), nil
}

func (f *fakeEnqueuer) ofType(taskType models.OutboxTaskType) []enqueuedTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []enqueuedTask
	for _, t := range f.tasks {
		if t.taskType == taskType {
			out = append(out, t)
		}
	}
	return out
}

type fakeGenerator struct{}

func (fakeGenerator) MembershipCertificate(m *models.Member) ([]byte, error) {
	return []byte("%PDF-membership-" + m.MembershipID), nil
}

func (fakeGenerator) DonationCertificate(d *models.Donation) ([]byte, error) {
	return []byte("%PDF-donation-" + d.TaxReceiptNumber), nil
}

type fakeDonationStore struct {
	mu        sync.Mutex
	nextID    int64
	donations map[int64]*models.Donation
}

func newFakeDonationStore() *fakeDonationStore {
	return &fakeDonationStore{donations: map[int64]*models.Donation{}}
}

func (s *fakeDonationStore) Create(_ context.Context, d *models.Donation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *d
	cp.ID = s.nextID
	s.donations[cp.ID] = &cp
	return cp.ID, nil
}

func (s *fakeDonationStore) GetByID(_ context.Context, id int64) (*models.Donation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return nil, repositories.ErrDonationNotFound
	}
	cp := *d
	return &cp, nil
}

func (s *fakeDonationStore) UpdatePaymentStatus(_ context.Context, id int64, expected, next models.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return repositories.ErrDonationNotFound
	}
	if d.PaymentStatus != expected {
		return repositories.ErrDonationStatusConflict
	}
	d.PaymentStatus = next
	return nil
}

func (s *fakeDonationStore) SetMailFlags(_ context.Context, id int64, taxReceiptSent, certificateSent, thankYouSent *bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.donations[id]
	if !ok {
		return repositories.ErrDonationNotFound
	}
	if taxReceiptSent != nil {
		d.TaxReceiptSent = *taxReceiptSent
	}
	if certificateSent != nil {
		d.CertificateSent = *certificateSent
	}
	if thankYouSent != nil {
		d.ThankYouSent = *thankYouSent
	}
	return nil
}

func (s *fakeDonationStore) List(_ context.Context, filter repositories.DonationFilter, offset uint64, limit int) ([]*models.Donation, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Donation
	for _, d := range s.donations {
		if filter.PaymentStatus != "" && string(d.PaymentStatus) != filter.PaymentStatus {
			continue
		}
		cp := *d
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (s *fakeDonationStore) Stats(_ context.Context, fiscalYear int) (*models.DonationStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.DonationStats{ByStatus: map[string]int64{}, ByType: map[string]float64{}}
	for _, d := range s.donations {
		if fiscalYear != 0 && d.FiscalYear != fiscalYear {
			continue
		}
		stats.TotalDonations++
		stats.ByStatus[string(d.PaymentStatus)]++
		if d.PaymentStatus == models.PaymentCompleted {
			stats.TotalAmount += d.Amount
			stats.TotalNetAmount += d.NetAmount
			stats.ByType[string(d.DonationType)] += d.Amount
		}
	}
	return stats, nil
}

type fakeContactStore struct {
	mu       sync.Mutex
	nextID   int64
	contacts map[int64]*models.ContactMessage
}

func newFakeContactStore() *fakeContactStore {
	return &fakeContactStore{contacts: map[int64]*models.ContactMessage{}}
}

func (s *fakeContactStore) Create(_ context.Context, c *models.ContactMessage) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *c
	cp.ID = s.nextID
	s.contacts[cp.ID] = &cp
	return cp.ID, nil
}

func (s *fakeContactStore) GetByID(_ context.Context, id int64) (*models.ContactMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return nil, repositories.ErrContactNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *fakeContactStore) Assign(_ context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return repositories.ErrContactNotFound
	}
	c.AssignedTo = &userID
	c.Status = models.ContactInProgress
	return nil
}

func (s *fakeContactStore) Respond(_ context.Context, id int64, response string, respondedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return repositories.ErrContactNotFound
	}
	c.Response = response
	c.RespondedAt = &respondedAt
	c.Status = models.ContactResolved
	return nil
}

func (s *fakeContactStore) SetStatus(_ context.Context, id int64, status models.ContactStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.contacts[id]
	if !ok {
		return repositories.ErrContactNotFound
	}
	c.Status = status
	return nil
}

func (s *fakeContactStore) List(_ context.Context, filter repositories.ContactFilter, offset uint64, limit int) ([]*models.ContactMessage, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ContactMessage
	for _, c := range s.contacts {
		if filter.Status != "" && string(c.Status) != filter.Status {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

type fakeChatStore struct {
	mu       sync.Mutex
	nextID   int64
	messages []*models.ChatMessage
}

func (s *fakeChatStore) Create(_ context.Context, m *models.ChatMessage) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *m
	cp.ID = s.nextID
	s.messages = append(s.messages, &cp)
	return cp.ID, nil
}

func (s *fakeChatStore) ListBySession(_ context.Context, sessionID string) ([]*models.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.ChatMessage
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *fakeChatStore) ListSessions(_ context.Context, escalatedOnly bool, offset uint64, limit int) ([]*models.ChatSessionSummary, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := map[string]*models.ChatSessionSummary{}
	for _, m := range s.messages {
		sum, ok := byID[m.SessionID]
		if !ok {
			sum = &models.ChatSessionSummary{SessionID: m.SessionID, Priority: models.PriorityLow}
			byID[m.SessionID] = sum
		}
		sum.MessageCount++
		sum.EscalateToHuman = sum.EscalateToHuman || m.EscalateToHuman
		sum.LastMessageAt = m.CreatedAt
		if m.Sender == models.ChatSenderVisitor && sum.VisitorName == "" {
			sum.VisitorName = m.SenderName
			sum.VisitorEmail = m.SenderEmail
		}
	}
	var out []*models.ChatSessionSummary
	for _, sum := range byID {
		if escalatedOnly && !sum.EscalateToHuman {
			continue
		}
		out = append(out, sum)
	}
	return out, int64(len(out)), nil
}

func (s *fakeChatStore) MarkSessionRead(_ context.Context, sessionID string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.SessionID != sessionID {
			continue
		}
		already := false
		for _, id := range m.ReadBy {
			if id == userID {
				already = true
			}
		}
		if !already {
			m.ReadBy = append(m.ReadBy, userID)
		}
	}
	return nil
}

func (s *fakeChatStore) AssignSession(_ context.Context, sessionID string, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	found := false
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			m.AssignedTo = &userID
			m.EscalateToHuman = true
			found = true
		}
	}
	if !found {
		return repositories.ErrChatMessageNotFound
	}
	return nil
}

func (s *fakeChatStore) SessionExists(_ context.Context, sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.SessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]*models.User{}}
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return 0, repositories.ErrUserEmailExists
		}
	}
	s.nextID++
	cp := *u
	cp.ID = s.nextID
	s.users[cp.ID] = &cp
	return cp.ID, nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, emailAddr string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, emailAddr) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (s *fakeUserStore) RecordFailedLogin(_ context.Context, id int64, lockUntil *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.LoginAttempts++
	if lockUntil != nil {
		u.LockUntil = lockUntil
	}
	return nil
}

func (s *fakeUserStore) RecordSuccessfulLogin(_ context.Context, id int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	u.LoginAttempts = 0
	u.LockUntil = nil
	u.LastLoginAt = &at
	return nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*repositories.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*repositories.RefreshToken{}}
}

func (s *fakeTokenStore) Store(_ context.Context, t *repositories.RefreshToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.tokens[t.Token] = &cp
	return nil
}

func (s *fakeTokenStore) Consume(_ context.Context, token string, now time.Time) (*repositories.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tokens[token]
	if !ok {
		return nil, repositories.ErrTokenNotFound
	}
	delete(s.tokens, token)
	if now.After(t.ExpiresAt) {
		return nil, repositories.ErrTokenExpired
	}
	return t, nil
}

func (s *fakeTokenStore) DeleteForSubject(_ context.Context, subjectType string, subjectID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, t := range s.tokens {
		if t.SubjectType == subjectType && t.SubjectID == subjectID {
			delete(s.tokens, token)
		}
	}
	return nil
}

type sentMail struct {
	to          string
	subject     string
	attachments int
}

type fakeDispatcher struct {
	mu   sync.Mutex
	sent []sentMail
}

func (d *fakeDispatcher) Send(msg *email.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, sentMail{
		to:          msg.To,
		subject:     msg.Subject,
		attachments: len(msg.Attachments),
	})
	return nil
}
