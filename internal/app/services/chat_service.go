package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
	"github.com/sevasetu/sevasetu/internal/pkg/lifecycle"
)

// ChatStore is the persistence surface the chat service needs
type ChatStore interface {
	Create(ctx context.Context, m *models.ChatMessage) (int64, error)
	ListBySession(ctx context.Context, sessionID string) ([]*models.ChatMessage, error)
	ListSessions(ctx context.Context, escalatedOnly bool, offset uint64, limit int) ([]*models.ChatSessionSummary, int64, error)
	MarkSessionRead(ctx context.Context, sessionID string, userID int64) error
	AssignSession(ctx context.Context, sessionID string, userID int64) error
	SessionExists(ctx context.Context, sessionID string) (bool, error)
}

// cannedReply is one bot response rule: the first rule whose keyword matches
// the visitor text wins.
type cannedReply struct {
	keywords []string
	reply    string
}

var botReplies = []cannedReply{
	{
		keywords: []string{"donat", "contribute", "80g", "tax"},
		reply:    "Thank you for your interest in supporting our work! You can donate through the Donate page. Donations above any amount are eligible for 80G tax exemption, and you will receive a receipt by email.",
	},
	{
		keywords: []string{"member", "join", "registration"},
		reply:    "We would love to have you as a member! Submit the membership application form and our team will review it within 2-3 working days. Your login credentials arrive by email once you apply.",
	},
	{
		keywords: []string{"volunteer"},
		reply:    "Wonderful! We are always looking for volunteers. Please share your details through the contact form and mention your areas of interest; our coordinator will get back to you.",
	},
	{
		keywords: []string{"event", "campaign", "program"},
		reply:    "You can find all upcoming events and campaigns on our Events page. Entry is free unless mentioned otherwise.",
	},
	{
		keywords: []string{"certificate", "receipt"},
		reply:    "Membership and donation certificates can be downloaded from the portal once issued. If you are missing one, reply with your membership or donation reference and we will help.",
	},
	{
		keywords: []string{"hello", "hi ", "namaste", "hey"},
		reply:    "Namaste! Welcome to SevaSetu Foundation. How can I help you today? You can ask about donations, membership, volunteering or our events.",
	},
}

const (
	botFallbackReply  = "Thank you for your message. Our team will look into it and get back to you soon. For urgent matters please call our helpline."
	botEscalatedReply = "This sounds urgent. I am flagging your conversation to our team right away; a staff member will join this chat shortly."
)

// ChatService implements the simulated support chat
type ChatService struct {
	chats ChatStore
	now   func() time.Time
}

// NewChatService creates a new ChatService
func NewChatService(chats ChatStore) *ChatService {
	return &ChatService{chats: chats, now: time.Now}
}

// SendMessage stores one visitor turn, classifies it, and produces the
// simulated bot reply. Urgent messages flag the session for a human agent
// and get the escalation reply regardless of keyword matches.
func (s *ChatService) SendMessage(ctx context.Context, req *dto.SendChatMessageRequest) (*dto.ChatTurnResponse, error) {
	priority, _ := lifecycle.EscalatePriority("", req.Content, models.PriorityMedium)
	escalate := lifecycle.NeedsHumanEscalation(req.Content)

	visitorMsg := &models.ChatMessage{
		SessionID:       req.SessionID,
		Sender:          models.ChatSenderVisitor,
		SenderName:      req.SenderName,
		SenderEmail:     req.SenderEmail,
		Content:         req.Content,
		Keywords:        lifecycle.ExtractKeywords(req.Content),
		Priority:        priority,
		EscalateToHuman: escalate,
		Sentiment:       lifecycle.ClassifySentiment(req.Content),
		ReadBy:          []int64{},
		CreatedAt:       s.now(),
	}
	id, err := s.chats.Create(ctx, visitorMsg)
	if err != nil {
		return nil, err
	}
	visitorMsg.ID = id

	botMsg := &models.ChatMessage{
		SessionID: req.SessionID,
		Sender:    models.ChatSenderBot,
		Content:   composeBotReply(req.Content, escalate),
		Keywords:  []string{},
		Priority:  priority,
		Sentiment: models.SentimentNeutral,
		ReadBy:    []int64{},
		CreatedAt: s.now(),
	}
	botID, err := s.chats.Create(ctx, botMsg)
	if err != nil {
		return nil, err
	}
	botMsg.ID = botID

	return &dto.ChatTurnResponse{Message: visitorMsg, Reply: botMsg}, nil
}

// GetSession returns every message of one session, oldest first
func (s *ChatService) GetSession(ctx context.Context, sessionID string) ([]*models.ChatMessage, error) {
	messages, err := s.chats.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, apperrors.ErrChatSessionNotFound
	}
	return messages, nil
}

// ListSessions aggregates sessions for the staff inbox
func (s *ChatService) ListSessions(ctx context.Context, escalatedOnly bool, offset uint64, limit int) ([]*models.ChatSessionSummary, int64, error) {
	return s.chats.ListSessions(ctx, escalatedOnly, offset, limit)
}

// MarkRead records that a staff user has read the session
func (s *ChatService) MarkRead(ctx context.Context, sessionID string, userID int64) error {
	if err := s.requireSession(ctx, sessionID); err != nil {
		return err
	}
	return s.chats.MarkSessionRead(ctx, sessionID, userID)
}

// Assign hands the session to a staff agent and flags it as escalated
func (s *ChatService) Assign(ctx context.Context, sessionID string, userID int64) error {
	err := s.chats.AssignSession(ctx, sessionID, userID)
	if errors.Is(err, repositories.ErrChatMessageNotFound) {
		return apperrors.ErrChatSessionNotFound
	}
	return err
}

func (s *ChatService) requireSession(ctx context.Context, sessionID string) error {
	exists, err := s.chats.SessionExists(ctx, sessionID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrChatSessionNotFound
	}
	return nil
}

func composeBotReply(content string, escalated bool) string {
	if escalated {
		return botEscalatedReply
	}
	text := strings.ToLower(content)
	for _, rule := range botReplies {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.reply
			}
		}
	}
	return botFallbackReply
}
