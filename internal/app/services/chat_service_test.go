package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
)

func chatTurn(sessionID, content string) *dto.SendChatMessageRequest {
	return &dto.SendChatMessageRequest{
		SessionID:  sessionID,
		SenderName: "Visitor",
		Content:    content,
	}
}

func TestSendMessageStoresVisitorAndBotTurn(t *testing.T) {
	store := &fakeChatStore{}
	svc := NewChatService(store)

	resp, err := svc.SendMessage(context.Background(), chatTurn("session-12345678", "How can I donate to your education program?"))
	require.NoError(t, err)

	visitor := resp.Message.(*models.ChatMessage)
	bot := resp.Reply.(*models.ChatMessage)

	assert.Equal(t, models.ChatSenderVisitor, visitor.Sender)
	assert.Contains(t, visitor.Keywords, "donate")
	assert.Contains(t, visitor.Keywords, "education")
	assert.False(t, visitor.EscalateToHuman)

	assert.Equal(t, models.ChatSenderBot, bot.Sender)
	assert.Contains(t, bot.Content, "80G")

	messages, err := svc.GetSession(context.Background(), "session-12345678")
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}

func TestSendMessageEscalatesUrgent(t *testing.T) {
	svc := NewChatService(&fakeChatStore{})

	resp, err := svc.SendMessage(context.Background(), chatTurn("session-12345678", "This is an emergency, someone needs help immediately"))
	require.NoError(t, err)

	visitor := resp.Message.(*models.ChatMessage)
	bot := resp.Reply.(*models.ChatMessage)

	assert.True(t, visitor.EscalateToHuman)
	assert.Equal(t, models.PriorityUrgent, visitor.Priority)
	assert.Equal(t, botEscalatedReply, bot.Content)
}

func TestSendMessageFallbackReply(t *testing.T) {
	svc := NewChatService(&fakeChatStore{})

	resp, err := svc.SendMessage(context.Background(), chatTurn("session-12345678", "What colour is your office painted?"))
	require.NoError(t, err)

	bot := resp.Reply.(*models.ChatMessage)
	assert.Equal(t, botFallbackReply, bot.Content)
}

func TestSendMessageSentiment(t *testing.T) {
	svc := NewChatService(&fakeChatStore{})

	resp, err := svc.SendMessage(context.Background(), chatTurn("session-12345678", "Thank you, your team did a wonderful and excellent job"))
	require.NoError(t, err)

	visitor := resp.Message.(*models.ChatMessage)
	assert.Equal(t, models.SentimentPositive, visitor.Sentiment)
}

func TestGetSessionUnknown(t *testing.T) {
	svc := NewChatService(&fakeChatStore{})
	_, err := svc.GetSession(context.Background(), "missing-session")
	assert.ErrorIs(t, err, apperrors.ErrChatSessionNotFound)
}

func TestMarkReadAndAssign(t *testing.T) {
	store := &fakeChatStore{}
	svc := NewChatService(store)

	_, err := svc.SendMessage(context.Background(), chatTurn("session-12345678", "Tell me about membership"))
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(context.Background(), "session-12345678", 3))
	messages, err := svc.GetSession(context.Background(), "session-12345678")
	require.NoError(t, err)
	for _, m := range messages {
		assert.Contains(t, m.ReadBy, int64(3))
	}

	require.NoError(t, svc.Assign(context.Background(), "session-12345678", 3))
	sessions, total, err := svc.ListSessions(context.Background(), true, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].EscalateToHuman)

	assert.ErrorIs(t, svc.MarkRead(context.Background(), "missing", 3), apperrors.ErrChatSessionNotFound)
	assert.ErrorIs(t, svc.Assign(context.Background(), "missing", 3), apperrors.ErrChatSessionNotFound)
}
