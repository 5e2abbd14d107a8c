package models

import "time"

// ChatSender identifies who authored a chat message
type ChatSender string

const (
	ChatSenderVisitor ChatSender = "visitor"
	ChatSenderBot     ChatSender = "bot"
	ChatSenderAgent   ChatSender = "agent"
)

// Sentiment is the crude keyword classification of a chat message
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ChatSessionSummary aggregates one chat session for the staff inbox
type ChatSessionSummary struct {
	SessionID       string     `json:"sessionId"`
	VisitorName     string     `json:"visitorName,omitempty"`
	VisitorEmail    string     `json:"visitorEmail,omitempty"`
	MessageCount    int64      `json:"messageCount"`
	Priority        Priority   `json:"priority"`
	EscalateToHuman bool       `json:"escalateToHuman"`
	AssignedTo      *int64     `json:"assignedTo,omitempty"`
	LastMessageAt   time.Time  `json:"lastMessageAt"`
}

// ChatMessage represents one turn in a simulated support chat session
type ChatMessage struct {
	ID              int64      `json:"id" db:"id"`
	SessionID       string     `json:"sessionId" db:"session_id"`
	Sender          ChatSender `json:"sender" db:"sender"`
	SenderName      string     `json:"senderName,omitempty" db:"sender_name"`
	SenderEmail     string     `json:"senderEmail,omitempty" db:"sender_email"`
	Content         string     `json:"content" db:"content"`
	Keywords        []string   `json:"keywords" db:"keywords"`
	Priority        Priority   `json:"priority" db:"priority"`
	EscalateToHuman bool       `json:"escalateToHuman" db:"escalate_to_human"`
	Sentiment       Sentiment  `json:"sentiment" db:"sentiment"`
	ReadBy          []int64    `json:"readBy" db:"read_by"`
	AssignedTo      *int64     `json:"assignedTo,omitempty" db:"assigned_to"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
}
