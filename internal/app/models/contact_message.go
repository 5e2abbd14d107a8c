package models

import (
	"time"
)

// ContactStatus represents the handling state of a contact-form message
type ContactStatus string

const (
	ContactNew        ContactStatus = "new"
	ContactInProgress ContactStatus = "in-progress"
	ContactResolved   ContactStatus = "resolved"
	ContactSpam       ContactStatus = "spam"
)

// Priority represents message priority, shared by contact and chat messages
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// EstimatedResponseHours maps a priority to the default response-time
// commitment in hours
var EstimatedResponseHours = map[Priority]int{
	PriorityUrgent: 2,
	PriorityHigh:   8,
	PriorityMedium: 24,
	PriorityLow:    72,
}

// ContactMessage defines the contact model based on the 'contact_messages' table
type ContactMessage struct {
	ID                    int64         `json:"id" db:"id"`
	Name                  string        `json:"name" db:"name"`
	Email                 string        `json:"email" db:"email"`
	Phone                 string        `json:"phone,omitempty" db:"phone"`
	Subject               string        `json:"subject" db:"subject"`
	Message               string        `json:"message" db:"message"`
	Category              string        `json:"category,omitempty" db:"category"`
	Status                ContactStatus `json:"status" db:"status"`
	Priority              Priority      `json:"priority" db:"priority"`
	EstimatedResponseTime int           `json:"estimatedResponseTime" db:"estimated_response_time"` // hours
	AssignedTo            *int64        `json:"assignedTo,omitempty" db:"assigned_to"`
	Response              string        `json:"response,omitempty" db:"response"`
	RespondedAt           *time.Time    `json:"respondedAt,omitempty" db:"responded_at"`
	CreatedAt             time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt             time.Time     `json:"updatedAt" db:"updated_at"`
}

// IsOverdue reports whether the message has waited past its estimated
// response time without being resolved. Computed on read, never stored.
func (m *ContactMessage) IsOverdue(now time.Time) bool {
	if m.Status == ContactResolved || m.Status == ContactSpam {
		return false
	}
	deadline := m.CreatedAt.Add(time.Duration(m.EstimatedResponseTime) * time.Hour)
	return now.After(deadline)
}
