package dto

import "time"

// CreateEventRequest creates or updates an NGO event
type CreateEventRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=200"`
	Description string     `json:"description" binding:"required,min=10,max=5000"`
	Location    string     `json:"location" binding:"omitempty,max=200"`
	StartsAt    time.Time  `json:"startsAt" binding:"required"`
	EndsAt      *time.Time `json:"endsAt"`
	IsPublished bool       `json:"isPublished"`
}
