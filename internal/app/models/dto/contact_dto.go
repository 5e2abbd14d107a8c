package dto

// CreateContactRequest is the contact-form submission payload
type CreateContactRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"omitempty,max=20"`
	Subject  string `json:"subject" binding:"required,min=3,max=200"`
	Message  string `json:"message" binding:"required,min=10,max=5000"`
	Category string `json:"category" binding:"omitempty,max=50"`
}

// AssignContactRequest assigns a contact message to a staff user
type AssignContactRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1"`
}

// RespondContactRequest records the staff response and resolves the message
type RespondContactRequest struct {
	Response string `json:"response" binding:"required,min=1,max=5000"`
}

// ContactView is the admin list/detail view including the computed
// overdue flag
type ContactView struct {
	ID                    int64  `json:"id"`
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone,omitempty"`
	Subject               string `json:"subject"`
	Message               string `json:"message"`
	Category              string `json:"category,omitempty"`
	Status                string `json:"status"`
	Priority              string `json:"priority"`
	EstimatedResponseTime int    `json:"estimatedResponseTime"`
	IsOverdue             bool   `json:"isOverdue"`
	AssignedTo            *int64 `json:"assignedTo,omitempty"`
	Response              string `json:"response,omitempty"`
	CreatedAt             string `json:"createdAt"`
}
