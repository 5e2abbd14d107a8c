package dto

// SendChatMessageRequest is one visitor turn in a chat session
type SendChatMessageRequest struct {
	SessionID   string `json:"sessionId" binding:"required,min=8,max=64"`
	SenderName  string `json:"senderName" binding:"omitempty,max=100"`
	SenderEmail string `json:"senderEmail" binding:"omitempty,email"`
	Content     string `json:"content" binding:"required,min=1,max=2000"`
}

// ChatTurnResponse returns the stored visitor message together with the
// simulated bot reply
type ChatTurnResponse struct {
	Message interface{} `json:"message"`
	Reply   interface{} `json:"reply"`
}

// AssignChatRequest assigns a chat session to a staff user
type AssignChatRequest struct {
	UserID int64 `json:"userId" binding:"required,min=1"`
}
