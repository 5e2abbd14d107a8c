package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/services"
	"github.com/sevasetu/sevasetu/internal/middleware"
	"github.com/sevasetu/sevasetu/internal/pkg/helpers"
)

// ChatController handles simulated support chat endpoints
type ChatController struct {
	chats *services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chats *services.ChatService) *ChatController {
	return &ChatController{chats: chats}
}

// SendMessage godoc
// @Summary Send a chat message
// @Description Stores the visitor turn and returns it together with the bot reply
// @Tags chat
// @Accept json
// @Produce json
// @Param request body dto.SendChatMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.ChatTurnResponse}
// @Router /chat/messages [post]
func (ctrl *ChatController) SendMessage(c *gin.Context) {
	var req dto.SendChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	turn, err := ctrl.chats.SendMessage(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(turn, "Message sent"))
}

// GetSession godoc
// @Summary Get every message of a chat session
// @Tags chat
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.APIResponse
// @Router /chat/sessions/{sessionId} [get]
func (ctrl *ChatController) GetSession(c *gin.Context) {
	messages, err := ctrl.chats.GetSession(c.Request.Context(), c.Param("sessionId"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(messages, "Session retrieved"))
}

// ListSessions godoc
// @Summary List chat sessions for the staff inbox
// @Tags chat
// @Produce json
// @Param escalated query bool false "Only escalated sessions"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedData}
// @Security BearerAuth
// @Router /chat/sessions [get]
func (ctrl *ChatController) ListSessions(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	escalatedOnly := c.Query("escalated") == "true"

	sessions, total, err := ctrl.chats.ListSessions(c.Request.Context(), escalatedOnly, offset, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedData{
		Items:      sessions,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "Sessions retrieved"))
}

// MarkRead godoc
// @Summary Mark a session read by the current staff user
// @Tags chat
// @Produce json
// @Param sessionId path string true "Session ID"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /chat/sessions/{sessionId}/read [put]
func (ctrl *ChatController) MarkRead(c *gin.Context) {
	err := ctrl.chats.MarkRead(c.Request.Context(), c.Param("sessionId"), middleware.CurrentUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Session marked read"))
}

// Escalate godoc
// @Summary Assign a session to a staff agent
// @Tags chat
// @Accept json
// @Produce json
// @Param sessionId path string true "Session ID"
// @Param request body dto.AssignChatRequest true "Assignee"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /chat/sessions/{sessionId}/escalate [put]
func (ctrl *ChatController) Escalate(c *gin.Context) {
	var req dto.AssignChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	err := ctrl.chats.Assign(c.Request.Context(), c.Param("sessionId"), req.UserID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Session escalated to agent"))
}
