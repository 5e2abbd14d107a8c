package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/app/services"
	"github.com/sevasetu/sevasetu/internal/middleware"
	"github.com/sevasetu/sevasetu/internal/pkg/helpers"
)

// ContactController handles contact-form endpoints
type ContactController struct {
	contacts *services.ContactService
}

// NewContactController creates a new ContactController
func NewContactController(contacts *services.ContactService) *ContactController {
	return &ContactController{contacts: contacts}
}

// Create godoc
// @Summary Submit a contact-form message
// @Tags contacts
// @Accept json
// @Produce json
// @Param request body dto.CreateContactRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.ContactView}
// @Router /contacts [post]
func (ctrl *ContactController) Create(c *gin.Context) {
	var req dto.CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	view, err := ctrl.contacts.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	message := fmt.Sprintf("Message received, we will respond within %d hours", view.EstimatedResponseTime)
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(view, message))
}

// Get godoc
// @Summary Get one contact message
// @Tags contacts
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContactView}
// @Security BearerAuth
// @Router /contacts/{id} [get]
func (ctrl *ContactController) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	view, err := ctrl.contacts.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(view, "Message retrieved"))
}

// Assign godoc
// @Summary Assign a message to a staff user
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Param request body dto.AssignContactRequest true "Assignee"
// @Success 200 {object} dto.APIResponse{data=dto.ContactView}
// @Security BearerAuth
// @Router /contacts/{id}/assign [put]
func (ctrl *ContactController) Assign(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var req dto.AssignContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	view, err := ctrl.contacts.Assign(c.Request.Context(), id, req.UserID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(view, "Message assigned"))
}

// Respond godoc
// @Summary Record a staff response
// @Tags contacts
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Param request body dto.RespondContactRequest true "Response"
// @Success 200 {object} dto.APIResponse{data=dto.ContactView}
// @Security BearerAuth
// @Router /contacts/{id}/respond [put]
func (ctrl *ContactController) Respond(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var req dto.RespondContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	view, err := ctrl.contacts.Respond(c.Request.Context(), id, req.Response)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(view, "Response recorded"))
}

// Resolve godoc
// @Summary Resolve a message
// @Tags contacts
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContactView}
// @Security BearerAuth
// @Router /contacts/{id}/resolve [put]
func (ctrl *ContactController) Resolve(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	view, err := ctrl.contacts.Resolve(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(view, "Message resolved"))
}

// MarkSpam godoc
// @Summary Mark a message as spam
// @Tags contacts
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} dto.APIResponse{data=dto.ContactView}
// @Security BearerAuth
// @Router /contacts/{id}/spam [put]
func (ctrl *ContactController) MarkSpam(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	view, err := ctrl.contacts.MarkSpam(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(view, "Message marked as spam"))
}

// List godoc
// @Summary List contact messages
// @Tags contacts
// @Produce json
// @Param status query string false "Status filter"
// @Param priority query string false "Priority filter"
// @Param category query string false "Category filter"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedData}
// @Security BearerAuth
// @Router /contacts [get]
func (ctrl *ContactController) List(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	filter := repositories.ContactFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Category: c.Query("category"),
	}

	views, total, err := ctrl.contacts.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedData{
		Items:      views,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "Messages retrieved"))
}
