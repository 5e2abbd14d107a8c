package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevasetu/sevasetu/internal/app/models"
	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/services"
	"github.com/sevasetu/sevasetu/internal/middleware"
	"github.com/sevasetu/sevasetu/internal/pkg/helpers"
)

// EventController handles NGO event endpoints
type EventController struct {
	events *services.EventService
}

// NewEventController creates a new EventController
func NewEventController(events *services.EventService) *EventController {
	return &EventController{events: events}
}

// Create godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} dto.APIResponse
// @Security BearerAuth
// @Router /events [post]
func (ctrl *EventController) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	event, err := ctrl.events.Create(c.Request.Context(), &req, middleware.CurrentUserID(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(event, "Event created"))
}

// Get godoc
// @Summary Get one event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse
// @Router /events/{id} [get]
func (ctrl *EventController) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	event, err := ctrl.events.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(event, "Event retrieved"))
}

// Update godoc
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body dto.CreateEventRequest true "Event"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /events/{id} [put]
func (ctrl *EventController) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	event, err := ctrl.events.Update(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(event, "Event updated"))
}

// Delete godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /events/{id} [delete]
func (ctrl *EventController) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := ctrl.events.Delete(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Event deleted"))
}

// List godoc
// @Summary List events
// @Description Public callers only see published events; admins see drafts too
// @Tags events
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedData}
// @Router /events [get]
func (ctrl *EventController) List(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	publishedOnly := c.GetString(middleware.ContextRoleType) != string(models.RoleAdmin)

	events, total, err := ctrl.events.List(c.Request.Context(), publishedOnly, offset, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedData{
		Items:      events,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "Events retrieved"))
}
