package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/services"
	"github.com/sevasetu/sevasetu/internal/middleware"
	"github.com/sevasetu/sevasetu/internal/pkg/helpers"
)

// TaskController exposes the failed outbox tasks to admins
type TaskController struct {
	tasks *services.TaskService
}

// NewTaskController creates a new TaskController
func NewTaskController(tasks *services.TaskService) *TaskController {
	return &TaskController{tasks: tasks}
}

// ListFailed godoc
// @Summary List failed background tasks
// @Tags tasks
// @Produce json
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedData}
// @Security BearerAuth
// @Router /tasks/failed [get]
func (ctrl *TaskController) ListFailed(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	tasks, total, err := ctrl.tasks.ListFailed(c.Request.Context(), offset, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedData{
		Items:      tasks,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "Failed tasks retrieved"))
}

// Requeue godoc
// @Summary Requeue a failed background task
// @Tags tasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /tasks/{id}/requeue [post]
func (ctrl *TaskController) Requeue(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if err := ctrl.tasks.Requeue(c.Request.Context(), id); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Task requeued"))
}
