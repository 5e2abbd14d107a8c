package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sevasetu/sevasetu/internal/app/models/dto"
)

// HealthController reports service liveness
type HealthController struct {
	db        *pgxpool.Pool
	startedAt time.Time
}

// NewHealthController creates a new HealthController
func NewHealthController(db *pgxpool.Pool) *HealthController {
	return &HealthController{db: db, startedAt: time.Now()}
}

// Check godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /health [get]
func (ctrl *HealthController) Check(c *gin.Context) {
	dbStatus := "up"
	if err := ctrl.db.Ping(c.Request.Context()); err != nil {
		dbStatus = "down"
	}

	status := http.StatusOK
	if dbStatus != "up" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, dto.NewSuccessResponse(gin.H{
		"status":   "ok",
		"database": dbStatus,
		"uptime":   time.Since(ctrl.startedAt).Round(time.Second).String(),
	}, "Health check"))
}
