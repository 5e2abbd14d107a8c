package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/repositories"
	"github.com/sevasetu/sevasetu/internal/app/services"
	"github.com/sevasetu/sevasetu/internal/middleware"
	"github.com/sevasetu/sevasetu/internal/pkg/apperrors"
	"github.com/sevasetu/sevasetu/internal/pkg/helpers"
)

// DonationController handles donation endpoints
type DonationController struct {
	donations *services.DonationService
}

// NewDonationController creates a new DonationController
func NewDonationController(donations *services.DonationService) *DonationController {
	return &DonationController{donations: donations}
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperrors.NewBadRequestError("invalid id parameter")
	}
	return id, nil
}

// Create godoc
// @Summary Record a donation
// @Tags donations
// @Accept json
// @Produce json
// @Param request body dto.CreateDonationRequest true "Donation"
// @Success 201 {object} dto.APIResponse
// @Router /donations [post]
func (ctrl *DonationController) Create(c *gin.Context) {
	var req dto.CreateDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	donation, err := ctrl.donations.Create(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(donation, "Donation recorded"))
}

// Get godoc
// @Summary Get one donation
// @Tags donations
// @Produce json
// @Param id path int true "Donation ID"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /donations/{id} [get]
func (ctrl *DonationController) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	donation, err := ctrl.donations.Get(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(donation, "Donation retrieved"))
}

// UpdateStatus godoc
// @Summary Update donation payment status
// @Description Applies the transition only when the stored status still
// @Description matches expectedStatus; otherwise responds 409.
// @Tags donations
// @Accept json
// @Produce json
// @Param id path int true "Donation ID"
// @Param request body dto.UpdateDonationStatusRequest true "Transition"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /donations/{id}/status [patch]
func (ctrl *DonationController) UpdateStatus(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	var req dto.UpdateDonationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	donation, err := ctrl.donations.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(donation, "Payment status updated"))
}

// Certificate godoc
// @Summary Download the donation certificate PDF
// @Tags donations
// @Produce application/pdf
// @Param id path int true "Donation ID"
// @Success 200 {file} binary
// @Router /donations/{id}/certificate [get]
func (ctrl *DonationController) Certificate(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	pdf, err := ctrl.donations.Certificate(c.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="donation-certificate-`+c.Param("id")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// List godoc
// @Summary List donations
// @Tags donations
// @Produce json
// @Param status query string false "Payment status filter"
// @Param type query string false "Donation type filter"
// @Param fiscalYear query int false "Fiscal year filter"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedData}
// @Security BearerAuth
// @Router /donations [get]
func (ctrl *DonationController) List(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	fiscalYear, _ := strconv.Atoi(c.Query("fiscalYear"))
	filter := repositories.DonationFilter{
		PaymentStatus: c.Query("status"),
		DonationType:  c.Query("type"),
		FiscalYear:    fiscalYear,
		DonorEmail:    c.Query("donorEmail"),
	}

	donations, total, err := ctrl.donations.List(c.Request.Context(), filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedData{
		Items:      donations,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "Donations retrieved"))
}

// Stats godoc
// @Summary Donation statistics
// @Tags donations
// @Produce json
// @Param fiscalYear query int false "Fiscal year filter"
// @Success 200 {object} dto.APIResponse
// @Security BearerAuth
// @Router /donations/stats [get]
func (ctrl *DonationController) Stats(c *gin.Context) {
	fiscalYear, _ := strconv.Atoi(c.Query("fiscalYear"))

	stats, err := ctrl.donations.Stats(c.Request.Context(), fiscalYear)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(stats, "Donation statistics retrieved"))
}
