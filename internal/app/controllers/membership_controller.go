package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sevasetu/sevasetu/internal/app/models/dto"
	"github.com/sevasetu/sevasetu/internal/app/services"
	"github.com/sevasetu/sevasetu/internal/middleware"
	"github.com/sevasetu/sevasetu/internal/pkg/helpers"
)

// MembershipController handles membership lifecycle endpoints
type MembershipController struct {
	memberships *services.MembershipService
	auth        *services.AuthService
}

// NewMembershipController creates a new MembershipController
func NewMembershipController(memberships *services.MembershipService, auth *services.AuthService) *MembershipController {
	return &MembershipController{memberships: memberships, auth: auth}
}

// Apply godoc
// @Summary Apply for membership
// @Description Submits a membership application; credentials are emailed
// @Tags memberships
// @Accept json
// @Produce json
// @Param request body dto.MembershipApplicationRequest true "Application"
// @Success 201 {object} dto.APIResponse{data=dto.MembershipApplicationResponse}
// @Router /memberships/apply [post]
func (ctrl *MembershipController) Apply(c *gin.Context) {
	var req dto.MembershipApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	resp, err := ctrl.memberships.Apply(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Membership application received"))
}

// Login godoc
// @Summary Member portal login
// @Tags memberships
// @Accept json
// @Produce json
// @Param request body dto.MemberLoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.TokenResponse}
// @Router /memberships/login [post]
func (ctrl *MembershipController) Login(c *gin.Context) {
	var req dto.MemberLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	member, err := ctrl.memberships.Login(c.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	tokens, err := ctrl.auth.IssueMemberTokens(c.Request.Context(), member)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"tokens": tokens,
		"member": member,
	}, "Login successful"))
}

// Status godoc
// @Summary Membership status
// @Tags memberships
// @Produce json
// @Param membershipId path string true "Membership ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipStatusResponse}
// @Router /memberships/{membershipId}/status [get]
func (ctrl *MembershipController) Status(c *gin.Context) {
	status, err := ctrl.memberships.GetStatus(c.Request.Context(), c.Param("membershipId"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(status, "Membership status retrieved"))
}

// Approve godoc
// @Summary Approve a pending membership
// @Tags memberships
// @Produce json
// @Param membershipId path string true "Membership ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipStatusResponse}
// @Security BearerAuth
// @Router /memberships/{membershipId}/approve [post]
func (ctrl *MembershipController) Approve(c *gin.Context) {
	status, err := ctrl.memberships.Approve(c.Request.Context(), c.Param("membershipId"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(status, "Membership approved"))
}

// Reject godoc
// @Summary Reject a pending membership
// @Tags memberships
// @Produce json
// @Param membershipId path string true "Membership ID"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipStatusResponse}
// @Security BearerAuth
// @Router /memberships/{membershipId}/reject [post]
func (ctrl *MembershipController) Reject(c *gin.Context) {
	status, err := ctrl.memberships.Reject(c.Request.Context(), c.Param("membershipId"))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(status, "Membership rejected"))
}

// Extend godoc
// @Summary Extend a membership
// @Tags memberships
// @Accept json
// @Produce json
// @Param membershipId path string true "Membership ID"
// @Param request body dto.ExtendMembershipRequest true "Months to add"
// @Success 200 {object} dto.APIResponse{data=dto.MembershipStatusResponse}
// @Security BearerAuth
// @Router /memberships/{membershipId}/extend [post]
func (ctrl *MembershipController) Extend(c *gin.Context) {
	var req dto.ExtendMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	status, err := ctrl.memberships.Extend(c.Request.Context(), c.Param("membershipId"), req.AdditionalMonths)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(status, "Membership extended"))
}

// Certificate godoc
// @Summary Download the membership certificate PDF
// @Tags memberships
// @Produce application/pdf
// @Param membershipId path string true "Membership ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /memberships/{membershipId}/certificate [get]
func (ctrl *MembershipController) Certificate(c *gin.Context) {
	membershipID := c.Param("membershipId")
	pdf, err := ctrl.memberships.Certificate(c.Request.Context(), membershipID)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="membership-`+membershipID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// List godoc
// @Summary List members
// @Tags memberships
// @Produce json
// @Param status query string false "Approval status filter"
// @Param page query int false "Page number"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedData}
// @Security BearerAuth
// @Router /memberships [get]
func (ctrl *MembershipController) List(c *gin.Context) {
	page, size := helpers.ParsePaginationParams(c)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	members, total, err := ctrl.memberships.List(c.Request.Context(), c.Query("status"), offset, limit)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PagedData{
		Items:      members,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "Members retrieved"))
}
