package handlers

import (
	"crimewatch/internal/middleware"
	"crimewatch/internal/models"
	"crimewatch/internal/services"
	"crimewatch/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdminHandler struct {
	adminService services.AdminService
}

func NewAdminHandler(adminService services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers returns all accounts with role/verification/activity filters.
// GET /api/v1/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filters services.UserFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidQueryParams)
		return
	}
	params := utils.GetPaginationParams(c)

	users, meta, err := h.adminService.ListUsers(c.Request.Context(), &filters, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "users retrieved", users, &utils.Meta{Pagination: meta})
}

// GetUser returns a single account.
// GET /api/v1/admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidUserID)
		return
	}

	user, err := h.adminService.GetUser(c.Request.Context(), id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "user retrieved", user)
}

// VerifyPoliceAccount marks a police account as verified or not.
// PUT /api/v1/admin/users/:id/verify
func (h *AdminHandler) VerifyPoliceAccount(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidUserID)
		return
	}

	var request struct {
		IsVerified *bool `json:"is_verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	user, err := h.adminService.VerifyPoliceAccount(c.Request.Context(), actor, id, *request.IsVerified)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "verification updated", user)
}

// SetUserActive activates or deactivates an account.
// PUT /api/v1/admin/users/:id/active
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidUserID)
		return
	}

	var request struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	user, err := h.adminService.SetUserActive(c.Request.Context(), actor, id, *request.IsActive)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "account status updated", user)
}

// SetUserRole changes an account's role.
// PUT /api/v1/admin/users/:id/role
func (h *AdminHandler) SetUserRole(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidUserID)
		return
	}

	var request struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	user, err := h.adminService.SetUserRole(c.Request.Context(), actor, id, models.UserRole(request.Role))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "role updated", user)
}

// DeleteUser removes an account that has never filed a report.
// DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidUserID)
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), actor, id); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "user deleted", nil)
}

// ListAvailableOfficers returns active verified police accounts for
// assignment pickers.
// GET /api/v1/admin/officers/available
func (h *AdminHandler) ListAvailableOfficers(c *gin.Context) {
	officers, err := h.adminService.ListAvailableOfficers(c.Request.Context())
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "officers retrieved", officers)
}

// AssignOfficer puts a report on an officer's desk.
// PUT /api/v1/reports/:id/assign
func (h *AdminHandler) AssignOfficer(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidReportID)
		return
	}

	var request struct {
		OfficerID string `json:"officer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	officerID, err := primitive.ObjectIDFromHex(request.OfficerID)
	if err != nil {
		utils.BadRequestResponse(c, "invalid officer id")
		return
	}

	report, err := h.adminService.AssignOfficer(c.Request.Context(), actor, reportID, officerID)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "officer assigned", report)
}

// VerifyReport marks a report verified or as a false report.
// PUT /api/v1/admin/reports/:id/verify
func (h *AdminHandler) VerifyReport(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidReportID)
		return
	}

	var request struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	report, err := h.adminService.VerifyReport(c.Request.Context(), actor, reportID, models.VerificationStatus(request.Status))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "report verification updated", report)
}

// ListVerificationNeeded lists reports still awaiting verification.
// GET /api/v1/admin/reports/verification-needed
func (h *AdminHandler) ListVerificationNeeded(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	reports, meta, err := h.adminService.ListVerificationNeeded(c.Request.Context(), params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "reports retrieved", reports, &utils.Meta{Pagination: meta})
}

// GetDashboard aggregates user and report statistics for the admin console.
// GET /api/v1/admin/dashboard
func (h *AdminHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.adminService.GetDashboard(c.Request.Context(), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "dashboard retrieved", dashboard)
}

// GetQueueStatus exposes the notification queue's redacted state.
// GET /api/v1/admin/email-queue
func (h *AdminHandler) GetQueueStatus(c *gin.Context) {
	utils.SuccessResponse(c, "queue status retrieved", h.adminService.GetQueueStatus())
}
