package handlers

import (
	"crimewatch/internal/middleware"
	"crimewatch/internal/services"
	"crimewatch/internal/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportHandler struct {
	reportService services.ReportService
}

func NewReportHandler(reportService services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// CreateReport files a new crime report for the authenticated user.
// POST /api/v1/reports
func (h *ReportHandler) CreateReport(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.CreateReportRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), actor, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "crime report submitted successfully", report)
}

// ListReports returns reports visible to the caller's role, filtered and
// paginated.
// GET /api/v1/reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var filters services.ReportFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidQueryParams)
		return
	}
	params := utils.GetPaginationParams(c)

	reports, meta, err := h.reportService.ListReports(c.Request.Context(), actor, &filters, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "reports retrieved", reports, &utils.Meta{Pagination: meta})
}

// GetReport returns a single report, enforcing anonymous-report access rules.
// GET /api/v1/reports/:id
func (h *ReportHandler) GetReport(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidReportID)
		return
	}

	report, err := h.reportService.GetReport(c.Request.Context(), actor, id)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "report retrieved", report)
}

// UpdateStatus moves a report through its lifecycle. Police and admin only.
// PUT /api/v1/reports/:id/status
func (h *ReportHandler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidReportID)
		return
	}

	var request services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	report, err := h.reportService.UpdateStatus(c.Request.Context(), actor, id, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "report status updated", report)
}

// ListFIRRequests returns reports awaiting FIR action. Defaults to pending.
// GET /api/v1/reports/fir/requests
func (h *ReportHandler) ListFIRRequests(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	reports, meta, err := h.reportService.ListFIRRequests(c.Request.Context(), c.Query("firStatus"), params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "fir requests retrieved", reports, &utils.Meta{Pagination: meta})
}

// UpdateFIR approves or rejects a pending FIR request. Police and admin only.
// PUT /api/v1/reports/:id/fir
func (h *ReportHandler) UpdateFIR(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidReportID)
		return
	}

	var request services.UpdateFIRRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	report, err := h.reportService.UpdateFIR(c.Request.Context(), actor, id, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "fir request "+request.Action+"d", report)
}

// MyReports lists the caller's own reports.
// GET /api/v1/reports/my-reports
func (h *ReportHandler) MyReports(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var filters services.ReportFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidQueryParams)
		return
	}
	params := utils.GetPaginationParams(c)

	reports, meta, err := h.reportService.MyReports(c.Request.Context(), actor, &filters, params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "your reports retrieved", reports, &utils.Meta{Pagination: meta})
}

// AssignedCases lists reports assigned to the calling officer.
// GET /api/v1/reports/assigned-cases
func (h *ReportHandler) AssignedCases(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	params := utils.GetPaginationParams(c)

	reports, meta, err := h.reportService.AssignedCases(c.Request.Context(), actor, c.Query("status"), params)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponseWithMeta(c, "assigned cases retrieved", reports, &utils.Meta{Pagination: meta})
}

// GetHeatmap returns weighted coordinates for map rendering.
// GET /api/v1/reports/heatmap/data
func (h *ReportHandler) GetHeatmap(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var filters services.ReportFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidQueryParams)
		return
	}

	points, err := h.reportService.GetHeatmapData(c.Request.Context(), actor, &filters)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "heatmap data retrieved", points)
}

// GetStats returns aggregate report statistics.
// GET /api/v1/reports/stats/summary
func (h *ReportHandler) GetStats(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var filters services.ReportFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidQueryParams)
		return
	}

	stats, err := h.reportService.GetStatsSummary(c.Request.Context(), actor, &filters)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "report statistics retrieved", stats)
}
