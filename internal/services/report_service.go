package services

import (
	"context"
	"time"

	"crimewatch/internal/models"
	"crimewatch/internal/notifications"
	"crimewatch/internal/repositories/interfaces"
	"crimewatch/internal/utils"
	"crimewatch/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReportService interface {
	CreateReport(ctx context.Context, actor Actor, request *CreateReportRequest) (*ReportView, error)
	ListReports(ctx context.Context, actor Actor, filters *ReportFilters, params *utils.PaginationParams) ([]*ReportView, *utils.PaginationMeta, error)
	GetReport(ctx context.Context, actor Actor, id primitive.ObjectID) (*ReportView, error)
	UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, request *UpdateStatusRequest) (*ReportView, error)
	ListFIRRequests(ctx context.Context, firStatus string, params *utils.PaginationParams) ([]*ReportView, *utils.PaginationMeta, error)
	UpdateFIR(ctx context.Context, actor Actor, id primitive.ObjectID, request *UpdateFIRRequest) (*ReportView, error)
	MyReports(ctx context.Context, actor Actor, filters *ReportFilters, params *utils.PaginationParams) ([]*ReportView, *utils.PaginationMeta, error)
	AssignedCases(ctx context.Context, actor Actor, status string, params *utils.PaginationParams) ([]*ReportView, *utils.PaginationMeta, error)
	GetHeatmapData(ctx context.Context, actor Actor, filters *ReportFilters) ([]*models.HeatmapPoint, error)
	GetStatsSummary(ctx context.Context, actor Actor, filters *ReportFilters) (*models.ReportStats, error)
}

type reportService struct {
	reportRepo interfaces.ReportRepository
	userRepo   interfaces.UserRepository
	queue      *notifications.Queue
	logger     *logger.Logger
}

func NewReportService(reportRepo interfaces.ReportRepository, userRepo interfaces.UserRepository, queue *notifications.Queue, log *logger.Logger) ReportService {
	return &reportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		queue:      queue,
		logger:     log,
	}
}

type CreateReportRequest struct {
	Title         string                `json:"title" validate:"required,min=5,max=200"`
	Description   string                `json:"description" validate:"required,min=10,max=1000"`
	Category      string                `json:"category" validate:"required,report_category"`
	Severity      string                `json:"severity" validate:"required,report_severity"`
	Location      models.Location       `json:"location" validate:"required"`
	DateTime      time.Time             `json:"date_time" validate:"required"`
	IsAnonymous   bool                  `json:"is_anonymous"`
	FIRRequested  bool                  `json:"fir_requested"`
	Evidence      *models.Evidence      `json:"evidence"`
	EstimatedLoss *models.EstimatedLoss `json:"estimated_loss"`
	Witnesses     []models.Witness      `json:"witnesses"`
	Tags          []string              `json:"tags"`
	Priority      string                `json:"priority"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,report_status"`
	Note   string `json:"note"`
}

type UpdateFIRRequest struct {
	Action    string `json:"action" validate:"required,oneof=approve reject"`
	FIRNumber string `json:"fir_number" validate:"omitempty,min=3,max=50"`
	Note      string `json:"note"`
}

type ReportFilters struct {
	Category  string `form:"category"`
	Status    string `form:"status"`
	Severity  string `form:"severity"`
	City      string `form:"city"`
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// ReportView is the API shape of a report. The embedded document keeps its
// field layout; Reporter shadows the raw ObjectID so anonymous reports can
// present "Anonymous" instead.
type ReportView struct {
	*models.Report
	Reporter interface{} `json:"reporter"`
}

func NewReportView(report *models.Report) *ReportView {
	view := &ReportView{Report: report}
	if report.IsAnonymous {
		view.Reporter = utils.AnonymousReporter
	} else {
		view.Reporter = report.Reporter.Hex()
	}
	return view
}

func newReportViews(reports []*models.Report) []*ReportView {
	views := make([]*ReportView, 0, len(reports))
	for _, report := range reports {
		views = append(views, NewReportView(report))
	}
	return views
}

func (s *reportService) CreateReport(ctx context.Context, actor Actor, request *CreateReportRequest) (*ReportView, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationErrorWithDetails(utils.ErrValidationFailed, utils.ValidationDetails(err))
	}
	if !utils.IsValidCoordinates(request.Location.Coordinates.Lat, request.Location.Coordinates.Lng) {
		return nil, utils.NewValidationError("coordinates out of range")
	}

	priority := models.ReportPriority(request.Priority)
	if request.Priority == "" {
		priority = models.PriorityNormal
	}

	firStatus := models.FIRNotRequested
	if request.FIRRequested {
		firStatus = models.FIRPending
	}

	report := &models.Report{
		Reporter:     actor.ID,
		Title:        request.Title,
		Description:  request.Description,
		Category:     models.ReportCategory(request.Category),
		Severity:     models.ReportSeverity(request.Severity),
		Location:     request.Location,
		DateTime:     request.DateTime,
		IsAnonymous:  request.IsAnonymous,
		FIRRequested: request.FIRRequested,
		FIRStatus:    firStatus,
		Status:       models.StatusPending,
		Verification: models.VerificationUnverified,
		Priority:     priority,
		Witnesses:    request.Witnesses,
		Tags:         request.Tags,
	}
	if request.Evidence != nil {
		report.Evidence = *request.Evidence
	}
	report.EstimatedLoss = request.EstimatedLoss

	if err := s.reportRepo.Create(ctx, report); err != nil {
		s.logger.WithError(err).Error("Failed to persist crime report")
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	// FIR confirmation goes out only for named reporters. Delivery failure
	// is the queue's problem, never this request's.
	if report.FIRRequested && !report.IsAnonymous {
		if reporter, err := s.userRepo.GetByID(ctx, actor.ID); err == nil {
			s.queue.EnqueueFIRConfirmation(reporter.Email, reporter.FirstName, report)
			s.logger.WithReportID(report.ID).Infof("FIR confirmation email queued for %s", utils.MaskEmail(reporter.Email))
		} else {
			s.logger.WithError(err).WithReportID(report.ID).Warn("Could not load reporter for FIR confirmation")
		}
	}

	s.logger.LogReportEvent(report.ID, "created", map[string]interface{}{
		"category": report.Category,
		"severity": report.Severity,
		"fir":      report.FIRRequested,
	})

	return NewReportView(report), nil
}

func (s *reportService) ListReports(ctx context.Context, actor Actor, filters *ReportFilters, params *utils.PaginationParams) ([]*ReportView, *utils.PaginationMeta, error) {
	filter := buildReportFilter(filters, params)

	// Role-based visibility is applied on top of the request filters. Both
	// the free-text search and the citizen visibility rule are $or clauses,
	// so they combine under $and rather than clobbering each other.
	visibility := VisibleReportsFilter(actor)
	if len(visibility) > 0 {
		if _, clash := filter["$or"]; clash {
			filter = bson.M{"$and": []bson.M{filter, visibility}}
		} else {
			for k, v := range visibility {
				filter[k] = v
			}
		}
	}

	reports, total, err := s.reportRepo.List(ctx, filter, params)
	if err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	return newReportViews(reports), utils.CreatePaginationMeta(params, total), nil
}

func (s *reportService) GetReport(ctx context.Context, actor Actor, id primitive.ObjectID) (*ReportView, error) {
	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !CanViewReport(actor, report) {
		return nil, utils.NewForbiddenError(utils.ErrAccessDenied)
	}

	return NewReportView(report), nil
}

func (s *reportService) UpdateStatus(ctx context.Context, actor Actor, id primitive.ObjectID, request *UpdateStatusRequest) (*ReportView, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationErrorWithDetails(utils.ErrValidationFailed, utils.ValidationDetails(err))
	}

	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	report.UpdateStatus(models.ReportStatus(request.Status), actor.ID, request.Note)

	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	s.logger.LogReportEvent(report.ID, "status_updated", map[string]interface{}{
		"status":  report.Status,
		"officer": actor.ID.Hex(),
	})

	return NewReportView(report), nil
}

func (s *reportService) ListFIRRequests(ctx context.Context, firStatus string, params *utils.PaginationParams) ([]*ReportView, *utils.PaginationMeta, error) {
	filter := bson.M{}
	switch firStatus {
	case "", "pending":
		filter["fir_status"] = models.FIRPending
	case "all":
		filter["fir_status"] = bson.M{"$in": []models.FIRStatus{
			models.FIRPending, models.FIRApproved, models.FIRRejected,
		}}
	default:
		filter["fir_status"] = models.FIRStatus(firStatus)
	}

	reports, total, err := s.reportRepo.List(ctx, filter, params)
	if err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	return newReportViews(reports), utils.CreatePaginationMeta(params, total), nil
}

func (s *reportService) UpdateFIR(ctx context.Context, actor Actor, id primitive.ObjectID, request *UpdateFIRRequest) (*ReportView, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationErrorWithDetails(utils.ErrValidationFailed, utils.ValidationDetails(err))
	}

	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := report.UpdateFIR(models.FIRAction(request.Action), request.FIRNumber, actor.ID, request.Note); err != nil {
		return nil, utils.NewInvalidStateError(err.Error())
	}

	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	s.logger.LogReportEvent(report.ID, "fir_"+request.Action+"d", map[string]interface{}{
		"fir_status": report.FIRStatus,
		"fir_number": report.FIRNumber,
	})

	return NewReportView(report), nil
}

func (s *reportService) MyReports(ctx context.Context, actor Actor, filters *ReportFilters, params *utils.PaginationParams) ([]*ReportView, *utils.PaginationMeta, error) {
	filter := buildReportFilter(filters, params)
	filter["reporter"] = actor.ID

	reports, total, err := s.reportRepo.List(ctx, filter, params)
	if err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	return newReportViews(reports), utils.CreatePaginationMeta(params, total), nil
}

func (s *reportService) AssignedCases(ctx context.Context, actor Actor, status string, params *utils.PaginationParams) ([]*ReportView, *utils.PaginationMeta, error) {
	filter := bson.M{"assigned_officer": actor.ID}
	if status != "" {
		filter["status"] = models.ReportStatus(status)
	}

	reports, total, err := s.reportRepo.List(ctx, filter, params)
	if err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	return newReportViews(reports), utils.CreatePaginationMeta(params, total), nil
}

func (s *reportService) GetHeatmapData(ctx context.Context, actor Actor, filters *ReportFilters) ([]*models.HeatmapPoint, error) {
	filter := buildReportFilter(filters, nil)
	for k, v := range PublicHeatmapFilter(actor) {
		filter[k] = v
	}

	points, err := s.reportRepo.GetHeatmapData(ctx, filter)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}
	return points, nil
}

func (s *reportService) GetStatsSummary(ctx context.Context, actor Actor, filters *ReportFilters) (*models.ReportStats, error) {
	filter := buildReportFilter(filters, nil)
	for k, v := range PublicHeatmapFilter(actor) {
		filter[k] = v
	}

	stats, err := s.reportRepo.GetReportStats(ctx, filter)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}
	return stats, nil
}

// buildReportFilter translates query filters into a mongo filter. Dates are
// parsed leniently; unparseable bounds are ignored rather than rejected.
func buildReportFilter(filters *ReportFilters, params *utils.PaginationParams) bson.M {
	filter := bson.M{}
	if filters == nil {
		return filter
	}

	if filters.Category != "" {
		filter["category"] = models.ReportCategory(filters.Category)
	}
	if filters.Status != "" {
		filter["status"] = models.ReportStatus(filters.Status)
	}
	if filters.Severity != "" {
		filter["severity"] = models.ReportSeverity(filters.Severity)
	}
	if filters.City != "" {
		filter["location.city"] = bson.M{"$regex": filters.City, "$options": "i"}
	}

	dateRange := bson.M{}
	if t, err := time.Parse(time.RFC3339, filters.StartDate); err == nil {
		dateRange["$gte"] = t
	}
	if t, err := time.Parse(time.RFC3339, filters.EndDate); err == nil {
		dateRange["$lte"] = t
	}
	if len(dateRange) > 0 {
		filter["date_time"] = dateRange
	}

	if params != nil && params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"title", "description"})
		for k, v := range searchFilter {
			filter[k] = v
		}
	}

	return filter
}
