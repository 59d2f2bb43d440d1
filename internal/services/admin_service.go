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

type AdminService interface {
	// User management
	ListUsers(ctx context.Context, filters *UserFilters, params *utils.PaginationParams) ([]*models.PublicProfile, *utils.PaginationMeta, error)
	GetUser(ctx context.Context, id primitive.ObjectID) (*models.PublicProfile, error)
	VerifyPoliceAccount(ctx context.Context, admin Actor, userID primitive.ObjectID, isVerified bool) (*models.PublicProfile, error)
	SetUserActive(ctx context.Context, admin Actor, userID primitive.ObjectID, isActive bool) (*models.PublicProfile, error)
	SetUserRole(ctx context.Context, admin Actor, userID primitive.ObjectID, role models.UserRole) (*models.PublicProfile, error)
	DeleteUser(ctx context.Context, admin Actor, userID primitive.ObjectID) error
	ListAvailableOfficers(ctx context.Context) ([]*models.PublicProfile, error)

	// Report oversight
	AssignOfficer(ctx context.Context, admin Actor, reportID, officerID primitive.ObjectID) (*ReportView, error)
	VerifyReport(ctx context.Context, admin Actor, reportID primitive.ObjectID, status models.VerificationStatus) (*ReportView, error)
	ListVerificationNeeded(ctx context.Context, params *utils.PaginationParams) ([]*ReportView, *utils.PaginationMeta, error)

	// Dashboard
	GetDashboard(ctx context.Context, startDate, endDate string) (*DashboardResponse, error)
	GetQueueStatus() *models.QueueStatus
}

type adminService struct {
	userRepo   interfaces.UserRepository
	reportRepo interfaces.ReportRepository
	queue      *notifications.Queue
	logger     *logger.Logger
}

func NewAdminService(userRepo interfaces.UserRepository, reportRepo interfaces.ReportRepository, queue *notifications.Queue, log *logger.Logger) AdminService {
	return &adminService{
		userRepo:   userRepo,
		reportRepo: reportRepo,
		queue:      queue,
		logger:     log,
	}
}

type UserFilters struct {
	Role       string `form:"role"`
	IsVerified string `form:"isVerified"`
	IsActive   string `form:"isActive"`
}

type DashboardResponse struct {
	UserStats     *models.UserStats       `json:"user_stats"`
	ReportStats   *models.ReportStats     `json:"report_stats"`
	RecentUsers   []*models.PublicProfile `json:"recent_users"`
	RecentReports []*ReportView           `json:"recent_reports"`
}

func (s *adminService) ListUsers(ctx context.Context, filters *UserFilters, params *utils.PaginationParams) ([]*models.PublicProfile, *utils.PaginationMeta, error) {
	filter := bson.M{}
	if filters != nil {
		if filters.Role != "" {
			filter["role"] = models.UserRole(filters.Role)
		}
		if filters.IsVerified != "" {
			filter["is_verified"] = filters.IsVerified == "true"
		}
		if filters.IsActive != "" {
			filter["is_active"] = filters.IsActive == "true"
		}
	}
	if params.Search != "" {
		searchFilter := params.GetSearchFilter([]string{"username", "email", "first_name", "last_name"})
		for k, v := range searchFilter {
			filter[k] = v
		}
	}

	users, total, err := s.userRepo.List(ctx, filter, params)
	if err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	return publicProfiles(users), utils.CreatePaginationMeta(params, total), nil
}

func (s *adminService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.PublicProfile(), nil
}

func (s *adminService) VerifyPoliceAccount(ctx context.Context, admin Actor, userID primitive.ObjectID, isVerified bool) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.Role != models.RolePolice {
		return nil, utils.NewValidationError("only police accounts can be verified")
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"is_verified": isVerified}); err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	user.IsVerified = isVerified
	s.logger.LogUserAction(admin.ID, "verify_police_account", map[string]interface{}{
		"target":   userID.Hex(),
		"verified": isVerified,
	})

	return user.PublicProfile(), nil
}

func (s *adminService) SetUserActive(ctx context.Context, admin Actor, userID primitive.ObjectID, isActive bool) (*models.PublicProfile, error) {
	if userID == admin.ID {
		return nil, utils.NewForbiddenError("cannot deactivate your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, userID, map[string]interface{}{"is_active": isActive}); err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	user.IsActive = isActive
	s.logger.LogUserAction(admin.ID, "set_user_active", map[string]interface{}{
		"target": userID.Hex(),
		"active": isActive,
	})

	return user.PublicProfile(), nil
}

func (s *adminService) SetUserRole(ctx context.Context, admin Actor, userID primitive.ObjectID, role models.UserRole) (*models.PublicProfile, error) {
	if userID == admin.ID {
		return nil, utils.NewForbiddenError("cannot change your own role")
	}
	if !role.Valid() {
		return nil, utils.NewValidationError("invalid role")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"role": role}

	// Role changes reset the verification state: citizens need none, and a
	// freshly minted officer must be re-verified by an admin.
	switch role {
	case models.RoleCitizen:
		updates["is_verified"] = true
		updates["badge_number"] = ""
		updates["department"] = ""
		user.BadgeNumber = ""
		user.Department = ""
		user.IsVerified = true
	case models.RolePolice:
		updates["is_verified"] = false
		user.IsVerified = false
	}

	if err := s.userRepo.Update(ctx, userID, updates); err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	user.Role = role
	s.logger.LogUserAction(admin.ID, "set_user_role", map[string]interface{}{
		"target": userID.Hex(),
		"role":   role,
	})

	return user.PublicProfile(), nil
}

func (s *adminService) DeleteUser(ctx context.Context, admin Actor, userID primitive.ObjectID) error {
	if userID == admin.ID {
		return utils.NewForbiddenError("cannot delete your own account")
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	reportCount, err := s.reportRepo.CountByReporter(ctx, userID)
	if err != nil {
		return utils.NewInternalError(utils.ErrInternalServer)
	}
	if reportCount > 0 {
		return utils.NewConflictError("cannot delete user with existing crime reports, deactivate instead")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.LogUserAction(admin.ID, "delete_user", map[string]interface{}{
		"target": userID.Hex(),
	})

	return nil
}

func (s *adminService) ListAvailableOfficers(ctx context.Context) ([]*models.PublicProfile, error) {
	officers, err := s.userRepo.ListActiveOfficers(ctx)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}
	return publicProfiles(officers), nil
}

func (s *adminService) AssignOfficer(ctx context.Context, admin Actor, reportID, officerID primitive.ObjectID) (*ReportView, error) {
	officer, err := s.userRepo.GetByID(ctx, officerID)
	if err != nil || officer.Role != models.RolePolice {
		return nil, utils.NewValidationError("invalid officer id")
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	report.AssignOfficer(officerID)

	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	s.logger.LogReportEvent(report.ID, "officer_assigned", map[string]interface{}{
		"officer": officerID.Hex(),
		"admin":   admin.ID.Hex(),
	})

	return NewReportView(report), nil
}

func (s *adminService) VerifyReport(ctx context.Context, admin Actor, reportID primitive.ObjectID, status models.VerificationStatus) (*ReportView, error) {
	if status != models.VerificationVerified && status != models.VerificationFalseReport {
		return nil, utils.NewValidationError("invalid verification status")
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}

	report.Verify(status, admin.ID)

	if err := s.reportRepo.Save(ctx, report); err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	s.logger.LogReportEvent(report.ID, "verification_updated", map[string]interface{}{
		"verification": status,
	})

	return NewReportView(report), nil
}

func (s *adminService) ListVerificationNeeded(ctx context.Context, params *utils.PaginationParams) ([]*ReportView, *utils.PaginationMeta, error) {
	filter := bson.M{"verification_status": models.VerificationUnverified}

	reports, total, err := s.reportRepo.List(ctx, filter, params)
	if err != nil {
		return nil, nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	return newReportViews(reports), utils.CreatePaginationMeta(params, total), nil
}

func (s *adminService) GetDashboard(ctx context.Context, startDate, endDate string) (*DashboardResponse, error) {
	filter := bson.M{}
	dateRange := bson.M{}
	if t, err := time.Parse(time.RFC3339, startDate); err == nil {
		dateRange["$gte"] = t
	}
	if t, err := time.Parse(time.RFC3339, endDate); err == nil {
		dateRange["$lte"] = t
	}
	if len(dateRange) > 0 {
		filter["created_at"] = dateRange
	}

	userStats, err := s.userRepo.GetUserStats(ctx, filter)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	reportStats, err := s.reportRepo.GetReportStats(ctx, filter)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	recentParams := &utils.PaginationParams{Page: 1, Limit: 5, Sort: "created_at", Order: "desc"}
	recentUsers, _, err := s.userRepo.List(ctx, bson.M{}, recentParams)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}
	recentReports, _, err := s.reportRepo.List(ctx, bson.M{}, recentParams)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	return &DashboardResponse{
		UserStats:     userStats,
		ReportStats:   reportStats,
		RecentUsers:   publicProfiles(recentUsers),
		RecentReports: newReportViews(recentReports),
	}, nil
}

func (s *adminService) GetQueueStatus() *models.QueueStatus {
	return s.queue.Status()
}

func publicProfiles(users []*models.User) []*models.PublicProfile {
	profiles := make([]*models.PublicProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.PublicProfile())
	}
	return profiles
}
