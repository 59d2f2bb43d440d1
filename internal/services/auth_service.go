package services

import (
	"context"
	"time"

	"crimewatch/internal/models"
	"crimewatch/internal/notifications"
	"crimewatch/internal/repositories/interfaces"
	"crimewatch/internal/utils"
	"crimewatch/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, request *ResetPasswordRequest) error
	GetProfile(ctx context.Context, actor Actor) (*models.PublicProfile, error)
	UpdateProfile(ctx context.Context, actor Actor, request *UpdateProfileRequest) (*models.PublicProfile, error)
	SaveFCMToken(ctx context.Context, actor Actor, token string) error
}

type authService struct {
	userRepo  interfaces.UserRepository
	queue     *notifications.Queue
	jwtSecret string
	clientURL string
	logger    *logger.Logger
}

func NewAuthService(userRepo interfaces.UserRepository, queue *notifications.Queue, jwtSecret, clientURL string, log *logger.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		queue:     queue,
		jwtSecret: jwtSecret,
		clientURL: clientURL,
		logger:    log,
	}
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=30"`
	FirstName   string `json:"first_name" validate:"required,min=2,max=50"`
	LastName    string `json:"last_name" validate:"required,min=2,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,strong_password"`
	Phone       string `json:"phone"`
	Role        string `json:"role" validate:"omitempty,user_role"`
	BadgeNumber string `json:"badge_number"`
	Department  string `json:"department"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,strong_password"`
}

type UpdateProfileRequest struct {
	FirstName string          `json:"first_name" validate:"omitempty,min=2,max=50"`
	LastName  string          `json:"last_name" validate:"omitempty,min=2,max=50"`
	Phone     string          `json:"phone"`
	Address   *models.Address `json:"address"`
}

type AuthResponse struct {
	User   *models.PublicProfile `json:"user"`
	Tokens *utils.TokenPair      `json:"tokens"`
}

func (s *authService) Register(ctx context.Context, request *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationErrorWithDetails(utils.ErrValidationFailed, utils.ValidationDetails(err))
	}

	email := utils.NormalizeEmail(request.Email)
	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, utils.NewConflictError(utils.ErrUserExists)
	}

	role := models.UserRole(request.Role)
	if request.Role == "" {
		role = models.RoleCitizen
	}
	if role == models.RoleAdmin {
		// Admin accounts are provisioned out of band, never self-registered.
		return nil, utils.NewForbiddenError(utils.ErrForbidden)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	user := &models.User{
		Username:  request.Username,
		FirstName: request.FirstName,
		LastName:  request.LastName,
		Email:     email,
		Password:  string(hashed),
		Phone:     request.Phone,
		Role:      role,
		IsActive:  true,
		// Citizens are trusted immediately; police accounts wait for admin
		// verification.
		IsVerified:  role == models.RoleCitizen,
		BadgeNumber: request.BadgeNumber,
		Department:  request.Department,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.jwtSecret)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	s.logger.LogUserAction(user.ID, "registered", map[string]interface{}{"role": user.Role})

	return &AuthResponse{User: user.PublicProfile(), Tokens: tokens}, nil
}

func (s *authService) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationErrorWithDetails(utils.ErrValidationFailed, utils.ValidationDetails(err))
	}

	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(request.Email))
	if err != nil {
		return nil, utils.NewUnauthorizedError(utils.ErrInvalidCredentials)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		return nil, utils.NewUnauthorizedError(utils.ErrInvalidCredentials)
	}

	if !user.IsActive {
		return nil, utils.NewForbiddenError("account is deactivated")
	}

	tokens, err := utils.GenerateTokenPair(user.ID, string(user.Role), user.Email, s.jwtSecret)
	if err != nil {
		return nil, utils.NewInternalError(utils.ErrInternalServer)
	}

	s.logger.LogUserAction(user.ID, "login", nil)

	return &AuthResponse{User: user.PublicProfile(), Tokens: tokens}, nil
}

// ForgotPassword always succeeds from the caller's perspective so the
// endpoint cannot be used to probe which emails are registered. The reset
// email rides the notification queue like every other transactional send.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, utils.NormalizeEmail(email))
	if err != nil {
		return nil
	}

	token := utils.GeneratePasswordResetToken()
	updates := map[string]interface{}{
		"reset_token":        token,
		"reset_token_expiry": time.Now().Add(utils.ResetTokenExpiry),
	}
	if err := s.userRepo.Update(ctx, user.ID, updates); err != nil {
		return utils.NewInternalError(utils.ErrInternalServer)
	}

	resetURL := utils.CreatePasswordResetLink(s.clientURL, token)
	s.queue.EnqueuePasswordReset(user.Email, user.FirstName, resetURL)

	s.logger.WithUserID(user.ID).Infof("Password reset email queued for %s", utils.MaskEmail(user.Email))

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, request *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(request); err != nil {
		return utils.NewValidationErrorWithDetails(utils.ErrValidationFailed, utils.ValidationDetails(err))
	}

	user, err := s.userRepo.GetByResetToken(ctx, request.Token)
	if err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return utils.NewInternalError(utils.ErrInternalServer)
	}

	updates := map[string]interface{}{
		"password":           string(hashed),
		"reset_token":        "",
		"reset_token_expiry": time.Time{},
	}
	if err := s.userRepo.Update(ctx, user.ID, updates); err != nil {
		return utils.NewInternalError(utils.ErrInternalServer)
	}

	s.logger.LogUserAction(user.ID, "password_reset", nil)

	return nil
}

func (s *authService) GetProfile(ctx context.Context, actor Actor) (*models.PublicProfile, error) {
	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return user.PublicProfile(), nil
}

func (s *authService) UpdateProfile(ctx context.Context, actor Actor, request *UpdateProfileRequest) (*models.PublicProfile, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, utils.NewValidationErrorWithDetails(utils.ErrValidationFailed, utils.ValidationDetails(err))
	}

	updates := map[string]interface{}{}
	if request.FirstName != "" {
		updates["first_name"] = request.FirstName
	}
	if request.LastName != "" {
		updates["last_name"] = request.LastName
	}
	if request.Phone != "" {
		updates["phone"] = request.Phone
	}
	if request.Address != nil {
		updates["address"] = request.Address
	}

	if len(updates) > 0 {
		if err := s.userRepo.Update(ctx, actor.ID, updates); err != nil {
			return nil, err
		}
	}

	user, err := s.userRepo.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return user.PublicProfile(), nil
}

func (s *authService) SaveFCMToken(ctx context.Context, actor Actor, token string) error {
	if token == "" {
		return utils.NewValidationError("fcm token is required")
	}
	return s.userRepo.Update(ctx, actor.ID, map[string]interface{}{"fcm_token": token})
}
