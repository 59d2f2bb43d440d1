package handlers

import (
	"crimewatch/internal/services"
	"crimewatch/internal/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService services.AuthService
	jwtSecret   string
}

func NewAuthHandler(authService services.AuthService, jwtSecret string) *AuthHandler {
	return &AuthHandler{authService: authService, jwtSecret: jwtSecret}
}

// Register creates a citizen or police account.
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var request services.RegisterRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	response, err := h.authService.Register(c.Request.Context(), &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, "account created successfully", response)
}

// Login exchanges credentials for a token pair.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var request services.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	response, err := h.authService.Login(c.Request.Context(), &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "login successful", response)
}

// RefreshToken mints a fresh access token from a valid refresh token.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var request struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	tokens, err := utils.RefreshAccessToken(request.RefreshToken, h.jwtSecret)
	if err != nil {
		utils.UnauthorizedResponse(c)
		return
	}

	utils.SuccessResponse(c, "token refreshed", gin.H{"tokens": tokens})
}

// ForgotPassword queues a reset email. The response is identical whether or
// not the address is registered.
// POST /api/v1/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var request struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), request.Email); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "if the email is registered, a reset link has been sent", nil)
}

// ResetPassword consumes a reset token and sets a new password.
// POST /api/v1/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var request services.ResetPasswordRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &request); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "password reset successfully", nil)
}
