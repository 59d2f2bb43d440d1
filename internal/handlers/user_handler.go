package handlers

import (
	"crimewatch/internal/middleware"
	"crimewatch/internal/services"
	"crimewatch/internal/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	authService services.AuthService
}

func NewUserHandler(authService services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

// GetProfile returns the authenticated user's profile.
// GET /api/v1/users/me
func (h *UserHandler) GetProfile(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), actor)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "profile retrieved", profile)
}

// UpdateProfile updates mutable profile fields.
// PUT /api/v1/users/me
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), actor, &request)
	if err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "profile updated", profile)
}

// SaveFCMToken stores the device push token for the authenticated user.
// POST /api/v1/users/me/fcm-token
func (h *UserHandler) SaveFCMToken(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.UnauthorizedResponse(c)
		return
	}

	var request struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, utils.ErrInvalidRequestBody)
		return
	}

	if err := h.authService.SaveFCMToken(c.Request.Context(), actor, request.Token); err != nil {
		utils.AppErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, "fcm token saved", nil)
}
