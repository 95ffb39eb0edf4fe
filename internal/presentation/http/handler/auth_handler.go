package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/brewpos-api/internal/application/service"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/request"
	"github.com/sangkips/brewpos-api/internal/presentation/http/dto/response"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles staff login with email and password
// @Summary Login
// @Description Authenticate a staff member and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", loginPayload(output))
}

// LoginWithPIN handles the till login with a store and staff PIN
// @Summary PIN login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.PINLoginRequest true "Store and PIN"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/pin [post]
func (h *AuthHandler) LoginWithPIN(c *gin.Context) {
	var req request.PINLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		response.BadRequest(c, "Invalid store_id format")
		return
	}

	output, err := h.authService.LoginWithPIN(c.Request.Context(), &service.PINLoginInput{
		StoreID: storeID,
		PIN:     req.PIN,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", loginPayload(output))
}

// GetProfile handles fetching the authenticated staff member
// @Summary Get Profile
// @Tags auth
// @Security BearerAuth
// @Success 200 {object} response.APIResponse
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	staff, err := h.authService.Profile(c.Request.Context(), actor.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", gin.H{
		"staff":       staff,
		"permissions": staff.Permissions(),
	})
}

func loginPayload(output *service.LoginOutput) gin.H {
	return gin.H{
		"staff":        output.Staff,
		"permissions":  output.Staff.Permissions(),
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_in":   output.ExpiresIn,
	}
}
