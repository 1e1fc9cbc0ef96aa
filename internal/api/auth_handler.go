package api

import (
	"fmt"
	"net/http"

	"fitcoach/api/internal/auth"
	"fitcoach/api/internal/domain"
	"fitcoach/api/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/v1/auth"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService   service.AuthService
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookies: secureCookies}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Email     string  `json:"email" binding:"required"`
	Password  string  `json:"password" binding:"required"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	GymID     *string `json:"gym_id"`
}

// LoginRequest is the OAuth2 password form.
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangeRoleRequest struct {
	Role domain.Role `json:"role" binding:"required"`
}

// ProfileResponse is the caller's account with whichever profiles it owns.
type ProfileResponse struct {
	Account *domain.Account `json:"account"`
	Trainee *domain.Trainee `json:"trainee,omitempty"`
	Trainer *domain.Trainer `json:"trainer,omitempty"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new trainee
// @Description Creates an account with the trainee role and its trainee profile.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 200 {object} domain.Trainee "Trainee profile"
// @Failure 400 {object} gin.H "Invalid input or email already registered"
// @Failure 429 {object} gin.H "Too many requests"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	trainee, err := h.authService.Register(c.Request.Context(), service.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		GymID:     req.GymID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, trainee)
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for an access and refresh token pair.
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} auth.TokenPair
// @Failure 401 {object} gin.H "Incorrect email or password"
// @Router /auth/login/access-token [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	pair, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair)
	c.JSON(http.StatusOK, pair)
}

// Refresh godoc
// @Summary Refresh tokens
// @Description Issues a new token pair from a refresh token sent as cookie or JSON body.
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body RefreshRequest false "Refresh token when no cookie is sent"
// @Success 200 {object} auth.TokenPair
// @Failure 401 {object} gin.H "Invalid refresh token"
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, err := c.Cookie(refreshCookieName)
	if err != nil || token == "" {
		var req RefreshRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil || req.RefreshToken == "" {
			abortWithError(c, http.StatusUnauthorized, "Refresh token required")
			return
		}
		token = req.RefreshToken
	}

	pair, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, pair)
	c.JSON(http.StatusOK, pair)
}

// Me godoc
// @Summary Current account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}

	profile, err := h.authService.Me(c.Request.Context(), caller)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{
		Account: profile.Account,
		Trainee: profile.Trainee,
		Trainer: profile.Trainer,
	})
}

// ChangeRole godoc
// @Summary Change an account's role
// @Tags Accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Param body body ChangeRoleRequest true "New role"
// @Success 200 {object} domain.Account
// @Failure 403 {object} gin.H "Admins only"
// @Router /accounts/{id}/role [put]
func (h *AuthHandler) ChangeRole(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		return
	}
	accountID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	role, err := domain.ParseRole(string(req.Role))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	account, err := h.authService.ChangeRole(c.Request.Context(), caller, accountID, role)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, pair *auth.TokenPair) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		refreshCookieName,
		pair.RefreshToken,
		int(h.authService.RefreshTTL().Seconds()),
		refreshCookiePath,
		"",
		h.secureCookies,
		true,
	)
}
