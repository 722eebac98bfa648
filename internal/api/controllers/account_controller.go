package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"lucidly/internal/models/db_models"
	"lucidly/internal/models/request_models"
	"lucidly/internal/services"
	"lucidly/pkg/middleware"
	"lucidly/pkg/utils"
)

type AccountController struct {
	accountService services.AccountServiceInterface
}

func NewAccountController(accountService services.AccountServiceInterface) *AccountController {
	return &AccountController{
		accountService: accountService,
	}
}

// Register godoc
// @Summary Register a new account
// @Description Create a new account and open a session for it
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.SignUpRequest true "Account registration payload"
// @Success 201 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /api/auth/register [post]
func (a *AccountController) Register(c *gin.Context) {
	var req request_models.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := a.accountService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondCreated(c, resp, "Account created successfully")
}

// Login godoc
// @Summary Login to an account
// @Description Authenticate a user and return a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/login [post]
func (a *AccountController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := a.accountService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Login successful")
}

// Logout godoc
// @Summary Logout
// @Description Revoke the session behind the bearer token. Unknown or expired tokens are accepted.
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/logout [post]
func (a *AccountController) Logout(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthenticated)
		return
	}

	if err := a.accountService.Logout(c.Request.Context(), token); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Logged out")
}

// Me godoc
// @Summary Current account
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/me [get]
func (a *AccountController) Me(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	resp, err := a.accountService.Me(c.Request.Context(), account.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "OK")
}

// UpdateProfile godoc
// @Summary Update profile fields
// @Description Only name, bio, avatar and is_profile_public can change here
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body request_models.UpdateProfileRequest true "Profile patch"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/me [patch]
func (a *AccountController) UpdateProfile(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	resp, err := a.accountService.UpdateProfile(c.Request.Context(), account.ID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Profile updated")
}

// DeleteAccount godoc
// @Summary Delete the account
// @Description Removes the account with all of its sessions and dreams
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/account [delete]
func (a *AccountController) DeleteAccount(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	if err := a.accountService.DeleteAccount(c.Request.Context(), account.ID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Account deleted")
}

// ResetTokens godoc
// @Summary Reset enrichment counters
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.APIResponse
// @Failure 401 {object} utils.APIResponse
// @Router /api/auth/reset-tokens [post]
func (a *AccountController) ResetTokens(c *gin.Context) {
	account, ok := requireAccount(c)
	if !ok {
		return
	}

	resp, err := a.accountService.ResetQuota(c.Request.Context(), account.ID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "Tokens reset")
}

func requireAccount(c *gin.Context) (*db_models.Account, bool) {
	account, ok := middleware.CurrentAccount(c)
	if !ok {
		utils.HandleServiceError(c, utils.ErrUnauthenticated)
		return nil, false
	}
	return account, true
}
