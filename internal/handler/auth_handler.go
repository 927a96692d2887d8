package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"hrkey/referencehub/internal/service"
	"hrkey/referencehub/pkg/response"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	requester, err := h.authService.Register(c.Request.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrEmailAlreadyRegistered):
			response.Conflict(c, err.Error())
		case errors.Is(err, service.ErrStoreUnavailable):
			response.ServiceUnavailable(c, "store unavailable, retry later")
		default:
			response.InternalError(c, "registration failed")
		}
		return
	}

	response.Success(c, gin.H{"requester_id": requester.ID})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	tokenSet, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Unauthorized(c, "invalid credentials")
		case errors.Is(err, service.ErrRequesterDisabled):
			response.Forbidden(c, "account is disabled")
		case errors.Is(err, service.ErrStoreUnavailable):
			response.ServiceUnavailable(c, "store unavailable, retry later")
		default:
			response.InternalError(c, "login failed")
		}
		return
	}

	response.Success(c, tokenSet)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	tokenSet, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshTokenInvalid):
			response.Unauthorized(c, "refresh token invalid or revoked")
		case errors.Is(err, service.ErrRequesterDisabled):
			response.Forbidden(c, "account is disabled")
		case errors.Is(err, service.ErrStoreUnavailable):
			response.ServiceUnavailable(c, "store unavailable, retry later")
		default:
			response.InternalError(c, "token refresh failed")
		}
		return
	}

	response.Success(c, tokenSet)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		if errors.Is(err, service.ErrRefreshTokenInvalid) {
			response.Unauthorized(c, "refresh token invalid or revoked")
			return
		}
		response.InternalError(c, "logout failed")
		return
	}

	response.Success(c, nil)
}
