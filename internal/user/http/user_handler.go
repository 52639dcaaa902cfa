// Package http provides HTTP handlers for account operations: registration,
// login, logout, and password reset.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	authHTTP "github.com/allisson/litenotes/internal/auth/http"
	apperrors "github.com/allisson/litenotes/internal/errors"
	"github.com/allisson/litenotes/internal/httputil"
	"github.com/allisson/litenotes/internal/user/http/dto"
	"github.com/allisson/litenotes/internal/user/usecase"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	userUseCase usecase.UseCase
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userUseCase usecase.UseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		userUseCase: userUseCase,
		logger:      logger,
	}
}

// RegisterHandler handles user registration.
// POST /v1/users - Returns 201 Created with the new user.
func (h *UserHandler) RegisterHandler(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	user, err := h.userUseCase.Register(c.Request.Context(), dto.ToRegisterInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserResponse(user))
}

// LoginHandler handles user login.
// POST /v1/login - Returns 200 OK with the bearer token and its expiry.
func (h *UserHandler) LoginHandler(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	output, err := h.userUseCase.Login(c.Request.Context(), dto.ToLoginInput(req))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.ToLoginResponse(output))
}

// LogoutHandler handles user logout. Requires authentication.
// POST /v1/logout - Returns 204 No Content.
func (h *UserHandler) LogoutHandler(c *gin.Context) {
	identity, ok := authHTTP.GetIdentity(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	tokenHash, ok := authHTTP.GetTokenHash(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	if err := h.userUseCase.Logout(c.Request.Context(), identity.UserID, tokenHash); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

// PasswordResetHandler starts a password reset.
// POST /v1/password-reset - Always returns 202 Accepted with a generic
// acknowledgement so the response never reveals whether the email exists.
func (h *UserHandler) PasswordResetHandler(c *gin.Context) {
	var req dto.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.userUseCase.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		// Validation failures are the caller's problem; anything else is
		// logged and hidden behind the generic acknowledgement.
		if apperrors.Is(err, apperrors.ErrInvalidInput) {
			httputil.HandleErrorGin(c, err, h.logger)
			return
		}
		h.logger.Error("password reset request failed", slog.Any("error", err))
	}

	c.JSON(http.StatusAccepted, dto.PasswordResetAckResponse{
		Message: "If that email is registered, a reset link has been sent.",
	})
}

// PasswordResetConfirmHandler completes a password reset.
// POST /v1/password-reset/confirm - Returns 204 No Content on success.
func (h *UserHandler) PasswordResetConfirmHandler(c *gin.Context) {
	var req dto.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if err := h.userUseCase.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}
