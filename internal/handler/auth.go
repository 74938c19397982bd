package handler

import (
	"net/http"

	"github.com/blogify-dev/blogify-api/config"
	"github.com/blogify-dev/blogify-api/internal/constants"
	"github.com/blogify-dev/blogify-api/internal/dto"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
	"github.com/blogify-dev/blogify-api/internal/service"
	ctxutil "github.com/blogify-dev/blogify-api/pkg/context"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	"github.com/blogify-dev/blogify-api/pkg/validation"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// Register creates a pending account and issues its verification code
func (h *AuthHandler) Register(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Register")

	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WarnWithContext(ctx, "Invalid register request").
			Err(err).
			Log()
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.BindingErrorMessages(err)))
		return
	}

	user, code, err := h.authService.Register(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Registration failed").
			String("email", req.Email).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Registration failed", apperrors.GetErrorMessage(err)))
		return
	}

	resp := dto.RegisterResponse{ID: user.ID, Email: user.Email}
	// The code travels out of band in production; echoing it elsewhere lets
	// clients complete the flow without a mail channel.
	if !h.cfg.IsProduction() {
		resp.OTPCode = code
	}

	c.JSON(http.StatusCreated, resp)
}

// VerifyEmail consumes the verification code and activates the account
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "VerifyEmail")

	var req dto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.BindingErrorMessages(err)))
		return
	}

	if err := h.authService.VerifyEmail(ctx, req.Email, req.OTPCode); err != nil {
		logger.WarnWithContext(ctx, "Email verification failed").
			String("email", req.Email).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Verification failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Email verified successfully"))
}

// Login authenticates credentials and returns a token pair
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Login")

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.BindingErrorMessages(err)))
		return
	}

	logger.InfoWithContext(ctx, "User login attempt").
		String("email", req.Email).
		Log()

	tokens, err := h.authService.Login(ctx, &req)
	if err != nil {
		logger.WarnWithContext(ctx, "Login failed").
			String("email", req.Email).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Authentication failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{Tokens: *tokens})
}

// ForgotPassword issues a password-reset code for a known account
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ForgotPassword")

	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.BindingErrorMessages(err)))
		return
	}

	code, err := h.authService.ForgotPassword(ctx, req.Email)
	if err != nil {
		logger.WarnWithContext(ctx, "Forgot password failed").
			String("email", req.Email).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Password reset request failed", apperrors.GetErrorMessage(err)))
		return
	}

	resp := dto.ForgotPasswordResponse{Message: "Password reset code sent"}
	if !h.cfg.IsProduction() {
		resp.OTPCode = code
	}

	c.JSON(http.StatusOK, resp)
}

// ResetPassword consumes the reset code and replaces the password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "ResetPassword")

	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.BindingErrorMessages(err)))
		return
	}

	if err := h.authService.ResetPassword(ctx, &req); err != nil {
		logger.WarnWithContext(ctx, "Password reset failed").
			String("email", req.Email).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Password reset failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Password reset successfully"))
}

// RefreshToken exchanges a valid refresh token for a new access token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "RefreshToken")

	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, constants.BuildErrorResponse("Invalid request format", validation.BindingErrorMessages(err)))
		return
	}

	access, err := h.authService.Refresh(ctx, req.RefreshToken)
	if err != nil {
		logger.WarnWithContext(ctx, "Token refresh failed").
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Token refresh failed", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, dto.RefreshTokenResponse{AccessToken: access})
}

// Logout acknowledges a logout. There is no server-side revocation list, so
// the client discards its tokens; a password change is the only way to
// invalidate outstanding tokens early.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "Logout")

	var req dto.LogoutRequest
	_ = c.ShouldBindJSON(&req)

	if userID, ok := ctxutil.GetUserID(c.Request.Context()); ok {
		logger.InfoWithContext(ctx, "User logged out").
			Int("user_id", int(userID)).
			Log()
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse("Logout successful"))
}
