package handler

import (
	"net/http"

	"github.com/blogify-dev/blogify-api/internal/constants"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
	"github.com/blogify-dev/blogify-api/internal/service"
	ctxutil "github.com/blogify-dev/blogify-api/pkg/context"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetMe returns the authenticated user's profile
func (h *UserHandler) GetMe(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), c.Request, "handler", "GetMe")

	userID, ok := principalFromGin(c)
	if !ok {
		c.JSON(apperrors.ToHTTPStatus(apperrors.ErrMissingPrincipal), constants.BuildErrorResponse(apperrors.ErrMissingPrincipal.Message, nil))
		return
	}

	profile, err := h.userService.GetProfile(ctx, userID)
	if err != nil {
		logger.WarnWithContext(ctx, "Failed to load profile").
			Int("user_id", int(userID)).
			Err(err).
			Log()
		c.JSON(apperrors.ToHTTPStatus(err), constants.BuildErrorResponse("Failed to load profile", apperrors.GetErrorMessage(err)))
		return
	}

	c.JSON(http.StatusOK, constants.BuildDataResponse("Profile retrieved", profile))
}

func principalFromGin(c *gin.Context) (uint, bool) {
	val, exists := c.Get(constants.GinKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}
