package middleware

import (
	"github.com/blogify-dev/blogify-api/internal/constants"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
	"github.com/blogify-dev/blogify-api/internal/model"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// RequirePermission gates a route on a named permission. It must run after
// RequireAuth; a missing principal means the chain is misordered and the
// request is rejected rather than silently allowed. The permission set is
// reloaded from the database so mid-session grants and revocations apply to
// the very next request.
func (m *AuthMiddleware) RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := principalID(c)
		if !ok {
			abortWithError(c, apperrors.ErrMissingPrincipal)
			return
		}

		ctx := c.Request.Context()
		user, err := m.users.FindByID(ctx, userID)
		if err != nil {
			abortWithError(c, err)
			return
		}

		// Suspended accounts keep read access through RequireAuth but
		// hold no effective permissions, super flag included.
		if user.Status == model.StatusSuspended || !user.HasPermission(permission) {
			logger.WarnWithContext(ctx, "Permission denied").
				Int("user_id", int(user.ID)).
				String("permission", permission).
				Log()
			abortWithError(c, apperrors.ErrForbidden)
			return
		}

		if user.IsSuper {
			c.Set(constants.GinKeyIsSuper, true)
		}

		c.Next()
	}
}

func principalID(c *gin.Context) (uint, bool) {
	val, exists := c.Get(constants.GinKeyUserID)
	if !exists {
		return 0, false
	}
	id, ok := val.(uint)
	return id, ok
}
