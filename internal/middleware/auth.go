package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/blogify-dev/blogify-api/internal/constants"
	apperrors "github.com/blogify-dev/blogify-api/internal/errors"
	"github.com/blogify-dev/blogify-api/internal/model"
	"github.com/blogify-dev/blogify-api/internal/service"
	ctxutil "github.com/blogify-dev/blogify-api/pkg/context"
	"github.com/blogify-dev/blogify-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// UserGetter loads a user by ID. Satisfied by service.UserService; tests
// provide a fake.
type UserGetter interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// AuthMiddleware is the authentication gate in front of protected routes
type AuthMiddleware struct {
	tokens *service.TokenService
	users  UserGetter
}

func NewAuthMiddleware(tokens *service.TokenService, users UserGetter) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		users:  users,
	}
}

// RequireAuth validates the bearer token, re-checks the account against the
// database and puts the principal into both the gin context and the request
// context. Suspended accounts pass authentication but fail every named
// permission; pending, inactive and deleted accounts are rejected here.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abortWithError(c, apperrors.ErrInvalidToken)
			return
		}

		claims, err := m.tokens.Validate(tokenString, service.TokenClassAccess)
		if err != nil {
			abortWithError(c, apperrors.ErrInvalidToken)
			return
		}

		userID, err := claims.SubjectID()
		if err != nil {
			abortWithError(c, apperrors.ErrInvalidToken)
			return
		}

		ctx := c.Request.Context()
		user, err := m.users.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, apperrors.ErrUserNotFound) {
				abortWithError(c, apperrors.ErrUserGone)
				return
			}
			abortWithError(c, apperrors.ErrInternal)
			return
		}

		switch user.Status {
		case model.StatusPending:
			abortWithError(c, apperrors.ErrAccountPending)
			return
		case model.StatusInactive:
			abortWithError(c, apperrors.ErrAccountInactive)
			return
		case model.StatusDeleted:
			abortWithError(c, apperrors.ErrAccountDeleted)
			return
		}

		if user.PasswordChangedAfter(claims.IssuedAt.Time) {
			logger.WarnWithContext(ctx, "Token predates password change").
				Int("user_id", int(user.ID)).
				Log()
			abortWithError(c, apperrors.ErrStaleToken)
			return
		}

		c.Set(constants.GinKeyUserID, user.ID)
		c.Set(constants.GinKeyIsSuper, user.IsSuper)

		ctx = ctxutil.WithUserID(ctx, user.ID)
		ctx = ctxutil.WithIsSuper(ctx, user.IsSuper)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// bearerToken extracts the token from the Authorization header
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(
		apperrors.ToHTTPStatus(err),
		constants.BuildErrorResponse(apperrors.GetErrorMessage(err), nil),
	)
}
