package handler

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lovesinghal31/backendcourse/internal/application/interfaces"
)

const userIdContextKey = "userId"

// RequireAuth verifies the access token from the accessToken cookie or the
// Authorization bearer header and stores the user id on the context.
func RequireAuth(tokens interfaces.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := accessTokenFrom(c)
			if token == "" {
				return respondError(c, errUnauthorizedRequest)
			}

			userId, err := tokens.VerifyAccessToken(token)
			if err != nil {
				return respondError(c, errInvalidAccessToken)
			}

			c.Set(userIdContextKey, userId)
			return next(c)
		}
	}
}

func accessTokenFrom(c echo.Context) string {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	auth := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func currentUserId(c echo.Context) (uuid.UUID, bool) {
	userId, ok := c.Get(userIdContextKey).(uuid.UUID)
	return userId, ok
}
