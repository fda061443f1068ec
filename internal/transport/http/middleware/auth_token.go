package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"renewal-tracker/internal/domain"
	resp "renewal-tracker/internal/transport/http/response"
)

const keyUser = "authUser"

// Authenticator resolves an opaque bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

// AuthToken rejects the request with 401 before any handler runs when the
// bearer token is absent, unknown or revoked. With requireAdmin set, a
// valid non-admin token gets 403.
func AuthToken(a Authenticator, requireAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			resp.AbortFail(c, http.StatusUnauthorized, resp.MsgUnauthenticated)
			return
		}
		u, err := a.Authenticate(c.Request.Context(), strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			resp.AbortFail(c, http.StatusUnauthorized, resp.MsgUnauthenticated)
			return
		}
		if requireAdmin && !u.IsAdmin {
			resp.AbortFail(c, http.StatusForbidden, resp.MsgForbidden)
			return
		}
		c.Set(keyUser, u)
		c.Next()
	}
}

// CurrentUser returns the user AuthToken stored on the context, or nil on
// routes outside the authenticated group.
func CurrentUser(c *gin.Context) *domain.User {
	if v, ok := c.Get(keyUser); ok {
		if u, ok := v.(*domain.User); ok {
			return u
		}
	}
	return nil
}
