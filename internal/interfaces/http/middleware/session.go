package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/easm/dashboard/internal/domain/identity"
	"github.com/easm/dashboard/internal/interfaces/http/dto"
)

// SessionKey is the gin context key of the session snapshot
const SessionKey = "session"

// VerifyingRetryAfter is the Retry-After hint, in seconds, sent while the
// session is still being verified.
const VerifyingRetryAfter = 1

// SessionReader exposes the current session
type SessionReader interface {
	Snapshot() identity.Session
}

// RouteGuard lets requests through only for an authenticated session.
// While the session is unresolved or verifying it answers 503 so the client
// shows a spinner and retries; an anonymous session gets 401 with a
// redirect to loginPath.
func RouteGuard(sessions SessionReader, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Snapshot()

		switch session.State {
		case identity.StateAuthenticated:
			c.Set(SessionKey, session)
			c.Next()
		case identity.StateAnonymous:
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedResponse(
				"Authentication required",
				GetRequestID(c),
				loginPath,
			))
		default:
			c.Header("Retry-After", strconv.Itoa(VerifyingRetryAfter))
			resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeSessionVerifying, "Session is being verified", GetRequestID(c))
			resp.Data = gin.H{"state": session.State}
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, resp)
		}
	}
}

// GetSession returns the session stored by RouteGuard
func GetSession(c *gin.Context) (identity.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return identity.Session{}, false
	}
	s, ok := v.(identity.Session)
	return s, ok
}
