package middleware

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/session"
	"github.com/FlexEdwin/toolfinder-app/pkg/logger"
)

// SessionHeader carries the anonymous session identifier. The browser stores
// the id it is handed and replays it on every request; likes and the
// selection cart are attributed to it without authentication.
const SessionHeader = "X-Session-ID"

// SessionMiddleware ensures every request carries an anonymous session id,
// minting one when the browser has none yet
func SessionMiddleware(manager *session.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sessionID := c.Request().Header.Get(SessionHeader)
			if sessionID == "" {
				sessionID = manager.NewID()
				logger.FromEcho(c).Info("Minted anonymous session id",
					zap.String("session_id", sessionID))
			}

			// Echo the id back so the browser can persist it
			c.Response().Header().Set(SessionHeader, sessionID)
			c.Set("session_id", sessionID)

			return next(c)
		}
	}
}

// SessionIDFromContext retrieves the anonymous session id from the context
func SessionIDFromContext(c echo.Context) string {
	sessionID, _ := c.Get("session_id").(string)
	return sessionID
}
