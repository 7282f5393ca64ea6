package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/apperr"
	"github.com/FlexEdwin/toolfinder-app/internal/middleware"
	"github.com/FlexEdwin/toolfinder-app/internal/session"
	"github.com/FlexEdwin/toolfinder-app/pkg/logger"
)

// PreferencesHandler serves the per-session preferences (last-used author
// name, grid/list view mode)
type PreferencesHandler struct {
	Sessions *session.Manager
}

// Get retrieves the session's preferences
func (h *PreferencesHandler) Get(c echo.Context) error {
	sessionID := middleware.SessionIDFromContext(c)
	return c.JSON(http.StatusOK, h.Sessions.Preferences(sessionID))
}

// Put stores the session's preferences
func (h *PreferencesHandler) Put(c echo.Context) error {
	log := logger.FromEcho(c)
	sessionID := middleware.SessionIDFromContext(c)

	var prefs session.Preferences
	if err := c.Bind(&prefs); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	if err := h.Sessions.SavePreferences(sessionID, prefs); err != nil {
		if apperr.IsValidation(err) {
			return respondError(c, err)
		}
		log.Error("Failed to save preferences", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save preferences"})
	}

	return c.JSON(http.StatusOK, prefs)
}
