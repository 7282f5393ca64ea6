package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/middleware"
	"github.com/FlexEdwin/toolfinder-app/internal/model"
	"github.com/FlexEdwin/toolfinder-app/internal/selection"
	"github.com/FlexEdwin/toolfinder-app/pkg/logger"
	"github.com/FlexEdwin/toolfinder-app/prometheus"
)

// SelectionHandler serves the per-session selection cart
type SelectionHandler struct {
	Store *selection.Store
}

// Get retrieves the session's current selection
func (h *SelectionHandler) Get(c echo.Context) error {
	sessionID := middleware.SessionIDFromContext(c)
	tools := h.Store.Items(sessionID)

	return c.JSON(http.StatusOK, echo.Map{
		"tools": tools,
		"count": len(tools),
	})
}

// Toggle adds the tool to the session's selection, or removes it when it is
// already selected. The request carries a full tool snapshot: the cart must
// stay usable even if the tool changes or disappears remotely before publish.
func (h *SelectionHandler) Toggle(c echo.Context) error {
	log := logger.FromEcho(c)
	sessionID := middleware.SessionIDFromContext(c)

	var tool model.Tool
	if err := c.Bind(&tool); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if tool.ID == "" {
		log.Warn("Toggle request without tool id")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tool id is required"})
	}

	tools, selected, err := h.Store.Toggle(sessionID, tool)
	if err != nil {
		log.Error("Failed to toggle selection",
			zap.String("tool_id", tool.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to update selection"})
	}

	log.Info("Selection toggled",
		zap.String("tool_id", tool.ID),
		zap.Bool("selected", selected),
		zap.Int("count", len(tools)))
	prometheus.RecordSelectionOperation("toggle")

	return c.JSON(http.StatusOK, echo.Map{
		"tools":    tools,
		"count":    len(tools),
		"selected": selected,
	})
}

// Clear empties the session's selection
func (h *SelectionHandler) Clear(c echo.Context) error {
	log := logger.FromEcho(c)
	sessionID := middleware.SessionIDFromContext(c)

	if err := h.Store.Clear(sessionID); err != nil {
		log.Error("Failed to clear selection", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to clear selection"})
	}

	prometheus.RecordSelectionOperation("clear")
	return c.JSON(http.StatusOK, echo.Map{
		"tools": []model.Tool{},
		"count": 0,
	})
}
