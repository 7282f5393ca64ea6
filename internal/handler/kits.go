package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/kit"
	"github.com/FlexEdwin/toolfinder-app/internal/middleware"
	"github.com/FlexEdwin/toolfinder-app/internal/selection"
	"github.com/FlexEdwin/toolfinder-app/internal/session"
	"github.com/FlexEdwin/toolfinder-app/pkg/logger"
	"github.com/FlexEdwin/toolfinder-app/prometheus"
)

// PublishKitRequest defines the structure for kit publication requests. The
// kit's tools come from the session's selection, not the request body.
type PublishKitRequest struct {
	Name       string `json:"name"`
	AuthorName string `json:"author_name"`
}

// ToggleLikeRequest defines the structure for like toggle requests. The
// client has already applied the optimistic update; liked is the state it
// now shows.
type ToggleLikeRequest struct {
	Liked bool `json:"liked"`
}

// KitHandler serves the ranked kit view, publication, voting and deletion
type KitHandler struct {
	Kits      *kit.Service
	Selection *selection.Store
	Sessions  *session.Manager
}

// List retrieves the kits ranked by like count for the current session
func (h *KitHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)
	sessionID := middleware.SessionIDFromContext(c)

	kits, err := h.Kits.List(c.Request().Context(), sessionID)
	if err != nil {
		log.Error("Failed to retrieve kits", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Kits retrieved successfully", zap.Int("count", len(kits)))
	return c.JSON(http.StatusOK, kits)
}

// Popular retrieves the featured kit ranking
func (h *KitHandler) Popular(c echo.Context) error {
	log := logger.FromEcho(c)

	kits, err := h.Kits.Popular(c.Request().Context())
	if err != nil {
		log.Error("Failed to retrieve popular kits", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, kits)
}

// Publish creates a kit from the session's selection. On success the
// selection is cleared and the author name is remembered for next time; on
// failure the selection is left intact so the user can retry.
func (h *KitHandler) Publish(c echo.Context) error {
	log := logger.FromEcho(c)
	sessionID := middleware.SessionIDFromContext(c)

	var req PublishKitRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Kit publication request",
		zap.String("name", req.Name),
		zap.String("author", req.AuthorName))

	tools := h.Selection.Items(sessionID)
	published, err := h.Kits.Publish(c.Request().Context(), req.Name, req.AuthorName, tools)
	if err != nil {
		log.Error("Failed to publish kit",
			zap.String("name", req.Name),
			zap.Error(err))
		return respondError(c, err)
	}

	if err := h.Selection.Clear(sessionID); err != nil {
		log.Warn("Kit published but selection could not be cleared", zap.Error(err))
	}

	prefs := h.Sessions.Preferences(sessionID)
	prefs.AuthorName = req.AuthorName
	if err := h.Sessions.SavePreferences(sessionID, prefs); err != nil {
		log.Warn("Failed to remember author name", zap.Error(err))
	}

	prometheus.RecordKitOperation("publish")
	log.Info("Kit published successfully",
		zap.String("kit_id", published.ID),
		zap.Int("items", len(published.Items)))
	return c.JSON(http.StatusCreated, published)
}

// ToggleLike records or removes the session's vote for a kit. When the write
// fails, the response carries a freshly refetched kit list so the client can
// roll back its optimistic state to server truth.
func (h *KitHandler) ToggleLike(c echo.Context) error {
	log := logger.FromEcho(c)
	sessionID := middleware.SessionIDFromContext(c)
	kitID := c.Param("id")

	var req ToggleLikeRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	kits, err := h.Kits.ToggleLike(c.Request().Context(), kitID, sessionID, req.Liked)
	if err != nil {
		log.Error("Failed to toggle like",
			zap.String("kit_id", kitID),
			zap.Bool("liked", req.Liked),
			zap.Error(err))
		if kits != nil {
			return c.JSON(http.StatusBadGateway, echo.Map{
				"error": err.Error(),
				"kits":  kits,
			})
		}
		return respondError(c, err)
	}

	prometheus.RecordKitOperation("like")
	return c.JSON(http.StatusOK, echo.Map{"message": "Vote recorded"})
}

// Delete removes a kit (admin)
func (h *KitHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	kitID := c.Param("id")
	log.Info("Deleting kit", zap.String("kit_id", kitID))

	if err := h.Kits.Delete(c.Request().Context(), kitID); err != nil {
		log.Error("Failed to delete kit",
			zap.String("kit_id", kitID),
			zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordKitOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Kit deleted successfully"})
}
