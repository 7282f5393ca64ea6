package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/catalog"
	"github.com/FlexEdwin/toolfinder-app/pkg/logger"
	"github.com/FlexEdwin/toolfinder-app/prometheus"
)

// RenameCategoryRequest defines the structure for category rename requests
type RenameCategoryRequest struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// CategoryHandler serves the category list and the admin category mutations
type CategoryHandler struct {
	Categories *catalog.Categories
}

// List retrieves the distinct categories, led by the "All" sentinel
func (h *CategoryHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	categories, err := h.Categories.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to retrieve categories", zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Categories retrieved successfully", zap.Int("count", len(categories)))
	return c.JSON(http.StatusOK, categories)
}

// Rename bulk-reassigns all tools carrying the old category value (admin)
func (h *CategoryHandler) Rename(c echo.Context) error {
	log := logger.FromEcho(c)

	var req RenameCategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Category rename request",
		zap.String("old_name", req.OldName),
		zap.String("new_name", req.NewName))

	if err := h.Categories.Rename(c.Request().Context(), req.OldName, req.NewName); err != nil {
		log.Error("Failed to rename category",
			zap.String("old_name", req.OldName),
			zap.String("new_name", req.NewName),
			zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordCategoryOperation("rename")
	return c.JSON(http.StatusOK, echo.Map{"message": "Category renamed successfully"})
}

// Delete bulk-clears the category from its tools; they become uncategorized
// rather than deleted (admin)
func (h *CategoryHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	name := c.Param("name")
	log.Info("Deleting category", zap.String("name", name))

	if err := h.Categories.Delete(c.Request().Context(), name); err != nil {
		log.Error("Failed to delete category",
			zap.String("name", name),
			zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordCategoryOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Category deleted successfully"})
}
