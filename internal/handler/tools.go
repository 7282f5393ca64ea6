package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/catalog"
	"github.com/FlexEdwin/toolfinder-app/internal/model"
	"github.com/FlexEdwin/toolfinder-app/pkg/logger"
	"github.com/FlexEdwin/toolfinder-app/prometheus"
)

// ToolRequest defines the structure for tool creation/update requests
type ToolRequest struct {
	PartNumber string `json:"part_number"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Specs      string `json:"specs"`
	Keywords   string `json:"keywords"`
	ImageURL   string `json:"image_url"`
}

// ToolHandler serves the catalog search surface and the admin tool mutations
type ToolHandler struct {
	Query *catalog.Query
	Tools *catalog.Tools
}

// Search handles retrieving the accumulated search results for a query
func (h *ToolHandler) Search(c echo.Context) error {
	log := logger.FromEcho(c)
	search := c.QueryParam("search")
	category := c.QueryParam("category")

	log.Info("Searching tools",
		zap.String("search_term", search),
		zap.String("category", category))

	page, err := h.Query.Search(c.Request().Context(), search, category)
	prometheus.RecordCacheResult("tool_query", page.Cached)
	if err != nil {
		// Stale results stay available; the client decides whether to show
		// them under an error banner.
		if len(page.Tools) > 0 {
			log.Warn("Serving stale results with load error", zap.Error(err))
			return c.JSON(http.StatusOK, echo.Map{
				"tools":    page.Tools,
				"total":    page.Total,
				"has_more": page.HasMore,
				"stale":    true,
				"error":    err.Error(),
			})
		}
		log.Error("Failed to search tools", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, page)
}

// LoadMore handles appending the next page to the query's accumulation
func (h *ToolHandler) LoadMore(c echo.Context) error {
	log := logger.FromEcho(c)
	search := c.QueryParam("search")
	category := c.QueryParam("category")

	page, err := h.Query.LoadMore(c.Request().Context(), search, category)
	if err != nil {
		log.Error("Failed to load more tools",
			zap.String("search_term", search),
			zap.String("category", category),
			zap.Error(err))
		return respondError(c, err)
	}

	log.Info("Loaded more tools",
		zap.String("search_term", search),
		zap.String("category", category),
		zap.Int("accumulated", len(page.Tools)))
	return c.JSON(http.StatusOK, page)
}

// Count handles retrieving the total match count for a query
func (h *ToolHandler) Count(c echo.Context) error {
	log := logger.FromEcho(c)
	search := c.QueryParam("search")
	category := c.QueryParam("category")

	total, err := h.Query.Total(c.Request().Context(), search, category)
	if err != nil {
		log.Error("Failed to count tools", zap.Error(err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"count": total})
}

// Create handles creating a new tool (admin)
func (h *ToolHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req ToolRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	log.Info("Tool creation request",
		zap.String("part_number", req.PartNumber),
		zap.String("name", req.Name),
		zap.String("category", req.Category))

	created, err := h.Tools.Create(c.Request().Context(), toolFromRequest(req))
	if err != nil {
		log.Error("Failed to create tool",
			zap.String("part_number", req.PartNumber),
			zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordToolOperation("create")
	return c.JSON(http.StatusCreated, created)
}

// Update handles updating an existing tool (admin)
func (h *ToolHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")

	var req ToolRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data",
			zap.String("tool_id", id),
			zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	updated, err := h.Tools.Update(c.Request().Context(), id, toolFromRequest(req))
	if err != nil {
		log.Error("Failed to update tool",
			zap.String("tool_id", id),
			zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordToolOperation("update")
	return c.JSON(http.StatusOK, updated)
}

// Delete handles deleting a tool (admin)
func (h *ToolHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	id := c.Param("id")
	log.Info("Deleting tool", zap.String("tool_id", id))

	if err := h.Tools.Delete(c.Request().Context(), id); err != nil {
		log.Error("Failed to delete tool",
			zap.String("tool_id", id),
			zap.Error(err))
		return respondError(c, err)
	}

	prometheus.RecordToolOperation("delete")
	return c.JSON(http.StatusOK, echo.Map{"message": "Tool deleted successfully"})
}

func toolFromRequest(req ToolRequest) model.Tool {
	return model.Tool{
		PartNumber: req.PartNumber,
		Name:       req.Name,
		Category:   req.Category,
		Specs:      req.Specs,
		Keywords:   req.Keywords,
		ImageURL:   req.ImageURL,
	}
}
