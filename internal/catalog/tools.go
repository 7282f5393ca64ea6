package catalog

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/apperr"
	"github.com/FlexEdwin/toolfinder-app/internal/model"
)

// ToolAPI is the slice of the remote catalog service tool mutations need.
// part_number uniqueness is enforced remotely; a duplicate surfaces as a
// conflict error from the client.
type ToolAPI interface {
	CreateTool(ctx context.Context, tool model.Tool) (model.Tool, error)
	UpdateTool(ctx context.Context, id string, tool model.Tool) (model.Tool, error)
	DeleteTool(ctx context.Context, id string) error
}

type categoryInvalidator interface {
	Invalidate()
}

// Tools issues admin tool mutations and owns the cache-consistency contract:
// every mutation invalidates all cached tool queries immediately, and any
// mutation that can change the distinct category set also invalidates the
// category cache. Authorization is the caller's concern.
type Tools struct {
	remote     ToolAPI
	query      *Query
	categories categoryInvalidator
	logger     *zap.Logger
}

// NewTools creates the tool mutation service
func NewTools(remote ToolAPI, query *Query, categories categoryInvalidator, logger *zap.Logger) *Tools {
	return &Tools{
		remote:     remote,
		query:      query,
		categories: categories,
		logger:     logger,
	}
}

// Create inserts a new tool
func (t *Tools) Create(ctx context.Context, tool model.Tool) (model.Tool, error) {
	if err := validateTool(tool); err != nil {
		return model.Tool{}, err
	}

	created, err := t.remote.CreateTool(ctx, tool)
	if err != nil {
		t.logger.Error("Failed to create tool",
			zap.String("part_number", tool.PartNumber),
			zap.Error(err))
		return model.Tool{}, err
	}

	t.invalidate()
	t.logger.Info("Tool created",
		zap.String("tool_id", created.ID),
		zap.String("part_number", created.PartNumber),
		zap.String("name", created.Name),
		zap.String("category", created.Category))
	return created, nil
}

// Update patches an existing tool
func (t *Tools) Update(ctx context.Context, id string, tool model.Tool) (model.Tool, error) {
	if id == "" {
		return model.Tool{}, apperr.Validationf("tool id is required")
	}
	if err := validateTool(tool); err != nil {
		return model.Tool{}, err
	}

	updated, err := t.remote.UpdateTool(ctx, id, tool)
	if err != nil {
		t.logger.Error("Failed to update tool",
			zap.String("tool_id", id),
			zap.Error(err))
		return model.Tool{}, err
	}

	t.invalidate()
	t.logger.Info("Tool updated",
		zap.String("tool_id", id),
		zap.String("part_number", updated.PartNumber))
	return updated, nil
}

// Delete removes a tool
func (t *Tools) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.Validationf("tool id is required")
	}

	if err := t.remote.DeleteTool(ctx, id); err != nil {
		t.logger.Error("Failed to delete tool",
			zap.String("tool_id", id),
			zap.Error(err))
		return err
	}

	t.invalidate()
	t.logger.Info("Tool deleted", zap.String("tool_id", id))
	return nil
}

func (t *Tools) invalidate() {
	t.query.Invalidate()
	t.categories.Invalidate()
}

func validateTool(tool model.Tool) error {
	if strings.TrimSpace(tool.PartNumber) == "" {
		return apperr.Validationf("part_number is required")
	}
	if strings.TrimSpace(tool.Name) == "" {
		return apperr.Validationf("name is required")
	}
	if tool.Category == SentinelAll {
		return apperr.Validationf("%q is a reserved category name", SentinelAll)
	}
	return nil
}
