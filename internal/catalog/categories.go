package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FlexEdwin/toolfinder-app/internal/apperr"
)

// CategoryAPI is the slice of the remote catalog service the category layer
// needs. Renames and deletes are bulk reassignments over all tools carrying
// the value, performed atomically on the remote side.
type CategoryAPI interface {
	DistinctCategories(ctx context.Context) ([]string, error)
	RenameCategory(ctx context.Context, oldName, newName string) error
	DeleteCategory(ctx context.Context, name string) error
}

// toolInvalidator lets category mutations fan out into the tool query cache,
// whose cached rows embed now-stale category values
type toolInvalidator interface {
	Invalidate()
}

// Categories is the cached list of distinct categories. Categories change
// rarely, so the freshness window is long; mutations invalidate immediately.
type Categories struct {
	mu        sync.Mutex
	remote    CategoryAPI
	tools     toolInvalidator
	logger    *zap.Logger
	freshness time.Duration
	values    []string
	fetchedAt time.Time
}

// NewCategories creates the category query layer
func NewCategories(remote CategoryAPI, tools toolInvalidator, freshness time.Duration, logger *zap.Logger) *Categories {
	return &Categories{
		remote:    remote,
		tools:     tools,
		logger:    logger,
		freshness: freshness,
	}
}

// List returns the current category list, always led by the "All" sentinel
func (c *Categories) List(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	if c.values != nil && time.Since(c.fetchedAt) < c.freshness {
		values := c.values
		c.mu.Unlock()
		return withSentinel(values), nil
	}
	c.mu.Unlock()

	values, err := c.remote.DistinctCategories(ctx)
	if err != nil {
		c.logger.Warn("Failed to fetch categories", zap.Error(err))
		return nil, err
	}

	c.mu.Lock()
	c.values = values
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	c.logger.Info("Categories refreshed", zap.Int("count", len(values)))
	return withSentinel(values), nil
}

// Rename bulk-reassigns every tool carrying the old category value, then
// invalidates both the category cache and all cached tool queries
func (c *Categories) Rename(ctx context.Context, oldName, newName string) error {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return apperr.Validationf("category names must not be empty")
	}
	if oldName == SentinelAll || newName == SentinelAll {
		return apperr.Validationf("%q is a reserved category name", SentinelAll)
	}
	if oldName == newName {
		return nil
	}

	if err := c.remote.RenameCategory(ctx, oldName, newName); err != nil {
		return err
	}

	c.Invalidate()
	c.tools.Invalidate()
	c.logger.Info("Category renamed",
		zap.String("old_name", oldName),
		zap.String("new_name", newName))
	return nil
}

// Delete bulk-clears the category field on affected tools (they become
// uncategorized, not deleted), with the same invalidation fan-out as Rename
func (c *Categories) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperr.Validationf("category name must not be empty")
	}
	if name == SentinelAll {
		return apperr.Validationf("%q is a reserved category name", SentinelAll)
	}

	if err := c.remote.DeleteCategory(ctx, name); err != nil {
		return err
	}

	c.Invalidate()
	c.tools.Invalidate()
	c.logger.Info("Category deleted", zap.String("name", name))
	return nil
}

// Invalidate discards the cached category list
func (c *Categories) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = nil
	c.fetchedAt = time.Time{}
}

func withSentinel(values []string) []string {
	out := make([]string, 0, len(values)+1)
	out = append(out, SentinelAll)
	out = append(out, values...)
	return out
}
