package remote

import (
	"context"
	"net/url"

	"github.com/FlexEdwin/toolfinder-app/internal/model"
)

// SearchTools returns one page of server-ranked tools for the query. The
// ranking algorithm is the remote service's; ordering is only assumed stable
// for a fixed query and page.
func (c *Client) SearchTools(ctx context.Context, term, category string, page, perPage int) ([]model.Tool, error) {
	params := map[string]interface{}{
		"search_term":     term,
		"category_filter": category,
		"page_number":     page,
		"items_per_page":  perPage,
	}

	var tools []model.Tool
	if err := c.rpc(ctx, "search_tools_smart", params, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

// CountTools returns the total number of tools matching the query,
// independent of pagination
func (c *Client) CountTools(ctx context.Context, term, category string) (int, error) {
	params := map[string]interface{}{
		"search_term":     term,
		"category_filter": category,
	}

	var count int
	if err := c.rpc(ctx, "count_tools_smart", params, &count); err != nil {
		return 0, err
	}
	return count, nil
}

// DistinctCategories returns the distinct non-null category values currently
// in use
func (c *Client) DistinctCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.rpc(ctx, "get_distinct_categories", map[string]interface{}{}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// RenameCategory bulk-reassigns every tool carrying the old category value
func (c *Client) RenameCategory(ctx context.Context, oldName, newName string) error {
	params := map[string]interface{}{
		"old_name": oldName,
		"new_name": newName,
	}
	return c.rpc(ctx, "rename_category", params, nil)
}

// DeleteCategory bulk-clears the category field on every affected tool; the
// tools themselves survive uncategorized
func (c *Client) DeleteCategory(ctx context.Context, name string) error {
	params := map[string]interface{}{
		"target_name": name,
	}
	return c.rpc(ctx, "delete_category", params, nil)
}

// CreateTool inserts a new tool and returns the created row
func (c *Client) CreateTool(ctx context.Context, tool model.Tool) (model.Tool, error) {
	payload := []map[string]interface{}{toolFields(tool)}

	var created []model.Tool
	if err := c.insert(ctx, "tools", payload, &created); err != nil {
		return model.Tool{}, err
	}
	if len(created) == 0 {
		return model.Tool{}, nil
	}
	return created[0], nil
}

// UpdateTool patches an existing tool by id and returns the updated row
func (c *Client) UpdateTool(ctx context.Context, id string, tool model.Tool) (model.Tool, error) {
	filters := url.Values{}
	filters.Set("id", "eq."+id)

	var updated []model.Tool
	if err := c.update(ctx, "tools", filters, toolFields(tool), &updated); err != nil {
		return model.Tool{}, err
	}
	if len(updated) == 0 {
		return model.Tool{}, nil
	}
	return updated[0], nil
}

// DeleteTool removes a tool by id
func (c *Client) DeleteTool(ctx context.Context, id string) error {
	filters := url.Values{}
	filters.Set("id", "eq."+id)
	return c.deleteRows(ctx, "tools", filters)
}

func toolFields(tool model.Tool) map[string]interface{} {
	fields := map[string]interface{}{
		"part_number": tool.PartNumber,
		"name":        tool.Name,
		"specs":       tool.Specs,
		"keywords":    tool.Keywords,
		"image_url":   tool.ImageURL,
	}
	if tool.Category != "" {
		fields["category"] = tool.Category
	} else {
		fields["category"] = nil
	}
	return fields
}
