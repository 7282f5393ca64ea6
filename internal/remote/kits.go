package remote

import (
	"context"
	"net/url"

	"github.com/FlexEdwin/toolfinder-app/internal/model"
)

// KitsWithLikes is the primary aggregation read: kits pre-joined with like
// counts and the session's like flag, already sorted by the remote service
func (c *Client) KitsWithLikes(ctx context.Context, sessionID string) ([]model.RankedKit, error) {
	params := map[string]interface{}{
		"user_session_id": sessionID,
	}

	var kits []model.RankedKit
	if err := c.rpc(ctx, "get_kits_with_likes", params, &kits); err != nil {
		return nil, err
	}
	return kits, nil
}

// PopularKits returns the remote service's featured ranking
func (c *Client) PopularKits(ctx context.Context) ([]model.RankedKit, error) {
	var kits []model.RankedKit
	if err := c.rpc(ctx, "get_popular_kits", map[string]interface{}{}, &kits); err != nil {
		return nil, err
	}
	return kits, nil
}

// ListKitsWithItems reads all kits with their nested items and joined tool
// fields, newest first. Used by the fallback aggregation path.
func (c *Client) ListKitsWithItems(ctx context.Context) ([]model.Kit, error) {
	query := url.Values{}
	query.Set("select", "*,kit_items(tool_id,tools(name,part_number,category))")
	query.Set("order", "created_at.desc")

	var kits []model.Kit
	if err := c.selectRows(ctx, "kits", query, &kits); err != nil {
		return nil, err
	}
	return kits, nil
}

// ListKitLikes reads all like rows across all kits
func (c *Client) ListKitLikes(ctx context.Context) ([]model.KitLike, error) {
	query := url.Values{}
	query.Set("select", "kit_id,session_id")

	var likes []model.KitLike
	if err := c.selectRows(ctx, "kit_likes", query, &likes); err != nil {
		return nil, err
	}
	return likes, nil
}

// CreateKit inserts the kit header and returns the row with its generated id
func (c *Client) CreateKit(ctx context.Context, name, authorName string) (model.Kit, error) {
	payload := []map[string]interface{}{{
		"name":        name,
		"author_name": authorName,
	}}

	var created []model.Kit
	if err := c.insert(ctx, "kits", payload, &created); err != nil {
		return model.Kit{}, err
	}
	if len(created) == 0 {
		return model.Kit{}, nil
	}
	return created[0], nil
}

// InsertKitItems bulk-inserts the kit detail rows
func (c *Client) InsertKitItems(ctx context.Context, items []model.KitItem) error {
	payload := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		payload = append(payload, map[string]interface{}{
			"kit_id":  item.KitID,
			"tool_id": item.ToolID,
		})
	}
	return c.insert(ctx, "kit_items", payload, nil)
}

// DeleteKit removes a kit by id; dependent rows are the remote service's
// referential-integrity responsibility
func (c *Client) DeleteKit(ctx context.Context, id string) error {
	filters := url.Values{}
	filters.Set("id", "eq."+id)
	return c.deleteRows(ctx, "kits", filters)
}

// InsertKitLike records one session's vote for a kit
func (c *Client) InsertKitLike(ctx context.Context, kitID, sessionID string) error {
	payload := []map[string]interface{}{{
		"kit_id":     kitID,
		"session_id": sessionID,
	}}
	return c.insert(ctx, "kit_likes", payload, nil)
}

// DeleteKitLike removes one session's vote for a kit
func (c *Client) DeleteKitLike(ctx context.Context, kitID, sessionID string) error {
	filters := url.Values{}
	filters.Set("kit_id", "eq."+kitID)
	filters.Set("session_id", "eq."+sessionID)
	return c.deleteRows(ctx, "kit_likes", filters)
}
