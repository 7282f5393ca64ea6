package model

import "time"

// Tool represents a catalog item identified by a unique part number. Tools are
// owned by the remote catalog service; this service only ever holds snapshots.
type Tool struct {
	ID         string `json:"id"`
	PartNumber string `json:"part_number"`
	Name       string `json:"name"`
	Category   string `json:"category,omitempty"`
	Specs      string `json:"specs,omitempty"`
	Keywords   string `json:"keywords,omitempty"`
	ImageURL   string `json:"image_url,omitempty"`
}

// Kit is a named, published collection of tools attributed to an author.
type Kit struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AuthorName  string    `json:"author_name,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Items       []KitItem `json:"kit_items,omitempty"`
}

// KitItem links a kit to a tool. When kits are read with embedded tool rows
// the joined fields arrive under "tools".
type KitItem struct {
	KitID  string `json:"kit_id,omitempty"`
	ToolID string `json:"tool_id,omitempty"`
	Tool   *Tool  `json:"tools,omitempty"`
}

// KitLike is one anonymous session's vote for a kit. Unique per
// (kit_id, session_id) pair on the remote side.
type KitLike struct {
	KitID     string `json:"kit_id"`
	SessionID string `json:"session_id"`
}

// RankedKit is a kit annotated with its like count and whether the current
// anonymous session has liked it.
type RankedKit struct {
	Kit
	LikesCount    int  `json:"likes_count"`
	IsLikedByUser bool `json:"is_liked_by_user"`
}
