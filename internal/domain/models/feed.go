package models

import (
	"encoding/json"
	"time"
)

// FeedItem is one entry of a server-paginated news/event feed. The payload is
// kept opaque so the merge algorithm stays independent of what it contains.
type FeedItem struct {
	ID          string          `json:"id"`
	PublishedAt time.Time       `json:"published_at"`
	Payload     json.RawMessage `json:"payload,omitempty"`
}

// FeedPage is one page of a cursor-paginated feed response. A nil NextCursor
// signals exhaustion.
type FeedPage struct {
	Items      []FeedItem `json:"items"`
	NextCursor *string    `json:"next_cursor"`
}

// FeedFilters select which feed entries the server should return. Changing
// any field means a full loader reset, never a merge.
type FeedFilters struct {
	Sentiment string    `json:"sentiment,omitempty"`
	Category  string    `json:"category,omitempty"`
	From      time.Time `json:"from,omitempty"`
	To        time.Time `json:"to,omitempty"`
}

// FeedSnapshot is the loader state exposed to the presentation layer.
type FeedSnapshot struct {
	Items         []FeedItem `json:"items"`
	Cursor        *string    `json:"cursor"`
	IsLoadingMore bool       `json:"is_loading_more"`
}
