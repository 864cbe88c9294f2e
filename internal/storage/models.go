package storage

import (
	"time"
)

// Search is one recorded query: its identity plus the totals learned from
// the first page. Re-running the same query updates the record in place.
type Search struct {
	ID           string    `json:"id"`
	Query        string    `json:"query"`
	TotalResults int       `json:"total_results"`
	PagesFetched []int     `json:"pages_fetched"`
	RanAt        time.Time `json:"ran_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SavedResult is one result item kept for later recall.
type SavedResult struct {
	ID          string    `json:"id"`
	SearchID    string    `json:"search_id"`
	Query       string    `json:"query"`
	Page        int       `json:"page"`
	Rank        int       `json:"rank"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Snippet     string    `json:"snippet"`
	DisplayLink string    `json:"display_link"`
	SavedAt     time.Time `json:"saved_at"`
}
