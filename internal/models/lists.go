package models

import "time"

// SavedKeyword is a keyword stored in a saved list
type SavedKeyword struct {
	Keyword string `json:"keyword" db:"keyword"`
	Volume  string `json:"volume" db:"volume"`
	Value   string `json:"value" db:"value"`
}

// SavedList is a named keyword list with its keywords in insertion order
type SavedList struct {
	ID        string         `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
	Keywords  []SavedKeyword `json:"keywords"`
}

// SavedListSummary is a list without its keywords
type SavedListSummary struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Count     int       `json:"count" db:"keyword_count"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateListRequest for POST /api/lists
type CreateListRequest struct {
	Name     string         `json:"name"`
	Keywords []SavedKeyword `json:"keywords"`
}

// RenameListRequest for PATCH /api/lists/{id}
type RenameListRequest struct {
	Name string `json:"name"`
}

// AddKeywordsRequest for POST /api/lists/{id}/keywords
type AddKeywordsRequest struct {
	Keywords []SavedKeyword `json:"keywords"`
}

// AddKeywordsResponse reports how many keywords were new
type AddKeywordsResponse struct {
	Added int        `json:"added"`
	List  *SavedList `json:"list"`
}
