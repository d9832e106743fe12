package models

import "time"

// KeywordResponse represents a canned reply stored under a keyword.
type KeywordResponse struct {
	Keyword   string    `json:"keyword"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
