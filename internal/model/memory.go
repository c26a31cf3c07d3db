package model

import "time"

// Message is a single chat-style entry submitted for memorization.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Record is one stored memory as surfaced to callers. Score is only set on
// search results.
type Record struct {
	ID        string         `json:"id"`
	Memory    string         `json:"memory"`
	UserID    string         `json:"user_id"`
	Score     float64        `json:"score,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at,omitempty"`
}
