package domain

import "time"

// Bot represents a chatbot instance managed by the console. Each bot is
// addressed by a short abbreviation (e.g. "hrbot") used in URLs and config.
type Bot struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Abbreviation string    `json:"abbreviation" db:"abbreviation"`
	Platforms    []string  `json:"platforms" db:"platforms"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
