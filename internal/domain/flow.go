package domain

import "time"

// Flow represents a conversation flow: an ordered script of bot messages and
// actions triggered by a question answer or a broadcast. Names and other
// operator-facing text are localized per language code ("EN", "ZH", ...).
type Flow struct {
	ID             string            `json:"id" db:"id"`
	Name           map[string]string `json:"name" db:"name"`
	Type           string            `json:"type" db:"type"`
	Platforms      []string          `json:"platforms" db:"platforms"`
	TriggeredCount int               `json:"triggered_count" db:"triggered_count"`
	IsActive       bool              `json:"is_active" db:"is_active"`
	CreatedBy      string            `json:"created_by" db:"created_by"`
	UpdatedBy      string            `json:"updated_by" db:"updated_by"`
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at" db:"updated_at"`
}
