package domain

import "time"

// BotUser represents an end user of a bot on a messaging platform. Tags are
// free-form labels attached by operators or flows; broadcast targeting
// selects recipients by tag.
type BotUser struct {
	ID         string    `json:"id" db:"id"`
	BotID      string    `json:"bot_id" db:"bot_id"`
	Platform   string    `json:"platform" db:"platform"`
	ChatUserID string    `json:"chat_user_id" db:"chat_user_id"`
	FirstName  string    `json:"first_name" db:"first_name"`
	LastName   string    `json:"last_name" db:"last_name"`
	Language   string    `json:"language" db:"language"`
	Tags       []string  `json:"tags" db:"tags"`
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
