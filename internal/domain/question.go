package domain

import "time"

// QuestionAnswer links a question to the flow that answers it, optionally
// scoped to a bot-user group.
type QuestionAnswer struct {
	ID           string `json:"id"`
	FlowID       string `json:"flow_id"`
	BotUserGroup string `json:"bot_user_group,omitempty"`
}

// QuestionVariation is an alternate phrasing of a question used for intent
// matching in a single language.
type QuestionVariation struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Language string `json:"language"`
	Internal bool   `json:"internal"`
}

// Question represents an FAQ entry: localized question text, its topic, and
// the answer flows the bot replies with.
type Question struct {
	ID         string              `json:"id" db:"id"`
	Text       map[string]string   `json:"text" db:"text"`
	Topic      string              `json:"topic" db:"topic"`
	Keywords   []string            `json:"keywords" db:"keywords"`
	Answers    []QuestionAnswer    `json:"answers" db:"answers"`
	Variations []QuestionVariation `json:"alternate_questions" db:"variations"`
	Internal   bool                `json:"internal" db:"internal"`
	IsActive   bool                `json:"is_active" db:"is_active"`
	ActiveAt   *time.Time          `json:"active_at" db:"active_at"`
	ExpireAt   *time.Time          `json:"expire_at" db:"expire_at"`
	CreatedBy  string              `json:"created_by" db:"created_by"`
	UpdatedBy  string              `json:"updated_by" db:"updated_by"`
	CreatedAt  time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" db:"updated_at"`
}
