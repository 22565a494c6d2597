package domain

import "time"

// BroadcastStatus enumerates the lifecycle states of a broadcast dispatch.
// Transitions are one-way: pending -> sent or pending -> failed.
type BroadcastStatus string

const (
	BroadcastPending BroadcastStatus = "pending"
	BroadcastSent    BroadcastStatus = "sent"
	BroadcastFailed  BroadcastStatus = "failed"
)

// BroadcastTemplate holds the message content a broadcast sends. Content is
// a Liquid template rendered per recipient. A template stays editable until
// it has been dispatched at least once.
type BroadcastTemplate struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Platforms []string  `json:"platforms" db:"platforms"`
	FlowID    *string   `json:"flow_id" db:"flow_id"`
	Content   string    `json:"content" db:"content"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedBy string    `json:"created_by" db:"created_by"`
	UpdatedBy string    `json:"updated_by" db:"updated_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Broadcast is the persisted dispatch record for one planned broadcast: the
// template, the recipient selector it was planned with, the resolved
// recipient count, and the delivery status. Delivery itself is performed by
// the dispatch worker, not by the planner that creates this record.
type Broadcast struct {
	ID             string          `json:"id" db:"id"`
	TemplateID     string          `json:"template_id" db:"template_id"`
	Tags           []string        `json:"tags" db:"tags"`
	ExcludeTags    []string        `json:"exclude_tags" db:"exclude_tags"`
	Intersect      bool            `json:"intersect" db:"intersect"`
	SendToAll      bool            `json:"send_to_all" db:"send_to_all"`
	RecipientCount int             `json:"recipient_count" db:"recipient_count"`
	SentCount      int             `json:"sent_count" db:"sent_count"`
	FailedCount    int             `json:"failed_count" db:"failed_count"`
	Status         BroadcastStatus `json:"status" db:"status"`
	SentAt         *time.Time      `json:"sent_at" db:"sent_at"`
	CreatedBy      string          `json:"created_by" db:"created_by"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// IsTerminal returns true if the broadcast reached a final state.
func (b *Broadcast) IsTerminal() bool {
	return b.Status == BroadcastSent || b.Status == BroadcastFailed
}
