package model

import "time"

type OutboxStatus string

const (
	OutboxPending OutboxStatus = "pending"
	OutboxSent    OutboxStatus = "sent"
	OutboxFailed  OutboxStatus = "failed"
)

// OutboxMessage is a transactional email queued alongside the state change
// that triggered it. The dispatcher owns status/attempts.
type OutboxMessage struct {
	ID        int64        `json:"id"`
	Recipient string       `json:"recipient"`
	Subject   string       `json:"subject"`
	BodyHTML  string       `json:"-"`
	Status    OutboxStatus `json:"status"`
	Attempts  int          `json:"attempts"`
	LastError string       `json:"lastError,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	SentAt    *time.Time   `json:"sentAt,omitempty"`
}
