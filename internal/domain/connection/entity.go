package connection

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the relationship state between two users
// (matches connection_status enum)
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusBlocked  Status = "blocked"
)

// Connection represents the single relationship record for a user pair.
// FromUserID is the initiator of the current status: the requester for
// pending/accepted/rejected, the blocker for blocked.
type Connection struct {
	ID         uuid.UUID `db:"id" json:"id"`
	FromUserID uuid.UUID `db:"from_user_id" json:"from_user_id"`
	ToUserID   uuid.UUID `db:"to_user_id" json:"to_user_id"`
	Status     Status    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Involves checks whether the user is one of the two parties
func (c *Connection) Involves(userID uuid.UUID) bool {
	return c.FromUserID == userID || c.ToUserID == userID
}

// IsInitiator checks whether the user is the from side of the record
func (c *Connection) IsInitiator(userID uuid.UUID) bool {
	return c.FromUserID == userID
}

// CounterpartOf returns the other party of the record
func (c *Connection) CounterpartOf(userID uuid.UUID) uuid.UUID {
	if c.FromUserID == userID {
		return c.ToUserID
	}
	return c.FromUserID
}
