package connection

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// ConnectionWithProfile is a connection row enriched with the
// counterpart's public profile columns
type ConnectionWithProfile struct {
	Connection
	CounterpartID        uuid.UUID      `db:"counterpart_id" json:"counterpart_id"`
	CounterpartUsername  string         `db:"counterpart_username" json:"counterpart_username"`
	CounterpartFirstName string         `db:"counterpart_first_name" json:"counterpart_first_name"`
	CounterpartLastName  string         `db:"counterpart_last_name" json:"counterpart_last_name"`
	CounterpartPhoto     sql.NullString `db:"counterpart_photo" json:"counterpart_photo,omitempty"`
}

// Repository defines connection data access.
//
// A single record exists per unordered user pair; the schema enforces this
// with a unique index over (LEAST(from,to), GREATEST(from,to)). Multi-step
// mutations run inside a transaction so that interleaved requests observe
// either the old record or the new one, never both.
type Repository interface {
	// Create inserts a new record. Returns ErrPairExists when another
	// record for the same unordered pair already exists.
	Create(ctx context.Context, conn *Connection) error

	// Replace atomically deletes the record with oldID and inserts conn.
	Replace(ctx context.Context, oldID uuid.UUID, conn *Connection) error

	// FindByID returns the record or nil when absent.
	FindByID(ctx context.Context, id uuid.UUID) (*Connection, error)

	// FindByPair returns the record between the two users regardless of
	// direction, or nil when absent.
	FindByPair(ctx context.Context, userA, userB uuid.UUID) (*Connection, error)

	// UpdateStatusIfPending transitions the record to the given status
	// only if it is still pending. Returns nil when the record is gone or
	// no longer pending (lost a race).
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status Status) (*Connection, error)

	// DeleteIfPending removes the record only if it is still pending.
	DeleteIfPending(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteBlock removes the exact (blocker, blocked, blocked-status) record.
	DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error)

	// HasBlockBetween reports whether a blocked record exists between the
	// pair in either direction.
	HasBlockBetween(ctx context.Context, userA, userB uuid.UUID) (bool, error)

	// ListReceived returns pending requests sent to the user, newest first.
	ListReceived(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error)

	// ListSent returns pending requests sent by the user, newest first.
	ListSent(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error)

	// ListAccepted returns accepted connections in either direction,
	// most recently updated first.
	ListAccepted(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error)

	// RelatedUserIDs returns every counterpart the user has a pending,
	// accepted or blocked record with, in either direction. Rejected
	// records are not included.
	RelatedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}
