package connection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const sqlStateUniqueViolation = "23505"

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new connection repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const connectionColumns = `id, from_user_id, to_user_id, status, created_at, updated_at`

func isPairUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == sqlStateUniqueViolation
}

func (r *repository) Create(ctx context.Context, conn *Connection) error {
	query := `
		INSERT INTO connections (id, from_user_id, to_user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		conn.ID, conn.FromUserID, conn.ToUserID, conn.Status, conn.CreatedAt)
	if err != nil {
		if isPairUniqueViolation(err) {
			return ErrPairExists
		}
		return fmt.Errorf("connection repository create: %w", err)
	}
	return nil
}

func (r *repository) Replace(ctx context.Context, oldID uuid.UUID, conn *Connection) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("connection repository replace begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM connections WHERE id = $1`, oldID); err != nil {
		return fmt.Errorf("connection repository replace delete: %w", err)
	}

	query := `
		INSERT INTO connections (id, from_user_id, to_user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
	`
	if _, err := tx.ExecContext(ctx, query,
		conn.ID, conn.FromUserID, conn.ToUserID, conn.Status, conn.CreatedAt); err != nil {
		if isPairUniqueViolation(err) {
			return ErrPairExists
		}
		return fmt.Errorf("connection repository replace insert: %w", err)
	}

	return tx.Commit()
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = $1`
	var conn Connection
	err := r.db.GetContext(ctx, &conn, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *repository) FindByPair(ctx context.Context, userA, userB uuid.UUID) (*Connection, error) {
	query := `
		SELECT ` + connectionColumns + ` FROM connections
		WHERE (from_user_id = $1 AND to_user_id = $2)
		   OR (from_user_id = $2 AND to_user_id = $1)
	`
	var conn Connection
	err := r.db.GetContext(ctx, &conn, query, userA, userB)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *repository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status Status) (*Connection, error) {
	query := `
		UPDATE connections
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + connectionColumns
	var conn Connection
	err := r.db.GetContext(ctx, &conn, query, id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &conn, nil
}

func (r *repository) DeleteIfPending(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM connections WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM connections WHERE from_user_id = $1 AND to_user_id = $2 AND status = 'blocked'`,
		blockerID, blockedID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *repository) HasBlockBetween(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM connections
			WHERE status = 'blocked'
			  AND ((from_user_id = $1 AND to_user_id = $2)
			    OR (from_user_id = $2 AND to_user_id = $1))
		)
	`
	var exists bool
	err := r.db.GetContext(ctx, &exists, query, userA, userB)
	return exists, err
}

func (r *repository) ListReceived(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error) {
	query := `
		SELECT c.id, c.from_user_id, c.to_user_id, c.status, c.created_at, c.updated_at,
		       u.id AS counterpart_id,
		       u.username AS counterpart_username,
		       u.first_name AS counterpart_first_name,
		       u.last_name AS counterpart_last_name,
		       u.profile_photo AS counterpart_photo
		FROM connections c
		JOIN users u ON u.id = c.from_user_id
		WHERE c.to_user_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at DESC
	`
	var rows []*ConnectionWithProfile
	err := r.db.SelectContext(ctx, &rows, query, userID)
	return rows, err
}

func (r *repository) ListSent(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error) {
	query := `
		SELECT c.id, c.from_user_id, c.to_user_id, c.status, c.created_at, c.updated_at,
		       u.id AS counterpart_id,
		       u.username AS counterpart_username,
		       u.first_name AS counterpart_first_name,
		       u.last_name AS counterpart_last_name,
		       u.profile_photo AS counterpart_photo
		FROM connections c
		JOIN users u ON u.id = c.to_user_id
		WHERE c.from_user_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at DESC
	`
	var rows []*ConnectionWithProfile
	err := r.db.SelectContext(ctx, &rows, query, userID)
	return rows, err
}

func (r *repository) ListAccepted(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error) {
	query := `
		SELECT c.id, c.from_user_id, c.to_user_id, c.status, c.created_at, c.updated_at,
		       u.id AS counterpart_id,
		       u.username AS counterpart_username,
		       u.first_name AS counterpart_first_name,
		       u.last_name AS counterpart_last_name,
		       u.profile_photo AS counterpart_photo
		FROM connections c
		JOIN users u ON u.id = CASE WHEN c.from_user_id = $1 THEN c.to_user_id ELSE c.from_user_id END
		WHERE (c.from_user_id = $1 OR c.to_user_id = $1) AND c.status = 'accepted'
		ORDER BY c.updated_at DESC
	`
	var rows []*ConnectionWithProfile
	err := r.db.SelectContext(ctx, &rows, query, userID)
	return rows, err
}

func (r *repository) RelatedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	query := `
		SELECT CASE WHEN from_user_id = $1 THEN to_user_id ELSE from_user_id END
		FROM connections
		WHERE (from_user_id = $1 OR to_user_id = $1)
		  AND status IN ('pending', 'accepted', 'blocked')
	`
	var ids []uuid.UUID
	err := r.db.SelectContext(ctx, &ids, query, userID)
	return ids, err
}
