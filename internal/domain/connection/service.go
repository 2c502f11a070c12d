package connection

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/devconnect/devconnect-api/internal/domain/user"
)

// Service owns transition legality for the relationship state machine.
// It is stateless between calls; all state lives in the repository.
type Service struct {
	repo     Repository
	userRepo user.Repository
}

// NewService creates connection service
func NewService(repo Repository, userRepo user.Repository) *Service {
	return &Service{repo: repo, userRepo: userRepo}
}

func (s *Service) userExists(ctx context.Context, id uuid.UUID) error {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	return nil
}

// SendConnectionRequest creates a pending request from one user to another.
// A rejected record between the pair is discarded and replaced; any other
// existing record makes the request illegal.
func (s *Service) SendConnectionRequest(ctx context.Context, fromUserID, toUserID uuid.UUID) (*Connection, error) {
	if fromUserID == toUserID {
		return nil, ErrSelfConnection
	}

	if err := s.userExists(ctx, fromUserID); err != nil {
		return nil, err
	}
	if err := s.userExists(ctx, toUserID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByPair(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}

	conn := &Connection{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     StatusPending,
		CreatedAt:  time.Now(),
	}

	if existing == nil {
		if err := s.repo.Create(ctx, conn); err != nil {
			// Lost a race against an opposite-direction send.
			if err == ErrPairExists {
				return nil, ErrRequestAlreadySent
			}
			return nil, err
		}
		return conn, nil
	}

	switch existing.Status {
	case StatusBlocked:
		return nil, ErrBlocked
	case StatusPending:
		if existing.FromUserID == toUserID {
			return nil, ErrRequestAlreadyReceived
		}
		return nil, ErrRequestAlreadySent
	case StatusAccepted:
		return nil, ErrAlreadyConnected
	case StatusRejected:
		// No cooldown after a rejection; discard the old record and
		// start over so creation-time validation runs cleanly.
		if err := s.repo.Replace(ctx, existing.ID, conn); err != nil {
			if err == ErrPairExists {
				return nil, ErrRequestAlreadySent
			}
			return nil, err
		}
		return conn, nil
	}

	return nil, ErrPairExists
}

// AcceptConnection transitions a pending request to accepted.
// Only the receiver may accept.
func (s *Service) AcceptConnection(ctx context.Context, connectionID, userID uuid.UUID) (*Connection, error) {
	conn, err := s.repo.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, ErrConnectionNotFound
	}

	if conn.ToUserID != userID {
		return nil, ErrNotAuthorized
	}
	if conn.Status != StatusPending {
		return nil, ErrNotPending
	}

	// A block created between the find above and the update below would
	// otherwise slip through; re-check before committing.
	blocked, err := s.repo.HasBlockBetween(ctx, conn.FromUserID, conn.ToUserID)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, ErrBlocked
	}

	updated, err := s.repo.UpdateStatusIfPending(ctx, connectionID, StatusAccepted)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotPending
	}
	return updated, nil
}

// RejectConnection transitions a pending request to rejected.
// Only the receiver may reject.
func (s *Service) RejectConnection(ctx context.Context, connectionID, userID uuid.UUID) (*Connection, error) {
	conn, err := s.repo.FindByID(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, ErrConnectionNotFound
	}

	if conn.ToUserID != userID {
		return nil, ErrNotAuthorized
	}
	if conn.Status != StatusPending {
		return nil, ErrNotPending
	}

	updated, err := s.repo.UpdateStatusIfPending(ctx, connectionID, StatusRejected)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrNotPending
	}
	return updated, nil
}

// CancelRequest deletes a pending request. Only the sender may cancel.
func (s *Service) CancelRequest(ctx context.Context, connectionID, userID uuid.UUID) error {
	conn, err := s.repo.FindByID(ctx, connectionID)
	if err != nil {
		return err
	}
	if conn == nil {
		return ErrConnectionNotFound
	}

	if conn.FromUserID != userID {
		return ErrNotAuthorized
	}
	if conn.Status != StatusPending {
		return ErrNotPending
	}

	deleted, err := s.repo.DeleteIfPending(ctx, connectionID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotPending
	}
	return nil
}

// BlockUser replaces whatever relationship exists between the pair with a
// blocked record where the caller is the blocker. Block always wins and
// clears history.
func (s *Service) BlockUser(ctx context.Context, userID, targetUserID uuid.UUID) (*Connection, error) {
	if userID == targetUserID {
		return nil, ErrSelfBlock
	}

	if err := s.userExists(ctx, targetUserID); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByPair(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}

	if existing != nil && existing.Status == StatusBlocked && existing.FromUserID == userID {
		return nil, ErrAlreadyBlocked
	}

	conn := &Connection{
		ID:         uuid.New(),
		FromUserID: userID,
		ToUserID:   targetUserID,
		Status:     StatusBlocked,
		CreatedAt:  time.Now(),
	}

	if existing == nil {
		if err := s.repo.Create(ctx, conn); err != nil {
			return nil, err
		}
		return conn, nil
	}

	if err := s.repo.Replace(ctx, existing.ID, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// UnblockUser deletes the block the caller holds on the target.
func (s *Service) UnblockUser(ctx context.Context, userID, targetUserID uuid.UUID) error {
	if userID == targetUserID {
		return ErrSelfUnblock
	}

	deleted, err := s.repo.DeleteBlock(ctx, userID, targetUserID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBlockNotFound
	}
	return nil
}

// StatusInfo is the caller-perspective projection of a relationship
type StatusInfo struct {
	Status       *Status    `json:"status"`
	ConnectionID *uuid.UUID `json:"connection_id"`
	Message      string     `json:"message"`
}

// GetConnectionStatus resolves the relationship between the caller and
// another user from the caller's perspective. A nil status means no
// relationship exists.
func (s *Service) GetConnectionStatus(ctx context.Context, userID, targetUserID uuid.UUID) (*StatusInfo, error) {
	if userID == targetUserID {
		return &StatusInfo{Message: "Cannot check connection with yourself"}, nil
	}

	conn, err := s.repo.FindByPair(ctx, userID, targetUserID)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return &StatusInfo{Message: "No connection exists"}, nil
	}

	var message string
	switch conn.Status {
	case StatusPending:
		if conn.FromUserID == userID {
			message = "Connection request sent"
		} else {
			message = "Connection request received"
		}
	case StatusAccepted:
		message = "Connected"
	case StatusRejected:
		message = "Connection request rejected"
	case StatusBlocked:
		if conn.FromUserID == userID {
			message = "User blocked"
		} else {
			message = "Blocked by user"
		}
	}

	status := conn.Status
	id := conn.ID
	return &StatusInfo{Status: &status, ConnectionID: &id, Message: message}, nil
}

// CheckBlockStatus reports whether a block exists between the pair in
// either direction
func (s *Service) CheckBlockStatus(ctx context.Context, userID, targetUserID uuid.UUID) (bool, error) {
	return s.repo.HasBlockBetween(ctx, userID, targetUserID)
}

// GetReceivedRequests returns pending requests addressed to the user
func (s *Service) GetReceivedRequests(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error) {
	return s.repo.ListReceived(ctx, userID)
}

// GetSentRequests returns pending requests the user has sent
func (s *Service) GetSentRequests(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error) {
	return s.repo.ListSent(ctx, userID)
}

// GetConnections returns the user's accepted connections
func (s *Service) GetConnections(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error) {
	return s.repo.ListAccepted(ctx, userID)
}
