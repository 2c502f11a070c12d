package connection

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/devconnect/devconnect-api/internal/domain/user"
)

// fakeRepo is an in-memory Repository that enforces the same pair
// uniqueness guarantee the database index provides.
type fakeRepo struct {
	mu    sync.Mutex
	conns map[uuid.UUID]*Connection
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{conns: make(map[uuid.UUID]*Connection)}
}

func pairKey(a, b uuid.UUID) string {
	if strings.Compare(a.String(), b.String()) < 0 {
		return a.String() + ":" + b.String()
	}
	return b.String() + ":" + a.String()
}

func (f *fakeRepo) findPairLocked(a, b uuid.UUID) *Connection {
	key := pairKey(a, b)
	for _, c := range f.conns {
		if pairKey(c.FromUserID, c.ToUserID) == key {
			return c
		}
	}
	return nil
}

func (f *fakeRepo) Create(ctx context.Context, conn *Connection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findPairLocked(conn.FromUserID, conn.ToUserID) != nil {
		return ErrPairExists
	}
	cp := *conn
	f.conns[conn.ID] = &cp
	return nil
}

func (f *fakeRepo) Replace(ctx context.Context, oldID uuid.UUID, conn *Connection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.conns, oldID)
	if f.findPairLocked(conn.FromUserID, conn.ToUserID) != nil {
		return ErrPairExists
	}
	cp := *conn
	f.conns[conn.ID] = &cp
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.conns[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) FindByPair(ctx context.Context, userA, userB uuid.UUID) (*Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c := f.findPairLocked(userA, userB); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRepo) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status Status) (*Connection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conns[id]
	if !ok || c.Status != StatusPending {
		return nil, nil
	}
	c.Status = status
	c.UpdatedAt = time.Now()
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) DeleteIfPending(ctx context.Context, id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.conns[id]
	if !ok || c.Status != StatusPending {
		return false, nil
	}
	delete(f.conns, id)
	return true, nil
}

func (f *fakeRepo) DeleteBlock(ctx context.Context, blockerID, blockedID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, c := range f.conns {
		if c.Status == StatusBlocked && c.FromUserID == blockerID && c.ToUserID == blockedID {
			delete(f.conns, id)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) HasBlockBetween(ctx context.Context, userA, userB uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.findPairLocked(userA, userB)
	return c != nil && c.Status == StatusBlocked, nil
}

func (f *fakeRepo) ListReceived(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error) {
	return f.list(func(c *Connection) bool {
		return c.Status == StatusPending && c.ToUserID == userID
	}), nil
}

func (f *fakeRepo) ListSent(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error) {
	return f.list(func(c *Connection) bool {
		return c.Status == StatusPending && c.FromUserID == userID
	}), nil
}

func (f *fakeRepo) ListAccepted(ctx context.Context, userID uuid.UUID) ([]*ConnectionWithProfile, error) {
	return f.list(func(c *Connection) bool {
		return c.Status == StatusAccepted && c.Involves(userID)
	}), nil
}

func (f *fakeRepo) list(match func(*Connection) bool) []*ConnectionWithProfile {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*ConnectionWithProfile
	for _, c := range f.conns {
		if match(c) {
			out = append(out, &ConnectionWithProfile{Connection: *c})
		}
	}
	return out
}

func (f *fakeRepo) RelatedUserIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uuid.UUID
	for _, c := range f.conns {
		if !c.Involves(userID) {
			continue
		}
		switch c.Status {
		case StatusPending, StatusAccepted, StatusBlocked:
			out = append(out, c.CounterpartOf(userID))
		}
	}
	return out, nil
}

// fakeUserRepo returns a user for every registered ID
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUserRepo(ids ...uuid.UUID) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[uuid.UUID]*user.User)}
	for _, id := range ids {
		f.users[id] = &user.User{ID: id, Username: "user-" + id.String()[:8]}
	}
	return f
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByMobile(ctx context.Context, mobileNumber string) (*user.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserRepo) UpdateProfilePhoto(ctx context.Context, id uuid.UUID, photoURL string) error {
	return nil
}

func (f *fakeUserRepo) ListRandomExcluding(ctx context.Context, excluded []uuid.UUID, limit int) ([]*user.User, error) {
	return nil, nil
}

func newTestService(ids ...uuid.UUID) (*Service, *fakeRepo) {
	repo := newFakeRepo()
	return NewService(repo, newFakeUserRepo(ids...)), repo
}

func TestSendConnectionRequest(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	t.Run("creates pending request", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if conn.Status != StatusPending {
			t.Errorf("expected status pending, got %s", conn.Status)
		}
		if conn.FromUserID != alice || conn.ToUserID != bob {
			t.Errorf("wrong direction: from=%s to=%s", conn.FromUserID, conn.ToUserID)
		}
	})

	t.Run("to self fails", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.SendConnectionRequest(ctx, alice, alice); !errors.Is(err, ErrSelfConnection) {
			t.Fatalf("expected ErrSelfConnection, got %v", err)
		}
	})

	t.Run("to unknown user fails", func(t *testing.T) {
		svc, _ := newTestService(alice)

		if _, err := svc.SendConnectionRequest(ctx, alice, uuid.New()); !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("duplicate send fails", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.SendConnectionRequest(ctx, alice, bob); err != nil {
			t.Fatalf("first send: %v", err)
		}
		if _, err := svc.SendConnectionRequest(ctx, alice, bob); !errors.Is(err, ErrRequestAlreadySent) {
			t.Fatalf("expected ErrRequestAlreadySent, got %v", err)
		}
	})

	t.Run("reverse send while pending fails distinctly", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.SendConnectionRequest(ctx, alice, bob); err != nil {
			t.Fatalf("first send: %v", err)
		}
		if _, err := svc.SendConnectionRequest(ctx, bob, alice); !errors.Is(err, ErrRequestAlreadyReceived) {
			t.Fatalf("expected ErrRequestAlreadyReceived, got %v", err)
		}
	})

	t.Run("send while accepted fails", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if _, err := svc.AcceptConnection(ctx, conn.ID, bob); err != nil {
			t.Fatalf("accept: %v", err)
		}
		if _, err := svc.SendConnectionRequest(ctx, alice, bob); !errors.Is(err, ErrAlreadyConnected) {
			t.Fatalf("expected ErrAlreadyConnected, got %v", err)
		}
		if _, err := svc.SendConnectionRequest(ctx, bob, alice); !errors.Is(err, ErrAlreadyConnected) {
			t.Fatalf("expected ErrAlreadyConnected from either side, got %v", err)
		}
	})

	t.Run("send while blocked fails either direction", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.BlockUser(ctx, alice, bob); err != nil {
			t.Fatalf("block: %v", err)
		}
		if _, err := svc.SendConnectionRequest(ctx, alice, bob); !errors.Is(err, ErrBlocked) {
			t.Fatalf("blocker send: expected ErrBlocked, got %v", err)
		}
		if _, err := svc.SendConnectionRequest(ctx, bob, alice); !errors.Is(err, ErrBlocked) {
			t.Fatalf("blocked send: expected ErrBlocked, got %v", err)
		}
	})

	t.Run("resend after rejection creates fresh pending record", func(t *testing.T) {
		svc, repo := newTestService(alice, bob)

		first, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if _, err := svc.RejectConnection(ctx, first.ID, bob); err != nil {
			t.Fatalf("reject: %v", err)
		}

		second, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("resend after reject: %v", err)
		}
		if second.ID == first.ID {
			t.Error("expected a new record, got the old ID")
		}
		if second.Status != StatusPending {
			t.Errorf("expected pending, got %s", second.Status)
		}

		old, _ := repo.FindByID(ctx, first.ID)
		if old != nil {
			t.Error("rejected record should have been discarded")
		}
	})

	t.Run("rejected receiver can send back", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		first, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if _, err := svc.RejectConnection(ctx, first.ID, bob); err != nil {
			t.Fatalf("reject: %v", err)
		}

		conn, err := svc.SendConnectionRequest(ctx, bob, alice)
		if err != nil {
			t.Fatalf("reverse send after reject: %v", err)
		}
		if conn.FromUserID != bob || conn.ToUserID != alice {
			t.Errorf("wrong direction: from=%s to=%s", conn.FromUserID, conn.ToUserID)
		}
	})
}

func TestAcceptConnection(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	t.Run("receiver accepts", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}

		accepted, err := svc.AcceptConnection(ctx, conn.ID, bob)
		if err != nil {
			t.Fatalf("accept: %v", err)
		}
		if accepted.Status != StatusAccepted {
			t.Errorf("expected accepted, got %s", accepted.Status)
		}
	})

	t.Run("sender cannot accept own request", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}

		if _, err := svc.AcceptConnection(ctx, conn.ID, alice); !errors.Is(err, ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("third party cannot accept", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}

		if _, err := svc.AcceptConnection(ctx, conn.ID, uuid.New()); !errors.Is(err, ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("unknown connection", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.AcceptConnection(ctx, uuid.New(), bob); !errors.Is(err, ErrConnectionNotFound) {
			t.Fatalf("expected ErrConnectionNotFound, got %v", err)
		}
	})

	t.Run("accept twice fails", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if _, err := svc.AcceptConnection(ctx, conn.ID, bob); err != nil {
			t.Fatalf("first accept: %v", err)
		}
		if _, err := svc.AcceptConnection(ctx, conn.ID, bob); !errors.Is(err, ErrNotPending) {
			t.Fatalf("expected ErrNotPending, got %v", err)
		}
	})
}

func TestRejectConnection(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	svc, _ := newTestService(alice, bob)

	conn, err := svc.SendConnectionRequest(ctx, alice, bob)
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if _, err := svc.RejectConnection(ctx, conn.ID, alice); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("sender reject: expected ErrNotAuthorized, got %v", err)
	}

	rejected, err := svc.RejectConnection(ctx, conn.ID, bob)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != StatusRejected {
		t.Errorf("expected rejected, got %s", rejected.Status)
	}

	if _, err := svc.RejectConnection(ctx, conn.ID, bob); !errors.Is(err, ErrNotPending) {
		t.Fatalf("second reject: expected ErrNotPending, got %v", err)
	}
}

func TestCancelRequest(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	t.Run("sender cancels pending", func(t *testing.T) {
		svc, repo := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if err := svc.CancelRequest(ctx, conn.ID, alice); err != nil {
			t.Fatalf("cancel: %v", err)
		}

		got, _ := repo.FindByID(ctx, conn.ID)
		if got != nil {
			t.Error("cancelled request should be deleted")
		}

		// Pair is free again
		if _, err := svc.SendConnectionRequest(ctx, bob, alice); err != nil {
			t.Fatalf("send after cancel: %v", err)
		}
	})

	t.Run("receiver cannot cancel", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if err := svc.CancelRequest(ctx, conn.ID, bob); !errors.Is(err, ErrNotAuthorized) {
			t.Fatalf("expected ErrNotAuthorized, got %v", err)
		}
	})

	t.Run("accepted request cannot be cancelled", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if _, err := svc.AcceptConnection(ctx, conn.ID, bob); err != nil {
			t.Fatalf("accept: %v", err)
		}
		if err := svc.CancelRequest(ctx, conn.ID, alice); !errors.Is(err, ErrNotPending) {
			t.Fatalf("expected ErrNotPending, got %v", err)
		}
	})
}

func TestBlockUser(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	t.Run("block with no prior relationship", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		conn, err := svc.BlockUser(ctx, alice, bob)
		if err != nil {
			t.Fatalf("block: %v", err)
		}
		if conn.Status != StatusBlocked {
			t.Errorf("expected blocked, got %s", conn.Status)
		}
		if conn.FromUserID != alice {
			t.Error("blocker should be recorded as initiator")
		}
	})

	t.Run("block overwrites accepted connection", func(t *testing.T) {
		svc, repo := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if _, err := svc.AcceptConnection(ctx, conn.ID, bob); err != nil {
			t.Fatalf("accept: %v", err)
		}

		blocked, err := svc.BlockUser(ctx, bob, alice)
		if err != nil {
			t.Fatalf("block: %v", err)
		}
		if blocked.FromUserID != bob {
			t.Error("blocker should be the caller even when the old record pointed the other way")
		}

		old, _ := repo.FindByID(ctx, conn.ID)
		if old != nil {
			t.Error("old connection record should be gone")
		}

		accepted, _ := svc.GetConnections(ctx, alice)
		if len(accepted) != 0 {
			t.Errorf("expected no accepted connections after block, got %d", len(accepted))
		}
	})

	t.Run("block self fails", func(t *testing.T) {
		svc, _ := newTestService(alice)

		if _, err := svc.BlockUser(ctx, alice, alice); !errors.Is(err, ErrSelfBlock) {
			t.Fatalf("expected ErrSelfBlock, got %v", err)
		}
	})

	t.Run("double block fails", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.BlockUser(ctx, alice, bob); err != nil {
			t.Fatalf("block: %v", err)
		}
		if _, err := svc.BlockUser(ctx, alice, bob); !errors.Is(err, ErrAlreadyBlocked) {
			t.Fatalf("expected ErrAlreadyBlocked, got %v", err)
		}
	})

	t.Run("counter block takes over blocker role", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.BlockUser(ctx, alice, bob); err != nil {
			t.Fatalf("block: %v", err)
		}

		conn, err := svc.BlockUser(ctx, bob, alice)
		if err != nil {
			t.Fatalf("counter block: %v", err)
		}
		if conn.FromUserID != bob {
			t.Error("counter block should make the caller the blocker")
		}
	})
}

func TestUnblockUser(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	t.Run("blocker unblocks", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.BlockUser(ctx, alice, bob); err != nil {
			t.Fatalf("block: %v", err)
		}
		if err := svc.UnblockUser(ctx, alice, bob); err != nil {
			t.Fatalf("unblock: %v", err)
		}

		// Pair is free again
		if _, err := svc.SendConnectionRequest(ctx, bob, alice); err != nil {
			t.Fatalf("send after unblock: %v", err)
		}
	})

	t.Run("blocked party cannot unblock", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.BlockUser(ctx, alice, bob); err != nil {
			t.Fatalf("block: %v", err)
		}
		if err := svc.UnblockUser(ctx, bob, alice); !errors.Is(err, ErrBlockNotFound) {
			t.Fatalf("expected ErrBlockNotFound, got %v", err)
		}
	})

	t.Run("unblock without block fails", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if err := svc.UnblockUser(ctx, alice, bob); !errors.Is(err, ErrBlockNotFound) {
			t.Fatalf("expected ErrBlockNotFound, got %v", err)
		}
	})

	t.Run("unblock self fails", func(t *testing.T) {
		svc, _ := newTestService(alice)

		if err := svc.UnblockUser(ctx, alice, alice); !errors.Is(err, ErrSelfUnblock) {
			t.Fatalf("expected ErrSelfUnblock, got %v", err)
		}
	})
}

func TestGetConnectionStatus(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	t.Run("self", func(t *testing.T) {
		svc, _ := newTestService(alice)

		info, err := svc.GetConnectionStatus(ctx, alice, alice)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if info.Status != nil {
			t.Error("expected nil status for self")
		}
		if info.Message != "Cannot check connection with yourself" {
			t.Errorf("unexpected message: %q", info.Message)
		}
	})

	t.Run("no relationship", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		info, err := svc.GetConnectionStatus(ctx, alice, bob)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if info.Status != nil || info.ConnectionID != nil {
			t.Error("expected nil status and connection ID")
		}
		if info.Message != "No connection exists" {
			t.Errorf("unexpected message: %q", info.Message)
		}
	})

	t.Run("pending is perspective dependent", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.SendConnectionRequest(ctx, alice, bob); err != nil {
			t.Fatalf("send: %v", err)
		}

		sent, err := svc.GetConnectionStatus(ctx, alice, bob)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if sent.Message != "Connection request sent" {
			t.Errorf("sender view: %q", sent.Message)
		}

		received, err := svc.GetConnectionStatus(ctx, bob, alice)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if received.Message != "Connection request received" {
			t.Errorf("receiver view: %q", received.Message)
		}
		if *sent.Status != StatusPending || *received.Status != StatusPending {
			t.Error("both views should report pending")
		}
	})

	t.Run("blocked is perspective dependent", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		if _, err := svc.BlockUser(ctx, alice, bob); err != nil {
			t.Fatalf("block: %v", err)
		}

		blocker, err := svc.GetConnectionStatus(ctx, alice, bob)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if blocker.Message != "User blocked" {
			t.Errorf("blocker view: %q", blocker.Message)
		}

		blocked, err := svc.GetConnectionStatus(ctx, bob, alice)
		if err != nil {
			t.Fatalf("status: %v", err)
		}
		if blocked.Message != "Blocked by user" {
			t.Errorf("blocked view: %q", blocked.Message)
		}
		if *blocker.Status != StatusBlocked || *blocked.Status != StatusBlocked {
			t.Error("both views should report blocked")
		}
	})

	t.Run("accepted", func(t *testing.T) {
		svc, _ := newTestService(alice, bob)

		conn, err := svc.SendConnectionRequest(ctx, alice, bob)
		if err != nil {
			t.Fatalf("send: %v", err)
		}
		if _, err := svc.AcceptConnection(ctx, conn.ID, bob); err != nil {
			t.Fatalf("accept: %v", err)
		}

		for _, viewer := range []uuid.UUID{alice, bob} {
			info, err := svc.GetConnectionStatus(ctx, viewer, conn.CounterpartOf(viewer))
			if err != nil {
				t.Fatalf("status: %v", err)
			}
			if info.Message != "Connected" {
				t.Errorf("viewer %s: %q", viewer, info.Message)
			}
		}
	})
}

func TestConcurrentOppositeSends(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	for i := 0; i < 50; i++ {
		svc, repo := newTestService(alice, bob)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = svc.SendConnectionRequest(ctx, alice, bob)
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = svc.SendConnectionRequest(ctx, bob, alice)
		}()
		wg.Wait()

		repo.mu.Lock()
		count := len(repo.conns)
		repo.mu.Unlock()
		if count > 1 {
			t.Fatalf("iteration %d: %d records for one pair", i, count)
		}
		if errs[0] == nil && errs[1] == nil && count != 1 {
			t.Fatalf("iteration %d: both sends succeeded with %d records", i, count)
		}
	}
}

func TestListEndpointsFilterByRoleAndStatus(t *testing.T) {
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()
	carol := uuid.New()

	svc, _ := newTestService(alice, bob, carol)

	// alice -> bob pending, carol -> alice accepted
	if _, err := svc.SendConnectionRequest(ctx, alice, bob); err != nil {
		t.Fatalf("send: %v", err)
	}
	conn, err := svc.SendConnectionRequest(ctx, carol, alice)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if _, err := svc.AcceptConnection(ctx, conn.ID, alice); err != nil {
		t.Fatalf("accept: %v", err)
	}

	sent, err := svc.GetSentRequests(ctx, alice)
	if err != nil {
		t.Fatalf("sent: %v", err)
	}
	if len(sent) != 1 || sent[0].ToUserID != bob {
		t.Errorf("expected one sent request to bob, got %d", len(sent))
	}

	received, err := svc.GetReceivedRequests(ctx, bob)
	if err != nil {
		t.Fatalf("received: %v", err)
	}
	if len(received) != 1 || received[0].FromUserID != alice {
		t.Errorf("expected one received request from alice, got %d", len(received))
	}

	accepted, err := svc.GetConnections(ctx, alice)
	if err != nil {
		t.Fatalf("connections: %v", err)
	}
	if len(accepted) != 1 {
		t.Errorf("expected one accepted connection, got %d", len(accepted))
	}

	// carol has no pending traffic
	if got, _ := svc.GetSentRequests(ctx, carol); len(got) != 0 {
		t.Errorf("carol sent: expected 0, got %d", len(got))
	}
}
