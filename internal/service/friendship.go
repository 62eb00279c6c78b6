package service

import (
	"context"
	"fmt"
	"time"

	"tsunagari/internal/domain"
	"tsunagari/internal/store"
)

// FriendshipService manages the request/approval state machine:
// NoRequest -> Pending -> Approved. Approved is terminal; a pending
// request has no decline path.
type FriendshipService struct {
	store *store.Store
	now   func() time.Time
}

func NewFriendshipService(st *store.Store) *FriendshipService {
	return &FriendshipService{store: st, now: time.Now}
}

// Request creates a pending request from -> to. Any existing request
// for the same ordered pair, pending or approved, rejects the resend.
// The message-count precondition is the caller's responsibility.
func (s *FriendshipService) Request(ctx context.Context, surface domain.Surface, from, to string) error {
	if !surface.Valid() || from == "" || to == "" || from == to {
		return fmt.Errorf("%w: bad request pair", ErrInvalidRequest)
	}
	return s.store.Friendships().CreateRequest(ctx, &domain.FriendRequest{
		Surface:    surface,
		FromHandle: from,
		ToHandle:   to,
		Status:     domain.RequestPending,
		CreatedAt:  s.now().UTC(),
	})
}

// Incoming lists handles with a pending request addressed to the user.
func (s *FriendshipService) Incoming(ctx context.Context, surface domain.Surface, to string) ([]string, error) {
	return s.store.Friendships().PendingFor(ctx, surface, to)
}

// Approve marks the request from -> to as approved and inserts both
// directed friend edges in the same transaction. Without an existing
// request row the whole transaction fails with ErrRequestNotFound: the
// approver names `from` in the API call, so approval must never mint
// edges for a pair that never asked. Re-approving is a no-op: the
// status update matches the approved row again and duplicate edges are
// ignored, so a retry after a partial failure converges.
func (s *FriendshipService) Approve(ctx context.Context, surface domain.Surface, to, from string) error {
	if !surface.Valid() || from == "" || to == "" {
		return fmt.Errorf("%w: bad approval pair", ErrInvalidRequest)
	}
	now := s.now().UTC()
	return s.store.WithTx(ctx, func(tx *store.Store) error {
		if err := tx.Friendships().MarkApproved(ctx, surface, from, to); err != nil {
			return err
		}
		if err := tx.Friendships().AddEdge(ctx, &domain.Friend{
			Surface: surface, UserHandle: to, FriendHandle: from, CreatedAt: now,
		}); err != nil {
			return err
		}
		return tx.Friendships().AddEdge(ctx, &domain.Friend{
			Surface: surface, UserHandle: from, FriendHandle: to, CreatedAt: now,
		})
	})
}

func (s *FriendshipService) Friends(ctx context.Context, surface domain.Surface, handle string) ([]string, error) {
	return s.store.Friendships().Friends(ctx, surface, handle)
}

// AddFriend is the chat surface's unconditional one-way add: no
// threshold, no approval. A duplicate add reports ErrAlreadyFriends.
func (s *FriendshipService) AddFriend(ctx context.Context, surface domain.Surface, user, friend string) error {
	if !surface.Valid() || user == "" || friend == "" || user == friend {
		return fmt.Errorf("%w: bad friend pair", ErrInvalidRequest)
	}
	exists, err := s.store.Friendships().HasEdge(ctx, surface, user, friend)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyFriends
	}
	return s.store.Friendships().AddEdge(ctx, &domain.Friend{
		Surface: surface, UserHandle: user, FriendHandle: friend, CreatedAt: s.now().UTC(),
	})
}
