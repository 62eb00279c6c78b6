package store

import (
	"context"
	"errors"

	"tsunagari/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FriendshipStore struct{ db *gorm.DB }

func (s *Store) Friendships() *FriendshipStore { return &FriendshipStore{db: s.DB} }

// CreateRequest inserts a pending request. The unique index on
// (surface, from, to) makes concurrent duplicates impossible; any
// existing row, pending or approved, surfaces as ErrAlreadyRequested.
func (f *FriendshipStore) CreateRequest(ctx context.Context, req *domain.FriendRequest) error {
	err := f.db.WithContext(ctx).Create(req).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyRequested
	}
	return err
}

func (f *FriendshipStore) PendingFor(ctx context.Context, surface domain.Surface, to string) ([]string, error) {
	var from []string
	if err := f.db.WithContext(ctx).Model(&domain.FriendRequest{}).
		Where("surface = ? AND to_handle = ? AND status = ?", surface, to, domain.RequestPending).
		Order("created_at ASC").
		Pluck("from_handle", &from).Error; err != nil {
		return nil, err
	}
	return from, nil
}

// MarkApproved flips the request from -> to into the approved state.
// Approval is only reachable through an existing request row: when no
// row matches, ErrRequestNotFound comes back and nothing is written.
// A row that is already approved still matches, keeping retries
// idempotent.
func (f *FriendshipStore) MarkApproved(ctx context.Context, surface domain.Surface, from, to string) error {
	res := f.db.WithContext(ctx).Model(&domain.FriendRequest{}).
		Where("surface = ? AND from_handle = ? AND to_handle = ?", surface, from, to).
		Update("status", domain.RequestApproved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrRequestNotFound
	}
	return nil
}

// AddEdge inserts one directed friend edge. Duplicates are a no-op.
func (f *FriendshipStore) AddEdge(ctx context.Context, edge *domain.Friend) error {
	return f.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(edge).Error
}

func (f *FriendshipStore) Friends(ctx context.Context, surface domain.Surface, handle string) ([]string, error) {
	var friends []string
	if err := f.db.WithContext(ctx).Model(&domain.Friend{}).
		Where("surface = ? AND user_handle = ?", surface, handle).
		Order("friend_handle ASC").
		Pluck("friend_handle", &friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// HasEdge reports whether a directed edge already exists.
func (f *FriendshipStore) HasEdge(ctx context.Context, surface domain.Surface, user, friend string) (bool, error) {
	var n int64
	if err := f.db.WithContext(ctx).Model(&domain.Friend{}).
		Where("surface = ? AND user_handle = ? AND friend_handle = ?", surface, user, friend).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
