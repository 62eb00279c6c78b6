package store

import (
	"context"
	"errors"

	"tsunagari/internal/domain"

	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

// Create inserts a new identity. A duplicate (surface, handle) pair
// surfaces as domain.ErrHandleTaken.
func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	err := u.db.WithContext(ctx).Create(usr).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrHandleTaken
	}
	return err
}

func (u *UserStore) GetByHandle(ctx context.Context, surface domain.Surface, handle string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).
		First(&user, "surface = ? AND handle = ?", surface, handle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateCredential rewrites the stored digest. Used for the one-time
// upgrade of legacy plaintext credentials.
func (u *UserStore) UpdateCredential(ctx context.Context, surface domain.Surface, handle, credential string) error {
	return u.db.WithContext(ctx).Model(&domain.User{}).
		Where("surface = ? AND handle = ?", surface, handle).
		Update("credential", credential).Error
}

func (u *UserStore) ListHandles(ctx context.Context, surface domain.Surface) ([]string, error) {
	var handles []string
	if err := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("surface = ?", surface).
		Order("handle ASC").
		Pluck("handle", &handles).Error; err != nil {
		return nil, err
	}
	return handles, nil
}
