package store

import (
	"context"
	"errors"

	"tsunagari/internal/domain"

	"gorm.io/gorm"
)

type ThreadStore struct{ db *gorm.DB }

func (s *Store) Threads() *ThreadStore { return &ThreadStore{db: s.DB} }

func (t *ThreadStore) Create(ctx context.Context, th *domain.Thread) error {
	return t.db.WithContext(ctx).Create(th).Error
}

func (t *ThreadStore) Get(ctx context.Context, id uint64) (*domain.Thread, error) {
	var th domain.Thread
	if err := t.db.WithContext(ctx).First(&th, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &th, nil
}

// List returns threads newest first, optionally filtered by a
// substring match on the title.
func (t *ThreadStore) List(ctx context.Context, keyword string) ([]domain.Thread, error) {
	tx := t.db.WithContext(ctx).Order("id DESC")
	if keyword != "" {
		tx = tx.Where("title LIKE ?", "%"+keyword+"%")
	}
	var threads []domain.Thread
	if err := tx.Find(&threads).Error; err != nil {
		return nil, err
	}
	return threads, nil
}
