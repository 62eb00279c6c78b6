package store

import (
	"context"
	"errors"

	"tsunagari/internal/domain"

	"gorm.io/gorm"
)

type MessageStore struct{ db *gorm.DB }

func (s *Store) Messages() *MessageStore { return &MessageStore{db: s.DB} }

func (m *MessageStore) Append(ctx context.Context, msg *domain.Message) error {
	return m.db.WithContext(ctx).Create(msg).Error
}

// pairScope filters to messages exchanged between a and b in either
// direction on the given surface.
func pairScope(db *gorm.DB, surface domain.Surface, a, b string) *gorm.DB {
	return db.Where(
		"surface = ? AND ((sender = ? AND recipient = ?) OR (sender = ? AND recipient = ?))",
		surface, a, b, b, a,
	)
}

// Conversation returns the full history between a and b, oldest first.
// Ties on created_at fall back to insertion order via id.
func (m *MessageStore) Conversation(ctx context.Context, surface domain.Surface, a, b string) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := pairScope(m.db.WithContext(ctx), surface, a, b).
		Order("created_at ASC, id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (m *MessageStore) CountConversation(ctx context.Context, surface domain.Surface, a, b string) (int64, error) {
	var n int64
	if err := pairScope(m.db.WithContext(ctx).Model(&domain.Message{}), surface, a, b).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// EarliestTheme returns the theme tag of the earliest tagged message
// between a and b, or "" if the conversation is unthemed.
func (m *MessageStore) EarliestTheme(ctx context.Context, surface domain.Surface, a, b string) (string, error) {
	var msg domain.Message
	err := pairScope(m.db.WithContext(ctx), surface, a, b).
		Where("theme IS NOT NULL").
		Order("created_at ASC, id ASC").
		First(&msg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if msg.Theme == nil {
		return "", nil
	}
	return *msg.Theme, nil
}

// ForRecipient returns every message addressed to the given recipient
// key, newest first by id. The board uses this for its thread feed.
func (m *MessageStore) ForRecipient(ctx context.Context, surface domain.Surface, recipient string) ([]domain.Message, error) {
	var msgs []domain.Message
	if err := m.db.WithContext(ctx).
		Where("surface = ? AND recipient = ?", surface, recipient).
		Order("id DESC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (m *MessageStore) Delete(ctx context.Context, surface domain.Surface, id uint64) error {
	return m.db.WithContext(ctx).
		Where("surface = ? AND id = ?", surface, id).
		Delete(&domain.Message{}).Error
}

// DeleteForRecipient purges every message addressed to the recipient
// key (a whole board thread's history).
func (m *MessageStore) DeleteForRecipient(ctx context.Context, surface domain.Surface, recipient string) error {
	return m.db.WithContext(ctx).
		Where("surface = ? AND recipient = ?", surface, recipient).
		Delete(&domain.Message{}).Error
}
