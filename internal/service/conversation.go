package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tsunagari/internal/domain"
	"tsunagari/internal/store"
)

// FriendThreshold is the number of exchanged messages (both directions
// combined, no turn-taking required) that unlocks friend requests.
const FriendThreshold = 6

// ConversationService is the shared append-only message log used by
// all three surfaces, plus the derived facts computed from it: the
// established theme of a pair and the friend-request threshold.
type ConversationService struct {
	store *store.Store
	now   func() time.Time
}

func NewConversationService(st *store.Store) *ConversationService {
	return &ConversationService{store: st, now: time.Now}
}

// Sanitize strips newlines, collapses whitespace runs, trims, and
// truncates to maxLen runes (0 = no cap). Applying it twice yields the
// same result.
func Sanitize(s string, maxLen int) string {
	s = strings.Join(strings.Fields(s), " ")
	if maxLen > 0 {
		if r := []rune(s); len(r) > maxLen {
			s = strings.TrimRight(string(r[:maxLen]), " ")
		}
	}
	return s
}

type AppendInput struct {
	Surface   domain.Surface
	Sender    string
	Recipient string
	Body      string
	// Theme is a candidate tag. It is persisted only when the
	// conversation has no established theme yet; otherwise the tag is
	// dropped and the established theme stays authoritative.
	Theme string
}

func (s *ConversationService) Append(ctx context.Context, in AppendInput) (domain.Message, error) {
	if !in.Surface.Valid() || in.Sender == "" || in.Recipient == "" {
		return domain.Message{}, fmt.Errorf("%w: sender and recipient required", ErrInvalidRequest)
	}
	body := Sanitize(in.Body, PolicyFor(in.Surface).MaxMessageLen)
	if body == "" {
		return domain.Message{}, fmt.Errorf("%w: empty message", ErrInvalidRequest)
	}

	msg := domain.Message{
		Surface:   in.Surface,
		Sender:    in.Sender,
		Recipient: in.Recipient,
		Body:      body,
		CreatedAt: s.now().UTC(),
	}
	err := s.store.WithTx(ctx, func(tx *store.Store) error {
		if in.Theme != "" {
			established, err := tx.Messages().EarliestTheme(ctx, in.Surface, in.Sender, in.Recipient)
			if err != nil {
				return err
			}
			if established == "" {
				theme := in.Theme
				msg.Theme = &theme
			}
		}
		return tx.Messages().Append(ctx, &msg)
	})
	if err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// Conversation returns all messages between a and b in either
// direction, oldest first.
func (s *ConversationService) Conversation(ctx context.Context, surface domain.Surface, a, b string) ([]domain.Message, error) {
	return s.store.Messages().Conversation(ctx, surface, a, b)
}

// ResolveTheme is the only source of truth for a pair's established
// theme: the tag on the earliest tagged message, or "" when unthemed.
func (s *ConversationService) ResolveTheme(ctx context.Context, surface domain.Surface, a, b string) (string, error) {
	return s.store.Messages().EarliestTheme(ctx, surface, a, b)
}

// CanRequestFriend recomputes the threshold gate from the log on every
// call. It holds no state: new appends change the answer immediately,
// and the count can only grow.
func (s *ConversationService) CanRequestFriend(ctx context.Context, surface domain.Surface, a, b string) (bool, error) {
	n, err := s.store.Messages().CountConversation(ctx, surface, a, b)
	if err != nil {
		return false, err
	}
	return n >= FriendThreshold, nil
}
