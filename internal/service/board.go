package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"tsunagari/internal/domain"
	"tsunagari/internal/store"
)

// BoardService is the threaded public board: flat threads owning
// messages, with a single privileged admin handle allowed to delete.
type BoardService struct {
	store       *store.Store
	convos      *ConversationService
	adminHandle string
	now         func() time.Time
}

func NewBoardService(st *store.Store, convos *ConversationService, adminHandle string) *BoardService {
	return &BoardService{store: st, convos: convos, adminHandle: adminHandle, now: time.Now}
}

// threadKey is the recipient value under which a thread's messages
// live in the shared log.
func threadKey(id uint64) string { return strconv.FormatUint(id, 10) }

func (s *BoardService) CreateThread(ctx context.Context, title string) (domain.Thread, error) {
	title = Sanitize(title, PolicyFor(domain.SurfaceBoard).MaxTitleLen)
	if title == "" {
		return domain.Thread{}, fmt.Errorf("%w: empty title", ErrInvalidRequest)
	}
	th := domain.Thread{Title: title, CreatedAt: s.now().UTC()}
	if err := s.store.Threads().Create(ctx, &th); err != nil {
		return domain.Thread{}, err
	}
	return th, nil
}

// Threads lists threads newest first, optionally filtered by a title
// substring.
func (s *BoardService) Threads(ctx context.Context, keyword string) ([]domain.Thread, error) {
	return s.store.Threads().List(ctx, keyword)
}

func (s *BoardService) Post(ctx context.Context, sender string, threadID uint64, body string) (domain.Message, error) {
	if _, err := s.store.Threads().Get(ctx, threadID); err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.Message{}, ErrThreadNotFound
		}
		return domain.Message{}, err
	}
	return s.convos.Append(ctx, AppendInput{
		Surface:   domain.SurfaceBoard,
		Sender:    sender,
		Recipient: threadKey(threadID),
		Body:      body,
	})
}

// Messages returns a thread's feed, newest first by id.
func (s *BoardService) Messages(ctx context.Context, threadID uint64) ([]domain.Message, error) {
	return s.store.Messages().ForRecipient(ctx, domain.SurfaceBoard, threadKey(threadID))
}

// DeleteMessage removes one message. Admin only: authorization is a
// handle-equality check against the configured admin identity.
func (s *BoardService) DeleteMessage(ctx context.Context, actor string, id uint64) error {
	if actor != s.adminHandle {
		return domain.ErrForbidden
	}
	return s.store.Messages().Delete(ctx, domain.SurfaceBoard, id)
}

// PurgeThread deletes a thread's entire message history. Admin only.
// The thread itself stays; threads never expire.
func (s *BoardService) PurgeThread(ctx context.Context, actor string, threadID uint64) error {
	if actor != s.adminHandle {
		return domain.ErrForbidden
	}
	return s.store.Messages().DeleteForRecipient(ctx, domain.SurfaceBoard, threadKey(threadID))
}

// IsAdmin reports whether the handle is the configured board admin.
func (s *BoardService) IsAdmin(handle string) bool { return handle == s.adminHandle }
