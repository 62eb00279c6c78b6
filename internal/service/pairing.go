package service

import (
	"context"
	"fmt"

	"tsunagari/internal/domain"
	"tsunagari/internal/session"
	"tsunagari/internal/topic"
)

// PairingService drives the pairing surface: two strangers are handed
// a shared conversation theme, exchange messages, and once enough have
// been traded either may request friendship.
//
// Durable facts (theme, history, friendship) always come from the
// conversation log and relationship graph. The session only carries
// scratch state: the partner being talked to, a theme selection that
// has not yet been committed by a message, and the prompt-card index.
type PairingService struct {
	sessions *session.Manager
	convos   *ConversationService
	friends  *FriendshipService
}

func NewPairingService(sessions *session.Manager, convos *ConversationService, friends *FriendshipService) *PairingService {
	return &PairingService{sessions: sessions, convos: convos, friends: friends}
}

const themeChoiceCount = 4

// PairState is the derived view of one pairing conversation, rebuilt
// from storage on every call.
type PairState struct {
	Partner      string
	Theme        string   // established theme, "" while unthemed
	ThemeChoices []string // offered only while unthemed
	Prompt       string   // current card of the established theme
	Messages     []domain.Message
	CanRequest   bool
}

// SetPartner points the session at a partner handle and returns the
// current state of that pair.
func (s *PairingService) SetPartner(ctx context.Context, sessionID, partner string) (PairState, error) {
	st, ok := s.sessions.Get(sessionID)
	if !ok {
		return PairState{}, fmt.Errorf("%w: unknown session", ErrInvalidRequest)
	}
	if partner == "" || partner == st.Handle {
		return PairState{}, fmt.Errorf("%w: bad partner", ErrInvalidRequest)
	}
	s.sessions.Update(sessionID, func(st *session.State) {
		if st.Partner != partner {
			st.Partner = partner
			st.SelectedTheme = ""
			st.ThemeChoices = nil
			st.CardIndex = 0
		}
	})
	return s.State(ctx, sessionID)
}

// State recomputes the pair view. While the conversation is unthemed
// the session is dealt four candidate themes (kept until used so a
// poll refresh does not reshuffle them).
func (s *PairingService) State(ctx context.Context, sessionID string) (PairState, error) {
	st, ok := s.sessions.Get(sessionID)
	if !ok {
		return PairState{}, fmt.Errorf("%w: unknown session", ErrInvalidRequest)
	}
	if st.Partner == "" {
		return PairState{}, fmt.Errorf("%w: no partner selected", ErrInvalidRequest)
	}

	out := PairState{Partner: st.Partner}

	theme, err := s.convos.ResolveTheme(ctx, domain.SurfacePairing, st.Handle, st.Partner)
	if err != nil {
		return PairState{}, err
	}
	out.Theme = theme

	if theme != "" {
		out.Prompt = topic.Prompt(theme, st.CardIndex)
	} else {
		if len(st.ThemeChoices) == 0 {
			s.sessions.Update(sessionID, func(st *session.State) {
				st.ThemeChoices = topic.Sample(themeChoiceCount)
			})
			st, _ = s.sessions.Get(sessionID)
		}
		out.ThemeChoices = st.ThemeChoices
	}

	out.Messages, err = s.convos.Conversation(ctx, domain.SurfacePairing, st.Handle, st.Partner)
	if err != nil {
		return PairState{}, err
	}
	out.CanRequest, err = s.convos.CanRequestFriend(ctx, domain.SurfacePairing, st.Handle, st.Partner)
	if err != nil {
		return PairState{}, err
	}
	return out, nil
}

// ChooseTheme records a theme selection in the session only. Nothing
// becomes durable until the next message commits the tag; if the
// partner's themed message lands first, their theme wins.
func (s *PairingService) ChooseTheme(sessionID, theme string) error {
	if !topic.Known(theme) {
		return ErrUnknownTheme
	}
	ok := s.sessions.Update(sessionID, func(st *session.State) {
		st.SelectedTheme = theme
		st.CardIndex = 0
	})
	if !ok {
		return fmt.Errorf("%w: unknown session", ErrInvalidRequest)
	}
	return nil
}

// Send appends a message to the pair's log. The tag applied is the
// established theme if one exists, otherwise the session's selection;
// the append itself drops the tag when a concurrent first message has
// already claimed a theme.
func (s *PairingService) Send(ctx context.Context, sessionID, body string) (domain.Message, error) {
	st, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Message{}, fmt.Errorf("%w: unknown session", ErrInvalidRequest)
	}
	if st.Partner == "" {
		return domain.Message{}, fmt.Errorf("%w: no partner selected", ErrInvalidRequest)
	}

	theme, err := s.convos.ResolveTheme(ctx, domain.SurfacePairing, st.Handle, st.Partner)
	if err != nil {
		return domain.Message{}, err
	}
	if theme == "" {
		theme = st.SelectedTheme
	}
	return s.convos.Append(ctx, AppendInput{
		Surface:   domain.SurfacePairing,
		Sender:    st.Handle,
		Recipient: st.Partner,
		Body:      body,
		Theme:     theme,
	})
}

// NextPrompt advances the rotating card for the established theme and
// returns the new prompt. The index wraps and is session-local.
func (s *PairingService) NextPrompt(ctx context.Context, sessionID string) (string, error) {
	st, ok := s.sessions.Get(sessionID)
	if !ok {
		return "", fmt.Errorf("%w: unknown session", ErrInvalidRequest)
	}
	theme, err := s.convos.ResolveTheme(ctx, domain.SurfacePairing, st.Handle, st.Partner)
	if err != nil {
		return "", err
	}
	if theme == "" {
		return "", fmt.Errorf("%w: conversation has no theme", ErrInvalidRequest)
	}
	var idx int
	s.sessions.Update(sessionID, func(st *session.State) {
		st.CardIndex = (st.CardIndex + 1) % topic.PromptsPerTheme
		idx = st.CardIndex
	})
	return topic.Prompt(theme, idx), nil
}

// RequestFriend sends a friend request to the session's partner,
// enforcing the message-count threshold before touching the graph.
func (s *PairingService) RequestFriend(ctx context.Context, sessionID string) error {
	st, ok := s.sessions.Get(sessionID)
	if !ok {
		return fmt.Errorf("%w: unknown session", ErrInvalidRequest)
	}
	if st.Partner == "" {
		return fmt.Errorf("%w: no partner selected", ErrInvalidRequest)
	}
	can, err := s.convos.CanRequestFriend(ctx, domain.SurfacePairing, st.Handle, st.Partner)
	if err != nil {
		return err
	}
	if !can {
		return domain.ErrThresholdNotMet
	}
	return s.friends.Request(ctx, domain.SurfacePairing, st.Handle, st.Partner)
}
