package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"tsunagari/internal/domain"
	"tsunagari/internal/service"
	"tsunagari/internal/session"
	"tsunagari/internal/topic"
)

type pairingFixture struct {
	sessions *session.Manager
	pairing  *service.PairingService
	friends  *service.FriendshipService
}

func setupPairing(t *testing.T) pairingFixture {
	t.Helper()
	st := setupStore(t)
	convos := service.NewConversationService(st)
	friends := service.NewFriendshipService(st)
	sessions := session.NewManager()
	return pairingFixture{
		sessions: sessions,
		pairing:  service.NewPairingService(sessions, convos, friends),
		friends:  friends,
	}
}

func TestPairingRequiresPartner(t *testing.T) {
	f := setupPairing(t)
	ctx := context.Background()
	sess := f.sessions.Start(domain.SurfacePairing, "akane")

	if _, err := f.pairing.State(ctx, sess.ID); !errors.Is(err, service.ErrInvalidRequest) {
		t.Fatalf("state without partner: %v", err)
	}
	if _, err := f.pairing.Send(ctx, sess.ID, "hello"); !errors.Is(err, service.ErrInvalidRequest) {
		t.Fatalf("send without partner: %v", err)
	}
	if _, err := f.pairing.SetPartner(ctx, sess.ID, "akane"); !errors.Is(err, service.ErrInvalidRequest) {
		t.Fatalf("self-pairing must be rejected: %v", err)
	}
	if _, err := f.pairing.State(ctx, "no-such-session"); !errors.Is(err, service.ErrInvalidRequest) {
		t.Fatalf("unknown session: %v", err)
	}
}

func TestThemeChoicesStableUntilUsed(t *testing.T) {
	f := setupPairing(t)
	ctx := context.Background()
	sess := f.sessions.Start(domain.SurfacePairing, "akane")

	st, err := f.pairing.SetPartner(ctx, sess.ID, "midori")
	if err != nil {
		t.Fatalf("set partner: %v", err)
	}
	if len(st.ThemeChoices) != 4 {
		t.Fatalf("expected 4 candidate themes, got %v", st.ThemeChoices)
	}
	for _, c := range st.ThemeChoices {
		if !topic.Known(c) {
			t.Fatalf("dealt unknown theme %q", c)
		}
	}

	// Polling the state again must not reshuffle the hand.
	again, err := f.pairing.State(ctx, sess.ID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	for i := range st.ThemeChoices {
		if again.ThemeChoices[i] != st.ThemeChoices[i] {
			t.Fatalf("choices reshuffled: %v vs %v", st.ThemeChoices, again.ThemeChoices)
		}
	}

	// Switching partners deals a fresh hand and drops the selection.
	if err := f.pairing.ChooseTheme(sess.ID, st.ThemeChoices[0]); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if _, err := f.pairing.SetPartner(ctx, sess.ID, "sora"); err != nil {
		t.Fatalf("set partner: %v", err)
	}
	cur, _ := f.sessions.Get(sess.ID)
	if cur.SelectedTheme != "" || cur.CardIndex != 0 {
		t.Fatalf("partner switch must reset scratch state: %+v", cur)
	}
}

func TestChooseThemeRejectsUnknown(t *testing.T) {
	f := setupPairing(t)
	sess := f.sessions.Start(domain.SurfacePairing, "akane")
	if err := f.pairing.ChooseTheme(sess.ID, "時空旅行"); !errors.Is(err, service.ErrUnknownTheme) {
		t.Fatalf("expected ErrUnknownTheme, got %v", err)
	}
}

// TestPairingFirstMessageClaimsTheme walks the race the theme rule
// exists for: both sides pick a theme locally, but only the first
// message to land decides the conversation's theme for good.
func TestPairingFirstMessageClaimsTheme(t *testing.T) {
	f := setupPairing(t)
	ctx := context.Background()

	a := f.sessions.Start(domain.SurfacePairing, "akane")
	b := f.sessions.Start(domain.SurfacePairing, "midori")
	if _, err := f.pairing.SetPartner(ctx, a.ID, "midori"); err != nil {
		t.Fatalf("a set partner: %v", err)
	}
	if _, err := f.pairing.SetPartner(ctx, b.ID, "akane"); err != nil {
		t.Fatalf("b set partner: %v", err)
	}

	if err := f.pairing.ChooseTheme(a.ID, "猫"); err != nil {
		t.Fatalf("a choose: %v", err)
	}
	if err := f.pairing.ChooseTheme(b.ID, "ゲーム"); err != nil {
		t.Fatalf("b choose: %v", err)
	}

	if _, err := f.pairing.Send(ctx, a.ID, "こんにちは"); err != nil {
		t.Fatalf("a send: %v", err)
	}
	if _, err := f.pairing.Send(ctx, b.ID, "よろしく"); err != nil {
		t.Fatalf("b send: %v", err)
	}

	// Both sides now see akane's theme; midori's selection lost the race.
	for _, sid := range []string{a.ID, b.ID} {
		st, err := f.pairing.State(ctx, sid)
		if err != nil {
			t.Fatalf("state: %v", err)
		}
		if st.Theme != "猫" {
			t.Fatalf("session %s sees theme %q", sid, st.Theme)
		}
		if len(st.ThemeChoices) != 0 {
			t.Fatalf("themed pair must not offer choices, got %v", st.ThemeChoices)
		}
		if st.Prompt != topic.Prompt("猫", 0) {
			t.Fatalf("prompt mismatch: %q", st.Prompt)
		}
	}
}

func TestPromptRotationWraps(t *testing.T) {
	f := setupPairing(t)
	ctx := context.Background()

	sess := f.sessions.Start(domain.SurfacePairing, "akane")
	if _, err := f.pairing.SetPartner(ctx, sess.ID, "midori"); err != nil {
		t.Fatalf("set partner: %v", err)
	}

	// No theme yet: rotation has nothing to rotate.
	if _, err := f.pairing.NextPrompt(ctx, sess.ID); !errors.Is(err, service.ErrInvalidRequest) {
		t.Fatalf("rotation before theme: %v", err)
	}

	if err := f.pairing.ChooseTheme(sess.ID, "音楽"); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if _, err := f.pairing.Send(ctx, sess.ID, "hi"); err != nil {
		t.Fatalf("send: %v", err)
	}

	want := []string{
		topic.Prompt("音楽", 1),
		topic.Prompt("音楽", 2),
		topic.Prompt("音楽", 0), // wraps back to the first card
		topic.Prompt("音楽", 1),
	}
	for i, w := range want {
		got, err := f.pairing.NextPrompt(ctx, sess.ID)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if got != w {
			t.Fatalf("rotation step %d: expected %q, got %q", i, w, got)
		}
	}
}

// TestPairingToFriendshipFlow is the whole arc: pair up, talk past the
// threshold, request, approve, and end with a mutual friendship.
func TestPairingToFriendshipFlow(t *testing.T) {
	f := setupPairing(t)
	ctx := context.Background()

	a := f.sessions.Start(domain.SurfacePairing, "akane")
	b := f.sessions.Start(domain.SurfacePairing, "midori")
	if _, err := f.pairing.SetPartner(ctx, a.ID, "midori"); err != nil {
		t.Fatalf("a set partner: %v", err)
	}
	if _, err := f.pairing.SetPartner(ctx, b.ID, "akane"); err != nil {
		t.Fatalf("b set partner: %v", err)
	}
	if err := f.pairing.ChooseTheme(a.ID, "旅行"); err != nil {
		t.Fatalf("choose: %v", err)
	}

	// Too early: the graph must stay untouched.
	if err := f.pairing.RequestFriend(ctx, a.ID); !errors.Is(err, domain.ErrThresholdNotMet) {
		t.Fatalf("premature request: %v", err)
	}

	for i := 0; i < service.FriendThreshold; i++ {
		sid := a.ID
		if i%2 == 1 {
			sid = b.ID
		}
		if _, err := f.pairing.Send(ctx, sid, fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("send %d: %v", i, err)
		}
	}

	st, err := f.pairing.State(ctx, a.ID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if !st.CanRequest {
		t.Fatalf("threshold reached but CanRequest is false: %+v", st)
	}
	if len(st.Messages) != service.FriendThreshold {
		t.Fatalf("expected %d messages, got %d", service.FriendThreshold, len(st.Messages))
	}

	if err := f.pairing.RequestFriend(ctx, a.ID); err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := f.pairing.RequestFriend(ctx, a.ID); !errors.Is(err, domain.ErrAlreadyRequested) {
		t.Fatalf("duplicate request: %v", err)
	}

	incoming, err := f.friends.Incoming(ctx, domain.SurfacePairing, "midori")
	if err != nil || len(incoming) != 1 || incoming[0] != "akane" {
		t.Fatalf("incoming = %v (%v)", incoming, err)
	}
	if err := f.friends.Approve(ctx, domain.SurfacePairing, "midori", "akane"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	for _, handle := range []string{"akane", "midori"} {
		friends, err := f.friends.Friends(ctx, domain.SurfacePairing, handle)
		if err != nil || len(friends) != 1 {
			t.Fatalf("%s's friends = %v (%v)", handle, friends, err)
		}
	}
}
