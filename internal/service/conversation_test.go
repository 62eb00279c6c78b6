package service_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"unicode/utf8"

	"tsunagari/internal/domain"
	"tsunagari/internal/service"
)

func TestSanitizeIdempotent(t *testing.T) {
	cases := []string{
		"",
		"hello",
		"  hello   world  ",
		"line\r\nbreaks\nand\rmore",
		"\t tabs \t and　spaces ",
		"日本語の　メッセージ\nです",
	}
	for _, in := range cases {
		once := service.Sanitize(in, 0)
		twice := service.Sanitize(once, 0)
		if once != twice {
			t.Fatalf("sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeBounds(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "あいうえお "
	}
	for _, max := range []int{1, 10, 150} {
		got := service.Sanitize(long, max)
		if n := utf8.RuneCountInString(got); n > max {
			t.Fatalf("max %d: got %d runes", max, n)
		}
		if got != service.Sanitize(got, max) {
			t.Fatalf("truncated output not stable under resanitize: %q", got)
		}
	}
}

func TestAppendRejectsEmptyBody(t *testing.T) {
	st := setupStore(t)
	svc := service.NewConversationService(st)

	for _, body := range []string{"", "   ", "\n\r\n", " \t "} {
		_, err := svc.Append(context.Background(), service.AppendInput{
			Surface: domain.SurfaceChat, Sender: "a", Recipient: "b", Body: body,
		})
		if !errors.Is(err, service.ErrInvalidRequest) {
			t.Fatalf("body %q: expected ErrInvalidRequest, got %v", body, err)
		}
	}
}

func TestBoardMessageLengthCap(t *testing.T) {
	st := setupStore(t)
	svc := service.NewConversationService(st)

	long := ""
	for i := 0; i < 300; i++ {
		long += "x"
	}
	msg, err := svc.Append(context.Background(), service.AppendInput{
		Surface: domain.SurfaceBoard, Sender: "a", Recipient: "1", Body: long,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if n := utf8.RuneCountInString(msg.Body); n != 150 {
		t.Fatalf("expected 150-rune cap on the board, got %d", n)
	}

	// Chat is server-side unbounded.
	msg, err = svc.Append(context.Background(), service.AppendInput{
		Surface: domain.SurfaceChat, Sender: "a", Recipient: "b", Body: long,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if n := utf8.RuneCountInString(msg.Body); n != 300 {
		t.Fatalf("chat body truncated to %d", n)
	}
}

func TestConversationOrderAndDirections(t *testing.T) {
	st := setupStore(t)
	svc := service.NewConversationService(st)
	ctx := context.Background()

	bodies := []struct{ from, to, body string }{
		{"a", "b", "one"},
		{"b", "a", "two"},
		{"a", "b", "three"},
	}
	for _, m := range bodies {
		if _, err := svc.Append(ctx, service.AppendInput{
			Surface: domain.SurfaceChat, Sender: m.from, Recipient: m.to, Body: m.body,
		}); err != nil {
			t.Fatalf("append %q: %v", m.body, err)
		}
	}

	msgs, err := svc.Conversation(ctx, domain.SurfaceChat, "a", "b")
	if err != nil {
		t.Fatalf("conversation: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, want := range []string{"one", "two", "three"} {
		if msgs[i].Body != want {
			t.Fatalf("position %d: expected %q, got %q", i, want, msgs[i].Body)
		}
	}

	// Same history regardless of argument order.
	rev, err := svc.Conversation(ctx, domain.SurfaceChat, "b", "a")
	if err != nil {
		t.Fatalf("reverse conversation: %v", err)
	}
	if len(rev) != 3 || rev[0].Body != "one" {
		t.Fatalf("pair lookup should be symmetric, got %+v", rev)
	}
}

func TestThemeStability(t *testing.T) {
	st := setupStore(t)
	svc := service.NewConversationService(st)
	ctx := context.Background()

	theme, err := svc.ResolveTheme(ctx, domain.SurfacePairing, "a", "b")
	if err != nil || theme != "" {
		t.Fatalf("fresh pair should be unthemed, got %q err %v", theme, err)
	}

	msg, err := svc.Append(ctx, service.AppendInput{
		Surface: domain.SurfacePairing, Sender: "a", Recipient: "b", Body: "hello", Theme: "猫",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if msg.Theme == nil || *msg.Theme != "猫" {
		t.Fatalf("first themed message must carry the tag, got %v", msg.Theme)
	}

	// Untagged traffic and a competing tag from the other side change
	// nothing: the earliest tag is authoritative forever.
	for i := 0; i < 5; i++ {
		if _, err := svc.Append(ctx, service.AppendInput{
			Surface: domain.SurfacePairing, Sender: "b", Recipient: "a", Body: fmt.Sprintf("reply %d", i),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	late, err := svc.Append(ctx, service.AppendInput{
		Surface: domain.SurfacePairing, Sender: "b", Recipient: "a", Body: "late pick", Theme: "ゲーム",
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if late.Theme != nil {
		t.Fatalf("competing tag should be dropped, got %q", *late.Theme)
	}

	theme, err = svc.ResolveTheme(ctx, domain.SurfacePairing, "b", "a")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if theme != "猫" {
		t.Fatalf("theme drifted to %q", theme)
	}
}

func TestThresholdGate(t *testing.T) {
	st := setupStore(t)
	svc := service.NewConversationService(st)
	ctx := context.Background()

	for i := 1; i <= service.FriendThreshold+2; i++ {
		// Alternate directions, though the gate doesn't care who sent.
		from, to := "a", "b"
		if i%2 == 0 {
			from, to = "b", "a"
		}
		if _, err := svc.Append(ctx, service.AppendInput{
			Surface: domain.SurfacePairing, Sender: from, Recipient: to, Body: fmt.Sprintf("msg %d", i),
		}); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}

		can, err := svc.CanRequestFriend(ctx, domain.SurfacePairing, "a", "b")
		if err != nil {
			t.Fatalf("gate at %d: %v", i, err)
		}
		if want := i >= service.FriendThreshold; can != want {
			t.Fatalf("at %d messages expected %v, got %v", i, want, can)
		}
	}
}

func TestThresholdCountsOneSidedBursts(t *testing.T) {
	st := setupStore(t)
	svc := service.NewConversationService(st)
	ctx := context.Background()

	for i := 0; i < service.FriendThreshold; i++ {
		if _, err := svc.Append(ctx, service.AppendInput{
			Surface: domain.SurfacePairing, Sender: "a", Recipient: "b", Body: fmt.Sprintf("solo %d", i),
		}); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	can, err := svc.CanRequestFriend(ctx, domain.SurfacePairing, "a", "b")
	if err != nil {
		t.Fatalf("gate: %v", err)
	}
	if !can {
		t.Fatal("total count gates the request; turn-taking is not enforced")
	}
}
