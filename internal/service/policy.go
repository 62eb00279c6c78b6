package service

import (
	"strings"

	"tsunagari/internal/domain"
)

// Policy captures the per-surface behavioral differences that used to
// be duplicated (inconsistently) across the three surfaces. Everything
// else about identities, messages and friendships is shared.
type Policy struct {
	// TrimHandles normalizes handle whitespace at registration and
	// login. Historically only the board did this.
	TrimHandles bool
	// MaxMessageLen caps message bodies in runes. 0 means the server
	// does not enforce a cap (the client UI limits input instead).
	MaxMessageLen int
	// MaxTitleLen caps thread titles (board only).
	MaxTitleLen int
	// MigrateLegacyCredentials enables the one-time plaintext-to-hash
	// rewrite on successful login (board only).
	MigrateLegacyCredentials bool
}

func PolicyFor(surface domain.Surface) Policy {
	switch surface {
	case domain.SurfaceBoard:
		return Policy{
			TrimHandles:              true,
			MaxMessageLen:            150,
			MaxTitleLen:              64,
			MigrateLegacyCredentials: true,
		}
	default:
		return Policy{}
	}
}

// NormalizeHandle applies the surface's handle normalization. The
// transport layer uses it so tokens carry the stored form of the
// handle, not whatever padding the client sent.
func (p Policy) NormalizeHandle(h string) string {
	if p.TrimHandles {
		return strings.TrimSpace(h)
	}
	return h
}
