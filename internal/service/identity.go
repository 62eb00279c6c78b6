package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tsunagari/internal/domain"
	"tsunagari/internal/store"
)

// IdentityService registers and authenticates anonymous identities.
// Handles are unique per surface; credentials are bcrypt digests.
type IdentityService struct {
	store  *store.Store
	hasher PasswordHasher
	now    func() time.Time
}

func NewIdentityService(st *store.Store, hasher PasswordHasher) *IdentityService {
	return &IdentityService{store: st, hasher: hasher, now: time.Now}
}

func (s *IdentityService) Register(ctx context.Context, surface domain.Surface, handle, password string) error {
	if !surface.Valid() {
		return fmt.Errorf("%w: unknown surface", ErrInvalidRequest)
	}
	handle = PolicyFor(surface).NormalizeHandle(handle)
	if handle == "" || password == "" {
		return fmt.Errorf("%w: handle and password required", ErrInvalidRequest)
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	return s.store.Users().Create(ctx, &domain.User{
		Surface:    surface,
		Handle:     handle,
		Credential: digest,
		CreatedAt:  s.now().UTC(),
	})
}

// Authenticate verifies a handle/password pair. Every failure mode
// (unknown handle, wrong password) comes back as the same
// domain.ErrInvalidCredentials so handles cannot be enumerated.
//
// Surfaces with MigrateLegacyCredentials upgrade plaintext-stored
// credentials in place on the first successful plaintext match. The
// rewrite is best-effort: if it fails, the login still succeeds.
func (s *IdentityService) Authenticate(ctx context.Context, surface domain.Surface, handle, password string) error {
	if !surface.Valid() {
		return fmt.Errorf("%w: unknown surface", ErrInvalidRequest)
	}
	policy := PolicyFor(surface)
	handle = policy.NormalizeHandle(handle)
	if handle == "" || password == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.store.Users().GetByHandle(ctx, surface, handle)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return domain.ErrInvalidCredentials
		}
		return err
	}

	if s.hasher.IsDigest(user.Credential) {
		if !s.hasher.Verify(password, user.Credential) {
			return domain.ErrInvalidCredentials
		}
		return nil
	}

	if !policy.MigrateLegacyCredentials || user.Credential != password {
		return domain.ErrInvalidCredentials
	}
	s.migrateLegacyCredential(ctx, surface, handle, password)
	return nil
}

func (s *IdentityService) migrateLegacyCredential(ctx context.Context, surface domain.Surface, handle, password string) {
	digest, err := s.hasher.Hash(password)
	if err == nil {
		err = s.store.Users().UpdateCredential(ctx, surface, handle, digest)
	}
	if err != nil {
		slog.Warn("legacy credential migration failed", "surface", surface, "error", err)
	}
}

// EnsureAdmin makes sure the configured board admin exists, upgrading
// a legacy plaintext admin row if one is present. Called at startup.
func (s *IdentityService) EnsureAdmin(ctx context.Context, handle, password string) error {
	user, err := s.store.Users().GetByHandle(ctx, domain.SurfaceBoard, handle)
	if errors.Is(err, store.ErrRecordNotFound) {
		return s.Register(ctx, domain.SurfaceBoard, handle, password)
	}
	if err != nil {
		return err
	}
	if !s.hasher.IsDigest(user.Credential) && user.Credential == password {
		digest, err := s.hasher.Hash(password)
		if err != nil {
			return err
		}
		return s.store.Users().UpdateCredential(ctx, domain.SurfaceBoard, handle, digest)
	}
	return nil
}

// ListHandles returns every registered handle on a surface. The
// transport layer restricts this to the admin.
func (s *IdentityService) ListHandles(ctx context.Context, surface domain.Surface) ([]string, error) {
	return s.store.Users().ListHandles(ctx, surface)
}
