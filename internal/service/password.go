package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the opaque credential-hashing capability. The
// identity service never inspects digests beyond IsDigest, which it
// needs to spot legacy plaintext rows.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
	IsDigest(stored string) bool
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher() BcryptHasher { return BcryptHasher{Cost: bcrypt.DefaultCost} }

func (h BcryptHasher) Hash(plaintext string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

func (h BcryptHasher) Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}

// IsDigest reports whether a stored credential is a bcrypt digest, as
// opposed to a legacy plaintext row awaiting migration.
func (h BcryptHasher) IsDigest(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}
