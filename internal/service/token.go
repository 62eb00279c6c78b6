package service

import (
	"context"
	"fmt"
	"time"

	"tsunagari/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// TokenService mints and validates HS256 session tokens. The subject
// is the handle; a custom claim carries the surface so a chat token
// cannot be replayed against the board.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

type Identity struct {
	Surface domain.Surface
	Handle  string
}

func (t *TokenService) Issue(surface domain.Surface, handle string) (string, error) {
	now := t.now().UTC()
	claims := jwt.MapClaims{
		"iss": t.issuer,
		"sub": handle,
		"srf": string(surface),
		"iat": now.Unix(),
		"exp": now.Add(t.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

func (t *TokenService) Validate(tokenStr string) (Identity, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %T", token.Method)
		}
		return t.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, domain.ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, domain.ErrInvalidCredentials
	}
	if iss, _ := claims["iss"].(string); iss != "" && iss != t.issuer {
		return Identity{}, domain.ErrInvalidCredentials
	}
	sub, _ := claims["sub"].(string)
	srf, _ := claims["srf"].(string)
	id := Identity{Surface: domain.Surface(srf), Handle: sub}
	if id.Handle == "" || !id.Surface.Valid() {
		return Identity{}, domain.ErrInvalidCredentials
	}
	return id, nil
}

type identityKey struct{}

func ContextWithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (Identity, bool) {
	v, ok := ctx.Value(identityKey{}).(Identity)
	return v, ok
}
