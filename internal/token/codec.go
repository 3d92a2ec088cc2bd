// Gesco | 2026
// codec.go

package token

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gesco-cm/gesco/internal/core"
)

// Kind discriminates access tokens from refresh tokens. Verification of one
// kind never accepts the other.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

// Claims is the wire shape of a Gesco token: standard JWT registered claims
// plus the owning entreprise and the token kind. The subject is the user id
// serialised as a string for JWT `sub` compatibility.
type Claims struct {
	EntrepriseID int64 `json:"ent"`
	TokenKind    Kind  `json:"kind"`
	jwt.RegisteredClaims
}

// SubjectID parses the `sub` claim back to the integer user id. A
// non-integer subject makes the whole token invalid.
func (c *Claims) SubjectID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse subject %q: %w", c.Subject, core.ErrTokenInvalid)
	}
	return id, nil
}

// Codec mints and verifies HMAC-SHA256 signed tokens. It is a pure function
// of its inputs and the configured secret: no clock storage, no I/O.
type Codec struct {
	secret []byte
	now    func() time.Time
}

func NewCodec(secret string) *Codec {
	return &Codec{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// NewCodecAt builds a codec with a fixed clock. Tests use it to mint tokens
// in the past or future without sleeping.
func NewCodecAt(secret string, now func() time.Time) *Codec {
	return &Codec{
		secret: []byte(secret),
		now:    now,
	}
}

// Mint signs a token for subjectID scoped to entrepriseID, valid for ttl
// from the current wall clock.
func (c *Codec) Mint(
	subjectID, entrepriseID int64,
	kind Kind,
	ttl time.Duration,
) (string, error) {
	if kind != KindAccess && kind != KindRefresh {
		return "", fmt.Errorf("mint token: unknown kind %q", kind)
	}

	now := c.now()

	claims := Claims{
		EntrepriseID: entrepriseID,
		TokenKind:    kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(subjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify validates the signature, expiry and kind of a token string.
// Expiry is strict: no leeway is granted. Every failure collapses into
// core.ErrTokenInvalid so callers cannot distinguish tampering from expiry.
func (c *Codec) Verify(tokenString string, expected Kind) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf(
					"unexpected signing method: %v",
					t.Header["alg"],
				)
			}
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	if !parsed.Valid {
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	if claims.TokenKind != expected {
		return nil, fmt.Errorf(
			"verify token: kind %q, want %q: %w",
			claims.TokenKind,
			expected,
			core.ErrTokenInvalid,
		)
	}

	if _, err := claims.SubjectID(); err != nil {
		return nil, fmt.Errorf("verify token: %w", err)
	}

	return claims, nil
}
