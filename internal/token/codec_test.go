// Gesco | 2026
// codec_test.go

package token_test

import (
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/golang-jwt/jwt/v5"

	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/token"
)

const testSecret = "test-secret-key-at-least-32-bytes-long!!"

func TestMintVerifyRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind token.Kind
	}{
		{name: "access token", kind: token.KindAccess},
		{name: "refresh token", kind: token.KindRefresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			codec := token.NewCodec(testSecret)

			signed, err := codec.Mint(42, 7, tt.kind, time.Hour)
			c.Assert(err, qt.IsNil)
			c.Assert(signed, qt.Not(qt.Equals), "")

			claims, err := codec.Verify(signed, tt.kind)
			c.Assert(err, qt.IsNil)

			subjectID, err := claims.SubjectID()
			c.Assert(err, qt.IsNil)
			c.Assert(subjectID, qt.Equals, int64(42))
			c.Assert(claims.EntrepriseID, qt.Equals, int64(7))
			c.Assert(claims.TokenKind, qt.Equals, tt.kind)
		})
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	c := qt.New(t)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	minter := token.NewCodecAt(testSecret, func() time.Time { return t0 })

	signed, err := minter.Mint(1, 1, token.KindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	// one second past expiry, no leeway
	later := token.NewCodecAt(testSecret, func() time.Time {
		return t0.Add(time.Hour + time.Second)
	})

	_, err = later.Verify(signed, token.KindAccess)
	c.Assert(err, qt.ErrorIs, core.ErrTokenInvalid)
}

func TestVerifyJustBeforeExpiry(t *testing.T) {
	c := qt.New(t)

	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	minter := token.NewCodecAt(testSecret, func() time.Time { return t0 })

	signed, err := minter.Mint(1, 1, token.KindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	later := token.NewCodecAt(testSecret, func() time.Time {
		return t0.Add(time.Hour - time.Second)
	})

	_, err = later.Verify(signed, token.KindAccess)
	c.Assert(err, qt.IsNil)
}

func TestVerifyKindSeparation(t *testing.T) {
	c := qt.New(t)

	codec := token.NewCodec(testSecret)

	refresh, err := codec.Mint(42, 7, token.KindRefresh, time.Hour)
	c.Assert(err, qt.IsNil)

	_, err = codec.Verify(refresh, token.KindAccess)
	c.Assert(err, qt.ErrorIs, core.ErrTokenInvalid)

	access, err := codec.Mint(42, 7, token.KindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	_, err = codec.Verify(access, token.KindRefresh)
	c.Assert(err, qt.ErrorIs, core.ErrTokenInvalid)
}

func TestVerifyTamperedSignature(t *testing.T) {
	c := qt.New(t)

	codec := token.NewCodec(testSecret)

	signed, err := codec.Mint(42, 7, token.KindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	tampered := signed[:len(signed)-2] + "xx"
	_, err = codec.Verify(tampered, token.KindAccess)
	c.Assert(err, qt.ErrorIs, core.ErrTokenInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	c := qt.New(t)

	codec := token.NewCodec(testSecret)
	other := token.NewCodec("another-secret-key-at-least-32-bytes!!!!")

	signed, err := codec.Mint(42, 7, token.KindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	_, err = other.Verify(signed, token.KindAccess)
	c.Assert(err, qt.ErrorIs, core.ErrTokenInvalid)
}

func TestVerifyNonIntegerSubject(t *testing.T) {
	c := qt.New(t)

	now := time.Now()
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "not-a-number",
		"ent":  int64(7),
		"kind": "access",
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(time.Hour)),
	})

	signed, err := raw.SignedString([]byte(testSecret))
	c.Assert(err, qt.IsNil)

	codec := token.NewCodec(testSecret)
	_, err = codec.Verify(signed, token.KindAccess)
	c.Assert(err, qt.ErrorIs, core.ErrTokenInvalid)
}

func TestVerifyRejectsNoneAlgorithm(t *testing.T) {
	c := qt.New(t)

	now := time.Now()
	raw := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":  "42",
		"ent":  int64(7),
		"kind": "access",
		"iat":  jwt.NewNumericDate(now),
		"exp":  jwt.NewNumericDate(now.Add(time.Hour)),
	})

	signed, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	c.Assert(err, qt.IsNil)

	codec := token.NewCodec(testSecret)
	_, err = codec.Verify(signed, token.KindAccess)
	c.Assert(err, qt.ErrorIs, core.ErrTokenInvalid)
}

func TestVerifyMissingExpiry(t *testing.T) {
	c := qt.New(t)

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "42",
		"ent":  int64(7),
		"kind": "access",
		"iat":  jwt.NewNumericDate(time.Now()),
	})

	signed, err := raw.SignedString([]byte(testSecret))
	c.Assert(err, qt.IsNil)

	codec := token.NewCodec(testSecret)
	_, err = codec.Verify(signed, token.KindAccess)
	c.Assert(err, qt.ErrorIs, core.ErrTokenInvalid)
}

func TestMintUnknownKind(t *testing.T) {
	c := qt.New(t)

	codec := token.NewCodec(testSecret)

	_, err := codec.Mint(1, 1, token.Kind("session"), time.Hour)
	c.Assert(err, qt.IsNotNil)
	c.Assert(strings.Contains(err.Error(), "unknown kind"), qt.IsTrue)
}

func TestVerifyGarbage(t *testing.T) {
	c := qt.New(t)

	codec := token.NewCodec(testSecret)

	for _, input := range []string{"", "garbage", "a.b.c"} {
		_, err := codec.Verify(input, token.KindAccess)
		c.Assert(err, qt.ErrorIs, core.ErrTokenInvalid)
	}
}
