// Gesco | 2026
// auth_test.go

package middleware_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/middleware"
	"github.com/gesco-cm/gesco/internal/token"
)

const testSecret = "test-secret-key-at-least-32-bytes-long!!"

type fakeUsers struct {
	principals map[int64]*middleware.Principal
}

func (f *fakeUsers) ResolvePrincipal(
	_ context.Context,
	userID int64,
) (*middleware.Principal, error) {
	p, ok := f.principals[userID]
	if !ok {
		return nil, fmt.Errorf("resolve principal: %w", core.ErrNotFound)
	}
	return p, nil
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "standard bearer", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "lowercase bearer", header: "bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "uppercase bearer", header: "BEARER abc.def.ghi", want: "abc.def.ghi"},
		{name: "raw token", header: "abc.def.ghi", want: "abc.def.ghi"},
		{name: "padded header", header: "  Bearer abc.def.ghi  ", want: "abc.def.ghi"},
		{name: "empty", header: "", want: ""},
		{name: "wrong scheme", header: "Basic dXNlcjpwYXNz", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			r := httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			c.Assert(middleware.ExtractToken(r), qt.Equals, tt.want)
		})
	}
}

func authChain(
	codec *token.Codec,
	users middleware.PrincipalSource,
) http.Handler {
	return middleware.Authenticator(codec, users)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := middleware.GetPrincipal(r.Context())
			core.OK(w, map[string]int64{
				"user_id":       p.UserID,
				"entreprise_id": p.EntrepriseID,
			})
		}),
	)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) core.ErrorEnvelope {
	t.Helper()

	var envelope core.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func TestAuthenticatorHappyPath(t *testing.T) {
	c := qt.New(t)

	codec := token.NewCodec(testSecret)
	users := &fakeUsers{principals: map[int64]*middleware.Principal{
		42: {UserID: 42, EntrepriseID: 7, RoleID: 3, IsActive: true},
	}}

	signed, err := codec.Mint(42, 7, token.KindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	authChain(codec, users).ServeHTTP(rec, r)

	c.Assert(rec.Code, qt.Equals, http.StatusOK)
	c.Assert(rec.Body.String(), qt.Contains, `"user_id":42`)
}

func TestAuthenticatorMissingToken(t *testing.T) {
	c := qt.New(t)

	codec := token.NewCodec(testSecret)
	users := &fakeUsers{}

	rec := httptest.NewRecorder()
	authChain(codec, users).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(decodeEnvelope(t, rec).Code, qt.Equals, "MISSING_TOKEN")
}

func TestAuthenticatorExpiredToken(t *testing.T) {
	c := qt.New(t)

	past := time.Now().Add(-2 * time.Hour)
	minter := token.NewCodecAt(testSecret, func() time.Time { return past })
	codec := token.NewCodec(testSecret)

	signed, err := minter.Mint(42, 7, token.KindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	authChain(codec, &fakeUsers{}).ServeHTTP(rec, r)

	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(decodeEnvelope(t, rec).Code, qt.Equals, "INVALID_TOKEN")
}

func TestAuthenticatorRefreshTokenRejected(t *testing.T) {
	c := qt.New(t)

	codec := token.NewCodec(testSecret)

	signed, err := codec.Mint(42, 7, token.KindRefresh, time.Hour)
	c.Assert(err, qt.IsNil)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	authChain(codec, &fakeUsers{}).ServeHTTP(rec, r)

	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(decodeEnvelope(t, rec).Code, qt.Equals, "INVALID_TOKEN")
}

func TestAuthenticatorUnknownUser(t *testing.T) {
	c := qt.New(t)

	codec := token.NewCodec(testSecret)
	users := &fakeUsers{principals: map[int64]*middleware.Principal{}}

	signed, err := codec.Mint(42, 7, token.KindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	authChain(codec, users).ServeHTTP(rec, r)

	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(decodeEnvelope(t, rec).Code, qt.Equals, "USER_NOT_FOUND")
}

// A token minted while the account was active dies the moment the account
// is disabled: liveness is re-checked on every request.
func TestAuthenticatorDisabledUser(t *testing.T) {
	c := qt.New(t)

	codec := token.NewCodec(testSecret)
	users := &fakeUsers{principals: map[int64]*middleware.Principal{
		42: {UserID: 42, EntrepriseID: 7, RoleID: 3, IsActive: false},
	}}

	signed, err := codec.Mint(42, 7, token.KindAccess, time.Hour)
	c.Assert(err, qt.IsNil)

	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Authorization", "Bearer "+signed)

	authChain(codec, users).ServeHTTP(rec, r)

	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(decodeEnvelope(t, rec).Code, qt.Equals, "USER_DISABLED")
}

func TestGetPrincipalAbsent(t *testing.T) {
	c := qt.New(t)

	c.Assert(middleware.GetPrincipal(context.Background()), qt.IsNil)
	c.Assert(middleware.IsAuthenticated(context.Background()), qt.IsFalse)
}
