// Gesco | 2026
// response_test.go

package core_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-playground/validator/v10"

	"github.com/gesco-cm/gesco/internal/core"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) core.ErrorEnvelope {
	t.Helper()

	var envelope core.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return envelope
}

func TestJSONErrorAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
		wantCode   string
	}{
		{
			name:       "forbidden with code",
			err:        core.ForbiddenError("Accès refusé à cette entreprise.", "FORBIDDEN_ENTREPRISE"),
			wantStatus: http.StatusForbidden,
			wantDetail: "Accès refusé à cette entreprise.",
			wantCode:   "FORBIDDEN_ENTREPRISE",
		},
		{
			name:       "bad credentials has no code",
			err:        core.BadCredentialsError(),
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Identifiants incorrects.",
			wantCode:   "",
		},
		{
			name:       "token invalid",
			err:        core.TokenInvalidError(),
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Jeton invalide ou expiré.",
			wantCode:   "INVALID_TOKEN",
		},
		{
			name:       "wrapped app error keeps its shape",
			err:        fmt.Errorf("handler: %w", core.NotFoundError("Tiers")),
			wantStatus: http.StatusNotFound,
			wantDetail: "Tiers introuvable.",
			wantCode:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			rec := httptest.NewRecorder()
			core.JSONError(rec, tt.err)

			c.Assert(rec.Code, qt.Equals, tt.wantStatus)

			envelope := decode(t, rec)
			c.Assert(envelope.Detail, qt.Equals, tt.wantDetail)
			c.Assert(envelope.Code, qt.Equals, tt.wantCode)
		})
	}
}

func TestJSONErrorSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "not found", err: core.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "duplicate", err: core.ErrDuplicateKey, wantStatus: http.StatusConflict},
		{name: "token invalid", err: core.ErrTokenInvalid, wantStatus: http.StatusUnauthorized},
		{name: "forbidden", err: core.ErrForbidden, wantStatus: http.StatusForbidden},
		{
			name:       "wrapped sentinel",
			err:        fmt.Errorf("get tiers: %w", core.ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)

			rec := httptest.NewRecorder()
			core.JSONError(rec, tt.err)

			c.Assert(rec.Code, qt.Equals, tt.wantStatus)
		})
	}
}

// Unknown errors map to a fixed French detail; the real message stays in
// the logs.
func TestInternalServerErrorFixedEnvelope(t *testing.T) {
	c := qt.New(t)

	rec := httptest.NewRecorder()
	core.JSONError(rec, errors.New("pq: relation does not exist"))

	c.Assert(rec.Code, qt.Equals, http.StatusInternalServerError)

	envelope := decode(t, rec)
	c.Assert(envelope.Detail, qt.Equals, "Erreur interne du serveur")
	c.Assert(envelope.Code, qt.Equals, "INTERNAL_ERROR")
	c.Assert(rec.Body.String(), qt.Not(qt.Contains), "relation")
}

func TestAppErrorUnwrap(t *testing.T) {
	c := qt.New(t)

	err := core.ForbiddenError("Accès refusé.", "PERMISSION_DENIED")

	c.Assert(errors.Is(err, core.ErrForbidden), qt.IsTrue)
	c.Assert(core.IsAppError(err), qt.IsTrue)

	appErr, ok := core.AsAppError(fmt.Errorf("wrap: %w", err))
	c.Assert(ok, qt.IsTrue)
	c.Assert(appErr.Code, qt.Equals, "PERMISSION_DENIED")
}

func TestFormatValidationError(t *testing.T) {
	c := qt.New(t)

	type loginRequest struct {
		Login    string `validate:"required"`
		Password string `validate:"required,min=8"`
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.Struct(loginRequest{Password: "short"})
	c.Assert(err, qt.IsNotNil)

	detail := core.FormatValidationError(err)
	fields, ok := detail.(map[string]string)
	c.Assert(ok, qt.IsTrue)
	c.Assert(fields["Login"], qt.Equals, "champ obligatoire")
	c.Assert(fields["Password"], qt.Contains, "minimale")

	c.Assert(
		core.FormatValidationError(errors.New("plain")),
		qt.Equals,
		"Requête invalide.",
	)
}

func TestNoContent(t *testing.T) {
	c := qt.New(t)

	rec := httptest.NewRecorder()
	core.NoContent(rec)

	c.Assert(rec.Code, qt.Equals, http.StatusNoContent)
	c.Assert(rec.Body.Len(), qt.Equals, 0)
}
