// Gesco | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// ErrorEnvelope is the uniform error body: a detail (string or object) and
// an optional stable code clients can branch on.
type ErrorEnvelope struct {
	Detail any    `json:"detail"`
	Code   string `json:"code,omitempty"`
}

const internalErrorDetail = "Erreur interne du serveur"

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(data)
}

func OK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// JSONError maps any error to the envelope. Typed AppErrors keep their
// status and code; sentinel errors get their canonical status; everything
// else is an internal error whose message never reaches the client.
func JSONError(w http.ResponseWriter, err error) {
	if appErr, ok := AsAppError(err); ok {
		writeJSON(w, appErr.Status, ErrorEnvelope{
			Detail: appErr.Detail,
			Code:   appErr.Code,
		})
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorEnvelope{
			Detail: "Ressource introuvable.",
		})
	case errors.Is(err, ErrDuplicateKey):
		writeJSON(w, http.StatusConflict, ErrorEnvelope{
			Detail: "Conflit: la ressource existe déjà.",
			Code:   "CONFLICT",
		})
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrTokenInvalid),
		errors.Is(err, ErrTokenExpired),
		errors.Is(err, ErrBadCredentials):
		writeJSON(w, http.StatusUnauthorized, ErrorEnvelope{
			Detail: "Authentification requise.",
		})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorEnvelope{
			Detail: "Accès refusé.",
		})
	case errors.Is(err, ErrInvalidInput):
		writeJSON(w, http.StatusBadRequest, ErrorEnvelope{
			Detail: err.Error(),
		})
	default:
		InternalServerError(w, err)
	}
}

func BadRequest(w http.ResponseWriter, detail any) {
	writeJSON(w, http.StatusBadRequest, ErrorEnvelope{Detail: detail})
}

func Unauthorized(w http.ResponseWriter, detail string) {
	if detail == "" {
		detail = "Authentification requise."
	}
	writeJSON(w, http.StatusUnauthorized, ErrorEnvelope{Detail: detail})
}

func Forbidden(w http.ResponseWriter, detail, code string) {
	if detail == "" {
		detail = "Accès refusé."
	}
	writeJSON(w, http.StatusForbidden, ErrorEnvelope{Detail: detail, Code: code})
}

func NotFound(w http.ResponseWriter, resource string) {
	detail := "Ressource introuvable."
	if resource != "" {
		detail = resource + " introuvable."
	}
	writeJSON(w, http.StatusNotFound, ErrorEnvelope{Detail: detail})
}

func Conflict(w http.ResponseWriter, detail string) {
	if detail == "" {
		detail = "Conflit: la ressource existe déjà."
	}
	writeJSON(w, http.StatusConflict, ErrorEnvelope{
		Detail: detail,
		Code:   "CONFLICT",
	})
}

// InternalServerError logs the real error server-side and answers with a
// fixed detail so nothing internal leaks to the client.
func InternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal server error", "error", err)

	writeJSON(w, http.StatusInternalServerError, ErrorEnvelope{
		Detail: internalErrorDetail,
		Code:   "INTERNAL_ERROR",
	})
}

// FormatValidationError flattens validator.v10 failures into a field→message
// object suitable for the envelope's detail.
func FormatValidationError(err error) any {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return "Requête invalide."
	}

	fields := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		fields[fe.Field()] = validationMessage(fe)
	}

	return fields
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "champ obligatoire"
	case "email":
		return "adresse email invalide"
	case "min":
		return fmt.Sprintf("longueur minimale: %s", fe.Param())
	case "max":
		return fmt.Sprintf("longueur maximale: %s", fe.Param())
	case "gt", "gte":
		return fmt.Sprintf("doit être supérieur à %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("valeurs autorisées: %s", fe.Param())
	default:
		return fmt.Sprintf("contrainte non respectée: %s", fe.Tag())
	}
}
