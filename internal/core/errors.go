// Gesco | 2026
// errors.go

package core

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrTokenInvalid     = errors.New("token invalid")
	ErrTokenExpired     = errors.New("token expired")
	ErrBadCredentials   = errors.New("bad credentials")
	ErrLicenceExpired   = errors.New("licence expired")
	ErrTenantMismatch   = errors.New("entreprise mismatch")
	ErrPermissionDenied = errors.New("permission denied")
)

// AppError is the error shape the transport layer knows how to serialise:
// an HTTP status, a client-facing detail and an optional stable code.
type AppError struct {
	Err    error
	Detail any
	Status int
	Code   string
}

func (e *AppError) Error() string {
	if s, ok := e.Detail.(string); ok && s != "" {
		return s
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(err error, detail any, status int, code string) *AppError {
	return &AppError{
		Err:    err,
		Detail: detail,
		Status: status,
		Code:   code,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func BadRequestError(detail any) *AppError {
	return NewAppError(ErrInvalidInput, detail, http.StatusBadRequest, "")
}

func UnauthorizedError(detail string) *AppError {
	if detail == "" {
		detail = "Authentification requise."
	}
	return NewAppError(ErrUnauthorized, detail, http.StatusUnauthorized, "")
}

func ForbiddenError(detail, code string) *AppError {
	return NewAppError(ErrForbidden, detail, http.StatusForbidden, code)
}

func NotFoundError(resource string) *AppError {
	detail := "Ressource introuvable."
	if resource != "" {
		detail = resource + " introuvable."
	}
	return NewAppError(ErrNotFound, detail, http.StatusNotFound, "")
}

func ConflictError(detail string) *AppError {
	if detail == "" {
		detail = "Conflit: la ressource existe déjà."
	}
	return NewAppError(ErrDuplicateKey, detail, http.StatusConflict, "CONFLICT")
}

func MissingTokenError() *AppError {
	return NewAppError(
		ErrUnauthorized,
		"Jeton d'authentification manquant.",
		http.StatusUnauthorized,
		"MISSING_TOKEN",
	)
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"Jeton invalide ou expiré.",
		http.StatusUnauthorized,
		"INVALID_TOKEN",
	)
}

func UserNotFoundError() *AppError {
	return NewAppError(
		ErrUnauthorized,
		"Utilisateur introuvable.",
		http.StatusUnauthorized,
		"USER_NOT_FOUND",
	)
}

func UserDisabledError() *AppError {
	return NewAppError(
		ErrUnauthorized,
		"Compte utilisateur désactivé.",
		http.StatusUnauthorized,
		"USER_DISABLED",
	)
}

// DisabledLoginError answers a login attempt against a deactivated
// account. Unlike UserDisabledError it carries no machine code: the login
// 401 bodies differ from each other by their detail only.
func DisabledLoginError() *AppError {
	return NewAppError(
		ErrUnauthorized,
		"Compte utilisateur désactivé.",
		http.StatusUnauthorized,
		"",
	)
}

func BadCredentialsError() *AppError {
	return NewAppError(
		ErrBadCredentials,
		"Identifiants incorrects.",
		http.StatusUnauthorized,
		"",
	)
}
