// Gesco | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/token"
)

const PrincipalKey contextKey = "principal"

// Principal is the authenticated acting user, reduced to what authorization
// needs. EntrepriseID comes from the user row, not the token claim.
type Principal struct {
	UserID       int64
	EntrepriseID int64
	RoleID       int64
	IsActive     bool
}

type TokenVerifier interface {
	Verify(tokenString string, expected token.Kind) (*token.Claims, error)
}

// PrincipalSource loads the live user row behind a subject id, through the
// request's transaction. Missing and soft-deleted rows both surface as
// core.ErrNotFound; a disabled user comes back with IsActive=false.
type PrincipalSource interface {
	ResolvePrincipal(ctx context.Context, userID int64) (*Principal, error)
}

// Authenticator resolves the bearer credential into a Principal and stores
// it in the request context. Rejections are uniform 401s.
func Authenticator(
	verifier TokenVerifier,
	users PrincipalSource,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := ExtractToken(r)
			if tokenString == "" {
				core.JSONError(w, core.MissingTokenError())
				return
			}

			claims, err := verifier.Verify(tokenString, token.KindAccess)
			if err != nil {
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			subjectID, err := claims.SubjectID()
			if err != nil {
				core.JSONError(w, core.TokenInvalidError())
				return
			}

			principal, err := users.ResolvePrincipal(r.Context(), subjectID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.JSONError(w, core.UserNotFoundError())
					return
				}
				core.InternalServerError(w, err)
				return
			}

			if !principal.IsActive {
				core.JSONError(w, core.UserDisabledError())
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ExtractToken pulls the bearer token out of the Authorization header.
// Both `Bearer <token>` (any case) and a bare token are accepted; existing
// clients rely on the lenient form.
func ExtractToken(r *http.Request) string {
	authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}

	if len(parts) == 1 {
		return authHeader
	}

	return ""
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func IsAuthenticated(ctx context.Context) bool {
	return GetPrincipal(ctx) != nil
}
