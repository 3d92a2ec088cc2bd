// Gesco | 2026
// authorizer.go

package authz

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/middleware"
)

// Functional modules of the application, as stored in permissions.module.
const (
	ModuleParametrage = "parametrage"
	ModuleCatalogue   = "catalogue"
	ModulePartenaires = "partenaires"
	ModuleCommercial  = "commercial"
	ModuleAchats      = "achats"
	ModuleStock       = "stock"
	ModuleTresorerie  = "tresorerie"
	ModuleComptabilite = "comptabilite"
	ModuleRH          = "rh"
	ModulePaie        = "paie"
)

const (
	ActionRead  = "read"
	ActionWrite = "write"
)

// businessDocumentModules are the modules whose writes produce business
// documents and therefore require a currently valid licence.
var businessDocumentModules = map[string]struct{}{
	ModuleCommercial: {},
	ModuleAchats:     {},
	ModulePaie:       {},
}

type Grant struct {
	Module string `db:"module"`
	Action string `db:"action"`
}

type GrantSource interface {
	GrantsForRole(ctx context.Context, roleID int64) ([]Grant, error)
}

type LicenceSource interface {
	HasValidLicence(ctx context.Context, entrepriseID int64) (bool, error)
}

// Authorizer enforces the two orthogonal policies every protected endpoint
// composes: role permissions and tenant match, plus the licence gate on
// business-document writes.
type Authorizer struct {
	grants          GrantSource
	licences        LicenceSource
	closedByDefault bool
}

func New(
	grants GrantSource,
	licences LicenceSource,
	closedByDefault bool,
) *Authorizer {
	return &Authorizer{
		grants:          grants,
		licences:        licences,
		closedByDefault: closedByDefault,
	}
}

// RequirePermission fails when the principal's role has explicit grants and
// none of them covers (module, action). A role with zero grants predates
// fine-grained permissions and passes unless closed-by-default is enabled.
func (a *Authorizer) RequirePermission(
	ctx context.Context,
	principal *middleware.Principal,
	module, action string,
) error {
	if principal == nil {
		return core.UnauthorizedError("")
	}

	grants, err := a.grants.GrantsForRole(ctx, principal.RoleID)
	if err != nil {
		return fmt.Errorf("load grants for role %d: %w", principal.RoleID, err)
	}

	if len(grants) == 0 {
		if a.closedByDefault {
			return permissionDenied(module, action)
		}
		return nil
	}

	for _, g := range grants {
		if g.Module == module && g.Action == action {
			return nil
		}
	}

	return permissionDenied(module, action)
}

// RequireTenant fails unless the target entreprise is the principal's own.
func (a *Authorizer) RequireTenant(
	principal *middleware.Principal,
	targetEntrepriseID int64,
) error {
	if principal == nil {
		return core.UnauthorizedError("")
	}

	if targetEntrepriseID != principal.EntrepriseID {
		return core.ForbiddenError(
			"Accès refusé à cette entreprise.",
			"FORBIDDEN_ENTREPRISE",
		)
	}

	return nil
}

// RequireLicence gates write actions on business-document modules behind a
// currently valid licence. Reads and non-document modules always pass.
func (a *Authorizer) RequireLicence(
	ctx context.Context,
	principal *middleware.Principal,
	module, action string,
) error {
	if principal == nil {
		return core.UnauthorizedError("")
	}

	if action != ActionWrite {
		return nil
	}

	if _, ok := businessDocumentModules[module]; !ok {
		return nil
	}

	valid, err := a.licences.HasValidLicence(ctx, principal.EntrepriseID)
	if err != nil {
		return fmt.Errorf(
			"check licence for entreprise %d: %w",
			principal.EntrepriseID,
			err,
		)
	}

	if !valid {
		return core.ForbiddenError(
			"Licence expirée: création de documents impossible.",
			"LICENCE_EXPIRED",
		)
	}

	return nil
}

// Authorize composes the three gates in the canonical order: permission,
// then tenant, then licence. targetEntrepriseID < 0 skips the tenant check
// for endpoints without a tenant target in the request.
func (a *Authorizer) Authorize(
	ctx context.Context,
	principal *middleware.Principal,
	module, action string,
	targetEntrepriseID int64,
) error {
	if err := a.RequirePermission(ctx, principal, module, action); err != nil {
		return err
	}

	if targetEntrepriseID >= 0 {
		if err := a.RequireTenant(principal, targetEntrepriseID); err != nil {
			return err
		}
	}

	return a.RequireLicence(ctx, principal, module, action)
}

// Require is the middleware form of RequirePermission for whole route
// groups. Tenant and licence checks stay in the handlers, which know the
// target entreprise.
func (a *Authorizer) Require(
	module, action string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := middleware.GetPrincipal(r.Context())

			if err := a.RequirePermission(r.Context(), principal, module, action); err != nil {
				core.JSONError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func permissionDenied(module, action string) error {
	return core.ForbiddenError(
		fmt.Sprintf("Permission refusée: %s:%s.", module, action),
		"PERMISSION_DENIED",
	)
}

// TenantFilter resolves the entreprise a list endpoint is scoped to: the
// principal's entreprise when the query parameter is omitted, the explicit
// value when it matches, a tenant-mismatch error otherwise.
func TenantFilter(
	r *http.Request,
	principal *middleware.Principal,
) (int64, error) {
	raw := r.URL.Query().Get("entreprise_id")
	if raw == "" {
		return principal.EntrepriseID, nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, core.BadRequestError("entreprise_id invalide.")
	}

	if id != principal.EntrepriseID {
		return 0, core.ForbiddenError(
			"Accès refusé à cette entreprise.",
			"FORBIDDEN_ENTREPRISE",
		)
	}

	return id, nil
}
