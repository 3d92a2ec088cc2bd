// Gesco | 2026
// handler.go

package role

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/gesco-cm/gesco/internal/authz"
	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/middleware"
)

type RoleResponse struct {
	ID           int64  `json:"id"`
	EntrepriseID *int64 `json:"entreprise_id,omitempty"`
	Code         string `json:"code"`
}

func toRoleResponse(r *Role) RoleResponse {
	return RoleResponse{
		ID:           r.ID,
		EntrepriseID: r.EntrepriseID,
		Code:         r.Code,
	}
}

type GrantResponse struct {
	Module string `json:"module"`
	Action string `json:"action"`
}

type GrantRequest struct {
	Module string `json:"module" validate:"required,oneof=parametrage catalogue partenaires commercial achats stock tresorerie comptabilite rh paie"`
	Action string `json:"action" validate:"required,oneof=read write"`
}

// Handler exposes role lookup and grant management. Built-in roles are
// readable from every entreprise but only tenant-defined roles can have
// their grants changed.
type Handler struct {
	repo       Repository
	authorizer *authz.Authorizer
	validator  *validator.Validate
}

func NewHandler(repo Repository, authorizer *authz.Authorizer) *Handler {
	return &Handler{
		repo:       repo,
		authorizer: authorizer,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/parametrage/roles", func(r chi.Router) {
		r.Use(authenticator)

		read := h.authorizer.Require(authz.ModuleParametrage, authz.ActionRead)
		write := h.authorizer.Require(authz.ModuleParametrage, authz.ActionWrite)

		r.With(read).Get("/", h.FindByCode)
		r.With(read).Get("/{roleID}", h.Get)
		r.With(read).Get("/{roleID}/permissions", h.ListGrants)
		r.With(write).Post("/{roleID}/permissions", h.Grant)
		r.With(write).
			Delete("/{roleID}/permissions/{module}/{action}", h.Revoke)
	})
}

// FindByCode resolves ?code=, preferring the entreprise's own role over a
// built-in one of the same code.
func (h *Handler) FindByCode(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	code := r.URL.Query().Get("code")
	if code == "" {
		core.BadRequest(w, "Le paramètre code est requis.")
		return
	}

	rl, err := h.repo.GetByCode(r.Context(), code, &principal.EntrepriseID)
	if errors.Is(err, core.ErrNotFound) {
		rl, err = h.repo.GetByCode(r.Context(), code, nil)
	}
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Rôle")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toRoleResponse(rl))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	rl, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	core.OK(w, toRoleResponse(rl))
}

func (h *Handler) ListGrants(w http.ResponseWriter, r *http.Request) {
	rl, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	grants, err := h.repo.GrantsForRole(r.Context(), rl.ID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	responses := make([]GrantResponse, 0, len(grants))
	for _, g := range grants {
		responses = append(responses, GrantResponse{
			Module: g.Module,
			Action: g.Action,
		})
	}

	core.OK(w, responses)
}

func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	rl, ok := h.loadMutable(w, r)
	if !ok {
		return
	}

	var req GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Corps de requête invalide.")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	perm, err := h.repo.FindPermission(r.Context(), req.Module, req.Action)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Permission")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if err := h.repo.GrantPermission(r.Context(), rl.ID, perm.ID); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "Cette permission est déjà accordée à ce rôle.")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, GrantResponse{Module: perm.Module, Action: perm.Action})
}

func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	rl, ok := h.loadMutable(w, r)
	if !ok {
		return
	}

	perm, err := h.repo.FindPermission(
		r.Context(),
		chi.URLParam(r, "module"),
		chi.URLParam(r, "action"),
	)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Permission")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if err := h.repo.RevokePermission(r.Context(), rl.ID, perm.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Permission")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

// loadScoped fetches the target role. Built-in roles are visible to all
// tenants; an entreprise-owned role only to its entreprise.
func (h *Handler) loadScoped(
	w http.ResponseWriter,
	r *http.Request,
) (*Role, bool) {
	principal := middleware.GetPrincipal(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "roleID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "Identifiant rôle invalide.")
		return nil, false
	}

	rl, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Rôle")
			return nil, false
		}
		core.InternalServerError(w, err)
		return nil, false
	}

	if rl.EntrepriseID != nil {
		if err := h.authorizer.RequireTenant(principal, *rl.EntrepriseID); err != nil {
			core.JSONError(w, err)
			return nil, false
		}
	}

	return rl, true
}

// loadMutable adds the mutation rule: grants of a built-in role are fixed.
func (h *Handler) loadMutable(
	w http.ResponseWriter,
	r *http.Request,
) (*Role, bool) {
	rl, ok := h.loadScoped(w, r)
	if !ok {
		return nil, false
	}

	if rl.IsBuiltin() {
		core.Forbidden(w, "Les rôles intégrés ne sont pas modifiables.", "")
		return nil, false
	}

	return rl, true
}
