// Gesco | 2026
// handler.go

package user

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

type Handler struct {
	service    *Service
	authorizer *authz.Authorizer
	validator  *validator.Validate
}

func NewHandler(service *Service, authorizer *authz.Authorizer) *Handler {
	return &Handler{
		service:    service,
		authorizer: authorizer,
		validator:  validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/parametrage/utilisateurs", func(r chi.Router) {
		r.Use(authenticator)

		r.With(h.authorizer.Require(authz.ModuleParametrage, authz.ActionRead)).
			Get("/", h.List)
		r.With(h.authorizer.Require(authz.ModuleParametrage, authz.ActionWrite)).
			Post("/", h.Create)
		r.With(h.authorizer.Require(authz.ModuleParametrage, authz.ActionWrite)).
			Post("/{utilisateurID}/desactiver", h.Deactivate)
		r.With(h.authorizer.Require(authz.ModuleParametrage, authz.ActionWrite)).
			Delete("/{utilisateurID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	entrepriseID, err := authz.TenantFilter(r, principal)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	users, err := h.service.List(r.Context(), entrepriseID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToUtilisateurResponseList(users))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	var req CreateUtilisateurRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Corps de requête invalide.")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	u, err := h.service.Create(r.Context(), principal.EntrepriseID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "Rôle")
		case errors.Is(err, ErrRoleMismatch):
			core.Forbidden(w,
				"Accès refusé à cette entreprise.",
				"FORBIDDEN_ENTREPRISE",
			)
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, "Ce login existe déjà pour cette entreprise.")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToUtilisateurResponse(u))
}

func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	target, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	if err := h.service.Deactivate(r.Context(), target.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Utilisateur")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	target, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(r.Context(), target.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Utilisateur")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

// loadScoped fetches the target user and enforces that it belongs to the
// principal's entreprise before any mutation.
func (h *Handler) loadScoped(
	w http.ResponseWriter,
	r *http.Request,
) (*Utilisateur, bool) {
	principal := middleware.GetPrincipal(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "utilisateurID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "Identifiant utilisateur invalide.")
		return nil, false
	}

	target, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Utilisateur")
			return nil, false
		}
		core.InternalServerError(w, err)
		return nil, false
	}

	if err := h.authorizer.RequireTenant(principal, target.EntrepriseID); err != nil {
		core.JSONError(w, err)
		return nil, false
	}

	return target, true
}
