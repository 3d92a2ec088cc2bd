// Gesco | 2026
// handler.go

package entreprise

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
	r.Route("/parametrage/entreprises", func(r chi.Router) {
		r.Use(authenticator)

		r.With(h.authorizer.Require(authz.ModuleParametrage, authz.ActionRead)).
			Get("/", h.List)
		r.With(h.authorizer.Require(authz.ModuleParametrage, authz.ActionWrite)).
			Post("/", h.Create)
		r.With(h.authorizer.Require(authz.ModuleParametrage, authz.ActionRead)).
			Get("/{entrepriseID}", h.Get)
		r.With(h.authorizer.Require(authz.ModuleParametrage, authz.ActionWrite)).
			Put("/{entrepriseID}", h.Update)
		r.With(h.authorizer.Require(authz.ModuleParametrage, authz.ActionWrite)).
			Delete("/{entrepriseID}", h.Delete)
	})
}

// List only ever returns the caller's own entreprise; the tenant boundary
// makes the collection a singleton from any principal's point of view.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	e, err := h.service.GetByID(r.Context(), principal.EntrepriseID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.OK(w, []EntrepriseResponse{})
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, []EntrepriseResponse{ToEntrepriseResponse(e)})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateEntrepriseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Corps de requête invalide.")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	e, err := h.service.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "Une entreprise avec ce NIU existe déjà.")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToEntrepriseResponse(e))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	e, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	core.OK(w, ToEntrepriseResponse(e))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	e, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	var req UpdateEntrepriseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Corps de requête invalide.")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.Update(r.Context(), e, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Entreprise")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToEntrepriseResponse(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	e, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(r.Context(), e.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Entreprise")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

// loadScoped enforces the tenant boundary before touching the database: the
// path id is itself the entreprise id, so a foreign id answers 403 rather
// than leaking whether the row exists.
func (h *Handler) loadScoped(
	w http.ResponseWriter,
	r *http.Request,
) (*Entreprise, bool) {
	principal := middleware.GetPrincipal(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "entrepriseID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "Identifiant entreprise invalide.")
		return nil, false
	}

	if err := h.authorizer.RequireTenant(principal, id); err != nil {
		core.JSONError(w, err)
		return nil, false
	}

	e, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Entreprise")
			return nil, false
		}
		core.InternalServerError(w, err)
		return nil, false
	}

	return e, true
}
