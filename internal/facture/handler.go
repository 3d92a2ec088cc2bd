// Gesco | 2026
// handler.go

package facture

import (
	"context"
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
	r.Route("/commercial/factures", func(r chi.Router) {
		r.Use(authenticator)

		read := h.authorizer.Require(authz.ModuleCommercial, authz.ActionRead)
		write := h.authorizer.Require(authz.ModuleCommercial, authz.ActionWrite)

		r.With(read).Get("/", h.List)
		r.With(write).Post("/", h.Create)
		r.With(read).Get("/{factureID}", h.Get)
		r.With(write).Post("/{factureID}/valider", h.Validate)
		r.With(write).Post("/{factureID}/annuler", h.Cancel)
		r.With(write).Delete("/{factureID}", h.Delete)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	entrepriseID, err := authz.TenantFilter(r, principal)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	list, err := h.service.List(r.Context(), entrepriseID, r.URL.Query().Get("statut"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToFactureResponseList(list))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	if !h.requireLicence(w, r, principal) {
		return
	}

	var req CreateFactureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Corps de requête invalide.")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	f, err := h.service.Create(r.Context(), principal.EntrepriseID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "Tiers")
		case errors.Is(err, ErrTiersMismatch):
			core.Forbidden(w,
				"Accès refusé à cette entreprise.",
				"FORBIDDEN_ENTREPRISE",
			)
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, "Ce numéro de facture existe déjà.")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, ToFactureResponse(f))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	f, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	core.OK(w, ToFactureResponse(f))
}

func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Validate)
}

func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.service.Cancel)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	f, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	if !h.requireLicence(w, r, principal) {
		return
	}

	if !f.IsDraft() {
		core.BadRequest(w, "Seule une facture brouillon peut être supprimée.")
		return
	}

	if err := h.service.SoftDelete(r.Context(), f.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Facture")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) transition(
	w http.ResponseWriter,
	r *http.Request,
	apply func(ctx context.Context, f *Facture) error,
) {
	principal := middleware.GetPrincipal(r.Context())

	f, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	if !h.requireLicence(w, r, principal) {
		return
	}

	if err := apply(r.Context(), f); err != nil {
		switch {
		case errors.Is(err, ErrInvalidTransition):
			core.BadRequest(w, "Transition de statut invalide.")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "Facture")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToFactureResponse(f))
}

// requireLicence applies the business-document write gate; order is
// permission (route middleware), tenant (loadScoped), licence.
func (h *Handler) requireLicence(
	w http.ResponseWriter,
	r *http.Request,
	principal *middleware.Principal,
) bool {
	err := h.authorizer.RequireLicence(
		r.Context(),
		principal,
		authz.ModuleCommercial,
		authz.ActionWrite,
	)
	if err != nil {
		core.JSONError(w, err)
		return false
	}

	return true
}

func (h *Handler) loadScoped(
	w http.ResponseWriter,
	r *http.Request,
) (*Facture, bool) {
	principal := middleware.GetPrincipal(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "factureID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "Identifiant facture invalide.")
		return nil, false
	}

	f, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Facture")
			return nil, false
		}
		core.InternalServerError(w, err)
		return nil, false
	}

	if err := h.authorizer.RequireTenant(principal, f.EntrepriseID); err != nil {
		core.JSONError(w, err)
		return nil, false
	}

	return f, true
}
