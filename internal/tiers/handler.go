// Gesco | 2026
// handler.go

package tiers

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
	r.Route("/partenaires/tiers", func(r chi.Router) {
		r.Use(authenticator)

		read := h.authorizer.Require(authz.ModulePartenaires, authz.ActionRead)
		write := h.authorizer.Require(authz.ModulePartenaires, authz.ActionWrite)

		r.With(read).Get("/", h.List)
		r.With(write).Post("/", h.Create)
		r.With(read).Get("/{tiersID}", h.Get)
		r.With(write).Put("/{tiersID}", h.Update)
		r.With(write).Delete("/{tiersID}", h.Delete)

		r.With(read).Get("/{tiersID}/contacts", h.ListContacts)
		r.With(write).Post("/{tiersID}/contacts", h.CreateContact)
		r.With(write).Delete("/{tiersID}/contacts/{contactID}", h.DeleteContact)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	entrepriseID, err := authz.TenantFilter(r, principal)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	list, err := h.service.List(r.Context(), entrepriseID, r.URL.Query().Get("type"))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTiersResponseList(list))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	var req CreateTiersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Corps de requête invalide.")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	t, err := h.service.Create(r.Context(), principal.EntrepriseID, req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "Ce code tiers existe déjà pour cette entreprise.")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToTiersResponse(t))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	core.OK(w, ToTiersResponse(t))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	var req UpdateTiersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Corps de requête invalide.")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	updated, err := h.service.Update(r.Context(), t, req)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Tiers")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToTiersResponse(updated))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	if err := h.service.SoftDelete(r.Context(), t.ID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Tiers")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	contacts, err := h.service.ListContacts(r.Context(), t.ID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToContactResponseList(contacts))
}

func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "Corps de requête invalide.")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	c, err := h.service.CreateContact(r.Context(), t.ID, req)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, ToContactResponse(c))
}

// DeleteContact double-checks that the contact really hangs off the tiers in
// the path; ownership resolves through the parent tiers row.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	t, ok := h.loadScoped(w, r)
	if !ok {
		return
	}

	contactID, err := strconv.ParseInt(chi.URLParam(r, "contactID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "Identifiant contact invalide.")
		return
	}

	owner, err := h.service.ContactOwner(r.Context(), contactID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Contact")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	principal := middleware.GetPrincipal(r.Context())
	if err := h.authorizer.RequireTenant(principal, owner); err != nil {
		core.JSONError(w, err)
		return
	}

	contact, err := h.service.GetContactByID(r.Context(), contactID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Contact")
			return
		}
		core.InternalServerError(w, err)
		return
	}
	if contact.TiersID != t.ID {
		core.NotFound(w, "Contact")
		return
	}

	if err := h.service.DeleteContact(r.Context(), contactID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Contact")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.NoContent(w)
}

// loadScoped fetches the tiers in the path and enforces that it belongs to
// the principal's entreprise.
func (h *Handler) loadScoped(
	w http.ResponseWriter,
	r *http.Request,
) (*Tiers, bool) {
	principal := middleware.GetPrincipal(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "tiersID"), 10, 64)
	if err != nil {
		core.BadRequest(w, "Identifiant tiers invalide.")
		return nil, false
	}

	t, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Tiers")
			return nil, false
		}
		core.InternalServerError(w, err)
		return nil, false
	}

	if err := h.authorizer.RequireTenant(principal, t.EntrepriseID); err != nil {
		core.JSONError(w, err)
		return nil, false
	}

	return t, true
}
