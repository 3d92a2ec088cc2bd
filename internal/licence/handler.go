// Gesco | 2026
// handler.go

package licence

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/gesco-cm/gesco/internal/authz"
	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/middleware"
)

type LicenceResponse struct {
	ID             int64     `json:"id"`
	EntrepriseID   int64     `json:"entreprise_id"`
	StartsOn       time.Time `json:"starts_on"`
	EndsOn         time.Time `json:"ends_on"`
	IsEnabled      bool      `json:"is_enabled"`
	ExtensionsUsed int       `json:"extensions_used"`
	IsValid        bool      `json:"is_valid"`
	DaysRemaining  int       `json:"days_remaining"`
}

func toLicenceResponse(l *Licence, today time.Time) LicenceResponse {
	return LicenceResponse{
		ID:             l.ID,
		EntrepriseID:   l.EntrepriseID,
		StartsOn:       l.StartsOn,
		EndsOn:         l.EndsOn,
		IsEnabled:      l.IsEnabled,
		ExtensionsUsed: l.ExtensionsUsed,
		IsValid:        l.IsCurrentlyValid(today),
		DaysRemaining:  l.DaysRemaining(today),
	}
}

// Handler exposes the licence surface, read-only: an entreprise can see its
// licence history and whether documents can currently be produced.
type Handler struct {
	repo       Repository
	authorizer *authz.Authorizer
	now        func() time.Time
}

func NewHandler(repo Repository, authorizer *authz.Authorizer) *Handler {
	return &Handler{
		repo:       repo,
		authorizer: authorizer,
		now:        time.Now,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/parametrage/licences", func(r chi.Router) {
		r.Use(authenticator)

		read := h.authorizer.Require(authz.ModuleParametrage, authz.ActionRead)
		r.With(read).Get("/", h.List)
		r.With(read).Get("/courante", h.Current)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	entrepriseID, err := authz.TenantFilter(r, principal)
	if err != nil {
		core.JSONError(w, err)
		return
	}

	licences, err := h.repo.ListForEntreprise(r.Context(), entrepriseID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	today := h.now()
	responses := make([]LicenceResponse, 0, len(licences))
	for i := range licences {
		responses = append(responses, toLicenceResponse(&licences[i], today))
	}

	core.OK(w, responses)
}

func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	principal := middleware.GetPrincipal(r.Context())

	lic, err := h.repo.GetCurrent(r.Context(), principal.EntrepriseID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "Licence")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toLicenceResponse(lic, h.now()))
}
