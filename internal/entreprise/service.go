// Gesco | 2026
// service.go

package entreprise

import (
	"context"
	"strings"
)

// DefaultDevise is the CEMAC franc, used when a creation request leaves the
// currency blank.
const DefaultDevise = "XAF"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateEntrepriseRequest,
) (*Entreprise, error) {
	devise := strings.ToUpper(strings.TrimSpace(req.Devise))
	if devise == "" {
		devise = DefaultDevise
	}

	e := &Entreprise{
		Nom:          strings.TrimSpace(req.Nom),
		Sigle:        req.Sigle,
		NIU:          req.NIU,
		RCCM:         req.RCCM,
		Adresse:      req.Adresse,
		Ville:        req.Ville,
		Telephone:    req.Telephone,
		Email:        req.Email,
		Devise:       devise,
		RegimeFiscal: req.RegimeFiscal,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Entreprise, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(
	ctx context.Context,
	e *Entreprise,
	req UpdateEntrepriseRequest,
) (*Entreprise, error) {
	devise := strings.ToUpper(strings.TrimSpace(req.Devise))
	if devise == "" {
		devise = e.Devise
	}

	e.Nom = strings.TrimSpace(req.Nom)
	e.Sigle = req.Sigle
	e.NIU = req.NIU
	e.RCCM = req.RCCM
	e.Adresse = req.Adresse
	e.Ville = req.Ville
	e.Telephone = req.Telephone
	e.Email = req.Email
	e.Devise = devise
	e.RegimeFiscal = req.RegimeFiscal

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}
