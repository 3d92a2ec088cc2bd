// Gesco | 2026
// service.go

package tiers

import (
	"context"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	entrepriseID int64,
	req CreateTiersRequest,
) (*Tiers, error) {
	t := &Tiers{
		EntrepriseID:  entrepriseID,
		Code:          strings.ToUpper(strings.TrimSpace(req.Code)),
		Nom:           strings.TrimSpace(req.Nom),
		Type:          req.Type,
		NIU:           req.NIU,
		Telephone:     req.Telephone,
		Email:         req.Email,
		Adresse:       req.Adresse,
		Ville:         req.Ville,
		PlafondCredit: req.PlafondCredit,
		IsActive:      true,
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Tiers, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	entrepriseID int64,
	typeFilter string,
) ([]Tiers, error) {
	return s.repo.List(ctx, entrepriseID, typeFilter)
}

func (s *Service) Update(
	ctx context.Context,
	t *Tiers,
	req UpdateTiersRequest,
) (*Tiers, error) {
	t.Nom = strings.TrimSpace(req.Nom)
	t.Type = req.Type
	t.NIU = req.NIU
	t.Telephone = req.Telephone
	t.Email = req.Email
	t.Adresse = req.Adresse
	t.Ville = req.Ville
	t.PlafondCredit = req.PlafondCredit
	if req.IsActive != nil {
		t.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) CreateContact(
	ctx context.Context,
	tiersID int64,
	req CreateContactRequest,
) (*Contact, error) {
	c := &Contact{
		TiersID:   tiersID,
		Nom:       strings.TrimSpace(req.Nom),
		Fonction:  req.Fonction,
		Telephone: req.Telephone,
		Email:     req.Email,
	}

	if err := s.repo.CreateContact(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) GetContactByID(
	ctx context.Context,
	id int64,
) (*Contact, error) {
	return s.repo.GetContactByID(ctx, id)
}

func (s *Service) ListContacts(
	ctx context.Context,
	tiersID int64,
) ([]Contact, error) {
	return s.repo.ListContacts(ctx, tiersID)
}

func (s *Service) DeleteContact(ctx context.Context, id int64) error {
	return s.repo.DeleteContact(ctx, id)
}

// ContactOwner resolves the entreprise that owns a contact through its
// parent tiers.
func (s *Service) ContactOwner(
	ctx context.Context,
	contactID int64,
) (int64, error) {
	return s.repo.ContactOwner(ctx, contactID)
}
