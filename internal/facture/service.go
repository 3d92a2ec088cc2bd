// Gesco | 2026
// service.go

package facture

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gesco-cm/gesco/internal/tiers"
)

var (
	// ErrTiersMismatch flags a facture addressed to a tiers of another
	// entreprise.
	ErrTiersMismatch = errors.New("tiers belongs to another entreprise")
	// ErrInvalidTransition flags a statut change the lifecycle forbids.
	ErrInvalidTransition = errors.New("invalid statut transition")
)

// TiersSource is the slice of the tiers service facture creation needs.
type TiersSource interface {
	GetByID(ctx context.Context, id int64) (*tiers.Tiers, error)
}

type Service struct {
	repo  Repository
	tiers TiersSource
	now   func() time.Time
}

func NewService(repo Repository, tiersSource TiersSource) *Service {
	return &Service{
		repo:  repo,
		tiers: tiersSource,
		now:   time.Now,
	}
}

// Create numbers, totals and stores a draft facture. The tiers must belong
// to the same entreprise; a foreign tiers id fails before anything is
// written.
func (s *Service) Create(
	ctx context.Context,
	entrepriseID int64,
	req CreateFactureRequest,
) (*Facture, error) {
	t, err := s.tiers.GetByID(ctx, req.TiersID)
	if err != nil {
		return nil, err
	}
	if t.EntrepriseID != entrepriseID {
		return nil, ErrTiersMismatch
	}

	year := req.DateFacture.Year()
	seq, err := s.repo.NextNumero(ctx, entrepriseID, year)
	if err != nil {
		return nil, err
	}

	devise := strings.ToUpper(strings.TrimSpace(req.Devise))
	if devise == "" {
		devise = "XAF"
	}

	f := &Facture{
		EntrepriseID: entrepriseID,
		TiersID:      req.TiersID,
		Numero:       fmt.Sprintf("FAC-%d-%04d", year, seq),
		DateFacture:  req.DateFacture,
		DateEcheance: req.DateEcheance,
		MontantHT:    req.MontantHT,
		MontantTVA:   req.MontantTVA,
		MontantTTC:   req.MontantHT + req.MontantTVA,
		Statut:       StatutBrouillon,
		Devise:       devise,
		Notes:        req.Notes,
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}

	return f, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Facture, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	entrepriseID int64,
	statut string,
) ([]Facture, error) {
	return s.repo.List(ctx, entrepriseID, statut)
}

// Validate moves a draft to validee; any other starting statut is an
// invalid transition.
func (s *Service) Validate(ctx context.Context, f *Facture) error {
	if f.Statut != StatutBrouillon {
		return ErrInvalidTransition
	}

	if err := s.repo.SetStatut(ctx, f.ID, StatutValidee); err != nil {
		return err
	}

	f.Statut = StatutValidee
	return nil
}

// Cancel voids a facture that has not been paid.
func (s *Service) Cancel(ctx context.Context, f *Facture) error {
	if f.Statut == StatutPayee || f.Statut == StatutAnnulee {
		return ErrInvalidTransition
	}

	if err := s.repo.SetStatut(ctx, f.ID, StatutAnnulee); err != nil {
		return err
	}

	f.Statut = StatutAnnulee
	return nil
}

func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}
