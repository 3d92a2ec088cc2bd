// Gesco | 2026
// service_test.go

package facture_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/facture"
	"github.com/gesco-cm/gesco/internal/tiers"
)

type fakeRepo struct {
	factures map[int64]*facture.Facture
	nextID   int64
	seq      map[string]int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		factures: map[int64]*facture.Facture{},
		seq:      map[string]int64{},
	}
}

func (f *fakeRepo) Create(_ context.Context, fa *facture.Facture) error {
	f.nextID++
	fa.ID = f.nextID
	fa.CreatedAt = time.Now()
	fa.UpdatedAt = fa.CreatedAt
	copied := *fa
	f.factures[fa.ID] = &copied
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int64) (*facture.Facture, error) {
	fa, ok := f.factures[id]
	if !ok {
		return nil, fmt.Errorf("get facture: %w", core.ErrNotFound)
	}
	copied := *fa
	return &copied, nil
}

func (f *fakeRepo) List(
	_ context.Context,
	entrepriseID int64,
	statut string,
) ([]facture.Facture, error) {
	var list []facture.Facture
	for _, fa := range f.factures {
		if fa.EntrepriseID != entrepriseID {
			continue
		}
		if statut != "" && fa.Statut != statut {
			continue
		}
		list = append(list, *fa)
	}
	return list, nil
}

func (f *fakeRepo) SetStatut(_ context.Context, id int64, statut string) error {
	fa, ok := f.factures[id]
	if !ok {
		return fmt.Errorf("set statut: %w", core.ErrNotFound)
	}
	fa.Statut = statut
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id int64) error {
	if _, ok := f.factures[id]; !ok {
		return fmt.Errorf("delete facture: %w", core.ErrNotFound)
	}
	delete(f.factures, id)
	return nil
}

func (f *fakeRepo) NextNumero(
	_ context.Context,
	entrepriseID int64,
	year int,
) (int64, error) {
	key := fmt.Sprintf("%d/%d", entrepriseID, year)
	f.seq[key]++
	return f.seq[key], nil
}

type fakeTiersSource struct {
	rows map[int64]*tiers.Tiers
}

func (f *fakeTiersSource) GetByID(
	_ context.Context,
	id int64,
) (*tiers.Tiers, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, fmt.Errorf("get tiers: %w", core.ErrNotFound)
	}
	return t, nil
}

func newFixture() (*facture.Service, *fakeRepo) {
	repo := newFakeRepo()
	source := &fakeTiersSource{rows: map[int64]*tiers.Tiers{
		10: {ID: 10, EntrepriseID: 1, Code: "CLI001", Nom: "Client Un"},
		20: {ID: 20, EntrepriseID: 2, Code: "CLI001", Nom: "Client Deux"},
	}}
	return facture.NewService(repo, source), repo
}

func createRequest(tiersID int64) facture.CreateFactureRequest {
	return facture.CreateFactureRequest{
		TiersID:     tiersID,
		DateFacture: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		MontantHT:   100000,
		MontantTVA:  19250,
	}
}

func TestCreateFacture(t *testing.T) {
	c := qt.New(t)

	svc, _ := newFixture()

	f, err := svc.Create(context.Background(), 1, createRequest(10))
	c.Assert(err, qt.IsNil)
	c.Assert(f.Numero, qt.Equals, "FAC-2026-0001")
	c.Assert(f.Statut, qt.Equals, facture.StatutBrouillon)
	c.Assert(f.MontantTTC, qt.Equals, 119250.0)
	c.Assert(f.Devise, qt.Equals, "XAF")
	c.Assert(f.EntrepriseID, qt.Equals, int64(1))
}

func TestCreateFactureNumbersPerEntrepriseAndYear(t *testing.T) {
	c := qt.New(t)

	svc, _ := newFixture()

	first, err := svc.Create(context.Background(), 1, createRequest(10))
	c.Assert(err, qt.IsNil)

	second, err := svc.Create(context.Background(), 1, createRequest(10))
	c.Assert(err, qt.IsNil)

	c.Assert(first.Numero, qt.Equals, "FAC-2026-0001")
	c.Assert(second.Numero, qt.Equals, "FAC-2026-0002")
}

func TestCreateFactureForeignTiers(t *testing.T) {
	c := qt.New(t)

	svc, repo := newFixture()

	_, err := svc.Create(context.Background(), 1, createRequest(20))
	c.Assert(err, qt.ErrorIs, facture.ErrTiersMismatch)
	c.Assert(repo.factures, qt.HasLen, 0)
}

func TestCreateFactureUnknownTiers(t *testing.T) {
	c := qt.New(t)

	svc, _ := newFixture()

	_, err := svc.Create(context.Background(), 1, createRequest(999))
	c.Assert(err, qt.ErrorIs, core.ErrNotFound)
}

func TestStatutTransitions(t *testing.T) {
	c := qt.New(t)

	svc, _ := newFixture()

	f, err := svc.Create(context.Background(), 1, createRequest(10))
	c.Assert(err, qt.IsNil)

	c.Assert(svc.Validate(context.Background(), f), qt.IsNil)
	c.Assert(f.Statut, qt.Equals, facture.StatutValidee)

	// already validated, cannot validate again
	c.Assert(
		svc.Validate(context.Background(), f),
		qt.ErrorIs,
		facture.ErrInvalidTransition,
	)

	c.Assert(svc.Cancel(context.Background(), f), qt.IsNil)
	c.Assert(f.Statut, qt.Equals, facture.StatutAnnulee)

	c.Assert(
		svc.Cancel(context.Background(), f),
		qt.ErrorIs,
		facture.ErrInvalidTransition,
	)
}

func TestListFiltersByEntrepriseAndStatut(t *testing.T) {
	c := qt.New(t)

	svc, _ := newFixture()

	f1, err := svc.Create(context.Background(), 1, createRequest(10))
	c.Assert(err, qt.IsNil)

	_, err = svc.Create(context.Background(), 1, createRequest(10))
	c.Assert(err, qt.IsNil)

	c.Assert(svc.Validate(context.Background(), f1), qt.IsNil)

	all, err := svc.List(context.Background(), 1, "")
	c.Assert(err, qt.IsNil)
	c.Assert(all, qt.HasLen, 2)

	drafts, err := svc.List(context.Background(), 1, facture.StatutBrouillon)
	c.Assert(err, qt.IsNil)
	c.Assert(drafts, qt.HasLen, 1)

	other, err := svc.List(context.Background(), 2, "")
	c.Assert(err, qt.IsNil)
	c.Assert(other, qt.HasLen, 0)
}
