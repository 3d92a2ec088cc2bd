// Gesco | 2026
// repository.go

package licence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gesco-cm/gesco/internal/authz"
	"github.com/gesco-cm/gesco/internal/core"
)

type Repository interface {
	GetCurrent(ctx context.Context, entrepriseID int64) (*Licence, error)
	HasValidLicence(ctx context.Context, entrepriseID int64) (bool, error)
	ListForEntreprise(ctx context.Context, entrepriseID int64) ([]Licence, error)
}

type repository struct {
	db  core.DBTX
	now func() time.Time
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db, now: time.Now}
}

func (r *repository) q(ctx context.Context) core.DBTX {
	return core.Querier(ctx, r.db)
}

// GetCurrent returns the licence with the latest end date for the
// entreprise, valid or not.
func (r *repository) GetCurrent(
	ctx context.Context,
	entrepriseID int64,
) (*Licence, error) {
	query := `
		SELECT id, entreprise_id, starts_on, ends_on, is_enabled, extensions_used
		FROM licences
		WHERE entreprise_id = $1
		ORDER BY ends_on DESC
		LIMIT 1`

	var lic Licence
	err := r.q(ctx).GetContext(ctx, &lic, query, entrepriseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get current licence: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get current licence: %w", err)
	}

	return &lic, nil
}

// HasValidLicence reports whether the entreprise holds any licence that is
// enabled and whose end date has not passed.
func (r *repository) HasValidLicence(
	ctx context.Context,
	entrepriseID int64,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM licences
			WHERE entreprise_id = $1
				AND is_enabled = true
				AND ends_on >= $2
		)`

	today := CalendarDay(r.now())

	var valid bool
	err := r.q(ctx).GetContext(ctx, &valid, query, entrepriseID, today)
	if err != nil {
		return false, fmt.Errorf("check licence: %w", err)
	}

	return valid, nil
}

func (r *repository) ListForEntreprise(
	ctx context.Context,
	entrepriseID int64,
) ([]Licence, error) {
	query := `
		SELECT id, entreprise_id, starts_on, ends_on, is_enabled, extensions_used
		FROM licences
		WHERE entreprise_id = $1
		ORDER BY ends_on DESC`

	var licences []Licence
	err := r.q(ctx).SelectContext(ctx, &licences, query, entrepriseID)
	if err != nil {
		return nil, fmt.Errorf("list licences: %w", err)
	}

	return licences, nil
}

var _ authz.LicenceSource = (*repository)(nil)
