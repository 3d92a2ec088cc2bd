// Gesco | 2026
// repository.go

package entreprise

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gesco-cm/gesco/internal/core"
)

type Repository interface {
	Create(ctx context.Context, e *Entreprise) error
	GetByID(ctx context.Context, id int64) (*Entreprise, error)
	Update(ctx context.Context, e *Entreprise) error
	SoftDelete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) q(ctx context.Context) core.DBTX {
	return core.Querier(ctx, r.db)
}

const entrepriseColumns = `
	id, nom, sigle, niu, rccm, adresse, ville, telephone, email,
	devise, regime_fiscal, is_active, deleted_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, e *Entreprise) error {
	query := `
		INSERT INTO entreprises (
			nom, sigle, niu, rccm, adresse, ville, telephone, email,
			devise, regime_fiscal, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	row := r.q(ctx).QueryRowxContext(ctx, query,
		strings.TrimSpace(e.Nom),
		e.Sigle,
		e.NIU,
		e.RCCM,
		e.Adresse,
		e.Ville,
		e.Telephone,
		e.Email,
		e.Devise,
		e.RegimeFiscal,
		e.IsActive,
	)

	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create entreprise: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create entreprise: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id int64,
) (*Entreprise, error) {
	query := `
		SELECT ` + entrepriseColumns + `
		FROM entreprises
		WHERE id = $1 AND deleted_at IS NULL`

	var e Entreprise
	err := r.q(ctx).GetContext(ctx, &e, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get entreprise: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entreprise: %w", err)
	}

	return &e, nil
}

func (r *repository) Update(ctx context.Context, e *Entreprise) error {
	query := `
		UPDATE entreprises
		SET nom = $2, sigle = $3, niu = $4, rccm = $5, adresse = $6,
			ville = $7, telephone = $8, email = $9, devise = $10,
			regime_fiscal = $11, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.q(ctx).ExecContext(ctx, query,
		e.ID,
		strings.TrimSpace(e.Nom),
		e.Sigle,
		e.NIU,
		e.RCCM,
		e.Adresse,
		e.Ville,
		e.Telephone,
		e.Email,
		e.Devise,
		e.RegimeFiscal,
	)
	if err != nil {
		return fmt.Errorf("update entreprise: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update entreprise: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update entreprise: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE entreprises
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.q(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete entreprise: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete entreprise: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete entreprise: %w", core.ErrNotFound)
	}

	return nil
}
