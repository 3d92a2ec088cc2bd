// Gesco | 2026
// repository.go

package facture

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gesco-cm/gesco/internal/core"
)

type Repository interface {
	Create(ctx context.Context, f *Facture) error
	GetByID(ctx context.Context, id int64) (*Facture, error)
	List(ctx context.Context, entrepriseID int64, statut string) ([]Facture, error)
	SetStatut(ctx context.Context, id int64, statut string) error
	SoftDelete(ctx context.Context, id int64) error
	// NextNumero reserves the next sequence number for the entreprise and
	// year. Runs inside the request transaction, so concurrent creations
	// serialize on the counter row.
	NextNumero(ctx context.Context, entrepriseID int64, year int) (int64, error)
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

const factureColumns = `
	id, entreprise_id, tiers_id, numero, date_facture, date_echeance,
	montant_ht, montant_tva, montant_ttc, statut, devise, notes,
	deleted_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, f *Facture) error {
	query := `
		INSERT INTO factures (
			entreprise_id, tiers_id, numero, date_facture, date_echeance,
			montant_ht, montant_tva, montant_ttc, statut, devise, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	row := r.q(ctx).QueryRowxContext(ctx, query,
		f.EntrepriseID,
		f.TiersID,
		f.Numero,
		f.DateFacture,
		f.DateEcheance,
		f.MontantHT,
		f.MontantTVA,
		f.MontantTTC,
		f.Statut,
		f.Devise,
		f.Notes,
	)

	if err := row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt); err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create facture: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create facture: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Facture, error) {
	query := `
		SELECT ` + factureColumns + `
		FROM factures
		WHERE id = $1 AND deleted_at IS NULL`

	var f Facture
	err := r.q(ctx).GetContext(ctx, &f, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get facture: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get facture: %w", err)
	}

	return &f, nil
}

func (r *repository) List(
	ctx context.Context,
	entrepriseID int64,
	statut string,
) ([]Facture, error) {
	query := `
		SELECT ` + factureColumns + `
		FROM factures
		WHERE entreprise_id = $1 AND deleted_at IS NULL`
	args := []any{entrepriseID}

	if statut != "" {
		query += ` AND statut = $2`
		args = append(args, statut)
	}
	query += ` ORDER BY date_facture DESC, numero DESC`

	var list []Facture
	if err := r.q(ctx).SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list factures: %w", err)
	}

	return list, nil
}

func (r *repository) SetStatut(
	ctx context.Context,
	id int64,
	statut string,
) error {
	query := `
		UPDATE factures
		SET statut = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.q(ctx).ExecContext(ctx, query, id, statut)
	if err != nil {
		return fmt.Errorf("set statut: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set statut: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set statut: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE factures
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.q(ctx).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete facture: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete facture: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete facture: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) NextNumero(
	ctx context.Context,
	entrepriseID int64,
	year int,
) (int64, error) {
	query := `
		INSERT INTO facture_sequences (entreprise_id, annee, dernier_numero)
		VALUES ($1, $2, 1)
		ON CONFLICT (entreprise_id, annee)
		DO UPDATE SET dernier_numero = facture_sequences.dernier_numero + 1
		RETURNING dernier_numero`

	var n int64
	err := r.q(ctx).GetContext(ctx, &n, query, entrepriseID, year)
	if err != nil {
		return 0, fmt.Errorf("next numero: %w", err)
	}

	return n, nil
}
