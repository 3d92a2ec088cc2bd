// Gesco | 2026
// repository.go

package tiers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gesco-cm/gesco/internal/core"
)

type Repository interface {
	Create(ctx context.Context, t *Tiers) error
	GetByID(ctx context.Context, id int64) (*Tiers, error)
	List(ctx context.Context, entrepriseID int64, typeFilter string) ([]Tiers, error)
	Update(ctx context.Context, t *Tiers) error
	SoftDelete(ctx context.Context, id int64) error

	CreateContact(ctx context.Context, c *Contact) error
	GetContactByID(ctx context.Context, id int64) (*Contact, error)
	ListContacts(ctx context.Context, tiersID int64) ([]Contact, error)
	DeleteContact(ctx context.Context, id int64) error
	// ContactOwner resolves the entreprise owning a contact through its
	// parent tiers.
	ContactOwner(ctx context.Context, contactID int64) (int64, error)
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

const tiersColumns = `
	id, entreprise_id, code, nom, type, niu, telephone, email,
	adresse, ville, plafond_credit, is_active, deleted_at,
	created_at, updated_at`

func (r *repository) Create(ctx context.Context, t *Tiers) error {
	query := `
		INSERT INTO tiers (
			entreprise_id, code, nom, type, niu, telephone, email,
			adresse, ville, plafond_credit, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	row := r.q(ctx).QueryRowxContext(ctx, query,
		t.EntrepriseID,
		strings.TrimSpace(t.Code),
		strings.TrimSpace(t.Nom),
		t.Type,
		t.NIU,
		t.Telephone,
		t.Email,
		t.Adresse,
		t.Ville,
		t.PlafondCredit,
		t.IsActive,
	)

	if err := row.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create tiers: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create tiers: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Tiers, error) {
	query := `
		SELECT ` + tiersColumns + `
		FROM tiers
		WHERE id = $1 AND deleted_at IS NULL`

	var t Tiers
	err := r.q(ctx).GetContext(ctx, &t, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get tiers: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get tiers: %w", err)
	}

	return &t, nil
}

func (r *repository) List(
	ctx context.Context,
	entrepriseID int64,
	typeFilter string,
) ([]Tiers, error) {
	query := `
		SELECT ` + tiersColumns + `
		FROM tiers
		WHERE entreprise_id = $1 AND deleted_at IS NULL`
	args := []any{entrepriseID}

	if typeFilter != "" {
		query += ` AND type = $2`
		args = append(args, typeFilter)
	}
	query += ` ORDER BY code`

	var list []Tiers
	if err := r.q(ctx).SelectContext(ctx, &list, query, args...); err != nil {
		return nil, fmt.Errorf("list tiers: %w", err)
	}

	return list, nil
}

func (r *repository) Update(ctx context.Context, t *Tiers) error {
	query := `
		UPDATE tiers
		SET nom = $2, type = $3, niu = $4, telephone = $5, email = $6,
			adresse = $7, ville = $8, plafond_credit = $9,
			is_active = $10, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.exec(ctx, "update tiers", query,
		t.ID,
		strings.TrimSpace(t.Nom),
		t.Type,
		t.NIU,
		t.Telephone,
		t.Email,
		t.Adresse,
		t.Ville,
		t.PlafondCredit,
		t.IsActive,
	)
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE tiers
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.exec(ctx, "delete tiers", query, id)
}

func (r *repository) CreateContact(ctx context.Context, c *Contact) error {
	query := `
		INSERT INTO tiers_contacts (tiers_id, nom, fonction, telephone, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at`

	row := r.q(ctx).QueryRowxContext(ctx, query,
		c.TiersID,
		strings.TrimSpace(c.Nom),
		c.Fonction,
		c.Telephone,
		c.Email,
	)

	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("create contact: %w", err)
	}

	return nil
}

func (r *repository) GetContactByID(
	ctx context.Context,
	id int64,
) (*Contact, error) {
	query := `
		SELECT id, tiers_id, nom, fonction, telephone, email,
			created_at, updated_at
		FROM tiers_contacts
		WHERE id = $1`

	var c Contact
	err := r.q(ctx).GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get contact: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get contact: %w", err)
	}

	return &c, nil
}

func (r *repository) ListContacts(
	ctx context.Context,
	tiersID int64,
) ([]Contact, error) {
	query := `
		SELECT id, tiers_id, nom, fonction, telephone, email,
			created_at, updated_at
		FROM tiers_contacts
		WHERE tiers_id = $1
		ORDER BY nom`

	var list []Contact
	if err := r.q(ctx).SelectContext(ctx, &list, query, tiersID); err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}

	return list, nil
}

func (r *repository) DeleteContact(ctx context.Context, id int64) error {
	return r.exec(ctx, "delete contact",
		`DELETE FROM tiers_contacts WHERE id = $1`, id)
}

func (r *repository) ContactOwner(
	ctx context.Context,
	contactID int64,
) (int64, error) {
	query := `
		SELECT t.entreprise_id
		FROM tiers_contacts c
		JOIN tiers t ON t.id = c.tiers_id AND t.deleted_at IS NULL
		WHERE c.id = $1`

	var entrepriseID int64
	err := r.q(ctx).GetContext(ctx, &entrepriseID, query, contactID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("contact owner: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("contact owner: %w", err)
	}

	return entrepriseID, nil
}

func (r *repository) exec(
	ctx context.Context,
	op, query string,
	args ...any,
) error {
	result, err := r.q(ctx).ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}
