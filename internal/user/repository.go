// Gesco | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gesco-cm/gesco/internal/core"
)

// Repository hides the soft-delete filter: every lookup excludes tombstoned
// rows, so a deleted user can never resolve anywhere upstream.
type Repository interface {
	Create(ctx context.Context, u *Utilisateur) error
	GetByID(ctx context.Context, id int64) (*Utilisateur, error)
	GetByLoginOrEmail(
		ctx context.Context,
		entrepriseID int64,
		identifier string,
	) (*Utilisateur, error)
	List(ctx context.Context, entrepriseID int64) ([]Utilisateur, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetActive(ctx context.Context, id int64, active bool) error
	TouchLastLogin(ctx context.Context, id int64) error
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

const userColumns = `
	id, entreprise_id, role_id, login, email, password_hash,
	is_active, deleted_at, last_login_at, created_at, updated_at`

func (r *repository) Create(ctx context.Context, u *Utilisateur) error {
	query := `
		INSERT INTO utilisateurs (
			entreprise_id, role_id, login, email, password_hash, is_active
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	row := r.q(ctx).QueryRowxContext(ctx, query,
		u.EntrepriseID,
		u.RoleID,
		strings.TrimSpace(u.Login),
		u.Email,
		u.PasswordHash,
		u.IsActive,
	)

	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create utilisateur: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create utilisateur: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id int64,
) (*Utilisateur, error) {
	query := `
		SELECT ` + userColumns + `
		FROM utilisateurs
		WHERE id = $1 AND deleted_at IS NULL`

	var u Utilisateur
	err := r.q(ctx).GetContext(ctx, &u, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get utilisateur: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get utilisateur: %w", err)
	}

	return &u, nil
}

// GetByLoginOrEmail resolves a login identifier inside one entreprise. The
// identifier matches either the login or the email column; both sides are
// trimmed, logins case-sensitively, emails lowercased.
func (r *repository) GetByLoginOrEmail(
	ctx context.Context,
	entrepriseID int64,
	identifier string,
) (*Utilisateur, error) {
	identifier = strings.TrimSpace(identifier)

	query := `
		SELECT ` + userColumns + `
		FROM utilisateurs
		WHERE entreprise_id = $1
			AND (login = $2 OR LOWER(email) = LOWER($2))
			AND deleted_at IS NULL`

	var u Utilisateur
	err := r.q(ctx).GetContext(ctx, &u, query, entrepriseID, identifier)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get utilisateur by login: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get utilisateur by login: %w", err)
	}

	return &u, nil
}

func (r *repository) List(
	ctx context.Context,
	entrepriseID int64,
) ([]Utilisateur, error) {
	query := `
		SELECT ` + userColumns + `
		FROM utilisateurs
		WHERE entreprise_id = $1 AND deleted_at IS NULL
		ORDER BY login`

	var users []Utilisateur
	err := r.q(ctx).SelectContext(ctx, &users, query, entrepriseID)
	if err != nil {
		return nil, fmt.Errorf("list utilisateurs: %w", err)
	}

	return users, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id int64,
	passwordHash string,
) error {
	query := `
		UPDATE utilisateurs
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.exec(ctx, "update password", query, id, passwordHash)
}

func (r *repository) SetActive(
	ctx context.Context,
	id int64,
	active bool,
) error {
	query := `
		UPDATE utilisateurs
		SET is_active = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.exec(ctx, "set active", query, id, active)
}

func (r *repository) TouchLastLogin(ctx context.Context, id int64) error {
	query := `
		UPDATE utilisateurs
		SET last_login_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.exec(ctx, "touch last login", query, id)
}

func (r *repository) SoftDelete(ctx context.Context, id int64) error {
	query := `
		UPDATE utilisateurs
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.exec(ctx, "delete utilisateur", query, id)
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
