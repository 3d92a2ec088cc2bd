// Gesco | 2026
// repository.go

package role

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gesco-cm/gesco/internal/authz"
	"github.com/gesco-cm/gesco/internal/core"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Role, error)
	GetByCode(ctx context.Context, code string, entrepriseID *int64) (*Role, error)
	GrantsForRole(ctx context.Context, roleID int64) ([]authz.Grant, error)
	GrantPermission(ctx context.Context, roleID, permissionID int64) error
	RevokePermission(ctx context.Context, roleID, permissionID int64) error
	FindPermission(ctx context.Context, module, action string) (*Permission, error)
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

func (r *repository) GetByID(ctx context.Context, id int64) (*Role, error) {
	query := `
		SELECT id, entreprise_id, code
		FROM roles
		WHERE id = $1`

	var role Role
	err := r.q(ctx).GetContext(ctx, &role, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get role: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get role: %w", err)
	}

	return &role, nil
}

func (r *repository) GetByCode(
	ctx context.Context,
	code string,
	entrepriseID *int64,
) (*Role, error) {
	query := `
		SELECT id, entreprise_id, code
		FROM roles
		WHERE code = $1
			AND (entreprise_id = $2 OR (entreprise_id IS NULL AND $2 IS NULL))`

	var role Role
	err := r.q(ctx).GetContext(ctx, &role, query, code, entrepriseID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get role by code: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get role by code: %w", err)
	}

	return &role, nil
}

// GrantsForRole returns the explicit (module, action) pairs granted to a
// role. An empty slice means the role has no grants configured, which the
// authorizer treats as a legacy open role.
func (r *repository) GrantsForRole(
	ctx context.Context,
	roleID int64,
) ([]authz.Grant, error) {
	query := `
		SELECT p.module, p.action
		FROM permissions_roles pr
		JOIN permissions p ON p.id = pr.permission_id
		WHERE pr.role_id = $1
		ORDER BY p.module, p.action`

	var grants []authz.Grant
	err := r.q(ctx).SelectContext(ctx, &grants, query, roleID)
	if err != nil {
		return nil, fmt.Errorf("grants for role: %w", err)
	}

	return grants, nil
}

func (r *repository) GrantPermission(
	ctx context.Context,
	roleID, permissionID int64,
) error {
	query := `
		INSERT INTO permissions_roles (role_id, permission_id)
		VALUES ($1, $2)`

	_, err := r.q(ctx).ExecContext(ctx, query, roleID, permissionID)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("grant permission: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("grant permission: %w", err)
	}

	return nil
}

func (r *repository) RevokePermission(
	ctx context.Context,
	roleID, permissionID int64,
) error {
	query := `
		DELETE FROM permissions_roles
		WHERE role_id = $1 AND permission_id = $2`

	result, err := r.q(ctx).ExecContext(ctx, query, roleID, permissionID)
	if err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("revoke permission: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) FindPermission(
	ctx context.Context,
	module, action string,
) (*Permission, error) {
	query := `
		SELECT id, module, action
		FROM permissions
		WHERE module = $1 AND action = $2`

	var perm Permission
	err := r.q(ctx).GetContext(ctx, &perm, query, module, action)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find permission: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find permission: %w", err)
	}

	return &perm, nil
}

var _ authz.GrantSource = (*repository)(nil)
