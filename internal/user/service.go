// Gesco | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/middleware"
	"github.com/gesco-cm/gesco/internal/role"
)

// ErrRoleMismatch marks an attempt to assign a role owned by another
// entreprise.
var ErrRoleMismatch = errors.New("role belongs to another entreprise")

// RoleSource resolves the owning entreprise of a role before it is
// assigned to a new user.
type RoleSource interface {
	GetByID(ctx context.Context, id int64) (*role.Role, error)
}

type Service struct {
	repo         Repository
	roles        RoleSource
	bcryptRounds int
}

func NewService(repo Repository, roles RoleSource, bcryptRounds int) *Service {
	return &Service{
		repo:         repo,
		roles:        roles,
		bcryptRounds: bcryptRounds,
	}
}

// ResolvePrincipal loads the live user row behind a token subject. Missing
// and tombstoned rows surface as core.ErrNotFound; a disabled account comes
// back with IsActive=false so the caller can answer user_disabled.
func (s *Service) ResolvePrincipal(
	ctx context.Context,
	userID int64,
) (*middleware.Principal, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &middleware.Principal{
		UserID:       u.ID,
		EntrepriseID: u.EntrepriseID,
		RoleID:       u.RoleID,
		IsActive:     u.IsActive,
	}, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Utilisateur, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByLoginOrEmail(
	ctx context.Context,
	entrepriseID int64,
	identifier string,
) (*Utilisateur, error) {
	return s.repo.GetByLoginOrEmail(ctx, entrepriseID, identifier)
}

func (s *Service) Create(
	ctx context.Context,
	entrepriseID int64,
	req CreateUtilisateurRequest,
) (*Utilisateur, error) {
	// Built-in roles (no owning entreprise) are assignable everywhere;
	// tenant-defined roles only within their own entreprise.
	rl, err := s.roles.GetByID(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	if rl.EntrepriseID != nil && *rl.EntrepriseID != entrepriseID {
		return nil, ErrRoleMismatch
	}

	passwordHash, err := core.HashPassword(req.Password, s.bcryptRounds)
	if err != nil {
		return nil, fmt.Errorf("create utilisateur: %w", err)
	}

	var email *string
	if req.Email != nil {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		email = &normalized
	}

	u := &Utilisateur{
		EntrepriseID: entrepriseID,
		RoleID:       req.RoleID,
		Login:        strings.TrimSpace(req.Login),
		Email:        email,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *Service) List(
	ctx context.Context,
	entrepriseID int64,
) ([]Utilisateur, error) {
	return s.repo.List(ctx, entrepriseID)
}

func (s *Service) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, false)
}

func (s *Service) Activate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, true)
}

func (s *Service) SoftDelete(ctx context.Context, id int64) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) TouchLastLogin(ctx context.Context, id int64) error {
	return s.repo.TouchLastLogin(ctx, id)
}

// UpdatePassword rehashes and stores a new password for the user.
func (s *Service) UpdatePassword(
	ctx context.Context,
	id int64,
	cleartext string,
) error {
	hash, err := core.HashPassword(cleartext, s.bcryptRounds)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return s.repo.UpdatePassword(ctx, id, hash)
}

var _ middleware.PrincipalSource = (*Service)(nil)
