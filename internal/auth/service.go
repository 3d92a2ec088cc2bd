// Gesco | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gesco-cm/gesco/internal/config"
	"github.com/gesco-cm/gesco/internal/core"
	"github.com/gesco-cm/gesco/internal/token"
	"github.com/gesco-cm/gesco/internal/user"
)

var (
	ErrBadCredentials  = errors.New("bad credentials")
	ErrAccountDisabled = errors.New("account disabled")
)

// UserSource is the slice of the user service the auth flows need.
type UserSource interface {
	GetByID(ctx context.Context, id int64) (*user.Utilisateur, error)
	GetByLoginOrEmail(
		ctx context.Context,
		entrepriseID int64,
		identifier string,
	) (*user.Utilisateur, error)
	TouchLastLogin(ctx context.Context, id int64) error
}

type TokenMinter interface {
	Mint(
		subjectID, entrepriseID int64,
		kind token.Kind,
		ttl time.Duration,
	) (string, error)
	Verify(tokenString string, expected token.Kind) (*token.Claims, error)
}

type Service struct {
	users UserSource
	codec TokenMinter
	jwt   config.JWTConfig
}

func NewService(users UserSource, codec TokenMinter, jwt config.JWTConfig) *Service {
	return &Service{
		users: users,
		codec: codec,
		jwt:   jwt,
	}
}

// Login authenticates (entreprise_id, login-or-email, password) and mints a
// token pair. Unknown identifier, wrong password and disabled account all
// take a bcrypt comparison, so response timing does not reveal which one
// happened.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*TokenPairResponse, error) {
	u, err := s.users.GetByLoginOrEmail(ctx, req.EntrepriseID, req.Login)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("lookup utilisateur: %w", err)
	}

	if !core.VerifyPasswordTimingSafe(req.Password, &u.PasswordHash) {
		return nil, ErrBadCredentials
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	pair, err := s.mintPair(u)
	if err != nil {
		return nil, err
	}

	if err := s.users.TouchLastLogin(ctx, u.ID); err != nil {
		// last_login_at is informational; a failed touch must not block login
		slog.Warn("touch last login failed", "user_id", u.ID, "error", err)
	}

	return pair, nil
}

// Refresh rotates a refresh token: verify it, re-check the user's liveness
// and mint a fresh pair. Old refresh tokens die by TTL only; no server-side
// tracking.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (*TokenPairResponse, error) {
	claims, err := s.codec.Verify(refreshToken, token.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
	}

	subjectID, err := claims.SubjectID()
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
	}

	u, err := s.users.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("refresh: %w", core.ErrTokenInvalid)
		}
		return nil, fmt.Errorf("refresh: %w", err)
	}

	if !u.IsActive {
		return nil, ErrAccountDisabled
	}

	return s.mintPair(u)
}

// Me summarises the authenticated principal from its user row.
func (s *Service) Me(ctx context.Context, userID int64) (*MeResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &MeResponse{
		UserID:       u.ID,
		EntrepriseID: u.EntrepriseID,
		RoleID:       u.RoleID,
		Login:        u.Login,
		Email:        u.Email,
	}, nil
}

func (s *Service) mintPair(u *user.Utilisateur) (*TokenPairResponse, error) {
	accessToken, err := s.codec.Mint(
		u.ID,
		u.EntrepriseID,
		token.KindAccess,
		s.jwt.AccessTokenTTL(),
	)
	if err != nil {
		return nil, fmt.Errorf("mint access token: %w", err)
	}

	refreshToken, err := s.codec.Mint(
		u.ID,
		u.EntrepriseID,
		token.KindRefresh,
		s.jwt.RefreshTokenTTL(),
	)
	if err != nil {
		return nil, fmt.Errorf("mint refresh token: %w", err)
	}

	return &TokenPairResponse{
		AccessToken:  accessToken,
		TokenType:    "bearer",
		RefreshToken: refreshToken,
	}, nil
}
