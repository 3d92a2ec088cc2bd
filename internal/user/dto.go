// Gesco | 2026
// dto.go

package user

import (
	"time"
)

type CreateUtilisateurRequest struct {
	Login    string  `json:"login"    validate:"required,min=3,max=64"`
	Email    *string `json:"email"    validate:"omitempty,email,max=255"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	RoleID   int64   `json:"role_id"  validate:"required,gt=0"`
}

type UtilisateurResponse struct {
	ID           int64      `json:"id"`
	EntrepriseID int64      `json:"entreprise_id"`
	RoleID       int64      `json:"role_id"`
	Login        string     `json:"login"`
	Email        *string    `json:"email,omitempty"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ToUtilisateurResponse(u *Utilisateur) UtilisateurResponse {
	return UtilisateurResponse{
		ID:           u.ID,
		EntrepriseID: u.EntrepriseID,
		RoleID:       u.RoleID,
		Login:        u.Login,
		Email:        u.Email,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
	}
}

func ToUtilisateurResponseList(users []Utilisateur) []UtilisateurResponse {
	responses := make([]UtilisateurResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUtilisateurResponse(&users[i]))
	}
	return responses
}
