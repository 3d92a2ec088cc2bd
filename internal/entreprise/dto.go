// Gesco | 2026
// dto.go

package entreprise

import (
	"time"
)

type CreateEntrepriseRequest struct {
	Nom          string  `json:"nom"           validate:"required,min=2,max=255"`
	Sigle        *string `json:"sigle"         validate:"omitempty,max=32"`
	NIU          *string `json:"niu"           validate:"omitempty,max=32"`
	RCCM         *string `json:"rccm"          validate:"omitempty,max=64"`
	Adresse      *string `json:"adresse"       validate:"omitempty,max=255"`
	Ville        *string `json:"ville"         validate:"omitempty,max=128"`
	Telephone    *string `json:"telephone"     validate:"omitempty,max=32"`
	Email        *string `json:"email"         validate:"omitempty,email,max=255"`
	Devise       string  `json:"devise"        validate:"omitempty,len=3"`
	RegimeFiscal *string `json:"regime_fiscal" validate:"omitempty,max=64"`
}

type UpdateEntrepriseRequest struct {
	Nom          string  `json:"nom"           validate:"required,min=2,max=255"`
	Sigle        *string `json:"sigle"         validate:"omitempty,max=32"`
	NIU          *string `json:"niu"           validate:"omitempty,max=32"`
	RCCM         *string `json:"rccm"          validate:"omitempty,max=64"`
	Adresse      *string `json:"adresse"       validate:"omitempty,max=255"`
	Ville        *string `json:"ville"         validate:"omitempty,max=128"`
	Telephone    *string `json:"telephone"     validate:"omitempty,max=32"`
	Email        *string `json:"email"         validate:"omitempty,email,max=255"`
	Devise       string  `json:"devise"        validate:"omitempty,len=3"`
	RegimeFiscal *string `json:"regime_fiscal" validate:"omitempty,max=64"`
}

type EntrepriseResponse struct {
	ID           int64     `json:"id"`
	Nom          string    `json:"nom"`
	Sigle        *string   `json:"sigle,omitempty"`
	NIU          *string   `json:"niu,omitempty"`
	RCCM         *string   `json:"rccm,omitempty"`
	Adresse      *string   `json:"adresse,omitempty"`
	Ville        *string   `json:"ville,omitempty"`
	Telephone    *string   `json:"telephone,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Devise       string    `json:"devise"`
	RegimeFiscal *string   `json:"regime_fiscal,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToEntrepriseResponse(e *Entreprise) EntrepriseResponse {
	return EntrepriseResponse{
		ID:           e.ID,
		Nom:          e.Nom,
		Sigle:        e.Sigle,
		NIU:          e.NIU,
		RCCM:         e.RCCM,
		Adresse:      e.Adresse,
		Ville:        e.Ville,
		Telephone:    e.Telephone,
		Email:        e.Email,
		Devise:       e.Devise,
		RegimeFiscal: e.RegimeFiscal,
		IsActive:     e.IsActive,
		CreatedAt:    e.CreatedAt,
	}
}
