// Gesco | 2026
// dto.go

package tiers

import (
	"time"
)

type CreateTiersRequest struct {
	Code          string   `json:"code"           validate:"required,min=1,max=32"`
	Nom           string   `json:"nom"            validate:"required,min=2,max=255"`
	Type          string   `json:"type"           validate:"required,oneof=client fournisseur mixte"`
	NIU           *string  `json:"niu"            validate:"omitempty,max=32"`
	Telephone     *string  `json:"telephone"      validate:"omitempty,max=32"`
	Email         *string  `json:"email"          validate:"omitempty,email,max=255"`
	Adresse       *string  `json:"adresse"        validate:"omitempty,max=255"`
	Ville         *string  `json:"ville"          validate:"omitempty,max=128"`
	PlafondCredit *float64 `json:"plafond_credit" validate:"omitempty,gte=0"`
}

type UpdateTiersRequest struct {
	Nom           string   `json:"nom"            validate:"required,min=2,max=255"`
	Type          string   `json:"type"           validate:"required,oneof=client fournisseur mixte"`
	NIU           *string  `json:"niu"            validate:"omitempty,max=32"`
	Telephone     *string  `json:"telephone"      validate:"omitempty,max=32"`
	Email         *string  `json:"email"          validate:"omitempty,email,max=255"`
	Adresse       *string  `json:"adresse"        validate:"omitempty,max=255"`
	Ville         *string  `json:"ville"          validate:"omitempty,max=128"`
	PlafondCredit *float64 `json:"plafond_credit" validate:"omitempty,gte=0"`
	IsActive      *bool    `json:"is_active"`
}

type TiersResponse struct {
	ID            int64     `json:"id"`
	EntrepriseID  int64     `json:"entreprise_id"`
	Code          string    `json:"code"`
	Nom           string    `json:"nom"`
	Type          string    `json:"type"`
	NIU           *string   `json:"niu,omitempty"`
	Telephone     *string   `json:"telephone,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Adresse       *string   `json:"adresse,omitempty"`
	Ville         *string   `json:"ville,omitempty"`
	PlafondCredit *float64  `json:"plafond_credit,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateContactRequest struct {
	Nom       string  `json:"nom"       validate:"required,min=2,max=255"`
	Fonction  *string `json:"fonction"  validate:"omitempty,max=128"`
	Telephone *string `json:"telephone" validate:"omitempty,max=32"`
	Email     *string `json:"email"     validate:"omitempty,email,max=255"`
}

type ContactResponse struct {
	ID        int64     `json:"id"`
	TiersID   int64     `json:"tiers_id"`
	Nom       string    `json:"nom"`
	Fonction  *string   `json:"fonction,omitempty"`
	Telephone *string   `json:"telephone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func ToTiersResponse(t *Tiers) TiersResponse {
	return TiersResponse{
		ID:            t.ID,
		EntrepriseID:  t.EntrepriseID,
		Code:          t.Code,
		Nom:           t.Nom,
		Type:          t.Type,
		NIU:           t.NIU,
		Telephone:     t.Telephone,
		Email:         t.Email,
		Adresse:       t.Adresse,
		Ville:         t.Ville,
		PlafondCredit: t.PlafondCredit,
		IsActive:      t.IsActive,
		CreatedAt:     t.CreatedAt,
	}
}

func ToTiersResponseList(list []Tiers) []TiersResponse {
	responses := make([]TiersResponse, 0, len(list))
	for i := range list {
		responses = append(responses, ToTiersResponse(&list[i]))
	}
	return responses
}

func ToContactResponse(c *Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		TiersID:   c.TiersID,
		Nom:       c.Nom,
		Fonction:  c.Fonction,
		Telephone: c.Telephone,
		Email:     c.Email,
		CreatedAt: c.CreatedAt,
	}
}

func ToContactResponseList(list []Contact) []ContactResponse {
	responses := make([]ContactResponse, 0, len(list))
	for i := range list {
		responses = append(responses, ToContactResponse(&list[i]))
	}
	return responses
}
