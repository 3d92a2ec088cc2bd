// Gesco | 2026
// dto.go

package facture

import (
	"time"
)

type CreateFactureRequest struct {
	TiersID      int64      `json:"tiers_id"      validate:"required,gt=0"`
	DateFacture  time.Time  `json:"date_facture"  validate:"required"`
	DateEcheance *time.Time `json:"date_echeance"`
	MontantHT    float64    `json:"montant_ht"    validate:"gte=0"`
	MontantTVA   float64    `json:"montant_tva"   validate:"gte=0"`
	Devise       string     `json:"devise"        validate:"omitempty,len=3"`
	Notes        *string    `json:"notes"         validate:"omitempty,max=2000"`
}

type FactureResponse struct {
	ID           int64      `json:"id"`
	EntrepriseID int64      `json:"entreprise_id"`
	TiersID      int64      `json:"tiers_id"`
	Numero       string     `json:"numero"`
	DateFacture  time.Time  `json:"date_facture"`
	DateEcheance *time.Time `json:"date_echeance,omitempty"`
	MontantHT    float64    `json:"montant_ht"`
	MontantTVA   float64    `json:"montant_tva"`
	MontantTTC   float64    `json:"montant_ttc"`
	Statut       string     `json:"statut"`
	Devise       string     `json:"devise"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func ToFactureResponse(f *Facture) FactureResponse {
	return FactureResponse{
		ID:           f.ID,
		EntrepriseID: f.EntrepriseID,
		TiersID:      f.TiersID,
		Numero:       f.Numero,
		DateFacture:  f.DateFacture,
		DateEcheance: f.DateEcheance,
		MontantHT:    f.MontantHT,
		MontantTVA:   f.MontantTVA,
		MontantTTC:   f.MontantTTC,
		Statut:       f.Statut,
		Devise:       f.Devise,
		Notes:        f.Notes,
		CreatedAt:    f.CreatedAt,
	}
}

func ToFactureResponseList(list []Facture) []FactureResponse {
	responses := make([]FactureResponse, 0, len(list))
	for i := range list {
		responses = append(responses, ToFactureResponse(&list[i]))
	}
	return responses
}
