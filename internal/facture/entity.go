// Gesco | 2026
// entity.go

package facture

import (
	"time"
)

// Facture lifecycle. A facture starts as a draft and either gets validated
// then paid, or cancelled.
const (
	StatutBrouillon = "brouillon"
	StatutValidee   = "validee"
	StatutPayee     = "payee"
	StatutAnnulee   = "annulee"
)

// Facture is a sales document owned by one entreprise and addressed to one
// of its tiers. (entreprise_id, numero) is unique.
type Facture struct {
	ID           int64      `db:"id"`
	EntrepriseID int64      `db:"entreprise_id"`
	TiersID      int64      `db:"tiers_id"`
	Numero       string     `db:"numero"`
	DateFacture  time.Time  `db:"date_facture"`
	DateEcheance *time.Time `db:"date_echeance"`
	MontantHT    float64    `db:"montant_ht"`
	MontantTVA   float64    `db:"montant_tva"`
	MontantTTC   float64    `db:"montant_ttc"`
	Statut       string     `db:"statut"`
	Devise       string     `db:"devise"`
	Notes        *string    `db:"notes"`
	DeletedAt    *time.Time `db:"deleted_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (f *Facture) IsDraft() bool {
	return f.Statut == StatutBrouillon
}
