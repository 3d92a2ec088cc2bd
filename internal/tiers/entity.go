// Gesco | 2026
// entity.go

package tiers

import (
	"time"
)

// Tiers types. A tiers can buy, sell, or both.
const (
	TypeClient      = "client"
	TypeFournisseur = "fournisseur"
	TypeMixte       = "mixte"
)

// Tiers is a business partner (client or fournisseur) owned by one
// entreprise. (entreprise_id, code) is unique among non-tombstoned rows.
type Tiers struct {
	ID            int64      `db:"id"`
	EntrepriseID  int64      `db:"entreprise_id"`
	Code          string     `db:"code"`
	Nom           string     `db:"nom"`
	Type          string     `db:"type"`
	NIU           *string    `db:"niu"`
	Telephone     *string    `db:"telephone"`
	Email         *string    `db:"email"`
	Adresse       *string    `db:"adresse"`
	Ville         *string    `db:"ville"`
	PlafondCredit *float64   `db:"plafond_credit"`
	IsActive      bool       `db:"is_active"`
	DeletedAt     *time.Time `db:"deleted_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func (t *Tiers) IsDeleted() bool {
	return t.DeletedAt != nil
}

// Contact is a person attached to a tiers. It carries no entreprise_id of
// its own; ownership resolves through the parent tiers.
type Contact struct {
	ID        int64     `db:"id"`
	TiersID   int64     `db:"tiers_id"`
	Nom       string    `db:"nom"`
	Fonction  *string   `db:"fonction"`
	Telephone *string   `db:"telephone"`
	Email     *string   `db:"email"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
