// Gesco | 2026
// entity.go

package entreprise

import (
	"time"
)

// Entreprise is the tenant root: every business row in the system hangs off
// exactly one entreprise.
type Entreprise struct {
	ID           int64      `db:"id"`
	Nom          string     `db:"nom"`
	Sigle        *string    `db:"sigle"`
	NIU          *string    `db:"niu"`
	RCCM         *string    `db:"rccm"`
	Adresse      *string    `db:"adresse"`
	Ville        *string    `db:"ville"`
	Telephone    *string    `db:"telephone"`
	Email        *string    `db:"email"`
	Devise       string     `db:"devise"`
	RegimeFiscal *string    `db:"regime_fiscal"`
	IsActive     bool       `db:"is_active"`
	DeletedAt    *time.Time `db:"deleted_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (e *Entreprise) IsDeleted() bool {
	return e.DeletedAt != nil
}
