// Gesco | 2026
// entity.go

package role

// Role is a named bundle of permissions. Built-in roles have no owning
// entreprise; tenant-defined roles carry their entreprise id.
type Role struct {
	ID           int64  `db:"id"`
	EntrepriseID *int64 `db:"entreprise_id"`
	Code         string `db:"code"`
}

// Permission is a catalogue entry, unique on (module, action).
type Permission struct {
	ID     int64  `db:"id"`
	Module string `db:"module"`
	Action string `db:"action"`
}

// Built-in role codes seeded with the schema.
const (
	CodeSuperAdmin  = "SUPER_ADMIN"
	CodeAdmin       = "ADMIN"
	CodeComptable   = "COMPTABLE"
	CodeVendeur     = "VENDEUR"
	CodeMagasinier  = "MAGASINIER"
)

func (r *Role) IsBuiltin() bool {
	return r.EntrepriseID == nil
}
