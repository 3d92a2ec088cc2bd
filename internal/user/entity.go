// Gesco | 2026
// entity.go

package user

import (
	"time"
)

// Utilisateur is a principal owner, exclusively owned by one entreprise.
// (entreprise_id, login) is unique among non-tombstoned rows.
type Utilisateur struct {
	ID           int64      `db:"id"`
	EntrepriseID int64      `db:"entreprise_id"`
	RoleID       int64      `db:"role_id"`
	Login        string     `db:"login"`
	Email        *string    `db:"email"`
	PasswordHash string     `db:"password_hash"`
	IsActive     bool       `db:"is_active"`
	DeletedAt    *time.Time `db:"deleted_at"`
	LastLoginAt  *time.Time `db:"last_login_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

func (u *Utilisateur) IsDeleted() bool {
	return u.DeletedAt != nil
}
