package models

import "time"

// Profile defines the per-account metadata model based on the 'profiles'
// table. Its ID is the account id issued by the auth provider, so there is
// at most one profile per account.
type Profile struct {
	ID        string    `json:"id" db:"id"`
	FullName  string    `json:"fullName" db:"full_name"`
	NIS       *string   `json:"nis,omitempty" db:"nis"` // natural-key hint, filled during enrollment import
	Role      RoleType  `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HasNIS reports whether the profile carries a usable enrollment number.
func (p *Profile) HasNIS() bool {
	return p.NIS != nil && *p.NIS != ""
}
