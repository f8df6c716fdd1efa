package models

import (
	"time"
)

// Profile is owned by the profile CRUD surface; this service only reads it to
// resolve display names from identities.
type Profile struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email  string `gorm:"uniqueIndex;not null" json:"email"`
	Name   string `gorm:"size:100" json:"name"`
	Course string `gorm:"size:100" json:"course"`
	Avatar string `json:"avatar"`
}

// DisplayName falls back to the identity when no profile name is set.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.Email
}

type MemberResponse struct {
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Role  MembershipEdge `json:"role"`
}
