package models

import "time"

// Role is stored as a plain string so the column stays readable in psql.
type Role string

const (
	RoleUnverified       Role = "unverified"
	RoleVerifiedMechanic Role = "verified_mechanic"
	RoleModerator        Role = "moderator"
	RoleAdmin            Role = "admin"
)

// ParseRole maps a stored string back to a Role, defaulting to unverified.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleVerifiedMechanic, RoleModerator, RoleAdmin:
		return Role(s)
	default:
		return RoleUnverified
	}
}

// CanPost reports whether the role may create forum posts.
func (r Role) CanPost() bool {
	return r == RoleVerifiedMechanic || r == RoleModerator || r == RoleAdmin
}

// CanModerate reports whether the role may act on reports, removals and bans.
func (r Role) CanModerate() bool {
	return r == RoleModerator || r == RoleAdmin
}

// CanVoteStores reports whether the role may submit and rate parts stores.
func (r Role) CanVoteStores() bool {
	return r == RoleVerifiedMechanic || r == RoleModerator || r == RoleAdmin
}

func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

type User struct {
	ID           int    `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique;not null" json:"email"`
	Username     string `gorm:"unique;not null" json:"username"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         Role   `gorm:"not null;default:unverified" json:"role"`
	Banned       bool   `gorm:"not null;default:false" json:"banned"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
