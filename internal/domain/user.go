package domain

import "time"

// Role is the closed set of roles an account can hold. Every user has
// exactly one role.
type Role string

const (
	RoleAdmin        Role = "ADMIN"
	RolePractitioner Role = "PRACTITIONER"
	RolePatient      Role = "PATIENT"
)

// ParseRole normalizes a role string against the closed enumeration.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleAdmin, RolePractitioner, RolePatient:
		return Role(raw), true
	}
	return "", false
}

// Valid reports whether the role belongs to the enumeration.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// User is the durable identity record. Email and username are stored
// lowercased; PasswordHash is never serialized outward.
type User struct {
	ID           string
	Email        string
	Username     string
	Name         string
	PasswordHash string
	Role         Role
	Active       bool
	Image        string
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Projection returns the outward-facing view of the user with the
// password secret stripped.
func (u *User) Projection() Projection {
	return Projection{
		ID:    u.ID,
		Email: u.Email,
		Name:  u.Name,
		Role:  u.Role,
		Image: u.Image,
	}
}
