package dto

import "github.com/project-nexus/models"

// Principal is the resolved caller of a request. The zero value is anonymous.
type Principal struct {
	UserID string
	Email  string
	Role   models.Role
}

// Anonymous returns the identity used when no valid token was presented
func Anonymous() Principal {
	return Principal{}
}

func (p Principal) IsAuthenticated() bool {
	return p.UserID != ""
}

func (p Principal) IsAdmin() bool {
	return p.IsAuthenticated() && p.Role == models.RoleAdmin
}
