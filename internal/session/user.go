package session

import "strings"

// User is the cached profile snapshot kept alongside the token.
type User struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Name       string `json:"name,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Role       string `json:"role,omitempty"`
	Status     string `json:"status,omitempty"`
	IsApproved bool   `json:"isApproved,omitempty"`
	AuthMethod string `json:"authMethod,omitempty"`
	Provider   string `json:"provider,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// IsAdmin reports whether the cached role is admin.
func (u *User) IsAdmin() bool {
	return u != nil && strings.EqualFold(strings.TrimSpace(u.Role), "admin")
}

// DisplayName returns Name, then "First Last", then the email local part.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if u.FirstName != "" && u.LastName != "" {
		return u.FirstName + " " + u.LastName
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}
