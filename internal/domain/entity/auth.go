package entity

import "time"

// LoginRequest represents the credentials posted by the login form
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the registration form
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TokenPair is the backend answer to login, register and refresh
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// SessionInfo is returned to the browser after a successful login
type SessionInfo struct {
	SessionID string    `json:"session_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the authenticated user as reported by the backend
type Profile struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Organization string `json:"organization,omitempty"`
	Role         string `json:"role,omitempty"`
}

// OrganizationDomain maps an email domain to its organization
type OrganizationDomain struct {
	Domain         string `json:"domain"`
	OrganizationID string `json:"organizationId"`
	Name           string `json:"name"`
}

// SenderStatus is the e-signature sender registration state
type SenderStatus struct {
	ID     string `json:"id,omitempty"`
	Email  string `json:"email,omitempty"`
	Status string `json:"status,omitempty"`
}
