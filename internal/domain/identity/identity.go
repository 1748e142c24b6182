// Package identity holds the user, organization and session types shared by
// the session state machine and the inventory views.
package identity

import "time"

// Role is a user's role inside an organization
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is the authenticated account as reported by the auth backend
type User struct {
	ID             string     `json:"_id"`
	Email          string     `json:"email"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Role           Role       `json:"role"`
	OrganizationID string     `json:"organizationId"`
	Active         bool       `json:"active"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
	CreatedAt      *time.Time `json:"createdAt,omitempty"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// Organization is the tenant that owns the scanned apex domains
type Organization struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	PrimaryDomain    string         `json:"primaryDomain"`
	ApexDomains      []string       `json:"apexDomains"`
	ApexDomainsCount int            `json:"apexDomainsCount"`
	Status           string         `json:"status"`
	LastScanTime     *time.Time     `json:"lastScanTime,omitempty"`
	NextScanTime     *time.Time     `json:"nextScanTime,omitempty"`
	NeedsRescan      bool           `json:"needsRescan,omitempty"`
	ScanSettings     map[string]any `json:"scanSettings,omitempty"`
	CreatedAt        *time.Time     `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time     `json:"updatedAt,omitempty"`
}

// Tokens is the token pair issued on login
type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	Message      string       `json:"message"`
	User         User         `json:"user"`
	Organization Organization `json:"organization"`
	Tokens       Tokens       `json:"tokens"`
}

// VerifyResponse is returned by token verification
type VerifyResponse struct {
	User         User         `json:"user"`
	Organization Organization `json:"organization"`
}

// Credentials is a login request
type Credentials struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// Registration is a sign-up request
type Registration struct {
	Email            string   `json:"email" binding:"required,email" validate:"required,email"`
	Password         string   `json:"password" binding:"required,min=8" validate:"required,min=8"`
	FirstName        string   `json:"firstName" binding:"required" validate:"required"`
	LastName         string   `json:"lastName" binding:"required" validate:"required"`
	OrganizationName string   `json:"organizationName" binding:"required" validate:"required"`
	ApexDomains      []string `json:"apexDomains" binding:"required,min=1,dive,fqdn" validate:"required,min=1,dive,fqdn"`
}

// SessionState is the resolution state of the current session
type SessionState string

const (
	StateUnresolved    SessionState = "unresolved"
	StateVerifying     SessionState = "verifying"
	StateAuthenticated SessionState = "authenticated"
	StateAnonymous     SessionState = "anonymous"
)

// IsResolved reports whether verification has finished one way or the other
func (s SessionState) IsResolved() bool {
	return s == StateAuthenticated || s == StateAnonymous
}

// Session is a point-in-time copy of the session state
type Session struct {
	State           SessionState  `json:"state"`
	IsAuthenticated bool          `json:"isAuthenticated"`
	User            *User         `json:"user,omitempty"`
	Organization    *Organization `json:"organization,omitempty"`
	Loading         bool          `json:"loading"`
	TokenExpiresAt  *time.Time    `json:"tokenExpiresAt,omitempty"`
}
