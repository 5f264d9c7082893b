package domain

import "time"

// Role determines authorization decisions for an Identity.
type Role string

const (
	RoleVendor     Role = "VENDOR"
	RoleAdmin      Role = "ADMIN"
	RolePublicUser Role = "PUBLIC_USER"
)

// Roles lists every role in display order.
var Roles = []Role{RoleVendor, RoleAdmin, RolePublicUser}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleVendor, RoleAdmin, RolePublicUser:
		return true
	}
	return false
}

// Identity models the authenticated user held client-side.
// The JSON shape is the persisted currentUser encoding.
type Identity struct {
	ID          string     `json:"id,omitempty"`
	Email       string     `json:"email"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Role        Role       `json:"role"`
	PhoneNumber string     `json:"phoneNumber,omitempty"`
	Location    string     `json:"location,omitempty"`
	Verified    *bool      `json:"verified,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Clone returns a deep copy so callers can never mutate published state.
func (i *Identity) Clone() *Identity {
	if i == nil {
		return nil
	}
	c := *i
	if i.Verified != nil {
		v := *i.Verified
		c.Verified = &v
	}
	if i.CreatedAt != nil {
		t := *i.CreatedAt
		c.CreatedAt = &t
	}
	if i.UpdatedAt != nil {
		t := *i.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}

// DisplayName is the name shown in the navigation chrome.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	switch {
	case i.FirstName != "" && i.LastName != "":
		return i.FirstName + " " + i.LastName
	case i.FirstName != "":
		return i.FirstName
	default:
		return i.Email
	}
}

// LoginRequest carries the credentials sent to POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries the account details sent to POST /auth/register.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Role        Role   `json:"role"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Location    string `json:"location,omitempty"`
}

// AuthResponse is the backend's acknowledgement of a successful login.
type AuthResponse struct {
	Token     string `json:"token"`
	Type      string `json:"type"`
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

// Identity derives the client-side Identity from the login acknowledgement.
func (r *AuthResponse) Identity() *Identity {
	return &Identity{
		ID:        r.ID,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Role:      Role(r.Role),
	}
}

// Acknowledgement is the backend's reply to a registration.
type Acknowledgement struct {
	Message string `json:"message"`
}
