package access

import (
	"context"
	"strings"
	"time"
)

// Role is the capability carried by an issued token.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

// ParseRole normalizes the wire spelling of a role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleGuest:
		return RoleGuest, true
	default:
		return "", false
	}
}

// Allows reports whether a principal with this role may act as want. Admins may act as guests.
func (r Role) Allows(want Role) bool {
	return r == want || r == RoleAdmin
}

// AdminCredential is one entry of the admin credentials record.
type AdminCredential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Principal is the authenticated caller.
type Principal struct {
	Role Role   `json:"role"`
	Name string `json:"name"`
}

// Session is returned by a successful login.
type Session struct {
	Token     string    `json:"token"`
	Role      Role      `json:"role"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CredentialStore persists admin credentials and the guest password set.
type CredentialStore interface {
	AdminCredentials(ctx context.Context) ([]AdminCredential, error)
	SaveAdminCredentials(ctx context.Context, creds []AdminCredential) error
	GuestPasswords(ctx context.Context) ([]string, error)
	AddGuestPassword(ctx context.Context, password string) (bool, error)
	RemoveGuestPassword(ctx context.Context, password string) (bool, error)
}

// TokenIssuer signs bearer tokens for authenticated principals.
type TokenIssuer interface {
	Issue(principal Principal) (token string, expiresAt time.Time, err error)
}
