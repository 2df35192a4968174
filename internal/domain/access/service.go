package access

import (
	"context"
	"crypto/subtle"
	"errors"
	"slices"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/utils/platformerrors"
)

// AnonymousName is used for guests who log in without a display name.
const AnonymousName = "anonymous"

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrPasswordRequired     = errors.New("password is required")
	ErrGuestPasswordExists  = errors.New("guest password already exists")
	ErrGuestPasswordMissing = errors.New("guest password not found")
	ErrCredentialsStore     = errors.New("credential store unavailable")
)

// Service authenticates admins and guests and manages the guest password set.
// Passwords are compared in plaintext against the stored values.
type Service struct {
	store  CredentialStore
	issuer TokenIssuer
	log    zerolog.Logger
}

func NewService(store CredentialStore, issuer TokenIssuer, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		issuer: issuer,
		log:    log.With().Str("component", "access-service").Logger(),
	}
}

// Login checks the credentials for the requested role and returns a signed session.
// For guests the username is only a display name. A guest login that fails the guest password
// check but matches admin credentials yields an admin session.
func (s *Service) Login(ctx context.Context, username, password string, role Role) (*Session, error) {
	username = strings.TrimSpace(username)
	if password == "" {
		return nil, invalidCredentials(ctx, role)
	}

	switch role {
	case RoleAdmin:
		ok, err := s.matchAdmin(ctx, username, password)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalidCredentials(ctx, role)
		}
		return s.issue(ctx, Principal{Role: RoleAdmin, Name: username})

	case RoleGuest:
		name := username
		if name == "" {
			name = AnonymousName
		}
		ok, err := s.matchGuest(ctx, password)
		if err != nil {
			return nil, err
		}
		if ok {
			return s.issue(ctx, Principal{Role: RoleGuest, Name: name})
		}
		ok, err = s.matchAdmin(ctx, username, password)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, invalidCredentials(ctx, role)
		}
		return s.issue(ctx, Principal{Role: RoleAdmin, Name: username})

	default:
		return nil, invalidCredentials(ctx, role)
	}
}

// ListGuestPasswords returns the guest password set, sorted.
func (s *Service) ListGuestPasswords(ctx context.Context) ([]string, error) {
	passwords, err := s.store.GuestPasswords(ctx)
	if err != nil {
		return nil, storeFailure(ctx, "list guest passwords", err)
	}
	slices.Sort(passwords)
	return passwords, nil
}

// AddGuestPassword adds a member to the guest password set.
func (s *Service) AddGuestPassword(ctx context.Context, password string) error {
	password = strings.TrimSpace(password)
	if password == "" {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation,
			"password is required", ErrPasswordRequired, "2c4e6a8c-0e2a-4c6e-8a0c-2e4a6c8e0a2c")
	}
	added, err := s.store.AddGuestPassword(ctx, password)
	if err != nil {
		return storeFailure(ctx, "add guest password", err)
	}
	if !added {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeConflict,
			"guest password already exists", ErrGuestPasswordExists, "4e6a8c0e-2a4c-4e8a-8c0e-4a6c8e0a2c4e")
	}
	s.log.Info().Msg("guest password added")
	return nil
}

// RemoveGuestPassword removes a member from the guest password set.
func (s *Service) RemoveGuestPassword(ctx context.Context, password string) error {
	removed, err := s.store.RemoveGuestPassword(ctx, password)
	if err != nil {
		return storeFailure(ctx, "remove guest password", err)
	}
	if !removed {
		return platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeNotFound,
			"guest password not found", ErrGuestPasswordMissing, "6a8c0e2a-4c6e-4a0c-8e2a-6c8e0a2c4e6a")
	}
	s.log.Info().Msg("guest password removed")
	return nil
}

// EnsureAdmin seeds the admin credentials record when it is empty. It never overwrites
// existing credentials.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return false, nil
	}
	creds, err := s.store.AdminCredentials(ctx)
	if err != nil {
		return false, storeFailure(ctx, "read admin credentials", err)
	}
	if len(creds) > 0 {
		return false, nil
	}
	if err := s.store.SaveAdminCredentials(ctx, []AdminCredential{{Username: username, Password: password}}); err != nil {
		return false, storeFailure(ctx, "save admin credentials", err)
	}
	s.log.Info().Str("username", username).Msg("seeded admin credentials")
	return true, nil
}

func (s *Service) matchAdmin(ctx context.Context, username, password string) (bool, error) {
	creds, err := s.store.AdminCredentials(ctx)
	if err != nil {
		return false, storeFailure(ctx, "read admin credentials", err)
	}
	for _, c := range creds {
		if c.Username == username && secureEqual(c.Password, password) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) matchGuest(ctx context.Context, password string) (bool, error) {
	passwords, err := s.store.GuestPasswords(ctx)
	if err != nil {
		return false, storeFailure(ctx, "read guest passwords", err)
	}
	for _, p := range passwords {
		if secureEqual(p, password) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Service) issue(ctx context.Context, principal Principal) (*Session, error) {
	token, expiresAt, err := s.issuer.Issue(principal)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeInternal,
			"failed to issue token", err, "8c0e2a4c-6e8a-4c2e-8a4c-8e0a2c4e6a8c")
	}
	s.log.Info().Str("role", string(principal.Role)).Str("name", principal.Name).Msg("login succeeded")
	return &Session{Token: token, Role: principal.Role, Name: principal.Name, ExpiresAt: expiresAt}, nil
}

func secureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func invalidCredentials(ctx context.Context, role Role) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeUnauthorized,
		"invalid credentials", ErrInvalidCredentials, "0e2a4c6e-8a0c-4e4a-8c6e-0a2c4e6a8c0e",
		map[string]any{"role": string(role)})
}

func storeFailure(ctx context.Context, op string, err error) error {
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeExternal,
		op+" failed", errors.Join(ErrCredentialsStore, err), "a2c4e6a8-c0e2-4a6c-8e0a-a2c4e6a8c0e2",
		map[string]any{"operation": op})
}
