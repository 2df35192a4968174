package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/config"
	"github.com/elseibo-mission/gallery-server/internal/domain/access"
)

const (
	issuerName   = "gallery-api"
	principalKey = "auth_principal"
)

// Claims are the registered claims plus the caller's role and display name.
type Claims struct {
	Role access.Role `json:"role"`
	Name string      `json:"name"`
	jwt.RegisteredClaims
}

// TokenService issues and validates HS256 bearer tokens.
type TokenService struct {
	key []byte
	ttl time.Duration
	now func() time.Time
	log zerolog.Logger
}

func NewTokenService(cfg *config.Config, log zerolog.Logger) *TokenService {
	ttl := cfg.AuthTokenTTL
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &TokenService{
		key: []byte(cfg.AuthSigningKey),
		ttl: ttl,
		now: time.Now,
		log: log.With().Str("component", "token-service").Logger(),
	}
}

// Issue signs a token for principal.
func (s *TokenService) Issue(principal access.Principal) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := Claims{
		Role: principal.Role,
		Name: principal.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   principal.Name,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Parse validates a token and returns its principal.
func (s *TokenService) Parse(tokenString string) (access.Principal, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithIssuer(issuerName),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return access.Principal{}, err
	}
	if !token.Valid {
		return access.Principal{}, errors.New("invalid token")
	}
	role, ok := access.ParseRole(string(claims.Role))
	if !ok {
		return access.Principal{}, errors.New("token carries an unknown role")
	}
	return access.Principal{Role: role, Name: claims.Name}, nil
}

// Middleware attaches the caller's principal when a valid bearer token is present.
// Requests without a token pass through; RequireRole decides whether that is acceptable.
func (s *TokenService) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			c.Next()
			return
		}
		principal, err := s.Parse(tokenString)
		if err != nil {
			s.log.Debug().Err(err).Msg("rejecting bearer token")
			abortUnauthorized(c, "invalid token")
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireRole aborts unless the caller's role allows acting as want.
func RequireRole(want access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		if !principal.Role.Allows(want) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":  "FORBIDDEN",
				"error": "insufficient role",
			})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal set by Middleware.
func PrincipalFrom(c *gin.Context) (access.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return access.Principal{}, false
	}
	principal, ok := value.(access.Principal)
	return principal, ok
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":  "UNAUTHORIZED",
		"error": message,
	})
}
