package credentials

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/domain/access"
	"github.com/elseibo-mission/gallery-server/internal/infrastructure/kvstore"
)

const (
	// AdminKey holds the admin credentials record as {"users":[{username,password}]}.
	AdminKey = "admin_auth"
	// GuestPasswordsKey is the Redis set of valid guest passwords.
	GuestPasswordsKey = "guest_passwords"
)

type adminRecord struct {
	Users []access.AdminCredential `json:"users"`
}

// Repository implements access.CredentialStore on Redis.
type Repository struct {
	store *kvstore.RedisStore
	log   zerolog.Logger
}

func NewRepository(store *kvstore.RedisStore, log zerolog.Logger) *Repository {
	return &Repository{
		store: store,
		log:   log.With().Str("component", "credential-repository").Logger(),
	}
}

// AdminCredentials returns the stored admins. A missing or undecodable record reads as empty.
func (r *Repository) AdminCredentials(ctx context.Context) ([]access.AdminCredential, error) {
	raw, err := r.store.Client().Get(ctx, AdminKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read admin credentials: %w", err)
	}

	var record adminRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		r.log.Warn().Err(err).Msg("admin credentials record is malformed")
		return nil, nil
	}
	creds := record.Users[:0]
	for _, c := range record.Users {
		if c.Username != "" && c.Password != "" {
			creds = append(creds, c)
		}
	}
	return creds, nil
}

func (r *Repository) SaveAdminCredentials(ctx context.Context, creds []access.AdminCredential) error {
	if creds == nil {
		creds = []access.AdminCredential{}
	}
	encoded, err := json.Marshal(adminRecord{Users: creds})
	if err != nil {
		return fmt.Errorf("encode admin credentials: %w", err)
	}
	if err := r.store.Client().Set(ctx, AdminKey, encoded, 0).Err(); err != nil {
		return fmt.Errorf("save admin credentials: %w", err)
	}
	return nil
}

func (r *Repository) GuestPasswords(ctx context.Context) ([]string, error) {
	members, err := r.store.Client().SMembers(ctx, GuestPasswordsKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read guest passwords: %w", err)
	}
	return members, nil
}

func (r *Repository) AddGuestPassword(ctx context.Context, password string) (bool, error) {
	added, err := r.store.Client().SAdd(ctx, GuestPasswordsKey, password).Result()
	if err != nil {
		return false, fmt.Errorf("add guest password: %w", err)
	}
	return added > 0, nil
}

func (r *Repository) RemoveGuestPassword(ctx context.Context, password string) (bool, error) {
	removed, err := r.store.Client().SRem(ctx, GuestPasswordsKey, password).Result()
	if err != nil {
		return false, fmt.Errorf("remove guest password: %w", err)
	}
	return removed > 0, nil
}
