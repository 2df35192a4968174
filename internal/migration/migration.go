// Package migration imports the legacy JSON data files into the Redis index.
package migration

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/elseibo-mission/gallery-server/internal/domain/access"
	"github.com/elseibo-mission/gallery-server/internal/domain/media"
)

// CredentialWriter is the subset of the credential repository the importer needs.
type CredentialWriter interface {
	SaveAdminCredentials(ctx context.Context, creds []access.AdminCredential) error
	AddGuestPassword(ctx context.Context, password string) (bool, error)
}

// GuestImageImporter appends guest records that are not yet indexed.
type GuestImageImporter interface {
	Import(ctx context.Context, records []media.GuestImageRecord) (int, error)
}

// Sources names the legacy files. Empty paths are skipped.
type Sources struct {
	AdminAuth     string
	GuestPassword string
	GuestMetadata string
}

// Report summarizes one import run.
type Report struct {
	Admins         int      `json:"admins"`
	GuestPasswords int      `json:"guestPasswords"`
	GuestImages    int      `json:"guestImages"`
	Skipped        []string `json:"skipped,omitempty"`
}

type legacyUser struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type legacyUsers struct {
	Users []legacyUser `json:"users"`
}

// ParseAdminAuth decodes auth.json ({"users":[{"username","password"}]}).
// Entries missing either field are dropped.
func ParseAdminAuth(data []byte) ([]access.AdminCredential, error) {
	var doc legacyUsers
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode admin auth: %w", err)
	}
	creds := make([]access.AdminCredential, 0, len(doc.Users))
	for _, u := range doc.Users {
		username := strings.TrimSpace(u.Username)
		if username == "" || u.Password == "" {
			continue
		}
		creds = append(creds, access.AdminCredential{Username: username, Password: u.Password})
	}
	return creds, nil
}

// ParseGuestPasswords decodes guests.json. Both {"users":[{"password"}]} and a
// plain array of strings are accepted. Blank and repeated passwords are dropped.
func ParseGuestPasswords(data []byte) ([]string, error) {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		var doc legacyUsers
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode guest passwords: %w", err)
		}
		for _, u := range doc.Users {
			raw = append(raw, u.Password)
		}
	}

	seen := make(map[string]bool, len(raw))
	passwords := make([]string, 0, len(raw))
	for _, p := range raw {
		if strings.TrimSpace(p) == "" || seen[p] {
			continue
		}
		seen[p] = true
		passwords = append(passwords, p)
	}
	return passwords, nil
}

// ParseGuestMetadata decodes guest_metadata.json, either {"images":[...]} or a bare array.
func ParseGuestMetadata(data []byte) ([]media.GuestImageRecord, error) {
	var records []media.GuestImageRecord
	if err := json.Unmarshal(data, &records); err != nil {
		var doc struct {
			Images []media.GuestImageRecord `json:"images"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode guest metadata: %w", err)
		}
		records = doc.Images
	}
	return records, nil
}

// Importer writes legacy data into the index.
type Importer struct {
	credentials CredentialWriter
	images      GuestImageImporter
	log         zerolog.Logger
}

func NewImporter(credentials CredentialWriter, images GuestImageImporter, log zerolog.Logger) *Importer {
	return &Importer{
		credentials: credentials,
		images:      images,
		log:         log.With().Str("component", "legacy-migration").Logger(),
	}
}

// Run imports every configured source. A source file that does not exist is
// skipped and listed in the report; any other failure stops the run.
func (i *Importer) Run(ctx context.Context, src Sources) (*Report, error) {
	report := &Report{}

	data, ok, err := i.read(src.AdminAuth, report)
	if err != nil {
		return report, err
	}
	if ok {
		creds, err := ParseAdminAuth(data)
		if err != nil {
			return report, err
		}
		if len(creds) > 0 {
			if err := i.credentials.SaveAdminCredentials(ctx, creds); err != nil {
				return report, err
			}
		}
		report.Admins = len(creds)
		i.log.Info().Int("admins", report.Admins).Str("file", src.AdminAuth).Msg("admin credentials migrated")
	}

	data, ok, err = i.read(src.GuestPassword, report)
	if err != nil {
		return report, err
	}
	if ok {
		passwords, err := ParseGuestPasswords(data)
		if err != nil {
			return report, err
		}
		for _, p := range passwords {
			added, err := i.credentials.AddGuestPassword(ctx, p)
			if err != nil {
				return report, err
			}
			if added {
				report.GuestPasswords++
			}
		}
		i.log.Info().Int("guest_passwords", report.GuestPasswords).Str("file", src.GuestPassword).Msg("guest passwords migrated")
	}

	data, ok, err = i.read(src.GuestMetadata, report)
	if err != nil {
		return report, err
	}
	if ok {
		records, err := ParseGuestMetadata(data)
		if err != nil {
			return report, err
		}
		added, err := i.images.Import(ctx, records)
		if err != nil {
			return report, err
		}
		report.GuestImages = added
		i.log.Info().Int("guest_images", added).Str("file", src.GuestMetadata).Msg("guest metadata migrated")
	}

	return report, nil
}

func (i *Importer) read(path string, report *Report) ([]byte, bool, error) {
	if path == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		i.log.Warn().Str("file", path).Msg("legacy file not found, skipping")
		report.Skipped = append(report.Skipped, path)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", path, err)
	}
	return data, true, nil
}
