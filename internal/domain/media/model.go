package media

import (
	"strings"
	"time"
)

// UploadClass selects the key prefix and the policy applied to an upload.
type UploadClass string

const (
	ClassAdmin     UploadClass = "admin"
	ClassGuest     UploadClass = "guest"
	ClassSiteAsset UploadClass = "site_asset"
)

// Cache keys of the two memoized gallery listings.
const (
	CacheKeyAdminGallery = "admin-gallery-listing"
	CacheKeyGuestGallery = "guest-gallery-listing"
)

const (
	// DefaultOwner is recorded for guest uploads finalized without a display name.
	DefaultOwner = "anonymous"
	// UnknownOwner is reported for guest objects that have no metadata record.
	UnknownOwner = "unknown"
)

var classPrefixes = map[UploadClass]string{
	ClassAdmin:     "admin-uploads",
	ClassGuest:     "guest-uploads",
	ClassSiteAsset: "site-assets",
}

// ParseUploadClass normalizes the wire spelling of an upload class.
func ParseUploadClass(raw string) (UploadClass, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return ClassAdmin, true
	case "guest":
		return ClassGuest, true
	case "site_asset", "site-asset", "siteasset":
		return ClassSiteAsset, true
	default:
		return "", false
	}
}

// Prefix returns the object key prefix for the class, without a trailing slash.
func (c UploadClass) Prefix() string {
	return classPrefixes[c]
}

// CacheKey returns the gallery listing affected by mutations in this class.
// Site assets do not appear in any gallery.
func (c UploadClass) CacheKey() (string, bool) {
	switch c {
	case ClassAdmin:
		return CacheKeyAdminGallery, true
	case ClassGuest:
		return CacheKeyGuestGallery, true
	default:
		return "", false
	}
}

// ObjectInfo is a listed StoredObject.
type ObjectInfo struct {
	Key          string
	LastModified time.Time
}

// GuestImageRecord associates a guest-uploaded object with the uploader's display name.
type GuestImageRecord struct {
	Filename string `json:"filename"`
	Owner    string `json:"owner"`
}

// GuestImage is an entry of the guest gallery listing.
type GuestImage struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Owner    string `json:"owner"`
}

// PresignedPut is a signed single-PUT authorization for one object key.
// Headers lists request headers the client must send verbatim because they are part of the signature.
type PresignedPut struct {
	URL     string
	Headers map[string]string
}

// UploadRequest asks for a presigned upload URL.
type UploadRequest struct {
	Filename    string
	ContentType string
	Class       UploadClass
}

// UploadTicket is returned by RequestUploadURL.
type UploadTicket struct {
	Key         string            `json:"key"`
	UploadURL   string            `json:"uploadUrl"`
	PublicURL   string            `json:"publicUrl"`
	ContentType string            `json:"contentType"`
	Headers     map[string]string `json:"headers,omitempty"`
	ExpiresIn   int               `json:"expiresIn"`
}

// FinalizeRequest records a completed client upload.
type FinalizeRequest struct {
	Key   string
	Owner string
	Class UploadClass
}

// FinalizeResult describes a finalized upload.
type FinalizeResult struct {
	Key      string      `json:"key"`
	Filename string      `json:"filename"`
	URL      string      `json:"url"`
	Owner    string      `json:"owner,omitempty"`
	Class    UploadClass `json:"type"`
}
