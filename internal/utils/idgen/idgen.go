package idgen

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// VideoPrefix marks volunteer story identifiers.
const VideoPrefix = "vid_"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
)

// New returns a lowercase ULID with the given prefix. IDs generated by one process sort by creation time.
func New(prefix string) string {
	entropyMu.Lock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	entropyMu.Unlock()
	return prefix + strings.ToLower(id.String())
}

// NewVideoID returns a vid_* ULID string.
func NewVideoID() string {
	return New(VideoPrefix)
}

// IsValid reports whether value is a ULID carrying the prefix.
func IsValid(prefix, value string) bool {
	if !strings.HasPrefix(value, prefix) {
		return false
	}
	_, err := Parse(prefix, value)
	return err == nil
}

// Parse strips the prefix and returns the ULID.
func Parse(prefix, value string) (ulid.ULID, error) {
	value = strings.TrimPrefix(strings.TrimSpace(value), prefix)
	return ulid.Parse(strings.ToUpper(value))
}
