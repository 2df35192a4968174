package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// PIILevel controls how sensitive values appear in logs.
type PIILevel string

const (
	// PIILevelNone redacts sensitive values entirely
	PIILevelNone PIILevel = "none"
	// PIILevelHashed replaces them with a short salted hash
	PIILevelHashed PIILevel = "hashed"
	// PIILevelFull logs them as they are
	PIILevelFull PIILevel = "full"
)

// sensitiveSegments are route prefixes whose next path segment is a secret or a person's name.
var sensitiveSegments = []string{"/guest-passwords/"}

// Sanitizer masks guest passwords and display names before they reach the logs.
type Sanitizer struct {
	level PIILevel
	salt  string
}

// NewSanitizer parses level; anything unrecognized falls back to hashed.
func NewSanitizer(level, salt string) *Sanitizer {
	l := PIILevel(strings.ToLower(strings.TrimSpace(level)))
	switch l {
	case PIILevelNone, PIILevelHashed, PIILevelFull:
	default:
		l = PIILevelHashed
	}
	return &Sanitizer{level: l, salt: salt}
}

func (s *Sanitizer) Level() PIILevel {
	return s.level
}

// Value masks a single sensitive value.
func (s *Sanitizer) Value(v string) string {
	if v == "" {
		return ""
	}
	switch s.level {
	case PIILevelFull:
		return v
	case PIILevelNone:
		return "[REDACTED]"
	default:
		return s.hash(v)
	}
}

// Path masks the segment that follows a sensitive route prefix.
func (s *Sanitizer) Path(path string) string {
	if s.level == PIILevelFull {
		return path
	}
	for _, prefix := range sensitiveSegments {
		idx := strings.Index(path, prefix)
		if idx < 0 {
			continue
		}
		start := idx + len(prefix)
		end := strings.IndexByte(path[start:], '/')
		if end < 0 {
			end = len(path)
		} else {
			end += start
		}
		if start == end {
			continue
		}
		path = path[:start] + s.Value(path[start:end]) + path[end:]
	}
	return path
}

func (s *Sanitizer) hash(data string) string {
	h := sha256.Sum256([]byte(data + s.salt))
	return hex.EncodeToString(h[:])[:8]
}
