package media

import (
	"path"
	"regexp"
	"strings"
)

// FallbackContentType is used when neither the caller nor the extension table names a type.
const FallbackContentType = "application/octet-stream"

var allowedMIMEs = map[string]string{
	"image/jpeg":       "jpg",
	"image/png":        "png",
	"image/gif":        "gif",
	"image/webp":       "webp",
	"image/heic":       "heic",
	"image/heif":       "heif",
	"image/avif":       "avif",
	"image/bmp":        "bmp",
	"image/tiff":       "tiff",
	"video/mp4":        "mp4",
	"video/webm":       "webm",
	"video/quicktime":  "mov",
	"video/x-m4v":      "m4v",
	"video/x-matroska": "mkv",
}

var extensionMIMEs = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"heic": "image/heic",
	"heif": "image/heif",
	"avif": "image/avif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"mov":  "video/quicktime",
	"m4v":  "video/x-m4v",
	"mkv":  "video/x-matroska",
}

var extensionPattern = regexp.MustCompile(`^[a-z0-9]{1,10}$`)

// NormalizeContentType lowercases a MIME string and drops parameters.
func NormalizeContentType(raw string) string {
	mime := strings.ToLower(strings.TrimSpace(raw))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	return mime
}

// IsAllowedContentType reports whether the MIME type is an accepted image or video type.
func IsAllowedContentType(contentType string) bool {
	_, ok := allowedMIMEs[NormalizeContentType(contentType)]
	return ok
}

// ContentTypeForExtension looks up the MIME type of a bare extension ("jpg", not ".jpg").
func ContentTypeForExtension(ext string) string {
	if mime, ok := extensionMIMEs[strings.ToLower(ext)]; ok {
		return mime
	}
	return FallbackContentType
}

// extensionOf returns the lowercase extension of a filename without the dot, or "" when the
// extension is missing or not a plain short alphanumeric token.
func extensionOf(filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(strings.TrimSpace(filename))), ".")
	if !extensionPattern.MatchString(ext) {
		return ""
	}
	return ext
}

// resolveExtension picks the key extension: the filename's own, else the one matching the
// content type, else "bin".
func resolveExtension(filename, contentType string) string {
	if ext := extensionOf(filename); ext != "" {
		return ext
	}
	if ext, ok := allowedMIMEs[contentType]; ok {
		return ext
	}
	return "bin"
}
