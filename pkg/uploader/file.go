package uploader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is one file queued for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size returns the file's length in bytes.
func (f File) Size() int64 {
	return int64(len(f.Data))
}

// FileFromPath reads a file and sniffs its content type.
func FileFromPath(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read %s: %w", path, err)
	}
	return NewFile(filepath.Base(path), data), nil
}

// NewFile wraps bytes already in memory, detecting the content type from the data.
func NewFile(name string, data []byte) File {
	return File{
		Name:        name,
		ContentType: detectContentType(name, data),
		Data:        data,
	}
}

func detectContentType(name string, data []byte) string {
	mime := mimetype.Detect(data).String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	// Short or truncated payloads sniff as octet-stream; trust the extension then.
	if mime == "application/octet-stream" || mime == "text/plain" {
		if byExt, ok := extensionMIMEs[strings.ToLower(filepath.Ext(name))]; ok {
			return byExt
		}
	}
	return mime
}

var extensionMIMEs = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".webm": "video/webm",
	".heic": "image/heic",
	".heif": "image/heif",
}
