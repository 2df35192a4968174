package uploader

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
)

// DefaultJPEGQuality is used when transcoding HEIC images.
const DefaultJPEGQuality = 80

// Transcoder rewrites a file before upload.
type Transcoder interface {
	// Applies reports whether the file needs transcoding.
	Applies(file File) bool
	Transcode(file File) (File, error)
}

// HEICTranscoder turns HEIC and HEIF images into JPEGs so every browser can display them.
type HEICTranscoder struct {
	Quality int
}

func NewHEICTranscoder() *HEICTranscoder {
	return &HEICTranscoder{Quality: DefaultJPEGQuality}
}

// IsHEIC reports whether the file is a HEIC or HEIF image by content type or extension.
func IsHEIC(file File) bool {
	switch strings.ToLower(file.ContentType) {
	case "image/heic", "image/heif", "image/heic-sequence", "image/heif-sequence":
		return true
	}
	switch strings.ToLower(filepath.Ext(file.Name)) {
	case ".heic", ".heif":
		return true
	}
	return false
}

func (t *HEICTranscoder) Applies(file File) bool {
	return IsHEIC(file)
}

// Transcode decodes the HEIC image and re-encodes it as a JPEG named <base>.jpg.
func (t *HEICTranscoder) Transcode(file File) (out File, err error) {
	// The decoder panics on some malformed containers.
	defer func() {
		if r := recover(); r != nil {
			out, err = File{}, fmt.Errorf("decode heic %s: %v", file.Name, r)
		}
	}()

	img, err := goheif.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return File{}, fmt.Errorf("decode heic %s: %w", file.Name, err)
	}

	quality := t.Quality
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return File{}, fmt.Errorf("encode jpeg %s: %w", file.Name, err)
	}

	return File{
		Name:        strings.TrimSuffix(file.Name, filepath.Ext(file.Name)) + ".jpg",
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, nil
}
