package services

import (
	"encoding/base64"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gplanner/gplan/internal/core/domain"
)

// SniffMedia returns the MIME type of a file, trusting the extension
// first and the content second.
func SniffMedia(name string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); t != "" {
		if base, _, err := mime.ParseMediaType(t); err == nil {
			return base
		}
		return t
	}
	t := http.DetectContentType(data)
	if base, _, err := mime.ParseMediaType(t); err == nil {
		return base
	}
	return t
}

// MediaKind maps a MIME type to a card kind. ok is false for anything
// that is not image, video or audio.
func MediaKind(mimeType string) (domain.NodeKind, bool) {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return domain.NodeImage, true
	case strings.HasPrefix(mimeType, "video/"):
		return domain.NodeVideo, true
	case strings.HasPrefix(mimeType, "audio/"):
		return domain.NodeAudio, true
	default:
		return "", false
	}
}

// DataURI embeds data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
