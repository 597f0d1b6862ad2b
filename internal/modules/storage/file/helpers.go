package file

import (
	"errors"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidPath     = errors.New("invalid object path")
	ErrTooLarge        = errors.New("file exceeds the upload size limit")
	ErrUnsupportedType = errors.New("file type is not allowed")
)

const defaultFolder = "general"

var folderUnsafe = regexp.MustCompile(`[^a-z0-9-]+`)

// allowedExtensions lists the uploadable media and document types.
var allowedExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".svg": {}, ".avif": {},
	".mp4": {}, ".webm": {}, ".mov": {},
	".mp3": {}, ".wav": {}, ".ogg": {}, ".m4a": {},
	".pdf": {}, ".doc": {}, ".docx": {}, ".txt": {}, ".md": {},
}

// normalizeFolder reduces folder to a single safe path segment, defaulting to "general".
func normalizeFolder(folder string) string {
	folder = strings.Trim(folderUnsafe.ReplaceAllString(strings.ToLower(strings.TrimSpace(folder)), "-"), "-")
	if folder == "" {
		return defaultFolder
	}
	return folder
}

// buildObjectKey generates a collision-resistant key that preserves the original extension.
func buildObjectKey(folder, original string, now time.Time) (string, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if _, ok := allowedExtensions[ext]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, ext)
	}
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("%s/%s/%s/%s%s", normalizeFolder(folder), now.Format("2006"), now.Format("01"), name, ext), nil
}

// cleanKey validates a client-supplied object path.
func cleanKey(key string) (string, error) {
	key = strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(key), "\\", "/"), "/")
	if key == "" || strings.Contains(key, "..") {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean(key)
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

// contentTypeFor falls back to the extension when the client sent no usable type.
func contentTypeFor(name, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return "application/octet-stream"
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}
