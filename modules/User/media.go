package User

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidImage = errors.New("profile_pic must be an http(s) URL or a base64 data URI")

const maxImageBytes = 5 << 20

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/jpg":  "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// saveDataURI decodes data:image/<type>;base64,<payload> into root/dir and
// returns the public URL of the written file.
func saveDataURI(root, baseURL, dir, uri string) (string, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return "", ErrInvalidImage
	}
	mime, encoding, _ := strings.Cut(header, ";")
	if encoding != "base64" {
		return "", ErrInvalidImage
	}
	ext, ok := imageExtensions[strings.ToLower(mime)]
	if !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", ErrInvalidImage, mime)
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if len(data) == 0 || len(data) > maxImageBytes {
		return "", fmt.Errorf("%w: image must be between 1 byte and 5MB", ErrInvalidImage)
	}

	target := filepath.Join(root, dir)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}

	name := uuid.NewString() + "." + ext
	if err := os.WriteFile(filepath.Join(target, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return baseURL + "/" + dir + "/" + name, nil
}
