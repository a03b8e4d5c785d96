package generate

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// IsDataURL reports whether an image reference is inline rather than a link.
func IsDataURL(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), "data:")
}

// ParseDataURL decodes a base64 data URL into its MIME type and bytes.
func ParseDataURL(value string) (mimeType string, data []byte, err error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil, errors.New("empty data url")
	}

	const prefix = "data:"
	if !strings.HasPrefix(value, prefix) {
		return "", nil, errors.New("not a data url")
	}

	parts := strings.SplitN(value, ",", 2)
	if len(parts) != 2 {
		return "", nil, errors.New("invalid data url")
	}

	meta := strings.TrimPrefix(parts[0], prefix)
	metaParts := strings.Split(meta, ";")
	mimeType = strings.TrimSpace(metaParts[0])
	if mimeType == "" {
		mimeType = "text/plain"
	}

	isBase64 := false
	for _, p := range metaParts[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		return "", nil, errors.New("data url is not base64 encoded")
	}

	data, err = base64.StdEncoding.DecodeString(parts[1])
	if err != nil {
		return "", nil, fmt.Errorf("decode base64: %w", err)
	}
	return mimeType, data, nil
}
