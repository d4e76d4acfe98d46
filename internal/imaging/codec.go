// Package imaging converts staged image files to and from the base64 form
// the remote generation API exchanges.
package imaging

import (
	"encoding/base64"
	"fmt"
	"os"
)

// EncodeFile reads the file at path fully into memory and returns its base64
// encoding. A missing or unreadable file is an error for the caller to
// surface, never an empty result.
func EncodeFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("imaging: read image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// Decode converts a base64 payload back into raw bytes. The bytes are trusted
// as-is; no image structure validation happens here.
func Decode(encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("imaging: decode base64: %w", err)
	}
	return data, nil
}
