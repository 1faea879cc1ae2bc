// Package blob implements the photo stores: a directory on local disk and a
// Google Cloud Storage bucket.
package blob

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrInvalidKey is returned for keys that are empty or escape the store root.
var ErrInvalidKey = errors.New("invalid blob key")

// cleanKey normalizes key to a slash-separated relative object name.
func cleanKey(key string) (string, error) {
	k := strings.TrimSpace(strings.ReplaceAll(key, "\\", "/"))
	k = strings.TrimLeft(path.Clean("/"+k), "/")
	if k == "" || k == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return k, nil
}
