// Package mime maps resource paths served over the virtual scheme to a
// Content-Type. The table is fixed; anything outside it is refused rather than
// guessed.
package mime

import (
	"errors"
	"fmt"
	"path"
	"sort"
)

// ErrUnsupported is returned for extensions outside the table.
var ErrUnsupported = errors.New("unsupported resource type")

var table = map[string]string{
	".html": "text/html",
	".js":   "text/javascript",
	".png":  "image/png",
}

// Lookup returns the MIME type for p by extension. Matching is a
// case-sensitive suffix match.
func Lookup(p string) (string, error) {
	ext := path.Ext(p)
	if t, ok := table[ext]; ok {
		return t, nil
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupported, p)
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupported, ext)
}

// Extensions lists the supported extensions in sorted order.
func Extensions() []string {
	exts := make([]string, 0, len(table))
	for ext := range table {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
