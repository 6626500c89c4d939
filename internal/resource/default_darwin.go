//go:build darwin

package resource

import (
	"errors"
	"os"
)

// Default serves from the application bundle when the binary runs inside
// one, and from root otherwise.
func Default(root string) (Resolver, error) {
	exe, err := os.Executable()
	if err == nil {
		b, err := NewBundle(exe)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, ErrNotBundle) {
			return nil, err
		}
	}
	return fsResolver(root)
}
