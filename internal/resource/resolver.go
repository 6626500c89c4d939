// Package resource resolves virtual-scheme paths to files on disk.
package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrNotFound    = errors.New("resource not found")
	ErrOutsideRoot = errors.New("resource escapes allowed root")
	// ErrUnsupported is returned by resolvers without local file access.
	ErrUnsupported = errors.New("local resource resolution unsupported")
)

// Resolver turns a scheme-relative path into a concrete readable path.
// Callers check Local before resolving; a resolver that reports false serves
// nothing from disk.
type Resolver interface {
	Resolve(p string) (string, error)
	Local() bool
	Kind() string
}

// FS resolves paths under a canonical root directory.
type FS struct {
	root string
}

// NewFS canonicalises root (the working directory when empty) and returns a
// resolver confined to it.
func NewFS(root string) (*FS, error) {
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("working directory: %w", err)
		}
		root = wd
	}
	canon, err := canonicalize(root)
	if err != nil {
		return nil, fmt.Errorf("resource root %s: %w", root, err)
	}
	return &FS{root: canon}, nil
}

func (f *FS) Root() string { return f.root }

func (f *FS) Local() bool { return true }

func (f *FS) Kind() string { return "fs" }

// Resolve joins p under the root and resolves ".." and symlinks. The result
// must exist and stay inside the root.
func (f *FS) Resolve(p string) (string, error) {
	joined := filepath.Join(f.root, filepath.FromSlash(p))
	resolved, err := canonicalize(joined)
	if err != nil {
		return "", err
	}
	if !within(f.root, resolved) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
	}
	return resolved, nil
}

// Restricted is used on targets where the scheme never reads local files.
type Restricted struct{}

func (Restricted) Local() bool { return false }

func (Restricted) Kind() string { return "restricted" }

func (Restricted) Resolve(p string) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrUnsupported, p)
}

// ForProfile builds the resolver named by a config profile. "auto" defers to
// the build target's default.
func ForProfile(profile, root string) (Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(profile)) {
	case "", "auto":
		return Default(root)
	case "fs":
		return fsResolver(root)
	case "bundle":
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate executable: %w", err)
		}
		b, err := NewBundle(exe)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "restricted":
		return Restricted{}, nil
	}
	return nil, fmt.Errorf("unknown resource profile %q", profile)
}

func fsResolver(root string) (Resolver, error) {
	f, err := NewFS(root)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func canonicalize(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return "", err
	}
	return resolved, nil
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
