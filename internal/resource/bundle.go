package resource

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"howett.net/plist"
)

// ErrNotBundle means the executable is not running from an application bundle.
var ErrNotBundle = errors.New("executable is not inside an application bundle")

// BundleInfo is the subset of Info.plist the resolver reads.
type BundleInfo struct {
	Identifier string `plist:"CFBundleIdentifier"`
	Executable string `plist:"CFBundleExecutable"`
	Name       string `plist:"CFBundleName"`
}

// Bundle resolves paths under an application bundle's resource directory.
type Bundle struct {
	*FS
	Info BundleInfo
}

func (b *Bundle) Kind() string { return "bundle" }

// NewBundle locates the resource root for the bundle containing exe.
//
//	macOS: Foo.app/Contents/MacOS/foo -> Foo.app/Contents/Resources
//	iOS:   Foo.app/foo                -> Foo.app
func NewBundle(exe string) (*Bundle, error) {
	dir := filepath.Dir(exe)
	var plistPath, resources string
	switch {
	case filepath.Base(dir) == "MacOS" && filepath.Base(filepath.Dir(dir)) == "Contents":
		contents := filepath.Dir(dir)
		plistPath = filepath.Join(contents, "Info.plist")
		resources = filepath.Join(contents, "Resources")
	case strings.HasSuffix(dir, ".app"):
		plistPath = filepath.Join(dir, "Info.plist")
		resources = dir
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotBundle, exe)
	}

	info, err := readBundleInfo(plistPath)
	if err != nil {
		return nil, err
	}
	if info.Executable != "" && info.Executable != filepath.Base(exe) {
		return nil, fmt.Errorf("%w: Info.plist names executable %q", ErrNotBundle, info.Executable)
	}

	fs, err := NewFS(resources)
	if err != nil {
		return nil, err
	}
	return &Bundle{FS: fs, Info: info}, nil
}

func readBundleInfo(path string) (BundleInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return BundleInfo{}, fmt.Errorf("%w: %v", ErrNotBundle, err)
	}
	var info BundleInfo
	if _, err := plist.Unmarshal(raw, &info); err != nil {
		return BundleInfo{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return info, nil
}
