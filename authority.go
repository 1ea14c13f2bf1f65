// FILE: lixenwraith/tomlcfg/authority.go
package tomlcfg

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultFileName is the override file looked up next to the root's build manifest
	DefaultFileName = "cfg.toml"
	// ManifestName is the build manifest that marks a unit's root directory
	ManifestName = "go.mod"
)

// Unit identifies a build unit: the namespace it declares and the directory of its build manifest.
// An empty ManifestDir means the location is unknown.
type Unit struct {
	Namespace   string
	ManifestDir string
}

// Closure carries the build-closure metadata supplied by the build orchestration.
// Root is the designated root unit; nil means root status could not be determined.
type Closure struct {
	Root *Unit
}

// Standalone returns a closure for a unit built on its own, which makes it its own root.
func Standalone() Closure { return Closure{} }

// UnderRoot returns a closure whose override authority is root.
func UnderRoot(root Unit) Closure { return Closure{Root: &root} }

// Eligibility is the authority decision for one compiling unit.
type Eligibility struct {
	// Eligible reports whether an override file may be consulted at all
	Eligible bool
	// IsRoot reports whether the compiling unit is itself acting as root
	IsRoot bool
	// Root is the unit whose override file applies
	Root Unit
	// OverridePath is the file to read when Eligible
	OverridePath string
}

// Authority decides which override file, if any, a compiling unit may read.
// Only the root's file is ever consulted.
type Authority struct {
	fileName string
}

// NewAuthority creates an Authority looking for fileName next to the root manifest.
// An empty fileName selects DefaultFileName.
func NewAuthority(fileName string) *Authority {
	if fileName == "" {
		fileName = DefaultFileName
	}
	return &Authority{fileName: fileName}
}

// FileName returns the override file name the authority looks for.
func (a *Authority) FileName() string { return a.fileName }

// Resolve returns the eligibility of current within closure.
// A unit without a known root is its own root. A dependency under a root never
// reads its own override file, only the root's.
func (a *Authority) Resolve(current Unit, closure Closure) Eligibility {
	root := current
	if closure.Root != nil {
		root = *closure.Root
	}

	e := Eligibility{
		Root:   root,
		IsRoot: closure.Root == nil || sameUnit(root, current),
	}

	if root.ManifestDir == "" {
		// Root location unknown: pure defaults
		return e
	}

	e.Eligible = true
	e.OverridePath = filepath.Join(root.ManifestDir, a.fileName)
	return e
}

// sameUnit compares units by manifest directory when both are known, else by namespace.
// Packages of one module share its manifest and so its root status.
func sameUnit(a, b Unit) bool {
	if a.ManifestDir != "" && b.ManifestDir != "" {
		return filepath.Clean(a.ManifestDir) == filepath.Clean(b.ManifestDir)
	}
	return a.ManifestDir == b.ManifestDir && a.Namespace == b.Namespace
}

// FindRoot walks up from dir to the nearest directory containing a go.mod.
func FindRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory '%s': %w", dir, err)
	}

	for current := abs; ; {
		info, err := os.Stat(filepath.Join(current, ManifestName))
		if err == nil && !info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			// We ran out of directories
			return "", fmt.Errorf("%w: no %s above '%s'", ErrRootNotFound, ManifestName, abs)
		}
		current = parent
	}
}
