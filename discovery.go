// FILE: lixenwraith/tomlcfg/discovery.go
package tomlcfg

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// DefaultRootEnvVar names the environment variable holding an explicit root directory
const DefaultRootEnvVar = "TOMLCFG_ROOT"

// DiscoveryOptions configures how the build closure of a generate run is determined
type DiscoveryOptions struct {
	// RootDir is an explicit root manifest directory (highest priority)
	RootDir string

	// EnvVar is checked for a root directory when RootDir is empty
	EnvVar string

	// WorkDir is where the build was started; the root is the nearest go.mod above it
	WorkDir string
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions() DiscoveryOptions {
	return DiscoveryOptions{EnvVar: DefaultRootEnvVar}
}

// DiscoverClosure determines the root unit from options, environment and working directory.
// The root's namespace is the last element of its module path.
func DiscoverClosure(opts DiscoveryOptions) (Closure, error) {
	dir := opts.RootDir

	// Check environment variable
	if dir == "" && opts.EnvVar != "" {
		dir = os.Getenv(opts.EnvVar)
	}

	// Walk up from the working directory
	if dir == "" {
		start := opts.WorkDir
		if start == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return Closure{}, fmt.Errorf("failed to get working directory: %w", err)
			}
			start = cwd
		}
		found, err := FindRoot(start)
		if err != nil {
			return Closure{}, err
		}
		dir = found
	}

	root, err := DiscoverUnit(dir)
	if err != nil {
		return Closure{}, err
	}
	return UnderRoot(root), nil
}

// DiscoverUnit identifies the unit owning the package in dir: the nearest go.mod
// above it, named after the last element of the module path.
func DiscoverUnit(dir string) (Unit, error) {
	manifestDir, err := FindRoot(dir)
	if err != nil {
		return Unit{}, err
	}

	modPath, err := ModulePath(manifestDir)
	if err != nil {
		return Unit{}, err
	}

	return Unit{Namespace: namespaceFromModule(modPath), ManifestDir: manifestDir}, nil
}

// ModulePath reads the module path declared by the go.mod in dir.
func ModulePath(dir string) (string, error) {
	file := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("failed to read manifest '%s': %w", file, err)
	}

	modPath := modfile.ModulePath(data)
	if modPath == "" {
		return "", fmt.Errorf("manifest '%s' declares no module path", file)
	}
	return modPath, nil
}

// namespaceFromModule derives a bare-key namespace from a module path,
// dropping a major version suffix ("example.com/lib-one/v2" -> "lib-one")
func namespaceFromModule(modPath string) string {
	base := path.Base(modPath)
	if len(base) > 1 && base[0] == 'v' && strings.Trim(base[1:], "0123456789") == "" {
		base = path.Base(path.Dir(modPath))
	}

	var b strings.Builder
	for _, r := range base {
		if isValidKeySegment(string(r)) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
