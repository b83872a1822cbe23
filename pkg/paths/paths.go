// Package paths provides centralized path handling for opfill. It
// follows the XDG Base Directory specification for the config and
// state locations.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvDotfilesRoot is the primary environment variable for the
	// dotfiles location
	EnvDotfilesRoot = "DOTFILES_ROOT"
)

// Well-known file names. These are not user-configurable; they keep
// manifest discovery consistent across installations.
const (
	// AppDirName is the directory name for opfill-specific files
	AppDirName = "opfill"

	// ConfigFileName is the name of the settings file in the XDG
	// config directory
	ConfigFileName = "opfill.toml"
)

// ManifestNames lists the manifest file names probed in the dotfiles
// root, in precedence order.
var ManifestNames = []string{".opfill.toml", "opfill.toml", ".opfill.yaml", "opfill.yaml"}

// Paths provides centralized path management for opfill
type Paths struct {
	dotfilesRoot string
	usedFallback bool
}

// New creates a Paths instance. An explicit root wins over the
// DOTFILES_ROOT environment variable; when neither is set the
// conventional ~/dotfiles location is used and UsedFallback reports
// true.
func New(root string) *Paths {
	if root != "" {
		return &Paths{dotfilesRoot: root}
	}
	if env := os.Getenv(EnvDotfilesRoot); env != "" {
		return &Paths{dotfilesRoot: env}
	}
	return &Paths{
		dotfilesRoot: filepath.Join(xdg.Home, "dotfiles"),
		usedFallback: true,
	}
}

// DotfilesRoot returns the root directory for dotfiles templates.
func (p *Paths) DotfilesRoot() string { return p.dotfilesRoot }

// UsedFallback reports whether the root came from the ~/dotfiles
// fallback rather than an explicit setting.
func (p *Paths) UsedFallback() bool { return p.usedFallback }

// ConfigFilePath returns the XDG path of the settings file.
func (p *Paths) ConfigFilePath() string {
	return filepath.Join(xdg.ConfigHome, AppDirName, ConfigFileName)
}

// ManifestPath returns the first manifest file present in the
// dotfiles root, or "" when none exists.
func (p *Paths) ManifestPath() string {
	for _, name := range ManifestNames {
		candidate := filepath.Join(p.dotfilesRoot, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// StateDir returns the XDG state directory for opfill.
func (p *Paths) StateDir() string {
	return filepath.Join(xdg.StateHome, AppDirName)
}
