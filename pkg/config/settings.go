// Package config loads opfill settings and the template manifest.
//
// Settings are layered: built-in defaults, then the XDG config file,
// then the dotfiles-root manifest file, then OPFILL_* environment
// variables. The engine packages never read the environment
// themselves; everything reaches them as explicit struct fields.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/logging"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Settings holds the tunables of the injection pipeline.
type Settings struct {
	// TTLSeconds is how long resolved secrets stay fresh in the
	// per-process cache.
	TTLSeconds int `koanf:"ttl" toml:"ttl"`
	// Account selects the credential-store account to query.
	Account string `koanf:"account" toml:"account,omitempty"`
	// Vault is the default vault for bare token names.
	Vault string `koanf:"vault" toml:"vault"`
	// Field is the default item field for bare token names.
	Field string `koanf:"field" toml:"field"`
	// TimeoutSeconds bounds a single credential-store call.
	TimeoutSeconds int `koanf:"timeout" toml:"timeout"`
	// DryRun previews by default when true.
	DryRun bool `koanf:"dry_run" toml:"dry_run"`
}

// TTL returns the cache TTL as a duration.
func (s Settings) TTL() time.Duration { return time.Duration(s.TTLSeconds) * time.Second }

// Timeout returns the external-call bound as a duration.
func (s Settings) Timeout() time.Duration { return time.Duration(s.TimeoutSeconds) * time.Second }

var defaults = map[string]interface{}{
	"settings.ttl":     300,
	"settings.vault":   "Personal",
	"settings.field":   "password",
	"settings.timeout": 10,
	"settings.dry_run": false,
}

// Load builds Settings from defaults, the XDG config file, the
// dotfiles-root manifest file and OPFILL_* environment variables, in
// that order. Missing files are skipped silently.
func Load(configFile, manifestFile string) (Settings, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	for _, path := range []string{configFile, manifestFile} {
		if path == "" || !strings.HasSuffix(path, ".toml") {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return Settings{}, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// OPFILL_VAULT=Work maps to settings.vault, and so on.
	if err := k.Load(env.Provider("OPFILL_", ".", func(key string) string {
		return "settings." + strings.ToLower(strings.TrimPrefix(key, "OPFILL_"))
	}), nil); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment")
	}

	var s Settings
	if err := k.Unmarshal("settings", &s); err != nil {
		return Settings{}, errors.Wrap(err, errors.ErrConfigParse, "invalid settings")
	}
	return s, nil
}
