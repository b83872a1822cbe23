package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/opfill/pkg/config"
	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	s, err := config.Load("", "")
	require.NoError(t, err)

	assert.Equal(t, 300, s.TTLSeconds)
	assert.Equal(t, 300*time.Second, s.TTL())
	assert.Equal(t, "Personal", s.Vault)
	assert.Equal(t, "password", s.Field)
	assert.Equal(t, 10*time.Second, s.Timeout())
	assert.False(t, s.DryRun)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "opfill.toml", `
[settings]
vault = "Work"
ttl = 60
`)

	s, err := config.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Work", s.Vault)
	assert.Equal(t, 60, s.TTLSeconds)
	// Unset keys keep their defaults
	assert.Equal(t, "password", s.Field)
}

func TestManifestFileOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "opfill.toml", "[settings]\nvault = \"Work\"\n")
	manifest := writeFile(t, dir, ".opfill.toml", "[settings]\nvault = \"Dotfiles\"\n")

	s, err := config.Load(cfg, manifest)
	require.NoError(t, err)
	assert.Equal(t, "Dotfiles", s.Vault)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "opfill.toml", "[settings]\nvault = \"Work\"\n")

	t.Setenv("OPFILL_VAULT", "FromEnv")
	t.Setenv("OPFILL_TTL", "42")

	s, err := config.Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", s.Vault)
	assert.Equal(t, 42, s.TTLSeconds)
}

func TestMissingFilesAreSkipped(t *testing.T) {
	s, err := config.Load("/does/not/exist.toml", "/also/missing.toml")
	require.NoError(t, err)
	assert.Equal(t, "Personal", s.Vault)
}

func TestLoadManifestTOML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".opfill.toml", `
[settings]
vault = "Work"

[[templates]]
source = "git/gitconfig.tmpl"
output = "~/.gitconfig"

[[templates]]
source = "ssh/config.tmpl"
output = "~/.ssh/config"
`)

	m, err := config.LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Templates, 2)
	assert.Equal(t, "git/gitconfig.tmpl", m.Templates[0].Source)
	assert.Equal(t, "~/.ssh/config", m.Templates[1].Output)
}

func TestLoadManifestYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".opfill.yaml", `
templates:
  - source: git/gitconfig.tmpl
    output: ~/.gitconfig
`)

	m, err := config.LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Templates, 1)
	assert.Equal(t, "~/.gitconfig", m.Templates[0].Output)
}

func TestLoadManifestValidation(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, ".opfill.toml", `
[[templates]]
source = "git/gitconfig.tmpl"
`)

	_, err := config.LoadManifest(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifest))
}

func TestLoadManifestUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "manifest.json", `{}`)

	_, err := config.LoadManifest(path)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifest))
}

func TestGenerateDefault(t *testing.T) {
	out, err := config.GenerateDefault()
	require.NoError(t, err)

	assert.Contains(t, out, "[settings]")
	assert.Contains(t, out, "Personal")
	assert.Contains(t, out, "[[templates]]")

	// The generated manifest must parse back.
	dir := t.TempDir()
	path := filepath.Join(dir, ".opfill.toml")
	require.NoError(t, os.WriteFile(path, []byte(out), 0644))

	m, err := config.LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, m.Templates, 1)
}
