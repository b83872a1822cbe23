package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/opfill/pkg/errors"
	gotoml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// TemplateEntry maps one template to its destination.
type TemplateEntry struct {
	// Source is the template path, relative to the dotfiles root
	// unless absolute.
	Source string `toml:"source" yaml:"source"`
	// Output is the destination path. A leading ~/ expands to the
	// home directory.
	Output string `toml:"output" yaml:"output"`
}

// Manifest lists the templates the inject-all driver processes.
type Manifest struct {
	Templates []TemplateEntry `toml:"templates" yaml:"templates"`
}

// manifestFile is the on-disk shape of the manifest. Settings share
// the file but are loaded separately through koanf.
type manifestFile struct {
	Templates []TemplateEntry `toml:"templates" yaml:"templates"`
}

// LoadManifest parses the manifest at path. TOML and YAML variants
// are supported, selected by file extension.
func LoadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "could not read manifest %s", path)
	}

	var mf manifestFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if err := gotoml.Unmarshal(raw, &mf); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid TOML manifest %s", path)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &mf); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "invalid YAML manifest %s", path)
		}
	default:
		return nil, errors.Newf(errors.ErrManifest, "unsupported manifest format: %s", path)
	}

	m := &Manifest{Templates: mf.Templates}
	if err := m.validate(path); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manifest) validate(path string) error {
	for i, entry := range m.Templates {
		if entry.Source == "" {
			return errors.Newf(errors.ErrManifest,
				"%s: templates[%d] has no source", path, i)
		}
		if entry.Output == "" {
			return errors.Newf(errors.ErrManifest,
				"%s: templates[%d] (%s) has no output", path, i, entry.Source)
		}
	}
	return nil
}
