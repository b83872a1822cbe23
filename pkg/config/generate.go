package config

import (
	"strings"

	gotoml "github.com/pelletier/go-toml/v2"
)

// starterHeader introduces the generated manifest. go-toml cannot emit
// comments, so the header is prepended by hand.
const starterHeader = `# opfill manifest
# Place this file in your dotfiles root as .opfill.toml.
# Tokens in each source template are filled from your credential store.

`

// GenerateDefault returns a starter manifest with the default
// settings written out and one example template entry.
func GenerateDefault() (string, error) {
	doc := struct {
		Settings  Settings        `toml:"settings"`
		Templates []TemplateEntry `toml:"templates"`
	}{
		Settings: Settings{
			TTLSeconds:     300,
			Vault:          "Personal",
			Field:          "password",
			TimeoutSeconds: 10,
		},
		Templates: []TemplateEntry{
			{Source: "git/gitconfig.tmpl", Output: "~/.gitconfig"},
		},
	}

	body, err := gotoml.Marshal(doc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(starterHeader)
	b.Write(body)
	return b.String(), nil
}
