// Package scanner detects the placeholder syntax of a template and
// extracts the tokens written in it.
//
// A template is processed under exactly one format. Detection is
// first-match-wins over a fixed priority order: the more delimited
// syntaxes are tested first because the formats textually overlap
// (`${X}` contains `$X`, `{{ op://... }}` contains `{{...}}`).
package scanner

import (
	"regexp"
)

// Format identifies the placeholder syntax detected for a template.
type Format string

const (
	// FormatOpPath matches 1Password secret references: {{ op://Vault/ITEM/field }}
	FormatOpPath Format = "op-path"
	// FormatDoubleBrace matches {{NAME}}
	FormatDoubleBrace Format = "double-brace"
	// FormatBraceEnv matches ${NAME}
	FormatBraceEnv Format = "brace-env"
	// FormatCustomMarker matches %%NAME%%
	FormatCustomMarker Format = "custom-marker"
	// FormatSimpleEnv matches $NAME at word boundaries
	FormatSimpleEnv Format = "simple-env"
	// FormatNone is the sentinel for templates with no recognizable
	// token syntax. Not an error: such files are copied through
	// unchanged.
	FormatNone Format = "none"
)

// Token is a single placeholder found in a template.
type Token struct {
	// Name is the identifier used for reporting and deduplication.
	Name string
	// Ref is what gets handed to the secret resolver. It equals Name
	// for the identifier formats; for op-path tokens it is the full
	// op:// reference.
	Ref string
}

const ident = `[A-Za-z_][A-Za-z0-9_]*`

var formatPatterns = map[Format]*regexp.Regexp{
	FormatOpPath:       regexp.MustCompile(`\{\{\s*(op://[^\s{}]+)\s*\}\}`),
	FormatDoubleBrace:  regexp.MustCompile(`\{\{\s*(` + ident + `)\s*\}\}`),
	FormatBraceEnv:     regexp.MustCompile(`\$\{(` + ident + `)\}`),
	FormatCustomMarker: regexp.MustCompile(`%%(` + ident + `)%%`),
	FormatSimpleEnv:    regexp.MustCompile(`\$(` + ident + `)\b`),
}

// detectionOrder is significant: formats are tested most-specific
// first so overlapping syntaxes do not misclassify the file.
var detectionOrder = []Format{
	FormatOpPath,
	FormatDoubleBrace,
	FormatBraceEnv,
	FormatCustomMarker,
	FormatSimpleEnv,
}

// DetectFormat returns the placeholder format of text, or FormatNone
// when no recognized syntax is present.
func DetectFormat(text string) Format {
	for _, f := range detectionOrder {
		if formatPatterns[f].MatchString(text) {
			return f
		}
	}
	return FormatNone
}

// Scan detects the format of text and returns the distinct tokens
// present under that format, ordered by first appearance.
func Scan(text string) (Format, []Token) {
	format := DetectFormat(text)
	if format == FormatNone {
		return FormatNone, nil
	}
	return format, Tokens(text, format)
}

// Tokens extracts the distinct tokens of text under the given format,
// ordered by first appearance.
func Tokens(text string, format Format) []Token {
	pattern, ok := formatPatterns[format]
	if !ok {
		return nil
	}

	var tokens []Token
	seen := make(map[string]bool)
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		name := m[1]
		if seen[name] {
			continue
		}
		seen[name] = true
		tokens = append(tokens, Token{Name: name, Ref: name})
	}
	return tokens
}

// Substitute replaces every placeholder of the given format in text
// for which lookup returns a value. Placeholders whose lookup misses
// are left as literal placeholder text, so missing secrets are
// visible in the rendered output rather than silently blanked.
//
// The whole delimiter is replaced, spacing variants included
// ({{NAME}} and {{ NAME }} both substitute).
func Substitute(text string, format Format, lookup func(ref string) (string, bool)) string {
	pattern, ok := formatPatterns[format]
	if !ok {
		return text
	}

	return pattern.ReplaceAllStringFunc(text, func(placeholder string) string {
		ref := pattern.FindStringSubmatch(placeholder)[1]
		if value, ok := lookup(ref); ok {
			return value
		}
		return placeholder
	})
}
