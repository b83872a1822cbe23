// Package validate implements the template validation command.
package validate

import (
	"context"

	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/logging"
	"github.com/arthur-debert/opfill/pkg/renderer"
	"github.com/arthur-debert/opfill/pkg/scanner"
	"github.com/arthur-debert/opfill/pkg/types"
)

// Options defines the options for the Validate command.
type Options struct {
	FS           types.FS
	TemplatePath string
	// Resolver is required when Check is set.
	Resolver renderer.TokenResolver
	// Check resolves every token against the credential store and
	// reports which are missing. Without it, tokens are only listed.
	Check bool
}

// TokenInfo is the validation outcome for one token.
type TokenInfo struct {
	Name   string
	Status renderer.TokenStatus
	Err    error
}

// Result is the outcome of a Validate run.
type Result struct {
	TemplatePath string
	Format       scanner.Format
	Tokens       []TokenInfo
	// MixedFormat names a second placeholder syntax present in the
	// file. First-match-wins processing would leave those tokens
	// literal, which is usually a template bug worth flagging.
	MixedFormat scanner.Format
}

// Missing counts tokens that failed the credential check.
func (r *Result) Missing() int {
	n := 0
	for _, tok := range r.Tokens {
		if tok.Status == renderer.StatusMissing {
			n++
		}
	}
	return n
}

// Validate scans a template, optionally checking each token against
// the credential store.
func Validate(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.validate")
	log.Debug().Str("template", opts.TemplatePath).Bool("check", opts.Check).Msg("Executing command")

	raw, err := opts.FS.ReadFile(opts.TemplatePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRead,
			"could not read template %s", opts.TemplatePath)
	}
	text := string(raw)

	format, tokens := scanner.Scan(text)
	result := &Result{
		TemplatePath: opts.TemplatePath,
		Format:       format,
		MixedFormat:  detectMixedFormat(text, format),
	}

	for _, tok := range tokens {
		info := TokenInfo{Name: tok.Name, Status: renderer.StatusSkipped}
		if opts.Check {
			if _, err := opts.Resolver.Resolve(ctx, tok.Ref); err != nil {
				info.Status = renderer.StatusMissing
				info.Err = err
			} else {
				info.Status = renderer.StatusResolved
			}
		}
		result.Tokens = append(result.Tokens, info)
	}

	log.Info().
		Str("format", string(format)).
		Int("tokens", len(result.Tokens)).
		Int("missing", result.Missing()).
		Msg("Command finished")
	return result, nil
}

// detectMixedFormat strips the detected format's placeholders and
// re-detects. Anything left is a second syntax that rendering will
// not touch.
func detectMixedFormat(text string, format scanner.Format) scanner.Format {
	if format == scanner.FormatNone {
		return scanner.FormatNone
	}
	stripped := scanner.Substitute(text, format, func(string) (string, bool) {
		return "", true
	})
	return scanner.DetectFormat(stripped)
}
