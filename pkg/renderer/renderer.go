// Package renderer substitutes resolved secrets into a template and
// writes (or previews) the result.
//
// A single render invocation moves through scanning, resolving and
// substituting, then terminates either writing the output (apply) or
// reporting what would change (dry-run). Resolution failures never
// abort the pipeline: the affected placeholders stay literal in the
// output and are surfaced per token in the Result.
package renderer

import (
	"bytes"
	"context"
	"io/fs"
	"path/filepath"

	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/logging"
	"github.com/arthur-debert/opfill/pkg/scanner"
	"github.com/arthur-debert/opfill/pkg/types"
)

// Mode selects between writing the rendered output and previewing it.
type Mode string

const (
	// ModeApply writes the rendered text to the output path.
	ModeApply Mode = "apply"
	// ModeDryRun computes the same substitutions but never touches
	// the output path.
	ModeDryRun Mode = "dry-run"
)

// TokenStatus is the per-token outcome of a render.
type TokenStatus string

const (
	StatusResolved TokenStatus = "resolved"
	StatusMissing  TokenStatus = "missing"
	StatusSkipped  TokenStatus = "skipped"
)

// TokenResolver is the slice of the secret resolver the renderer
// needs.
type TokenResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// TokenReport records the outcome for one distinct token.
type TokenReport struct {
	Name   string
	Status TokenStatus
	// Err holds the coded resolution error for missing tokens.
	Err error
}

// Result is the outcome of one render invocation.
type Result struct {
	TemplatePath string
	OutputPath   string
	Format       scanner.Format
	Rendered     []byte
	Tokens       []TokenReport

	// WouldChange is true when the destination does not exist or its
	// content differs from the rendered text.
	WouldChange bool
	// RequiresConfirm is true when apply mode found an existing,
	// differing destination and Overwrite was not set. The caller
	// owns the diff/confirm interaction and re-renders with
	// Overwrite once the user agrees.
	RequiresConfirm bool
	// Existing holds the current destination content when it exists
	// and differs, for the caller's diff display.
	Existing []byte
	// Written is true when apply mode wrote the output file.
	Written bool
}

// Missing counts tokens that could not be resolved.
func (r *Result) Missing() int { return r.count(StatusMissing) }

// Resolved counts tokens that resolved successfully.
func (r *Result) Resolved() int { return r.count(StatusResolved) }

// Skipped counts tokens whose resolution was skipped.
func (r *Result) Skipped() int { return r.count(StatusSkipped) }

func (r *Result) count(status TokenStatus) int {
	n := 0
	for _, tok := range r.Tokens {
		if tok.Status == status {
			n++
		}
	}
	return n
}

// Options configures a single render.
type Options struct {
	FS           types.FS
	Resolver     TokenResolver
	TemplatePath string
	OutputPath   string
	Mode         Mode
	// SkipResolve scans and reports tokens without calling the
	// resolver. Used by validation without a credential check; every
	// token is reported as skipped.
	SkipResolve bool
	// Overwrite permits apply mode to replace an existing destination
	// whose content differs.
	Overwrite bool
}

// Render runs the scan/resolve/substitute pipeline for one template.
//
// The returned error is non-nil only for template read or output
// write failures; missing secrets are reported in Result.Tokens.
func Render(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("renderer")

	raw, err := opts.FS.ReadFile(opts.TemplatePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRead,
			"could not read template %s", opts.TemplatePath)
	}
	templateInfo, err := opts.FS.Stat(opts.TemplatePath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrTemplateRead,
			"could not stat template %s", opts.TemplatePath)
	}

	text := string(raw)
	format, tokens := scanner.Scan(text)
	logger.Debug().
		Str("template", opts.TemplatePath).
		Str("format", string(format)).
		Int("tokens", len(tokens)).
		Msg("Template scanned")

	result := &Result{
		TemplatePath: opts.TemplatePath,
		OutputPath:   opts.OutputPath,
		Format:       format,
	}

	values := make(map[string]string, len(tokens))
	for _, tok := range tokens {
		report := TokenReport{Name: tok.Name}
		switch {
		case opts.SkipResolve:
			report.Status = StatusSkipped
		default:
			value, err := opts.Resolver.Resolve(ctx, tok.Ref)
			if err != nil {
				report.Status = StatusMissing
				report.Err = err
			} else {
				report.Status = StatusResolved
				values[tok.Ref] = value
			}
		}
		result.Tokens = append(result.Tokens, report)
	}

	// A template with no recognized syntax copies through unchanged.
	rendered := scanner.Substitute(text, format, func(ref string) (string, bool) {
		v, ok := values[ref]
		return v, ok
	})
	result.Rendered = []byte(rendered)

	existing, existsErr := opts.FS.ReadFile(opts.OutputPath)
	exists := existsErr == nil
	if exists && bytes.Equal(existing, result.Rendered) {
		result.WouldChange = false
	} else {
		result.WouldChange = true
		if exists {
			result.Existing = existing
		}
	}

	if opts.Mode == ModeDryRun {
		return result, nil
	}

	if !result.WouldChange {
		logger.Debug().Str("output", opts.OutputPath).Msg("Destination already up to date")
		return result, nil
	}
	if exists && !opts.Overwrite {
		result.RequiresConfirm = true
		return result, nil
	}

	if err := write(opts.FS, opts.OutputPath, result.Rendered, templateInfo.Mode().Perm()); err != nil {
		return result, err
	}
	result.Written = true
	logger.Info().
		Str("template", opts.TemplatePath).
		Str("output", opts.OutputPath).
		Int("bytes", len(result.Rendered)).
		Msg("Rendered template written")
	return result, nil
}

// write creates parent directories as needed and writes data with the
// template's permission bits.
func write(filesystem types.FS, path string, data []byte, perm fs.FileMode) error {
	if err := filesystem.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrDirCreate,
			"could not create parent directory for %s", path)
	}
	if err := filesystem.WriteFile(path, data, perm); err != nil {
		return errors.Wrapf(err, errors.ErrWriteFailure,
			"could not write %s", path)
	}
	return nil
}
