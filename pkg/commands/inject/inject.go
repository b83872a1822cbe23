// Package inject implements the single-template injection command.
package inject

import (
	"context"
	"strings"

	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/logging"
	"github.com/arthur-debert/opfill/pkg/renderer"
	"github.com/arthur-debert/opfill/pkg/types"
)

// templateSuffixes are stripped to derive a default output path.
var templateSuffixes = []string{".tmpl", ".template", ".opfill"}

// Options defines the options for the Inject command.
type Options struct {
	FS       types.FS
	Resolver renderer.TokenResolver
	// TemplatePath is the template to render.
	TemplatePath string
	// OutputPath is the destination. When empty it is derived by
	// stripping a template suffix from TemplatePath.
	OutputPath string
	DryRun     bool
	// Overwrite permits replacing an existing, differing destination.
	Overwrite bool
}

// Result is the outcome of an Inject run.
type Result struct {
	Render *renderer.Result
}

// Failed reports whether the run should produce a non-zero exit code.
func (r *Result) Failed() bool {
	return r.Render.Missing() > 0
}

// Inject renders a single template.
func Inject(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.inject")
	log.Debug().Str("template", opts.TemplatePath).Msg("Executing command")

	outputPath := opts.OutputPath
	if outputPath == "" {
		derived, ok := deriveOutputPath(opts.TemplatePath)
		if !ok {
			return nil, errors.Newf(errors.ErrUsage,
				"cannot derive output path from %s; pass --output", opts.TemplatePath)
		}
		outputPath = derived
	}

	mode := renderer.ModeApply
	if opts.DryRun {
		mode = renderer.ModeDryRun
	}

	res, err := renderer.Render(ctx, renderer.Options{
		FS:           opts.FS,
		Resolver:     opts.Resolver,
		TemplatePath: opts.TemplatePath,
		OutputPath:   outputPath,
		Mode:         mode,
		Overwrite:    opts.Overwrite,
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("template", opts.TemplatePath).
		Str("output", outputPath).
		Int("resolved", res.Resolved()).
		Int("missing", res.Missing()).
		Bool("written", res.Written).
		Msg("Command finished")
	return &Result{Render: res}, nil
}

// deriveOutputPath strips a known template suffix. It refuses to
// guess when the template has no recognizable suffix, since rendering
// a file onto itself must never happen.
func deriveOutputPath(templatePath string) (string, bool) {
	for _, suffix := range templateSuffixes {
		if strings.HasSuffix(templatePath, suffix) && len(templatePath) > len(suffix) {
			return strings.TrimSuffix(templatePath, suffix), true
		}
	}
	return "", false
}
