// Package injectall implements the manifest-driven batch injection
// command.
//
// Templates are processed sequentially, file by file, so reporting
// stays deterministic and credential-store calls never race on the
// same authentication session. The shared token set is warmed ahead
// of rendering so tokens used by several files cost one external call.
package injectall

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/opfill/pkg/config"
	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/logging"
	"github.com/arthur-debert/opfill/pkg/renderer"
	"github.com/arthur-debert/opfill/pkg/scanner"
	"github.com/arthur-debert/opfill/pkg/types"
)

// BatchResolver is the resolver surface the batch driver needs: token
// resolution plus eager warming.
type BatchResolver interface {
	renderer.TokenResolver
	Warm(ctx context.Context, refs []string) map[string]error
}

// ConfirmFunc decides whether an existing, differing destination may
// be overwritten. The render result carries the old and new content
// for a diff display.
type ConfirmFunc func(res *renderer.Result) (bool, error)

// Options defines the options for the InjectAll command.
type Options struct {
	FS           types.FS
	Resolver     BatchResolver
	DotfilesRoot string
	Manifest     *config.Manifest
	DryRun       bool
	// Force overwrites differing destinations without confirmation.
	Force bool
	// Confirm is consulted for each differing destination when Force
	// is unset. A nil Confirm leaves such files untouched.
	Confirm ConfirmFunc
}

// FileResult is the outcome for one manifest entry.
type FileResult struct {
	Entry  config.TemplateEntry
	Render *renderer.Result
	// Err is set for read or write failures; the batch continues
	// past them.
	Err error
	// Declined is true when the user refused the overwrite.
	Declined bool
}

// Result is the outcome of an InjectAll run.
type Result struct {
	Files  []FileResult
	DryRun bool
}

// Counts aggregates per-token statuses across all files.
func (r *Result) Counts() (resolved, missing, skipped int) {
	for _, f := range r.Files {
		if f.Render == nil {
			continue
		}
		resolved += f.Render.Resolved()
		missing += f.Render.Missing()
		skipped += f.Render.Skipped()
	}
	return
}

// Failed reports whether any missing secret or file failure occurred.
func (r *Result) Failed() bool {
	for _, f := range r.Files {
		if f.Err != nil {
			return true
		}
		if f.Render != nil && f.Render.Missing() > 0 {
			return true
		}
	}
	return false
}

// InjectAll renders every manifest entry sequentially.
func InjectAll(ctx context.Context, opts Options) (*Result, error) {
	log := logging.GetLogger("commands.injectall")

	if opts.Manifest == nil || len(opts.Manifest.Templates) == 0 {
		return nil, errors.New(errors.ErrManifest, "manifest has no template entries")
	}

	log.Debug().
		Int("templates", len(opts.Manifest.Templates)).
		Bool("dryRun", opts.DryRun).
		Msg("Executing command")

	warmShared(ctx, opts)

	result := &Result{DryRun: opts.DryRun}
	for _, entry := range opts.Manifest.Templates {
		result.Files = append(result.Files, renderEntry(ctx, opts, entry))
	}

	resolved, missing, _ := result.Counts()
	log.Info().
		Int("files", len(result.Files)).
		Int("resolved", resolved).
		Int("missing", missing).
		Msg("Command finished")
	return result, nil
}

// warmShared pre-scans all templates and resolves the union of their
// tokens once, ahead of per-file rendering. Scan failures here are
// ignored; the per-file render reports them properly.
func warmShared(ctx context.Context, opts Options) {
	var refs []string
	seen := make(map[string]bool)
	for _, entry := range opts.Manifest.Templates {
		raw, err := opts.FS.ReadFile(templatePath(opts.DotfilesRoot, entry))
		if err != nil {
			continue
		}
		_, tokens := scanner.Scan(string(raw))
		for _, tok := range tokens {
			if !seen[tok.Ref] {
				seen[tok.Ref] = true
				refs = append(refs, tok.Ref)
			}
		}
	}
	if len(refs) > 0 {
		opts.Resolver.Warm(ctx, refs)
	}
}

func renderEntry(ctx context.Context, opts Options, entry config.TemplateEntry) FileResult {
	mode := renderer.ModeApply
	if opts.DryRun {
		mode = renderer.ModeDryRun
	}

	renderOpts := renderer.Options{
		FS:           opts.FS,
		Resolver:     opts.Resolver,
		TemplatePath: templatePath(opts.DotfilesRoot, entry),
		OutputPath:   ExpandHome(entry.Output),
		Mode:         mode,
		Overwrite:    opts.Force,
	}

	res, err := renderer.Render(ctx, renderOpts)
	if err != nil {
		return FileResult{Entry: entry, Render: res, Err: err}
	}

	if res.RequiresConfirm {
		if opts.Confirm == nil {
			return FileResult{Entry: entry, Render: res, Declined: true}
		}
		ok, err := opts.Confirm(res)
		if err != nil {
			return FileResult{Entry: entry, Render: res, Err: err}
		}
		if !ok {
			return FileResult{Entry: entry, Render: res, Declined: true}
		}
		renderOpts.Overwrite = true
		res, err = renderer.Render(ctx, renderOpts)
		if err != nil {
			return FileResult{Entry: entry, Render: res, Err: err}
		}
	}

	return FileResult{Entry: entry, Render: res}
}

func templatePath(root string, entry config.TemplateEntry) string {
	if filepath.IsAbs(entry.Source) {
		return entry.Source
	}
	return filepath.Join(root, entry.Source)
}

// ExpandHome expands a leading ~/ to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}
