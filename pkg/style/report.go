package style

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/opfill/pkg/commands/injectall"
	"github.com/arthur-debert/opfill/pkg/commands/validate"
	"github.com/arthur-debert/opfill/pkg/renderer"
	"github.com/arthur-debert/opfill/pkg/scanner"
)

// RenderResult renders a single-file render outcome.
func RenderResult(res *renderer.Result, dryRun bool) string {
	var b strings.Builder

	for _, tok := range res.Tokens {
		b.WriteString(renderTokenLine(tok.Name, tok.Status))
		b.WriteString("\n")
	}

	switch {
	case dryRun:
		b.WriteString(fmt.Sprintf("would write %d bytes to %s, %d missing\n",
			len(res.Rendered), res.OutputPath, res.Missing()))
	case res.Written:
		b.WriteString(fmt.Sprintf("wrote %d bytes to %s\n", len(res.Rendered), res.OutputPath))
	case res.RequiresConfirm:
		b.WriteString(fmt.Sprintf("%s differs; not overwritten\n", res.OutputPath))
	case !res.WouldChange:
		b.WriteString(MutedStyle.Render(fmt.Sprintf("%s already up to date", res.OutputPath)) + "\n")
	}

	return b.String()
}

// RenderBatch renders the inject-all summary.
func RenderBatch(result *injectall.Result) string {
	var b strings.Builder

	for _, f := range result.Files {
		switch {
		case f.Err != nil:
			b.WriteString(fmt.Sprintf("%s %s: %v\n",
				StatusStyle(StatusError).Sprint("✗"), f.Entry.Source, f.Err))
		case f.Declined:
			b.WriteString(fmt.Sprintf("%s %s (overwrite declined)\n",
				StatusStyle(StatusSkipped).Sprint("-"), f.Entry.Source))
		case f.Render.Missing() > 0:
			b.WriteString(fmt.Sprintf("%s %s → %s (%d missing)\n",
				StatusStyle(StatusMissing).Sprint("✗"), f.Entry.Source,
				f.Entry.Output, f.Render.Missing()))
		case f.Render.Written:
			b.WriteString(fmt.Sprintf("%s %s → %s\n",
				StatusStyle(StatusWritten).Sprint("✓"), f.Entry.Source, f.Entry.Output))
		default:
			b.WriteString(fmt.Sprintf("%s %s → %s\n",
				MutedStyle.Render("·"), f.Entry.Source, f.Entry.Output))
		}
	}

	resolved, missing, skipped := result.Counts()
	b.WriteString("\n")
	if result.DryRun {
		b.WriteString(TitleStyle.Render("dry run") + " — no files were written\n")
	}
	b.WriteString(fmt.Sprintf("%d resolved, %d missing, %d skipped\n",
		resolved, missing, skipped))

	return b.String()
}

// RenderValidation renders a validate outcome.
func RenderValidation(res *validate.Result) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("format: %s\n", res.Format))
	if res.Format == scanner.FormatNone {
		b.WriteString(MutedStyle.Render("no template syntax; file passes through unchanged") + "\n")
		return b.String()
	}

	for _, tok := range res.Tokens {
		b.WriteString(renderTokenLine(tok.Name, tok.Status))
		b.WriteString("\n")
	}

	if res.MixedFormat != scanner.FormatNone {
		b.WriteString(StatusStyle(StatusSkipped).Sprintf(
			"warning: %s tokens also present; they will be left literal\n", res.MixedFormat))
	}

	return b.String()
}

func renderTokenLine(name string, status renderer.TokenStatus) string {
	switch status {
	case renderer.StatusResolved:
		return fmt.Sprintf("  %s %s", StatusStyle(StatusResolved).Sprint("✓"), name)
	case renderer.StatusMissing:
		return fmt.Sprintf("  %s %s", StatusStyle(StatusMissing).Sprint("✗"), name)
	default:
		return fmt.Sprintf("  %s %s", StatusStyle(StatusSkipped).Sprint("-"), name)
	}
}
