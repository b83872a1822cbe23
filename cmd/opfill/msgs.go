package opfill

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort = "Fill dotfiles templates with secrets from your credential store"
	MsgRootLong  = `opfill renders dotfiles templates (SSH configs, git configs, shell
profiles) by substituting placeholder tokens with values from your
credential store, so secrets never land in source control.

Templates may use any one of five placeholder syntaxes per file:
{{ op://Vault/item/field }}, {{NAME}}, ${NAME}, %%NAME%%, or $NAME.
Unresolved tokens are left as literal placeholder text so missing
secrets stay visible in the rendered file.`

	MsgInjectShort = "Render a single template"
	MsgInjectLong  = `Inject scans the template, resolves each distinct token against the
credential store and writes the substituted output.

Without --output, the destination is derived by stripping a .tmpl,
.template or .opfill suffix from the template path.`
	MsgInjectExample = `  opfill inject git/gitconfig.tmpl
  opfill inject ssh/config.tmpl --output ~/.ssh/config
  opfill inject shell/profile.tmpl --dry-run`

	MsgInjectAllShort = "Render every template listed in the manifest"
	MsgInjectAllLong  = `Inject-all loads the manifest (.opfill.toml or .opfill.yaml) from your
dotfiles root and renders each entry sequentially. Tokens shared
between templates are resolved once. Destinations that already exist
with different content show a diff and ask before being overwritten;
--force skips the prompt.`
	MsgInjectAllExample = `  opfill inject-all
  opfill inject-all --dry-run
  opfill inject-all --force`

	MsgValidateShort = "Check a template's format and tokens"
	MsgValidateLong  = `Validate reports the detected placeholder format and the distinct
tokens of a template. By default each token is also checked against
the credential store; --no-check skips that and only lists tokens.`
	MsgValidateExample = `  opfill validate git/gitconfig.tmpl
  opfill validate git/gitconfig.tmpl --no-check`

	MsgGenconfigShort = "Print a starter manifest"
	MsgGenconfigLong  = `Genconfig prints a starter .opfill.toml with the default settings and
an example template entry. Redirect it into your dotfiles root to get
started.`
	MsgGenconfigExample = `  opfill genconfig > ~/dotfiles/.opfill.toml`

	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"

	// Status messages
	MsgDryRunNotice     = "\nDRY RUN MODE - No changes were made"
	MsgFallbackWarning  = "Warning: DOTFILES_ROOT not set, using %s\n"
	MsgNoManifest       = "no manifest found in %s (expected one of %s)"
	MsgOverwritePrompt  = "Overwrite %s?"
	MsgValidationPassed = "all tokens resolved"

	// Error messages
	MsgErrLoadConfig   = "failed to load configuration: %w"
	MsgErrLoadManifest = "failed to load manifest: %w"
	MsgErrInject       = "failed to inject template: %w"
	MsgErrValidate     = "failed to validate template: %w"

	// Flag descriptions
	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDryRun  = "Preview changes without writing any files"
	MsgFlagForce   = "Overwrite differing destinations without confirmation"
	MsgFlagOutput  = "Destination path (default: template path without its suffix)"
	MsgFlagNoCheck = "List tokens without checking them against the credential store"
)
