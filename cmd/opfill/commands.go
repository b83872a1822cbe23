package opfill

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/arthur-debert/opfill/internal/version"
	"github.com/arthur-debert/opfill/pkg/commands/genconfig"
	"github.com/arthur-debert/opfill/pkg/commands/inject"
	"github.com/arthur-debert/opfill/pkg/commands/injectall"
	"github.com/arthur-debert/opfill/pkg/commands/validate"
	"github.com/arthur-debert/opfill/pkg/config"
	"github.com/arthur-debert/opfill/pkg/errors"
	"github.com/arthur-debert/opfill/pkg/logging"
	"github.com/arthur-debert/opfill/pkg/paths"
	"github.com/arthur-debert/opfill/pkg/renderer"
	"github.com/arthur-debert/opfill/pkg/secrets"
	"github.com/arthur-debert/opfill/pkg/style"
	"github.com/arthur-debert/opfill/pkg/types"
	"github.com/spf13/cobra"
)

// setup assembles the path layout, layered settings and the cached
// credential resolver shared by all commands.
func setup(cmd *cobra.Command) (*paths.Paths, config.Settings, *secrets.Resolver, error) {
	p := paths.New("")
	if p.UsedFallback() {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning, p.DotfilesRoot())
	}

	settings, err := config.Load(p.ConfigFilePath(), p.ManifestPath())
	if err != nil {
		return nil, config.Settings{}, nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	source := &secrets.OpCLI{
		Account: settings.Account,
		Vault:   settings.Vault,
		Field:   settings.Field,
		Timeout: settings.Timeout(),
	}
	return p, settings, secrets.NewResolver(source, settings.TTL()), nil
}

// dryRunEnabled combines the --dry-run flag with the dry_run setting.
func dryRunEnabled(cmd *cobra.Command, settings config.Settings) bool {
	return boolFlag(cmd, "dry-run") || settings.DryRun
}

func newInjectCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "inject <template>",
		Short:   MsgInjectShort,
		Long:    MsgInjectLong,
		Example: MsgInjectExample,
		GroupID: "core",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, settings, resolver, err := setup(cmd)
			if err != nil {
				return err
			}
			dryRun := dryRunEnabled(cmd, settings)

			result, err := inject.Inject(cmd.Context(), inject.Options{
				FS:           types.OSFS{},
				Resolver:     resolver,
				TemplatePath: args[0],
				OutputPath:   output,
				DryRun:       dryRun,
				Overwrite:    boolFlag(cmd, "force"),
			})
			if err != nil {
				return fmt.Errorf(MsgErrInject, err)
			}

			if result.Render.RequiresConfirm && !dryRun {
				ok, err := confirmOverwrite(result.Render)
				if err != nil {
					return err
				}
				if ok {
					result, err = inject.Inject(cmd.Context(), inject.Options{
						FS:           types.OSFS{},
						Resolver:     resolver,
						TemplatePath: args[0],
						OutputPath:   output,
						DryRun:       dryRun,
						Overwrite:    true,
					})
					if err != nil {
						return fmt.Errorf(MsgErrInject, err)
					}
				}
			}

			cmd.Print(style.RenderResult(result.Render, dryRun))
			if dryRun {
				cmd.Println(MsgDryRunNotice)
			}
			if result.Failed() {
				return errors.Newf(errors.ErrMissingSecret,
					"%d token(s) could not be resolved", result.Render.Missing())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	return cmd
}

func newInjectAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "inject-all",
		Short:   MsgInjectAllShort,
		Long:    MsgInjectAllLong,
		Example: MsgInjectAllExample,
		GroupID: "core",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, settings, resolver, err := setup(cmd)
			if err != nil {
				return err
			}

			manifestPath := p.ManifestPath()
			if manifestPath == "" {
				return errors.Newf(errors.ErrManifest, MsgNoManifest,
					p.DotfilesRoot(), paths.ManifestNames)
			}
			manifest, err := config.LoadManifest(manifestPath)
			if err != nil {
				return fmt.Errorf(MsgErrLoadManifest, err)
			}

			dryRun := dryRunEnabled(cmd, settings)
			result, err := injectall.InjectAll(cmd.Context(), injectall.Options{
				FS:           types.OSFS{},
				Resolver:     resolver,
				DotfilesRoot: p.DotfilesRoot(),
				Manifest:     manifest,
				DryRun:       dryRun,
				Force:        boolFlag(cmd, "force"),
				Confirm:      confirmOverwrite,
			})
			if err != nil {
				return err
			}

			stats := resolver.Stats()
			cliLogger := logging.GetLogger("cli")
			cliLogger.Info().
				Int("externalCalls", stats.ExternalCalls).
				Int("cacheHits", stats.CacheHits).
				Msg("Resolver activity")

			cmd.Print(style.RenderBatch(result))
			if dryRun {
				cmd.Println(MsgDryRunNotice)
			}
			if result.Failed() {
				_, missing, _ := result.Counts()
				return errors.Newf(errors.ErrMissingSecret,
					"batch finished with %d missing token(s)", missing)
			}
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	var noCheck bool

	cmd := &cobra.Command{
		Use:     "validate <template>",
		Short:   MsgValidateShort,
		Long:    MsgValidateLong,
		Example: MsgValidateExample,
		GroupID: "core",
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resolver renderer.TokenResolver
			if !noCheck {
				_, _, r, err := setup(cmd)
				if err != nil {
					return err
				}
				resolver = r
			}

			result, err := validate.Validate(cmd.Context(), validate.Options{
				FS:           types.OSFS{},
				TemplatePath: args[0],
				Resolver:     resolver,
				Check:        !noCheck,
			})
			if err != nil {
				return fmt.Errorf(MsgErrValidate, err)
			}

			cmd.Print(style.RenderValidation(result))
			if result.Missing() > 0 {
				return errors.Newf(errors.ErrMissingSecret,
					"%d token(s) could not be resolved", result.Missing())
			}
			if !noCheck {
				cmd.Println(MsgValidationPassed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noCheck, "no-check", false, MsgFlagNoCheck)
	return cmd
}

func newGenconfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenconfigShort,
		Long:    MsgGenconfigLong,
		Example: MsgGenconfigExample,
		GroupID: "misc",
		Args:    exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := genconfig.GenConfig()
			if err != nil {
				return err
			}
			cmd.Print(result.Content)
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    exactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("opfill %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     MsgCompletionShort,
		GroupID:   "misc",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}

// confirmOverwrite shows a diff of the existing destination against
// the rendered content and asks before overwriting.
func confirmOverwrite(res *renderer.Result) (bool, error) {
	fmt.Print(style.RenderDiff(string(res.Existing), string(res.Rendered)))

	ok := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf(MsgOverwritePrompt, res.OutputPath),
	}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}
