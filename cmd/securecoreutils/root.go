// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bindlebinaries/securecoreutils/internal/config"
	"github.com/bindlebinaries/securecoreutils/internal/coreutils"
	"github.com/bindlebinaries/securecoreutils/internal/pathguard"
	"github.com/bindlebinaries/securecoreutils/internal/widget"
	"github.com/bindlebinaries/securecoreutils/pkg/types"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// programName is the name of the multi-call binary. It never resolves to a
// widget.
const programName = config.AppName

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

type (
	// app is the state of one process run.
	app struct {
		cfg    *config.Config
		reg    *widget.Registry
		logger *log.Logger
		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}

	// rootFlags are the options of the binary itself.
	rootFlags struct {
		quiet   bool
		verbose int
	}
)

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the binary with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(int(run(context.Background(), os.Args, os.Stdin, os.Stdout, os.Stderr)))
}

// run is Execute without the process globals.
func run(ctx context.Context, argv []string, stdin io.Reader, stdout, stderr io.Writer, opts ...coreutils.Option) types.ExitCode {
	a, err := newApp(ctx, stdin, stdout, stderr, opts...)
	if err != nil {
		reportError(stderr, err, 0)
		return types.ExitFailure
	}

	if len(argv) > 0 {
		if d, ok := a.reg.Resolve(filepath.Base(argv[0]), widget.ExactMatch); ok {
			return a.runAlias(ctx, d, argv)
		}
	}

	root := a.newRootCommand()
	if len(argv) > 0 {
		root.SetArgs(argv[1:])
	} else {
		root.SetArgs([]string{})
	}
	// Use fang.Execute for enhanced Cobra styling
	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	err = fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	// fang reflows the error text, so the hint goes after it on its own line.
	printUsageHint(stderr, err)
	return exitCodeOf(err)
}

// newApp loads the configuration and builds the widget catalog. A broken
// configuration is reported as a warning and the defaults apply.
func newApp(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, opts ...coreutils.Option) (*app, error) {
	cfg, err := config.NewProvider().Load(ctx, config.OptionsFromEnv())
	if err != nil {
		// Always surface config loading errors to the user
		fmt.Fprintln(stderr, styled(stderr, WarningStyle, "Warning: ")+formatErrorForDisplay(err, false))
		cfg = config.DefaultConfig()
	}

	reg, err := coreutils.New(cfg, opts...).Registry(programName)
	if err != nil {
		return nil, fmt.Errorf("build widget catalog: %w", err)
	}

	return &app{
		cfg:    cfg,
		reg:    reg,
		logger: newLogger(stderr, cfg.Log.Format),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}, nil
}

func (a *app) invocation(args []string) *widget.Invocation {
	return &widget.Invocation{
		Program: programName,
		Version: getVersionString(),
		Args:    args,
		Stdin:   a.stdin,
		Stdout:  a.stdout,
		Stderr:  a.stderr,
		Logger:  a.logger,
	}
}

// runAlias runs the widget the binary was invoked as. Errors are reported
// here because cobra and fang are not involved.
func (a *app) runAlias(ctx context.Context, d *widget.Descriptor, argv []string) types.ExitCode {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	args := append([]string{filepath.Base(argv[0])}, argv[1:]...)
	inv := a.invocation(args)
	if err := inv.Bind(d); err != nil {
		reportError(a.stderr, err, 0)
		return types.ExitFailure
	}

	if err := inv.Run(ctx); err != nil {
		reportError(a.stderr, err, inv.Verbosity)
		if inv.Verbosity >= explainVerbosity {
			explain(a.stderr, err)
		}
		return types.ExitFailure
	}
	return types.ExitSuccess
}

func (a *app) newRootCommand() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           programName + " [OPTIONS] widget [WIDGETOPTIONS] path",
		Short:         "Coreutils that refuse to follow unsafe paths",
		Long:          a.longHelp(),
		Version:       getVersionString(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runWidget(cmd.Context(), flags, args)
		},
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.Flags().SetInterspersed(false)
	root.Flags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress informational messages")
	root.Flags().BoolVar(&flags.quiet, "silent", false, "same as --quiet")
	_ = root.Flags().MarkHidden("silent")
	root.Flags().BoolP("version", "V", false, "print version and exit")
	root.Flags().CountVarP(&flags.verbose, "verbose", "v", "print verbose messages, repeat for more")

	return root
}

// runWidget resolves the first argument in sub-command mode and runs the
// widget with the rest.
func (a *app) runWidget(ctx context.Context, flags *rootFlags, args []string) error {
	inv := a.invocation(args)
	inv.Quiet = flags.quiet
	inv.Verbosity = flags.verbose

	if flags.quiet && flags.verbose > 0 {
		return a.fail(inv, inv.Usagef("options `--quiet' and `--verbose' are mutually exclusive"))
	}
	if len(args) == 0 {
		return a.fail(inv, inv.Usagef("missing required argument"))
	}

	d, ok := a.reg.Resolve(args[0], widget.PrefixMatch)
	if !ok {
		return a.fail(inv, &unknownWidgetError{&widget.UsageError{
			Program: programName,
			Msg:     fmt.Sprintf("unknown or ambiguous widget -- %q", args[0]),
		}})
	}
	if err := inv.Bind(d); err != nil {
		return a.fail(inv, err)
	}
	a.logger.SetLevel(inv.LogLevel())
	a.logger.Debug("resolved widget", "request", args[0], "widget", d.Name)

	if err := inv.Run(ctx); err != nil {
		return a.fail(inv, err)
	}
	return nil
}

// fail prepares a widget failure for fang, which prints it.
func (a *app) fail(inv *widget.Invocation, err error) error {
	if inv.Verbosity >= explainVerbosity {
		explain(a.stderr, err)
	}
	return &ExitError{Code: types.ExitFailure, Err: err}
}

// longHelp lists the widgets and the path restrictions they enforce.
func (a *app) longHelp() string {
	var sb strings.Builder
	sb.WriteString(TitleStyle.Render(programName) + SubtitleStyle.Render(" - coreutils that refuse to follow unsafe paths"))
	sb.WriteString("\n\nEvery path operand is checked before it is opened, removed or touched.\n")
	sb.WriteString("A widget runs as \"" + programName + " widget\", where widget may be any\n")
	sb.WriteString("unambiguous prefix, or through a link named after the widget or an alias.\n\n")

	sb.WriteString(SubtitleStyle.Render("Widgets:") + "\n")
	for _, d := range a.reg.Widgets() {
		fmt.Fprintf(&sb, "  %s\n      %s\n", CmdStyle.Render(strings.Join(d.Names(), ", ")), d.Description)
	}

	sb.WriteString("\n" + SubtitleStyle.Render("Restrictions:") + "\n")
	for _, r := range pathguard.Restrictions {
		sb.WriteString("  - " + VerboseStyle.Render(r) + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
