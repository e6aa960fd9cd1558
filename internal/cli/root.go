// Package cli is the chores command tree.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/chores/internal/api"
	"github.com/idilsaglam/chores/internal/auth"
	"github.com/idilsaglam/chores/internal/config"
	"github.com/idilsaglam/chores/internal/logging"
	"github.com/idilsaglam/chores/internal/ui"
)

var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotLoggedIn      = errors.New("not logged in")
	ErrLogHandlerFailed = errors.New("log handler failed")
)

// app is the state shared by every command once flags are parsed.
type app struct {
	name string

	configPath string
	server     string
	timeout    time.Duration
	logLevel   string
	logFormat  string
	noColor    bool
	rollback   bool

	cfg      *config.Config
	log      *log.Logger
	out      *ui.Printer
	sessions *auth.Store
	now      func() time.Time
}

// NewRootCmd returns the root command. Without a subcommand it opens the
// interactive view.
func NewRootCmd(name, shortDesc string) *cobra.Command {
	a := &app{name: name, now: time.Now}

	cmd := &cobra.Command{
		Use:           name,
		Short:         shortDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       GetVersionString(),
		Args:          noArgs,
		RunE: func(cc *cobra.Command, _ []string) error {
			if !ui.IsTerminal(cc.OutOrStdout()) {
				a.log.Debug("stdout is not a terminal, printing the list instead")
				return a.list(cc.Context())
			}
			return a.runTUI(cc)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&a.logLevel, "log_level", "warn", "Set the log level (debug, info, warn, error)")
	pf.StringVar(&a.logFormat, "log_format", "text", "Set the log format (text, logfmt, json)")
	pf.StringVar(&a.configPath, "config", "", "Config file (default ~/.config/chores/config.yaml)")
	pf.StringVar(&a.server, "server", "", "Chore server URL (overrides config and CHORES_SERVER)")
	pf.DurationVar(&a.timeout, "timeout", 0, "Per-request timeout, 0 for none")
	pf.BoolVar(&a.noColor, "no_color", false, "Disable colour output")
	cmd.Flags().BoolVar(&a.rollback, "rollback_on_failure", false, "Restore a row's look when its action fails")

	if err := cmd.MarkPersistentFlagFilename("config", "yaml", "yml"); err != nil {
		panic(err)
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	})

	cmd.PersistentPreRunE = func(cc *cobra.Command, _ []string) error {
		return a.setup(cc)
	}

	cmd.AddCommand(
		newListCmd(a),
		newUpdateCmd(a, "done", true),
		newUpdateCmd(a, "undo", false),
		newClaimCmd(a),
		newPointsCmd(a),
		newChartCmd(a),
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		NewVersionCmd(),
	)

	return cmd
}

func (a *app) setup(cc *cobra.Command) error {
	l, err := logging.New(cc.ErrOrStderr(), a.logLevel, a.logFormat)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogHandlerFailed, err)
	}
	a.log = l

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	flags := cc.Flags()
	if flags.Changed("server") {
		cfg.Server = strings.TrimRight(a.server, "/")
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if flags.Changed("rollback_on_failure") {
		cfg.RollbackOnFailure = a.rollback
	}
	a.cfg = cfg

	mode := ui.ColorAuto
	if a.noColor {
		mode = ui.ColorNever
	}
	a.out = ui.NewPrinter(cc.OutOrStdout(), cc.ErrOrStderr(), cfg.Theme, mode)

	if a.sessions == nil {
		s, err := auth.DefaultStore()
		if err != nil {
			return fmt.Errorf("session store: %w", err)
		}
		a.sessions = s
	}

	a.log.Debug("ready to go", "server", cfg.Server, "timeout", cfg.Timeout)
	return nil
}

// client builds an API client carrying the stored session.
func (a *app) client(l *log.Logger) (*api.Client, *auth.Session, error) {
	sess, err := a.sessions.Get()
	if err != nil {
		return nil, nil, err
	}
	if sess == nil {
		return nil, nil, ErrNotLoggedIn
	}
	if sess.Expired(a.now()) {
		return nil, nil, fmt.Errorf("%w: session expired", ErrNotLoggedIn)
	}
	c, err := a.newClient(l, api.WithSession(sess.Cookie))
	if err != nil {
		return nil, nil, err
	}
	return c, sess, nil
}

func (a *app) newClient(l *log.Logger, opts ...api.Option) (*api.Client, error) {
	if l == nil {
		l = a.log
	}
	opts = append([]api.Option{api.WithTimeout(a.cfg.Timeout), api.WithLogger(l)}, opts...)
	c, err := api.NewClient(a.cfg.Server, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return c, nil
}

func noArgs(cc *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("%w: unknown command %q for %q", ErrInvalidArgument, args[0], cc.CommandPath())
	}
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cc *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cc, args); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
		}
		return nil
	}
}

// ExitCode maps a command error to the process exit status: 0 ok, 1 error,
// 2 usage.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ErrNotLoggedIn):
		return 2
	}
	return 1
}

// Execute runs cmd and reports its error the way every command does.
func Execute(ctx context.Context, cmd *cobra.Command) int {
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	p := ui.NewPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr(), "", ui.ColorAuto)
	p.Fail(err.Error())
	if errors.Is(err, ErrNotLoggedIn) || errors.Is(err, api.ErrUnauthorized) {
		p.Hint("Run: " + cmd.Root().Name() + " login")
	}
	return ExitCode(err)
}
