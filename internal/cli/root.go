// Package cli is the gowakeonlan command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"gowakeonlan/internal/app"
	"gowakeonlan/internal/arp"
	"gowakeonlan/internal/config"
	"gowakeonlan/internal/logging"
	"gowakeonlan/internal/registry"
	"gowakeonlan/internal/store"
	"gowakeonlan/internal/wol"
)

var Version = "dev"

type flags struct {
	ConfigFile string
	Verbose    bool
	Debug      bool
	Quiet      bool
}

// session is built once per invocation by the root pre-run hook.
type session struct {
	flags flags
	cfg   *config.Config
	log   logr.Logger
	app   *app.App

	closers []io.Closer
}

func (s *session) close() error {
	var err error
	for i := len(s.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, s.closers[i].Close())
	}
	s.closers = nil
	return err
}

// Execute runs the command line and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd, s := newRootCmd()
	err := multierr.Append(cmd.ExecuteContext(ctx), s.close())
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Without a subcommand it runs the TUI.
// The caller closes the session once the command returns.
func newRootCmd() (*cobra.Command, *session) {
	s := &session{}

	cmd := &cobra.Command{
		Use:           "gowakeonlan",
		Short:         "Keep a list of hosts and wake them up with Wake-on-LAN magic packets",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.open(cmd, isInteractive(cmd))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, s)
		},
	}

	cmd.PersistentFlags().StringVarP(&s.flags.ConfigFile, "config", "c", "", "configuration `file` (default gowakeonlan.yaml in . or the user config directory)")
	cmd.PersistentFlags().BoolVarP(&s.flags.Verbose, "verbose", "v", false, "verbose output (info level, mutually exclusive with --debug and --quiet)")
	cmd.PersistentFlags().BoolVarP(&s.flags.Debug, "debug", "d", false, "debug output (debug level, shows V(1) logs, mutually exclusive with --verbose and --quiet)")
	cmd.PersistentFlags().BoolVarP(&s.flags.Quiet, "quiet", "q", false, "quiet output (error level only, mutually exclusive with --verbose and --debug)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "debug", "quiet")

	cmd.AddCommand(
		newListCmd(s),
		newReportCmd(s),
		newAddCmd(s),
		newEditCmd(s),
		newRemoveCmd(s),
		newSelectCmd(s),
		newWakeCmd(s),
		newARPCmd(s),
		newTUICmd(s),
	)
	return cmd, s
}

// open loads the configuration, builds the logger, store and app, and loads the host list.
func (s *session) open(cmd *cobra.Command, interactive bool) error {
	cfg, err := config.Load(s.flags.ConfigFile)
	if err != nil {
		return err
	}
	s.cfg = cfg

	log, logCloser, err := logging.New(cfg.Logging, logging.Options{
		Verbose: s.flags.Verbose,
		Debug:   s.flags.Debug,
		Quiet:   s.flags.Quiet,
		ToFile:  interactive,
	})
	if err != nil {
		return err
	}
	s.closers = append(s.closers, logCloser)
	s.log = log

	backend, err := store.Open(log, cfg.Storage)
	if err != nil {
		log.Error(err, "Failed to open host store", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path)
		return multierr.Append(err, s.close())
	}
	s.closers = append(s.closers, backend)

	s.app = app.New(log, cfg.Wake, registry.New(), backend, newWaker(log, cfg.Wake), newARPSource(log, cfg.ARP))
	cmd.SetContext(logr.NewContext(cmd.Context(), log))

	if err := s.app.Load(cmd.Context()); err != nil {
		return multierr.Append(err, s.close())
	}
	return nil
}

func newWaker(log logr.Logger, cfg config.WakeConfig) app.Waker {
	if cfg.Method == config.MethodEthernet {
		return wol.NewEthernetTransmitter(log, cfg.Interface)
	}
	return wol.NewTransmitter(log)
}

func newARPSource(log logr.Logger, cfg config.ARPConfig) arp.Source {
	if cfg.Scan {
		return arp.ScanSource{
			Log:       log,
			Interface: cfg.Interface,
			Config: arp.ScanConfig{
				RateLimit: cfg.RateLimit,
				IdleWait:  cfg.IdleWait,
				MaxHosts:  cfg.MaxHosts,
			},
		}
	}
	return arp.CacheSource{Path: cfg.CachePath}
}

// isInteractive reports whether cmd hands the terminal to the TUI.
func isInteractive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "tui"
}
