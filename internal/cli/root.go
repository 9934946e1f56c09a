// nu_plugin_desktop_notifications - desktop notifications for Nushell
// Source: https://github.com/nushell-plugins/nu_plugin_desktop_notifications

// Package cli provides the Cobra commands of the plugin binary.
// The shell launches it with --stdio; the other subcommands exist for
// trying backends and inspecting configuration from a terminal.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/command"
	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/config"
	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/logging"
	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/notify"
	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/plugin"
)

// BinaryName is the executable name the shell registers
const BinaryName = "nu_plugin_desktop_notifications"

// app holds the state shared by the commands of one invocation
type app struct {
	configPath string
	debug      bool
	stdio      bool

	cfg      *config.Configuration
	log      zerolog.Logger
	closeLog func() error

	newSender   func(backend string) (notify.Sender, error)
	interactive func(r io.Reader) bool
}

// NewRootCmd builds the command tree
func NewRootCmd() *cobra.Command {
	a := &app{
		log:         zerolog.Nop(),
		closeLog:    func() error { return nil },
		newSender:   notify.NewSender,
		interactive: isTerminal,
	}
	return a.rootCmd()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   BinaryName,
		Short: "Desktop notifications for Nushell",
		Long: `Desktop notifications for Nushell

Adds a 'notify' command to the shell that shows a desktop notification and
passes its pipeline input through unchanged.`,
		Example: `  # Register with the shell (inside nu)
  plugin add ~/.cargo/bin/nu_plugin_desktop_notifications
  plugin use desktop_notifications

  # Try a notification from a terminal
  nu_plugin_desktop_notifications send -s "Build done" -a CI --timeout 5s`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.closeLog()
		},
		RunE: a.runRoot,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to config file (yml, yaml or json)")
	cmd.PersistentFlags().BoolVarP(&a.debug, "debug", "d", false, "Enable debug logging")
	cmd.Flags().BoolVar(&a.stdio, "stdio", false, "Serve the plugin protocol on stdin/stdout")

	cmd.AddCommand(a.sendCmd(), a.configCmd(), versionCmd())
	return cmd
}

// Execute runs the root command, cancelling on interrupt
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

// setup loads configuration and builds the logger
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.debug {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg

	log, closeLog, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.log = log
	a.closeLog = closeLog
	return nil
}

func (a *app) runRoot(cmd *cobra.Command, args []string) error {
	if a.stdio {
		return a.serve(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	}
	if a.interactive(cmd.InOrStdin()) {
		printHint(cmd.OutOrStdout())
		return nil
	}
	return fmt.Errorf("%s speaks the plugin protocol only with --stdio", BinaryName)
}

// serve runs the plugin server with the notify command
func (a *app) serve(ctx context.Context, in io.Reader, out io.Writer) error {
	enc, err := plugin.EncodingByName(a.cfg.Encoding)
	if err != nil {
		return err
	}
	sender, err := a.newSender(a.cfg.Backend)
	if err != nil {
		return err
	}
	a.log.Debug().Str("backend", sender.Name()).Bool("available", sender.Available()).Msg("selected backend")

	server := plugin.NewServer(
		[]plugin.Command{command.NewNotify(sender, a.log)},
		plugin.WithEncoding(enc),
		plugin.WithVersion(Version),
		plugin.WithProtocolVersion(a.cfg.ProtocolVersion),
		plugin.WithLogger(a.log),
	)
	return server.Serve(ctx, in, out)
}

// printHint explains how to register the plugin
func printHint(out io.Writer) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintln(out)
	fmt.Fprintln(out, cyan(BinaryName))
	fmt.Fprintln(out, dim("This binary is a Nushell plugin and is started by the shell."))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Register it from nu:")
	fmt.Fprintf(out, "  %s\n", yellow("plugin add <path to "+BinaryName+">"))
	fmt.Fprintf(out, "  %s\n", yellow("plugin use desktop_notifications"))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Try a notification from here with %s\n", yellow(BinaryName+" send -s hello"))
	fmt.Fprintln(out)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
