package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/command"
	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/plugin"
)

type sendOptions struct {
	summary  string
	body     string
	subtitle string
	appName  string
	icon     string
	timeout  time.Duration
}

func (a *app) sendCmd() *cobra.Command {
	var opts sendOptions

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a notification from the terminal",
		Long: `Send a notification with the same flags the shell's notify command takes.
The timeout is a Go duration such as 5s or 1m30s; 0 keeps the notification
until it is dismissed.`,
		Example: `  nu_plugin_desktop_notifications send -s "Build done" -a CI
  nu_plugin_desktop_notifications send -s deploy -t finished --timeout 10s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := a.newSender(a.cfg.Backend)
			if err != nil {
				return err
			}

			call := opts.call(cmd)
			if _, err := command.NewNotify(sender, a.log).Run(call, plugin.NothingValue(call.Head)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "notification sent via %s\n", sender.Name())
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.summary, command.FlagSummary, "s", "", "summary of the notification")
	f.StringVarP(&opts.body, command.FlagBody, "t", "", "body of the notification")
	f.StringVar(&opts.subtitle, command.FlagSubtitle, "", "subtitle of the notification [macOS only]")
	f.StringVarP(&opts.appName, command.FlagAppName, "a", "", "app name of the notification")
	f.StringVarP(&opts.icon, command.FlagIcon, "i", "", "path to the icon of the notification")
	f.DurationVar(&opts.timeout, command.FlagTimeout, 0, "duration of the notification [XDG Desktops only]")
	return cmd
}

// call turns the flags the user set into the call the shell would have sent
func (o *sendOptions) call(cmd *cobra.Command) *plugin.EvaluatedCall {
	call := &plugin.EvaluatedCall{}
	add := func(name string, v plugin.Value) {
		if cmd.Flags().Changed(name) {
			call.Named = append(call.Named, plugin.NamedArg{Name: name, Value: &v})
		}
	}

	add(command.FlagSummary, plugin.StringValue(o.summary, plugin.Span{}))
	add(command.FlagBody, plugin.StringValue(o.body, plugin.Span{}))
	add(command.FlagSubtitle, plugin.StringValue(o.subtitle, plugin.Span{}))
	add(command.FlagAppName, plugin.StringValue(o.appName, plugin.Span{}))
	add(command.FlagIcon, plugin.StringValue(o.icon, plugin.Span{}))
	add(command.FlagTimeout, plugin.DurationValue(o.timeout, plugin.Span{}))
	return call
}
