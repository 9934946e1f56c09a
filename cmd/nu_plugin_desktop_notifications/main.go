// nu_plugin_desktop_notifications - desktop notifications for Nushell
// Source: https://github.com/nushell-plugins/nu_plugin_desktop_notifications

package main

import (
	"os"

	"github.com/nushell-plugins/nu_plugin_desktop_notifications/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
