package cli

import (
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	// Version information - set via ldflags during build
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func versionCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for " + BinaryName,
		Args:    cobra.NoArgs,
		// runs without loading config
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			label := fmt.Sprint
			if !plain {
				label = color.New(color.FgCyan, color.Bold).SprintFunc()
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", label(BinaryName), Version)
			fmt.Fprintf(out, "%s %s\n", label("commit:"), Commit)
			fmt.Fprintf(out, "%s %s\n", label("built:"), BuildDate)
			fmt.Fprintf(out, "%s %s\n", label("go:"), runtime.Version())
			fmt.Fprintf(out, "%s %s/%s\n", label("platform:"), runtime.GOOS, runtime.GOARCH)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	return cmd
}
