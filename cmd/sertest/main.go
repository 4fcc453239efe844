// Command sertest is a serial-port unit-testing tool: it runs declarative
// scripts of stimulus/response exchanges over a serial link and reports
// pass/fail statistics, plus ad-hoc send/check/list/monitor helpers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/markatk/sertest/internal/report"
)

func main() {
	var noColor bool

	root := &cobra.Command{
		Use:           "sertest",
		Short:         "Serial-port unit-testing framework",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		newListCmd(),
		newSendCmd(),
		newCheckCmd(),
		newRunCmd(&noColor),
		newVerifyCmd(&noColor),
		newMonitorCmd(),
	)

	if err := root.Execute(); err != nil {
		if err.Error() != "" {
			useColor := report.ShouldUseColor(noColor)
			fmt.Fprintln(os.Stderr, report.Colorize("Error: ", report.ColorRed, useColor)+err.Error())
		}
		os.Exit(1)
	}
}
