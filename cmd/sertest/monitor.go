package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newMonitorCmd is a thin stub: the interactive two-pane terminal UI is
// explicitly out of the core's algorithmic scope (spec.md §1) and no TUI
// library appears anywhere in the example pack to ground a real
// implementation on. It reports the limitation rather than fabricating
// one.
func newMonitorCmd() *cobra.Command {
	var pf *portFlags

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Interactively monitor a port (unsupported in this build)",
		RunE: func(cmd *cobra.Command, args []string) error {
			port, err := pf.open()
			if err != nil {
				return err
			}
			defer port.Close()

			fmt.Fprintln(cmd.OutOrStdout(), "monitor: interactive terminal UI is not available in this build; use send/check for ad-hoc interaction")
			return nil
		},
	}

	pf = addPortFlags(cmd)
	return cmd
}
