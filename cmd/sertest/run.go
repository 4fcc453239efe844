package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/markatk/sertest/internal/exec"
	"github.com/markatk/sertest/internal/planfmt"
	"github.com/markatk/sertest/internal/report"
	"github.com/markatk/sertest/internal/script"
)

// errSilent marks a RunE failure whose diagnostic has already been
// printed (the test report itself), so main shouldn't also print a
// generic "Error: ..." line for it.
var errSilent = errors.New("")

func newRunCmd(noColor *bool) *cobra.Command {
	var (
		stopOnFailure bool
		watchFlag     bool
		compiled      string
	)
	var pf *portFlags

	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Run a test script against a serial port",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if compiled == "" && len(args) == 0 {
				return fmt.Errorf("either a script file or --compiled is required")
			}

			port, err := pf.open()
			if err != nil {
				return err
			}
			defer port.Close()

			useColor := report.ShouldUseColor(*noColor)

			runOnce := func() (bool, error) {
				suites, err := loadSuites(args, compiled)
				if err != nil {
					return false, err
				}
				// -S/--stop-on-failure is a floor, not an override: it can
				// only turn a suite's stop_on_failure from false to true,
				// never the reverse.
				if stopOnFailure {
					for _, s := range suites {
						s.Settings.StopOnFailure = true
					}
				}

				exec.RunAll(suites, port)

				for _, s := range suites {
					report.FormatSuite(cmd.OutOrStdout(), s, useColor)
				}
				totals := exec.Aggregate(suites)
				report.Summary(cmd.OutOrStdout(), totals.Successful, totals.Failed, useColor)

				return totals.Failed == 0, nil
			}

			if !watchFlag {
				ok, err := runOnce()
				if err != nil {
					return err
				}
				if !ok {
					return errSilent
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("--watch requires a script file, not --compiled")
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return watchRun(ctx, args[0], runOnce)
		},
	}

	pf = addPortFlags(cmd)
	cmd.Flags().BoolVarP(&stopOnFailure, "stop-on-failure", "S", false, "force stop-on-failure on every suite, in addition to the script's own setting")
	cmd.Flags().BoolVar(&watchFlag, "watch", false, "re-run whenever the script file changes")
	cmd.Flags().StringVar(&compiled, "compiled", "", "load a pre-compiled suite file instead of parsing a script")

	return cmd
}

// loadSuites reads suites either from a script file (args[0]) or, when
// compiled is set, from a pre-compiled cbor file via internal/planfmt.
func loadSuites(args []string, compiled string) ([]*script.TestSuite, error) {
	if compiled != "" {
		f, err := os.Open(compiled)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return planfmt.Decode(f)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, err
	}
	return script.Analyze(string(data))
}
