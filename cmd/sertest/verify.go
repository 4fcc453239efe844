package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/markatk/sertest/internal/planfmt"
	"github.com/markatk/sertest/internal/report"
)

func newVerifyCmd(noColor *bool) *cobra.Command {
	var (
		verbosity int
		export    string
		watchFlag bool
	)

	cmd := &cobra.Command{
		Use:   "verify <file>",
		Short: "Parse and validate a test script without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runOnce := func() (bool, error) {
				suites, err := loadSuites(args, "")
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
					return false, errSilent
				}

				switch {
				case verbosity >= 2:
					report.VerifyTree(cmd.OutOrStdout(), suites)
				case verbosity == 1:
					report.VerifyBrief(cmd.OutOrStdout(), suites)
				default:
					total := 0
					for _, s := range suites {
						total += len(s.Tests)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %d suites, %d tests, ok\n", args[0], len(suites), total)
				}

				if export != "" {
					f, err := os.Create(export)
					if err != nil {
						return false, err
					}
					defer f.Close()
					if err := planfmt.Encode(f, suites); err != nil {
						return false, err
					}
				}

				return true, nil
			}

			if !watchFlag {
				_, err := runOnce()
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			return watchRun(ctx, args[0], runOnce)
		},
	}

	cmd.Flags().CountVarP(&verbosity, "verbose", "v", "increase output detail (-v suite sizes, -vv full tree)")
	cmd.Flags().StringVar(&export, "export", "", "write a pre-compiled cbor suite file alongside verification")
	cmd.Flags().BoolVar(&watchFlag, "watch", false, "re-verify whenever the script file changes")

	return cmd
}
