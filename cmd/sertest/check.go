package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markatk/sertest/internal/codec"
	"github.com/markatk/sertest/internal/serialport"
)

func newCheckCmd() *cobra.Command {
	var (
		text       string
		echo       bool
		ignoreCase bool
	)
	var pf *portFlags

	cmd := &cobra.Command{
		Use:   "check <response>",
		Short: "Send text and check the reply against a regular expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pattern := args[0]

			port, err := pf.open()
			if err != nil {
				return err
			}
			defer port.Close()

			if text != "" {
				if _, err := port.Write([]byte(text)); err != nil {
					return fmt.Errorf("write: %w", err)
				}
			}

			buf := make([]byte, 4096)
			n, err := port.Read(buf)
			if err != nil && !serialport.IsTimeout(err) {
				return fmt.Errorf("read: %w", err)
			}

			decoded, err := codec.RadixString(buf[:n], pf.outputFormat())
			if err != nil {
				return err
			}
			if ignoreCase {
				decoded = strings.ToLower(decoded)
			}

			if echo {
				lines, err := codec.PrettyRadixString(buf[:n], pf.outputFormat())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			}

			return printMatch(cmd, decoded, pattern, ignoreCase)
		},
	}

	pf = addPortFlags(cmd)
	cmd.Flags().StringVarP(&text, "text", "T", "", "literal text to send before reading the reply")
	cmd.Flags().BoolVarP(&echo, "echo", "e", false, "print the raw bytes received")
	cmd.Flags().BoolVarP(&ignoreCase, "ignorecase", "c", false, "compare case-insensitively")

	return cmd
}
