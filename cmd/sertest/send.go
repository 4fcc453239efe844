package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markatk/sertest/internal/codec"
	"github.com/markatk/sertest/internal/serialport"
)

func newSendCmd() *cobra.Command {
	var (
		text           string
		response       string
		echo           bool
		carriageReturn bool
		newline        bool
		escape         bool
	)
	inFmt := &textFormatFlags{}
	var pf *portFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send ad-hoc data to a port and optionally check the reply",
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" {
				return fmt.Errorf("--text is required")
			}

			port, err := pf.open()
			if err != nil {
				return err
			}
			defer port.Close()

			payload := text
			if escape && inFmt.format() == codec.Text {
				payload = codec.EscapeText(payload)
			}

			nf := codec.NewlineNone
			switch {
			case carriageReturn && newline:
				nf = codec.NewlineBoth
			case carriageReturn:
				nf = codec.NewlineCR
			case newline:
				nf = codec.NewlineLF
			}
			payload, err = codec.AddNewline(payload, inFmt.format(), nf)
			if err != nil {
				return err
			}

			var raw []byte
			if inFmt.format() == codec.Text {
				raw = []byte(payload)
			} else {
				raw, err = codec.BytesFromRadix(payload, inFmt.format())
				if err != nil {
					return err
				}
			}

			if _, err := port.Write(raw); err != nil {
				return fmt.Errorf("write: %w", err)
			}

			if response == "" && !echo {
				return nil
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

			if echo {
				lines, err := codec.PrettyRadixString(buf[:n], pf.outputFormat())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
			}

			if response != "" {
				return printMatch(cmd, decoded, response, false)
			}
			return nil
		},
	}

	pf = addPortFlags(cmd)
	addInputFormatFlags(cmd, inFmt)
	cmd.Flags().StringVarP(&text, "text", "T", "", "literal text to send")
	cmd.Flags().StringVar(&response, "response", "", "regular expression the reply must fully match")
	cmd.Flags().BoolVarP(&echo, "echo", "e", false, "print the raw bytes received")
	cmd.Flags().BoolVarP(&carriageReturn, "carriage-return", "R", false, "append a CR terminator")
	cmd.Flags().BoolVarP(&newline, "newline", "N", false, "append an LF terminator")
	cmd.Flags().BoolVarP(&escape, "escape", "E", false, "apply \\r/\\n/\\t escape conversion before sending (text format only)")

	return cmd
}
