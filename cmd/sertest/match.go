package main

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/markatk/sertest/internal/report"
)

// printMatch reports whether actual fully matches the expected pattern
// (start=0, end=len(actual)), in the same "OK"/"Failed, expected ...
// but received ..." vocabulary the execution engine's report uses.
func printMatch(cmd *cobra.Command, actual, pattern string, ignoreCase bool) error {
	expected := pattern
	compared := actual
	if ignoreCase {
		expected = strings.ToLower(expected)
		compared = strings.ToLower(compared)
	}

	re, err := regexp.Compile(expected)
	if err != nil {
		return fmt.Errorf("invalid response pattern: %w", err)
	}

	loc := re.FindStringIndex(compared)
	ok := loc != nil && loc[0] == 0 && loc[1] == len(compared)

	useColor := report.ShouldUseColor(noColorFromCmd(cmd))
	if ok {
		fmt.Fprintln(cmd.OutOrStdout(), report.Colorize("OK", report.ColorGreen, useColor))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s, expected '%s' but received '%s'\n",
		report.Colorize("Failed", report.ColorRed, useColor), pattern, actual)
	return fmt.Errorf("response did not match")
}

// noColorFromCmd walks up to the persistent --no-color flag registered on
// the root command.
func noColorFromCmd(cmd *cobra.Command) bool {
	root := cmd.Root()
	v, err := root.PersistentFlags().GetBool("no-color")
	if err != nil {
		return false
	}
	return v
}
