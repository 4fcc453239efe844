package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "script.test")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

// A loopback port echoes back exactly what was written, so a script whose
// case uses the same literal for input and output always passes - that is
// enough to exercise run's full pipeline (parse, open, execute, report,
// exit status) without needing a scripted fake port.
func TestRunCommandAgainstLoopbackPasses(t *testing.T) {
	path := writeScript(t, `"PING" : "PING"`+"\n")

	var noColor bool
	cmd := newRunCmd(&noColor)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--port", "loopback", "--timeout", "20ms", path})

	err := cmd.Execute()
	require.NoError(t, err)
	require.Contains(t, out.String(), "Ran 1 tests, 1 successful, 0 failed")
}

func TestRunCommandAgainstLoopbackFails(t *testing.T) {
	path := writeScript(t, `"PING" : "PONG"`+"\n")

	var noColor bool
	cmd := newRunCmd(&noColor)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--port", "loopback", "--timeout", "20ms", path})

	err := cmd.Execute()
	require.Error(t, err)
	require.Equal(t, "", err.Error(), "a failed-run error is silent; the report already explains it")
	require.Contains(t, out.String(), "Ran 1 tests, 0 successful, 1 failed")
}

func TestRunCommandRequiresFileOrCompiled(t *testing.T) {
	var noColor bool
	cmd := newRunCmd(&noColor)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--port", "loopback"})

	err := cmd.Execute()
	require.Error(t, err)
	require.NotEqual(t, "", err.Error())
}

func TestRunCommandStopOnFailureFloor(t *testing.T) {
	// The script leaves stop-on-failure at its default (true) so the
	// second case never runs even without the CLI flag; this exercises
	// that the floor doesn't need to fire to still report correctly.
	path := writeScript(t, "\"a\" : \"nope\"\n\"b\" : \"b\"\n")

	var noColor bool
	cmd := newRunCmd(&noColor)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--port", "loopback", "--timeout", "20ms", path})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, out.String(), "Ran 1 tests, 0 successful, 1 failed")
}
