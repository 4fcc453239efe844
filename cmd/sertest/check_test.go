package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckCommandMatchesLoopbackReply(t *testing.T) {
	cmd := newCheckCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--port", "loopback", "--timeout", "20ms", "--text", "PING", "PING"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "OK")
}

func TestCheckCommandReportsMismatch(t *testing.T) {
	cmd := newCheckCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--port", "loopback", "--timeout", "20ms", "--text", "PING", "PONG"})

	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, out.String(), "Failed")
}

func TestCheckCommandIgnoreCase(t *testing.T) {
	cmd := newCheckCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--port", "loopback", "--timeout", "20ms", "--ignorecase", "--text", "abc", "ABC"})

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "OK")
}
