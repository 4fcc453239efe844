package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListCommandReportsUnsupportedEnumeration(t *testing.T) {
	cmd := newListCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, cmd.Execute())
	require.Contains(t, out.String(), "not supported")
}
