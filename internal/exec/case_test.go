package exec

import (
	"testing"
	"time"

	"github.com/markatk/sertest/internal/codec"
	"github.com/markatk/sertest/internal/script"
	"github.com/markatk/sertest/internal/serialport"
	"github.com/stretchr/testify/require"
)

// scriptedPort is a deterministic Port test double: each Read call
// returns the next queued chunk (or times out once the queue is
// drained), and every Write is recorded for assertions. Unlike
// serialport.Loopback it never depends on goroutine scheduling, which
// matters for the prefix short-circuit timing assertion below.
type scriptedPort struct {
	reads    [][]byte
	readIdx  int
	writes   [][]byte
	timeout  time.Duration
	writeErr error
}

func (p *scriptedPort) Write(b []byte) (int, error) {
	if p.writeErr != nil {
		return 0, p.writeErr
	}
	cp := append([]byte(nil), b...)
	p.writes = append(p.writes, cp)
	return len(b), nil
}

func (p *scriptedPort) Read(buf []byte) (int, error) {
	if p.readIdx >= len(p.reads) {
		return 0, serialport.ErrTimeout
	}
	chunk := p.reads[p.readIdx]
	p.readIdx++
	return copy(buf, chunk), nil
}

func (p *scriptedPort) Timeout() time.Duration     { return p.timeout }
func (p *scriptedPort) SetTimeout(d time.Duration) { p.timeout = d }
func (p *scriptedPort) Close() error               { return nil }

// scenario 1: plain text round-trip.
func TestRunCasePlainTextRoundTrip(t *testing.T) {
	port := &scriptedPort{reads: [][]byte{[]byte("PONG\n")}, timeout: 50 * time.Millisecond}
	tc := &script.TestCase{Input: "PING\n", Output: "PONG\n"}

	require.NoError(t, RunCase(tc, port))
	require.NotNil(t, tc.Successful)
	require.True(t, *tc.Successful)
	require.Equal(t, "PONG\n", *tc.Response)
	require.Equal(t, [][]byte{[]byte("PING\n")}, port.writes)
}

// scenario 2: hex match.
func TestRunCaseHexMatch(t *testing.T) {
	port := &scriptedPort{reads: [][]byte{{0x48, 0x49}}, timeout: 50 * time.Millisecond}
	tc := &script.TestCase{
		Input: "4849", Output: "4849",
		InputFormat: codec.Hex, OutputFormat: codec.Hex,
	}

	require.NoError(t, RunCase(tc, port))
	require.True(t, *tc.Successful)
	require.Equal(t, "4849", *tc.Response)
	require.Equal(t, [][]byte{{0x48, 0x49}}, port.writes)
}

// scenario 3: ignore case.
func TestRunCaseIgnoreCase(t *testing.T) {
	port := &scriptedPort{reads: [][]byte{[]byte("abc")}, timeout: 50 * time.Millisecond}
	ignoreCase := true
	tc := &script.TestCase{
		Input: "abc", Output: "ABC",
		Settings: script.TestCaseSettings{IgnoreCase: &ignoreCase},
	}

	require.NoError(t, RunCase(tc, port))
	require.True(t, *tc.Successful)
	require.Equal(t, "abc", *tc.Response)
}

// scenario 4: prefix short-circuit - response diverges from expected
// after two bytes, and the engine must stop reading without consuming
// the port's full timeout.
func TestRunCasePrefixShortCircuit(t *testing.T) {
	port := &scriptedPort{reads: [][]byte{[]byte("HX")}, timeout: 2 * time.Second}
	tc := &script.TestCase{Input: "X", Output: "HELLO"}

	start := time.Now()
	require.NoError(t, RunCase(tc, port))
	require.Less(t, time.Since(start), time.Second, "prefix divergence must short-circuit before the port timeout")
	require.False(t, *tc.Successful)
	require.Equal(t, "HX", *tc.Response)
}

// scenario 5: repeat with allow-failure. The engine stops the repeat
// loop at the first mismatch rather than exhausting every repeat. With
// allow_failure set, the
// mismatched-but-errorless case still counts as successful in suite
// aggregation.
func TestRunCaseRepeatAllowFailureCountsSuccessfulWhenAllowed(t *testing.T) {
	port := &scriptedPort{reads: [][]byte{[]byte("z")}, timeout: 50 * time.Millisecond}
	allowFailure := true
	repeat := uint32(2)
	tc := &script.TestCase{
		Input: "a", Output: "b",
		Settings: script.TestCaseSettings{AllowFailure: &allowFailure, Repeat: &repeat},
	}
	suite := script.NewTestSuite("")
	suite.Push(tc)

	require.NoError(t, RunCase(tc, port))
	require.NotNil(t, tc.Successful)
	require.False(t, *tc.Successful)
	require.Equal(t, "z", *tc.Response)
	require.Len(t, port.writes, 1, "a mismatch stops the repeat loop instead of exhausting all repeats")

	require.Equal(t, 1, suite.Successful())
	require.Equal(t, 0, suite.Failed())
}

func TestRunCaseWriteErrorIsFatal(t *testing.T) {
	tc := &script.TestCase{Input: "x", Output: "y"}
	port := &scriptedPort{writeErr: errBoom, timeout: time.Millisecond}
	err := RunCase(tc, port)
	require.Error(t, err)
	require.Nil(t, tc.Successful)
	require.Error(t, tc.Err)
}

func TestRunCaseTimeoutWithEmptyResponseIsFatal(t *testing.T) {
	port := &scriptedPort{timeout: 5 * time.Millisecond}
	tc := &script.TestCase{Input: "x", Output: "y"}

	err := RunCase(tc, port)
	require.Error(t, err)
	require.True(t, serialport.IsTimeout(err.(*RunError).Cause))
}

func TestRunCaseTimeoutWithNonEmptyResponseIsMismatch(t *testing.T) {
	port := &scriptedPort{reads: [][]byte{[]byte("HE")}, timeout: 10 * time.Millisecond}
	tc := &script.TestCase{Input: "x", Output: "HELLO"}

	require.NoError(t, RunCase(tc, port))
	require.False(t, *tc.Successful)
	require.Equal(t, "HE", *tc.Response)
}

var errBoom = &RunError{Kind: KindSerial}
