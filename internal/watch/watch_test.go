package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRunCallsOnChangeImmediatelyAndOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.txt")
	require.NoError(t, os.WriteFile(path, []byte("group basic {}\n"), 0o644))

	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, path, func() { atomic.AddInt32(&calls, 1) })
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 1
	}, time.Second, 10*time.Millisecond, "onChange must fire once before any file event")

	require.NoError(t, os.WriteFile(path, []byte("group basic { case \"x\" -> \"y\" }\n"), 0o644))

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 2
	}, 2*time.Second, 10*time.Millisecond, "a write to the watched file must trigger a second onChange")

	cancel()
	require.NoError(t, <-done)
}

func TestRunIgnoresUnrelatedFilesInSameDirectory(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "suite.txt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(path, []byte("group basic {}\n"), 0o644))

	var calls int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, path, func() { atomic.AddInt32(&calls, 1) })
	}()

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) >= 1
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(other, []byte("noise"), 0o644))
	time.Sleep(300 * time.Millisecond)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls), "writes to unrelated files must not trigger onChange")

	cancel()
	require.NoError(t, <-done)
}
