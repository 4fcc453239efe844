package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/markatk/sertest/internal/watch"
)

// watchRun re-invokes runOnce every time path changes on disk, until the
// process receives an interrupt. Errors from a single run are reported
// but never stop the watch loop; only a watcher-level failure (e.g. the
// directory disappearing) does.
func watchRun(ctx context.Context, path string, runOnce func() (bool, error)) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	return watch.Run(ctx, path, func() {
		ok, err := runOnce()
		switch {
		case err != nil && err != errSilent:
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		case !ok:
			fmt.Fprintln(os.Stderr, "(failures above; waiting for the next change)")
		}
	})
}
