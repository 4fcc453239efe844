package exec

import (
	"github.com/markatk/sertest/internal/script"
	"github.com/markatk/sertest/internal/serialport"
)

// SuiteResult reports whether a suite ran to completion or stopped
// early because of stop_on_failure.
type SuiteResult struct {
	// Completed is false when stop_on_failure cut the run short.
	Completed bool
}

// RunSuite executes every case in suite against port, in insertion
// order, honoring stop_on_failure against each case's raw (not
// allow-failure-adjusted) verdict: a case with allow_failure set still
// halts the suite here even though it later counts as successful. A
// case that errors fatally (RunCase returns a non-nil error) is
// recorded on the case and treated exactly like a failed case for this
// decision - the suite policy, not the error itself, decides whether
// the run continues.
func RunSuite(suite *script.TestSuite, port serialport.Port) SuiteResult {
	for _, tc := range suite.Tests {
		_ = RunCase(tc, port) // error, if any, is already recorded on tc.Err

		failed := tc.Err != nil || (tc.Successful != nil && !*tc.Successful)
		if suite.Settings.StopOnFailure && failed {
			return SuiteResult{Completed: false}
		}
	}
	return SuiteResult{Completed: true}
}

// Totals aggregates successful/failed/unrun counts across one or more
// suites. A case counts as successful if it ran to completion and
// either passed or failed with allow_failure set; as failed if it ran
// and did not; and is excluded entirely if it never ran.
type Totals struct {
	Successful int
	Failed     int
	Unrun      int
}

// Aggregate sums Successful/Failed/Unrun across every suite in suites.
func Aggregate(suites []*script.TestSuite) Totals {
	var t Totals
	for _, s := range suites {
		t.Successful += s.Successful()
		t.Failed += s.Failed()
		t.Unrun += s.Unrun()
	}
	return t
}

// RunAll runs every suite in order, stopping the whole run early only
// when a suite itself stops early under its own stop_on_failure policy
// (already resolved against any CLI override, see cmd/sertest). A fatal
// per-case error is never special-cased here: RunSuite has already
// folded it into that same stop_on_failure decision.
func RunAll(suites []*script.TestSuite, port serialport.Port) []SuiteResult {
	results := make([]SuiteResult, 0, len(suites))
	for _, s := range suites {
		r := RunSuite(s, port)
		results = append(results, r)
		if !r.Completed {
			break
		}
	}
	return results
}
