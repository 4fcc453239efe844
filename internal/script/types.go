// Package script turns a lexed token stream into a tree of test suites
// and test cases: line splitting, grammar validation via internal/fsm,
// and option-table driven settings with weak-merge inheritance.
package script

import (
	"time"

	"github.com/markatk/sertest/internal/codec"
	"github.com/markatk/sertest/internal/invariant"
)

// TestCaseSettings carries every per-case option. Every field is
// optional: nil means "inherit from the suite, or fall back to a
// built-in default at run time."
type TestCaseSettings struct {
	IgnoreCase   *bool
	Repeat       *uint32
	Delay        *time.Duration
	Timeout      *time.Duration
	AllowFailure *bool
	Verbose      *bool
}

// MergeWeak copies each field from other into s, but only where s's own
// field is still unset. Explicitly set fields on s always win. Intended
// to run exactly once, when a case is pushed into its suite.
func (s *TestCaseSettings) MergeWeak(other TestCaseSettings) {
	if s.IgnoreCase == nil {
		s.IgnoreCase = other.IgnoreCase
	}
	if s.Repeat == nil {
		s.Repeat = other.Repeat
	}
	if s.Delay == nil {
		s.Delay = other.Delay
	}
	if s.Timeout == nil {
		s.Timeout = other.Timeout
	}
	if s.AllowFailure == nil {
		s.AllowFailure = other.AllowFailure
	}
	if s.Verbose == nil {
		s.Verbose = other.Verbose
	}
}

func (s TestCaseSettings) ignoreCase() bool   { return s.IgnoreCase != nil && *s.IgnoreCase }
func (s TestCaseSettings) allowFailure() bool { return s.AllowFailure != nil && *s.AllowFailure }
func (s TestCaseSettings) verbose() bool      { return s.Verbose != nil && *s.Verbose }
func (s TestCaseSettings) repeat() uint32 {
	if s.Repeat == nil {
		return 0
	}
	return *s.Repeat
}

// IsIgnoreCase, IsAllowFailure, IsVerbose, and RepeatCount expose the resolved
// (default-applied) value of each option for callers outside the
// package, such as the execution engine and the report formatter.
func (s TestCaseSettings) IsIgnoreCase() bool   { return s.ignoreCase() }
func (s TestCaseSettings) IsAllowFailure() bool { return s.allowFailure() }
func (s TestCaseSettings) IsVerbose() bool      { return s.verbose() }
func (s TestCaseSettings) RepeatCount() uint32  { return s.repeat() }

// TestSuiteSettings holds suite-wide policy. Unlike TestCaseSettings its
// fields are not optional - there is nothing to inherit them from.
type TestSuiteSettings struct {
	StopOnFailure bool
}

// DefaultTestSuiteSettings returns the default suite policy: stop on the
// first failing case.
func DefaultTestSuiteSettings() TestSuiteSettings {
	return TestSuiteSettings{StopOnFailure: true}
}

// Verdict is the tri-state result of running a TestCase.
type Verdict int

const (
	Unrun Verdict = iota
	Passed
	Failed
)

// TestCase is one stimulus/response test. Name, Input, Output,
// InputFormat, and OutputFormat are fixed at construction; Settings is
// changed once more, when Push weak-merges the suite defaults into it,
// and never afterward; Response/Successful/Err are written exactly
// once, by the execution engine, when the case runs.
type TestCase struct {
	Name         string
	Input        string
	Output       string // a regular expression pattern
	InputFormat  codec.TextFormat
	OutputFormat codec.TextFormat
	Settings     TestCaseSettings

	Response   *string
	Successful *bool
	Err        error
}

// Verdict derives the case's tri-state result from Successful/Err.
func (c *TestCase) Verdict() Verdict {
	switch {
	case c.Successful == nil && c.Err == nil:
		return Unrun
	case c.Successful != nil && *c.Successful:
		return Passed
	default:
		return Failed
	}
}

// TestSuite is a named, ordered collection of TestCases sharing defaults.
type TestSuite struct {
	Name         string
	Settings     TestSuiteSettings
	TestSettings TestCaseSettings
	Tests        []*TestCase
}

// NewTestSuite creates an empty suite with default settings.
func NewTestSuite(name string) *TestSuite {
	return &TestSuite{Name: name, Settings: DefaultTestSuiteSettings()}
}

// Push appends tc and immediately weak-merges the suite's TestSettings
// into it. This is the only time a case's settings are mutated.
func (ts *TestSuite) Push(tc *TestCase) {
	invariant.NotNil(tc, "tc")
	invariant.Precondition(tc.Successful == nil && tc.Err == nil, "case %q must not have run before being pushed into a suite", tc.Name)

	tc.Settings.MergeWeak(ts.TestSettings)
	ts.Tests = append(ts.Tests, tc)
}

// Successful counts cases that ran to completion and either passed, or
// failed while allow-failure is set.
func (ts *TestSuite) Successful() int {
	n := 0
	for _, tc := range ts.Tests {
		if tc.Verdict() == Unrun {
			continue
		}
		if (tc.Successful != nil && *tc.Successful) || tc.Settings.IsAllowFailure() {
			n++
		}
	}
	return n
}

// Failed counts cases that ran to completion and did not satisfy the
// Successful predicate above. A case that errored (Err set, Successful
// nil) counts as failed unless allow-failure is set.
func (ts *TestSuite) Failed() int {
	n := 0
	for _, tc := range ts.Tests {
		if tc.Verdict() == Unrun {
			continue
		}
		if (tc.Successful != nil && *tc.Successful) || tc.Settings.IsAllowFailure() {
			continue
		}
		n++
	}
	return n
}

// Unrun counts cases that never ran (stopped early by stop-on-failure).
func (ts *TestSuite) Unrun() int {
	n := 0
	for _, tc := range ts.Tests {
		if tc.Verdict() == Unrun {
			n++
		}
	}
	return n
}
