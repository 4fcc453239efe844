// Package planfmt encodes a parsed suite tree into a compact binary form
// that can be written to disk and read back without re-running the
// lexer/analyzer pipeline, for verify --export and run --compiled.
package planfmt

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/markatk/sertest/internal/codec"
	"github.com/markatk/sertest/internal/script"
)

const (
	// Magic is the 4-byte file marker for a compiled suite file.
	Magic = "SRTP"

	// Version is the format version (uint16, little-endian). Breaking
	// changes to the wire shape below must bump it.
	Version uint16 = 1
)

// CompiledCaseSettings is the wire shape of script.TestCaseSettings.
// Durations are stored as nanoseconds since cbor has no native duration
// type; every value has a companion Set flag that keeps "unset"
// distinguishable from "set to zero".
type CompiledCaseSettings struct {
	IgnoreCase      bool `cbor:"0,keyasint"`
	IgnoreCaseSet   bool `cbor:"1,keyasint"`
	Repeat          uint32 `cbor:"2,keyasint"`
	RepeatSet       bool `cbor:"3,keyasint"`
	DelayNanos      int64 `cbor:"4,keyasint"`
	DelaySet        bool `cbor:"5,keyasint"`
	TimeoutNanos    int64 `cbor:"6,keyasint"`
	TimeoutSet      bool `cbor:"7,keyasint"`
	AllowFailure    bool `cbor:"8,keyasint"`
	AllowFailureSet bool `cbor:"9,keyasint"`
	Verbose         bool `cbor:"10,keyasint"`
	VerboseSet      bool `cbor:"11,keyasint"`
}

// CompiledCase is the wire shape of script.TestCase. Response/Successful/
// Err are intentionally omitted: a compiled suite captures the parsed,
// not-yet-run tree.
type CompiledCase struct {
	Name         string               `cbor:"0,keyasint"`
	Input        string               `cbor:"1,keyasint"`
	Output       string               `cbor:"2,keyasint"`
	InputFormat  uint8                `cbor:"3,keyasint"`
	OutputFormat uint8                `cbor:"4,keyasint"`
	Settings     CompiledCaseSettings `cbor:"5,keyasint"`
}

// CompiledSuite is the wire shape of script.TestSuite.
type CompiledSuite struct {
	Name          string               `cbor:"0,keyasint"`
	StopOnFailure bool                 `cbor:"1,keyasint"`
	TestSettings  CompiledCaseSettings `cbor:"2,keyasint"`
	Tests         []CompiledCase       `cbor:"3,keyasint"`
}

func toWireSettings(s script.TestCaseSettings) CompiledCaseSettings {
	var w CompiledCaseSettings
	if s.IgnoreCase != nil {
		w.IgnoreCase, w.IgnoreCaseSet = *s.IgnoreCase, true
	}
	if s.Repeat != nil {
		w.Repeat, w.RepeatSet = *s.Repeat, true
	}
	if s.Delay != nil {
		w.DelayNanos, w.DelaySet = s.Delay.Nanoseconds(), true
	}
	if s.Timeout != nil {
		w.TimeoutNanos, w.TimeoutSet = s.Timeout.Nanoseconds(), true
	}
	if s.AllowFailure != nil {
		w.AllowFailure, w.AllowFailureSet = *s.AllowFailure, true
	}
	if s.Verbose != nil {
		w.Verbose, w.VerboseSet = *s.Verbose, true
	}
	return w
}

func fromWireSettings(w CompiledCaseSettings) script.TestCaseSettings {
	var s script.TestCaseSettings
	if w.IgnoreCaseSet {
		v := w.IgnoreCase
		s.IgnoreCase = &v
	}
	if w.RepeatSet {
		v := w.Repeat
		s.Repeat = &v
	}
	if w.DelaySet {
		v := durationFromNanos(w.DelayNanos)
		s.Delay = &v
	}
	if w.TimeoutSet {
		v := durationFromNanos(w.TimeoutNanos)
		s.Timeout = &v
	}
	if w.AllowFailureSet {
		v := w.AllowFailure
		s.AllowFailure = &v
	}
	if w.VerboseSet {
		v := w.Verbose
		s.Verbose = &v
	}
	return s
}

// Encode writes suites to w as a compiled suite file.
func Encode(w io.Writer, suites []*script.TestSuite) error {
	wire := make([]CompiledSuite, len(suites))
	for i, s := range suites {
		cases := make([]CompiledCase, len(s.Tests))
		for j, tc := range s.Tests {
			cases[j] = CompiledCase{
				Name:         tc.Name,
				Input:        tc.Input,
				Output:       tc.Output,
				InputFormat:  uint8(tc.InputFormat),
				OutputFormat: uint8(tc.OutputFormat),
				Settings:     toWireSettings(tc.Settings),
			}
		}
		wire[i] = CompiledSuite{
			Name:          s.Name,
			StopOnFailure: s.Settings.StopOnFailure,
			TestSettings:  toWireSettings(s.TestSettings),
			Tests:         cases,
		}
	}

	body, err := cbor.Marshal(wire)
	if err != nil {
		return fmt.Errorf("planfmt: encode body: %w", err)
	}

	var preamble [6]byte
	copy(preamble[0:4], Magic)
	binary.LittleEndian.PutUint16(preamble[4:6], Version)

	if _, err := w.Write(preamble[:]); err != nil {
		return fmt.Errorf("planfmt: write preamble: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("planfmt: write body: %w", err)
	}
	return nil
}

// Decode reads a compiled suite file from r back into a TestSuite tree.
func Decode(r io.Reader) ([]*script.TestSuite, error) {
	var preamble [6]byte
	if _, err := io.ReadFull(r, preamble[:]); err != nil {
		return nil, fmt.Errorf("planfmt: read preamble: %w", err)
	}
	if string(preamble[0:4]) != Magic {
		return nil, fmt.Errorf("planfmt: bad magic %q, expected %q", preamble[0:4], Magic)
	}
	if v := binary.LittleEndian.Uint16(preamble[4:6]); v != Version {
		return nil, fmt.Errorf("planfmt: unsupported version %d, expected %d", v, Version)
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("planfmt: read body: %w", err)
	}

	var wire []CompiledSuite
	if err := cbor.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("planfmt: decode body: %w", err)
	}

	suites := make([]*script.TestSuite, len(wire))
	for i, cs := range wire {
		suite := script.NewTestSuite(cs.Name)
		suite.Settings.StopOnFailure = cs.StopOnFailure
		suite.TestSettings = fromWireSettings(cs.TestSettings)
		for _, cc := range cs.Tests {
			suite.Push(&script.TestCase{
				Name:         cc.Name,
				Input:        cc.Input,
				Output:       cc.Output,
				InputFormat:  codec.TextFormat(cc.InputFormat),
				OutputFormat: codec.TextFormat(cc.OutputFormat),
				Settings:     fromWireSettings(cc.Settings),
			})
		}
		suites[i] = suite
	}
	return suites, nil
}

func durationFromNanos(n int64) time.Duration {
	return time.Duration(n)
}
