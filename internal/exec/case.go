package exec

import (
	"regexp"
	"strings"
	"time"

	"github.com/markatk/sertest/internal/codec"
	"github.com/markatk/sertest/internal/invariant"
	"github.com/markatk/sertest/internal/script"
	"github.com/markatk/sertest/internal/serialport"
)

// normalize resolves a case's raw Input/Output string against its
// format: Text-formatted strings get their backslash escapes
// (\r, \n, \t) converted by EscapeText; every other format is passed
// through verbatim and decoded later by encode/RadixString instead.
func normalize(s string, format codec.TextFormat) string {
	if format == codec.Text {
		return codec.EscapeText(s)
	}
	return s
}

// RunCase executes tc once (including any configured repeats) against
// port, writing its Response/Successful/Err fields. It returns the same
// error it records on the case, or nil on a clean pass/fail verdict.
func RunCase(tc *script.TestCase, port serialport.Port) error {
	invariant.NotNil(tc, "tc")
	invariant.NotNil(port, "port")

	input := normalize(tc.Input, tc.InputFormat)
	output := normalize(tc.Output, tc.OutputFormat)
	if tc.Settings.IsIgnoreCase() {
		output = strings.ToLower(output)
	}

	re, err := regexp.Compile(output)
	if err != nil {
		return fail(tc, &RunError{Kind: KindRegex, Cause: err})
	}

	inputBytes, err := encode(input, tc.InputFormat)
	if err != nil {
		return fail(tc, &RunError{Kind: KindNumericParse, Cause: err})
	}

	runs := 1 + int(tc.Settings.RepeatCount())
	var response string
	var passed bool

	for i := 0; i < runs; i++ {
		if d := tc.Settings.Delay; d != nil {
			time.Sleep(*d)
		}

		if _, err := port.Write(inputBytes); err != nil {
			return fail(tc, &RunError{Kind: KindSerial, Cause: err})
		}

		response, err = readResponse(port, tc, output)
		if err != nil {
			return fail(tc, err.(*RunError))
		}

		passed = matchesFully(re, response)
		if !passed {
			break
		}
	}

	tc.Response = &response
	tc.Successful = &passed
	tc.Err = nil
	invariant.Postcondition(tc.Successful != nil && tc.Err == nil, "case %q must carry a verdict and no error once it has run", tc.Name)
	return nil
}

// matchesFully reports whether re matches the entire string, not just a
// substring of it: match start must be 0 and match end the full length.
func matchesFully(re *regexp.Regexp, response string) bool {
	loc := re.FindStringIndex(response)
	return loc != nil && loc[0] == 0 && loc[1] == len(response)
}

// encode turns a normalized string into the bytes actually written to
// the port: raw UTF-8 for Text, or the radix-decoded bytes otherwise.
func encode(s string, format codec.TextFormat) ([]byte, error) {
	if format == codec.Text {
		return []byte(s), nil
	}
	return codec.BytesFromRadix(s, format)
}

// readResponse performs the incremental read loop: repeatedly reading
// from port, decoding each chunk per outputFormat, and terminating on
// exact match, prefix divergence, or a timeout.
func readResponse(port serialport.Port, tc *script.TestCase, expected string) (string, error) {
	var sb strings.Builder

	prevTimeout := port.Timeout()
	timeout := prevTimeout
	if tc.Settings.Timeout != nil {
		timeout = *tc.Settings.Timeout
	}
	port.SetTimeout(timeout)
	defer port.SetTimeout(prevTimeout)

	buf := make([]byte, 4096)
	for {
		n, err := port.Read(buf)
		if err != nil {
			if serialport.IsTimeout(err) {
				if sb.Len() == 0 {
					return "", &RunError{Kind: KindTimeout, Cause: err}
				}
				return sb.String(), nil
			}
			return "", &RunError{Kind: KindSerial, Cause: err}
		}

		chunk, err := codec.RadixString(buf[:n], tc.OutputFormat)
		if err != nil {
			kind := KindNumericParse
			if tc.OutputFormat == codec.Text {
				kind = KindUTF8Decode
			}
			return "", &RunError{Kind: kind, Cause: err}
		}
		if tc.Settings.IsIgnoreCase() {
			chunk = strings.ToLower(chunk)
		}
		sb.WriteString(chunk)
		response := sb.String()

		if response == expected {
			return response, nil
		}
		if !strings.HasPrefix(expected, response) {
			return response, nil
		}
	}
}

func fail(tc *script.TestCase, err *RunError) error {
	tc.Err = err
	tc.Successful = nil
	invariant.Postcondition(tc.Err != nil && tc.Successful == nil, "case %q must carry an error and no verdict once it has failed to run", tc.Name)
	return err
}
