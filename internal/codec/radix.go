package codec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrOddLength is returned when a radix string has an odd number of digit
// characters after prefix/whitespace stripping - there is no well-defined
// way to split it into whole bytes, so this is treated as an error rather
// than a silently truncated parse.
var ErrOddLength = errors.New("codec: odd number of digits, cannot split into whole bytes")

// ErrInvalidUTF8 is returned by RadixString(Text) on malformed input.
var ErrInvalidUTF8 = errors.New("codec: invalid UTF-8 sequence")

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
}

func bytesFromRadixChunks(s string, radix int) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, ErrOddLength
	}
	out := make([]byte, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		v, err := strconv.ParseUint(s[i:i+2], radix, 8)
		if err != nil {
			return nil, fmt.Errorf("codec: invalid digits %q: %w", s[i:i+2], err)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// BytesFromHex parses a hex-encoded string (optional "0x"/"0X" prefix) two
// characters at a time into raw bytes.
func BytesFromHex(s string) ([]byte, error) {
	s = stripWhitespace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return bytesFromRadixChunks(s, 16)
}

// BytesFromBinary parses a binary-encoded string (optional "0b"/"0B"
// prefix) two characters at a time into raw bytes.
func BytesFromBinary(s string) ([]byte, error) {
	s = stripWhitespace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0b"), "0B")
	return bytesFromRadixChunks(s, 2)
}

// BytesFromOctal parses an octal-encoded string, stripping a single
// leading '0' (not a whole run of zeros) before parsing.
func BytesFromOctal(s string) ([]byte, error) {
	s = stripWhitespace(s)
	if strings.HasPrefix(s, "0") {
		s = s[1:]
	}
	return bytesFromRadixChunks(s, 8)
}

// BytesFromDecimal parses a decimal-encoded string two characters at a
// time into raw bytes.
func BytesFromDecimal(s string) ([]byte, error) {
	s = stripWhitespace(s)
	return bytesFromRadixChunks(s, 10)
}

// BytesFromRadix dispatches to the BytesFrom* function matching format.
// Text has no radix representation and is rejected.
func BytesFromRadix(s string, format TextFormat) ([]byte, error) {
	switch format {
	case Binary:
		return BytesFromBinary(s)
	case Octal:
		return BytesFromOctal(s)
	case Decimal:
		return BytesFromDecimal(s)
	case Hex:
		return BytesFromHex(s)
	default:
		return nil, fmt.Errorf("codec: %s has no radix representation", format)
	}
}

// RadixString renders bytes as text in the given format. Text decodes the
// bytes as UTF-8; the other formats render each byte independently with a
// fixed width and no separators (binary 8 chars, octal 4, decimal
// unpadded, hex 2 uppercase chars).
func RadixString(b []byte, format TextFormat) (string, error) {
	if format == Text {
		if !utf8.Valid(b) {
			return "", ErrInvalidUTF8
		}
		return string(b), nil
	}

	var sb strings.Builder
	for _, by := range b {
		switch format {
		case Binary:
			fmt.Fprintf(&sb, "%08b", by)
		case Octal:
			fmt.Fprintf(&sb, "%04o", by)
		case Decimal:
			fmt.Fprintf(&sb, "%d", by)
		case Hex:
			fmt.Fprintf(&sb, "%02X", by)
		default:
			return "", fmt.Errorf("codec: unknown format %v", format)
		}
	}
	return sb.String(), nil
}

// EscapeText replaces the two-character sequences \r, \n, \t with their
// single-character equivalents, in that order.
func EscapeText(s string) string {
	s = strings.ReplaceAll(s, `\r`, "\r")
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	return s
}

// AddNewline appends the CR and/or LF terminators selected by nf, rendered
// in the given text format: literal control bytes for Text, or the same
// fixed-width radix encoding RadixString uses for the other formats.
func AddNewline(s string, format TextFormat, nf NewlineFormat) (string, error) {
	if nf == NewlineNone {
		return s, nil
	}

	var bytesToAppend []byte
	switch nf {
	case NewlineCR:
		bytesToAppend = []byte{0x0D}
	case NewlineLF:
		bytesToAppend = []byte{0x0A}
	case NewlineBoth:
		bytesToAppend = []byte{0x0D, 0x0A}
	}

	if format == Text {
		return s + string(bytesToAppend), nil
	}
	rendered, err := RadixString(bytesToAppend, format)
	if err != nil {
		return "", err
	}
	return s + rendered, nil
}

// wrapWidths gives the number of encoded bytes per line used by
// PrettyRadixString's row-wrapped display formatting.
var wrapWidths = map[TextFormat]int{
	Binary:  10,
	Octal:   16,
	Decimal: 18,
	Hex:     20,
}

// PrettyRadixString renders bytes as row-wrapped text for human-facing CLI
// output (send/check). It never feeds back into the codec or
// execution engine - it is presentation only.
func PrettyRadixString(b []byte, format TextFormat) ([]string, error) {
	if format == Text {
		s, err := RadixString(b, format)
		if err != nil {
			return nil, err
		}
		return []string{s}, nil
	}

	width, ok := wrapWidths[format]
	if !ok {
		return nil, fmt.Errorf("codec: unknown format %v", format)
	}

	var lines []string
	for i := 0; i < len(b); i += width {
		end := i + width
		if end > len(b) {
			end = len(b)
		}
		chunk, err := RadixString(b[i:end], format)
		if err != nil {
			return nil, err
		}
		lines = append(lines, chunk)
	}
	if lines == nil {
		lines = []string{""}
	}
	return lines, nil
}
