// Package codec implements bidirectional byte<->text conversion in five
// text formats, plus the newline/escape helpers the script language and
// execution engine both depend on.
package codec

import "fmt"

// TextFormat selects how a quoted string's bytes are represented as text.
type TextFormat int

const (
	Text TextFormat = iota
	Binary
	Octal
	Decimal
	Hex
)

// Radix returns the numeric base implied by the format. Text has no radix.
func (f TextFormat) Radix() int {
	switch f {
	case Binary:
		return 2
	case Octal:
		return 8
	case Decimal:
		return 10
	case Hex:
		return 16
	default:
		return 0
	}
}

func (f TextFormat) String() string {
	switch f {
	case Text:
		return "text"
	case Binary:
		return "binary"
	case Octal:
		return "octal"
	case Decimal:
		return "decimal"
	case Hex:
		return "hex"
	default:
		return fmt.Sprintf("TextFormat(%d)", int(f))
	}
}

// FormatFromSpecifier maps the lexer's single-character format specifier
// (b/o/d/h) to a TextFormat. ok is false for any other character.
func FormatFromSpecifier(c byte) (TextFormat, bool) {
	switch c {
	case 'b':
		return Binary, true
	case 'o':
		return Octal, true
	case 'd':
		return Decimal, true
	case 'h':
		return Hex, true
	default:
		return 0, false
	}
}

// NewlineFormat is a policy tag resolved against the current TextFormat by
// AddNewline; it carries no encoding logic of its own.
type NewlineFormat int

const (
	NewlineNone NewlineFormat = iota
	NewlineCR
	NewlineLF
	NewlineBoth
)
