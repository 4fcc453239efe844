package script

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/markatk/sertest/internal/codec"
	"github.com/markatk/sertest/internal/fsm"
	"github.com/markatk/sertest/internal/lexer"
)

// Analyze runs the full pipeline - lex, line-split, grammar-validate,
// and extract - over script source text, returning the suites in
// script-definition order. Parsing is all-or-nothing: the first error
// aborts with no partial result.
func Analyze(src string) ([]*TestSuite, error) {
	return ParseTokens(lexer.Tokens(src))
}

// ParseTokens runs the pipeline over an already-lexed token stream.
func ParseTokens(tokens []lexer.Token) ([]*TestSuite, error) {
	lines, err := splitLines(tokens)
	if err != nil {
		return nil, err
	}

	var suites []*TestSuite
	for _, line := range lines {
		first := line[0].Kind
		switch {
		case first == lexer.LeftGroupParenthesis:
			suite, err := parseGroupLine(line)
			if err != nil {
				return nil, err
			}
			suites = append(suites, suite)

		case first == lexer.LeftTestParenthesis || first == lexer.FormatSpecifier || first == lexer.Content:
			if len(suites) == 0 {
				suites = append(suites, NewTestSuite(""))
			}
			tc, err := parseCaseLine(line)
			if err != nil {
				return nil, err
			}
			suites[len(suites)-1].Push(tc)

		default:
			return nil, &ParseError{Kind: InvalidLineStart, Detail: first.String(), Line: line[0].Line, Column: line[0].Column}
		}
	}

	return suites, nil
}

// splitLines walks the token stream, closing a logical line at each
// Newline (or at EndOfFile) and aborting immediately on any Illegal
// token.
func splitLines(tokens []lexer.Token) ([][]lexer.Token, error) {
	var lines [][]lexer.Token
	var current []lexer.Token

	for _, tok := range tokens {
		switch tok.Kind {
		case lexer.Illegal:
			return nil, &ParseError{Kind: IllegalToken, Detail: tok.Value, Line: tok.Line, Column: tok.Column}
		case lexer.Newline:
			if len(current) > 0 {
				lines = append(lines, current)
				current = nil
			}
		case lexer.EndOfFile:
			if len(current) > 0 {
				lines = append(lines, current)
				current = nil
			}
		default:
			current = append(current, tok)
		}
	}

	return lines, nil
}

// rejectionEntry maps an FSM's rejection/exhaustion state to the
// diagnostic it produces.
type rejectionEntry struct {
	kind   ErrorKind
	detail string
}

// groupMachine validates "[ Identifier ( , Identifier ( = Identifier )? )* ]".
var groupMachine = fsm.Machine[lexer.Token]{
	Initial:   1,
	Accepting: map[fsm.State]bool{4: true},
	Next: func(state fsm.State, tok lexer.Token) fsm.State {
		k := tok.Kind
		switch {
		case state == 1 && k == lexer.LeftGroupParenthesis:
			return 2
		case state == 2 && k == lexer.Identifier:
			return 3
		case state == 3 && k == lexer.RightGroupParenthesis:
			return 4
		case state == 3 && k == lexer.ContentSeparator:
			return 5
		case state == 5 && k == lexer.Identifier:
			return 6
		case state == 6 && k == lexer.OptionSeparator:
			return 7
		case state == 6 && k == lexer.RightGroupParenthesis:
			return 4
		case state == 6 && k == lexer.ContentSeparator:
			return 5
		case state == 7 && k == lexer.Identifier:
			return 3
		default:
			return fsm.Reject
		}
	},
}

var groupRejectionKind = map[fsm.State]rejectionEntry{
	2: {MissingGroupIdentifier, ""},
	3: {MissingClosingParenthesis, "]"},
	5: {MissingOptionIdentifier, ""},
	6: {MissingOptionSeparator, "="},
	7: {MissingOptionValue, ""},
}

// caseMachine validates
// "( Identifier ( , Identifier ( = Identifier )? )* )?  FormatSpecifier? Content  :  FormatSpecifier? Content".
var caseMachine = fsm.Machine[lexer.Token]{
	Initial:   1,
	Accepting: map[fsm.State]bool{9: true},
	Next: func(state fsm.State, tok lexer.Token) fsm.State {
		k := tok.Kind
		switch {
		case state == 1 && k == lexer.LeftTestParenthesis:
			return 2
		case state == 1 && k == lexer.FormatSpecifier:
			return 5
		case state == 1 && k == lexer.Content:
			return 6
		case state == 2 && k == lexer.Identifier:
			return 3
		case state == 3 && k == lexer.RightTestParenthesis:
			return 4
		case state == 3 && k == lexer.ContentSeparator:
			return 10
		case state == 4 && k == lexer.FormatSpecifier:
			return 5
		case state == 4 && k == lexer.Content:
			return 6
		case state == 5 && k == lexer.Content:
			return 6
		case state == 6 && k == lexer.DirectionSeparator:
			return 7
		case state == 7 && k == lexer.FormatSpecifier:
			return 8
		case state == 7 && k == lexer.Content:
			return 9
		case state == 8 && k == lexer.Content:
			return 9
		case state == 10 && k == lexer.Identifier:
			return 11
		case state == 11 && k == lexer.OptionSeparator:
			return 12
		case state == 11 && k == lexer.ContentSeparator:
			return 10
		case state == 11 && k == lexer.RightTestParenthesis:
			return 4
		case state == 12 && k == lexer.Identifier:
			return 3
		default:
			return fsm.Reject
		}
	},
}

var caseRejectionKind = map[fsm.State]rejectionEntry{
	2:  {MissingTestIdentifier, ""},
	3:  {MissingClosingParenthesis, ")"},
	4:  {MissingContent, "input"},
	5:  {MissingContent, "input"},
	6:  {MissingDirectionSeparator, ":"},
	7:  {MissingContent, "output"},
	8:  {MissingContent, "output"},
	10: {MissingOptionIdentifier, ""},
	11: {MissingOptionSeparator, "="},
	12: {MissingOptionValue, ""},
}

// diagnose turns an FSM rejection/exhaustion result into a ParseError. The
// offending token (mid-stream rejection) or the last token consumed
// (stream exhausted in a non-accepting state) gives the reported
// position; the line's own first token is the fallback for an empty
// line, which dispatch never actually produces.
func diagnose(line []lexer.Token, result fsm.Result[lexer.Token], table map[fsm.State]rejectionEntry) error {
	pos := line[len(line)-1]
	if result.HasFailedAt {
		pos = result.FailedAt
	}

	entry, ok := table[result.State]
	if !ok {
		return &ParseError{Kind: InvalidLineStart, Detail: "malformed line", Line: pos.Line, Column: pos.Column}
	}
	return &ParseError{Kind: entry.kind, Detail: entry.detail, Line: pos.Line, Column: pos.Column}
}

func parseGroupLine(line []lexer.Token) (*TestSuite, error) {
	result := fsm.Run(groupMachine, line)
	if !result.Accepted {
		return nil, diagnose(line, result, groupRejectionKind)
	}

	name := strings.TrimSpace(line[1].Value)
	suite := NewTestSuite(name)

	i := 2
	for i < len(line) && line[i].Kind == lexer.ContentSeparator {
		i++ // comma
		nameTok := line[i]
		optName := nameTok.Value
		i++

		var valuePtr *string
		valueTok := nameTok
		if i < len(line) && line[i].Kind == lexer.OptionSeparator {
			i++ // '='
			valueTok = line[i]
			v := valueTok.Value
			valuePtr = &v
			i++
		}

		if err := setGroupOption(optName, valuePtr, nameTok, valueTok, &suite.Settings, &suite.TestSettings); err != nil {
			return nil, err
		}
	}

	return suite, nil
}

func parseCaseLine(line []lexer.Token) (*TestCase, error) {
	result := fsm.Run(caseMachine, line)
	if !result.Accepted {
		return nil, diagnose(line, result, caseRejectionKind)
	}

	i := 0
	name := ""
	settings := TestCaseSettings{}

	if line[0].Kind == lexer.LeftTestParenthesis {
		i = 1
		name = strings.TrimSpace(line[i].Value)
		i++

		for i < len(line) && line[i].Kind == lexer.ContentSeparator {
			i++ // comma
			nameTok := line[i]
			optName := nameTok.Value
			i++

			var valuePtr *string
			valueTok := nameTok
			if i < len(line) && line[i].Kind == lexer.OptionSeparator {
				i++
				valueTok = line[i]
				v := valueTok.Value
				valuePtr = &v
				i++
			}

			if err := setTestOption(optName, valuePtr, nameTok, valueTok, &settings); err != nil {
				return nil, err
			}
		}

		i++ // RightTestParenthesis
	}

	inputFormat := codec.Text
	if line[i].Kind == lexer.FormatSpecifier {
		inputFormat = formatFromToken(line[i])
		i++
	}
	input := line[i].Value
	i++ // Content

	i++ // DirectionSeparator

	outputFormat := codec.Text
	if line[i].Kind == lexer.FormatSpecifier {
		outputFormat = formatFromToken(line[i])
		i++
	}
	output := line[i].Value

	if _, err := regexp.Compile(output); err != nil {
		return nil, &ParseError{Kind: InvalidOutputContent, Detail: fmt.Sprintf("invalid regular expression: %v", err), Line: line[i].Line, Column: line[i].Column}
	}

	return &TestCase{
		Name:         name,
		Input:        input,
		Output:       output,
		InputFormat:  inputFormat,
		OutputFormat: outputFormat,
		Settings:     settings,
	}, nil
}

func formatFromToken(tok lexer.Token) codec.TextFormat {
	f, ok := codec.FormatFromSpecifier(tok.Value[0])
	if !ok {
		return codec.Text
	}
	return f
}
