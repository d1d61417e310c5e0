// errors.go: error taxonomy and caret-snippet rendering.
//
// Three error kinds cover the pipeline: LexError (tokenize), ParseError
// (parse), EvalError (eval). All are terminal for the call that raised them;
// recovery is the REPL driver's job. WrapErrorWithSource augments lex/parse
// errors with a numbered snippet of the offending source, caret included when
// a column is known, and returns every other error unchanged.
package cppython

import (
	"fmt"
	"strings"
)

// LexError is a fatal tokenization failure. Line and Col are 1-based.
type LexError struct {
	Line int
	Col  int
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ParseError is a fatal grammar violation. Line is 1-based; the parser works
// from tokens, which carry no column.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at line %d: %s", e.Line, e.Msg)
}

// EvalError is a fatal runtime failure (undefined variable, division by
// zero, unsupported operation or type).
type EvalError struct {
	Msg string
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR: %s", e.Msg)
}

// WrapErrorWithSource returns err augmented with a source snippet when err is
// a *LexError or *ParseError; any other error is returned as-is.
func WrapErrorWithSource(err error, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", prettyErrorString(src, "LEXICAL ERROR", e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", prettyErrorString(src, "PARSE ERROR", e.Line, 0, e.Msg))
	default:
		return err
	}
}

// prettyErrorString builds a Python-like snippet with a header, up to one
// line of context on each side, and a caret under col when col >= 1.
// Out-of-range coordinates are clamped so rendering never fails.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line < 1 {
		line = 1
	}
	if line > len(lines) {
		line = len(lines)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s at line %d: %s\n\n", header, line, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	if col >= 1 {
		fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	}
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
