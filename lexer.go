package cppython

// TokenType represents the kind of token.
type TokenType int

const (
	ID      TokenType = iota // identifiers
	NUMBER                   // integer and float literals, classified by the parser
	STRING                   // quoted string literals (quotes stripped)
	BOOL                     // True / False
	KEYWORD                  // reserved words: if elif else while break continue def
	OP                       // operators and delimiters
	NEWLINE                  // statement separator
	INDENT                   // block opens (indentation increased)
	DEDENT                   // block closes (indentation decreased)
	EOF                      // internal end marker; never appended to output
)

// Token is a lexical token with its raw text and 1-based source line.
type Token struct {
	Type   TokenType
	Lexeme string
	Line   int
}

var keywords = map[string]bool{
	"if":       true,
	"elif":     true,
	"else":     true,
	"while":    true,
	"break":    true,
	"continue": true,
	"def":      true,
}

// twoCharOps is the fixed set of multi-character operators. The parser
// only ever sees "<=" and ">=" as single tokens because they are merged
// here.
var twoCharOps = map[string]bool{
	"==": true,
	"+=": true,
	"!=": true,
	"-=": true,
	"//": true,
	"**": true,
	"<=": true,
	">=": true,
}

// Lexer scans source text into tokens. An instance is reusable: Tokenize
// resets all scan state at the end of each call, so successive REPL entries
// may share one Lexer.
type Lexer struct {
	src         string
	pos         int
	line        int // 1-based
	col         int // 0-based column within line
	tokens      []Token
	pending     []Token // INDENT/DEDENT queued by newline handling
	indentStack []int
}

func NewLexer() *Lexer { return &Lexer{line: 1} }

// Tokenize converts code into a token sequence. The sequence ends with
// enough DEDENT tokens to close any open blocks; no explicit EOF marker is
// emitted. The only fatal input is an unterminated string literal.
func (l *Lexer) Tokenize(code string) ([]Token, error) {
	l.reset(code)
	for {
		tok, err := l.nextToken()
		if err != nil {
			l.reset("")
			return nil, err
		}
		if tok.Type == EOF {
			break
		}
		// Defensive filter against degenerate empty matches; INDENT and
		// DEDENT are synthetic and carry no lexeme.
		if tok.Lexeme != "" || tok.Type == INDENT || tok.Type == DEDENT {
			l.tokens = append(l.tokens, tok)
		}
	}
	for range l.indentStack {
		l.tokens = append(l.tokens, Token{Type: DEDENT, Line: l.line})
	}
	out := l.tokens
	l.reset("")
	return out, nil
}

func (l *Lexer) reset(code string) {
	l.src = code
	l.pos = 0
	l.line = 1
	l.col = 0
	l.tokens = nil
	l.pending = nil
	l.indentStack = nil
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.col = 0
	} else {
		l.col++
	}
	return ch
}

func (l *Lexer) errHere(msg string) error {
	return &LexError{Line: l.line, Col: l.col + 1, Msg: msg}
}

func (l *Lexer) nextToken() (Token, error) {
	if len(l.pending) > 0 {
		tok := l.pending[0]
		l.pending = l.pending[1:]
		return tok, nil
	}

	l.skipWhitespace()
	l.skipComment()

	if l.isAtEnd() {
		return Token{Type: EOF, Line: l.line}, nil
	}

	ch := l.peek()
	switch {
	case ch == '\n':
		return l.readNewline()
	case isDigit(ch):
		return l.readNumber(), nil
	case ch == '"' || ch == '\'':
		return l.readString()
	case isLetter(ch) || ch == '_':
		return l.readIdentifierOrBool(), nil
	default:
		return l.readOperator(), nil
	}
}

// readNewline consumes the newline, skips blank and comment-only lines, then
// compares the next content line's indentation with the current level and
// queues INDENT/DEDENT tokens accordingly. Returns the NEWLINE token.
func (l *Lexer) readNewline() (Token, error) {
	tok := Token{Type: NEWLINE, Lexeme: "\n", Line: l.line}
	l.advance()

	for {
		width := 0
		for !l.isAtEnd() && (l.peek() == ' ' || l.peek() == '\t') {
			l.advance()
			width++
		}
		l.skipComment()
		if l.isAtEnd() {
			// Nothing but blank space left; close every open block.
			for range l.indentStack {
				l.pending = append(l.pending, Token{Type: DEDENT, Line: l.line})
			}
			l.indentStack = l.indentStack[:0]
			return tok, nil
		}
		if l.peek() == '\n' {
			l.advance()
			continue
		}

		cur := 0
		if n := len(l.indentStack); n > 0 {
			cur = l.indentStack[n-1]
		}
		if width > cur {
			l.indentStack = append(l.indentStack, width)
			l.pending = append(l.pending, Token{Type: INDENT, Line: l.line})
			return tok, nil
		}
		for width < cur {
			l.indentStack = l.indentStack[:len(l.indentStack)-1]
			l.pending = append(l.pending, Token{Type: DEDENT, Line: l.line})
			cur = 0
			if n := len(l.indentStack); n > 0 {
				cur = l.indentStack[n-1]
			}
		}
		if width != cur {
			return Token{}, l.errHere("Inconsistent indentation")
		}
		return tok, nil
	}
}

// readNumber greedily consumes digits and dots; a lexeme with two or more
// dots is accepted here and rejected by the parser at conversion time.
func (l *Lexer) readNumber() Token {
	startLine := l.line
	start := l.pos
	for !l.isAtEnd() && (isDigit(l.peek()) || l.peek() == '.') {
		l.advance()
	}
	return Token{Type: NUMBER, Lexeme: l.src[start:l.pos], Line: startLine}
}

// readString consumes a literal delimited by matching single or double
// quotes. Embedded newlines are kept and counted; reaching end-of-input
// before the closing quote is fatal.
func (l *Lexer) readString() (Token, error) {
	startLine := l.line
	quote := l.advance()
	start := l.pos
	for !l.isAtEnd() && l.peek() != quote {
		l.advance()
	}
	if l.isAtEnd() {
		return Token{}, l.errHere("Unterminated string literal")
	}
	text := l.src[start:l.pos]
	l.advance() // closing quote
	return Token{Type: STRING, Lexeme: text, Line: startLine}, nil
}

// readIdentifierOrBool consumes letters and underscores, then classifies the
// lexeme as a reserved word, boolean literal, or identifier.
func (l *Lexer) readIdentifierOrBool() Token {
	startLine := l.line
	start := l.pos
	for !l.isAtEnd() && (isLetter(l.peek()) || l.peek() == '_') {
		l.advance()
	}
	id := l.src[start:l.pos]
	if keywords[id] {
		return Token{Type: KEYWORD, Lexeme: id, Line: startLine}
	}
	if id == "True" || id == "False" {
		return Token{Type: BOOL, Lexeme: id, Line: startLine}
	}
	return Token{Type: ID, Lexeme: id, Line: startLine}
}

// readOperator emits a single-character operator, upgraded to two characters
// when the pair is in the fixed set. Unrecognized characters pass through as
// one-char operators; the parser rejects them.
func (l *Lexer) readOperator() Token {
	startLine := l.line
	op := l.advance()
	if !l.isAtEnd() {
		combined := string(op) + string(l.peek())
		if twoCharOps[combined] {
			l.advance()
			return Token{Type: OP, Lexeme: combined, Line: startLine}
		}
	}
	return Token{Type: OP, Lexeme: string(op), Line: startLine}
}

func (l *Lexer) skipWhitespace() {
	for !l.isAtEnd() {
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' {
			l.advance()
			continue
		}
		return
	}
}

func (l *Lexer) skipComment() {
	if !l.isAtEnd() && l.peek() == '#' {
		for !l.isAtEnd() && l.peek() != '\n' {
			l.advance()
		}
	}
}

func isDigit(b byte) bool  { return b >= '0' && b <= '9' }
func isLetter(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }
