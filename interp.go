package cppython

// Interp owns the global environment and a reusable lexer, and drives the
// tokenize/parse/eval pipeline for one source chunk at a time. State
// persists across calls, which is what gives the REPL its session memory.
type Interp struct {
	Globals *Env
	lexer   *Lexer
}

func NewInterp() *Interp {
	return &Interp{Globals: NewEnv(), lexer: NewLexer()}
}

// RunEntry executes one input chunk (a REPL entry or a whole script) and
// returns the value of its last statement. The bool reports whether that
// last statement was an assignment, which the REPL uses to suppress echo.
// Lex and parse failures come back annotated with a source snippet.
func (i *Interp) RunEntry(src string) (Value, bool, error) {
	toks, err := i.lexer.Tokenize(src)
	if err != nil {
		return Value{}, false, WrapErrorWithSource(err, src)
	}
	stmts, err := NewParser(toks).ParseProgram()
	if err != nil {
		return Value{}, false, WrapErrorWithSource(err, src)
	}

	last := Value{}
	lastAssign := false
	for _, stmt := range stmts {
		v, sig, err := stmt.Eval(i.Globals)
		if err != nil {
			return Value{}, false, err
		}
		// A signal that reaches the top level had no loop to land in.
		switch sig {
		case SigBreak:
			return Value{}, false, &EvalError{Msg: "'break' outside loop"}
		case SigContinue:
			return Value{}, false, &EvalError{Msg: "'continue' outside loop"}
		}
		last = v
		_, lastAssign = stmt.(*AssignNode)
	}
	return last, lastAssign, nil
}

// RunSource is RunEntry without the echo hint.
func (i *Interp) RunSource(src string) (Value, error) {
	v, _, err := i.RunEntry(src)
	return v, err
}
