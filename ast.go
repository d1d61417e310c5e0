package cppython

import (
	"math"
	"strings"
)

// Signal is a non-local control transfer raised by break/continue and
// consumed by the nearest enclosing while-loop. It travels as an explicit
// result alongside the value so every caller handles propagation; a signal
// that escapes the outermost statement is converted to an EvalError by the
// Interp.
type Signal int

const (
	SigNone Signal = iota
	SigBreak
	SigContinue
)

// Node is an AST node: it can evaluate itself against an environment and
// render itself back as source text (canonical form, parens re-added around
// every binary operation).
type Node interface {
	Eval(env *Env) (Value, Signal, error)
	String() string
}

// evalStatements runs a statement sequence, threading the running last
// value. A signal stops the walk and returns the value accumulated so far;
// the caller decides whether to consume or propagate it.
func evalStatements(stmts []Node, env *Env, last Value) (Value, Signal, error) {
	for _, stmt := range stmts {
		v, sig, err := stmt.Eval(env)
		if err != nil {
			return Value{}, SigNone, err
		}
		if sig != SigNone {
			return last, sig, nil
		}
		last = v
	}
	return last, SigNone, nil
}

// ValueNode holds a literal.
type ValueNode struct {
	Val Value
}

func (n *ValueNode) Eval(env *Env) (Value, Signal, error) { return n.Val, SigNone, nil }
func (n *ValueNode) String() string                       { return n.Val.String() }

// VarNode is a variable reference.
type VarNode struct {
	Name string
}

func (n *VarNode) Eval(env *Env) (Value, Signal, error) {
	v, err := env.Get(n.Name)
	return v, SigNone, err
}

func (n *VarNode) String() string { return n.Name }

// AssignNode stores the evaluated expression under the target name and
// yields that same value.
type AssignNode struct {
	Name string
	Expr Node
}

func (n *AssignNode) Eval(env *Env) (Value, Signal, error) {
	v, sig, err := n.Expr.Eval(env)
	if err != nil || sig != SigNone {
		return Value{}, sig, err
	}
	env.Set(n.Name, v)
	return v, SigNone, nil
}

func (n *AssignNode) String() string { return n.Name + " = " + n.Expr.String() }

// BinOpNode applies a binary operator. Both operands evaluate eagerly; the
// operation dispatches on the runtime type pairing of the results.
type BinOpNode struct {
	Left  Node
	Op    string
	Right Node
}

func (n *BinOpNode) Eval(env *Env) (Value, Signal, error) {
	l, sig, err := n.Left.Eval(env)
	if err != nil || sig != SigNone {
		return Value{}, sig, err
	}
	r, sig, err := n.Right.Eval(env)
	if err != nil || sig != SigNone {
		return Value{}, sig, err
	}
	v, err := applyBinOp(l, n.Op, r)
	return v, SigNone, err
}

func (n *BinOpNode) String() string {
	return "(" + n.Left.String() + " " + n.Op + " " + n.Right.String() + ")"
}

func applyBinOp(l Value, op string, r Value) (Value, error) {
	if l.isNumeric() && r.isNumeric() {
		return evalTwoNumbers(l, op, r)
	}
	if l.Tag == VTStr && r.Tag == VTStr {
		return evalTwoStrings(l, op, r)
	}
	if (l.Tag == VTInt && r.Tag == VTStr) || (l.Tag == VTStr && r.Tag == VTInt) {
		return evalIntAndString(l, op, r)
	}
	return Value{}, &EvalError{Msg: "Unsupported operation: " + op}
}

// evalTwoNumbers applies Python arithmetic: int∘int stays int for + - * and
// for ** with a non-negative exponent; / always yields a float; // and %
// floor-divide and floor-mod; any float operand widens the result.
func evalTwoNumbers(l Value, op string, r Value) (Value, error) {
	bothInt := l.Tag == VTInt && r.Tag == VTInt
	lf, rf := l.asFloat(), r.asFloat()

	switch op {
	case "+":
		if bothInt {
			return Int(l.Data.(int64) + r.Data.(int64)), nil
		}
		return Num(lf + rf), nil
	case "-":
		if bothInt {
			return Int(l.Data.(int64) - r.Data.(int64)), nil
		}
		return Num(lf - rf), nil
	case "*":
		if bothInt {
			return Int(l.Data.(int64) * r.Data.(int64)), nil
		}
		return Num(lf * rf), nil
	case "**":
		if bothInt && r.Data.(int64) >= 0 {
			return Int(ipow(l.Data.(int64), r.Data.(int64))), nil
		}
		return Num(math.Pow(lf, rf)), nil
	case "/", "//", "%":
		if rf == 0 {
			return Value{}, &EvalError{Msg: "Division by zero"}
		}
		switch op {
		case "/":
			return Num(lf / rf), nil
		case "//":
			if bothInt {
				return Int(floorDiv(l.Data.(int64), r.Data.(int64))), nil
			}
			return Num(math.Floor(lf / rf)), nil
		default:
			if bothInt {
				return Int(floorMod(l.Data.(int64), r.Data.(int64))), nil
			}
			return Num(floorModFloat(lf, rf)), nil
		}
	case "==":
		return Bool(lf == rf), nil
	case "!=":
		return Bool(lf != rf), nil
	case ">":
		return Bool(lf > rf), nil
	case ">=":
		return Bool(lf >= rf), nil
	case "<":
		return Bool(lf < rf), nil
	case "<=":
		return Bool(lf <= rf), nil
	default:
		return Value{}, &EvalError{Msg: "Unsupported operation: " + op}
	}
}

func evalTwoStrings(l Value, op string, r Value) (Value, error) {
	ls, rs := l.Data.(string), r.Data.(string)
	switch op {
	case "+":
		return Str(ls + rs), nil
	case "==":
		return Bool(ls == rs), nil
	case "!=":
		return Bool(ls != rs), nil
	case "<":
		return Bool(ls < rs), nil
	case "<=":
		return Bool(ls <= rs), nil
	case ">":
		return Bool(ls > rs), nil
	case ">=":
		return Bool(ls >= rs), nil
	default:
		return Value{}, &EvalError{Msg: "Unsupported operation: " + op}
	}
}

// evalIntAndString handles the repetition pairing: exactly one int and one
// string, in either order, under *. A negative count yields the empty
// string.
func evalIntAndString(l Value, op string, r Value) (Value, error) {
	if op != "*" {
		return Value{}, &EvalError{Msg: "Unsupported operation: " + op}
	}
	var n int64
	var s string
	if l.Tag == VTInt {
		n, s = l.Data.(int64), r.Data.(string)
	} else {
		n, s = r.Data.(int64), l.Data.(string)
	}
	if n < 0 {
		n = 0
	}
	return Str(strings.Repeat(s, int(n))), nil
}

func ipow(base, exp int64) int64 {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			result *= base
		}
		base *= base
		exp >>= 1
	}
	return result
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func floorModFloat(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// CompareNode is a multi-way comparison: the initial operand plus ordered
// (operator, operand) pairs. Evaluation is chained pairwise left to right
// with short-circuit: each link compares the previous operand against the
// next, and the first false link ends the walk without evaluating the
// remaining operands (`1 < 2 < 3` behaves as in Python).
type CompareNode struct {
	First  Node
	Ops    []string
	Rights []Node
}

func (n *CompareNode) Eval(env *Env) (Value, Signal, error) {
	prev, sig, err := n.First.Eval(env)
	if err != nil || sig != SigNone {
		return Value{}, sig, err
	}
	for i, op := range n.Ops {
		next, sig, err := n.Rights[i].Eval(env)
		if err != nil || sig != SigNone {
			return Value{}, sig, err
		}
		res, err := compareValues(prev, op, next)
		if err != nil {
			return Value{}, SigNone, err
		}
		if !res {
			return Bool(false), SigNone, nil
		}
		prev = next
	}
	return Bool(true), SigNone, nil
}

func (n *CompareNode) String() string {
	var b strings.Builder
	b.WriteString("(" + n.First.String())
	for i, op := range n.Ops {
		b.WriteString(" " + op + " " + n.Rights[i].String())
	}
	b.WriteString(")")
	return b.String()
}

func compareValues(l Value, op string, r Value) (bool, error) {
	var v Value
	var err error
	switch {
	case l.isNumeric() && r.isNumeric():
		v, err = evalTwoNumbers(l, op, r)
	case l.Tag == VTStr && r.Tag == VTStr:
		v, err = evalTwoStrings(l, op, r)
	default:
		return false, &EvalError{Msg: "Unsupported operation: " + op}
	}
	if err != nil {
		return false, err
	}
	return v.Data.(bool), nil
}

// ElifClause is one `elif condition: body` arm of an if-statement.
type ElifClause struct {
	Cond Node
	Body []Node
}

// IfNode evaluates the first truthy branch and yields that branch's last
// statement value; with no match and no else it yields the empty value.
type IfNode struct {
	Cond  Node
	Body  []Node
	Elifs []ElifClause
	Else  []Node
}

func (n *IfNode) Eval(env *Env) (Value, Signal, error) {
	ok, err := evalCondition(n.Cond, env)
	if err != nil {
		return Value{}, SigNone, err
	}
	if ok {
		return evalStatements(n.Body, env, Value{})
	}
	for _, elif := range n.Elifs {
		ok, err := evalCondition(elif.Cond, env)
		if err != nil {
			return Value{}, SigNone, err
		}
		if ok {
			return evalStatements(elif.Body, env, Value{})
		}
	}
	if len(n.Else) > 0 {
		return evalStatements(n.Else, env, Value{})
	}
	return Value{}, SigNone, nil
}

func (n *IfNode) String() string {
	var b strings.Builder
	b.WriteString("if " + n.Cond.String() + ":\n")
	writeBody(&b, n.Body)
	for _, elif := range n.Elifs {
		b.WriteString("elif " + elif.Cond.String() + ":\n")
		writeBody(&b, elif.Body)
	}
	if len(n.Else) > 0 {
		b.WriteString("else:\n")
		writeBody(&b, n.Else)
	}
	return b.String()
}

// WhileNode loops while the condition is truthy. SigContinue aborts the
// rest of the iteration; SigBreak exits the loop and suppresses the else
// body. The else body runs only when the condition went falsy on its own.
type WhileNode struct {
	Cond Node
	Body []Node
	Else []Node
}

func (n *WhileNode) Eval(env *Env) (Value, Signal, error) {
	last := Value{}
	broken := false
	for {
		ok, err := evalCondition(n.Cond, env)
		if err != nil {
			return Value{}, SigNone, err
		}
		if !ok {
			break
		}
		v, sig, err := evalStatements(n.Body, env, last)
		if err != nil {
			return Value{}, SigNone, err
		}
		last = v
		if sig == SigBreak {
			broken = true
			break
		}
		// SigContinue just moves on to the next condition check.
	}
	if !broken && len(n.Else) > 0 {
		// A signal raised inside the else body targets an enclosing loop.
		return evalStatements(n.Else, env, last)
	}
	return last, SigNone, nil
}

func (n *WhileNode) String() string {
	var b strings.Builder
	b.WriteString("while " + n.Cond.String() + ":\n")
	writeBody(&b, n.Body)
	if len(n.Else) > 0 {
		b.WriteString("else:\n")
		writeBody(&b, n.Else)
	}
	return b.String()
}

// BreakNode raises SigBreak.
type BreakNode struct{}

func (n *BreakNode) Eval(env *Env) (Value, Signal, error) { return Value{}, SigBreak, nil }
func (n *BreakNode) String() string                       { return "break" }

// ContinueNode raises SigContinue.
type ContinueNode struct{}

func (n *ContinueNode) Eval(env *Env) (Value, Signal, error) { return Value{}, SigContinue, nil }
func (n *ContinueNode) String() string                       { return "continue" }

func evalCondition(cond Node, env *Env) (bool, error) {
	v, sig, err := cond.Eval(env)
	if err != nil {
		return false, err
	}
	if sig != SigNone {
		return false, &EvalError{Msg: "Unsupported condition"}
	}
	return v.Truthy()
}

func writeBody(b *strings.Builder, stmts []Node) {
	for _, stmt := range stmts {
		for _, line := range strings.Split(strings.TrimRight(stmt.String(), "\n"), "\n") {
			b.WriteString("    " + line + "\n")
		}
	}
}
