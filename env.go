package cppython

// Env is the variable table for one interpreter session: a flat name→Value
// mapping with no nested scopes and no parent chain. Assignments mutate it in
// place; it is the only state that survives across REPL statements.
type Env struct {
	vars map[string]Value
}

func NewEnv() *Env { return &Env{vars: make(map[string]Value)} }

// Set binds name to v, overwriting any prior binding.
func (e *Env) Set(name string, v Value) {
	e.vars[name] = v
}

// Get retrieves the binding for name.
func (e *Env) Get(name string) (Value, error) {
	v, ok := e.vars[name]
	if !ok {
		return Value{}, &EvalError{Msg: "Undefined variable: " + name}
	}
	return v, nil
}
