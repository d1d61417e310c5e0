package cppython

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalStr(t *testing.T, src string) string {
	t.Helper()
	v, err := NewInterp().RunSource(src)
	require.NoError(t, err, "source: %s", src)
	return v.String()
}

func evalErr(t *testing.T, src string) error {
	t.Helper()
	_, err := NewInterp().RunSource(src)
	require.Error(t, err, "source: %s", src)
	return err
}

func Test_Interp_IntArithmetic(t *testing.T) {
	tests := []struct{ src, want string }{
		{"2 + 3", "5"},
		{"6 - 2", "4"},
		{"2 * 3", "6"},
		{"2 / 5", "0.4"},
		{"17 // 9", "1"},
		{"17 % 9", "8"},
		{"2 ** 3", "8"},
		{"-7 // 2", "-4"},
		{"-7 % 2", "1"},
		{"7 // -2", "-4"},
		{"7 % -2", "-1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalStr(t, tt.src), tt.src)
	}
}

func Test_Interp_FloatArithmetic(t *testing.T) {
	tests := []struct{ src, want string }{
		{"2.3 + 3.3", "5.6"},
		{"6.3 - 2.3", "4.0"},
		{"0.5 * 2", "1.0"},
		{"5.0 / 0.5", "10.0"},
		{"17.0 // 9.0", "1.0"},
		{"17.0 % 9.0", "8.0"},
		{"2.25 ** 0.5", "1.5"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalStr(t, tt.src), tt.src)
	}
}

func Test_Interp_MixedArithmeticWidens(t *testing.T) {
	tests := []struct{ src, want string }{
		{"2 + 3.0", "5.0"},
		{"2.0 + 3", "5.0"},
		{"6 - 2.0", "4.0"},
		{"2 * 3.0", "6.0"},
		{"2 / 5.0", "0.4"},
		{"17.0 / 2", "8.5"},
		{"17 // 9.0", "1.0"},
		{"17 % 9.0", "8.0"},
		{"2 ** 3.0", "8.0"},
		{"2.0 ** 3", "8.0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalStr(t, tt.src), tt.src)
	}
}

func Test_Interp_NumericComparisons(t *testing.T) {
	tests := []struct{ src, want string }{
		{"2 < 3", "True"},
		{"3 < 2", "False"},
		{"2 <= 2", "True"},
		{"2 <= 1", "False"},
		{"2 == 2", "True"},
		{"2 == 3", "False"},
		{"2 != 1", "True"},
		{"2 != 2", "False"},
		{"2 >= 2", "True"},
		{"2 >= 3", "False"},
		{"3 > 2", "True"},
		{"2 == 2.0", "True"},
		{"2.0 < 3", "True"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalStr(t, tt.src), tt.src)
	}
}

func Test_Interp_Strings(t *testing.T) {
	tests := []struct{ src, want string }{
		{`"a" + "b"`, "'ab'"},
		{`"abc" == "abc"`, "True"},
		{`"abd" == "abc"`, "False"},
		{`"abc" != "abd"`, "True"},
		{`"abc" < "abcd"`, "True"},
		{`"A" < "a"`, "True"},
		{`"theta" < "alpha"`, "False"},
		{`"abc" <= "abc"`, "True"},
		{`"abd" >= "abcd"`, "True"},
		{`"abd" > "abc"`, "True"},
		{`"ab" * 2`, "'abab'"},
		{`2 * "ab"`, "'abab'"},
		{`"ab" * 0`, "''"},
		{`"ab" * -1`, "''"},
		{`-1 * "ab"`, "''"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalStr(t, tt.src), tt.src)
	}
}

func Test_Interp_Precedence(t *testing.T) {
	tests := []struct{ src, want string }{
		{"2 + 3 * 4", "14"},
		{"(2 + 3) * 4", "20"},
		{"2 + 3 * 4 + 5", "19"},
		{"2 + 3 * (4 + 5)", "29"},
		{"(2 + 3) * (4 + 5)", "45"},
		{"5 ** 2 + 4", "29"},
		{"2 ** 2 * 5", "20"},
		{"2 ** (2 * 5)", "1024"},
		{"2 ** 3 ** 2", "512"},
		{"5 ** 2 * 4 + 17 == 117", "True"},
		{"2 ** 9 / 32 + 3 / 4", "16.75"},
		{"-2**2", "-4"},
		{"(-2)**2", "4"},
		{"2**-2", "0.25"},
		{"100 - 10 - 5", "85"},
		{"100 // 10 // 3", "3"},
		{"100 // (10 // 3)", "33"},
		{"20 / 4 * 2", "10.0"},
		{"20 // 3 % 4", "2"},
		{"20 % 3 * 4", "8"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalStr(t, tt.src), tt.src)
	}
}

func Test_Interp_ChainedComparisons(t *testing.T) {
	tests := []struct{ src, want string }{
		{"1 < 2 < 3", "True"},
		{"1 < 3 > 2", "True"},
		{"1 == 1 < 2", "True"},
		{"2 > 1 == 1", "True"},
		{"1 + 2 < 5 - 1", "True"},
		{"1 + 2 <= 3", "True"},
		{"3 < 2 < 1", "False"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalStr(t, tt.src), tt.src)
	}
}

func Test_Interp_ChainedComparisonShortCircuits(t *testing.T) {
	// The first false link must stop the walk before the undefined
	// variable is ever evaluated.
	assert.Equal(t, "False", evalStr(t, "3 < 2 < nope"))
}

func Test_Interp_IfElifElse(t *testing.T) {
	tests := []struct{ src, want string }{
		{"a = 5\nif a == 5:\n    b = 6\n\nb", "6"},
		{
			"a = 5\nb = 4\n" +
				"if a > b:\n    c = 'greater'\nelif a < b:\n    c = 'less'\nelse:\n    c = 'equal'\n\nc",
			"'greater'",
		},
		{
			"a = 5\nb = 6\n" +
				"if a > b:\n    c = 'greater'\nelif a < b:\n    c = 'less'\nelse:\n    c = 'equal'\n\nc",
			"'less'",
		},
		{
			"a = 5\nb = 5\n" +
				"if a > b:\n    c = 'greater'\nelif a < b:\n    c = 'less'\nelse:\n    c = 'equal'\n\nc",
			"'equal'",
		},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalStr(t, tt.src), tt.src)
	}
}

func Test_Interp_IfYieldsBranchValue(t *testing.T) {
	assert.Equal(t, "42", evalStr(t, "if True:\n    42"))
	// No branch taken and no else: empty result.
	v, err := NewInterp().RunSource("if False:\n    42")
	require.NoError(t, err)
	assert.Equal(t, VTNone, v.Tag)
}

func Test_Interp_WhileSum(t *testing.T) {
	src := "a = 1\ns = 0\nwhile a < 101:\n    s = s + a\n    a = a + 1\n\ns"
	assert.Equal(t, "5050", evalStr(t, src))
}

func Test_Interp_WhileElseRuns(t *testing.T) {
	src := "a = 1\ns = 0\nwhile a < 101:\n    s = s + a\n    a = a + 1\nelse:\n    s = 404\n\ns"
	assert.Equal(t, "404", evalStr(t, src))
}

func Test_Interp_BreakSuppressesElse(t *testing.T) {
	src := "a = 1\ns = 0\n" +
		"while a < 101:\n    s = s + a\n    a = a + 1\n    if a == 5:\n        break\n" +
		"else:\n    s = 404\n\ns"
	assert.Equal(t, "10", evalStr(t, src))
}

func Test_Interp_LoopLeavesCounterBound(t *testing.T) {
	ip := NewInterp()
	_, err := ip.RunSource("i = 0\nwhile i < 3:\n    i = i + 1")
	require.NoError(t, err)
	v, err := ip.Globals.Get("i")
	require.NoError(t, err)
	assert.Equal(t, "3", v.String())

	ip = NewInterp()
	src := "i = 0\n" +
		"while i < 3:\n    i = i + 1\n    if i == 1:\n        break\n" +
		"else:\n    i = 99"
	_, err = ip.RunSource(src)
	require.NoError(t, err)
	v, err = ip.Globals.Get("i")
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())
}

func Test_Interp_ContinueSkipsRest(t *testing.T) {
	src := "a = 0\ns = 0\n" +
		"while a < 10:\n    a = a + 1\n    if a % 2 == 0:\n        continue\n    s = s + a\n\ns"
	assert.Equal(t, "25", evalStr(t, src))
}

func Test_Interp_StatePersistsAcrossEntries(t *testing.T) {
	ip := NewInterp()
	_, isAssign, err := ip.RunEntry("x = 5")
	require.NoError(t, err)
	assert.True(t, isAssign)

	v, isAssign, err := ip.RunEntry("x + 1")
	require.NoError(t, err)
	assert.False(t, isAssign)
	assert.Equal(t, "6", v.String())
}

func Test_Interp_UndefinedVariable(t *testing.T) {
	err := evalErr(t, "nope")
	assert.Equal(t, "RUNTIME ERROR: Undefined variable: nope", err.Error())
}

func Test_Interp_DivisionByZero(t *testing.T) {
	for _, src := range []string{"1 / 0", "1 // 0", "1 % 0", "1.0 / 0", "1 / 0.0"} {
		err := evalErr(t, src)
		assert.Equal(t, "RUNTIME ERROR: Division by zero", err.Error(), src)
	}
}

func Test_Interp_UnsupportedOperations(t *testing.T) {
	tests := []struct{ src, want string }{
		{`"a" - "b"`, "RUNTIME ERROR: Unsupported operation: -"},
		{`"a" * "b"`, "RUNTIME ERROR: Unsupported operation: *"},
		{`"a" + 1`, "RUNTIME ERROR: Unsupported operation: +"},
		{`True + 1`, "RUNTIME ERROR: Unsupported operation: +"},
		{`"ab" * 1.5`, "RUNTIME ERROR: Unsupported operation: *"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalErr(t, tt.src).Error(), tt.src)
	}
}

func Test_Interp_SignalsOutsideLoop(t *testing.T) {
	assert.Equal(t, "RUNTIME ERROR: 'break' outside loop", evalErr(t, "break").Error())
	assert.Equal(t, "RUNTIME ERROR: 'continue' outside loop", evalErr(t, "continue").Error())
}

func Test_Interp_LexAndParseErrorsCarrySnippet(t *testing.T) {
	err := evalErr(t, `x = "oops`)
	assert.Contains(t, err.Error(), "LEXICAL ERROR")
	assert.Contains(t, err.Error(), "Unterminated string literal")
	assert.Contains(t, err.Error(), `x = "oops`)

	err = evalErr(t, "1 = 2")
	assert.Contains(t, err.Error(), "PARSE ERROR")
	assert.Contains(t, err.Error(), "Invalid assignment target")
	assert.Contains(t, err.Error(), "1 = 2")
}

func Test_Interp_LeadingOperatorIsParseError(t *testing.T) {
	for _, src := range []string{"+ 2", "* 3", "== 1", "** 2", "x = + 2"} {
		err := evalErr(t, src)
		assert.Contains(t, err.Error(), "PARSE ERROR", src)
		assert.Contains(t, err.Error(), "Unexpected token", src)
	}
}

func Test_Interp_AssignmentEchoHint(t *testing.T) {
	ip := NewInterp()
	// A trailing assignment is silent; a trailing expression is not.
	_, isAssign, err := ip.RunEntry("x = 1\ny = 2")
	require.NoError(t, err)
	assert.True(t, isAssign)

	_, isAssign, err = ip.RunEntry("x = 1\nx")
	require.NoError(t, err)
	assert.False(t, isAssign)
}

func Test_Interp_NestedLoops(t *testing.T) {
	src := strings.Join([]string{
		"total = 0",
		"i = 0",
		"while i < 3:",
		"    j = 0",
		"    while j < 3:",
		"        if j == 2:",
		"            break",
		"        total = total + 1",
		"        j = j + 1",
		"    i = i + 1",
		"",
		"total",
	}, "\n")
	assert.Equal(t, "6", evalStr(t, src))
}

func Test_Interp_TruthyConditions(t *testing.T) {
	tests := []struct{ src, want string }{
		{"if 1:\n    'yes'", "'yes'"},
		{"if 0:\n    'yes'\nelse:\n    'no'", "'no'"},
		{"if 'x':\n    'yes'", "'yes'"},
		{"if '':\n    'yes'\nelse:\n    'no'", "'no'"},
		{"if 0.0:\n    'yes'\nelse:\n    'no'", "'no'"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, evalStr(t, tt.src), tt.src)
	}
}
