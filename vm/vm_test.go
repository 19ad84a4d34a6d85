package vm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lox/compiler"
	"lox/value"
)

// interpretSource runs one expression on a fresh VM with both streams
// captured.
func interpretSource(source string) (InterpretResult, string, string) {
	var out, errOut strings.Builder
	machine := New()
	machine.Out = &out
	machine.Err = &errOut
	result := machine.Interpret(source)
	return result, out.String(), errOut.String()
}

func TestInterpretExpressions(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{"arithmetic with grouping", "(-1 + 2) * 3 - -4", "7\n"},
		{"comparison chain", "!(5 - 4 > 3 * 2 == !nil)", "true\n"},
		{"nil never equals false", "nil == false", "false\n"},
		{"division by zero is infinity", "1 / 0", "inf\n"},
		{"negative division by zero", "-1 / 0", "-inf\n"},
		{"fractions print naturally", "3 / 4", "0.75\n"},
		{"not of a number", "!0", "false\n"},
		{"double negation", "!!nil", "false\n"},
		{"bare literal", "true", "true\n"},
		{"bare nil", "nil", "nil\n"},
		{"equality on numbers", "2 + 2 == 4", "true\n"},
		{"inequality", "1 != 2", "true\n"},
		{"less-equal", "2 <= 2", "true\n"},
		{"greater-equal", "1 >= 2", "false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, out, errOut := interpretSource(tt.source)
			require.Equal(t, Success, result)
			require.Equal(t, tt.want, out)
			require.Empty(t, errOut)
		})
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{
			name:    "adding a boolean",
			source:  "1 + true",
			wantErr: "Operands must be numbers.\n[line 1] in script\n",
		},
		{
			name:    "comparing nil",
			source:  "nil < 1",
			wantErr: "Operands must be numbers.\n[line 1] in script\n",
		},
		{
			name:    "negating nil",
			source:  "-nil",
			wantErr: "Operand must be a number.\n[line 1] in script\n",
		},
		{
			name:    "line number of the failing operation",
			source:  "1 +\ntrue",
			wantErr: "Operands must be numbers.\n[line 2] in script\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, out, errOut := interpretSource(tt.source)
			require.Equal(t, RuntimeError, result)
			require.Empty(t, out)
			require.Equal(t, tt.wantErr, errOut)
		})
	}
}

func TestCompileErrorResult(t *testing.T) {
	result, out, errOut := interpretSource("(1 + 2")
	require.Equal(t, CompileError, result)
	require.Empty(t, out)
	require.Equal(t, "[line 1] Error at end: Expect ')' after expression.\n", errOut)
}

func TestStackEmptyAfterSuccess(t *testing.T) {
	machine := New()
	machine.Out = &strings.Builder{}
	machine.Err = &strings.Builder{}

	result := machine.Interpret("1 + 2 * 3")
	require.Equal(t, Success, result)
	require.Equal(t, 0, machine.stack.top)
}

func TestVMIsReusableAfterError(t *testing.T) {
	var out, errOut strings.Builder
	machine := New()
	machine.Out = &out
	machine.Err = &errOut

	require.Equal(t, RuntimeError, machine.Interpret("1 + nil"))
	require.Equal(t, 0, machine.stack.top)

	out.Reset()
	errOut.Reset()
	require.Equal(t, Success, machine.Interpret("1 + 2"))
	require.Equal(t, "3\n", out.String())
	require.Empty(t, errOut.String())
}

func TestUnknownOpcodeIsCompileError(t *testing.T) {
	chunk := compiler.NewChunk()
	chunk.Write(200, 1)

	machine := New()
	machine.Out = &strings.Builder{}
	machine.Err = &strings.Builder{}
	machine.chunk = chunk
	machine.ip = 0

	require.Equal(t, CompileError, machine.run())
}

func TestFailedTypeCheckLeavesStackIntact(t *testing.T) {
	// Hand-built chunk: push 1, push nil, add. The type check fails
	// before anything is popped, so both operands are still live when
	// the stack is reset.
	chunk := compiler.NewChunk()
	chunk.Write(byte(compiler.OP_CONSTANT), 1)
	chunk.Write(byte(chunk.AddConstant(value.Number(1))), 1)
	chunk.Write(byte(compiler.OP_NIL), 1)
	chunk.Write(byte(compiler.OP_ADD), 1)
	chunk.Write(byte(compiler.OP_RETURN), 1)

	var errOut strings.Builder
	machine := New()
	machine.Out = &strings.Builder{}
	machine.Err = &errOut
	machine.chunk = chunk
	machine.ip = 0

	require.Equal(t, RuntimeError, machine.run())
	require.Equal(t, "Operands must be numbers.\n[line 1] in script\n", errOut.String())
}

func TestExecutionTrace(t *testing.T) {
	var out strings.Builder
	machine := New()
	machine.Out = &out
	machine.Err = &strings.Builder{}
	machine.Debug = true

	require.Equal(t, Success, machine.Interpret("1"))

	want := "          \n" +
		"0000    1 OP_CONSTANT         0 '1'\n" +
		"          [ 1 ]\n" +
		"0002    | OP_RETURN\n" +
		"1\n"
	require.Equal(t, want, out.String())
}
