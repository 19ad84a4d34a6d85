// Package vm implements the stack-based virtual machine that executes
// compiled chunks.
package vm

import (
	"fmt"
	"io"
	"os"

	"lox/compiler"
	"lox/value"
)

// InterpretResult is the outcome of one Interpret call.
type InterpretResult int

const (
	Success InterpretResult = iota
	CompileError
	RuntimeError
)

// VM executes bytecode. It holds the chunk being run, the index of the
// next byte to decode, and the operand stack. A VM is reusable
// sequentially: after Interpret returns, the next call starts clean.
type VM struct {
	chunk *compiler.Chunk
	ip    int
	stack stack

	// Debug switches on per-instruction execution tracing: the live
	// stack slots followed by the disassembled instruction about to run.
	Debug bool

	// Out receives program output (the printed result). Defaults to
	// stdout.
	Out io.Writer

	// Err receives compile and runtime diagnostics. Defaults to stderr.
	Err io.Writer
}

// New creates a VM writing to the standard streams.
func New() *VM {
	return &VM{
		Out: os.Stdout,
		Err: os.Stderr,
	}
}

// Interpret compiles and runs one piece of source text. The chunk is
// built fresh and owned by the VM for the run; the VM keeps it until
// the next successful compile replaces it.
func (vm *VM) Interpret(source string) InterpretResult {
	chunk := compiler.NewChunk()
	c := compiler.New(source, chunk)
	c.Diagnostics = vm.Err
	if !c.Compile() {
		return CompileError
	}

	vm.chunk = chunk
	vm.ip = 0
	vm.stack.reset()
	return vm.run()
}

// readByte fetches the byte at ip and advances past it.
func (vm *VM) readByte() byte {
	vm.ip++
	return vm.chunk.Code[vm.ip-1]
}

// readConstant fetches the constant whose index is the next operand
// byte.
func (vm *VM) readConstant() value.Value {
	return vm.chunk.Constants[vm.readByte()]
}

// run is the dispatch loop: decode one opcode, execute it, repeat
// until OP_RETURN halts execution or an error does.
func (vm *VM) run() InterpretResult {
	for {
		if vm.Debug {
			vm.traceExecution()
		}

		switch op := compiler.Opcode(vm.readByte()); op {
		case compiler.OP_CONSTANT:
			vm.stack.push(vm.readConstant())
		case compiler.OP_NIL:
			vm.stack.push(value.Nil())
		case compiler.OP_TRUE:
			vm.stack.push(value.Boolean(true))
		case compiler.OP_FALSE:
			vm.stack.push(value.Boolean(false))
		case compiler.OP_EQUAL:
			b := vm.stack.pop()
			a := vm.stack.pop()
			vm.stack.push(value.Boolean(a.Equals(b)))
		case compiler.OP_GREATER, compiler.OP_LESS,
			compiler.OP_ADD, compiler.OP_SUBTRACT, compiler.OP_MULTIPLY, compiler.OP_DIVIDE:
			if !vm.binaryOperation(op) {
				return RuntimeError
			}
		case compiler.OP_NOT:
			vm.stack.push(value.Boolean(vm.stack.pop().IsFalsey()))
		case compiler.OP_NEGATE:
			if !vm.stack.peek(0).IsNumber() {
				vm.runtimeError("Operand must be a number.")
				return RuntimeError
			}
			vm.stack.push(value.Number(-vm.stack.pop().AsNumber()))
		case compiler.OP_RETURN:
			fmt.Fprintln(vm.Out, vm.stack.pop())
			return Success
		default:
			// an undefined opcode byte means the chunk is corrupt
			return CompileError
		}
	}
}

// binaryOperation executes one numeric binary opcode. Both operands
// are type-checked before anything is popped, so a failed check pops
// nothing; the runtime error it reports then resets the stack.
func (vm *VM) binaryOperation(op compiler.Opcode) bool {
	if !vm.stack.peek(0).IsNumber() || !vm.stack.peek(1).IsNumber() {
		vm.runtimeError("Operands must be numbers.")
		return false
	}
	b := vm.stack.pop().AsNumber()
	a := vm.stack.pop().AsNumber()

	switch op {
	case compiler.OP_GREATER:
		vm.stack.push(value.Boolean(a > b))
	case compiler.OP_LESS:
		vm.stack.push(value.Boolean(a < b))
	case compiler.OP_ADD:
		vm.stack.push(value.Number(a + b))
	case compiler.OP_SUBTRACT:
		vm.stack.push(value.Number(a - b))
	case compiler.OP_MULTIPLY:
		vm.stack.push(value.Number(a * b))
	case compiler.OP_DIVIDE:
		vm.stack.push(value.Number(a / b))
	}
	return true
}

// runtimeError reports a runtime failure with the source line of the
// instruction being executed, then resets the stack so the VM can be
// reused.
func (vm *VM) runtimeError(format string, args ...any) {
	fmt.Fprintf(vm.Err, format+"\n", args...)
	fmt.Fprintf(vm.Err, "[line %d] in script\n", vm.chunk.Lines[vm.ip])
	vm.stack.reset()
}

// traceExecution prints the live stack and the instruction at ip.
func (vm *VM) traceExecution() {
	fmt.Fprint(vm.Out, "          ")
	for i := 0; i < vm.stack.top; i++ {
		fmt.Fprintf(vm.Out, "[ %s ]", vm.stack.slots[i])
	}
	fmt.Fprintln(vm.Out)
	compiler.DisassembleInstruction(vm.Out, vm.chunk, vm.ip)
}
