package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"lox/vm"

	"github.com/google/subcommands"
)

// sysexits-style codes for the driver contract
const (
	exitUsage        = 64
	exitCompileError = 65
	exitRuntimeError = 70
	exitIOError      = 74
)

// toolNames lists the developer tool commands dispatched through
// subcommands. A script file with one of these names can still be run
// with an explicit path prefix (./disasm).
var toolNames = map[string]bool{
	"disasm": true,
	"tokens": true,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) > 0 && toolNames[args[0]] {
		return runTools()
	}

	switch len(args) {
	case 0:
		return repl()
	case 1:
		return runFile(args[0])
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [path]\n", filepath.Base(os.Args[0]))
		return exitUsage
	}
}

func runTools() int {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(&disasmCmd{}, "tools")
	subcommands.Register(&tokensCmd{}, "tools")
	flag.Parse()
	return int(subcommands.Execute(context.Background()))
}

func runFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return exitIOError
	}

	machine := newVM()
	switch machine.Interpret(string(data)) {
	case vm.CompileError:
		return exitCompileError
	case vm.RuntimeError:
		return exitRuntimeError
	}
	return 0
}

// newVM builds the VM for the driver, with execution tracing switched
// on when LOX_TRACE is set in the environment.
func newVM() *vm.VM {
	machine := vm.New()
	machine.Debug = os.Getenv("LOX_TRACE") != ""
	return machine
}
