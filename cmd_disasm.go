package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"lox/compiler"

	"github.com/google/subcommands"
)

// disasmCmd compiles a script and prints its bytecode listing instead
// of running it.
type disasmCmd struct{}

func (*disasmCmd) Name() string     { return "disasm" }
func (*disasmCmd) Synopsis() string { return "Compile a script and print its bytecode" }
func (*disasmCmd) Usage() string {
	return `disasm <path>:
  Compile a script and print the disassembled chunk.
`
}
func (*disasmCmd) SetFlags(f *flag.FlagSet) {}

func (*disasmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "💥 File not provided\n")
		return subcommands.ExitUsageError
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to read file: %v\n", err)
		return subcommands.ExitFailure
	}

	chunk := compiler.NewChunk()
	if !compiler.Compile(string(data), chunk) {
		return subcommands.ExitFailure
	}

	compiler.DisassembleChunk(os.Stdout, chunk, filepath.Base(args[0]))
	return subcommands.ExitSuccess
}
