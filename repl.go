package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/chzyer/readline"
)

// repl runs the interactive loop: one expression per line, evaluated
// immediately. The VM instance is shared across lines, so a runtime
// error on one line leaves the next line on a clean stack.
func repl() int {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "💥 Failed to start REPL: %v\n", err)
		return exitIOError
	}
	defer rl.Close()

	machine := newVM()

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			// end of input (Ctrl-D or a closed stdin)
			fmt.Println("\nExiting...")
			return 0
		}
		machine.Interpret(line)
	}
}
