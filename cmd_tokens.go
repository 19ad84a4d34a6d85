package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"lox/lexer"
	"lox/token"

	"github.com/google/subcommands"
)

// tokensCmd dumps the token stream of a script, one token per line,
// for scanner debugging.
type tokensCmd struct{}

func (*tokensCmd) Name() string     { return "tokens" }
func (*tokensCmd) Synopsis() string { return "Print the token stream of a script" }
func (*tokensCmd) Usage() string {
	return `tokens <path>:
  Scan a script and print every token.
`
}
func (*tokensCmd) SetFlags(f *flag.FlagSet) {}

func (*tokensCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	lex := lexer.New(string(data))
	var line uint16
	for {
		tok := lex.ScanToken()
		if tok.Line != line {
			fmt.Printf("%4d ", tok.Line)
			line = tok.Line
		} else {
			fmt.Print("   | ")
		}
		fmt.Printf("%-13s '%s'\n", tok.Type, tok.Lexeme)

		if tok.Type == token.EOF {
			return subcommands.ExitSuccess
		}
	}
}
