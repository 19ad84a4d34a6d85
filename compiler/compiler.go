// Package compiler contains the single-pass compiler: a Pratt parser
// that pulls tokens from the lexer one at a time and emits bytecode
// into a Chunk as it goes. Each token type maps to a prefix and infix
// parsing rule with a precedence level; there is no intermediate tree.
package compiler

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"lox/lexer"
	"lox/token"
	"lox/value"
)

// Compiler drives the scanner and emits bytecode. The parser state is
// a two-token window (previous, current) plus the error flags:
// hadError records that compilation failed, panicMode suppresses the
// cascade of follow-on errors after the first one.
type Compiler struct {
	lexer *lexer.Lexer
	chunk *Chunk

	previous  token.Token
	current   token.Token
	hadError  bool
	panicMode bool

	// Diagnostics receives compile error reports. Defaults to stderr.
	Diagnostics io.Writer
}

// New returns a compiler that reads from source and emits into chunk.
func New(source string, chunk *Chunk) *Compiler {
	return &Compiler{
		lexer:       lexer.New(source),
		chunk:       chunk,
		Diagnostics: os.Stderr,
	}
}

// Compile translates source text into bytecode, using the compiler's
// chunk. It parses a single expression, requires the input to end
// there, and appends the implicit OP_RETURN. It reports whether
// compilation succeeded; diagnostics have already been written when it
// returns false.
func Compile(source string, chunk *Chunk) bool {
	return New(source, chunk).Compile()
}

// Compile runs the compilation. See the package-level Compile.
func (c *Compiler) Compile() bool {
	c.advance()
	c.expression()
	c.consume(token.EOF, "Expect end of expression.")
	c.emitByte(byte(OP_RETURN))
	return !c.hadError
}

// advance slides the token window forward. ERROR tokens never reach
// the parser proper: each one is reported here and skipped until a
// real token arrives.
func (c *Compiler) advance() {
	c.previous = c.current
	for {
		c.current = c.lexer.ScanToken()
		if c.current.Type != token.ERROR {
			break
		}
		c.errorAtCurrent(c.current.Lexeme)
	}
}

// consume advances past the current token if it has the expected
// type, and reports message at it otherwise.
func (c *Compiler) consume(tokType token.Type, message string) {
	if c.current.Type == tokType {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

func (c *Compiler) expression() {
	c.parsePrecedence(PREC_ASSIGNMENT)
}

// parsePrecedence parses an expression at the given level or tighter.
// The token just consumed must start an expression (have a prefix
// rule); after running it, infix rules are applied as long as the next
// token binds at least as tightly as the requested level.
func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()
	prefix := getRule(c.previous.Type).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}
	prefix(c)

	for precedence <= getRule(c.current.Type).precedence {
		c.advance()
		infix := getRule(c.previous.Type).infix
		infix(c)
	}
}

// grouping handles parenthesized expressions.
func (c *Compiler) grouping() {
	c.expression()
	c.consume(token.RIGHT_PAREN, "Expect ')' after expression.")
}

// number compiles a numeric literal into a constant load.
func (c *Compiler) number() {
	val, err := strconv.ParseFloat(c.previous.Lexeme, 64)
	if err != nil {
		c.error("Invalid number.")
		return
	}
	c.emitConstant(value.Number(val))
}

// literal emits the opcode for false, nil, or true.
func (c *Compiler) literal() {
	switch c.previous.Type {
	case token.FALSE:
		c.emitByte(byte(OP_FALSE))
	case token.NIL:
		c.emitByte(byte(OP_NIL))
	case token.TRUE:
		c.emitByte(byte(OP_TRUE))
	}
}

// unary compiles a prefix operator. The operand is parsed first, at
// unary precedence, so the negate/not instruction lands after it.
func (c *Compiler) unary() {
	opType := c.previous.Type
	c.parsePrecedence(PREC_UNARY)
	switch opType {
	case token.BANG:
		c.emitByte(byte(OP_NOT))
	case token.MINUS:
		c.emitByte(byte(OP_NEGATE))
	}
}

// binary compiles an infix operator. The right operand is parsed one
// precedence level above the operator's own, which makes every binary
// operator left-associative. The >= and <= forms compile to the
// inverse comparison followed by OP_NOT.
func (c *Compiler) binary() {
	opType := c.previous.Type
	rule := getRule(opType)
	c.parsePrecedence(rule.precedence.next())

	switch opType {
	case token.PLUS:
		c.emitByte(byte(OP_ADD))
	case token.MINUS:
		c.emitByte(byte(OP_SUBTRACT))
	case token.STAR:
		c.emitByte(byte(OP_MULTIPLY))
	case token.SLASH:
		c.emitByte(byte(OP_DIVIDE))
	case token.EQUAL_EQUAL:
		c.emitByte(byte(OP_EQUAL))
	case token.BANG_EQUAL:
		c.emitBytes(byte(OP_EQUAL), byte(OP_NOT))
	case token.GREATER:
		c.emitByte(byte(OP_GREATER))
	case token.GREATER_EQUAL:
		c.emitBytes(byte(OP_LESS), byte(OP_NOT))
	case token.LESS:
		c.emitByte(byte(OP_LESS))
	case token.LESS_EQUAL:
		c.emitBytes(byte(OP_GREATER), byte(OP_NOT))
	}
}

// emitByte appends one byte to the chunk, tagged with the line of the
// token that produced it.
func (c *Compiler) emitByte(b byte) {
	c.chunk.Write(b, c.previous.Line)
}

func (c *Compiler) emitBytes(b1, b2 byte) {
	c.emitByte(b1)
	c.emitByte(b2)
}

// emitConstant adds val to the constant pool and emits the load
// instruction for it.
func (c *Compiler) emitConstant(val value.Value) {
	c.emitBytes(byte(OP_CONSTANT), c.makeConstant(val))
}

// makeConstant appends val to the constant pool and returns its index
// as an operand byte. Indexes past 255 cannot be encoded; they report
// an error and 0 stands in as a placeholder.
func (c *Compiler) makeConstant(val value.Value) byte {
	idx := c.chunk.AddConstant(val)
	if idx > 255 {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return byte(idx)
}

// errorAtCurrent reports message at the current token.
func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.current, message)
}

// error reports message at the token just consumed.
func (c *Compiler) error(message string) {
	c.errorAt(c.previous, message)
}

// errorAt writes a diagnostic in the `[line N] Error at ...: message`
// format. The first error switches on panic mode, which silences every
// later report until compilation ends.
func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true

	fmt.Fprintf(c.Diagnostics, "[line %d] Error", tok.Line)
	switch tok.Type {
	case token.EOF:
		fmt.Fprint(c.Diagnostics, " at end")
	case token.ERROR:
		// the lexeme is the scanner's message, not source text
	default:
		fmt.Fprintf(c.Diagnostics, " at '%s'", tok.Lexeme)
	}
	fmt.Fprintf(c.Diagnostics, ": %s\n", message)

	c.hadError = true
}
