package compiler

import (
	"lox/token"
)

// Precedence levels of the grammar, ordered from lowest to highest.
// Higher levels bind tighter and are parsed first.
type Precedence int

const (
	PREC_NONE Precedence = iota
	PREC_ASSIGNMENT
	PREC_OR
	PREC_AND
	PREC_EQUALITY
	PREC_COMPARISON
	PREC_TERM   // +, -
	PREC_FACTOR // /, *
	PREC_UNARY  // !, -
	PREC_CALL
	PREC_PRIMARY
)

// next returns the level one above p, saturating at PREC_PRIMARY.
func (p Precedence) next() Precedence {
	if p >= PREC_PRIMARY {
		return PREC_PRIMARY
	}
	return p + 1
}

type parseFunc func(*Compiler)

// parseRule defines the parsing behavior attached to one token type:
// an optional prefix action, an optional infix action, and the infix
// precedence.
type parseRule struct {
	prefix     parseFunc
	infix      parseFunc
	precedence Precedence
}

// parsingRules is the authoritative dispatch table of the Pratt
// parser. Token types absent from the map (keywords, identifiers,
// strings, punctuation with no expression role yet) fall back to the
// zero rule: no prefix, no infix, PREC_NONE. The categories stay in
// the token set so later layers can attach rules without touching the
// scanner.
var parsingRules map[token.Type]parseRule

// init builds the dispatch table at package initialization. Building it via a package
// variable initializer instead would create a (harmless but rejected)
// initialization cycle: the table holds method values whose bodies
// call getRule, which reads the table.
func init() {
	parsingRules = map[token.Type]parseRule{
		token.LEFT_PAREN:    {prefix: (*Compiler).grouping, infix: nil, precedence: PREC_NONE},
		token.MINUS:         {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PREC_TERM},
		token.PLUS:          {prefix: nil, infix: (*Compiler).binary, precedence: PREC_TERM},
		token.SLASH:         {prefix: nil, infix: (*Compiler).binary, precedence: PREC_FACTOR},
		token.STAR:          {prefix: nil, infix: (*Compiler).binary, precedence: PREC_FACTOR},
		token.BANG:          {prefix: (*Compiler).unary, infix: nil, precedence: PREC_NONE},
		token.BANG_EQUAL:    {prefix: nil, infix: (*Compiler).binary, precedence: PREC_EQUALITY},
		token.EQUAL_EQUAL:   {prefix: nil, infix: (*Compiler).binary, precedence: PREC_EQUALITY},
		token.GREATER:       {prefix: nil, infix: (*Compiler).binary, precedence: PREC_COMPARISON},
		token.GREATER_EQUAL: {prefix: nil, infix: (*Compiler).binary, precedence: PREC_COMPARISON},
		token.LESS:          {prefix: nil, infix: (*Compiler).binary, precedence: PREC_COMPARISON},
		token.LESS_EQUAL:    {prefix: nil, infix: (*Compiler).binary, precedence: PREC_COMPARISON},
		token.NUMBER:        {prefix: (*Compiler).number, infix: nil, precedence: PREC_NONE},
		token.FALSE:         {prefix: (*Compiler).literal, infix: nil, precedence: PREC_NONE},
		token.NIL:           {prefix: (*Compiler).literal, infix: nil, precedence: PREC_NONE},
		token.TRUE:          {prefix: (*Compiler).literal, infix: nil, precedence: PREC_NONE},
	}
}

// getRule retrieves the parse rule for a token type, falling back to
// the zero rule for types with no expression role.
func getRule(tokType token.Type) parseRule {
	rule, ok := parsingRules[tokType]
	if !ok {
		return parseRule{}
	}
	return rule
}
