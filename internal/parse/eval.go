package parse

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Evaluate computes a restricted arithmetic expression: digits, `+ - * / ( ) .`
// and spaces only. Any other character fails with ErrUnsafeExpression before
// anything is evaluated; syntax errors and division by zero fail with
// ErrBadExpression. This is deliberately not a general expression language —
// it only exists so an amount can be written as e.g. "(100+5)/2".
func Evaluate(expr string) (decimal.Decimal, error) {
	for _, r := range expr {
		if !strings.ContainsRune("0123456789+-*/(). ", r) {
			return decimal.Zero, fmt.Errorf("evaluate %q: %w", expr, ErrUnsafeExpression)
		}
	}

	ev := &evaluator{input: expr}
	result, err := ev.parseExpr()
	if err != nil {
		return decimal.Zero, fmt.Errorf("evaluate %q: %w", expr, err)
	}
	ev.skipSpaces()
	if ev.pos != len(ev.input) {
		return decimal.Zero, fmt.Errorf("evaluate %q: trailing input: %w", expr, ErrBadExpression)
	}
	return result, nil
}

// evaluator is a recursive-descent parser with standard precedence:
//
//	expr   = term   { ("+" | "-") term }
//	term   = unary  { ("*" | "/") unary }
//	unary  = ("+" | "-") unary | primary
//	primary = number | "(" expr ")"
type evaluator struct {
	input string
	pos   int
}

func (e *evaluator) parseExpr() (decimal.Decimal, error) {
	left, err := e.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op, ok := e.peekOp("+-")
		if !ok {
			return left, nil
		}
		e.pos++
		right, err := e.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '+' {
			left = left.Add(right)
		} else {
			left = left.Sub(right)
		}
	}
}

func (e *evaluator) parseTerm() (decimal.Decimal, error) {
	left, err := e.parseUnary()
	if err != nil {
		return decimal.Zero, err
	}
	for {
		op, ok := e.peekOp("*/")
		if !ok {
			return left, nil
		}
		e.pos++
		right, err := e.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '*' {
			left = left.Mul(right)
		} else {
			if right.IsZero() {
				return decimal.Zero, fmt.Errorf("division by zero: %w", ErrBadExpression)
			}
			left = left.Div(right)
		}
	}
}

func (e *evaluator) parseUnary() (decimal.Decimal, error) {
	if op, ok := e.peekOp("+-"); ok {
		e.pos++
		value, err := e.parseUnary()
		if err != nil {
			return decimal.Zero, err
		}
		if op == '-' {
			value = value.Neg()
		}
		return value, nil
	}
	return e.parsePrimary()
}

func (e *evaluator) parsePrimary() (decimal.Decimal, error) {
	e.skipSpaces()
	if e.pos >= len(e.input) {
		return decimal.Zero, fmt.Errorf("unexpected end of expression: %w", ErrBadExpression)
	}

	if e.input[e.pos] == '(' {
		e.pos++
		value, err := e.parseExpr()
		if err != nil {
			return decimal.Zero, err
		}
		e.skipSpaces()
		if e.pos >= len(e.input) || e.input[e.pos] != ')' {
			return decimal.Zero, fmt.Errorf("unbalanced parentheses: %w", ErrBadExpression)
		}
		e.pos++
		return value, nil
	}

	start := e.pos
	for e.pos < len(e.input) && (isDigit(e.input[e.pos]) || e.input[e.pos] == '.') {
		e.pos++
	}
	if e.pos == start {
		return decimal.Zero, fmt.Errorf("expected a number at position %d: %w", start, ErrBadExpression)
	}

	value, err := decimal.NewFromString(e.input[start:e.pos])
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad number %q: %w", e.input[start:e.pos], ErrBadExpression)
	}
	return value, nil
}

// peekOp reports the next non-space character if it is one of ops, without
// consuming it.
func (e *evaluator) peekOp(ops string) (byte, bool) {
	e.skipSpaces()
	if e.pos >= len(e.input) {
		return 0, false
	}
	c := e.input[e.pos]
	if strings.IndexByte(ops, c) < 0 {
		return 0, false
	}
	return c, true
}

func (e *evaluator) skipSpaces() {
	for e.pos < len(e.input) && e.input[e.pos] == ' ' {
		e.pos++
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
