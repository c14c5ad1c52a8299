// Package calc evaluates single-digit infix arithmetic expressions such as
// "(8-3)*(2+1)" with an operand stack and an operator stack, reducing as it
// scans instead of building a tree.
//
// Operands are the digits 0-9. Operators are + - * / with the usual
// precedence and left associativity, and parentheses group. Spaces and tabs
// are ignored. Division truncates toward zero, and a result that does not fit
// in an int fails with Overflow instead of wrapping.
package calc

import (
	"fmt"
	"unicode/utf8"
)

// Step records one reduction: Left Op Right = Result.
type Step struct {
	Left   int
	Op     string
	Right  int
	Result int
}

func (s Step) String() string {
	return fmt.Sprintf("%d %s %d = %d", s.Left, s.Op, s.Right, s.Result)
}

// Evaluator is a stateless handle on Evaluate. The zero value is ready to use
// and safe for concurrent calls.
type Evaluator struct{}

func (Evaluator) Evaluate(expr string) (int, error) {
	return Evaluate(expr)
}

func (Evaluator) Trace(expr string) ([]Step, int, error) {
	return Trace(expr)
}

// Evaluate returns the integer value of expr. Any failure is an *Error.
func Evaluate(expr string) (int, error) {
	var ev evaluation
	return ev.run(expr)
}

// Trace evaluates expr like Evaluate and also returns every reduction in the
// order it was performed. On failure the steps completed before the error
// are still returned.
func Trace(expr string) ([]Step, int, error) {
	ev := evaluation{trace: true}
	res, err := ev.run(expr)
	return ev.steps, res, err
}

type operator struct {
	sym byte
	pos int
}

// evaluation holds the state of a single scan.
type evaluation struct {
	values stack[int]
	ops    stack[operator]
	trace  bool
	steps  []Step
}

func (ev *evaluation) run(expr string) (int, error) {
	if isEmpty(expr) {
		return 0, &Error{Kind: EmptyInput, Pos: -1}
	}

	for i := 0; i < len(expr); i++ {
		c := expr[i]
		switch {
		case isBlank(c):
			continue
		case isDigit(c):
			ev.values.push(int(c - '0'))
		case c == '(':
			ev.ops.push(operator{sym: c, pos: i})
		case isOperator(c):
			if err := ev.pushOperator(operator{sym: c, pos: i}); err != nil {
				return 0, err
			}
		case c == ')':
			if err := ev.closeScope(i); err != nil {
				return 0, err
			}
		default:
			r, _ := utf8.DecodeRuneInString(expr[i:])
			return 0, &Error{Kind: InvalidCharacter, Pos: i, Char: r}
		}
	}

	for {
		top, ok := ev.ops.peek()
		if !ok {
			break
		}
		if top.sym == '(' {
			return 0, &Error{Kind: UnmatchedParenthesis, Pos: top.pos, Char: '('}
		}
		if err := ev.execute(); err != nil {
			return 0, err
		}
	}

	if ev.values.size() != 1 {
		return 0, &Error{Kind: MalformedResult, Pos: -1}
	}
	res, _ := ev.values.pop()
	return res, nil
}

// pushOperator reduces every pending operator in the current scope that
// binds at least as tightly as op, then pushes op.
func (ev *evaluation) pushOperator(op operator) error {
	for {
		top, ok := ev.ops.peek()
		if !ok || top.sym == '(' || precedence(op.sym) > precedence(top.sym) {
			break
		}
		if err := ev.execute(); err != nil {
			return err
		}
	}
	ev.ops.push(op)
	return nil
}

// closeScope reduces back to the nearest '(' and discards it.
func (ev *evaluation) closeScope(pos int) error {
	for {
		top, ok := ev.ops.peek()
		if !ok {
			return &Error{Kind: UnmatchedParenthesis, Pos: pos, Char: ')'}
		}
		if top.sym == '(' {
			ev.ops.pop()
			return nil
		}
		if err := ev.execute(); err != nil {
			return err
		}
	}
}

// execute pops two operands and the top operator and pushes the result.
// The caller guarantees the top operator is not '('.
func (ev *evaluation) execute() error {
	op, ok := ev.ops.pop()
	if !ok {
		return &Error{Kind: MalformedResult, Pos: -1}
	}
	right, ok := ev.values.pop()
	if !ok {
		return &Error{Kind: MissingOperand, Pos: op.pos, Char: rune(op.sym)}
	}
	left, ok := ev.values.pop()
	if !ok {
		return &Error{Kind: MissingOperand, Pos: op.pos, Char: rune(op.sym)}
	}

	res, kind := performOperation(left, right, op.sym)
	if kind != 0 {
		return &Error{Kind: kind, Pos: op.pos, Char: rune(op.sym)}
	}
	if ev.trace {
		ev.steps = append(ev.steps, Step{Left: left, Op: string(op.sym), Right: right, Result: res})
	}
	ev.values.push(res)
	return nil
}

func isEmpty(expr string) bool {
	for i := 0; i < len(expr); i++ {
		if !isBlank(expr[i]) {
			return false
		}
	}
	return true
}
