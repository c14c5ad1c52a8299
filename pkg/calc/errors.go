package calc

import (
	"errors"
	"fmt"
)

// Kind classifies why an evaluation failed.
type Kind int

const (
	EmptyInput Kind = iota + 1
	InvalidCharacter
	UnmatchedParenthesis
	MissingOperand
	DivisionByZero
	MalformedResult
	Overflow
)

func (k Kind) String() string {
	switch k {
	case EmptyInput:
		return "EmptyInput"
	case InvalidCharacter:
		return "InvalidCharacter"
	case UnmatchedParenthesis:
		return "UnmatchedParenthesis"
	case MissingOperand:
		return "MissingOperand"
	case DivisionByZero:
		return "DivisionByZero"
	case MalformedResult:
		return "MalformedResult"
	case Overflow:
		return "Overflow"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is returned for every failed evaluation. Pos is the byte offset of
// the offending character, or -1 when the failure has no single location.
// Char is the offending character: the invalid one, the unmatched
// parenthesis, or the operator that could not be applied.
type Error struct {
	Kind Kind
	Pos  int
	Char rune
}

func (e *Error) Error() string {
	switch e.Kind {
	case EmptyInput:
		return "empty expression"
	case InvalidCharacter:
		return fmt.Sprintf("invalid character %q at position %d", e.Char, e.Pos)
	case UnmatchedParenthesis:
		return fmt.Sprintf("unmatched %q at position %d", e.Char, e.Pos)
	case MissingOperand:
		return fmt.Sprintf("missing operand for %q at position %d", e.Char, e.Pos)
	case DivisionByZero:
		return fmt.Sprintf("division by zero at position %d", e.Pos)
	case MalformedResult:
		return "malformed expression"
	case Overflow:
		return fmt.Sprintf("integer overflow at position %d", e.Pos)
	default:
		return "invalid expression"
	}
}

// Is makes errors.Is match any *Error of the same Kind, so the Err* values
// below can be used as sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrEmptyInput           = &Error{Kind: EmptyInput, Pos: -1}
	ErrInvalidCharacter     = &Error{Kind: InvalidCharacter, Pos: -1}
	ErrUnmatchedParenthesis = &Error{Kind: UnmatchedParenthesis, Pos: -1}
	ErrMissingOperand       = &Error{Kind: MissingOperand, Pos: -1}
	ErrDivisionByZero       = &Error{Kind: DivisionByZero, Pos: -1}
	ErrMalformedResult      = &Error{Kind: MalformedResult, Pos: -1}
	ErrOverflow             = &Error{Kind: Overflow, Pos: -1}
)

// KindOf returns the Kind carried by err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
