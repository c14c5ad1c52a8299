package calc

import (
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want int
	}{
		{"7", 7},
		{"(1+2)*3", 9},
		{"1+2*3", 7},
		{"1+(2*3)", 7},
		{"6/2-1", 2},
		{"(8-3)*(2+1)", 15},
		{"8-3-2", 3},
		{"8/2/2", 2},
		{"2*3+4*5", 26},
		{"9-2*3+1", 4},
		{"((2))", 2},
		{"(((1+2)))*(3)", 9},
		{"2*(3+(4-1))*2", 24},
		{"7/2", 3},
		{"(0-7)/2", -3},
		{"0-9*9", -81},
		{"1 + 2", 3},
		{"\t( 4 - 1 ) * 3 ", 9},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := Evaluate(tt.expr)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		expr string
		kind Kind
		pos  int
		char rune
	}{
		{"", EmptyInput, -1, 0},
		{"   ", EmptyInput, -1, 0},
		{"2x3", InvalidCharacter, 1, 'x'},
		{"1+é", InvalidCharacter, 2, 'é'},
		{"(1+2", UnmatchedParenthesis, 0, '('},
		{"1+2)", UnmatchedParenthesis, 3, ')'},
		{")", UnmatchedParenthesis, 0, ')'},
		{"((1)", UnmatchedParenthesis, 0, '('},
		{"5/0", DivisionByZero, 1, '/'},
		{"4/(2-2)", DivisionByZero, 1, '/'},
		{"+5", MissingOperand, 0, '+'},
		{"1+", MissingOperand, 1, '+'},
		{"1++2", MissingOperand, 1, '+'},
		{"1*-2", MissingOperand, 1, '*'},
		{"(+)", MissingOperand, 1, '+'},
		{"12", MalformedResult, -1, 0},
		{"()", MalformedResult, -1, 0},
		{"(1)(2)", MalformedResult, -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			_, err := Evaluate(tt.expr)
			require.Error(t, err)

			var e *Error
			require.True(t, errors.As(err, &e), "got %T", err)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.pos, e.Pos)
			assert.Equal(t, tt.char, e.Char)
			assert.Equal(t, tt.kind, KindOf(err))
		})
	}
}

func TestErrorSentinels(t *testing.T) {
	_, err := Evaluate("5/0")
	require.ErrorIs(t, err, ErrDivisionByZero)
	require.NotErrorIs(t, err, ErrMissingOperand)

	_, err = Evaluate("(1+2")
	require.ErrorIs(t, err, ErrUnmatchedParenthesis)

	_, err = Evaluate("")
	require.ErrorIs(t, err, ErrEmptyInput)

	require.Equal(t, Kind(0), KindOf(errors.New("other")))
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"", "empty expression"},
		{"2x3", "invalid character 'x' at position 1"},
		{"1+2)", "unmatched ')' at position 3"},
		{"(1+2", "unmatched '(' at position 0"},
		{"1+", "missing operand for '+' at position 1"},
		{"5/0", "division by zero at position 1"},
		{"12", "malformed expression"},
	}

	for _, tt := range tests {
		_, err := Evaluate(tt.expr)
		require.EqualError(t, err, tt.want, tt.expr)
	}
}

func TestEvaluateOverflow(t *testing.T) {
	nines := "9" + strings.Repeat("*9", 20)
	_, err := Evaluate(nines)
	require.ErrorIs(t, err, ErrOverflow)
	require.Contains(t, err.Error(), "integer overflow at position")

	minInt := "(0-8)" + strings.Repeat("*8", 20)
	got, err := Evaluate(minInt)
	require.NoError(t, err)
	require.Equal(t, math.MinInt, got)

	_, err = Evaluate(minInt + "/(0-1)")
	require.ErrorIs(t, err, ErrOverflow)

	_, err = Evaluate(minInt + "-1")
	require.ErrorIs(t, err, ErrOverflow)

	_, err = Evaluate("0-" + minInt)
	require.ErrorIs(t, err, ErrOverflow)
}

func TestPerformOperationOverflow(t *testing.T) {
	tests := []struct {
		left, right int
		op          byte
		kind        Kind
	}{
		{math.MaxInt, 1, '+', Overflow},
		{math.MinInt, -1, '+', Overflow},
		{math.MinInt, 1, '-', Overflow},
		{math.MaxInt, -1, '-', Overflow},
		{math.MaxInt, 2, '*', Overflow},
		{math.MinInt, -1, '*', Overflow},
		{-1, math.MinInt, '*', Overflow},
		{math.MinInt, -1, '/', Overflow},
		{math.MaxInt, -1, '*', 0},
		{math.MinInt, 1, '*', 0},
		{math.MaxInt, 0, '+', 0},
	}
	for _, tt := range tests {
		_, kind := performOperation(tt.left, tt.right, tt.op)
		assert.Equal(t, tt.kind, kind, "%d %c %d", tt.left, tt.op, tt.right)
	}
}

func TestTrace(t *testing.T) {
	steps, res, err := Trace("1+2*3")
	require.NoError(t, err)
	require.Equal(t, 7, res)

	want := []Step{
		{Left: 2, Op: "*", Right: 3, Result: 6},
		{Left: 1, Op: "+", Right: 6, Result: 7},
	}
	require.Equal(t, want, steps, spew.Sdump(steps))
	require.Equal(t, "2 * 3 = 6", steps[0].String())
}

func TestTraceStopsAtError(t *testing.T) {
	steps, _, err := Trace("(2+3)/(1-1)")
	require.ErrorIs(t, err, ErrDivisionByZero)

	want := []Step{
		{Left: 2, Op: "+", Right: 3, Result: 5},
		{Left: 1, Op: "-", Right: 1, Result: 0},
	}
	require.Equal(t, want, steps, spew.Sdump(steps))
}

func TestEvaluatorIdempotent(t *testing.T) {
	var ev Evaluator
	for _, expr := range []string{"(8-3)*(2+1)", "1+2)"} {
		r1, err1 := ev.Evaluate(expr)
		r2, err2 := ev.Evaluate(expr)
		require.Equal(t, r1, r2)
		require.Equal(t, err1, err2)
	}
}

func TestParenthesesPreservePrecedence(t *testing.T) {
	pairs := [][2]string{
		{"1+2*3", "1+(2*3)"},
		{"8/2-1", "(8/2)-1"},
		{"9-4-3", "(9-4)-3"},
		{"2*3*4", "(2*3)*4"},
	}
	for _, p := range pairs {
		a, err := Evaluate(p[0])
		require.NoError(t, err)
		b, err := Evaluate(p[1])
		require.NoError(t, err)
		require.Equal(t, a, b, "%s vs %s", p[0], p[1])
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	exprs := map[string]int{
		"(1+2)*3":     9,
		"1+2*3":       7,
		"6/2-1":       2,
		"(8-3)*(2+1)": 15,
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		for expr, want := range exprs {
			wg.Add(1)
			go func(expr string, want int) {
				defer wg.Done()
				got, err := Evaluate(expr)
				assert.NoError(t, err)
				assert.Equal(t, want, got, expr)
			}(expr, want)
		}
	}
	wg.Wait()
}

func TestPrecedence(t *testing.T) {
	require.Equal(t, 1, precedence('+'))
	require.Equal(t, 1, precedence('-'))
	require.Equal(t, 2, precedence('*'))
	require.Equal(t, 2, precedence('/'))
	require.Equal(t, 0, precedence('('))
	require.Equal(t, 0, precedence('x'))
}

func TestStack(t *testing.T) {
	var s stack[int]
	_, ok := s.pop()
	require.False(t, ok)
	_, ok = s.peek()
	require.False(t, ok)

	s.push(1)
	s.push(2)
	top, ok := s.peek()
	require.True(t, ok)
	require.Equal(t, 2, top)
	require.Equal(t, 2, s.size())

	v, _ := s.pop()
	require.Equal(t, 2, v)
	v, _ = s.pop()
	require.Equal(t, 1, v)
	require.Equal(t, 0, s.size())
}
