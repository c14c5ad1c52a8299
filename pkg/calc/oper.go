package calc

import "math"

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isOperator(c byte) bool {
	switch c {
	case '+', '-', '*', '/':
		return true
	}
	return false
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}

// precedence ranks binary operators; '(' and anything else rank 0 so they
// never win a comparison against a real operator.
func precedence(op byte) int {
	switch op {
	case '+', '-':
		return 1
	case '*', '/':
		return 2
	default:
		return 0
	}
}

// performOperation applies op to its operands. Division truncates toward
// zero. Results that do not fit in an int are reported as Overflow.
func performOperation(left, right int, op byte) (int, Kind) {
	switch op {
	case '+':
		res := left + right
		if (right > 0 && res < left) || (right < 0 && res > left) {
			return 0, Overflow
		}
		return res, 0
	case '-':
		res := left - right
		if (right > 0 && res > left) || (right < 0 && res < left) {
			return 0, Overflow
		}
		return res, 0
	case '*':
		if left == 0 || right == 0 {
			return 0, 0
		}
		res := left * right
		if res/right != left || (left == -1 && right == math.MinInt) || (right == -1 && left == math.MinInt) {
			return 0, Overflow
		}
		return res, 0
	case '/':
		if right == 0 {
			return 0, DivisionByZero
		}
		if left == math.MinInt && right == -1 {
			return 0, Overflow
		}
		return left / right, 0
	default:
		return 0, InvalidCharacter
	}
}
