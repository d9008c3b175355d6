package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CompareOp is a comparison operator in a condition expression.
type CompareOp string

// Supported operators.
const (
	OpEq CompareOp = "=="
	OpNe CompareOp = "!="
	OpGt CompareOp = ">"
	OpLt CompareOp = "<"
	OpGe CompareOp = ">="
	OpLe CompareOp = "<="
)

// IsValid returns true if the operator is recognised.
func (o CompareOp) IsValid() bool {
	switch o {
	case OpEq, OpNe, OpGt, OpLt, OpGe, OpLe:
		return true
	default:
		return false
	}
}

// Condition is a parsed "<var> <op> <number>" expression.
type Condition struct {
	Var   string
	Op    CompareOp
	Value float64
}

// String renders the condition in its source form.
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Var, c.Op, strconv.FormatFloat(c.Value, 'f', -1, 64))
}

// Eval compares the variable against the value. Unset variables read as 0.
func (c Condition) Eval(vars map[string]float64) bool {
	v := vars[c.Var]
	switch c.Op {
	case OpEq:
		return v == c.Value
	case OpNe:
		return v != c.Value
	case OpGt:
		return v > c.Value
	case OpLt:
		return v < c.Value
	case OpGe:
		return v >= c.Value
	case OpLe:
		return v <= c.Value
	default:
		return false
	}
}

// ParseCondition parses an expression such as "HP > 0". Tokens are
// whitespace separated; anything after the third token is ignored.
func ParseCondition(expr string) (Condition, error) {
	parts := strings.Fields(expr)
	if len(parts) < 3 {
		return Condition{}, NewValidationError("condition", "expected \"<var> <op> <number>\", got %q", expr)
	}
	op := CompareOp(parts[1])
	if !op.IsValid() {
		return Condition{}, NewValidationError("condition", "unknown operator %q", parts[1])
	}
	val, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return Condition{}, NewValidationError("condition", "value %q is not a number", parts[2])
	}
	return Condition{Var: parts[0], Op: op, Value: val}, nil
}

// EvalCondition parses and evaluates expr. Malformed expressions are false.
func EvalCondition(expr string, vars map[string]float64) bool {
	c, err := ParseCondition(expr)
	if err != nil {
		return false
	}
	return c.Eval(vars)
}
