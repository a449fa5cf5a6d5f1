package capabilities

import (
	"context"
	"errors"
	"math"

	"github.com/nickdu2009/ai-functions/pkg/tools"
)

// ErrDivisionByZero is returned by divide when the divisor is zero.
var ErrDivisionByZero = errors.New("division by zero")

// Calculator is a class-style plugin: its methods are registered after a
// single Calculator instance has been created. It holds no mutable state, so
// concurrent dispatches may share it.
type Calculator struct{}

// NewArithmetic is the tools.Factory for the arithmetic plugin.
func NewArithmetic() (tools.Plugin, error) {
	return arithmetic{}, nil
}

type arithmetic struct{}

func (arithmetic) Name() string { return "arithmetic" }

func (arithmetic) Functions() []tools.Function { return nil }

func (arithmetic) Classes() []tools.Class {
	return []tools.Class{{
		Name: "Calculator",
		New: func() ([]tools.Function, error) {
			return (&Calculator{}).Methods(), nil
		},
	}}
}

// Methods returns the calculator operations bound to c.
func (c *Calculator) Methods() []tools.Function {
	pair := []tools.Param{{Name: "a", Kind: tools.Number}, {Name: "b", Kind: tools.Number}}
	return []tools.Function{
		{Name: "add", Params: pair, Call: c.binary(func(a, b float64) (float64, error) { return a + b, nil })},
		{Name: "subtract", Params: pair, Call: c.binary(func(a, b float64) (float64, error) { return a - b, nil })},
		{Name: "multiply", Params: pair, Call: c.binary(func(a, b float64) (float64, error) { return a * b, nil })},
		{Name: "divide", Params: pair, Call: c.binary(divide)},
		{Name: "power", Params: pair, Call: c.binary(func(a, b float64) (float64, error) { return math.Pow(a, b), nil })},
	}
}

func (c *Calculator) binary(op func(a, b float64) (float64, error)) tools.Func {
	return func(_ context.Context, args []any) (any, error) {
		return op(args[0].(float64), args[1].(float64))
	}
}

func divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}
