package tools

import (
	"errors"
	"fmt"
	"math"
)

// ParamKind is the type of a positional capability parameter.
type ParamKind int

const (
	String ParamKind = iota
	Number
	Integer
	Bool
)

func (k ParamKind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// Param is one slot of a capability signature.
type Param struct {
	Name string
	Kind ParamKind
}

// ErrArgumentMismatch is matched by every *ArgumentError.
var ErrArgumentMismatch = errors.New("argument mismatch")

// ArgumentError describes why an argument list does not fit a signature.
type ArgumentError struct {
	Key    string
	Index  int // -1 for arity errors
	Reason string
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("%s: argument %d: %s", e.Key, e.Index, e.Reason)
}

func (e *ArgumentError) Is(target error) bool {
	return target == ErrArgumentMismatch
}

// Signature renders the capability as key(name kind, ...).
func (c *Capability) Signature() string {
	s := c.Key + "("
	for i, p := range c.Params {
		if i > 0 {
			s += ", "
		}
		s += p.Name + " " + p.Kind.String()
	}
	return s + ")"
}

// Bind checks args against c.Params and converts them to the Go types the
// capability expects: string, float64, int or bool.
func (c *Capability) Bind(args []any) ([]any, error) {
	if len(args) != len(c.Params) {
		return nil, &ArgumentError{
			Key:    c.Key,
			Index:  -1,
			Reason: fmt.Sprintf("expected %d arguments, got %d", len(c.Params), len(args)),
		}
	}

	bound := make([]any, len(args))
	for i, p := range c.Params {
		v, err := convert(p.Kind, args[i])
		if err != nil {
			return nil, &ArgumentError{Key: c.Key, Index: i, Reason: fmt.Sprintf("%s: %s", p.Name, err)}
		}
		bound[i] = v
	}
	return bound, nil
}

func convert(kind ParamKind, v any) (any, error) {
	switch kind {
	case String:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case Number:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		}
	case Integer:
		switch n := v.(type) {
		case int:
			return n, nil
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("want integer, got %v", n)
			}
			// float64(math.MinInt) is exact; -float64(math.MinInt) is one past MaxInt.
			if n < float64(math.MinInt) || n >= -float64(math.MinInt) {
				return nil, fmt.Errorf("integer %v out of range", n)
			}
			return int(n), nil
		}
	case Bool:
		if b, ok := v.(bool); ok {
			return b, nil
		}
	}
	return nil, fmt.Errorf("want %s, got %T", kind, v)
}
