package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind classifies the outcome of a dispatch.
type Kind int

const (
	Success Kind = iota
	ParseFailure
	UnknownCapability
	ArgumentMismatch
	InvocationFailure
	ServiceFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ParseFailure:
		return "parse_failure"
	case UnknownCapability:
		return "unknown_capability"
	case ArgumentMismatch:
		return "argument_mismatch"
	case InvocationFailure:
		return "invocation_failure"
	case ServiceFailure:
		return "service_failure"
	default:
		return "unknown"
	}
}

// Result is the outcome of one Dispatch call. Only the fields relevant to
// Kind are set.
type Result struct {
	Kind      Kind
	Key       string
	Args      []any
	Value     any
	Raw       string   // cleaned model reply
	Available []string // registered keys, for UnknownCapability
	Signature string   // expected call shape, for ArgumentMismatch
	Err       error
}

// String renders the result as the text returned to callers.
func (r Result) String() string {
	switch r.Kind {
	case Success:
		return fmt.Sprintf("Function: %s, Arguments: %s, Result: %v", r.Key, formatArgs(r.Args), r.Value)
	case ParseFailure:
		return fmt.Sprintf("Failed to parse AI response: %s", r.Raw)
	case UnknownCapability:
		return fmt.Sprintf("Function '%s' not found. Available functions: %s", r.Key, strings.Join(r.Available, ", "))
	case ArgumentMismatch:
		return fmt.Sprintf("Function '%s' rejected arguments %s (expected %s): %v", r.Key, formatArgs(r.Args), r.Signature, r.Err)
	case InvocationFailure:
		return fmt.Sprintf("Function '%s' failed with arguments %s: %v", r.Key, formatArgs(r.Args), r.Err)
	case ServiceFailure:
		return fmt.Sprintf("Failed to query model: %v", r.Err)
	default:
		return fmt.Sprintf("unknown dispatch result %d", int(r.Kind))
	}
}

func formatArgs(args []any) string {
	if args == nil {
		args = []any{}
	}
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Sprintf("%v", args)
	}
	return string(b)
}
