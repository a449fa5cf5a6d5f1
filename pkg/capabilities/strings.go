// Package capabilities holds the built-in plugins registered at startup.
package capabilities

import (
	"context"
	"strings"

	"github.com/nickdu2009/ai-functions/pkg/tools"
)

// Strings exposes simple text transforms as free functions.
type Strings struct{}

// NewStrings is the tools.Factory for the string plugin.
func NewStrings() (tools.Plugin, error) {
	return Strings{}, nil
}

func (Strings) Name() string { return "strings" }

func (Strings) Classes() []tools.Class { return nil }

func (Strings) Functions() []tools.Function {
	text := []tools.Param{{Name: "s", Kind: tools.String}}
	return []tools.Function{
		{Name: "string_reverse", Params: text, Call: stringFunc(Reverse)},
		{Name: "string_uppercase", Params: text, Call: stringFunc(strings.ToUpper)},
		{Name: "string_lowercase", Params: text, Call: stringFunc(strings.ToLower)},
	}
}

// Reverse reverses s rune by rune.
func Reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}

func stringFunc(f func(string) string) tools.Func {
	return func(_ context.Context, args []any) (any, error) {
		return f(args[0].(string)), nil
	}
}
