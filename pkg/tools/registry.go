// Package tools provides the capability registry consulted by the dispatcher.
//
// Capabilities come from compiled-in plugins. Each plugin exposes free
// functions and classes; a class is instantiated once and its public methods
// are registered under a composite key and under their bare name.
package tools

import (
	"context"
	"strings"
)

// Func is the signature of a capability implementation. args has already
// passed Bind, so each value matches the declared parameter kind.
type Func func(ctx context.Context, args []any) (any, error)

// Capability is a named, invocable unit of behaviour.
type Capability struct {
	Key      string
	Module   string // plugin the capability came from
	Receiver string // class name, empty for free functions
	Params   []Param
	Call     Func
}

// Registry maps capability keys to capabilities.
//
// A Registry is filled once at startup and only read afterwards; concurrent
// readers are fine, concurrent Register calls are not.
type Registry struct {
	keys         []string
	capabilities map[string]*Capability
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		capabilities: make(map[string]*Capability),
	}
}

// Register adds c under c.Key. A later registration with the same key
// replaces the earlier one but keeps its position in Keys.
func (r *Registry) Register(c *Capability) {
	if _, ok := r.capabilities[c.Key]; !ok {
		r.keys = append(r.keys, c.Key)
	}
	r.capabilities[c.Key] = c
}

// Lookup returns the capability registered under key.
func (r *Registry) Lookup(key string) (*Capability, bool) {
	c, ok := r.capabilities[key]
	return c, ok
}

// Keys returns every registered key in first-registration order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// Len returns the number of registered keys.
func (r *Registry) Len() int {
	return len(r.keys)
}

// NamingPolicy derives composite keys for class methods.
type NamingPolicy struct {
	// StripTokens are class-name tokens dropped from composite keys, so that
	// e.g. Calculator.add registers as "add" instead of "calculator_add".
	StripTokens []string
}

// DefaultNamingPolicy strips the "calculator" token.
func DefaultNamingPolicy() NamingPolicy {
	return NamingPolicy{StripTokens: []string{"calculator"}}
}

// CompositeKey returns lower(class)_method with every configured token removed.
func (p NamingPolicy) CompositeKey(class, method string) string {
	key := strings.ToLower(class) + "_" + method
	for _, tok := range p.StripTokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		key = strings.ReplaceAll(key, strings.ToLower(tok)+"_", "")
	}
	return key
}
