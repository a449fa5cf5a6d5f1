// Package dispatch turns free-text queries into capability invocations.
package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/nickdu2009/ai-functions/pkg/tools"
)

// Completer sends a prompt to the language model and returns its full reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Dispatcher asks a Completer which capability a query refers to and runs it.
type Dispatcher struct {
	llm      Completer
	registry *tools.Registry
	log      zerolog.Logger
}

// New creates a Dispatcher over registry.
func New(llm Completer, registry *tools.Registry, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{llm: llm, registry: registry, log: log}
}

// Process dispatches query and returns the result text.
func (d *Dispatcher) Process(ctx context.Context, query string) string {
	return d.Dispatch(ctx, query).String()
}

// Dispatch runs one query through the pipeline: prompt, parse, lookup,
// validate, invoke. It never panics and never returns an error; every
// failure is reported as a Result kind.
func (d *Dispatcher) Dispatch(ctx context.Context, query string) Result {
	log := d.log.With().Str("dispatch_id", uuid.NewString()).Logger()
	keys := d.registry.Keys()

	reply, err := d.llm.Complete(ctx, BuildPrompt(query, keys))
	if err != nil {
		log.Warn().Err(err).Msg("model request failed")
		return Result{Kind: ServiceFailure, Err: err}
	}

	raw := StripFences(reply)
	log.Debug().Str("raw", raw).Msg("model reply")

	decision, err := ParseDecision(raw)
	if err != nil {
		log.Warn().Str("raw", raw).Msg("could not parse model reply")
		return Result{Kind: ParseFailure, Raw: raw, Err: err}
	}
	log.Debug().Str("function", decision.Function).Interface("args", decision.Args).Msg("parsed decision")

	capability, ok := d.registry.Lookup(decision.Function)
	if !ok {
		return Result{Kind: UnknownCapability, Key: decision.Function, Args: decision.Args, Raw: raw, Available: keys}
	}

	bound, err := capability.Bind(decision.Args)
	if err != nil {
		return Result{
			Kind:      ArgumentMismatch,
			Key:       capability.Key,
			Args:      decision.Args,
			Raw:       raw,
			Signature: capability.Signature(),
			Err:       err,
		}
	}

	value, err := invoke(ctx, capability, bound)
	if err != nil {
		log.Warn().Err(err).Str("function", capability.Key).Msg("capability failed")
		return Result{Kind: InvocationFailure, Key: capability.Key, Args: decision.Args, Raw: raw, Err: err}
	}

	log.Info().Str("function", capability.Key).Msg("capability invoked")
	return Result{Kind: Success, Key: capability.Key, Args: decision.Args, Value: value, Raw: raw}
}

// invoke calls c, converting a panic into an error.
func invoke(ctx context.Context, c *tools.Capability, args []any) (value any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	return c.Call(ctx, args)
}

// BuildPrompt renders the intent request for query over the given keys.
func BuildPrompt(query string, keys []string) string {
	var b strings.Builder
	b.WriteString("Parse this query and respond with ONLY valid JSON (no markdown): ")
	b.WriteString(query)
	b.WriteString("\nAvailable functions: ")
	b.WriteString(strings.Join(keys, ", "))
	b.WriteString("\nReturn format: {\"function\": \"function_name\", \"args\": [arg1, arg2, ...]}")
	return b.String()
}
