// Package dispatch mediates between transport-level tool invocations and
// registered tool handlers: it binds arguments against the tool's schema,
// runs the handler, and folds every failure into a stable ToolError so a
// single invocation can never take the server down.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dimosr/lenses-mcp/client"
	"github.com/dimosr/lenses-mcp/tools"
)

// Tool error kinds produced by the dispatcher itself. Handler failures
// classified by the API client keep their client.ErrorKind string.
const (
	KindUnknownTool      = "UnknownTool"
	KindInvalidArguments = "InvalidArguments"
	KindCancelled        = "Cancelled"
	KindInternal         = "InternalError"
)

// ToolError is the structured failure returned to the transport. Kind is
// stable across releases; Message is safe to show to the calling agent.
type ToolError struct {
	Kind    string
	Message string
}

func (e *ToolError) Error() string {
	return e.Kind + ": " + e.Message
}

// Dispatcher routes invocations to registered tools. It holds no mutable
// state across invocations and is safe for concurrent use.
type Dispatcher struct {
	registry *tools.Registry
	log      zerolog.Logger
	secrets  []string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithRedact registers secret values to strip from outgoing error
// messages. The API key always goes here.
func WithRedact(secrets ...string) Option {
	return func(d *Dispatcher) {
		for _, s := range secrets {
			if s != "" {
				d.secrets = append(d.secrets, s)
			}
		}
	}
}

// New creates a dispatcher over an immutable registry.
func New(registry *tools.Registry, logger zerolog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{registry: registry, log: logger}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch executes one invocation: lookup, argument binding, handler
// execution, error folding. On success the payload is returned for the
// transport layer to serialize; on failure the ToolError carries a stable
// kind and a redacted message. Dispatch recovers handler panics.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, rawArgs map[string]any) (payload any, terr *ToolError) {
	id := uuid.NewString()
	start := time.Now()
	logger := d.log.With().Str("invocation", id).Str("tool", name).Logger()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("handler panicked")
			payload, terr = nil, &ToolError{Kind: KindInternal, Message: "internal error while executing tool"}
		}
		if terr != nil {
			logger.Warn().Str("kind", terr.Kind).Dur("elapsed", time.Since(start)).Msg("invocation failed")
		} else {
			logger.Debug().Dur("elapsed", time.Since(start)).Msg("invocation completed")
		}
	}()

	def, found := d.registry.Lookup(name)
	if !found {
		return nil, &ToolError{Kind: KindUnknownTool, Message: fmt.Sprintf("no tool named %q is registered", name)}
	}

	args, err := bind(def.Params, rawArgs)
	if err != nil {
		return nil, &ToolError{Kind: KindInvalidArguments, Message: d.redact(err.Error())}
	}

	result, err := def.Handler(ctx, args)
	if err != nil {
		return nil, d.classify(err)
	}
	return result, nil
}

// classify folds a handler error into a ToolError. Classified API client
// failures keep their kind, semantic argument failures map to
// InvalidArguments, context errors map to Cancelled/Timeout, everything
// else is an internal error.
func (d *Dispatcher) classify(err error) *ToolError {
	var ce *client.Error
	if errors.As(err, &ce) {
		return &ToolError{Kind: string(ce.Kind), Message: d.redact(ce.Detail())}
	}
	var ae *tools.ArgumentError
	if errors.As(err, &ae) {
		return &ToolError{Kind: KindInvalidArguments, Message: d.redact(ae.Msg)}
	}
	if errors.Is(err, context.Canceled) {
		return &ToolError{Kind: KindCancelled, Message: "invocation cancelled"}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &ToolError{Kind: string(client.KindTimeout), Message: "invocation deadline exceeded"}
	}
	return &ToolError{Kind: KindInternal, Message: d.redact(err.Error())}
}

func (d *Dispatcher) redact(msg string) string {
	for _, s := range d.secrets {
		msg = strings.ReplaceAll(msg, s, "[redacted]")
	}
	return msg
}

// bind validates rawArgs against the schema and produces the bound
// argument set: required parameters present, types coerced, defaults
// applied, enums enforced, unknown arguments rejected.
func bind(params map[string]tools.Param, rawArgs map[string]any) (tools.Args, error) {
	for name := range rawArgs {
		if _, declared := params[name]; !declared {
			return nil, fmt.Errorf("unknown argument %q", name)
		}
	}

	bound := make(tools.Args, len(params))
	for name, p := range params {
		raw, supplied := rawArgs[name]
		if !supplied {
			if p.Required {
				return nil, fmt.Errorf("missing required argument %q", name)
			}
			if p.Default != nil {
				bound[name] = p.Default
			}
			continue
		}

		value, err := coerce(p, raw)
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", name, err)
		}
		bound[name] = value
	}
	return bound, nil
}

func coerce(p tools.Param, raw any) (any, error) {
	switch p.Type {
	case tools.TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		if len(p.Enum) > 0 && !contains(p.Enum, s) {
			return nil, fmt.Errorf("must be one of: %s", strings.Join(p.Enum, ", "))
		}
		return s, nil
	case tools.TypeNumber:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
		return nil, fmt.Errorf("expected number, got %T", raw)
	case tools.TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", raw)
		}
		return b, nil
	case tools.TypeObject:
		m, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("expected object, got %T", raw)
		}
		return m, nil
	case tools.TypeArray:
		a, ok := raw.([]any)
		if !ok {
			return nil, fmt.Errorf("expected array, got %T", raw)
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unsupported parameter type %q", p.Type)
	}
}

func contains(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}
