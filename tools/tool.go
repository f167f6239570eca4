package tools

import (
	"context"
	"fmt"
	"net/url"
)

// ParamType is the semantic type of a tool parameter. Enumerations are
// string parameters with a non-empty Enum list.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeNumber  ParamType = "number"
	TypeBoolean ParamType = "boolean"
	TypeObject  ParamType = "object"
	TypeArray   ParamType = "array"
)

// Param declares one tool parameter. The dispatcher validates and coerces
// incoming arguments against it before the handler runs; handlers never
// re-check basic shape.
type Param struct {
	Type        ParamType
	Description string
	Required    bool
	Default     any
	Enum        []string  // allowed values, TypeString only
	Items       ParamType // element type, TypeArray only; defaults to string
}

// Args holds arguments already bound against a tool's schema.
type Args map[string]any

// Has reports whether the argument was supplied or defaulted.
func (a Args) Has(name string) bool {
	_, ok := a[name]
	return ok
}

// String returns a string argument, or "" when absent.
func (a Args) String(name string) string {
	v, _ := a[name].(string)
	return v
}

// Int returns a number argument truncated to int, or 0 when absent.
func (a Args) Int(name string) int {
	switch v := a[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Float returns a number argument, or 0 when absent.
func (a Args) Float(name string) float64 {
	switch v := a[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// Bool returns a boolean argument, or false when absent.
func (a Args) Bool(name string) bool {
	v, _ := a[name].(bool)
	return v
}

// Object returns an object argument, or nil when absent.
func (a Args) Object(name string) map[string]any {
	v, _ := a[name].(map[string]any)
	return v
}

// Slice returns an array argument, or nil when absent.
func (a Args) Slice(name string) []any {
	v, _ := a[name].([]any)
	return v
}

// StringSlice returns an array argument with its elements as strings,
// skipping anything that is not a string.
func (a Args) StringSlice(name string) []string {
	raw, ok := a[name].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ArgumentError reports a semantically invalid argument, one the
// declarative schema cannot express (a malformed name, a blank value,
// an empty update). Handlers return it via ArgErrorf.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return e.Msg }

// ArgErrorf builds an ArgumentError.
func ArgErrorf(format string, a ...any) error {
	return &ArgumentError{Msg: fmt.Sprintf(format, a...)}
}

// Handler executes one validated invocation. It performs the API calls for
// its tool and returns the payload to serialize back to the agent. It must
// not retain state between invocations.
type Handler func(ctx context.Context, args Args) (any, error)

// Definition is one registered tool: a unique name, a human description
// for the agent, a declarative parameter schema, and the handler.
// Definitions are immutable after registration.
type Definition struct {
	Name        string
	Description string
	Params      map[string]Param
	Handler     Handler
}

// Registry holds the process's tool set. Registration happens once at
// startup; afterwards the registry is read-only and safe for concurrent
// lookups without locking.
type Registry struct {
	defs  map[string]Definition
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// Register adds a tool definition. Duplicate names and nil handlers are
// rejected: both are programming errors in the startup wiring.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("register tool: empty name")
	}
	if def.Handler == nil {
		return fmt.Errorf("register tool %q: nil handler", def.Name)
	}
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("register tool %q: already registered", def.Name)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// MustRegister is Register for startup wiring with compile-time constant
// names, where a failure is a bug.
func (r *Registry) MustRegister(def Definition) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition for name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	def, ok := r.defs[name]
	return def, ok
}

// All returns every definition in registration order.
func (r *Registry) All() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.defs) }

// proxyPath builds the environment-scoped proxy path for a platform agent
// endpoint. Caller-supplied path segments go through seg.
func proxyPath(environment, rest string) string {
	return "/api/v1/environments/" + seg(environment) + "/proxy" + rest
}

// seg escapes one user-supplied path segment.
func seg(s string) string { return url.PathEscape(s) }
