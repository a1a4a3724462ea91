// Package directive implements named content blocks that the converter hands
// off to custom handlers instead of rendering them with default rules.
//
// A Registry maps directive names to a Spec (argument and option rules) and a
// Handler. The converter calls Dispatch for every directive block it finds;
// Dispatch validates the raw invocation against the Spec, converts option
// values through their validators and runs the handler.
//
// Registries are built once at startup and are read-only afterwards, so a
// single Registry can serve concurrent conversions.
package directive

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for directive dispatch.
var (
	ErrUnknownDirective  = errors.New("unknown directive")
	ErrInvalidArguments  = errors.New("invalid directive arguments")
	ErrUnknownOption     = errors.New("unknown directive option")
	ErrInvalidOption     = errors.New("invalid directive option value")
	ErrMissingContent    = errors.New("directive content required")
	ErrUnexpectedContent = errors.New("directive takes no content")
)

// Fragment is pre-rendered HTML spliced into the body verbatim.
type Fragment string

// Spec describes the arguments, options and content a directive accepts.
type Spec struct {
	RequiredArgs int
	OptionalArgs int

	// FinalArgWhitespace lets the last argument contain spaces.
	FinalArgWhitespace bool

	// Options maps recognized option names to their validators.
	Options map[string]OptionValidator

	// HasContent allows a body. RequireContent additionally rejects an empty one.
	HasContent     bool
	RequireContent bool
}

// Handler renders a validated invocation.
// Handlers degrade gracefully: they always return fragments, never errors.
type Handler interface {
	Run(inv Invocation) []Fragment
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(inv Invocation) []Fragment

// Run calls f(inv).
func (f HandlerFunc) Run(inv Invocation) []Fragment {
	return f(inv)
}

// Call is a directive block as found in the source, before validation.
type Call struct {
	Name    string
	Args    string
	Options []RawOption
	Content []string
	Line    int
}

// RawOption is an unvalidated ":name: value" option line.
type RawOption struct {
	Name  string
	Value string
}

// Invocation is a validated call handed to a Handler.
type Invocation struct {
	Name    string
	Args    []string
	Options Options
	Content []string
}

// Entry is a registered directive.
type Entry struct {
	Name    string
	Spec    Spec
	Handler Handler
}

// Registry maps directive names to their handlers.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Entry)}
}

// Register binds name to spec and handler.
// Registering an existing name replaces the earlier entry, which is how one
// handler is published under several aliases.
func (r *Registry) Register(name string, spec Spec, h Handler) {
	r.entries[name] = Entry{Name: name, Spec: spec, Handler: h}
}

// NewDefaultRegistry returns a registry holding both built-in directive families.
func NewDefaultRegistry(cfg HighlightConfig) *Registry {
	r := NewRegistry()
	RegisterSourceCode(r, NewSourceCode(cfg))
	RegisterShellcast(r, NewShellcast())
	return r
}

// Resolve returns the entry registered under name.
func (r *Registry) Resolve(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// Names returns the registered directive names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch validates call against its registered spec and runs the handler.
func (r *Registry) Dispatch(call Call) ([]Fragment, error) {
	entry, ok := r.Resolve(call.Name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDirective, call.Name)
	}

	inv, err := entry.Spec.validate(call)
	if err != nil {
		return nil, err
	}
	return entry.Handler.Run(inv), nil
}

// validate turns a raw call into an invocation.
func (s Spec) validate(call Call) (Invocation, error) {
	args, err := s.splitArgs(call.Args)
	if err != nil {
		return Invocation{}, fmt.Errorf("%w: %s: %v", ErrInvalidArguments, call.Name, err)
	}

	opts := make(Options, 0, len(call.Options))
	for _, raw := range call.Options {
		validator, ok := s.Options[raw.Name]
		if !ok {
			return Invocation{}, fmt.Errorf("%w: %s: %q", ErrUnknownOption, call.Name, raw.Name)
		}
		val, err := validator(raw.Value)
		if err != nil {
			return Invocation{}, fmt.Errorf("%w: %s: %s: %v", ErrInvalidOption, call.Name, raw.Name, err)
		}
		opts = opts.set(raw.Name, val)
	}

	content := trimBlankLines(call.Content)
	if !s.HasContent && len(content) > 0 {
		return Invocation{}, fmt.Errorf("%w: %s", ErrUnexpectedContent, call.Name)
	}
	if s.RequireContent && len(content) == 0 {
		return Invocation{}, fmt.Errorf("%w: %s", ErrMissingContent, call.Name)
	}

	return Invocation{
		Name:    call.Name,
		Args:    args,
		Options: opts,
		Content: content,
	}, nil
}

// splitArgs splits the argument text on whitespace and checks the count.
func (s Spec) splitArgs(text string) ([]string, error) {
	fields := strings.Fields(text)
	maxArgs := s.RequiredArgs + s.OptionalArgs

	if len(fields) > maxArgs && maxArgs > 0 && s.FinalArgWhitespace {
		// Re-split so the tail keeps its inner whitespace.
		fields = strings.SplitN(strings.TrimSpace(text), " ", maxArgs)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
	}

	if len(fields) < s.RequiredArgs {
		return nil, fmt.Errorf("%d argument(s) required, %d supplied", s.RequiredArgs, len(fields))
	}
	if len(fields) > maxArgs {
		return nil, fmt.Errorf("maximum %d argument(s) allowed, %d supplied", maxArgs, len(fields))
	}
	return fields, nil
}

// trimBlankLines drops leading and trailing blank lines.
func trimBlankLines(lines []string) []string {
	start, end := 0, len(lines)
	for start < end && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	if start == end {
		return nil
	}
	return lines[start:end]
}
