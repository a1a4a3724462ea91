package rstpost

import (
	"time"

	"github.com/alnah/go-rstpost/internal/directive"
	"github.com/alnah/go-rstpost/internal/docinfo"
)

// Metadata is the ordered docinfo mapping of a post.
type Metadata = docinfo.Metadata

// Value is a docinfo field value: null, text, or a list of nullable text.
type Value = docinfo.Value

// Directive extension points. Handlers receive validated invocations and
// return HTML fragments spliced into the body verbatim.
type (
	DirectiveSpec    = directive.Spec
	DirectiveHandler = directive.Handler
	DirectiveFunc    = directive.HandlerFunc
	Invocation       = directive.Invocation
	Fragment         = directive.Fragment
	OptionValidator  = directive.OptionValidator
)

// Option validators for DirectiveSpec.Options.
var (
	FlagOption        OptionValidator = directive.Flag
	PositiveIntOption OptionValidator = directive.PositiveInt
	TextOption        OptionValidator = directive.Unchanged
)

// Input is a post source held in memory.
type Input struct {
	// Path names the source; it feeds the default slug. May be empty.
	Path string

	// Source is the raw markup.
	Source string

	// ModTime is the source's modification time. Zero means unknown.
	ModTime time.Time
}
