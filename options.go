package rstpost

import (
	"slices"
	"time"

	"github.com/alnah/go-rstpost/internal/directive"
)

// Option configures a Reader.
type Option func(*readerConfig)

// readerConfig holds the settings a Reader is built from.
type readerConfig struct {
	highlight     directive.HighlightConfig
	headingLevel  int
	listFields    []string
	dateFormats   []string
	defaultAuthor string
	baseURL       string
	location      *time.Location
	directives    []customDirective
}

type customDirective struct {
	names   []string
	spec    DirectiveSpec
	handler DirectiveHandler
}

// WithInlineStyles emits highlighted code with inline style attributes
// instead of CSS classes.
func WithInlineStyles(inline bool) Option {
	return func(c *readerConfig) {
		c.highlight.Inline = inline
	}
}

// WithHighlightStyle selects the chroma style used for code blocks.
// Unknown names make NewReader fail with ErrStyleNotFound.
func WithHighlightStyle(name string) Option {
	return func(c *readerConfig) {
		c.highlight.Style = name
	}
}

// WithHeadingLevel sets the level the shallowest body section renders at.
// Levels outside 1-6 make NewReader fail with ErrHeadingLevel.
func WithHeadingLevel(level int) Option {
	return func(c *readerConfig) {
		c.headingLevel = level
	}
}

// WithListFields replaces the docinfo fields whose bodies are comma
// separated lists.
func WithListFields(names ...string) Option {
	return func(c *readerConfig) {
		c.listFields = slices.Clone(names)
	}
}

// WithDateFormats replaces the formats post dates are parsed with.
// Formats use YYYY, MM, DD, HH, mm, ss tokens or a preset name
// (iso, european, us, long) and are tried in order.
func WithDateFormats(formats ...string) Option {
	return func(c *readerConfig) {
		c.dateFormats = slices.Clone(formats)
	}
}

// WithDefaultAuthor sets the author of posts without an author field.
func WithDefaultAuthor(name string) Option {
	return func(c *readerConfig) {
		c.defaultAuthor = name
	}
}

// WithBaseURL resolves relative links and images in post bodies against url.
func WithBaseURL(url string) Option {
	return func(c *readerConfig) {
		c.baseURL = url
	}
}

// WithLocation sets the time zone for dates written without an offset.
// Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(c *readerConfig) {
		c.location = loc
	}
}

// WithDirective registers a custom directive under every given name, on top
// of the built-in ones. A name registered twice keeps the last handler,
// so built-in directives can be replaced.
func WithDirective(spec DirectiveSpec, h DirectiveHandler, names ...string) Option {
	return func(c *readerConfig) {
		c.directives = append(c.directives, customDirective{
			names:   slices.Clone(names),
			spec:    spec,
			handler: h,
		})
	}
}
