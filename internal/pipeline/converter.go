package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-rstpost/internal/directive"
)

// ErrConversion indicates the markup could not be converted.
var ErrConversion = errors.New("markup conversion failed")

// DefaultHeadingLevel is the level the shallowest body section renders at.
// Level 1 belongs to the post title in the surrounding page.
const DefaultHeadingLevel = 2

// DefaultListFields are docinfo fields whose bodies are comma separated lists.
var DefaultListFields = []string{"tags", "authors"}

// Options configures a Converter.
type Options struct {
	HeadingLevel int
	ListFields   []string
	Highlight    directive.HighlightConfig
}

// DefaultOptions returns the options NewConverter falls back to.
func DefaultOptions() Options {
	return Options{
		HeadingLevel: DefaultHeadingLevel,
		ListFields:   append([]string(nil), DefaultListFields...),
		Highlight:    directive.HighlightConfig{Style: directive.DefaultStyle},
	}
}

// Document is the converter's output: the plain-text title, the body HTML
// and the rendered docinfo table (empty when the source has none).
type Document struct {
	Title   string
	Body    string
	DocInfo string
}

// DocumentConverter abstracts markup to Document conversion.
type DocumentConverter interface {
	Convert(ctx context.Context, source string) (*Document, error)
}

// Converter converts reST-flavoured Markdown using goldmark.
// It is safe for concurrent use.
type Converter struct {
	md         goldmark.Markdown
	listFields map[string]bool
}

// NewConverter creates a Converter dispatching directives through reg.
// A nil reg uses the built-in directives.
func NewConverter(reg *directive.Registry, opts Options) *Converter {
	if opts.HeadingLevel < 1 || opts.HeadingLevel > 6 {
		opts.HeadingLevel = DefaultHeadingLevel
	}
	if opts.ListFields == nil {
		opts.ListFields = DefaultListFields
	}
	if opts.Highlight.Style == "" {
		opts.Highlight.Style = directive.DefaultStyle
	}
	if reg == nil {
		reg = directive.NewDefaultRegistry(opts.Highlight)
	}

	listFields := make(map[string]bool, len(opts.ListFields))
	for _, f := range opts.ListFields {
		listFields[strings.ToLower(f)] = true
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(opts.Highlight.Style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(!opts.Highlight.Inline),
				),
			),
			NewExtension(reg, opts.HeadingLevel),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithXHTML(),
		),
	)
	return &Converter{md: md, listFields: listFields}
}

// Convert converts source into a Document.
// Supports context cancellation via goroutine + select pattern since
// goldmark doesn't natively support context.
func (c *Converter) Convert(ctx context.Context, source string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		doc *Document
		err error
	}

	done := make(chan result, 1)

	go func() {
		doc, err := c.convert(Preprocess(source))
		done <- result{doc: doc, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.doc, r.err
	}
}

func (c *Converter) convert(source string) (*Document, error) {
	pc := parser.NewContext()
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(source), &buf, parser.WithContext(pc)); err != nil {
		if errors.Is(err, ErrDirective) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}

	title, _ := pc.Get(titleKey).(string)
	fields, _ := pc.Get(docInfoKey).([]Field)
	return &Document{
		Title:   title,
		Body:    buf.String(),
		DocInfo: renderDocInfo(fields, c.listFields),
	}, nil
}

// rstExtension wires the field list and directive syntax into goldmark.
type rstExtension struct {
	registry     *directive.Registry
	headingLevel int
}

// NewExtension returns a goldmark extension adding field lists, directives
// dispatched through reg, hidden comments and hyperlink targets, and title
// promotion with headings shifted to start at headingLevel.
func NewExtension(reg *directive.Registry, headingLevel int) goldmark.Extender {
	return &rstExtension{registry: reg, headingLevel: headingLevel}
}

func (e *rstExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(
			util.Prioritized(NewDirectiveParser(), 450),
			util.Prioritized(NewCommentParser(), 455),
			util.Prioritized(NewFieldListParser(), 460),
		),
		parser.WithASTTransformers(
			util.Prioritized(&documentTransformer{headingLevel: e.headingLevel}, 100),
		),
	)
	m.Renderer().AddOptions(
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{registry: e.registry}, 100),
		),
	)
}
