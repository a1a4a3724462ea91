package directive

import (
	"html"
	"sort"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// SourceCodeNames are the aliases of the code highlighting directive.
var SourceCodeNames = []string{"sourcecode", "code-block"}

// DefaultStyle is the chroma style used when none is configured.
const DefaultStyle = "github"

// VariantLineNumbers selects the formatter that prints line numbers.
const VariantLineNumbers = "linenos"

// HighlightConfig configures the formatters shared by every highlighted block.
type HighlightConfig struct {
	Inline bool   // inline style attributes instead of CSS classes
	Style  string // chroma style name; unknown names fall back to chroma's default
}

// Variant describes one formatter configuration.
// The default variant has an empty Key.
type Variant struct {
	Key         string
	LineNumbers bool
	Inline      bool
}

type variantFormatter struct {
	Variant
	formatter *chromahtml.Formatter
}

// SourceCode highlights code blocks through chroma.
// Formatters are built once and reused by every invocation.
type SourceCode struct {
	style    *chroma.Style
	def      variantFormatter
	variants map[string]variantFormatter
}

// NewSourceCode builds the default and named formatters from cfg.
func NewSourceCode(cfg HighlightConfig) *SourceCode {
	name := cfg.Style
	if name == "" {
		name = DefaultStyle
	}

	s := &SourceCode{
		style:    styles.Get(name),
		variants: make(map[string]variantFormatter),
	}
	s.def = newVariantFormatter(Variant{Inline: cfg.Inline})
	s.variants[VariantLineNumbers] = newVariantFormatter(Variant{
		Key:         VariantLineNumbers,
		LineNumbers: true,
		Inline:      cfg.Inline,
	})
	return s
}

func newVariantFormatter(v Variant) variantFormatter {
	opts := []chromahtml.Option{chromahtml.WithClasses(!v.Inline)}
	if v.LineNumbers {
		opts = append(opts, chromahtml.WithLineNumbers(true), chromahtml.LineNumbersInTable(true))
	}
	return variantFormatter{Variant: v, formatter: chromahtml.New(opts...)}
}

// Spec returns the argument and option rules of the directive.
// Every named variant is a flag option.
func (s *SourceCode) Spec() Spec {
	opts := make(map[string]OptionValidator, len(s.variants))
	for key := range s.variants {
		opts[key] = Flag
	}
	return Spec{
		RequiredArgs:       1,
		FinalArgWhitespace: true,
		Options:            opts,
		HasContent:         true,
		RequireContent:     true,
	}
}

// Variants returns the default variant followed by the named ones.
func (s *SourceCode) Variants() []Variant {
	keys := make([]string, 0, len(s.variants))
	for key := range s.variants {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := []Variant{s.def.Variant}
	for _, key := range keys {
		out = append(out, s.variants[key].Variant)
	}
	return out
}

// selectVariant picks the formatter for opts.
// When several variant flags are given, the first one written wins.
func (s *SourceCode) selectVariant(opts Options) variantFormatter {
	for _, opt := range opts {
		if v, ok := s.variants[opt.Name]; ok {
			return v
		}
	}
	return s.def
}

// Run highlights the invocation content with the lexer named by its argument.
func (s *SourceCode) Run(inv Invocation) []Fragment {
	var lang string
	if len(inv.Args) > 0 {
		lang = inv.Args[0]
	}
	v := s.selectVariant(inv.Options)
	return []Fragment{Fragment(s.highlight(lang, strings.Join(inv.Content, "\n"), v))}
}

// Highlight renders code with the lexer for lang and the variant named key.
// An empty or unknown key selects the default variant.
func (s *SourceCode) Highlight(lang, code, key string) string {
	v, ok := s.variants[key]
	if !ok {
		v = s.def
	}
	return s.highlight(lang, code, v)
}

func (s *SourceCode) highlight(lang, code string, v variantFormatter) string {
	lexer := lexers.Get(lang)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return plainBlock(code)
	}

	var buf strings.Builder
	if err := v.formatter.Format(&buf, s.style, iterator); err != nil {
		return plainBlock(code)
	}
	return buf.String()
}

// plainBlock is the last-resort rendering when chroma fails.
func plainBlock(code string) string {
	return `<pre class="literal-block">` + html.EscapeString(code) + "</pre>"
}

// RegisterSourceCode publishes h under every SourceCodeNames alias.
func RegisterSourceCode(r *Registry, h *SourceCode) {
	spec := h.Spec()
	for _, name := range SourceCodeNames {
		r.Register(name, spec, h)
	}
}
