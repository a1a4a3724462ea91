package pipeline

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-rstpost/internal/directive"
)

var (
	// ":name: body" with an optional body.
	fieldPattern = regexp.MustCompile(`^:([^:\s][^:]*?):(?:[ \t]+(.*?))?[ \t]*$`)

	// ".. name:: args" with optional arguments.
	directivePattern = regexp.MustCompile(`^\.\.[ \t]+([A-Za-z0-9](?:[A-Za-z0-9_.+-]*[A-Za-z0-9])?)::(?:[ \t]+(.*?))?[ \t]*$`)

	// ".." alone or followed by whitespace and any text.
	commentPattern = regexp.MustCompile(`^\.\.(?:[ \t]+(.*?))?[ \t]*$`)

	// "_name: url" after the explicit markup start.
	targetPattern = regexp.MustCompile(`^_([^:]+):(?:[ \t]+(.*))?$`)
)

func lineText(line []byte) string {
	return strings.TrimRight(string(line), "\r\n")
}

func isIndented(line []byte) bool {
	return len(line) > 0 && (line[0] == ' ' || line[0] == '\t')
}

func matchField(s string) (name, body string, ok bool) {
	m := fieldPattern.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), m[2], true
}

// ---------------------------------------------------------------------------
// Field lists
// ---------------------------------------------------------------------------

// fieldListParser opens on ":name:" lines. Indented lines continue the
// previous field's body; a blank or any other line ends the list.
type fieldListParser struct{}

// NewFieldListParser returns a block parser for field lists.
func NewFieldListParser() parser.BlockParser {
	return &fieldListParser{}
}

func (p *fieldListParser) Trigger() []byte {
	return []byte{':'}
}

func (p *fieldListParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 {
		return nil, parser.NoChildren
	}
	name, body, ok := matchField(lineText(line[pos:]))
	if !ok {
		return nil, parser.NoChildren
	}
	reader.Advance(segment.Len() - 1)
	return &FieldList{Fields: []Field{{Name: name, Body: body}}}, parser.NoChildren
}

func (p *fieldListParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if util.IsBlank(line) {
		return parser.Close
	}
	list := node.(*FieldList)

	if isIndented(line) {
		last := &list.Fields[len(list.Fields)-1]
		more := strings.TrimSpace(lineText(line))
		if last.Body == "" {
			last.Body = more
		} else {
			last.Body += " " + more
		}
		reader.Advance(segment.Len() - 1)
		return parser.Continue | parser.NoChildren
	}

	name, body, ok := matchField(lineText(line))
	if !ok {
		return parser.Close
	}
	list.Fields = append(list.Fields, Field{Name: name, Body: body})
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *fieldListParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *fieldListParser) CanInterruptParagraph() bool {
	return false
}

func (p *fieldListParser) CanAcceptIndentedLine() bool {
	return false
}

// ---------------------------------------------------------------------------
// Directives
// ---------------------------------------------------------------------------

// directiveParser opens on ".. name::" lines. Indented ":opt: value" lines
// directly below the marker are options; every later indented or blank line
// belongs to the content, which is dedented on close.
type directiveParser struct{}

// NewDirectiveParser returns a block parser for directive blocks.
func NewDirectiveParser() parser.BlockParser {
	return &directiveParser{}
}

func (p *directiveParser) Trigger() []byte {
	return []byte{'.'}
}

func (p *directiveParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 {
		return nil, parser.NoChildren
	}
	m := directivePattern.FindStringSubmatch(lineText(line[pos:]))
	if m == nil {
		return nil, parser.NoChildren
	}
	lineNum, _ := reader.Position()
	node := &Directive{}
	node.Call.Name = m[1]
	node.Call.Args = m[2]
	node.Call.Line = lineNum + 1
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *directiveParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	d := node.(*Directive)

	switch {
	case util.IsBlank(line):
		d.sawBody = true
		d.Call.Content = append(d.Call.Content, "")
	case !isIndented(line):
		return parser.Close
	default:
		s := lineText(line)
		if !d.sawBody {
			if name, value, ok := matchField(strings.TrimSpace(s)); ok {
				d.Call.Options = append(d.Call.Options, directive.RawOption{Name: name, Value: value})
				break
			}
			d.sawBody = true
		}
		d.Call.Content = append(d.Call.Content, s)
	}

	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *directiveParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	d := node.(*Directive)
	d.Call.Content = dedent(d.Call.Content)
}

func (p *directiveParser) CanInterruptParagraph() bool {
	return false
}

func (p *directiveParser) CanAcceptIndentedLine() bool {
	return false
}

// ---------------------------------------------------------------------------
// Comments and hyperlink targets
// ---------------------------------------------------------------------------

// commentParser opens on explicit markup that is neither a directive nor a
// footnote or citation. Indented and blank lines below belong to the block.
type commentParser struct{}

// NewCommentParser returns a block parser for comments and hyperlink targets.
func NewCommentParser() parser.BlockParser {
	return &commentParser{}
}

func (p *commentParser) Trigger() []byte {
	return []byte{'.'}
}

func (p *commentParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 {
		return nil, parser.NoChildren
	}
	s := lineText(line[pos:])
	if directivePattern.MatchString(s) {
		return nil, parser.NoChildren
	}
	m := commentPattern.FindStringSubmatch(s)
	if m == nil || strings.HasPrefix(m[1], "[") {
		return nil, parser.NoChildren
	}

	node := &Comment{}
	if t := targetPattern.FindStringSubmatch(m[1]); t != nil {
		node.Target = strings.TrimSpace(t[1])
		node.URL = strings.TrimSpace(t[2])
	}
	reader.Advance(segment.Len() - 1)
	return node, parser.NoChildren
}

func (p *commentParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if !util.IsBlank(line) && !isIndented(line) {
		return parser.Close
	}
	c := node.(*Comment)
	if c.Target != "" && isIndented(line) {
		c.URL += strings.TrimSpace(lineText(line))
	}
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *commentParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *commentParser) CanInterruptParagraph() bool {
	return false
}

func (p *commentParser) CanAcceptIndentedLine() bool {
	return false
}

// dedent strips the common leading whitespace of all non-blank lines and
// drops trailing blank lines.
func dedent(lines []string) []string {
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	indent := -1
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		n := len(l) - len(strings.TrimLeft(l, " \t"))
		if indent < 0 || n < indent {
			indent = n
		}
	}
	if indent <= 0 {
		return lines
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		if len(l) >= indent {
			out[i] = l[indent:]
		} else {
			out[i] = strings.TrimLeft(l, " \t")
		}
	}
	return out
}
