package pipeline

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

var (
	titleKey   = parser.NewContextKey()
	docInfoKey = parser.NewContextKey()
)

// documentTransformer promotes a leading level-1 heading to the document
// title, lifts the field list that then opens the document into the
// docinfo, and shifts
// the remaining section headings so the shallowest one sits at headingLevel.
type documentTransformer struct {
	headingLevel int
}

func (t *documentTransformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	if h, ok := doc.FirstChild().(*ast.Heading); ok && h.Level == 1 {
		pc.Set(titleKey, headingText(h, source))
		doc.RemoveChild(doc, h)
	}

	if fl, ok := doc.FirstChild().(*FieldList); ok {
		pc.Set(docInfoKey, fl.Fields)
		doc.RemoveChild(doc, fl)
	}

	shiftHeadings(doc, t.headingLevel)
}

// headingText flattens the inline content of a heading to plain text.
func headingText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

func shiftHeadings(doc ast.Node, target int) {
	var headings []*ast.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			headings = append(headings, h)
		}
		return ast.WalkContinue, nil
	})
	if len(headings) == 0 {
		return
	}

	shallowest := headings[0].Level
	for _, h := range headings[1:] {
		shallowest = min(shallowest, h.Level)
	}
	offset := target - shallowest
	if offset == 0 {
		return
	}
	for _, h := range headings {
		h.Level = max(1, min(6, h.Level+offset))
	}
}
