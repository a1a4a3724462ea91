package pipeline

import (
	"errors"
	"fmt"
	"html"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/alnah/go-rstpost/internal/directive"
)

// ErrDirective indicates a directive block failed validation.
var ErrDirective = errors.New("directive failed")

// nodeRenderer renders field lists and dispatches directive blocks.
type nodeRenderer struct {
	registry *directive.Registry
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDirective, r.renderDirective)
	reg.Register(KindFieldList, r.renderFieldList)
	reg.Register(KindComment, r.renderComment)
}

func (r *nodeRenderer) renderComment(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderDirective(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	d := n.(*Directive)
	fragments, err := r.registry.Dispatch(d.Call)
	if err != nil {
		return ast.WalkStop, fmt.Errorf("%w: line %d: %w", ErrDirective, d.Call.Line, err)
	}
	for _, f := range fragments {
		_, _ = w.WriteString(string(f))
	}
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}

func (r *nodeRenderer) renderFieldList(w util.BufWriter, source []byte, n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	fl := n.(*FieldList)
	_, _ = w.WriteString(`<table class="docutils field-list" frame="void" rules="none">` + "\n")
	_, _ = w.WriteString(`<col class="field-name" />` + "\n")
	_, _ = w.WriteString(`<col class="field-body" />` + "\n")
	_, _ = w.WriteString(`<tbody valign="top">` + "\n")
	for _, f := range fl.Fields {
		fmt.Fprintf(w, "<tr class=\"field\"><th class=\"field-name\">%s:</th><td class=\"field-body\">%s</td></tr>\n",
			html.EscapeString(f.Name), html.EscapeString(f.Body))
	}
	_, _ = w.WriteString("</tbody>\n</table>\n")
	return ast.WalkSkipChildren, nil
}

// renderDocInfo renders the docinfo table for the fields lifted from the
// top of a document. Fields named in listFields are split on commas and
// rendered as bullet lists.
func renderDocInfo(fields []Field, listFields map[string]bool) string {
	if len(fields) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<table class="docinfo" frame="void" rules="none">` + "\n")
	b.WriteString(`<col class="docinfo-name" />` + "\n")
	b.WriteString(`<col class="docinfo-content" />` + "\n")
	b.WriteString(`<tbody valign="top">` + "\n")
	for _, f := range fields {
		fmt.Fprintf(&b, "<tr><th class=\"docinfo-name\">%s:</th>\n<td>", html.EscapeString(docInfoLabel(f.Name)))
		if listFields[strings.ToLower(f.Name)] {
			writeDocInfoList(&b, f.Body)
		} else {
			b.WriteString(html.EscapeString(strings.TrimSpace(f.Body)))
		}
		b.WriteString("</td></tr>\n")
	}
	b.WriteString("</tbody>\n</table>\n")
	return b.String()
}

func writeDocInfoList(b *strings.Builder, body string) {
	items := splitList(body)
	if len(items) == 0 {
		return
	}
	b.WriteString(`<ul class="first last simple">` + "\n")
	for _, item := range items {
		fmt.Fprintf(b, "<li>%s</li>\n", html.EscapeString(item))
	}
	b.WriteString("</ul>\n")
}

// splitList splits a comma separated field body, dropping empty items.
func splitList(body string) []string {
	var items []string
	for _, part := range strings.Split(body, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// docInfoLabel capitalizes the first letter of a field name.
func docInfoLabel(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
