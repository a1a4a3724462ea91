package pipeline

import (
	"fmt"

	"github.com/yuin/goldmark/ast"

	"github.com/alnah/go-rstpost/internal/directive"
)

// KindFieldList is the node kind of a ":name: body" field list.
var KindFieldList = ast.NewNodeKind("FieldList")

// KindDirective is the node kind of a ".. name:: args" directive block.
var KindDirective = ast.NewNodeKind("Directive")

// KindComment is the node kind of explicit markup that renders nothing:
// comments (".. text") and hyperlink targets (".. _name: url").
var KindComment = ast.NewNodeKind("Comment")

// Field is one entry of a field list.
type Field struct {
	Name string
	Body string
}

// FieldList is a run of consecutive field lines.
type FieldList struct {
	ast.BaseBlock
	Fields []Field
}

// Kind implements ast.Node.
func (n *FieldList) Kind() ast.NodeKind { return KindFieldList }

// IsRaw implements ast.Node. Field bodies are kept as plain text.
func (n *FieldList) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *FieldList) Dump(source []byte, level int) {
	kv := make(map[string]string, len(n.Fields))
	for _, f := range n.Fields {
		kv[f.Name] = f.Body
	}
	ast.DumpHelper(n, source, level, kv, nil)
}

// Directive holds a directive block as written, before dispatch.
type Directive struct {
	ast.BaseBlock
	Call directive.Call

	// sawBody is set once a blank or non-option line ends the option block.
	sawBody bool
}

// Kind implements ast.Node.
func (n *Directive) Kind() ast.NodeKind { return KindDirective }

// IsRaw implements ast.Node.
func (n *Directive) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *Directive) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Name":    n.Call.Name,
		"Args":    n.Call.Args,
		"Options": fmt.Sprint(len(n.Call.Options)),
		"Lines":   fmt.Sprint(len(n.Call.Content)),
	}, nil)
}

// Comment holds a comment or hyperlink target block. It produces no output.
type Comment struct {
	ast.BaseBlock

	// Target and URL are set for hyperlink targets only.
	Target string
	URL    string
}

// Kind implements ast.Node.
func (n *Comment) Kind() ast.NodeKind { return KindComment }

// IsRaw implements ast.Node.
func (n *Comment) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *Comment) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Target": n.Target,
		"URL":    n.URL,
	}, nil)
}
