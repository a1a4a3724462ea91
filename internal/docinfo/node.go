package docinfo

import "golang.org/x/net/html"

// NodeKind classifies tree nodes.
type NodeKind int

// Node kinds the extractor distinguishes.
const (
	OtherNode NodeKind = iota
	TextNode
	ElementNode
)

// Node is the small view of a document tree the extractor needs.
// Any tree can be adapted to it; WrapHTML adapts golang.org/x/net/html.
type Node interface {
	Kind() NodeKind
	// Tag is the lower-case element name, empty for non-elements.
	Tag() string
	// Data is the content of a text node.
	Data() string
	Children() []Node
	// ElementsByTag returns descendant elements named tag in document order.
	ElementsByTag(tag string) []Node
}

// WrapHTML adapts a parsed HTML node.
func WrapHTML(n *html.Node) Node {
	return htmlNode{n: n}
}

type htmlNode struct {
	n *html.Node
}

func (h htmlNode) Kind() NodeKind {
	switch h.n.Type {
	case html.TextNode:
		return TextNode
	case html.ElementNode:
		return ElementNode
	}
	return OtherNode
}

func (h htmlNode) Tag() string {
	if h.n.Type != html.ElementNode {
		return ""
	}
	return h.n.Data
}

func (h htmlNode) Data() string {
	if h.n.Type != html.TextNode {
		return ""
	}
	return h.n.Data
}

func (h htmlNode) Children() []Node {
	var out []Node
	for c := h.n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, htmlNode{n: c})
	}
	return out
}

func (h htmlNode) ElementsByTag(tag string) []Node {
	var out []Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.Data == tag {
				out = append(out, htmlNode{n: c})
			}
			walk(c)
		}
	}
	walk(h.n)
	return out
}
