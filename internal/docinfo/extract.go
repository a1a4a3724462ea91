// Package docinfo recovers typed metadata from the docinfo table the
// converter renders for a document's field list.
//
// The table has one row per field and two cells per row: the field name
// ("Date:") and its value. List-typed values are a nested ul/ol inside the
// value cell:
//
//	<table class="docinfo"><tbody>
//	<tr><th class="docinfo-name">Date:</th><td>2012-12-12</td></tr>
//	<tr><th class="docinfo-name">Tags:</th><td><ul><li>a</li><li>b</li></ul></td></tr>
//	</tbody></table>
//
// Text is read one level deep only: a cell or list item contributes its
// first child when that child is a text node, and nothing otherwise.
package docinfo

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ErrParse indicates the docinfo fragment could not be parsed.
var ErrParse = errors.New("docinfo parse failed")

// Extract parses a rendered docinfo fragment into ordered metadata.
// An empty fragment yields empty metadata. Malformed rows are skipped.
func Extract(fragment string) (*Metadata, error) {
	content := strings.ReplaceAll(fragment, "\n", "")
	if content == "" {
		return NewMetadata(), nil
	}

	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return ExtractTree(WrapHTML(doc)), nil
}

// ExtractTree reads every table row below root into ordered metadata.
// Later rows overwrite earlier rows with the same field name.
func ExtractTree(root Node) *Metadata {
	meta := NewMetadata()
	for _, row := range root.ElementsByTag("tr") {
		name, value, ok := rowPair(row)
		if !ok {
			continue
		}
		meta.Set(name, value)
	}
	return meta
}

// rowPair converts one row into a field name and value.
func rowPair(row Node) (string, Value, bool) {
	cells := cellsOf(row)
	if len(cells) == 0 {
		return "", Value{}, false
	}

	key, ok := plainText(cells[0])
	if !ok {
		return "", Value{}, false
	}
	name := strings.TrimSuffix(strings.ToLower(key), ":")

	valueCell := cells[len(cells)-1]
	if first := firstChild(valueCell); first != nil && first.Kind() == ElementNode {
		switch first.Tag() {
		case "ul", "ol":
			var items []Value
			for _, li := range valueCell.ElementsByTag("li") {
				items = append(items, textValueOf(li))
			}
			return name, List(items...), true
		}
	}
	return name, textValueOf(valueCell), true
}

// cellsOf returns the th/td children of a row.
func cellsOf(row Node) []Node {
	var cells []Node
	for _, c := range row.Children() {
		if c.Kind() == ElementNode && (c.Tag() == "th" || c.Tag() == "td") {
			cells = append(cells, c)
		}
	}
	return cells
}

func textValueOf(n Node) Value {
	if s, ok := plainText(n); ok {
		return Text(s)
	}
	return Null()
}

// plainText returns the data of n's first child when it is a text node.
func plainText(n Node) (string, bool) {
	first := firstChild(n)
	if first == nil || first.Kind() != TextNode {
		return "", false
	}
	return first.Data(), true
}

func firstChild(n Node) Node {
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	return children[0]
}
