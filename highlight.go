package rstpost

import (
	"fmt"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-rstpost/internal/directive"
)

// HighlightCSS returns the stylesheet for code highlighted with CSS classes
// in the named chroma style. An empty name selects the default style.
func HighlightCSS(style string) (string, error) {
	if style == "" {
		style = directive.DefaultStyle
	}
	s, ok := styles.Registry[style]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, style)
	}

	var buf strings.Builder
	if err := chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(&buf, s); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// HighlightStyles returns the names of the available highlight styles.
func HighlightStyles() []string {
	return styles.Names()
}

func hasStyle(name string) bool {
	_, ok := styles.Registry[name]
	return ok
}
