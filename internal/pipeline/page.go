package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"html/template"
	"regexp"
	"strconv"
	"strings"
)

// ErrPageRender indicates the preview page template failed.
var ErrPageRender = errors.New("page rendering failed")

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
{{- if .CSS}}
<style>{{.CSS}}</style>
{{- end}}
</head>
<body>
<article class="post">
<h1 class="title">{{.Title}}</h1>
{{.DocInfo}}
{{- if .TOC}}
{{.TOC}}
{{- end}}
{{.Body}}
</article>
</body>
</html>
`

var pageTmpl = template.Must(template.New("page").Parse(pageTemplate))

// PageData is the content of a standalone preview page.
type PageData struct {
	Title   string
	DocInfo string
	Body    string
	CSS     string
	TOC     *TOCOptions
}

// TOCOptions configures the table of contents placed above the body.
type TOCOptions struct {
	Title    string
	MinDepth int // shallowest heading level listed (default: 2)
	MaxDepth int // deepest heading level listed (default: 3)
}

// RenderPage wraps converted content in a complete HTML5 document.
// DocInfo and Body are trusted HTML produced by the converter.
func RenderPage(ctx context.Context, data *PageData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	view := struct {
		Title   string
		CSS     template.CSS
		DocInfo template.HTML
		TOC     template.HTML
		Body    template.HTML
	}{
		Title:   data.Title,
		CSS:     template.CSS(sanitizeCSS(data.CSS)), // #nosec G203 -- generated stylesheet
		DocInfo: template.HTML(data.DocInfo),         // #nosec G203 -- converter output
		Body:    template.HTML(data.Body),            // #nosec G203 -- converter output
	}
	if data.TOC != nil {
		view.TOC = template.HTML(buildTOC(data.Body, data.TOC)) // #nosec G203 -- escaped in buildTOC
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPageRender, err)
	}
	return buf.String(), nil
}

// sanitizeCSS escapes sequences that could close the <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}

// ---------------------------------------------------------------------------
// Table of contents
// ---------------------------------------------------------------------------

type tocEntry struct {
	level int
	id    string
	text  string
}

var (
	// Captures: 1=level, 2=id, 3=inner HTML.
	headingPattern = regexp.MustCompile(`(?is)<h([1-6])[^>]*\bid="([^"]*)"[^>]*>(.*?)</h[1-6]>`)
	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// headingsOf returns the headings with ids between minDepth and maxDepth.
func headingsOf(body string, minDepth, maxDepth int) []tocEntry {
	var entries []tocEntry
	for _, m := range headingPattern.FindAllStringSubmatch(body, -1) {
		level, _ := strconv.Atoi(m[1])
		if level < minDepth || level > maxDepth {
			continue
		}
		text := html.UnescapeString(htmlTagPattern.ReplaceAllString(m[3], ""))
		entries = append(entries, tocEntry{level: level, id: m[2], text: strings.TrimSpace(text)})
	}
	return entries
}

// buildTOC renders a numbered table of contents ("1.", "1.1.", ...).
// Skipped levels nest one step deeper than the previous entry only.
func buildTOC(body string, opts *TOCOptions) string {
	minDepth, maxDepth := opts.MinDepth, opts.MaxDepth
	if minDepth < 1 {
		minDepth = DefaultHeadingLevel
	}
	if maxDepth < minDepth {
		maxDepth = minDepth + 1
	}

	entries := headingsOf(body, minDepth, maxDepth)
	if len(entries) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<nav class="toc">`)
	if opts.Title != "" {
		fmt.Fprintf(&b, `<h2 class="toc-title">%s</h2>`, html.EscapeString(opts.Title))
	}
	b.WriteString(`<div class="toc-list">`)

	var counters [6]int
	top, prev := entries[0].level, 0
	for _, e := range entries {
		depth := max(1, e.level-top+1)
		if prev > 0 && depth > prev+1 {
			depth = prev + 1
		}
		counters[depth-1]++
		for i := depth; i < len(counters); i++ {
			counters[i] = 0
		}
		prev = depth

		parts := make([]string, depth)
		for i := range parts {
			parts[i] = strconv.Itoa(counters[i])
		}

		b.WriteString(`<div class="toc-item"`)
		if depth > 1 {
			fmt.Fprintf(&b, ` style="padding-left:%.1fem"`, float64(depth-1)*1.5)
		}
		fmt.Fprintf(&b, `><a href="#%s">%s. %s</a></div>`,
			html.EscapeString(e.id), strings.Join(parts, "."), html.EscapeString(e.text))
	}
	b.WriteString(`</div></nav>`)
	return b.String()
}
