package pipeline

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrBaseURL indicates the base URL for link resolution is malformed.
var ErrBaseURL = errors.New("invalid base URL")

// ResolveRelativeURLs resolves relative img[src] and a[href] references in
// an HTML fragment against base, typically the URL of the post's directory
// on the published site. If base is empty, returns the fragment unchanged.
// Only the rewritten tags are re-serialized; every other byte of the
// fragment is copied as written.
//
// Left untouched:
//   - anchors ("#section")
//   - absolute and protocol-relative URLs
//   - site-absolute paths ("/static/logo.png")
func ResolveRelativeURLs(fragment, base string) (string, error) {
	if base == "" {
		return fragment, nil
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrBaseURL, err)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return "", err
			}
			return b.String(), nil
		case html.StartTagToken, html.SelfClosingTagToken:
			// Token lower-cases the tag in place, so copy the raw bytes first.
			raw := string(z.Raw())
			tok := z.Token()
			if resolveToken(&tok, baseURL) {
				b.WriteString(tok.String())
			} else {
				b.WriteString(raw)
			}
		default:
			b.Write(z.Raw())
		}
	}
}

// resolveToken rewrites a relative img src or a href. Reports whether the
// token changed.
func resolveToken(tok *html.Token, base *url.URL) bool {
	switch tok.DataAtom {
	case atom.Img:
		return resolveAttr(tok, "src", base)
	case atom.A:
		return resolveAttr(tok, "href", base)
	}
	return false
}

func resolveAttr(tok *html.Token, key string, base *url.URL) bool {
	changed := false
	for i, attr := range tok.Attr {
		if attr.Key != key || !isRelativeURL(attr.Val) {
			continue
		}
		ref, err := url.Parse(attr.Val)
		if err != nil {
			continue
		}
		tok.Attr[i].Val = base.ResolveReference(ref).String()
		changed = true
	}
	return changed
}

// isRelativeURL reports whether ref is a document-relative reference.
func isRelativeURL(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "/") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return !u.IsAbs()
}
