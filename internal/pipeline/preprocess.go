package pipeline

import (
	"regexp"
	"strings"
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

const byteOrderMark = "\ufeff"

// Preprocess prepares raw source for parsing: it drops a leading byte order
// mark and converts \r\n and \r line endings to \n.
func Preprocess(content string) string {
	content = strings.TrimPrefix(content, byteOrderMark)
	return normalizeLineEndings(content)
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}
