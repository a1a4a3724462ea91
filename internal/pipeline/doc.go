// Package pipeline converts reST-flavoured Markdown into HTML.
//
// The markup is CommonMark with three additions borrowed from
// reStructuredText:
//   - a level-1 heading at the top of the document is the title
//   - a ":name: body" field list right after the title is the docinfo
//   - ".. name:: args" blocks with indented ":opt: value" lines and an
//     indented body are directives, dispatched through a directive.Registry
//
// The title is returned as plain text and removed from the body. The docinfo
// is rendered as a separate HTML table that the docinfo package reads back
// into typed metadata. Remaining section headings are shifted so the
// shallowest one renders at the configured level.
package pipeline
