package pipeline

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/alnah/go-rstpost/internal/directive"
	"github.com/alnah/go-rstpost/internal/docinfo"
)

// Notes:
// - Converter output is HTML; assertions look for stable markers (tags,
//   classes, ids) rather than whole documents, since chroma's token markup
//   is not ours to pin down.
// - Docinfo tables are checked by reading them back with docinfo.Extract,
//   the same way the reader consumes them.

const samplePost = `rst
===

:tags: tag1, tag2
:public: false

.. sourcecode:: python

    def hello():
        return 42
`

func newTestConverter() *Converter {
	return NewConverter(nil, DefaultOptions())
}

// ---------------------------------------------------------------------------
// TestConvert_Document - Title, docinfo and body of a full post
// ---------------------------------------------------------------------------

func TestConvert_Document(t *testing.T) {
	t.Parallel()

	doc, err := newTestConverter().Convert(context.Background(), samplePost)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	if doc.Title != "rst" {
		t.Errorf("Title = %q, want %q", doc.Title, "rst")
	}
	if strings.Contains(doc.Body, "<h1") {
		t.Errorf("title heading left in body:\n%s", doc.Body)
	}
	if !strings.Contains(doc.Body, `class="chroma"`) {
		t.Errorf("body missing highlighted block:\n%s", doc.Body)
	}

	meta, err := docinfo.Extract(doc.DocInfo)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if !reflect.DeepEqual(meta.Keys(), []string{"tags", "public"}) {
		t.Errorf("docinfo keys = %v, want [tags public]", meta.Keys())
	}
	tags, _ := meta.Get("tags")
	if !reflect.DeepEqual(tags.Strings(), []string{"tag1", "tag2"}) {
		t.Errorf("tags = %v, want [tag1 tag2]", tags)
	}
	if public, _ := meta.Text("public"); public != "false" {
		t.Errorf("public = %q, want false", public)
	}
}

func TestConvert_CRLF(t *testing.T) {
	t.Parallel()

	src := strings.ReplaceAll(samplePost, "\n", "\r\n")
	doc, err := newTestConverter().Convert(context.Background(), src)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if doc.Title != "rst" {
		t.Errorf("Title = %q, want rst", doc.Title)
	}
	if !strings.Contains(doc.DocInfo, "tag2") {
		t.Errorf("docinfo missing tag2:\n%s", doc.DocInfo)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Structure - Title promotion, docinfo lifting, heading offset
// ---------------------------------------------------------------------------

func TestConvert_Structure(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		source      string
		wantTitle   string
		wantBody    []string
		notInBody   []string
		wantDocInfo []string
		noDocInfo   bool
	}{
		{
			name:      "no title",
			source:    "hello world\n",
			wantTitle: "",
			wantBody:  []string{"<p>hello world</p>"},
			noDocInfo: true,
		},
		{
			name:      "atx title",
			source:    "# My *Post*\n\nbody\n",
			wantTitle: "My Post",
			wantBody:  []string{"<p>body</p>"},
			notInBody: []string{"<h1"},
			noDocInfo: true,
		},
		{
			name:      "sections shift to level two",
			source:    "# Title\n\n### Deep\n\n#### Deeper\n",
			wantTitle: "Title",
			wantBody:  []string{`<h2 id="deep">Deep</h2>`, `<h3 id="deeper">Deeper</h3>`},
		},
		{
			name:      "setext section keeps level two",
			source:    "Title\n=====\n\nSection\n-------\n\ntext\n",
			wantTitle: "Title",
			wantBody:  []string{`<h2 id="section">Section</h2>`},
		},
		{
			name:        "leading field list without title is docinfo",
			source:      ":date: 2012-12-12\n:tags: a, b\n\nBody text.\n",
			wantBody:    []string{"<p>Body text.</p>"},
			notInBody:   []string{"field-list", "field-name"},
			wantDocInfo: []string{"<td>2012-12-12</td>", "<li>a</li>", "<li>b</li>"},
		},
		{
			name:      "field list after an untitled paragraph stays in body",
			source:    "intro\n\n:author: me\n",
			wantBody:  []string{"<p>intro</p>", `<th class="field-name">author:</th>`, `<td class="field-body">me</td>`},
			noDocInfo: true,
		},
		{
			name:      "field list after a paragraph stays in body",
			source:    "# T\n\nintro\n\n:author: me\n",
			wantTitle: "T",
			wantBody:  []string{"<p>intro</p>", "field-list"},
			noDocInfo: true,
		},
		{
			name:        "continued field body",
			source:      "# T\n\n:summary: first line\n   second line\n:date: 2012-12-12\n",
			wantTitle:   "T",
			wantDocInfo: []string{"<td>first line second line</td>", "<td>2012-12-12</td>"},
		},
		{
			name:        "docinfo values are escaped",
			source:      "# T\n\n:summary: a <b> & c\n",
			wantTitle:   "T",
			wantDocInfo: []string{"a &lt;b&gt; &amp; c"},
		},
		{
			name:      "comments render nothing",
			source:    "# T\n\n.. this is a private note\n   spanning two lines\n\nvisible\n",
			wantTitle: "T",
			wantBody:  []string{"<p>visible</p>"},
			notInBody: []string{"private note", "spanning"},
			noDocInfo: true,
		},
		{
			name:      "hyperlink targets render nothing",
			source:    "see docs_\n\n.. _docs: https://example.com/docs\n",
			wantBody:  []string{"<p>see docs_</p>"},
			notInBody: []string{"example.com", ".. _docs"},
			noDocInfo: true,
		},
		{
			name:      "fenced code highlighted",
			source:    "```go\nfunc main() {}\n```\n",
			wantBody:  []string{`class="chroma"`},
			noDocInfo: true,
		},
	}

	conv := newTestConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := conv.Convert(context.Background(), tt.source)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if doc.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", doc.Title, tt.wantTitle)
			}
			for _, want := range tt.wantBody {
				if !strings.Contains(doc.Body, want) {
					t.Errorf("body missing %q:\n%s", want, doc.Body)
				}
			}
			for _, bad := range tt.notInBody {
				if strings.Contains(doc.Body, bad) {
					t.Errorf("body contains %q:\n%s", bad, doc.Body)
				}
			}
			if tt.noDocInfo && doc.DocInfo != "" {
				t.Errorf("DocInfo = %q, want empty", doc.DocInfo)
			}
			for _, want := range tt.wantDocInfo {
				if !strings.Contains(doc.DocInfo, want) {
					t.Errorf("docinfo missing %q:\n%s", want, doc.DocInfo)
				}
			}
		})
	}
}

func TestConvert_HeadingLevelOption(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.HeadingLevel = 3
	doc, err := NewConverter(nil, opts).Convert(context.Background(), "# T\n\n## Part\n")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(doc.Body, `<h3 id="part">Part</h3>`) {
		t.Errorf("body = %s, want h3", doc.Body)
	}
}

func TestConvert_ListFieldsOption(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.ListFields = []string{"Keywords"}
	doc, err := NewConverter(nil, opts).Convert(context.Background(), "# T\n\n:keywords: a, b\n:tags: x, y\n")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	meta, err := docinfo.Extract(doc.DocInfo)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if v, _ := meta.Get("keywords"); !v.IsList() {
		t.Errorf("keywords = %v, want list", v)
	}
	if s, _ := meta.Text("tags"); s != "x, y" {
		t.Errorf("tags = %q, want plain text", s)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Directives - Dispatch through the registry
// ---------------------------------------------------------------------------

func TestConvert_Directives(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		wantBody []string
		wantErr  error
	}{
		{
			name:     "line numbers variant",
			source:   ".. code-block:: python\n    :linenos:\n\n    x = 1\n    y = 2\n",
			wantBody: []string{"<table"},
		},
		{
			name:     "shellcast defaults",
			source:   ".. shellcast:: demo\n",
			wantBody: []string{`id="player"`, "<h1> bash </h1>", `"demo"`},
		},
		{
			name:     "shellcast options",
			source:   ".. shcast:: demo\n    :width: 120\n    :title: My session\n",
			wantBody: []string{"120", "<h1> My session </h1>"},
		},
		{
			name:     "directive followed by paragraph",
			source:   ".. script:: demo\n\nafter\n",
			wantBody: []string{"<p>after</p>"},
		},
		{
			name:    "unknown directive",
			source:  ".. nope:: x\n",
			wantErr: directive.ErrUnknownDirective,
		},
		{
			name:    "missing content",
			source:  ".. sourcecode:: python\n",
			wantErr: directive.ErrMissingContent,
		},
		{
			name:    "unknown option",
			source:  ".. sourcecode:: python\n    :color: red\n\n    x\n",
			wantErr: directive.ErrUnknownOption,
		},
		{
			name:    "bad width",
			source:  ".. shellcast:: demo\n    :width: wide\n",
			wantErr: directive.ErrInvalidOption,
		},
	}

	conv := newTestConverter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc, err := conv.Convert(context.Background(), tt.source)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, ErrDirective) {
					t.Errorf("error = %v, want wrapped ErrDirective", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			for _, want := range tt.wantBody {
				if !strings.Contains(doc.Body, want) {
					t.Errorf("body missing %q:\n%s", want, doc.Body)
				}
			}
		})
	}
}

func TestConvert_ErrorReportsLine(t *testing.T) {
	t.Parallel()

	_, err := newTestConverter().Convert(context.Background(), "para\n\n.. nope:: x\n")
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("error = %v, want line 3", err)
	}
}

func TestConvert_CustomRegistry(t *testing.T) {
	t.Parallel()

	reg := directive.NewRegistry()
	reg.Register("note", directive.Spec{HasContent: true}, directive.HandlerFunc(func(inv directive.Invocation) []directive.Fragment {
		return []directive.Fragment{directive.Fragment("<aside>" + strings.Join(inv.Content, "|") + "</aside>")}
	}))

	doc, err := NewConverter(reg, DefaultOptions()).Convert(context.Background(), ".. note::\n\n    one\n      two\n")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if !strings.Contains(doc.Body, "<aside>one|  two</aside>") {
		t.Errorf("body = %s", doc.Body)
	}
}

// ---------------------------------------------------------------------------
// TestConvert_Context - Cancellation
// ---------------------------------------------------------------------------

func TestConvert_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestConverter().Convert(ctx, samplePost)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
}
