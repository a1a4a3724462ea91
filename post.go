package rstpost

import (
	"strings"
	"time"

	"github.com/goliatone/go-slug"

	"github.com/alnah/go-rstpost/internal/dateutil"
	"github.com/alnah/go-rstpost/internal/fileutil"
	"github.com/alnah/go-rstpost/internal/pipeline"
)

// Post is a converted source with its metadata resolved.
type Post struct {
	Filepath string    `json:"filepath,omitempty" yaml:"filepath,omitempty"`
	Title    string    `json:"title" yaml:"title"`
	Slug     string    `json:"slug" yaml:"slug"`
	Author   string    `json:"author,omitempty" yaml:"author,omitempty"`
	Date     time.Time `json:"date,omitzero" yaml:"date,omitempty"`
	Updated  time.Time `json:"updated,omitzero" yaml:"updated,omitempty"`
	Category string    `json:"category,omitempty" yaml:"category,omitempty"`
	Tags     []string  `json:"tags" yaml:"tags"`
	Public   bool      `json:"public" yaml:"public"`
	Meta     *Metadata `json:"meta" yaml:"meta"`
	Body     string    `json:"body" yaml:"body"`

	// DocInfo is the rendered docinfo table the metadata was read from.
	DocInfo string `json:"-" yaml:"-"`
}

// Attr returns the raw metadata field name, matched case-insensitively.
func (p *Post) Attr(name string) (Value, bool) {
	return p.Meta.Get(strings.ToLower(name))
}

// assemble resolves the well-known metadata fields of a converted source.
func (r *Reader) assemble(in Input, doc *pipeline.Document, body string, meta *Metadata) (*Post, error) {
	post := &Post{
		Filepath: in.Path,
		Title:    doc.Title,
		Body:     body,
		DocInfo:  doc.DocInfo,
		Meta:     meta,
		Author:   r.cfg.defaultAuthor,
		Tags:     []string{},
		Public:   true,
	}

	if v, ok := meta.Get("author"); ok {
		if names := v.Strings(); len(names) > 0 {
			post.Author = names[0]
		}
	}

	if raw, ok := meta.Text("date"); ok && strings.TrimSpace(raw) != "" {
		if dateutil.IsAuto(raw) {
			post.Date = in.ModTime
		} else {
			date, err := dateutil.ParseDate(raw, r.layouts, r.cfg.location)
			if err != nil {
				return nil, err
			}
			post.Date = date
		}
	}

	post.Updated = post.Date
	if !in.ModTime.IsZero() {
		post.Updated = in.ModTime
	}

	if v, ok := meta.Get("tags"); ok {
		post.Tags = tagsOf(v)
	}

	if public, ok := meta.Text("public"); ok && strings.EqualFold(strings.TrimSpace(public), "false") {
		post.Public = false
	}

	post.Category, _ = meta.Text("category")
	post.Category = strings.TrimSpace(post.Category)

	if s, ok := meta.Text("slug"); ok && strings.TrimSpace(s) != "" {
		post.Slug = strings.TrimSpace(s)
	} else {
		candidate := post.Title
		if in.Path != "" {
			candidate = fileutil.TrimSourceExt(in.Path)
		}
		post.Slug = normalizeSlug(candidate)
	}

	return post, nil
}

// tagsOf returns a list value's items, or a text value split on commas.
func tagsOf(v Value) []string {
	tags := []string{}
	if v.IsList() {
		for _, t := range v.Strings() {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		return tags
	}
	text, _ := v.Text()
	for _, t := range strings.Split(text, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// normalizeSlug slugifies candidate, keeping it as-is when normalization
// yields nothing.
func normalizeSlug(candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	normalized, err := slug.Normalize(candidate)
	if err != nil || normalized == "" {
		return candidate
	}
	return normalized
}
