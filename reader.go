package rstpost

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/alnah/go-rstpost/internal/dateutil"
	"github.com/alnah/go-rstpost/internal/directive"
	"github.com/alnah/go-rstpost/internal/docinfo"
	"github.com/alnah/go-rstpost/internal/fileutil"
	"github.com/alnah/go-rstpost/internal/pipeline"
)

// Compile-time interface implementation check.
var _ pipeline.DocumentConverter = (*pipeline.Converter)(nil)

// Reader turns post sources into Posts.
// Create with NewReader; a Reader is safe for concurrent use.
type Reader struct {
	cfg       readerConfig
	registry  *directive.Registry
	converter pipeline.DocumentConverter
	layouts   []string
}

// NewReader creates a Reader with the built-in directives and default
// settings, adjusted by opts.
// Returns an error for an unknown highlight style, a heading level outside
// 1-6, a malformed date format or base URL.
func NewReader(opts ...Option) (*Reader, error) {
	cfg := readerConfig{
		highlight:    directive.HighlightConfig{Style: directive.DefaultStyle},
		headingLevel: pipeline.DefaultHeadingLevel,
		listFields:   slices.Clone(pipeline.DefaultListFields),
		location:     time.UTC,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.highlight.Style == "" {
		cfg.highlight.Style = directive.DefaultStyle
	}
	if !hasStyle(cfg.highlight.Style) {
		return nil, fmt.Errorf("%w: %q", ErrStyleNotFound, cfg.highlight.Style)
	}
	if cfg.headingLevel < 1 || cfg.headingLevel > 6 {
		return nil, fmt.Errorf("%w: got %d", ErrHeadingLevel, cfg.headingLevel)
	}
	if cfg.location == nil {
		cfg.location = time.UTC
	}
	if cfg.baseURL != "" {
		if _, err := url.Parse(cfg.baseURL); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBaseURL, err)
		}
	}
	layouts, err := dateutil.Layouts(cfg.dateFormats)
	if err != nil {
		return nil, err
	}

	registry := directive.NewDefaultRegistry(cfg.highlight)
	for _, d := range cfg.directives {
		for _, name := range d.names {
			registry.Register(name, d.spec, d.handler)
		}
	}

	converter := pipeline.NewConverter(registry, pipeline.Options{
		HeadingLevel: cfg.headingLevel,
		ListFields:   cfg.listFields,
		Highlight:    cfg.highlight,
	})

	return &Reader{
		cfg:       cfg,
		registry:  registry,
		converter: converter,
		layouts:   layouts,
	}, nil
}

// Read converts the post source at path.
// The file's modification time becomes the post's Updated time.
func (r *Reader) Read(ctx context.Context, path string) (*Post, error) {
	if !fileutil.IsSource(path) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedSource, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrReadSource, path)
	}
	content, err := os.ReadFile(path) // #nosec G304 -- caller-provided path
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadSource, err)
	}

	return r.Render(ctx, Input{
		Path:    path,
		Source:  string(content),
		ModTime: info.ModTime(),
	})
}

// Render converts an in-memory source.
func (r *Reader) Render(ctx context.Context, in Input) (*Post, error) {
	doc, err := r.converter.Convert(ctx, in.Source)
	if err != nil {
		return nil, err
	}

	body, err := pipeline.ResolveRelativeURLs(doc.Body, r.cfg.baseURL)
	if err != nil {
		return nil, err
	}

	meta, err := docinfo.Extract(doc.DocInfo)
	if err != nil {
		return nil, err
	}

	return r.assemble(in, doc, body, meta)
}

// Directives returns the names of every directive the reader dispatches.
func (r *Reader) Directives() []string {
	return r.registry.Names()
}

// DateFormats returns the formats post dates are parsed with.
func (r *Reader) DateFormats() []string {
	if len(r.cfg.dateFormats) == 0 {
		return slices.Clone(dateutil.DefaultDateFormats)
	}
	return slices.Clone(r.cfg.dateFormats)
}
