package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-rstpost"
	"github.com/alnah/go-rstpost/internal/config"
	"github.com/alnah/go-rstpost/internal/pipeline"
	"github.com/alnah/go-rstpost/internal/yamlutil"
)

// ErrInvalidFormat indicates an unknown output format.
var ErrInvalidFormat = errors.New("invalid output format")

// encoder turns a post into the bytes of one output record.
type encoder func(ctx context.Context, post *rstpost.Post) ([]byte, error)

// outputExt returns the file extension records of format are written with.
func outputExt(format string) string {
	switch format {
	case config.FormatYAML:
		return ".yaml"
	case config.FormatHTML:
		return ".html"
	default:
		return ".json"
	}
}

// newEncoder returns the encoder for the configured output format.
// html pages embed the highlight stylesheet unless styles are inline.
func newEncoder(cfg *config.Config) (encoder, error) {
	format := strings.ToLower(cfg.Output.Format)
	switch format {
	case config.FormatJSON, "":
		return encodeJSON, nil
	case config.FormatYAML:
		return encodeYAML, nil
	case config.FormatHTML:
		return newHTMLEncoder(cfg)
	}
	return nil, fmt.Errorf("%w: %q (supported: %s)", ErrInvalidFormat, cfg.Output.Format, strings.Join(config.Formats, ", "))
}

func encodeJSON(_ context.Context, post *rstpost.Post) ([]byte, error) {
	data, err := json.MarshalIndent(post, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func encodeYAML(_ context.Context, post *rstpost.Post) ([]byte, error) {
	return yamlutil.Marshal(post)
}

func newHTMLEncoder(cfg *config.Config) (encoder, error) {
	var css string
	if !cfg.Highlight.Inline {
		var err error
		if css, err = rstpost.HighlightCSS(cfg.Highlight.Style); err != nil {
			return nil, err
		}
	}

	var toc *pipeline.TOCOptions
	if cfg.Output.TOC.Enabled {
		toc = &pipeline.TOCOptions{
			Title:    cfg.Output.TOC.Title,
			MaxDepth: cfg.Output.TOC.MaxDepth,
		}
	}

	return func(ctx context.Context, post *rstpost.Post) ([]byte, error) {
		page, err := pipeline.RenderPage(ctx, &pipeline.PageData{
			Title:   post.Title,
			DocInfo: post.DocInfo,
			Body:    post.Body,
			CSS:     css,
			TOC:     toc,
		})
		if err != nil {
			return nil, err
		}
		return []byte(page), nil
	}, nil
}
