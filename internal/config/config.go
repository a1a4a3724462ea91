// Package config loads and validates the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-rstpost/internal/dateutil"
	"github.com/alnah/go-rstpost/internal/directive"
	"github.com/alnah/go-rstpost/internal/fileutil"
	"github.com/alnah/go-rstpost/internal/pipeline"
	"github.com/alnah/go-rstpost/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxStyleLength     = 50   // chroma style names are short
	MaxFieldNameLength = 50   // docinfo field name
	MaxAuthorLength    = 100  // Full name (generous)
	MaxURLLength       = 2048 // Browser limit
	MaxPathLength      = 4096 // PATH_MAX on Linux
	MaxTimezoneLength  = 64   // "America/Argentina/ComodRivadavia"
	MaxTOCTitleLength  = 100  // TOC title
)

// MaxWorkers caps the worker count a config file may request.
const MaxWorkers = 64

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatHTML = "html"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatYAML, FormatHTML}

// Config holds all configuration for post conversion.
type Config struct {
	Highlight HighlightConfig `yaml:"highlight"`
	Render    RenderConfig    `yaml:"render"`
	Post      PostConfig      `yaml:"post"`
	Output    OutputConfig    `yaml:"output"`
	Workers   int             `yaml:"workers"` // 0 = auto
}

// HighlightConfig defines code highlighting options.
type HighlightConfig struct {
	Inline bool   `yaml:"inline"` // inline style attributes instead of CSS classes
	Style  string `yaml:"style"`  // chroma style name (default: github)
}

// RenderConfig defines markup conversion options.
type RenderConfig struct {
	HeadingLevel int      `yaml:"headingLevel"` // 1-6, default 2
	ListFields   []string `yaml:"listFields"`   // docinfo fields split on commas
	BaseURL      string   `yaml:"baseURL"`      // resolves relative links; empty = untouched
}

// PostConfig defines post assembly options.
type PostConfig struct {
	DateFormats   []string `yaml:"dateFormats"`   // dateutil tokens or presets
	DefaultAuthor string   `yaml:"defaultAuthor"` // used when a post has no author field
	Timezone      string   `yaml:"timezone"`      // IANA name; empty = UTC
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string    `yaml:"defaultDir"` // Default output directory (empty = same as source)
	Format     string    `yaml:"format"`     // json, yaml or html
	TOC        TOCConfig `yaml:"toc"`
}

// TOCConfig defines the table of contents of html output.
type TOCConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Title    string `yaml:"title"`    // Empty = no title above TOC
	MaxDepth int    `yaml:"maxDepth"` // 1-6, default 3
}

// Validate checks field lengths and value ranges.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("highlight.style", c.Highlight.Style, MaxStyleLength); err != nil {
		return err
	}

	if c.Render.HeadingLevel != 0 && (c.Render.HeadingLevel < 1 || c.Render.HeadingLevel > 6) {
		return fmt.Errorf("%w: render.headingLevel: must be between 1 and 6, got %d", ErrInvalidValue, c.Render.HeadingLevel)
	}
	for i, f := range c.Render.ListFields {
		if err := validateFieldLength(fmt.Sprintf("render.listFields[%d]", i), f, MaxFieldNameLength); err != nil {
			return err
		}
	}
	if err := validateFieldLength("render.baseURL", c.Render.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if c.Render.BaseURL != "" && !fileutil.IsURL(c.Render.BaseURL) && !strings.HasPrefix(c.Render.BaseURL, "/") {
		return fmt.Errorf("%w: render.baseURL: must be an http(s) URL or start with /, got %q", ErrInvalidValue, c.Render.BaseURL)
	}

	if _, err := dateutil.Layouts(c.Post.DateFormats); err != nil {
		return fmt.Errorf("%w: post.dateFormats: %v", ErrInvalidValue, err)
	}
	if err := validateFieldLength("post.defaultAuthor", c.Post.DefaultAuthor, MaxAuthorLength); err != nil {
		return err
	}
	if err := validateFieldLength("post.timezone", c.Post.Timezone, MaxTimezoneLength); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	if err := validateFieldLength("output.defaultDir", c.Output.DefaultDir, MaxPathLength); err != nil {
		return err
	}
	if c.Output.Format != "" && !slices.Contains(Formats, strings.ToLower(c.Output.Format)) {
		return fmt.Errorf("%w: output.format: must be one of %s, got %q", ErrInvalidValue, strings.Join(Formats, ", "), c.Output.Format)
	}
	if err := validateFieldLength("output.toc.title", c.Output.TOC.Title, MaxTOCTitleLength); err != nil {
		return err
	}
	if c.Output.TOC.Enabled && c.Output.TOC.MaxDepth != 0 {
		if c.Output.TOC.MaxDepth < 1 || c.Output.TOC.MaxDepth > 6 {
			return fmt.Errorf("%w: output.toc.maxDepth: must be between 1 and 6, got %d", ErrInvalidValue, c.Output.TOC.MaxDepth)
		}
	}

	if c.Workers < 0 || c.Workers > MaxWorkers {
		return fmt.Errorf("%w: workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Workers)
	}

	return nil
}

// Location returns the time zone dates without an offset are read in.
func (c *Config) Location() (*time.Location, error) {
	if c.Post.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Post.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: post.timezone: %v", ErrInvalidValue, err)
	}
	return loc, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Highlight: HighlightConfig{Style: directive.DefaultStyle},
		Render: RenderConfig{
			HeadingLevel: pipeline.DefaultHeadingLevel,
			ListFields:   slices.Clone(pipeline.DefaultListFields),
		},
		Post:   PostConfig{DateFormats: slices.Clone(dateutil.DefaultDateFormats)},
		Output: OutputConfig{Format: FormatJSON},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
// Settings absent from the file keep their DefaultConfig values.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the files a config name resolves to, in lookup order:
// current directory first, then the user config directory
// (~/.config/go-rstpost/ on Linux), each with .yaml then .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, "go-rstpost", name+ext))
		}
	}
	return paths
}

// resolveConfigPath returns the first existing SearchPaths entry.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
