package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-rstpost"
	"github.com/alnah/go-rstpost/internal/config"
	"github.com/alnah/go-rstpost/internal/hints"
)

// Sentinel errors for CLI usage.
var (
	ErrInvalidFlags = errors.New("invalid flags")
	ErrTooManyArgs  = errors.New("too many arguments")
)

// runConvertCmd parses convert flags and runs the conversion.
func runConvertCmd(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}

	logger := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose)
	setMaxProcs(logger)

	return runConvert(ctx, positional, flags, env, logger)
}

// setMaxProcs matches GOMAXPROCS to the container CPU quota.
func setMaxProcs(logger *slog.Logger) {
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, positionalArgs []string, flags *convertFlags, env *Environment, logger *slog.Logger) error {
	if err := validateWorkers(flags.workers); err != nil {
		return err
	}
	if len(positionalArgs) > 1 {
		return fmt.Errorf("%w: %v", ErrTooManyArgs, positionalArgs[1:])
	}

	warnUnknownEnvVars(logger)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	opts, err := readerOptions(cfg)
	if err != nil {
		return err
	}
	// A standalone reader validates the options and answers hint lookups.
	ref, err := rstpost.NewReader(opts...)
	if err != nil {
		return withHint(err, nil)
	}

	inputPath, err := resolveInputPath(positionalArgs)
	if err != nil {
		return err
	}

	encode, err := newEncoder(cfg)
	if err != nil {
		return err
	}

	outputDir := resolveOutputDir(flags.output, cfg)
	ext := outputExt(cfg.Output.Format)

	files, err := discoverFiles(inputPath, outputDir, ext)
	if err != nil {
		return withHint(fmt.Errorf("discovering files: %w", err), ref)
	}

	poolSize := rstpost.ResolvePoolSize(cfg.Workers)
	if !flags.watch {
		poolSize = min(poolSize, len(files))
	}
	pool, err := newReaderPool(poolSize, opts)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	logger.Debug("starting conversion", "files", len(files), "workers", poolSize, "format", cfg.Output.Format)

	params := &conversionParams{encode: encode, stdout: env.Stdout}
	results := convertBatch(ctx, pool, files, params)
	failed := logResults(logger, withHints(results, ref))

	if flags.watch {
		w := &watchSession{
			root:      inputPath,
			outputDir: outputDir,
			ext:       ext,
			pool:      pool,
			params:    params,
			ref:       ref,
			logger:    logger,
		}
		return w.run(ctx)
	}

	if failed == 0 {
		return nil
	}
	if len(results) == 1 {
		return results[0].Err
	}
	return fmt.Errorf("%w: %d of %d", ErrBatchFailures, failed, len(results))
}

// loadConfig loads the config named by the flag, else by RSTPOST_CONFIG,
// else returns the defaults.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name == "" {
		return config.DefaultConfig(), nil
	}

	cfg, err := config.LoadConfig(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("loading config: %w%s", err, hints.ForConfigNotFound(config.SearchPaths(name)))
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// mergeFlags applies explicitly set CLI flags over the config.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	if flags.format != "" {
		cfg.Output.Format = flags.format
	}
	if flags.workers > 0 {
		cfg.Workers = flags.workers
	}

	r := flags.render
	if r.style != "" {
		cfg.Highlight.Style = r.style
	}
	if r.inlineStyles {
		cfg.Highlight.Inline = true
	}
	if r.headingLevel != 0 {
		cfg.Render.HeadingLevel = r.headingLevel
	}
	if r.baseURL != "" {
		cfg.Render.BaseURL = r.baseURL
	}
	if r.defaultAuthor != "" {
		cfg.Post.DefaultAuthor = r.defaultAuthor
	}
	if r.timezone != "" {
		cfg.Post.Timezone = r.timezone
	}

	if flags.toc.enabled {
		cfg.Output.TOC.Enabled = true
	}
	if flags.toc.title != "" {
		cfg.Output.TOC.Title = flags.toc.title
	}
	if flags.toc.maxDepth != 0 {
		cfg.Output.TOC.MaxDepth = flags.toc.maxDepth
	}
}

// readerOptions translates a validated config into reader options.
func readerOptions(cfg *config.Config) ([]rstpost.Option, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	opts := []rstpost.Option{
		rstpost.WithHighlightStyle(cfg.Highlight.Style),
		rstpost.WithInlineStyles(cfg.Highlight.Inline),
		rstpost.WithListFields(cfg.Render.ListFields...),
		rstpost.WithDateFormats(cfg.Post.DateFormats...),
		rstpost.WithDefaultAuthor(cfg.Post.DefaultAuthor),
		rstpost.WithBaseURL(cfg.Render.BaseURL),
		rstpost.WithLocation(loc),
	}
	if cfg.Render.HeadingLevel != 0 {
		opts = append(opts, rstpost.WithHeadingLevel(cfg.Render.HeadingLevel))
	}
	return opts, nil
}

// resolveInputPath returns the source file or directory to convert.
func resolveInputPath(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrNoInput
	}
	return args[0], nil
}

// resolveOutputDir returns the output location: flag, else config.
func resolveOutputDir(flagOutput string, cfg *config.Config) string {
	if flagOutput != "" {
		return flagOutput
	}
	return cfg.Output.DefaultDir
}

// withHint appends an actionable hint to err when one applies.
// ref supplies the active directives and date formats; it may be nil.
func withHint(err error, ref *rstpost.Reader) error {
	hint := hintFor(err, ref)
	if hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}

func hintFor(err error, ref *rstpost.Reader) string {
	switch {
	case errors.Is(err, rstpost.ErrStyleNotFound):
		return hints.ForStyleNotFound(rstpost.HighlightStyles())
	case errors.Is(err, rstpost.ErrUnsupportedSource):
		return hints.ForUnsupportedSource()
	case ref == nil:
		return ""
	case errors.Is(err, rstpost.ErrUnknownDirective):
		return hints.ForUnknownDirective(ref.Directives())
	case errors.Is(err, rstpost.ErrInvalidDate):
		return hints.ForInvalidDate(ref.DateFormats())
	}
	return ""
}

// withHints adds hints to the errors of results in place.
func withHints(results []ConversionResult, ref *rstpost.Reader) []ConversionResult {
	for i := range results {
		if results[i].Err != nil {
			results[i].Err = withHint(results[i].Err, ref)
		}
	}
	return results
}
