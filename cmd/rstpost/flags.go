package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// renderFlags holds conversion settings that override the config file.
type renderFlags struct {
	style         string
	inlineStyles  bool
	headingLevel  int
	baseURL       string
	defaultAuthor string
	timezone      string
}

// tocFlags holds table of contents flags for html output.
type tocFlags struct {
	enabled  bool
	title    string
	maxDepth int
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	format  string
	workers int
	watch   bool
	render  renderFlags
	toc     tocFlags
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
}

// addRenderFlags adds conversion flags to a FlagSet.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	fs.StringVar(&f.style, "style", "", "highlight style name")
	fs.BoolVar(&f.inlineStyles, "inline-styles", false, "inline highlight styles instead of CSS classes")
	fs.IntVar(&f.headingLevel, "heading-level", 0, "level of top body sections (1-6, default: 2)")
	fs.StringVar(&f.baseURL, "base-url", "", "resolve relative links and images against this URL")
	fs.StringVar(&f.defaultAuthor, "author", "", "author of posts without an author field")
	fs.StringVar(&f.timezone, "timezone", "", "IANA time zone for dates without offset")
}

// addTOCFlags adds TOC flags to a FlagSet.
func addTOCFlags(fs *flag.FlagSet, f *tocFlags) {
	fs.BoolVar(&f.enabled, "toc", false, "add a table of contents to html output")
	fs.StringVar(&f.title, "toc-title", "", "table of contents heading")
	fs.IntVar(&f.maxDepth, "toc-depth", 0, "max heading depth for TOC (1-6, default: 3)")
}

// buildConvertFlagSet registers every convert flag into f.
// Shared by parsing and shell completion.
func buildConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory (- = stdout)")
	fs.StringVarP(&f.format, "format", "f", "", "output format: json, yaml, html")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.watch, "watch", false, "reconvert sources when they change")

	addCommonFlags(fs, &f.common)
	addRenderFlags(fs, &f.render)
	addTOCFlags(fs, &f.toc)

	return fs
}

// parseConvertFlags parses convert command flags and returns positional args.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := buildConvertFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	return f, fs.Args(), nil
}

// cssFlags holds flags for the css command.
type cssFlags struct {
	config string
	style  string
}

func buildCSSFlagSet(f *cssFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("css", flag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.style, "style", "", "highlight style name")
	return fs
}

// parseCSSFlags parses css command flags.
func parseCSSFlags(args []string, stderr io.Writer) (*cssFlags, error) {
	f := &cssFlags{}
	fs := buildCSSFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printCSSUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// doctorFlags holds flags for the doctor command.
type doctorFlags struct {
	config string
	json   bool
}

func buildDoctorFlagSet(f *doctorFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVar(&f.json, "json", false, "print results as JSON")
	return fs
}
