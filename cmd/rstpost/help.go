package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rstpost <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert post sources to json, yaml or html records")
	fmt.Fprintln(w, "  css         Print the code highlighting stylesheet")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  doctor      Check configuration and environment")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'rstpost help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rstpost convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert post sources (.rst, .rst.txt, .restructuredtext, .md) to records.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Arguments:")
	fmt.Fprintln(w, "  input    Post source file or directory")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory (- = stdout)")
	fmt.Fprintln(w, "  -f, --format <s>          Output format: json, yaml, html")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --watch               Reconvert sources when they change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --style <name>        Highlight style (see 'rstpost css --style')")
	fmt.Fprintln(w, "      --inline-styles       Inline highlight styles instead of CSS classes")
	fmt.Fprintln(w, "      --heading-level <n>   Level of top body sections (1-6)")
	fmt.Fprintln(w, "      --base-url <url>      Resolve relative links and images")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Posts:")
	fmt.Fprintln(w, "      --author <s>          Author of posts without an author field")
	fmt.Fprintln(w, "      --timezone <s>        IANA time zone for dates without offset")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Table of Contents (html):")
	fmt.Fprintln(w, "      --toc                 Add a table of contents")
	fmt.Fprintln(w, "      --toc-title <s>       TOC heading text")
	fmt.Fprintln(w, "      --toc-depth <n>       Max heading depth (1-6)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  RSTPOST_CONFIG, RSTPOST_OUTPUT_DIR, RSTPOST_FORMAT, RSTPOST_STYLE,")
	fmt.Fprintln(w, "  RSTPOST_AUTHOR, RSTPOST_BASE_URL, RSTPOST_WORKERS (also read from .env)")
}

// printCSSUsage prints usage for the css command.
func printCSSUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: rstpost css [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the stylesheet for class-based code highlighting.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --style <name>        Highlight style")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "css":
		printCSSUsage(env.Stdout)
	case "completion":
		printCompletionUsage(env.Stdout)
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: rstpost doctor [--json] [-c config]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check configuration and environment.")
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: rstpost version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: rstpost help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
