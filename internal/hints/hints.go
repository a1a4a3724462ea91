// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"runtime"
	"strings"

	"github.com/alnah/go-rstpost/internal/fileutil"
)

// goos is overridden in tests.
var goos = runtime.GOOS

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-rstpost/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-rstpost") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForStyleNotFound lists the highlight styles that can be used instead.
func ForStyleNotFound(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available styles: " + strings.Join(available, ", "))
}

// ForUnknownDirective lists the registered directive names.
func ForUnknownDirective(registered []string) string {
	if len(registered) == 0 {
		return ""
	}
	return format("known directives: " + strings.Join(registered, ", "))
}

// ForInvalidDate shows the accepted date formats and where to change them.
func ForInvalidDate(formats []string) string {
	hints := []string{"use " + strings.Join(formats, " or ")}
	hints = append(hints, "add formats under post.dateFormats in the config")
	return formatHints(hints)
}

// ForUnsupportedSource lists the accepted source file suffixes.
func ForUnsupportedSource() string {
	return format("supported extensions: " + strings.Join(fileutil.SourceExtensions, ", "))
}

// ForWatchLimit returns hints for watcher registration failures.
func ForWatchLimit() string {
	if goos == "linux" {
		return format("raise fs.inotify.max_user_watches or watch a smaller tree")
	}
	return format("watch a smaller tree")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
