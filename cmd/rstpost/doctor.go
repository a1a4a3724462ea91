package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-rstpost"
	"github.com/alnah/go-rstpost/internal/config"
	"github.com/alnah/go-rstpost/internal/directive"
)

// Doctor statuses.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

// minInotifyWatches is the max_user_watches value below which --watch on a
// large tree is likely to fail.
const minInotifyWatches = 8192

// inotifyWatchesPath and doctorGOOS are overridden in tests.
var (
	inotifyWatchesPath = "/proc/sys/fs/inotify/max_user_watches"
	doctorGOOS         = runtime.GOOS
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string     `json:"status"` // "ready", "warnings", "errors"
	Config   configInfo `json:"config"`
	Reader   readerInfo `json:"reader"`
	System   systemInfo `json:"system"`
	Warnings []string   `json:"warnings,omitempty"`
	Errors   []string   `json:"errors,omitempty"`
}

// configInfo holds config loading results.
type configInfo struct {
	Source   string `json:"source"` // file name, or "defaults"
	Valid    bool   `json:"valid"`
	Style    string `json:"style"`
	Timezone string `json:"timezone"`
	Format   string `json:"format"`
}

// readerInfo holds the reader built from the config.
type readerInfo struct {
	Ready       bool     `json:"ready"`
	Directives  []string `json:"directives,omitempty"`
	DateFormats []string `json:"date_formats,omitempty"`
	PoolSize    int      `json:"pool_size"`
}

// systemInfo holds system check results.
type systemInfo struct {
	OS             string `json:"os"`
	Arch           string `json:"arch"`
	GOMAXPROCS     int    `json:"gomaxprocs"`
	TempWritable   bool   `json:"temp_writable"`
	InotifyWatches int    `json:"inotify_max_user_watches,omitempty"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found, 2 = bad flags.
func runDoctorCmd(args []string, env *Environment) int {
	f := &doctorFlags{}
	fs := buildDoctorFlagSet(f)
	fs.SetOutput(env.Stderr)
	fs.Usage = func() { runHelp([]string{"doctor"}, &Environment{Stdout: env.Stderr, Stderr: env.Stderr}) }
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(env.Stderr, "error: %v: %v\n", ErrInvalidFlags, err)
		return ExitUsage
	}

	result := runDoctor(f.config)

	if f.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == statusErrors {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(configFlag string) *doctorResult {
	result := &doctorResult{
		Status: statusReady,
		System: systemInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			GOMAXPROCS: runtime.GOMAXPROCS(0),
		},
	}

	cfg := checkConfig(result, configFlag)
	if cfg != nil {
		checkReader(result, cfg)
	}
	checkEnvVars(result)
	checkSystem(result)
	checkWatchLimit(result)

	if len(result.Errors) > 0 {
		result.Status = statusErrors
	} else if len(result.Warnings) > 0 {
		result.Status = statusWarnings
	}

	return result
}

// checkConfig loads and validates the config the convert command would use.
func checkConfig(result *doctorResult, configFlag string) *config.Config {
	envCfg := loadEnvConfig()
	result.Config.Source = "defaults"
	if name := orDefault(configFlag, envCfg.ConfigPath); name != "" {
		result.Config.Source = name
	}

	cfg, err := loadConfig(configFlag, envCfg.ConfigPath)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return nil
	}
	applyEnvConfig(envCfg, cfg)

	result.Config.Style = orDefault(cfg.Highlight.Style, directive.DefaultStyle)
	result.Config.Timezone = orDefault(cfg.Post.Timezone, "UTC")
	result.Config.Format = orDefault(cfg.Output.Format, config.FormatJSON)

	if err := cfg.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
		return nil
	}
	result.Config.Valid = true
	return cfg
}

// checkReader builds a reader from cfg, which checks the style, the
// time zone, the date formats and the base URL together.
func checkReader(result *doctorResult, cfg *config.Config) {
	result.Reader.PoolSize = rstpost.ResolvePoolSize(cfg.Workers)

	opts, err := readerOptions(cfg)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return
	}
	r, err := rstpost.NewReader(opts...)
	if err != nil {
		result.Errors = append(result.Errors, withHint(err, nil).Error())
		return
	}
	result.Reader.Ready = true
	result.Reader.Directives = r.Directives()
	result.Reader.DateFormats = r.DateFormats()

	if cfg.Workers > rstpost.MaxPoolSize {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("workers=%d exceeds %d; extra readers rarely help", cfg.Workers, rstpost.MaxPoolSize))
	}
}

// checkEnvVars reports RSTPOST_* variables nothing reads.
func checkEnvVars(result *doctorResult) {
	for _, env := range os.Environ() {
		name, _, _ := strings.Cut(env, "=")
		if strings.HasPrefix(name, "RSTPOST_") && !knownEnvVars[name] {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Unknown environment variable %s (typo?)", name))
		}
	}
}

// checkSystem verifies the temp directory used for atomic writes.
func checkSystem(result *doctorResult) {
	f, err := os.CreateTemp("", "rstpost-doctor-*")
	if err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", os.TempDir()))
		return
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	result.System.TempWritable = true
}

// checkWatchLimit warns when the inotify watch limit is low.
func checkWatchLimit(result *doctorResult) {
	if doctorGOOS != "linux" {
		return
	}
	data, err := os.ReadFile(inotifyWatchesPath)
	if err != nil {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return
	}
	result.System.InotifyWatches = n
	if n < minInotifyWatches {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("fs.inotify.max_user_watches=%d is low for --watch on large trees", n))
	}
}

// orDefault returns v, or def when v is empty.
func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "rstpost doctor")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Config")
	fmt.Fprintf(w, "  [OK] Source: %s\n", r.Config.Source)
	if r.Config.Valid {
		fmt.Fprintf(w, "  [OK] Style: %s\n", r.Config.Style)
		fmt.Fprintf(w, "  [OK] Timezone: %s\n", r.Config.Timezone)
		fmt.Fprintf(w, "  [OK] Format: %s\n", r.Config.Format)
	} else {
		fmt.Fprintln(w, "  [ERROR] Invalid")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Reader")
	if r.Reader.Ready {
		fmt.Fprintf(w, "  [OK] Directives: %s\n", strings.Join(r.Reader.Directives, ", "))
		fmt.Fprintf(w, "  [OK] Date formats: %s\n", strings.Join(r.Reader.DateFormats, ", "))
		fmt.Fprintf(w, "  [OK] Pool size: %d\n", r.Reader.PoolSize)
	} else {
		fmt.Fprintln(w, "  [ERROR] Not available")
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.System.OS, r.System.Arch)
	fmt.Fprintf(w, "  [OK] GOMAXPROCS: %d\n", r.System.GOMAXPROCS)
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	switch r.Status {
	case statusReady:
		fmt.Fprintln(w, "Status: Ready to convert")
	case statusWarnings:
		fmt.Fprintln(w, "Status: Ready with warnings")
	case statusErrors:
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
