package main

import (
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-rstpost"
)

// runCSS prints the stylesheet for class-based highlighting.
// The style comes from --style, else RSTPOST_STYLE, else the config.
func runCSS(args []string, env *Environment) error {
	flags, err := parseCSSFlags(args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrInvalidFlags, err)
	}

	envCfg := loadEnvConfig()
	cfg, err := loadConfig(flags.config, envCfg.ConfigPath)
	if err != nil {
		return err
	}
	applyEnvConfig(envCfg, cfg)
	if flags.style != "" {
		cfg.Highlight.Style = flags.style
	}

	css, err := rstpost.HighlightCSS(cfg.Highlight.Style)
	if err != nil {
		return withHint(err, nil)
	}
	_, err = fmt.Fprint(env.Stdout, css)
	return err
}
