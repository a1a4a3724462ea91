package main

// Notes:
// - runCSS: we test style selection order (flag, env, config) by the
//   stylesheet each choice prints.
// - Env-based cases use t.Setenv() and do not run in parallel.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"strings"
	"testing"

	"github.com/alnah/go-rstpost"
)

func cssFor(t *testing.T, style string) string {
	t.Helper()
	css, err := rstpost.HighlightCSS(style)
	if err != nil {
		t.Fatalf("HighlightCSS(%q) error = %v", style, err)
	}
	return css
}

func TestRunCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		args  []string
		style string
	}{
		{"default style", nil, ""},
		{"flag style", []string{"--style", "monokai"}, "monokai"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, _ := testEnv()
			if err := runCSS(tt.args, env); err != nil {
				t.Fatalf("runCSS() error = %v", err)
			}
			if stdout.String() != cssFor(t, tt.style) {
				t.Errorf("stylesheet does not match style %q", tt.style)
			}
		})
	}
}

func TestRunCSS_ConfigAndEnv(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "site.yaml", "highlight:\n  style: dracula\n")

	t.Run("config style", func(t *testing.T) {
		unsetEnv(t, "RSTPOST_STYLE")
		env, stdout, _ := testEnv()
		if err := runCSS([]string{"-c", cfg}, env); err != nil {
			t.Fatalf("runCSS() error = %v", err)
		}
		if stdout.String() != cssFor(t, "dracula") {
			t.Error("stylesheet should follow the config style")
		}
	})

	t.Run("env over config", func(t *testing.T) {
		t.Setenv("RSTPOST_STYLE", "monokai")
		env, stdout, _ := testEnv()
		if err := runCSS([]string{"-c", cfg}, env); err != nil {
			t.Fatalf("runCSS() error = %v", err)
		}
		if stdout.String() != cssFor(t, "monokai") {
			t.Error("stylesheet should follow RSTPOST_STYLE")
		}
	})
}

func TestRunCSS_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown style", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		err := runCSS([]string{"--style", "no-such-style"}, env)
		if !errors.Is(err, rstpost.ErrStyleNotFound) {
			t.Fatalf("error = %v, want ErrStyleNotFound", err)
		}
		if !strings.Contains(err.Error(), "monokai") {
			t.Errorf("hint should list styles: %v", err)
		}
	})

	t.Run("bad flag", func(t *testing.T) {
		t.Parallel()

		env, _, _ := testEnv()
		if err := runCSS([]string{"--nope"}, env); !errors.Is(err, ErrInvalidFlags) {
			t.Errorf("error = %v, want ErrInvalidFlags", err)
		}
	})
}
