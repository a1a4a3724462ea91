package main

// Notes:
// - discoverFiles: we test single files, nested directories, hidden
//   directory skipping and the empty-tree error.
// - resolveOutputPath: table of the output layouts.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alnah/go-rstpost"
)

// ---------------------------------------------------------------------------
// TestDiscoverFiles - Source discovery
// ---------------------------------------------------------------------------

func TestDiscoverFiles(t *testing.T) {
	t.Parallel()

	t.Run("single file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		src := writeFile(t, dir, "post.rst", "x")

		files, err := discoverFiles(src, "", ".json")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}
		want := FileToConvert{InputPath: src, OutputPath: filepath.Join(dir, "post.json")}
		if len(files) != 1 || files[0] != want {
			t.Errorf("files = %+v, want [%+v]", files, want)
		}
	})

	t.Run("directory tree", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "a.rst", "x")
		writeFile(t, dir, "b.rst.txt", "x")
		writeFile(t, dir, "deep/c.restructuredtext", "x")
		writeFile(t, dir, ".git/d.rst", "x")
		writeFile(t, dir, "e.html", "x")

		files, err := discoverFiles(dir, "", ".yaml")
		if err != nil {
			t.Fatalf("discoverFiles() error = %v", err)
		}

		got := map[string]string{}
		for _, f := range files {
			got[f.InputPath] = f.OutputPath
		}
		want := map[string]string{
			filepath.Join(dir, "a.rst"):                   filepath.Join(dir, "a.yaml"),
			filepath.Join(dir, "b.rst.txt"):               filepath.Join(dir, "b.yaml"),
			filepath.Join(dir, "deep/c.restructuredtext"): filepath.Join(dir, "deep/c.yaml"),
		}
		if len(got) != len(want) {
			t.Fatalf("found %d files, want %d: %v", len(got), len(want), got)
		}
		for in, out := range want {
			if got[in] != out {
				t.Errorf("%s -> %q, want %q", in, got[in], out)
			}
		}
	})

	t.Run("unsupported file", func(t *testing.T) {
		t.Parallel()

		src := writeFile(t, t.TempDir(), "notes.txt", "x")
		if _, err := discoverFiles(src, "", ".json"); !errors.Is(err, rstpost.ErrUnsupportedSource) {
			t.Errorf("error = %v, want ErrUnsupportedSource", err)
		}
	})

	t.Run("no sources", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		writeFile(t, dir, "readme.txt", "x")
		if _, err := discoverFiles(dir, "", ".json"); !errors.Is(err, ErrNoSources) {
			t.Errorf("error = %v, want ErrNoSources", err)
		}
	})

	t.Run("missing path", func(t *testing.T) {
		t.Parallel()

		_, err := discoverFiles(filepath.Join(t.TempDir(), "gone"), "", ".json")
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("error = %v, want os.ErrNotExist", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestResolveOutputPath - Output layout
// ---------------------------------------------------------------------------

func TestResolveOutputPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		outputDir string
		baseDir   string
		ext       string
		want      string
	}{
		{"next to source", "posts/a.rst", "", "", ".json", "posts/a.json"},
		{"double suffix", "posts/a.rst.txt", "", "", ".yaml", "posts/a.yaml"},
		{"stdout", "posts/a.rst", "-", "posts", ".json", "-"},
		{"explicit file for single source", "posts/a.rst", "out/record.json", "", ".json", "out/record.json"},
		{"directory for single source", "posts/a.rst", "out", "", ".json", "out/a.json"},
		{"mirror tree", "posts/2024/a.rst", "out", "posts", ".html", "out/2024/a.html"},
		{"file-like dir in batch", "posts/a.rst", "out.json", "posts", ".json", "out.json/a.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := resolveOutputPath(tt.input, tt.outputDir, tt.baseDir, tt.ext)
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("resolveOutputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestValidateWorkers - Bounds
// ---------------------------------------------------------------------------

func TestValidateWorkers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n       int
		wantErr bool
	}{
		{-1, true},
		{0, false},
		{8, false},
		{64, false},
		{65, true},
	}

	for _, tt := range tests {
		err := validateWorkers(tt.n)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateWorkers(%d) error = %v, wantErr %v", tt.n, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, ErrInvalidWorkerCount) {
			t.Errorf("validateWorkers(%d) error = %v, want ErrInvalidWorkerCount", tt.n, err)
		}
	}
}
