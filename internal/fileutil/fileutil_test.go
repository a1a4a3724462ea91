package fileutil_test

// Notes:
// - WriteFileAtomic error branches after CreateTemp (write, close, chmod)
//   are not tested: triggering them is platform-specific.

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/alnah/go-rstpost/internal/fileutil"
)

// ---------------------------------------------------------------------------
// TestSourceExt - Post source suffixes
// ---------------------------------------------------------------------------

func TestSourceExt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path     string
		wantExt  string
		wantBase string
	}{
		{"hello.rst", ".rst", "hello"},
		{"posts/hello.rst.txt", ".rst.txt", "hello"},
		{"a/b/long.restructuredtext", ".restructuredtext", "long"},
		{"draft.md", ".md", "draft"},
		{"UPPER.RST", ".RST", "UPPER"},
		{"notes.txt", "", "notes"},
		{"archive.rst.bak", "", "archive.rst"},
		{"noext", "", "noext"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.SourceExt(tt.path); got != tt.wantExt {
				t.Errorf("SourceExt(%q) = %q, want %q", tt.path, got, tt.wantExt)
			}
			if got := fileutil.IsSource(tt.path); got != (tt.wantExt != "") {
				t.Errorf("IsSource(%q) = %v", tt.path, got)
			}
			if got := fileutil.TrimSourceExt(tt.path); got != tt.wantBase {
				t.Errorf("TrimSourceExt(%q) = %q, want %q", tt.path, got, tt.wantBase)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriteFileAtomic - Atomic output writes
// ---------------------------------------------------------------------------

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "post.json")

	if err := fileutil.WriteFileAtomic(path, []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := fileutil.WriteFileAtomic(path, []byte(`{"a":2}`), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != `{"a":2}` {
		t.Errorf("content = %s, want second write", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}

	if runtime.GOOS != "windows" {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("Stat: %v", err)
		}
		if info.Mode().Perm() != 0o644 {
			t.Errorf("mode = %v, want 0644", info.Mode().Perm())
		}
	}
}

func TestWriteFileAtomic_MissingDir(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing", "post.json")
	if err := fileutil.WriteFileAtomic(path, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

// ---------------------------------------------------------------------------
// TestFileExists / TestIsFilePath / TestIsURL
// ---------------------------------------------------------------------------

func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "a.rst")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"regular file", file, true},
		{"directory", dir, false},
		{"missing", filepath.Join(dir, "nope.rst"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := fileutil.FileExists(tt.path); got != tt.want {
				t.Errorf("FileExists(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestIsFilePath(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]bool{
		"blog":              false,
		"my-blog":           false,
		"./blog.yaml":       true,
		"../shared/x.yaml":  true,
		"/etc/rstpost.yaml": true,
		`C:\cfg\x.yaml`:     true,
	} {
		if got := fileutil.IsFilePath(input); got != want {
			t.Errorf("IsFilePath(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestIsURL(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]bool{
		"https://blog.example.com": true,
		"http://localhost:8000":    true,
		"ftp://example.com":        false,
		"/blog/":                   false,
		"":                         false,
	} {
		if got := fileutil.IsURL(input); got != want {
			t.Errorf("IsURL(%q) = %v, want %v", input, got, want)
		}
	}
}
