package main

// Notes:
// - Shared fixtures for the command tests: sources, environments, mocks.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alnah/go-rstpost"
)

const samplePost = `rst
===

:date: 2012-12-12 10:30
:author: Jane Roe
:tags: tag1, tag2
:category: notes
:public: false

.. sourcecode:: python

    def hello():
        return 42
`

// testEnv returns an environment writing to buffers, without .env loading.
func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Environment{Stdout: stdout, Stderr: stderr}, stdout, stderr
}

// writeFile writes content to dir/name, creating parent directories.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("MkdirAll error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}
	return path
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile(%s) error = %v", path, err)
	}
	return string(data)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ---------------------------------------------------------------------------
// Mock Implementations - For unit testing
// ---------------------------------------------------------------------------

// mockReader returns a fixed post, or err.
type mockReader struct {
	post *rstpost.Post
	err  error
}

func (m *mockReader) Read(_ context.Context, path string) (*rstpost.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	post := *m.post
	post.Filepath = path
	return &post, nil
}

// mockPool hands out the same reader and counts acquisitions.
type mockPool struct {
	reader     PostReader
	size       int
	acquireErr error

	mu       sync.Mutex
	acquired int
	released int
}

func (m *mockPool) Acquire(_ context.Context) (PostReader, error) {
	if m.acquireErr != nil {
		return nil, m.acquireErr
	}
	m.mu.Lock()
	m.acquired++
	m.mu.Unlock()
	return m.reader, nil
}

func (m *mockPool) Release(PostReader) {
	m.mu.Lock()
	m.released++
	m.mu.Unlock()
}

func (m *mockPool) Size() int {
	return m.size
}

// unsetEnv removes key for the duration of the test and restores it after.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("Unsetenv error = %v", err)
	}
}
