package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-rstpost"
	"github.com/alnah/go-rstpost/internal/config"
	"github.com/alnah/go-rstpost/internal/fileutil"
)

// stdoutPath as output writes every record to standard output.
const stdoutPath = "-"

// Sentinel errors for file discovery.
var (
	ErrInvalidWorkerCount = errors.New("invalid worker count")
	ErrNoSources          = errors.New("no post sources found")
)

// FileToConvert represents a single file to process.
type FileToConvert struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all post sources under inputPath.
// ext is the output file extension, including the dot.
func discoverFiles(inputPath, outputDir, ext string) ([]FileToConvert, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if err := validateSourceExtension(inputPath); err != nil {
			return nil, err
		}
		outPath := resolveOutputPath(inputPath, outputDir, "", ext)
		return []FileToConvert{{InputPath: inputPath, OutputPath: outPath}}, nil
	}

	var files []FileToConvert
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.IsSource(path) {
			return nil
		}
		outPath := resolveOutputPath(path, outputDir, inputPath, ext)
		files = append(files, FileToConvert{InputPath: path, OutputPath: outPath})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSources, inputPath)
	}

	return files, nil
}

// resolveOutputPath determines the record path for a post source.
// Sources under a directory keep their relative layout below outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir, ext string) string {
	if outputDir == stdoutPath {
		return stdoutPath
	}

	base := fileutil.TrimSourceExt(inputPath)

	if outputDir == "" {
		return filepath.Join(filepath.Dir(inputPath), base+ext)
	}

	// An explicit file name is only meaningful for a single source.
	if baseInputDir == "" && strings.HasSuffix(outputDir, ext) {
		return outputDir
	}

	if baseInputDir != "" {
		relPath, err := filepath.Rel(baseInputDir, inputPath)
		if err == nil {
			relDir := filepath.Dir(relPath)
			return filepath.Join(outputDir, relDir, base+ext)
		}
	}

	return filepath.Join(outputDir, base+ext)
}

// validateSourceExtension checks that the file has a post source suffix.
func validateSourceExtension(path string) error {
	if !fileutil.IsSource(path) {
		return fmt.Errorf("%w: %s", rstpost.ErrUnsupportedSource, path)
	}
	return nil
}

// validateWorkers checks that the worker count is within valid bounds.
func validateWorkers(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d (must be >= 0, 0 means auto)", ErrInvalidWorkerCount, n)
	}
	if n > config.MaxWorkers {
		return fmt.Errorf("%w: %d (maximum is %d)", ErrInvalidWorkerCount, n, config.MaxWorkers)
	}
	return nil
}
