package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alnah/go-rstpost/internal/fileutil"
	"github.com/alnah/go-rstpost/internal/hints"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// Sentinel errors for batch operations.
var (
	ErrNoInput       = errors.New("no input specified")
	ErrWriteOutput   = errors.New("failed to write output")
	ErrReaderInit    = errors.New("failed to initialize post reader")
	ErrBatchFailures = errors.New("some posts failed to convert")
)

// conversionParams groups settings shared across batch/file conversion.
type conversionParams struct {
	encode encoder

	// stdout receives records whose output path is "-"; mu serializes them.
	stdout io.Writer
	mu     sync.Mutex
}

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// convertBatch processes files concurrently using the reader pool.
// Results keep the order of files.
func convertBatch(ctx context.Context, pool Pool, files []FileToConvert, params *conversionParams) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(pool.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			reader, err := pool.Acquire(ctx)
			if err != nil {
				// Mark the jobs this worker would have taken as failed.
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       fmt.Errorf("%w: %v", ErrReaderInit, err),
					}
				}
				return
			}
			defer pool.Release(reader)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, reader, files[idx], params)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, reader PostReader, f FileToConvert, params *conversionParams) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	post, err := reader.Read(ctx, f.InputPath)
	if err != nil {
		return done(err)
	}

	data, err := params.encode(ctx, post)
	if err != nil {
		return done(fmt.Errorf("encoding %s: %w", f.InputPath, err))
	}

	if f.OutputPath == stdoutPath {
		params.mu.Lock()
		defer params.mu.Unlock()
		if _, err := params.stdout.Write(data); err != nil {
			return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
		}
		return done(nil)
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return done(fmt.Errorf("%w: creating output directory: %w%s", ErrWriteOutput, err, hints.ForOutputDirectory()))
	}

	// #nosec G306 -- records are meant to be readable
	if err := fileutil.WriteFileAtomic(f.OutputPath, data, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %w", ErrWriteOutput, err))
	}

	return done(nil)
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// logResults reports every result and returns the number of failures.
func logResults(logger *slog.Logger, results []ConversionResult) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			logger.Error("conversion failed", "input", r.InputPath, "error", r.Err)
			continue
		}
		logger.Info("created", "output", r.OutputPath)
		logger.Debug("converted", "input", r.InputPath, "duration", r.Duration.Round(time.Millisecond))
	}

	if len(results) > 1 {
		logger.Info("batch done", "succeeded", summary.Succeeded, "failed", summary.Failed)
	}

	return summary.Failed
}
