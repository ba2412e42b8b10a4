// Package batch removes comments from every HTML file under a set of roots
package batch

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"bennypowers.dev/decomment/internal/config"
	"bennypowers.dev/decomment/internal/decomment"
	"bennypowers.dev/decomment/internal/log"
)

// Summary reports the outcome of one batch run
type Summary struct {
	RunID                 string
	TotalFiles            int
	ProcessedFiles        int
	ModifiedFiles         int
	FailedFiles           int
	MarkupCommentsRemoved int
	ScriptCommentsRemoved int
	StyleCommentsRemoved  int
	// RegionFailures counts script and style regions left unmodified in
	// files that were otherwise processed
	RegionFailures int
	Failures       []FileFailure
}

// FileFailure records a document that could not be processed
type FileFailure struct {
	Path string
	Err  error
}

func (f FileFailure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f FileFailure) Unwrap() error {
	return f.Err
}

// String renders the completion line logged at the end of a run. The
// processed count is the number of files that changed (or would change on a
// dry run), out of every file discovered.
func (s *Summary) String() string {
	return fmt.Sprintf("Completed: Processed %d/%d HTML files, removed %d HTML comments, %d script comments, %d style comments",
		s.ModifiedFiles, s.TotalFiles, s.MarkupCommentsRemoved, s.ScriptCommentsRemoved, s.StyleCommentsRemoved)
}

// fileResult is produced by exactly one worker and merged after all finish
type fileResult struct {
	path    string
	result  *decomment.DocumentResult
	written bool
	err     error
}

// Run discovers files under roots and processes them on a bounded pool of
// workers. A document that fails is recorded in the summary and never stops
// its siblings. Modified files are rewritten atomically unless cfg.DryRun is
// set. The returned error is non-nil only when discovery fails or ctx is
// cancelled; the summary is valid either way.
func Run(ctx context.Context, cfg *config.Config, roots ...string) (*Summary, error) {
	runID, err := NewRunID()
	if err != nil {
		return nil, fmt.Errorf("failed to create run id: %w", err)
	}
	summary := &Summary{RunID: runID}

	if len(roots) == 0 {
		roots = []string{"."}
	}

	files, err := Discover(roots, cfg.Include, cfg.Exclude)
	if err != nil {
		return summary, err
	}
	summary.TotalFiles = len(files)

	if len(files) == 0 {
		log.Warn("No HTML files found in %s", strings.Join(roots, ", "))
		return summary, nil
	}

	log.Info("Run %s: processing %d files", runID, len(files))

	results := process(ctx, cfg, files)
	for _, r := range results {
		summary.merge(r)
	}

	if err := ctx.Err(); err != nil {
		log.Warn("Run %s cancelled: %v", runID, err)
		return summary, err
	}

	log.Info("%s", summary)
	return summary, nil
}

func process(ctx context.Context, cfg *config.Config, files []string) []fileResult {
	workers := max(cfg.Concurrency, 1)
	results := make([]fileResult, len(files))
	slots := make(chan struct{}, workers)

	var wg sync.WaitGroup
	for i, path := range files {
		results[i].path = path

		select {
		case slots <- struct{}{}:
		case <-ctx.Done():
			results[i].err = ctx.Err()
			continue
		}

		wg.Add(1)
		go func() {
			defer func() {
				<-slots
				wg.Done()
			}()
			results[i] = processFile(ctx, cfg, path)
		}()
	}
	wg.Wait()

	return results
}

func processFile(ctx context.Context, cfg *config.Config, path string) fileResult {
	r := fileResult{path: path}

	info, err := os.Stat(path)
	if err != nil {
		r.err = err
		return r
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: files discovered under user-supplied roots
	if err != nil {
		r.err = err
		return r
	}

	result, err := decomment.Process(ctx, string(data), cfg.Options())
	if err != nil {
		r.err = err
		return r
	}
	r.result = result

	if !result.Modified || cfg.DryRun {
		return r
	}
	if err := writeFileAtomic(path, result.Content, info.Mode().Perm()); err != nil {
		r.err = err
		return r
	}
	r.written = true
	return r
}

func (s *Summary) merge(r fileResult) {
	if r.err != nil {
		s.FailedFiles++
		s.Failures = append(s.Failures, FileFailure{Path: r.path, Err: r.err})
		log.Error("Failed to process %s: %v", r.path, r.err)
		return
	}

	s.ProcessedFiles++
	s.MarkupCommentsRemoved += r.result.MarkupRemoved
	s.ScriptCommentsRemoved += r.result.ScriptRemoved
	s.StyleCommentsRemoved += r.result.StyleRemoved
	if r.result.Modified {
		s.ModifiedFiles++
	}

	for _, failure := range r.result.Failures {
		s.RegionFailures++
		log.Warn("%s: %v", r.path, failure)
	}

	switch {
	case r.written:
		log.Debug("Rewrote %s (%d comments removed)", r.path, r.result.Removed())
	case r.result.Modified:
		log.Debug("Would rewrite %s (%d comments removed)", r.path, r.result.Removed())
	default:
		log.Debug("Unchanged %s", r.path)
	}
}
