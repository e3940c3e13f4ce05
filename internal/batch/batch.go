// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package batch sequences conversion jobs: one child process at a time, one
// outcome per input in input order, partial-failure tolerant. A failed
// document is recorded and the batch moves on; only configuration and file
// selection failures abort a run before it starts.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/pdfmd/pkg/types"
)

// Engine converts a single document. *marker.Engine is the production
// implementation.
type Engine interface {
	Convert(ctx context.Context, job types.Job, cfg types.Config, progress io.Writer) error
}

// now is a seam for timestamp-dependent behavior in tests.
var now = time.Now

// Summary is the accumulated result of one batch run.
type Summary struct {
	Started  time.Time
	Finished time.Time
	Outcomes []types.Outcome
}

// Succeeded returns the number of jobs that produced output.
func (s Summary) Succeeded() int { return s.count(types.JobSucceeded) }

// Failed returns the number of jobs whose engine invocation failed.
func (s Summary) Failed() int { return s.count(types.JobFailed) }

// Cancelled returns the number of jobs skipped after an interrupt.
func (s Summary) Cancelled() int { return s.count(types.JobCancelled) }

// Total returns the total number of jobs in the batch.
func (s Summary) Total() int { return len(s.Outcomes) }

// HasFailures reports whether any job did not succeed.
func (s Summary) HasFailures() bool { return s.Succeeded() != s.Total() }

func (s Summary) count(status types.JobStatus) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// BuildJob derives the per-document destination from the input's base name
// under outputRoot. A destination left behind by a prior run is never
// overwritten; a timestamp suffix disambiguates instead.
func BuildJob(input, outputRoot string) types.Job {
	base := sanitizeBase(input)
	dest := filepath.Join(outputRoot, base)
	if _, err := os.Stat(dest); err == nil {
		dest = filepath.Join(outputRoot, base+"_"+now().Format("20060102_150405"))
	}
	return types.Job{
		Input:        input,
		OutputDir:    dest,
		MarkdownPath: filepath.Join(dest, base+".md"),
	}
}

// sanitizeBase reduces the input's stem to alphanumerics, dashes, and
// underscores, mapping spaces to underscores.
func sanitizeBase(input string) string {
	stem := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	var b strings.Builder
	for _, r := range stem {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case r == '-' || r == '_':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "document"
	}
	return b.String()
}

// Run processes inputs sequentially through the engine, printing per-file
// progress and a final summary to w. Every input gets exactly one outcome
// in input order. After a context cancellation the remaining jobs are
// recorded as cancelled without launching further children.
func Run(ctx context.Context, eng Engine, cfg types.Config, inputs []string, w io.Writer) Summary {
	s := Summary{Started: now()}

	for i, input := range inputs {
		job := BuildJob(input, cfg.OutputDir)
		name := filepath.Base(input)

		if ctx.Err() != nil {
			fmt.Fprintf(w, "cancelled: %s\n", name)
			s.Outcomes = append(s.Outcomes, types.Outcome{Job: job, Status: types.JobCancelled})
			continue
		}

		fmt.Fprintf(w, "\nconverting (%d/%d): %s\n", i+1, len(inputs), name)
		start := now()
		err := eng.Convert(ctx, job, cfg, w)
		elapsed := now().Sub(start)

		switch {
		case err == nil:
			fmt.Fprintf(w, "converted: %s -> %s\n", name, job.MarkdownPath)
			s.Outcomes = append(s.Outcomes, types.Outcome{Job: job, Status: types.JobSucceeded, Duration: elapsed})
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			fmt.Fprintf(w, "cancelled: %s\n", name)
			s.Outcomes = append(s.Outcomes, types.Outcome{Job: job, Status: types.JobCancelled, Duration: elapsed})
		default:
			fmt.Fprintf(w, "failed: %s (%v)\n", name, err)
			s.Outcomes = append(s.Outcomes, types.Outcome{Job: job, Status: types.JobFailed, Err: err.Error(), Duration: elapsed})
		}
	}

	s.Finished = now()
	printSummary(w, s)
	return s
}

func printSummary(w io.Writer, s Summary) {
	fmt.Fprintf(w, "\nBatch summary: %d succeeded, %d failed", s.Succeeded(), s.Failed())
	if c := s.Cancelled(); c > 0 {
		fmt.Fprintf(w, ", %d cancelled", c)
	}
	fmt.Fprintf(w, " (total: %d)\n", s.Total())

	for _, o := range s.Outcomes {
		if o.Status == types.JobFailed {
			fmt.Fprintf(w, "  failed: %s\n", filepath.Base(o.Job.Input))
		}
	}
}
