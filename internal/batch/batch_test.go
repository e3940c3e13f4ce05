// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/pdfmd/pkg/types"
)

// fakeEngine implements Engine. Inputs listed in fail return an error;
// everything else succeeds.
type fakeEngine struct {
	fail   map[string]error
	cancel context.CancelFunc // when set, cancels the context after the first call
	calls  []string
}

func (f *fakeEngine) Convert(ctx context.Context, job types.Job, cfg types.Config, progress io.Writer) error {
	f.calls = append(f.calls, job.Input)
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	if err, ok := f.fail[job.Input]; ok {
		return err
	}
	return nil
}

func TestRunPartialFailure(t *testing.T) {
	inputs := []string{"/docs/a.pdf", "/docs/b.pdf", "/docs/c.pdf"}
	eng := &fakeEngine{fail: map[string]error{
		"/docs/b.pdf": errors.New("engine exited with code 1"),
	}}
	cfg := types.Config{OutputDir: t.TempDir()}

	var log bytes.Buffer
	s := Run(context.Background(), eng, cfg, inputs, &log)

	if s.Total() != 3 {
		t.Fatalf("total = %d, want 3", s.Total())
	}
	// One outcome per input, in input order.
	for i, o := range s.Outcomes {
		if o.Job.Input != inputs[i] {
			t.Errorf("outcome %d input = %q, want %q", i, o.Job.Input, inputs[i])
		}
	}
	if s.Succeeded() != 2 || s.Failed() != 1 {
		t.Errorf("succeeded/failed = %d/%d, want 2/1", s.Succeeded(), s.Failed())
	}
	if !s.HasFailures() {
		t.Error("HasFailures should be true")
	}
	// The failed document never stops its siblings.
	if len(eng.calls) != 3 {
		t.Errorf("engine called %d times, want 3", len(eng.calls))
	}

	out := log.String()
	if !strings.Contains(out, "Batch summary: 2 succeeded, 1 failed") {
		t.Errorf("summary missing from output:\n%s", out)
	}
	if !strings.Contains(out, "failed: b.pdf") {
		t.Errorf("failed file should be listed by name:\n%s", out)
	}
}

func TestRunAllSucceed(t *testing.T) {
	eng := &fakeEngine{}
	cfg := types.Config{OutputDir: t.TempDir()}

	var log bytes.Buffer
	s := Run(context.Background(), eng, cfg, []string{"/docs/report.pdf"}, &log)

	if s.HasFailures() {
		t.Error("HasFailures should be false")
	}
	if s.Succeeded() != 1 || s.Total() != 1 {
		t.Errorf("succeeded/total = %d/%d, want 1/1", s.Succeeded(), s.Total())
	}
	if !strings.Contains(log.String(), "converted: report.pdf") {
		t.Errorf("output missing success line:\n%s", log.String())
	}
}

func TestRunCancelledMidBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	eng := &fakeEngine{
		cancel: cancel,
		fail:   map[string]error{"/docs/a.pdf": context.Canceled},
	}
	cfg := types.Config{OutputDir: t.TempDir()}

	var log bytes.Buffer
	s := Run(ctx, eng, cfg, []string{"/docs/a.pdf", "/docs/b.pdf", "/docs/c.pdf"}, &log)

	// Still one outcome per job.
	if s.Total() != 3 {
		t.Fatalf("total = %d, want 3", s.Total())
	}
	if s.Cancelled() != 3 {
		t.Errorf("cancelled = %d, want 3", s.Cancelled())
	}
	// No further children launched after the interrupt.
	if len(eng.calls) != 1 {
		t.Errorf("engine called %d times, want 1", len(eng.calls))
	}
}

func TestBuildJob(t *testing.T) {
	outRoot := t.TempDir()

	job := BuildJob("/docs/report.pdf", outRoot)
	if job.OutputDir != filepath.Join(outRoot, "report") {
		t.Errorf("OutputDir = %q", job.OutputDir)
	}
	if job.MarkdownPath != filepath.Join(outRoot, "report", "report.md") {
		t.Errorf("MarkdownPath = %q", job.MarkdownPath)
	}
}

func TestBuildJobDisambiguatesExistingOutput(t *testing.T) {
	outRoot := t.TempDir()
	if err := os.MkdirAll(filepath.Join(outRoot, "report"), 0o755); err != nil {
		t.Fatal(err)
	}

	fixed := time.Date(2026, 8, 23, 14, 15, 16, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	job := BuildJob("/docs/report.pdf", outRoot)
	want := filepath.Join(outRoot, "report_20260823_141516")
	if job.OutputDir != want {
		t.Errorf("OutputDir = %q, want %q", job.OutputDir, want)
	}
	if job.MarkdownPath != filepath.Join(want, "report.md") {
		t.Errorf("MarkdownPath = %q", job.MarkdownPath)
	}
}

func TestSanitizeBase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/docs/report.pdf", "report"},
		{"/docs/Q3 Budget (final).pdf", "Q3_Budget_final"},
		{"/docs/notes-v2_draft.pdf", "notes-v2_draft"},
		{"/docs/!!!.pdf", "document"},
	}
	for _, tt := range tests {
		if got := sanitizeBase(tt.in); got != tt.want {
			t.Errorf("sanitizeBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
