// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package marker

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/pdfmd/internal/batch"
	"github.com/pdiddy/pdfmd/pkg/types"
)

// TestBatchEndToEnd drives the real engine wrapper through the batch
// orchestrator with the child process stubbed out: one input document, the
// engine writes the expected Markdown, the summary reports 1/1 succeeded.
func TestBatchEndToEnd(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(pdf, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatal(err)
	}
	outRoot := filepath.Join(dir, "output")

	ex := &fakeExecutor{
		binPath: "marker_single",
		run: func(ctx context.Context, args, env []string, stdout, stderr io.Writer) error {
			// The stub honors the engine contract: write <base>.md into
			// the directory given by --output_dir.
			var outDir string
			for i, a := range args {
				if a == "--output_dir" && i+1 < len(args) {
					outDir = args[i+1]
				}
			}
			return os.WriteFile(filepath.Join(outDir, "report.md"), []byte("# Report"), 0o644)
		},
	}
	eng, err := locate(ex)
	if err != nil {
		t.Fatalf("locate: %v", err)
	}

	cfg := types.Config{
		APIKey:    "AIzaSyValidKey123",
		OutputDir: outRoot,
		UseLLM:    true,
		Device:    types.DeviceCPU,
	}

	var log bytes.Buffer
	summary := batch.Run(context.Background(), eng, cfg, []string{pdf}, &log)

	if summary.HasFailures() {
		t.Fatalf("batch failed:\n%s", log.String())
	}
	if summary.Succeeded() != 1 || summary.Total() != 1 {
		t.Errorf("succeeded/total = %d/%d, want 1/1", summary.Succeeded(), summary.Total())
	}

	md := filepath.Join(outRoot, "report", "report.md")
	if _, err := os.Stat(md); err != nil {
		t.Errorf("expected output at %s: %v", md, err)
	}
	if !strings.Contains(log.String(), "Batch summary: 1 succeeded, 0 failed") {
		t.Errorf("summary line missing:\n%s", log.String())
	}
}
