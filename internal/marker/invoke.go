// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package marker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/pdiddy/pdfmd/pkg/types"
)

// geminiService is the engine's service class for Gemini-backed enhancement.
const geminiService = "marker.services.gemini.GoogleGeminiService"

// diagnosticLimit bounds the stderr tail carried in a ConversionError.
const diagnosticLimit = 4096

// ConversionError describes a failed engine invocation for one document.
// It is recovered at the batch level; one failed document never aborts
// its siblings.
type ConversionError struct {
	Input      string
	ExitCode   int
	Diagnostic string
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("converting %s: engine exited with code %d", e.Input, e.ExitCode)
	if e.Diagnostic != "" {
		msg += "\n" + e.Diagnostic
	}
	return msg
}

// Convert runs the engine for one job. Configuration reaches the child
// through flags (output dir, LLM service) and environment variables
// (GOOGLE_API_KEY, TORCH_DEVICE). Progress lines from the engine's stdout
// are streamed to progress. Success means exit code zero and the expected
// Markdown file existing afterwards; anything else is a *ConversionError.
func (e *Engine) Convert(ctx context.Context, job types.Job, cfg types.Config, progress io.Writer) error {
	if err := os.MkdirAll(job.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", job.OutputDir, err)
	}

	args := []string{
		job.Input,
		"--output_dir", job.OutputDir,
		"--output_format", "markdown",
	}
	if cfg.UseLLM {
		args = append(args, "--use_llm", "--llm_service", geminiService)
	}

	env := []string{
		"GOOGLE_API_KEY=" + cfg.APIKey,
		"TORCH_DEVICE=" + string(cfg.Device),
	}

	var stderr tailBuffer
	if err := e.exec.Run(ctx, e.bin, args, env, progress, &stderr); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &ConversionError{
			Input:      job.Input,
			ExitCode:   exitCode(err),
			Diagnostic: stderr.String(),
		}
	}

	if _, err := os.Stat(job.MarkdownPath); err != nil {
		return &ConversionError{
			Input:      job.Input,
			ExitCode:   0,
			Diagnostic: fmt.Sprintf("engine exited cleanly but %s was not produced", job.MarkdownPath),
		}
	}

	return nil
}

// exitCode extracts the child's exit status, or -1 when the process did not
// run to completion.
func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// tailBuffer keeps only the last diagnosticLimit bytes written to it, so a
// chatty engine cannot bloat the error carried into the run summary.
type tailBuffer struct {
	data []byte
}

func (b *tailBuffer) Write(p []byte) (int, error) {
	b.data = append(b.data, p...)
	if over := len(b.data) - diagnosticLimit; over > 0 {
		b.data = b.data[over:]
	}
	return len(p), nil
}

func (b *tailBuffer) String() string {
	return strings.TrimSpace(string(b.data))
}
