// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package marker invokes the external marker_single PDF-to-Markdown engine
// as a child process and classifies the outcome of each invocation.
package marker

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// binMarker is the conversion engine binary expected on PATH.
const binMarker = "marker_single"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args, env []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args, env []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), env...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec executor = &osExecutor{}

// Engine wraps one located conversion engine binary.
type Engine struct {
	bin  string
	exec executor
}

// Locate finds the marker_single binary on PATH. A missing binary is a
// startup error; the message carries the install remedy.
func Locate() (*Engine, error) {
	return locate(defaultExec)
}

func locate(ex executor) (*Engine, error) {
	path, err := ex.LookPath(binMarker)
	if err != nil {
		return nil, fmt.Errorf(
			"%s not found on PATH: %w\ninstall it with: pip install 'marker-pdf[full]'",
			binMarker, err,
		)
	}
	return &Engine{bin: path, exec: ex}, nil
}

// Bin returns the resolved path of the engine binary.
func (e *Engine) Bin() string { return e.bin }
