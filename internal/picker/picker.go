// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package picker obtains and validates the input document paths for a run.
// Two sources implement the FileSource interface: an interactive terminal
// picker and a line-oriented prompt. A capability probe selects between
// them at startup; explicit command-line paths bypass both but share the
// same validation.
package picker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/term"
)

// ErrNoFileSelected means no valid input document was obtained from any
// source. It is fatal for the run.
var ErrNoFileSelected = errors.New("no PDF files selected")

// FileSource yields an ordered, validated, non-empty sequence of input
// paths, or fails with ErrNoFileSelected.
type FileSource interface {
	Select(ctx context.Context) ([]string, error)
}

// NewSource probes the terminal capability and returns the interactive
// picker when stdin and stdout are a real terminal, or the textual prompt
// source otherwise. The probe never fails; an absent capability silently
// selects the fallback.
func NewSource(multiple bool, out io.Writer) FileSource {
	if interactiveCapable() {
		return newTUISource(multiple, out)
	}
	return NewPromptSource(os.Stdin, out, multiple)
}

func interactiveCapable() bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Validate filters paths down to existing regular files with a .pdf
// extension. Invalid entries are reported to warn and skipped; an input
// set with no valid entry at all yields ErrNoFileSelected.
func Validate(paths []string, warn io.Writer) ([]string, error) {
	var valid, invalid []string
	for _, p := range paths {
		if IsPDF(p) {
			abs, err := filepath.Abs(p)
			if err != nil {
				abs = p
			}
			valid = append(valid, abs)
		} else {
			invalid = append(invalid, p)
		}
	}

	if len(invalid) > 0 {
		fmt.Fprintf(warn, "skipping %d invalid or non-PDF file(s):\n", len(invalid))
		for _, p := range invalid {
			fmt.Fprintf(warn, "  - %s\n", p)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoFileSelected
	}
	return valid, nil
}

// IsPDF reports whether path is an existing, readable regular file with a
// .pdf extension (case-insensitive).
func IsPDF(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return false
	}
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
