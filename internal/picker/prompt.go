// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package picker

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// PromptSource reads document paths from a line-oriented stream. It is the
// fallback when the interactive picker cannot run (no terminal, dumb
// terminal, piped stdin).
type PromptSource struct {
	in       io.Reader
	out      io.Writer
	multiple bool
}

// NewPromptSource creates a textual file source reading from in and
// prompting on out.
func NewPromptSource(in io.Reader, out io.Writer, multiple bool) *PromptSource {
	return &PromptSource{in: in, out: out, multiple: multiple}
}

// Select prompts for paths, one per line with comma-separated entries
// accepted, until an empty line or EOF. Surrounding quotes are stripped so
// drag-and-dropped paths work. Entries are validated; zero valid paths
// yield ErrNoFileSelected.
func (p *PromptSource) Select(ctx context.Context) ([]string, error) {
	if p.multiple {
		fmt.Fprintln(p.out, "Enter PDF file paths (one per line, comma-separated accepted).")
		fmt.Fprintln(p.out, "Finish with an empty line.")
	} else {
		fmt.Fprintln(p.out, "Enter a PDF file path:")
	}

	var raw []string
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			break
		}
		for _, part := range strings.Split(line, ",") {
			if path := cleanPath(part); path != "" {
				raw = append(raw, path)
			}
		}
		if !p.multiple && len(raw) > 0 {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading file paths: %w", err)
	}

	return Validate(raw, p.out)
}

// cleanPath trims whitespace and the surrounding quotes terminals add when
// a file is dragged into the prompt.
func cleanPath(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}
