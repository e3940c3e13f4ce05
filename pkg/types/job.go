// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Job describes one document's conversion attempt within a batch.
type Job struct {
	// Input is the validated path to the source PDF.
	Input string `json:"input" yaml:"input"`

	// OutputDir is the per-document destination directory. The engine
	// writes <base>.md and extracted assets into it.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// MarkdownPath is the expected Markdown file inside OutputDir.
	MarkdownPath string `json:"markdown_path" yaml:"markdown_path"`
}

// JobStatus classifies the outcome of a single job.
type JobStatus string

const (
	JobSucceeded JobStatus = "succeeded"
	JobFailed    JobStatus = "failed"
	JobCancelled JobStatus = "cancelled"
)

// Outcome is the recorded result of one job. Err holds the diagnostic text
// for failed jobs and is empty otherwise.
type Outcome struct {
	Job      Job           `json:"job" yaml:"job"`
	Status   JobStatus     `json:"status" yaml:"status"`
	Err      string        `json:"error,omitempty" yaml:"error,omitempty"`
	Duration time.Duration `json:"duration" yaml:"duration"`
}
