// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfmd/pkg/types"
)

// Report is the YAML run report written when the caller asks for one.
type Report struct {
	StartedAt  time.Time    `yaml:"started_at"`
	FinishedAt time.Time    `yaml:"finished_at"`
	Device     types.Device `yaml:"device"`
	UseLLM     bool         `yaml:"use_llm"`
	Succeeded  int          `yaml:"succeeded"`
	Failed     int          `yaml:"failed"`
	Cancelled  int          `yaml:"cancelled,omitempty"`
	Total      int          `yaml:"total"`
	Jobs       []JobRecord  `yaml:"jobs"`
}

// JobRecord is one job's entry in the run report.
type JobRecord struct {
	Input     string          `yaml:"input"`
	OutputDir string          `yaml:"output_dir"`
	Status    types.JobStatus `yaml:"status"`
	Error     string          `yaml:"error,omitempty"`
	Duration  string          `yaml:"duration"`
}

// NewReport flattens a summary and the run configuration into a Report.
func NewReport(cfg types.Config, s Summary) Report {
	r := Report{
		StartedAt:  s.Started,
		FinishedAt: s.Finished,
		Device:     cfg.Device,
		UseLLM:     cfg.UseLLM,
		Succeeded:  s.Succeeded(),
		Failed:     s.Failed(),
		Cancelled:  s.Cancelled(),
		Total:      s.Total(),
	}
	for _, o := range s.Outcomes {
		r.Jobs = append(r.Jobs, JobRecord{
			Input:     o.Job.Input,
			OutputDir: o.Job.OutputDir,
			Status:    o.Status,
			Error:     o.Err,
			Duration:  o.Duration.Round(time.Millisecond).String(),
		})
	}
	return r
}

// WriteReport marshals the run report to YAML at path, creating parent
// directories as needed.
func WriteReport(path string, cfg types.Config, s Summary) error {
	data, err := yaml.Marshal(NewReport(cfg, s))
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing run report: %w", err)
	}
	return nil
}
