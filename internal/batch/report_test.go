// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package batch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdfmd/pkg/types"
)

func sampleSummary() Summary {
	return Summary{
		Started:  time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC),
		Finished: time.Date(2026, 8, 23, 10, 5, 0, 0, time.UTC),
		Outcomes: []types.Outcome{
			{
				Job:      types.Job{Input: "/docs/a.pdf", OutputDir: "/out/a"},
				Status:   types.JobSucceeded,
				Duration: 90 * time.Second,
			},
			{
				Job:    types.Job{Input: "/docs/b.pdf", OutputDir: "/out/b"},
				Status: types.JobFailed,
				Err:    "engine exited with code 1",
			},
		},
	}
}

func TestNewReport(t *testing.T) {
	cfg := types.Config{Device: types.DeviceCUDA, UseLLM: true}
	r := NewReport(cfg, sampleSummary())

	assert.Equal(t, 1, r.Succeeded)
	assert.Equal(t, 1, r.Failed)
	assert.Equal(t, 2, r.Total)
	assert.Equal(t, types.DeviceCUDA, r.Device)
	require.Len(t, r.Jobs, 2)
	assert.Equal(t, "1m30s", r.Jobs[0].Duration)
	assert.Equal(t, "engine exited with code 1", r.Jobs[1].Error)
}

func TestWriteReportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "run.yaml")
	cfg := types.Config{Device: types.DeviceCPU, UseLLM: false}

	require.NoError(t, WriteReport(path, cfg, sampleSummary()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got Report
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, types.JobFailed, got.Jobs[1].Status)
	assert.Equal(t, "/docs/a.pdf", got.Jobs[0].Input)
}
