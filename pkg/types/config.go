// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data types for pdfmd: the resolved
// configuration, conversion jobs, and batch outcomes.
package types

// Device identifies the compute backend passed to the conversion engine.
type Device string

const (
	DeviceCUDA Device = "cuda"
	DeviceMPS  Device = "mps"
	DeviceCPU  Device = "cpu"
)

// Config is the fully resolved configuration for one run. It is built once
// at startup and passed by value; nothing mutates it afterwards.
type Config struct {
	// APIKey is the credential for the cloud LLM enhancement step.
	// Never serialized.
	APIKey string `json:"-" yaml:"-"`

	// OutputDir is the root directory for converted output (default "./output").
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// UseLLM enables LLM-assisted conversion for maximum accuracy.
	UseLLM bool `json:"use_llm" yaml:"use_llm"`

	// Device is the compute backend passed to the engine via TORCH_DEVICE.
	Device Device `json:"device" yaml:"device"`

	// BatchMode allows multiple files in the interactive picker.
	BatchMode bool `json:"batch_mode" yaml:"batch_mode"`

	// HistoryDir is the directory holding the run-history database.
	// Empty disables history recording.
	HistoryDir string `json:"history_dir,omitempty" yaml:"history_dir,omitempty"`
}
