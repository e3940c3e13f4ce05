// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package config

import (
	"os/exec"
	"runtime"

	"github.com/pdiddy/pdfmd/pkg/types"
)

// devProbe abstracts host capability checks so tests can simulate hardware.
type devProbe interface {
	HasBinary(name string) bool
	GOOS() string
	GOARCH() string
}

// hostProbe is the production probe backed by os/exec and the runtime package.
type hostProbe struct{}

func (hostProbe) HasBinary(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func (hostProbe) GOOS() string   { return runtime.GOOS }
func (hostProbe) GOARCH() string { return runtime.GOARCH }

var defaultProbe devProbe = hostProbe{}

// ResolveDevice picks the compute backend identifier passed to the engine.
// An explicit override wins. With auto-detection enabled the probe order is
// CUDA (nvidia-smi on PATH), then Apple silicon (darwin/arm64). Disabled or
// inconclusive detection always yields the generic cpu backend.
func ResolveDevice(override string, autoDetect bool) types.Device {
	return resolveDevice(override, autoDetect, defaultProbe)
}

func resolveDevice(override string, autoDetect bool, probe devProbe) types.Device {
	if override != "" {
		return types.Device(override)
	}
	if !autoDetect {
		return types.DeviceCPU
	}
	if probe.HasBinary("nvidia-smi") {
		return types.DeviceCUDA
	}
	if probe.GOOS() == "darwin" && probe.GOARCH() == "arm64" {
		return types.DeviceMPS
	}
	return types.DeviceCPU
}
