// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config resolves the run configuration from the settings file,
// environment variables, command-line overrides, and the secrets directory.
// Resolution happens once at startup; the result is immutable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/pdfmd/internal/secrets"
	"github.com/pdiddy/pdfmd/pkg/types"
)

// Settings keys understood in the config file and under the PDFMD env prefix.
const (
	KeyAPIKey           = "api_key"
	KeyOutputDir        = "output_dir"
	KeyUseLLM           = "use_llm"
	KeyDevice           = "device"
	KeyDeviceAutoDetect = "device_auto_detect"
	KeyHistoryDir       = "history_dir"
)

// placeholderKey is the value shipped in the example settings file; it is
// never a valid credential.
const placeholderKey = "your_api_key_here"

// Error is a configuration failure: a missing or invalid setting that must
// be fixed before any conversion can run.
type Error struct {
	Setting string
	Reason  string
	Remedy  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Setting, e.Reason)
}

// Overrides carries command-line values that take precedence over the
// settings file and environment.
type Overrides struct {
	OutputDir  string
	DisableLLM bool
	BatchMode  bool
	Device     string
}

// SetDefaults registers the default values for all settings on v. Call it
// before reading the config file so absent keys resolve to usable values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyOutputDir, "./output")
	v.SetDefault(KeyUseLLM, true)
	v.SetDefault(KeyDeviceAutoDetect, true)
	v.SetDefault(KeyHistoryDir, defaultHistoryDir())
}

func defaultHistoryDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "pdfmd")
}

// Resolve builds the immutable run configuration. The credential is looked
// up in order: the api_key setting (file or PDFMD_API_KEY), the
// GEMINI_API_KEY and GOOGLE_API_KEY environment variables, then the
// .secrets/ directory. A missing or placeholder credential is a terminal
// *Error reported before any file is touched.
func Resolve(v *viper.Viper, ov Overrides, secretValues map[string]string) (types.Config, error) {
	cfg := types.Config{
		OutputDir:  v.GetString(KeyOutputDir),
		UseLLM:     v.GetBool(KeyUseLLM),
		BatchMode:  ov.BatchMode,
		HistoryDir: v.GetString(KeyHistoryDir),
	}

	if ov.OutputDir != "" {
		cfg.OutputDir = ov.OutputDir
	}
	if ov.DisableLLM {
		cfg.UseLLM = false
	}

	cfg.APIKey = resolveAPIKey(v, secretValues)
	if !ValidAPIKey(cfg.APIKey) {
		return types.Config{}, &Error{
			Setting: "api_key",
			Reason:  "is not set or invalid",
			Remedy: "add your Gemini API key to pdfmd.yaml, set GEMINI_API_KEY, or place it in .secrets/gemini-api-key\n" +
				"get a key from: https://aistudio.google.com/app/apikey",
		}
	}

	device := ov.Device
	if device == "" {
		device = v.GetString(KeyDevice)
	}
	cfg.Device = ResolveDevice(device, v.GetBool(KeyDeviceAutoDetect))

	return cfg, nil
}

func resolveAPIKey(v *viper.Viper, secretValues map[string]string) string {
	if key := strings.TrimSpace(v.GetString(KeyAPIKey)); key != "" {
		return key
	}
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := strings.TrimSpace(os.Getenv(env)); key != "" {
			return key
		}
	}
	return secretValues[secrets.GeminiAPIKey]
}

// ValidAPIKey reports whether key looks like a usable credential: non-empty,
// not the shipped placeholder, and long enough to plausibly be a real key.
func ValidAPIKey(key string) bool {
	key = strings.TrimSpace(key)
	if key == "" || key == placeholderKey {
		return false
	}
	return len(key) > 10
}
