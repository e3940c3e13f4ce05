// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdfmd CLI, a wrapper around the
// marker_single PDF-to-Markdown engine. The root command converts the given
// documents (or interactively selected ones); history and version are the
// only subcommands.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfmd/internal/config"
	"github.com/pdiddy/pdfmd/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// exitCodeError carries a specific process exit code out of a command.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// rootCmd converts PDFs to Markdown; it is the whole CLI surface apart from
// history and version.
var rootCmd = &cobra.Command{
	Use:   "pdfmd [pdf files...]",
	Short: "Convert PDF files to Markdown with the marker engine",
	Long: `pdfmd converts PDF files into Markdown by driving the external
marker_single engine, with optional Gemini-backed LLM enhancement for
maximum accuracy.

With no arguments pdfmd opens an interactive file picker (falling back to a
text prompt when no terminal is available). Each document produces an output
directory named after it, holding the Markdown file and extracted assets.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	RunE: runConvert,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdfmd.yaml or ~/.config/pdfmd/config.yaml)")

	rootCmd.Flags().String("output-dir", "", "output directory for converted files")
	rootCmd.Flags().Bool("no-llm", false, "disable LLM enhancement for faster (but less accurate) processing")
	rootCmd.Flags().Bool("batch", false, "allow selecting multiple files in the interactive picker")
	rootCmd.Flags().String("device", "", "compute device override: cuda, mps, or cpu")
	rootCmd.Flags().String("report", "", "write a YAML run report to this path")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdfmd")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdfmd"))
		}
	}

	viper.SetEnvPrefix("PDFMD")
	viper.AutomaticEnv()
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
