// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfmd/internal/batch"
	"github.com/pdiddy/pdfmd/internal/config"
	"github.com/pdiddy/pdfmd/internal/console"
	"github.com/pdiddy/pdfmd/internal/history"
	"github.com/pdiddy/pdfmd/internal/marker"
	"github.com/pdiddy/pdfmd/internal/picker"
	"github.com/pdiddy/pdfmd/pkg/types"
)

// runConvert is the root command body: resolve configuration, obtain input
// paths, run the batch, report, and map the result to the exit code.
func runConvert(cmd *cobra.Command, args []string) error {
	styles := console.DefaultStyles()
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println(styles.Header.Render("pdfmd - PDF to Markdown"))
	fmt.Println(styles.Subtle.Render("powered by marker + Gemini"))

	cfg, err := resolveConfig(cmd)
	if err != nil {
		var cfgErr *config.Error
		if errors.As(err, &cfgErr) {
			fmt.Fprintln(os.Stderr, styles.Failure.Render("Configuration error: "+cfgErr.Error()))
			fmt.Fprintln(os.Stderr, styles.Subtle.Render(cfgErr.Remedy))
			return &exitCodeError{code: 1}
		}
		return err
	}

	engine, err := marker.Locate()
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.Failure.Render(err.Error()))
		return &exitCodeError{code: 1}
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	printConfig(styles, cfg)

	inputs, err := selectInputs(ctx, cfg, args)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, styles.Warning.Render("Cancelled."))
			return &exitCodeError{code: 130}
		}
		if errors.Is(err, picker.ErrNoFileSelected) {
			fmt.Fprintln(os.Stderr, styles.Failure.Render("No valid PDF files to process."))
			fmt.Fprintln(os.Stderr, styles.Subtle.Render("pass file paths as arguments or select files in the picker"))
			return &exitCodeError{code: 1}
		}
		return err
	}

	summary := batch.Run(ctx, engine, cfg, inputs, os.Stdout)

	if reportPath, _ := cmd.Flags().GetString("report"); reportPath != "" {
		if err := batch.WriteReport(reportPath, cfg, summary); err != nil {
			fmt.Fprintln(os.Stderr, styles.Warning.Render("warning: "+err.Error()))
		}
	}
	recordHistory(cfg, summary, styles)

	printResult(styles, summary)

	switch {
	case ctx.Err() != nil:
		return &exitCodeError{code: 130}
	case summary.HasFailures():
		return &exitCodeError{code: 1}
	}
	return nil
}

func resolveConfig(cmd *cobra.Command) (types.Config, error) {
	outputDir, _ := cmd.Flags().GetString("output-dir")
	noLLM, _ := cmd.Flags().GetBool("no-llm")
	batchMode, _ := cmd.Flags().GetBool("batch")
	device, _ := cmd.Flags().GetString("device")

	return config.Resolve(viper.GetViper(), config.Overrides{
		OutputDir:  outputDir,
		DisableLLM: noLLM,
		BatchMode:  batchMode,
		Device:     device,
	}, loadedSecrets)
}

// selectInputs validates explicit arguments, or falls through to the file
// source chosen by the capability probe when none are given.
func selectInputs(ctx context.Context, cfg types.Config, args []string) ([]string, error) {
	if len(args) > 0 {
		return picker.Validate(args, os.Stderr)
	}
	source := picker.NewSource(cfg.BatchMode, os.Stderr)
	return source.Select(ctx)
}

func printConfig(styles *console.Styles, cfg types.Config) {
	key := "missing"
	if cfg.APIKey != "" {
		key = "configured"
	}
	llm := "no (faster)"
	if cfg.UseLLM {
		llm = "yes (maximum accuracy)"
	}

	fmt.Println()
	rows := [][2]string{
		{"api key", key},
		{"output dir", cfg.OutputDir},
		{"use llm", llm},
		{"device", string(cfg.Device)},
	}
	for _, r := range rows {
		fmt.Printf("  %s  %s\n", styles.Key.Render(fmt.Sprintf("%-10s", r[0])), styles.Value.Render(r[1]))
	}
}

func printResult(styles *console.Styles, s batch.Summary) {
	elapsed := s.Finished.Sub(s.Started).Round(time.Second)
	line := fmt.Sprintf("%d/%d succeeded in %s", s.Succeeded(), s.Total(), elapsed)
	if s.HasFailures() {
		fmt.Println(styles.Failure.Render(line))
		return
	}
	fmt.Println(styles.Success.Render(line))
}

// recordHistory appends the run to the history store. Failures are
// warnings only.
func recordHistory(cfg types.Config, s batch.Summary, styles *console.Styles) {
	if cfg.HistoryDir == "" {
		return
	}
	store, err := history.NewStore(cfg.HistoryDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, styles.Warning.Render("warning: "+err.Error()))
		return
	}
	defer store.Close()

	if _, err := store.RecordRun(context.Background(), cfg, s); err != nil {
		fmt.Fprintln(os.Stderr, styles.Warning.Render("warning: recording history: "+err.Error()))
	}
}
