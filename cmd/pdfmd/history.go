// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pdfmd/internal/config"
	"github.com/pdiddy/pdfmd/internal/console"
	"github.com/pdiddy/pdfmd/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversion runs",
	Long: `History lists recent batch runs from the local run-history database,
newest first, with per-document outcomes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := viper.GetString(config.KeyHistoryDir)
		if dir == "" {
			return fmt.Errorf("history is disabled (history_dir is empty)")
		}

		store, err := history.NewStore(dir)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		runs, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(runs)
		}

		printRuns(runs)
		return nil
	},
}

func printRuns(runs []history.RunRecord) {
	styles := console.DefaultStyles()
	if len(runs) == 0 {
		fmt.Println(styles.Subtle.Render("no recorded runs"))
		return
	}

	for _, r := range runs {
		head := fmt.Sprintf("run %d  %s  device=%s  %d succeeded / %d failed",
			r.ID, r.StartedAt.Local().Format("2006-01-02 15:04"), r.Device, r.Succeeded, r.Failed)
		if r.Cancelled > 0 {
			head += fmt.Sprintf(" / %d cancelled", r.Cancelled)
		}
		fmt.Println(styles.Header.Render(head))

		for _, j := range r.Jobs {
			mark := styles.Success.Render("ok")
			if j.Status != "succeeded" {
				mark = styles.Failure.Render(string(j.Status))
			}
			fmt.Printf("  %s  %s\n", mark, filepath.Base(j.Input))
		}
	}
}

func init() {
	historyCmd.Flags().Int("limit", 10, "maximum number of runs to list")
	historyCmd.Flags().Bool("json", false, "output runs as JSON")

	rootCmd.AddCommand(historyCmd)
}
