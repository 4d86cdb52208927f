// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sociometrica/ranking-cs/internal/export"
	"github.com/sociometrica/ranking-cs/internal/rank"
	"github.com/sociometrica/ranking-cs/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a ranked snapshot as CSV, XLSX, and web JSON",
	Long: `Export ranks a stored snapshot run (the latest by default) and writes
the published artifacts: the ranking CSV, the three-sheet XLSX workbook,
and the JSON the web page loads. Filenames embed the run date, so a new
export never overwrites an earlier day's files.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().Int64("run", 0, "run ID to export (default: latest)")
	exportCmd.Flags().Int("min-h-index", 0, "h-index floor (default 1)")
	exportCmd.Flags().String("output-dir", "", "artifact directory (default data/output)")
	exportCmd.Flags().String("base-name", "", "artifact filename prefix (default ranking_cs)")

	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetInt64("run")
	minH, _ := cmd.Flags().GetInt("min-h-index")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	baseName, _ := cmd.Flags().GetString("base-name")

	s, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	info, records, err := loadRun(cmd.Context(), s, runID)
	if err != nil {
		return err
	}

	rows := rank.Aggregate(records, rankingConfig(minH))
	if len(rows) == 0 {
		return fmt.Errorf("run %d produced no ranked rows after filtering; not writing artifacts", info.ID)
	}
	stats := rank.Statistics(rows, time.Now())

	if _, err := export.Export(rows, stats, exportConfig(outputDir, baseName), os.Stdout); err != nil {
		return err
	}

	fmt.Printf("exported %d researcher(s) from run %d\n", len(rows), info.ID)
	return nil
}
