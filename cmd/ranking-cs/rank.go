// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sociometrica/ranking-cs/internal/rank"
	"github.com/sociometrica/ranking-cs/internal/store"
	"github.com/sociometrica/ranking-cs/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank a stored snapshot and print the table",
	Long: `Rank loads a snapshot run from the database (the latest by default),
applies the exclusion filters and the h-index floor, and prints the
ranked table. The stored snapshot is not modified; ranking is a pure
recomputation and can be repeated with different filters.`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().Int64("run", 0, "run ID to rank (default: latest)")
	rankCmd.Flags().Int("min-h-index", 0, "h-index floor (default 1)")
	rankCmd.Flags().Int("top", 50, "number of rows to print (0 = all)")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetInt64("run")
	minH, _ := cmd.Flags().GetInt("min-h-index")
	top, _ := cmd.Flags().GetInt("top")

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
		return fmt.Errorf("run %d produced no ranked rows after filtering", info.ID)
	}
	stats := rank.Statistics(rows, time.Now())

	fmt.Printf("run %d (%s, %s): %d ranked of %d stored\n\n",
		info.ID, info.Source, info.StartedAt.Format("2006-01-02"), len(rows), len(records))

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tNAME\tINSTITUTION\tDISC\tH\tCITATIONS")
	for i, row := range rows {
		if top > 0 && i >= top {
			break
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%d\n",
			row.Rank, row.Name, row.ShortAffiliation, row.DisciplineCode, row.HIndex, row.Citations)
	}
	w.Flush()

	fmt.Printf("\nmean h-index %.2f, median %.2f, max %d, total citations %d\n",
		stats.MeanHIndex, stats.MedianHIndex, stats.MaxHIndex, stats.TotalCitations)
	return nil
}

// loadRun resolves a run ID (0 means latest) and loads its records.
func loadRun(ctx context.Context, s *store.Store, runID int64) (store.RunInfo, []types.AuthorRecord, error) {
	var info store.RunInfo
	var err error
	if runID == 0 {
		info, err = s.LatestRun(ctx)
	} else {
		info, err = s.Run(ctx, runID)
	}
	if err != nil {
		return store.RunInfo{}, nil, err
	}

	records, err := s.Records(ctx, info.ID)
	if err != nil {
		return store.RunInfo{}, nil, err
	}
	return info, records, nil
}
