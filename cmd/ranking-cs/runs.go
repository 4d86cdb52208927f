// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sociometrica/ranking-cs/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored snapshot runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := store.Open(storeConfig())
		if err != nil {
			return err
		}
		defer s.Close()

		runs, err := s.ListRuns(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no stored runs")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "RUN\tSOURCE\tSTARTED\tRECORDS\tFAILURES")
		for _, run := range runs {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n",
				run.ID, run.Source, run.StartedAt.Format("2006-01-02 15:04"), run.RecordCount, run.FailureCount)
		}
		return w.Flush()
	},
}

func init() {
	runsCmd.Flags().Int("limit", 20, "number of runs to list")
	rootCmd.AddCommand(runsCmd)
}
