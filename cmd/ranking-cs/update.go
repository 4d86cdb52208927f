// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sociometrica/ranking-cs/internal/export"
	"github.com/sociometrica/ranking-cs/internal/fetch"
	"github.com/sociometrica/ranking-cs/internal/normalize"
	"github.com/sociometrica/ranking-cs/internal/rank"
	"github.com/sociometrica/ranking-cs/internal/seed"
	"github.com/sociometrica/ranking-cs/internal/store"
	"github.com/sociometrica/ranking-cs/pkg/types"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Run the full pipeline: harvest, fetch, rank, export",
	Long: `Update chains the whole pipeline into one run: harvest candidate
authors from OpenAlex, optionally fetch Scholar profiles for a seed list
(--seed), merge both into a single snapshot, and export the ranked
artifacts. Scholar records win over OpenAlex records for the same
researcher because the batch stores them first.`,
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().String("seed", "", "seed list of Scholar IDs to fetch in addition to the harvest")
	updateCmd.Flags().Int("min-h-index", 0, "h-index floor for the ranking (default 1)")
	updateCmd.Flags().String("output-dir", "", "artifact directory (default data/output)")
	updateCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")

	rootCmd.AddCommand(updateCmd)
}

func runUpdate(cmd *cobra.Command, args []string) error {
	seedPath, _ := cmd.Flags().GetString("seed")
	minH, _ := cmd.Flags().GetInt("min-h-index")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	ctx := cmd.Context()
	started := time.Now()
	client := &http.Client{Timeout: durationSetting(timeout, "http.timeout", defaultTimeout)}

	var records []types.AuthorRecord
	var failures []types.FailureEntry

	// Scholar profiles first so they win the dedupe in the ranking.
	if seedPath != "" {
		seeds, err := seed.Load(seedPath)
		if err != nil {
			return err
		}

		fetchCfg := types.FetchConfig{
			HTTPConfig:   httpConfig(timeout),
			MaxRetries:   intSetting(0, "fetch.max_retries", defaultMaxRetries),
			RequestDelay: durationSetting(0, "fetch.request_delay", defaultRequestDelay),
			RetryDelay:   durationSetting(0, "fetch.retry_delay", defaultRetryDelay),
		}
		src := &fetch.ScholarSource{Client: client, Config: fetchCfg}

		fmt.Printf("fetching %d seeded profile(s) from Google Scholar\n", len(seeds))
		result := fetch.FetchBatch(ctx, src, seeds, fetchCfg, os.Stdout)
		records = append(records, result.Records...)
		failures = append(failures, result.Failures...)
	}

	harvestCfg := types.HarvestConfig{
		HTTPConfig: httpConfig(timeout),
		Email:      secretDefault("openalex-email", stringSetting("", "harvest.email", "")),
		MinHIndex:  intSetting(0, "harvest.min_h_index", 1),
		PerPage:    intSetting(0, "harvest.per_page", 200),
		PageDelay:  durationSetting(0, "harvest.page_delay", defaultPageDelay),
	}
	openalex := &fetch.OpenAlexSource{Client: client, Email: harvestCfg.Email, Config: harvestCfg.HTTPConfig}

	fmt.Println("harvesting OpenAlex")
	raws, err := openalex.HarvestChile(ctx, harvestCfg, os.Stdout)
	if err != nil {
		return fmt.Errorf("harvest: %w", err)
	}
	for _, raw := range raws {
		record, err := normalize.Normalize(&raw, raw.OpenAlexID, started)
		if err != nil {
			failures = append(failures, types.FailureEntry{
				Identifier: raw.OpenAlexID,
				Name:       raw.Name,
				LastError:  err.Error(),
			})
			continue
		}
		records = append(records, record)
	}

	if len(records) == 0 {
		return fmt.Errorf("pipeline produced no records; keeping previous artifacts")
	}

	s, err := store.Open(storeConfig())
	if err != nil {
		return err
	}
	defer s.Close()

	runID, err := s.SaveRun(ctx, "update", started, records, failures)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	fmt.Printf("run %d: %d record(s) stored, %d failed\n", runID, len(records), len(failures))

	rows := rank.Aggregate(records, rankingConfig(minH))
	if len(rows) == 0 {
		return fmt.Errorf("run %d produced no ranked rows after filtering; not writing artifacts", runID)
	}
	stats := rank.Statistics(rows, time.Now())

	if _, err := export.Export(rows, stats, exportConfig(outputDir, ""), os.Stdout); err != nil {
		return err
	}

	fmt.Printf("exported %d researcher(s)\n", len(rows))
	fetch.PrintFailureSummary(failures, os.Stdout)
	return nil
}
